package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Loader decodes and validates a catalog feed. Records failing validation
// are dropped with a diagnostic rather than failing the whole load; an
// unparseable document degrades to an empty index.
type Loader struct {
	Validate *validator.Validate
	Log      zerolog.Logger
}

// NewLoader constructs a Loader with a fresh validator.
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{Validate: validator.New(), Log: log}
}

// LoadFile reads the catalog feed from disk and builds an Index. The returned
// index is never nil; on error it is empty so the configurator degrades to
// empty brand and model lists.
func (l *Loader) LoadFile(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return NewIndex(Feed{}), fmt.Errorf("read catalog: %w", err)
	}
	return l.Load(data)
}

// Load decodes and validates raw feed bytes.
func (l *Loader) Load(data []byte) (*Index, error) {
	var feed Feed
	if err := json.Unmarshal(data, &feed); err != nil {
		return NewIndex(Feed{}), fmt.Errorf("decode catalog: %w", err)
	}
	return NewIndex(l.sanitize(feed)), nil
}

func (l *Loader) sanitize(feed Feed) Feed {
	clean := Feed{}
	for _, b := range feed.Brands {
		if err := l.Validate.Struct(b); err != nil {
			l.Log.Warn().Err(err).Str("handle", b.Handle).Msg("drop invalid brand record")
			continue
		}
		clean.Brands = append(clean.Brands, b)
	}
	for _, v := range feed.Variants {
		if err := l.Validate.Struct(v); err != nil {
			l.Log.Warn().Err(err).Str("id", v.ID).Msg("drop invalid variant record")
			continue
		}
		clean.Variants = append(clean.Variants, v)
	}
	for _, m := range feed.Models {
		if err := l.Validate.Struct(m); err != nil {
			l.Log.Warn().Err(err).Str("handle", m.Handle).Msg("drop invalid model record")
			continue
		}
		clean.Models = append(clean.Models, m)
	}
	for _, s := range feed.Standalone {
		if err := l.Validate.Struct(s); err != nil {
			l.Log.Warn().Err(err).Str("id", s.ID).Msg("drop invalid standalone record")
			continue
		}
		clean.Standalone = append(clean.Standalone, s)
	}
	return clean
}

package configurator

import (
	"errors"

	"github.com/casegear/configurator/internal/catalog"
)

// ErrSlotLimit signals that no further configuration slots may be added.
// It is informational, not a failure of the session.
var ErrSlotLimit = errors.New("slot limit reached")

// ErrSlotNotFound is returned when an action references an unknown slot.
var ErrSlotNotFound = errors.New("slot not found")

// Slot is one instance of the repeatable brand -> model -> variants
// resolution sequence. Resolved maps variant roles to compatible variants
// for the chosen model.
type Slot struct {
	ID          string                     `json:"id"`
	BrandHandle string                     `json:"brand,omitempty"`
	ModelHandle string                     `json:"model,omitempty"`
	Notice      string                     `json:"notice,omitempty"`
	Resolved    map[string]catalog.Variant `json:"resolved,omitempty"`
}

// ChooseBrand sets the brand and resets the dependent model choice and
// resolved variants. Already-added ledger lines are deliberately untouched.
func (s *Slot) ChooseBrand(brandHandle string) {
	s.BrandHandle = brandHandle
	s.ModelHandle = ""
	s.Notice = ""
	s.Resolved = nil
}

// ChooseModel resolves the model's compatible variants from the catalog.
// Without a chosen brand, or for a model outside the chosen brand, the call
// is a no-op and reports false.
func (s *Slot) ChooseModel(idx *catalog.Index, modelHandle string) bool {
	if s.BrandHandle == "" {
		return false
	}
	model, ok := idx.ModelByHandle(modelHandle)
	if !ok || model.BrandHandle != s.BrandHandle {
		return false
	}
	s.ModelHandle = model.Handle
	s.Notice = model.Notice
	s.Resolved = idx.VariantsForModel(model.Handle)
	return true
}

// ResolvedVariant returns the variant resolved for a role, if any.
func (s *Slot) ResolvedVariant(role string) (catalog.Variant, bool) {
	v, ok := s.Resolved[role]
	return v, ok
}

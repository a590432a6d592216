package configurator

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/casegear/configurator/internal/catalog"
)

// ActionKind enumerates the mutations a session accepts.
type ActionKind string

const (
	ActionAddSlot          ActionKind = "add_slot"
	ActionRemoveSlot       ActionKind = "remove_slot"
	ActionChooseBrand      ActionKind = "choose_brand"
	ActionChooseModel      ActionKind = "choose_model"
	ActionAddVariant       ActionKind = "add_variant"
	ActionChangeQuantity   ActionKind = "change_quantity"
	ActionRemoveLine       ActionKind = "remove_line"
	ActionToggleStandalone ActionKind = "toggle_standalone"
	ActionReset            ActionKind = "reset"
)

// Action is one user interaction dispatched to the session reducer. Only the
// fields relevant to the kind are read.
type Action struct {
	Kind        ActionKind
	SlotID      string
	BrandHandle string
	ModelHandle string
	Role        string
	VariantID   string
	ItemID      string
	Delta       int
}

// ErrBadAction is returned for actions that reference unknown entities or
// omit required fields.
var ErrBadAction = errors.New("invalid action")

// Session is one configurator embedding: its configuration slots, the
// selection ledger, and the catalog they resolve against. All mutations go
// through Apply; reads go through View or Summary. The mutex serialises
// HTTP access; the core itself assumes single-threaded mutation.
type Session struct {
	ID string

	mu       sync.Mutex
	catalog  *catalog.Index
	maxSlots int
	slots    []*Slot
	ledger   *Ledger
	lastSeen time.Time
	now      func() time.Time
}

// NewSession constructs a session with a single empty slot.
func NewSession(idx *catalog.Index, maxSlots int, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	if maxSlots <= 0 {
		maxSlots = 15
	}
	s := &Session{
		ID:       uuid.NewString(),
		catalog:  idx,
		maxSlots: maxSlots,
		ledger:   NewLedger(),
		now:      now,
	}
	s.lastSeen = now()
	s.slots = []*Slot{s.newSlot()}
	return s
}

func (s *Session) newSlot() *Slot {
	return &Slot{ID: uuid.NewString()}
}

// Apply dispatches an action to the session state. Errors are recoverable
// signals for the caller (unavailable item, slot cap, unknown references);
// the session is never left partially mutated.
func (s *Session) Apply(a Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()

	switch a.Kind {
	case ActionAddSlot:
		if len(s.slots) >= s.maxSlots {
			return ErrSlotLimit
		}
		s.slots = append(s.slots, s.newSlot())
		return nil

	case ActionRemoveSlot:
		// Removing a slot never cascades into the ledger: lines the slot
		// introduced stay until the user removes them explicitly.
		for i, slot := range s.slots {
			if slot.ID == a.SlotID {
				s.slots = append(s.slots[:i], s.slots[i+1:]...)
				return nil
			}
		}
		return ErrSlotNotFound

	case ActionChooseBrand:
		slot, err := s.slot(a.SlotID)
		if err != nil {
			return err
		}
		if a.BrandHandle == "" {
			return fmt.Errorf("brand handle required: %w", ErrBadAction)
		}
		slot.ChooseBrand(a.BrandHandle)
		return nil

	case ActionChooseModel:
		slot, err := s.slot(a.SlotID)
		if err != nil {
			return err
		}
		if !slot.ChooseModel(s.catalog, a.ModelHandle) {
			return fmt.Errorf("model %q not selectable: %w", a.ModelHandle, ErrBadAction)
		}
		return nil

	case ActionAddVariant:
		slot, err := s.slot(a.SlotID)
		if err != nil {
			return err
		}
		variant, ok := slot.ResolvedVariant(a.Role)
		if !ok {
			return fmt.Errorf("role %q not resolved: %w", a.Role, ErrBadAction)
		}
		return s.ledger.AddOrIncrement(variant, a.Role)

	case ActionChangeQuantity:
		s.ledger.ChangeQuantity(a.VariantID, a.Delta)
		return nil

	case ActionRemoveLine:
		s.ledger.Remove(a.VariantID)
		return nil

	case ActionToggleStandalone:
		item, ok := s.catalog.StandaloneByID(a.ItemID)
		if !ok {
			return fmt.Errorf("unknown standalone item %q: %w", a.ItemID, ErrBadAction)
		}
		return s.ledger.ToggleStandalone(item)

	case ActionReset:
		s.ledger.Clear()
		s.slots = []*Slot{s.newSlot()}
		return nil

	default:
		return fmt.Errorf("unknown action kind %q: %w", a.Kind, ErrBadAction)
	}
}

func (s *Session) slot(id string) (*Slot, error) {
	for _, slot := range s.slots {
		if slot.ID == id {
			return slot, nil
		}
	}
	return nil, ErrSlotNotFound
}

// SlotView is the rendering-ready state of one slot.
type SlotView struct {
	ID       string                     `json:"id"`
	Brand    string                     `json:"brand,omitempty"`
	Model    string                     `json:"model,omitempty"`
	Notice   string                     `json:"notice,omitempty"`
	Models   []catalog.Model            `json:"models,omitempty"`
	Resolved map[string]catalog.Variant `json:"resolved,omitempty"`
	Selected map[string]int             `json:"selected,omitempty"`
}

// View is the full post-mutation snapshot the rendering layer consumes.
type View struct {
	SessionID    string         `json:"sessionId"`
	Slots        []SlotView     `json:"slots"`
	SlotsAtLimit bool           `json:"slotsAtLimit"`
	Standalone   map[string]bool `json:"standalone"`
	Summary      Summary        `json:"summary"`
}

// View returns the current derived view-state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := View{
		SessionID:    s.ID,
		Slots:        make([]SlotView, 0, len(s.slots)),
		SlotsAtLimit: len(s.slots) >= s.maxSlots,
		Standalone:   make(map[string]bool),
	}
	for _, slot := range s.slots {
		sv := SlotView{
			ID:       slot.ID,
			Brand:    slot.BrandHandle,
			Model:    slot.ModelHandle,
			Notice:   slot.Notice,
			Resolved: slot.Resolved,
		}
		if slot.BrandHandle != "" {
			sv.Models = s.catalog.ModelsForBrand(slot.BrandHandle)
		}
		if len(slot.Resolved) > 0 {
			sv.Selected = make(map[string]int, len(slot.Resolved))
			for role, v := range slot.Resolved {
				if line, ok := s.ledger.Line(v.ID); ok {
					sv.Selected[role] = line.Quantity
				}
			}
		}
		view.Slots = append(view.Slots, sv)
	}
	for _, item := range s.catalog.StandaloneItems() {
		view.Standalone[item.ID] = s.ledger.StandaloneSelected(item.ID)
	}
	view.Summary = Project(s.ledger, s.catalog.StandaloneItems())
	return view
}

// Summary recomputes the aggregate without the rest of the view.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Project(s.ledger, s.catalog.StandaloneItems())
}

// ClearSelection empties the ledger, e.g. after a successful submission.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Clear()
}

// LastSeen reports the time of the most recent interaction.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Touch refreshes the idle timestamp.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
}

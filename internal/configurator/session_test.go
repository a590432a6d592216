package configurator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return NewSession(testIndex(), 3, nil)
}

func firstSlotID(t *testing.T, s *Session) string {
	t.Helper()
	view := s.View()
	require.NotEmpty(t, view.Slots)
	return view.Slots[0].ID
}

func TestSessionStartsWithOneEmptySlot(t *testing.T) {
	s := newTestSession(t)
	view := s.View()
	require.Len(t, view.Slots, 1)
	require.Empty(t, view.Slots[0].Brand)
	require.True(t, view.Summary.Empty)
}

func TestChooseModelRequiresBrand(t *testing.T) {
	s := newTestSession(t)
	slotID := firstSlotID(t, s)

	err := s.Apply(Action{Kind: ActionChooseModel, SlotID: slotID, ModelHandle: "m1"})
	require.ErrorIs(t, err, ErrBadAction)

	require.NoError(t, s.Apply(Action{Kind: ActionChooseBrand, SlotID: slotID, BrandHandle: "acme"}))
	require.NoError(t, s.Apply(Action{Kind: ActionChooseModel, SlotID: slotID, ModelHandle: "m1"}))

	view := s.View()
	require.Equal(t, "m1", view.Slots[0].Model)
	require.Len(t, view.Slots[0].Resolved, 2)
}

func TestChooseModelOutsideBrandIsRejected(t *testing.T) {
	s := newTestSession(t)
	slotID := firstSlotID(t, s)
	require.NoError(t, s.Apply(Action{Kind: ActionChooseBrand, SlotID: slotID, BrandHandle: "acme"}))

	err := s.Apply(Action{Kind: ActionChooseModel, SlotID: slotID, ModelHandle: "g1"})
	require.ErrorIs(t, err, ErrBadAction)
	require.Empty(t, s.View().Slots[0].Model)
}

func TestBrandSwitchClearsResolutionButKeepsLines(t *testing.T) {
	s := newTestSession(t)
	slotID := firstSlotID(t, s)
	require.NoError(t, s.Apply(Action{Kind: ActionChooseBrand, SlotID: slotID, BrandHandle: "acme"}))
	require.NoError(t, s.Apply(Action{Kind: ActionChooseModel, SlotID: slotID, ModelHandle: "m1"}))
	require.NoError(t, s.Apply(Action{Kind: ActionAddVariant, SlotID: slotID, Role: "ring-mount"}))

	require.NoError(t, s.Apply(Action{Kind: ActionChooseBrand, SlotID: slotID, BrandHandle: "globex"}))

	view := s.View()
	require.Empty(t, view.Slots[0].Model)
	require.Empty(t, view.Slots[0].Resolved)
	// The already-added line survives the reconfiguration.
	require.Len(t, view.Summary.Lines, 1)
	require.Equal(t, "v1", view.Summary.Lines[0].ID)
}

func TestSlotRemovalPreservesLines(t *testing.T) {
	s := newTestSession(t)
	slotID := firstSlotID(t, s)
	require.NoError(t, s.Apply(Action{Kind: ActionChooseBrand, SlotID: slotID, BrandHandle: "acme"}))
	require.NoError(t, s.Apply(Action{Kind: ActionChooseModel, SlotID: slotID, ModelHandle: "m1"}))
	require.NoError(t, s.Apply(Action{Kind: ActionAddVariant, SlotID: slotID, Role: "mag-ring"}))

	require.NoError(t, s.Apply(Action{Kind: ActionRemoveSlot, SlotID: slotID}))

	view := s.View()
	require.Empty(t, view.Slots)
	require.Len(t, view.Summary.Lines, 1)
	require.Equal(t, "v2", view.Summary.Lines[0].ID)
}

func TestSlotCap(t *testing.T) {
	s := newTestSession(t) // cap of 3, one slot pre-created
	require.NoError(t, s.Apply(Action{Kind: ActionAddSlot}))
	require.NoError(t, s.Apply(Action{Kind: ActionAddSlot}))

	err := s.Apply(Action{Kind: ActionAddSlot})
	require.ErrorIs(t, err, ErrSlotLimit)

	view := s.View()
	require.Len(t, view.Slots, 3)
	require.True(t, view.SlotsAtLimit)
}

func TestAddVariantForUnavailableRole(t *testing.T) {
	s := newTestSession(t)
	slotID := firstSlotID(t, s)
	require.NoError(t, s.Apply(Action{Kind: ActionChooseBrand, SlotID: slotID, BrandHandle: "acme"}))
	require.NoError(t, s.Apply(Action{Kind: ActionChooseModel, SlotID: slotID, ModelHandle: "m2"}))

	// m2's ring-mount resolves to the out-of-stock v3.
	err := s.Apply(Action{Kind: ActionAddVariant, SlotID: slotID, Role: "ring-mount"})
	require.ErrorIs(t, err, ErrUnavailable)
	require.True(t, s.Summary().Empty)
}

func TestResetClearsEverything(t *testing.T) {
	s := newTestSession(t)
	slotID := firstSlotID(t, s)
	require.NoError(t, s.Apply(Action{Kind: ActionChooseBrand, SlotID: slotID, BrandHandle: "acme"}))
	require.NoError(t, s.Apply(Action{Kind: ActionChooseModel, SlotID: slotID, ModelHandle: "m1"}))
	require.NoError(t, s.Apply(Action{Kind: ActionAddVariant, SlotID: slotID, Role: "ring-mount"}))
	require.NoError(t, s.Apply(Action{Kind: ActionToggleStandalone, ItemID: "s1"}))
	require.NoError(t, s.Apply(Action{Kind: ActionAddSlot}))

	require.NoError(t, s.Apply(Action{Kind: ActionReset}))

	view := s.View()
	require.Len(t, view.Slots, 1)
	require.Empty(t, view.Slots[0].Brand)
	require.True(t, view.Summary.Empty)
	require.False(t, view.Standalone["s1"])
}

func TestViewReportsSelectedQuantitiesPerRole(t *testing.T) {
	s := newTestSession(t)
	slotID := firstSlotID(t, s)
	require.NoError(t, s.Apply(Action{Kind: ActionChooseBrand, SlotID: slotID, BrandHandle: "acme"}))
	require.NoError(t, s.Apply(Action{Kind: ActionChooseModel, SlotID: slotID, ModelHandle: "m1"}))
	require.NoError(t, s.Apply(Action{Kind: ActionAddVariant, SlotID: slotID, Role: "mag-ring"}))
	require.NoError(t, s.Apply(Action{Kind: ActionAddVariant, SlotID: slotID, Role: "mag-ring"}))

	view := s.View()
	require.Equal(t, map[string]int{"mag-ring": 2}, view.Slots[0].Selected)
}

func TestRegistrySweepEvictsIdleSessions(t *testing.T) {
	current := time.Unix(1000, 0)
	reg := &Registry{
		Catalog:  testIndex(),
		MaxSlots: 3,
		TTL:      time.Minute,
		Now:      func() time.Time { return current },
	}
	s := reg.Create()
	require.Equal(t, 1, reg.Count())

	current = current.Add(30 * time.Second)
	require.Zero(t, reg.Sweep())

	current = current.Add(2 * time.Minute)
	require.Equal(t, 1, reg.Sweep())
	require.Zero(t, reg.Count())

	_, ok := reg.Get(s.ID)
	require.False(t, ok)
}

func TestRegistryNotifiesOnEvict(t *testing.T) {
	current := time.Unix(1000, 0)
	var evicted []string
	reg := &Registry{
		Catalog:  testIndex(),
		MaxSlots: 3,
		TTL:      time.Minute,
		Now:      func() time.Time { return current },
		OnEvict:  func(id string) { evicted = append(evicted, id) },
	}

	removed := reg.Create()
	reg.Remove(removed.ID)
	require.Equal(t, []string{removed.ID}, evicted)

	// Removing an unknown id must not fire the callback.
	reg.Remove("nope")
	require.Len(t, evicted, 1)

	swept := reg.Create()
	current = current.Add(2 * time.Minute)
	require.Equal(t, 1, reg.Sweep())
	require.Equal(t, []string{removed.ID, swept.ID}, evicted)
}

package configurator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casegear/configurator/internal/catalog"
)

func TestProjectEmptyLedger(t *testing.T) {
	led := NewLedger()
	sum := Project(led, testIndex().StandaloneItems())

	require.True(t, sum.Empty)
	require.False(t, sum.NonEmpty)
	require.Empty(t, sum.Lines)
	require.Zero(t, sum.ItemCount)
	require.Zero(t, sum.TotalMinor)
}

// Brand "acme", model "m1": ring-mount V1 at 1000, mag-ring V2 at 500.
// V1 once and V2 twice yields two lines, three items, total 2000.
func TestProjectModelScenario(t *testing.T) {
	idx := testIndex()
	led := NewLedger()
	resolved := idx.VariantsForModel("m1")

	require.NoError(t, led.AddOrIncrement(resolved["ring-mount"], "ring-mount"))
	require.NoError(t, led.AddOrIncrement(resolved["mag-ring"], "mag-ring"))
	require.NoError(t, led.AddOrIncrement(resolved["mag-ring"], "mag-ring"))

	sum := Project(led, idx.StandaloneItems())
	require.Len(t, sum.Lines, 2)
	require.Equal(t, "v1", sum.Lines[0].ID)
	require.Equal(t, 1, sum.Lines[0].Quantity)
	require.Equal(t, "v2", sum.Lines[1].ID)
	require.Equal(t, 2, sum.Lines[1].Quantity)
	require.Equal(t, 3, sum.ItemCount)
	require.Equal(t, int64(2000), sum.TotalMinor)
	require.True(t, sum.NonEmpty)
}

func TestProjectOrdersByCanonicalRole(t *testing.T) {
	led := NewLedger()
	// Select in reverse of the canonical presentation order.
	require.NoError(t, led.AddOrIncrement(catalog.Variant{ID: "c", Title: "Case", UnitPriceMinor: 1, Available: true}, "phone-case"))
	require.NoError(t, led.AddOrIncrement(catalog.Variant{ID: "a", Title: "Adapter", UnitPriceMinor: 1, Available: true}, "adapter"))
	require.NoError(t, led.AddOrIncrement(catalog.Variant{ID: "m", Title: "Mag", UnitPriceMinor: 1, Available: true}, "mag-ring"))
	require.NoError(t, led.AddOrIncrement(catalog.Variant{ID: "r", Title: "Ring", UnitPriceMinor: 1, Available: true}, "ring-mount"))

	sum := Project(led, nil)
	got := make([]string, 0, len(sum.Lines))
	for _, l := range sum.Lines {
		got = append(got, l.ID)
	}
	require.Equal(t, []string{"r", "m", "a", "c"}, got)
}

func TestProjectStandaloneAfterLinesInCatalogOrder(t *testing.T) {
	idx := testIndex()
	led := NewLedger()
	resolved := idx.VariantsForModel("m1")
	require.NoError(t, led.AddOrIncrement(resolved["ring-mount"], "ring-mount"))

	kit, _ := idx.StandaloneByID("s1")
	require.NoError(t, led.ToggleStandalone(kit))

	sum := Project(led, idx.StandaloneItems())
	require.Len(t, sum.Lines, 2)
	require.Equal(t, "v1", sum.Lines[0].ID)
	last := sum.Lines[1]
	require.Equal(t, "s1", last.ID)
	require.True(t, last.Standalone)
	require.Equal(t, 1, last.Quantity)
	require.Equal(t, 2, sum.ItemCount)
	require.Equal(t, int64(1300), sum.TotalMinor)
}

func TestProjectIsIdempotent(t *testing.T) {
	idx := testIndex()
	led := NewLedger()
	resolved := idx.VariantsForModel("m1")
	require.NoError(t, led.AddOrIncrement(resolved["mag-ring"], "mag-ring"))

	first := Project(led, idx.StandaloneItems())
	second := Project(led, idx.StandaloneItems())
	require.Equal(t, first, second)
}

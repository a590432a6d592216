package configurator

import "github.com/casegear/configurator/internal/catalog"

func testIndex() *catalog.Index {
	return catalog.NewIndex(catalog.Feed{
		Brands: []catalog.Brand{
			{Handle: "acme", DisplayName: "Acme"},
			{Handle: "globex", DisplayName: "Globex"},
		},
		Models: []catalog.Model{
			{
				Handle:      "m1",
				DisplayName: "Acme One",
				BrandHandle: "acme",
				Variants:    map[string]string{"ring-mount": "v1", "mag-ring": "v2"},
			},
			{
				Handle:      "m2",
				DisplayName: "Acme Two",
				BrandHandle: "acme",
				Variants:    map[string]string{"ring-mount": "v3"},
				Notice:      "requires firmware 2.0",
			},
			{
				Handle:      "g1",
				DisplayName: "Globex G1",
				BrandHandle: "globex",
				Variants:    map[string]string{"phone-case": "v4"},
			},
		},
		Variants: []catalog.Variant{
			{ID: "v1", Title: "Ring Mount", ProductTitle: "Acme One Mounts", UnitPriceMinor: 1000, Available: true},
			{ID: "v2", Title: "Mag Ring", ProductTitle: "Acme One Mounts", UnitPriceMinor: 500, Available: true},
			{ID: "v3", Title: "Ring Mount XL", UnitPriceMinor: 1200, Available: false},
			{ID: "v4", Title: "Slim Case", UnitPriceMinor: 2500, Available: true},
		},
		Standalone: []catalog.StandaloneItem{
			{ID: "s1", Title: "Cleaning Kit", UnitPriceMinor: 300, Available: true},
			{ID: "s2", Title: "Travel Pouch", UnitPriceMinor: 700, Available: false},
		},
	})
}

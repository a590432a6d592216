package catalog

// Index is a read-only lookup over the validated catalog. Slices preserve
// feed order so dependent UI renders choices deterministically.
type Index struct {
	brands         []Brand
	modelsByBrand  map[string][]Model
	modelByHandle  map[string]Model
	variantByID    map[string]Variant
	standalone     []StandaloneItem
	standaloneByID map[string]StandaloneItem
}

// NewIndex builds an Index from already-validated records. Models referencing
// an unknown brand are kept (they simply never list), but variant roles that
// point at unknown variant ids resolve as absent.
func NewIndex(feed Feed) *Index {
	idx := &Index{
		modelsByBrand:  make(map[string][]Model, len(feed.Brands)),
		modelByHandle:  make(map[string]Model, len(feed.Models)),
		variantByID:    make(map[string]Variant, len(feed.Variants)),
		standaloneByID: make(map[string]StandaloneItem, len(feed.Standalone)),
	}
	idx.brands = append(idx.brands, feed.Brands...)
	for _, v := range feed.Variants {
		idx.variantByID[v.ID] = v
	}
	for _, m := range feed.Models {
		idx.modelByHandle[m.Handle] = m
		idx.modelsByBrand[m.BrandHandle] = append(idx.modelsByBrand[m.BrandHandle], m)
	}
	idx.standalone = append(idx.standalone, feed.Standalone...)
	for _, s := range feed.Standalone {
		idx.standaloneByID[s.ID] = s
	}
	return idx
}

// Brands returns all brands in catalog order.
func (i *Index) Brands() []Brand {
	return i.brands
}

// ModelsForBrand returns the models of a brand in catalog order. Unknown
// brands yield an empty sequence.
func (i *Index) ModelsForBrand(brandHandle string) []Model {
	return i.modelsByBrand[brandHandle]
}

// ModelByHandle returns a model by handle.
func (i *Index) ModelByHandle(handle string) (Model, bool) {
	m, ok := i.modelByHandle[handle]
	return m, ok
}

// VariantsForModel resolves a model's variant roles to variant records.
// Roles whose variant id is not in the catalog are omitted rather than
// reported as errors.
func (i *Index) VariantsForModel(modelHandle string) map[string]Variant {
	m, ok := i.modelByHandle[modelHandle]
	if !ok {
		return map[string]Variant{}
	}
	resolved := make(map[string]Variant, len(m.Variants))
	for role, id := range m.Variants {
		if v, ok := i.variantByID[id]; ok {
			resolved[role] = v
		}
	}
	return resolved
}

// VariantByID returns a variant by its cart-addressable id.
func (i *Index) VariantByID(id string) (Variant, bool) {
	v, ok := i.variantByID[id]
	return v, ok
}

// StandaloneItems returns all standalone add-ons in catalog order.
func (i *Index) StandaloneItems() []StandaloneItem {
	return i.standalone
}

// StandaloneByID returns a standalone add-on by id.
func (i *Index) StandaloneByID(id string) (StandaloneItem, bool) {
	s, ok := i.standaloneByID[id]
	return s, ok
}

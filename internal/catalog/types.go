package catalog

// Brand identifies a device family offered by the configurator.
type Brand struct {
	Handle      string `json:"handle" validate:"required"`
	DisplayName string `json:"displayName" validate:"required"`
}

// Model is a specific device release under a brand. Variants maps a variant
// role (e.g. "ring-mount") to the id of the purchasable variant compatible
// with this model.
type Model struct {
	Handle       string            `json:"handle" validate:"required"`
	DisplayName  string            `json:"displayName" validate:"required"`
	BrandHandle  string            `json:"brand" validate:"required"`
	PreviewImage string            `json:"previewImage,omitempty"`
	Variants     map[string]string `json:"variants" validate:"required,min=1"`
	Notice       string            `json:"notice,omitempty"`
}

// Variant is the smallest purchasable unit. ID is the cart-addressable key.
type Variant struct {
	ID             string `json:"id" validate:"required"`
	Title          string `json:"title" validate:"required"`
	ProductTitle   string `json:"productTitle,omitempty"`
	UnitPriceMinor int64  `json:"priceMinor" validate:"gte=0"`
	Image          string `json:"image,omitempty"`
	Available      bool   `json:"available"`
}

// StandaloneItem is an add-on selected independently of any configuration
// slot. It is cart-addressable by its own id.
type StandaloneItem struct {
	ID             string `json:"id" validate:"required"`
	Title          string `json:"title" validate:"required"`
	UnitPriceMinor int64  `json:"priceMinor" validate:"gte=0"`
	Image          string `json:"image,omitempty"`
	Available      bool   `json:"available"`
}

// Feed is the raw catalog document handed to the service at startup.
type Feed struct {
	Brands     []Brand          `json:"brands"`
	Models     []Model          `json:"models"`
	Variants   []Variant        `json:"variants"`
	Standalone []StandaloneItem `json:"standalone"`
}

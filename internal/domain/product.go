package domain

// SourceProduct is a full snapshot of a product in the source store, taken at
// export time. It is read-only to this service.
type SourceProduct struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Handle      string          `json:"handle"`
	Status      string          `json:"status"`
	Vendor      string          `json:"vendor"`
	ProductType string          `json:"productType"`
	Tags        []string        `json:"tags"`
	BodyHTML    string          `json:"bodyHtml"`
	Images      []SourceImage   `json:"images"`
	Variants    []SourceVariant `json:"variants"`
	Metafields  []Metafield     `json:"metafields"`
}

// SourceImage is a product image in source order.
type SourceImage struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

// SourceVariant is a single variant of a source product.
type SourceVariant struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	Price             string           `json:"price"`
	CompareAtPrice    *string          `json:"compareAtPrice"`
	InventoryQuantity int              `json:"inventoryQuantity"`
	SKU               string           `json:"sku"`
	Barcode           string           `json:"barcode"`
	SelectedOptions   []SelectedOption `json:"selectedOptions"`
}

// SelectedOption is one (dimension name, value) pair on a variant.
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Metafield is a product metafield, on both the source and target side.
type Metafield struct {
	Namespace   string `json:"namespace"`
	Key         string `json:"key"`
	Value       string `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Correlation metafield written onto every exported product. It links the
// target product back to its source product id and is the sole durable marker
// used to decide update-vs-create on re-export.
const (
	CorrelationNamespace   = "product_export"
	CorrelationKey         = "original_product_id"
	CorrelationType        = "single_line_text_field"
	CorrelationDescription = "Original product ID from source store"
)

// CorrelationMetafield builds the marker metafield for a source product id.
func CorrelationMetafield(sourceProductID string) Metafield {
	return Metafield{
		Namespace:   CorrelationNamespace,
		Key:         CorrelationKey,
		Value:       sourceProductID,
		Type:        CorrelationType,
		Description: CorrelationDescription,
	}
}

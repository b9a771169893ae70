package domain

// ProductPayload is the envelope the target platform's REST product endpoints
// expect for both create (POST /products.json) and update (PUT /products/{id}.json).
type ProductPayload struct {
	Product TargetProduct `json:"product"`
}

// TargetProduct mirrors the source product's descriptive fields in the target
// platform's REST schema, with variant options flattened into up to three
// positional dimensions.
type TargetProduct struct {
	Title       string          `json:"title"`
	BodyHTML    string          `json:"body_html"`
	Vendor      string          `json:"vendor"`
	ProductType string          `json:"product_type"`
	Tags        []string        `json:"tags"`
	Status      string          `json:"status,omitempty"`
	Images      []TargetImage   `json:"images"`
	Options     []TargetOption  `json:"options,omitempty"`
	Variants    []TargetVariant `json:"variants"`
}

// TargetImage is a product image in the REST schema.
type TargetImage struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// TargetOption is one named option dimension. The REST API derives positions
// from array order, so the slice must be stable.
type TargetOption struct {
	Name string `json:"name"`
}

// TargetVariant is a variant in the REST schema. Option1..3 hold the value of
// the corresponding option dimension, or null when the variant does not carry
// that dimension.
type TargetVariant struct {
	Title             string  `json:"title"`
	Price             string  `json:"price"`
	CompareAtPrice    *string `json:"compare_at_price"`
	SKU               string  `json:"sku"`
	Barcode           string  `json:"barcode"`
	InventoryQuantity int     `json:"inventory_quantity"`
	Option1           *string `json:"option1"`
	Option2           *string `json:"option2"`
	Option3           *string `json:"option3"`
}

// TargetProductRef identifies a product that exists in a target catalog.
type TargetProductRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

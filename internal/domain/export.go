package domain

import "time"

// ProductRef is the minimal identity a caller supplies for an export; the full
// snapshot is fetched from the source store by the engine itself.
type ProductRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ExportResult is the outcome of exporting one product to one target store.
// Constructed once per (product, store) pair and returned to the caller.
type ExportResult struct {
	Success   bool   `json:"success"`
	ProductID int64  `json:"productId"`
	IsUpdate  bool   `json:"isUpdate"`
	Message   string `json:"message"`
}

// ExportRecord is the audit entry persisted after each export attempt. It is
// bookkeeping only: the resolver never consults it, so wiping the log cannot
// affect update-vs-create decisions.
type ExportRecord struct {
	ID              string    `json:"id" bson:"_id"`
	SourceProductID string    `json:"sourceProductId" bson:"source_product_id"`
	SourceShop      string    `json:"sourceShop" bson:"source_shop"`
	TargetStoreID   string    `json:"targetStoreId" bson:"target_store_id"`
	TargetShop      string    `json:"targetShop" bson:"target_shop"`
	TargetProductID int64     `json:"targetProductId" bson:"target_product_id"`
	IsUpdate        bool      `json:"isUpdate" bson:"is_update"`
	Success         bool      `json:"success" bson:"success"`
	Message         string    `json:"message" bson:"message"`
	CreatedAt       time.Time `json:"createdAt" bson:"created_at"`
}

// BulkItemResult is one successful (product, store) pair in a bulk export.
type BulkItemResult struct {
	ProductID    string        `json:"productId"`
	ProductTitle string        `json:"productTitle"`
	StoreID      string        `json:"storeId"`
	Success      bool          `json:"success"`
	Result       *ExportResult `json:"result"`
}

// BulkItemError is one failed (product, store) pair in a bulk export.
type BulkItemError struct {
	ProductID    string `json:"productId"`
	ProductTitle string `json:"productTitle"`
	StoreID      string `json:"storeId"`
	Error        string `json:"error"`
}

// BulkSummary aggregates pair outcomes of a bulk export.
type BulkSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// BulkReport is the full outcome of a bulk export. Success is true as long as
// at least one pair succeeded; the all-failed case is reported as an error by
// the orchestrator instead.
type BulkReport struct {
	Success bool             `json:"success"`
	Results []BulkItemResult `json:"results"`
	Errors  []BulkItemError  `json:"errors"`
	Summary BulkSummary      `json:"summary"`
}

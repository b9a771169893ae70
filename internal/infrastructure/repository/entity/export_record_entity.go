package entity

import (
	"time"

	"shopify-product-export/internal/domain"
)

// MongoExportRecordDoc is the MongoDB document shape for an export record.
type MongoExportRecordDoc struct {
	ID              string    `bson:"_id"`
	SourceProductID string    `bson:"source_product_id"`
	SourceShop      string    `bson:"source_shop"`
	TargetStoreID   string    `bson:"target_store_id"`
	TargetShop      string    `bson:"target_shop"`
	TargetProductID int64     `bson:"target_product_id"`
	IsUpdate        bool      `bson:"is_update"`
	Success         bool      `bson:"success"`
	Message         string    `bson:"message"`
	CreatedAt       time.Time `bson:"created_at"`
}

// MongoExportRecordDocFromDomain converts a domain record to its document form.
func MongoExportRecordDocFromDomain(record *domain.ExportRecord) *MongoExportRecordDoc {
	return &MongoExportRecordDoc{
		ID:              record.ID,
		SourceProductID: record.SourceProductID,
		SourceShop:      record.SourceShop,
		TargetStoreID:   record.TargetStoreID,
		TargetShop:      record.TargetShop,
		TargetProductID: record.TargetProductID,
		IsUpdate:        record.IsUpdate,
		Success:         record.Success,
		Message:         record.Message,
		CreatedAt:       record.CreatedAt,
	}
}

// ToDomain converts a document back to the domain record.
func (d *MongoExportRecordDoc) ToDomain() *domain.ExportRecord {
	return &domain.ExportRecord{
		ID:              d.ID,
		SourceProductID: d.SourceProductID,
		SourceShop:      d.SourceShop,
		TargetStoreID:   d.TargetStoreID,
		TargetShop:      d.TargetShop,
		TargetProductID: d.TargetProductID,
		IsUpdate:        d.IsUpdate,
		Success:         d.Success,
		Message:         d.Message,
		CreatedAt:       d.CreatedAt,
	}
}

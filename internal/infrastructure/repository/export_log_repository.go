package repository

import (
	"context"
	"fmt"
	"time"

	"shopify-product-export/internal/domain"
	"shopify-product-export/internal/infrastructure/repository/entity"
	"shopify-product-export/internal/ports"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoExportLogRepository implements ExportLogRepository using MongoDB.
type MongoExportLogRepository struct {
	collection *mongo.Collection
}

// NewMongoExportLogRepository creates a new MongoDB export log repository.
func NewMongoExportLogRepository(db *mongo.Database) ports.ExportLogRepository {
	return &MongoExportLogRepository{
		collection: db.Collection("export_records"),
	}
}

// Insert appends one export record.
func (r *MongoExportLogRepository) Insert(ctx context.Context, record *domain.ExportRecord) error {
	doc := entity.MongoExportRecordDocFromDomain(record)
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	}
	_, _ = r.collection.Indexes().CreateOne(ctx, indexModel)

	_, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to insert export record: %w", err)
	}

	return nil
}

// List returns the most recent export records, newest first.
func (r *MongoExportLogRepository) List(ctx context.Context, limit int64) ([]*domain.ExportRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list export records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*domain.ExportRecord
	for cursor.Next(ctx) {
		var doc entity.MongoExportRecordDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode export record: %w", err)
		}
		records = append(records, doc.ToDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate export records: %w", err)
	}

	return records, nil
}

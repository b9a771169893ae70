package ports

import (
	"context"

	"shopify-product-export/internal/domain"
)

// ExportLogRepository persists export audit records. Writes are best-effort:
// the engine never fails an export because the log could not be written, and
// update-vs-create decisions never read from it.
type ExportLogRepository interface {
	Insert(ctx context.Context, record *domain.ExportRecord) error
	List(ctx context.Context, limit int64) ([]*domain.ExportRecord, error)
}

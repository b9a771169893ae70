package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"shopify-product-export/internal/domain"
	"shopify-product-export/internal/infrastructure/metrics"
	"shopify-product-export/internal/ports"
	experrors "shopify-product-export/pkg/errors"

	"github.com/rs/zerolog"
)

const existingSearchLimit = 50

// ExportService coordinates a product export: fetch the detailed snapshot from
// the source store, resolve the target store's credentials, decide
// update-vs-create through the correlation metafield, map the payload, write
// it, and attach bookkeeping metadata. Each call handles exactly one
// (product, target store) pair; bulk callers iterate pairs sequentially.
type ExportService struct {
	directory ports.DirectoryClient
	targets   ports.TargetClientFactory
	catalogs  ports.SourceCatalogFactory
	exportLog ports.ExportLogRepository
	metrics   *metrics.ExportMetrics
	logger    zerolog.Logger

	// now supplies the conflict-suffix timestamp; replaceable in tests.
	now func() time.Time
}

// NewExportService creates the export orchestrator. exportLog and
// exportMetrics may be nil to disable auditing and metrics.
func NewExportService(
	directory ports.DirectoryClient,
	targets ports.TargetClientFactory,
	catalogs ports.SourceCatalogFactory,
	exportLog ports.ExportLogRepository,
	exportMetrics *metrics.ExportMetrics,
	logger zerolog.Logger,
) *ExportService {
	return &ExportService{
		directory: directory,
		targets:   targets,
		catalogs:  catalogs,
		exportLog: exportLog,
		metrics:   exportMetrics,
		logger:    logger,
		now:       time.Now,
	}
}

// ExportProductToStore exports one product to one target store. Any failure of
// the fetch, store resolution, or core product write is fatal to this pair and
// returned to the caller; metafield enrichment and the existing-product search
// are best-effort. No step is retried.
func (s *ExportService) ExportProductToStore(
	ctx context.Context,
	product domain.ProductRef,
	toStoreID string,
	admin ports.AdminClient,
	status string,
) (*domain.ExportResult, error) {
	start := s.now()
	logger := s.logger.With().Str("productId", product.ID).Str("storeId", toStoreID).Logger()
	logger.Info().Str("title", product.Title).Msg("Starting product export")

	catalog := s.catalogs.CatalogFor(admin)

	detailed, err := catalog.FetchDetailedProduct(ctx, product.ID)
	if err != nil {
		s.finish(ctx, catalog, nil, toStoreID, nil, false, err, start)
		return nil, err
	}

	store, err := s.directory.ResolveStore(ctx, toStoreID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to resolve target store")
		s.finish(ctx, catalog, detailed, toStoreID, nil, false, err, start)
		return nil, err
	}
	logger.Info().Str("shop", store.Shop).Msg("Resolved target store")

	target := s.targets.ClientFor(store)

	existing := s.findExistingProduct(ctx, target, detailed, logger)

	payload := BuildProductPayload(detailed, status)

	if existing == nil {
		nonEmpty, err := target.HasAnyProduct(ctx)
		if err != nil {
			// Probe failure means we cannot tell; proceed without suffixing,
			// matching the treat-as-empty behavior of a failed probe.
			logger.Warn().Err(err).Msg("Catalog probe failed, skipping conflict suffix")
		} else if nonEmpty {
			ApplyConflictSuffix(payload, s.now().UnixMilli())
			logger.Info().Msg("Applied conflict suffix to variant titles")
		}
	}

	var ref *domain.TargetProductRef
	isUpdate := false
	if existing != nil {
		ref, err = target.UpdateProduct(ctx, existing.ID, payload)
		isUpdate = true
	} else {
		ref, err = target.CreateProduct(ctx, payload)
	}
	if err != nil {
		s.invalidateOnAuthFailure(ctx, toStoreID, err)
		s.finish(ctx, catalog, detailed, toStoreID, store, isUpdate, err, start)
		return nil, err
	}

	s.writeMetafields(ctx, target, ref.ID, detailed, logger)

	message := "Product created successfully"
	outcome := metrics.OutcomeCreated
	if isUpdate {
		message = "Product updated successfully"
		outcome = metrics.OutcomeUpdated
	}

	result := &domain.ExportResult{
		Success:   true,
		ProductID: ref.ID,
		IsUpdate:  isUpdate,
		Message:   message,
	}

	s.record(ctx, catalog, detailed, toStoreID, store, &domain.ExportRecord{
		TargetProductID: ref.ID,
		IsUpdate:        isUpdate,
		Success:         true,
		Message:         message,
	})
	s.metrics.Observe(toStoreID, outcome, s.now().Sub(start))

	logger.Info().Int64("targetProductId", ref.ID).Bool("isUpdate", isUpdate).Msg("Product export finished")
	return result, nil
}

// findExistingProduct searches the target catalog for a product previously
// created from the same source product. The search is a best-effort
// optimization: a failed title search or a failed candidate metafield fetch
// never fails the export, it only pushes the engine toward the create path.
func (s *ExportService) findExistingProduct(
	ctx context.Context,
	target ports.TargetClient,
	product *domain.SourceProduct,
	logger zerolog.Logger,
) *domain.TargetProductRef {
	candidates, err := target.SearchProductsByTitle(ctx, product.Title, existingSearchLimit)
	if err != nil {
		logger.Warn().Err(err).Msg("Product search failed, will attempt to create new product")
		return nil
	}
	logger.Info().Int("candidates", len(candidates)).Str("title", product.Title).Msg("Searched target catalog by title")

	for _, candidate := range candidates {
		metafields, err := target.GetProductMetafields(ctx, candidate.ID)
		if err != nil {
			logger.Warn().Err(err).Int64("candidateId", candidate.ID).Msg("Failed to check candidate metafields, skipping candidate")
			continue
		}
		for _, mf := range metafields {
			if mf.Namespace == domain.CorrelationNamespace && mf.Key == domain.CorrelationKey && mf.Value == product.ID {
				logger.Info().Int64("existingId", candidate.ID).Msg("Found existing product by original ID")
				return candidate
			}
		}
	}

	logger.Info().Msg("No existing product found with matching original ID, will create new one")
	return nil
}

// writeMetafields copies the source product's metafields onto the target
// product and re-asserts the correlation marker. Every write here is
// best-effort: the core product write already succeeded and a lost metafield
// never fails the export.
func (s *ExportService) writeMetafields(
	ctx context.Context,
	target ports.TargetClient,
	targetProductID int64,
	product *domain.SourceProduct,
	logger zerolog.Logger,
) {
	for _, mf := range product.Metafields {
		if err := target.CreateProductMetafield(ctx, targetProductID, mf); err != nil {
			logger.Warn().Err(err).Str("namespace", mf.Namespace).Str("key", mf.Key).Msg("Failed to create metafield, skipping")
		}
	}

	if err := target.CreateProductMetafield(ctx, targetProductID, domain.CorrelationMetafield(product.ID)); err != nil {
		logger.Warn().Err(err).Msg("Failed to create original ID metafield")
	}
}

// ExportProducts folds the export over the ordered sequence of
// (product, store) pairs, sequentially, accumulating results and errors. The
// returned error is non-nil only when every pair failed.
func (s *ExportService) ExportProducts(
	ctx context.Context,
	products []domain.ProductRef,
	toStoreIDs []string,
	admin ports.AdminClient,
	status string,
) (*domain.BulkReport, error) {
	report := &domain.BulkReport{
		Results: []domain.BulkItemResult{},
		Errors:  []domain.BulkItemError{},
	}

	for _, product := range products {
		for _, storeID := range toStoreIDs {
			result, err := s.ExportProductToStore(ctx, product, storeID, admin, status)
			if err != nil {
				report.Errors = append(report.Errors, domain.BulkItemError{
					ProductID:    product.ID,
					ProductTitle: product.Title,
					StoreID:      storeID,
					Error:        err.Error(),
				})
				continue
			}
			report.Results = append(report.Results, domain.BulkItemResult{
				ProductID:    product.ID,
				ProductTitle: product.Title,
				StoreID:      storeID,
				Success:      true,
				Result:       result,
			})
		}
	}

	report.Summary = domain.BulkSummary{
		Total:      len(products) * len(toStoreIDs),
		Successful: len(report.Results),
		Failed:     len(report.Errors),
	}
	report.Success = report.Summary.Successful > 0

	if report.Summary.Total > 0 && report.Summary.Successful == 0 {
		return report, fmt.Errorf("all %d exports failed", report.Summary.Total)
	}
	return report, nil
}

// invalidateOnAuthFailure evicts a store's cached credentials when the target
// store rejected the write for auth reasons, so the next export re-reads the
// directory.
func (s *ExportService) invalidateOnAuthFailure(ctx context.Context, storeID string, err error) {
	status := 0
	var createFailed *experrors.ErrCreateFailed
	var updateFailed *experrors.ErrUpdateFailed
	switch {
	case errors.As(err, &createFailed):
		status = createFailed.Status
	case errors.As(err, &updateFailed):
		status = updateFailed.Status
	}
	if status != http.StatusUnauthorized && status != http.StatusForbidden {
		return
	}

	if invalidator, ok := s.directory.(ports.DirectoryInvalidator); ok {
		invalidator.Invalidate(ctx, storeID)
		s.logger.Info().Str("storeId", storeID).Msg("Invalidated cached store credentials after auth failure")
	}
}

// finish records a failed export attempt.
func (s *ExportService) finish(
	ctx context.Context,
	catalog ports.SourceCatalog,
	product *domain.SourceProduct,
	storeID string,
	store *domain.TargetStore,
	isUpdate bool,
	exportErr error,
	start time.Time,
) {
	record := &domain.ExportRecord{
		IsUpdate: isUpdate,
		Success:  false,
		Message:  exportErr.Error(),
	}
	s.record(ctx, catalog, product, storeID, store, record)
	s.metrics.Observe(storeID, metrics.OutcomeFailed, s.now().Sub(start))
}

// record persists one audit entry; failures are logged and dropped.
func (s *ExportService) record(
	ctx context.Context,
	catalog ports.SourceCatalog,
	product *domain.SourceProduct,
	storeID string,
	store *domain.TargetStore,
	record *domain.ExportRecord,
) {
	if s.exportLog == nil {
		return
	}

	record.TargetStoreID = storeID
	if product != nil {
		record.SourceProductID = product.ID
	}
	if store != nil {
		record.TargetShop = store.Shop
	}
	if name, err := catalog.ShopName(ctx); err == nil {
		record.SourceShop = name
	} else {
		s.logger.Warn().Err(err).Msg("Failed to look up source shop name")
	}
	record.CreatedAt = s.now()

	if err := s.exportLog.Insert(ctx, record); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to write export record")
	}
}

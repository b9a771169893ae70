package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"shopify-product-export/internal/application"
	"shopify-product-export/internal/config"
	"shopify-product-export/internal/domain"
	"shopify-product-export/internal/infrastructure/directory"
	"shopify-product-export/internal/infrastructure/metrics"
	"shopify-product-export/internal/infrastructure/repository"
	shopifyinfra "shopify-product-export/internal/infrastructure/shopify"
	"shopify-product-export/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	// Connect to MongoDB for the export audit log
	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(context.Background())

	db := mongoClient.Database(cfg.MongoDatabase)
	exportLog := repository.NewMongoExportLogRepository(db)

	// Directory client, optionally cached through Redis
	var directoryClient ports.DirectoryClient = directory.NewClient(cfg.DirectoryURL, nil, logger)
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to parse REDIS_URL")
		}
		rdb := redis.NewClient(redisOpts)
		directoryClient = directory.NewCachedDirectory(directoryClient, rdb, cfg.DirectoryCacheTTL, logger)
		logger.Info().Dur("ttl", cfg.DirectoryCacheTTL).Msg("Directory cache enabled")
	}

	// Metrics
	registry := prometheus.NewRegistry()
	exportMetrics := metrics.NewExportMetrics(registry)

	// Source admin client and export engine
	adminClient := shopifyinfra.NewAdminClient(cfg.Source, logger)
	targetFactory := shopifyinfra.NewRESTClientFactory(cfg.Source.APIVersion, nil, logger)
	catalogFactory := shopifyinfra.NewCatalogFactory(logger)

	exportService := application.NewExportService(
		directoryClient,
		targetFactory,
		catalogFactory,
		exportLog,
		exportMetrics,
		logger,
	)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware(registry))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Health check - must be public for monitoring
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Metrics endpoint
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	// Export API
	r.Get("/api/stores", storesHandler(directoryClient, logger))
	r.Get("/api/exports", exportHistoryHandler(exportLog, logger))
	r.Post("/api/export-product", exportProductHandler(exportService, adminClient, logger))
	r.Post("/api/export-products", exportProductsHandler(exportService, adminClient, logger))

	logger.Info().Str("port", cfg.Port).Msg("Starting API server")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// storesHandler lists the registered target stores. A directory failure
// degrades to an empty list here; resolution failures during an export stay
// fatal to that export.
func storesHandler(directoryClient ports.DirectoryClient, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := directoryClient.ListStores(r.Context())
		if err != nil {
			logger.Error().Err(err).Msg("Failed to list target stores")
			stores = []*domain.TargetStore{}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"stores": stores})
	}
}

// exportHistoryHandler returns the most recent export records.
func exportHistoryHandler(exportLog ports.ExportLogRepository, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := int64(50)
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || parsed < 1 {
				writeError(w, http.StatusBadRequest, "invalid limit")
				return
			}
			limit = parsed
		}

		records, err := exportLog.List(r.Context(), limit)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to list export records")
			writeError(w, http.StatusInternalServerError, "failed to list export records")
			return
		}
		if records == nil {
			records = []*domain.ExportRecord{}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"exports": records})
	}
}

type exportProductRequest struct {
	Product domain.ProductRef `json:"product"`
	ToStore string            `json:"toStore"`
	Status  string            `json:"status"`
}

// exportProductHandler exports a single product to a single target store.
func exportProductHandler(service *application.ExportService, admin ports.AdminClient, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req exportProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Product.ID == "" || req.ToStore == "" {
			writeError(w, http.StatusBadRequest, "product.id and toStore are required")
			return
		}

		result, err := service.ExportProductToStore(r.Context(), req.Product, req.ToStore, admin, req.Status)
		if err != nil {
			logger.Error().Err(err).Str("productId", req.Product.ID).Msg("Export failed")
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

type exportProductsRequest struct {
	Products []domain.ProductRef `json:"products"`
	ToStore  string              `json:"toStore"`
	ToStores []string            `json:"toStores"`
	Status   string              `json:"status"`
}

// exportProductsHandler exports a batch of products to one or more target
// stores, sequentially, returning a per-pair summary. The call only fails
// outright when every pair failed.
func exportProductsHandler(service *application.ExportService, admin ports.AdminClient, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req exportProductsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.Products) == 0 {
			writeError(w, http.StatusBadRequest, "no products provided")
			return
		}

		storeIDs := req.ToStores
		if len(storeIDs) == 0 && req.ToStore != "" {
			storeIDs = []string{req.ToStore}
		}
		if len(storeIDs) == 0 {
			writeError(w, http.StatusBadRequest, "no target stores provided")
			return
		}

		report, err := service.ExportProducts(r.Context(), req.Products, storeIDs, admin, req.Status)
		if err != nil {
			logger.Error().Err(err).Int("total", report.Summary.Total).Msg("Bulk export failed for every pair")
			writeJSON(w, http.StatusInternalServerError, report)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

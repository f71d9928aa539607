package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/couchcryptid/hail-damage-service/internal/adapter/dynamodb"
	httpadapter "github.com/couchcryptid/hail-damage-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/hail-damage-service/internal/adapter/kafka"
	"github.com/couchcryptid/hail-damage-service/internal/adapter/llm"
	"github.com/couchcryptid/hail-damage-service/internal/adapter/mapbox"
	"github.com/couchcryptid/hail-damage-service/internal/adapter/postgres"
	"github.com/couchcryptid/hail-damage-service/internal/config"
	"github.com/couchcryptid/hail-damage-service/internal/domain"
	"github.com/couchcryptid/hail-damage-service/internal/estimate"
	"github.com/couchcryptid/hail-damage-service/internal/observability"
	"github.com/couchcryptid/hail-damage-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	estimator, err := newEstimator(cfg)
	if err != nil {
		logger.Error("failed to load estimate catalog", "error", err, "path", cfg.CatalogPath)
		os.Exit(1)
	}

	deps := httpadapter.Deps{Estimator: estimator, Metrics: metrics}

	// Hail history store. Optional: without it only the estimate routes work.
	var (
		store   pipeline.EventStore
		closers []func()
	)
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	switch {
	case errors.Is(err, domain.ErrNotConfigured):
		logger.Warn("hail history disabled: DATABASE_URL not set")
	case err != nil:
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	default:
		closers = append(closers, pool.Close)
		if cfg.DatabaseMigrate {
			if err := postgres.Migrate(pool); err != nil {
				logger.Error("failed to run migrations", "error", err)
				os.Exit(1)
			}
			logger.Info("database migrations applied")
		}
		repo := postgres.NewHistoryRepository(pool)
		store = repo
		deps.History = repo
	}

	// Text generation.
	var extractor pipeline.Extractor
	gen, err := llm.NewClient(ctx, llm.Options{
		APIKey:          cfg.GeminiAPIKey,
		Model:           cfg.GeminiModel,
		Timeout:         cfg.LLMTimeout,
		SearchGrounding: cfg.LLMSearchGrounding,
	}, logger, metrics)
	switch {
	case errors.Is(err, domain.ErrNotConfigured):
		logger.Warn("hail monitoring disabled: GEMINI_API_KEY not set")
	case err != nil:
		logger.Error("failed to create gemini client", "error", err)
		os.Exit(1)
	default:
		extractor = gen
		logger.Info("gemini client ready", "model", cfg.GeminiModel, "search_grounding", cfg.LLMSearchGrounding)
	}

	// Geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, logger, metrics)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	// Event publishing.
	var loader pipeline.BatchLoader
	if len(cfg.KafkaBrokers) > 0 {
		writer := kafkaadapter.NewWriter(cfg, logger)
		loader = writer
		closers = append(closers, func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		})
		logger.Info("publishing hail events", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	// Estimate archive.
	if cfg.DynamoDBEnabled {
		ddb, err := dynamodb.NewClient(ctx, cfg)
		if err != nil {
			logger.Error("failed to create dynamodb client", "error", err)
			os.Exit(1)
		}
		deps.Archive = dynamodb.NewEstimateRepository(ddb, cfg.EstimatesTable, nil)
		logger.Info("estimate archive enabled", "table", cfg.EstimatesTable)
	}

	transformer := pipeline.NewTransformer(geocoder, logger)
	p := pipeline.New(extractor, transformer, store, loader, logger, metrics, pipeline.Config{
		Interval: cfg.MonitorInterval,
		Lookback: cfg.MonitorLookback,
	})
	deps.Monitor = p

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, deps, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Start scheduled monitoring.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("monitor error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}

	logger.Info("shutdown complete")
}

func newEstimator(cfg *config.Config) (*estimate.Estimator, error) {
	catalog := estimate.DefaultCatalog()
	if cfg.CatalogPath != "" {
		c, err := estimate.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		catalog = c
	}
	return estimate.NewEstimator(catalog, estimate.Variant(cfg.RoofFormula))
}

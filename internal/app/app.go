package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/nine9188/livescore-api/external/footballapi"
	"github.com/nine9188/livescore-api/internal/config"
	"github.com/nine9188/livescore-api/internal/domain/mediaasset"
	"github.com/nine9188/livescore-api/internal/domain/playername"
	"github.com/nine9188/livescore-api/internal/infrastructure/imagefetch"
	"github.com/nine9188/livescore-api/internal/infrastructure/repository/memory"
	"github.com/nine9188/livescore-api/internal/infrastructure/repository/postgres"
	"github.com/nine9188/livescore-api/internal/interfaces/httpapi"
	"github.com/nine9188/livescore-api/internal/platform/cache"
	"github.com/nine9188/livescore-api/internal/platform/logging"
	"github.com/nine9188/livescore-api/internal/platform/resilience"
	"github.com/nine9188/livescore-api/internal/usecase"
)

// Application bundles the HTTP server with the resources it owns.
type Application struct {
	Server *http.Server
	DB     *sqlx.DB
}

// NewApplication wires repositories, the football data client and the
// aggregation services into an HTTP server. With DB_ENABLED=false the
// localized-name and media-asset repositories fall back to in-memory maps.
func NewApplication(cfg config.Config, logger *logging.Logger) (*Application, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		db    *sqlx.DB
		names playername.Repository
		media mediaasset.Repository
	)
	if cfg.DBEnabled {
		dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
		var err error
		db, err = otelsqlx.Connect("postgres", dbURL,
			otelsql.WithDBSystem("postgresql"),
			otelsql.WithDBName(dbNameFromURL(dbURL)),
			otelsql.WithQueryFormatter(formatDBQueryForTrace),
		)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		names = postgres.NewPlayerNameRepository(db)
		media = postgres.NewMediaAssetRepository(db)
		logger.Info("database connected", "db", dbNameFromURL(dbURL))
	} else {
		names = memory.NewPlayerNameRepository()
		media = memory.NewMediaAssetRepository()
		logger.Info("database disabled, using in-memory repositories")
	}

	provider := footballapi.NewClient(footballapi.ClientConfig{
		BaseURL:    cfg.FootballAPIBaseURL,
		APIKey:     cfg.FootballAPIKey,
		Timeout:    cfg.FootballAPITimeout,
		MaxRetries: cfg.FootballAPIMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootballAPICircuitEnabled,
			FailureThreshold: cfg.FootballAPICircuitFailureCount,
			OpenTimeout:      cfg.FootballAPICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FootballAPICircuitHalfOpenMaxReq,
		},
	})

	store := cache.NewStore(cfg.CacheTTL)
	clock := clockwork.NewRealClock()

	fixturesService := usecase.NewPlayerFixturesService(provider, store, clock, logger, usecase.PlayerFixturesConfig{
		CacheTTL:     cfg.PlayerFixturesCacheTTL,
		StatsWorkers: cfg.FixtureStatsWorkers,
		BatchSize:    cfg.FixtureStatsBatchSize,
	})
	previewService := usecase.NewMatchPreviewService(provider, names, media, store, clock, logger, usecase.MatchPreviewConfig{
		CacheTTL: cfg.MatchPreviewCacheTTL,
	})
	imageService := usecase.NewImageService(
		imagefetch.New(imagefetch.Config{
			Timeout:  cfg.ImageFetchTimeout,
			MaxBytes: cfg.ImageMaxBytes,
		}),
		media,
		store,
		logger,
		usecase.ImageServiceConfig{CacheTTL: cfg.ImageCacheTTL},
	)

	handler := httpapi.NewHandler(fixturesService, previewService, imageService, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &Application{Server: server, DB: db}, nil
}

// Close releases resources owned by the application.
func (a *Application) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

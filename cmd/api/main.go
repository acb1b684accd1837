package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/bryanwahyu/millwatt/internal/application"
	appai "github.com/bryanwahyu/millwatt/internal/application/ai"
	"github.com/bryanwahyu/millwatt/internal/application/analytics"
	appaudio "github.com/bryanwahyu/millwatt/internal/application/audio"
	"github.com/bryanwahyu/millwatt/internal/application/audit"
	"github.com/bryanwahyu/millwatt/internal/application/bills"
	appidentity "github.com/bryanwahyu/millwatt/internal/application/identity"
	"github.com/bryanwahyu/millwatt/internal/application/trend"
	"github.com/bryanwahyu/millwatt/internal/config"
	"github.com/bryanwahyu/millwatt/internal/domain/analysis"
	"github.com/bryanwahyu/millwatt/internal/domain/identity"
	"github.com/bryanwahyu/millwatt/internal/domain/records"
	"github.com/bryanwahyu/millwatt/internal/infra/ai/backend"
	"github.com/bryanwahyu/millwatt/internal/infra/ai/prompt"
	"github.com/bryanwahyu/millwatt/internal/infra/auth"
	mysqlp "github.com/bryanwahyu/millwatt/internal/infra/db/mysql"
	pgp "github.com/bryanwahyu/millwatt/internal/infra/db/postgres"
	"github.com/bryanwahyu/millwatt/internal/infra/httpserver"
	"github.com/bryanwahyu/millwatt/internal/infra/logging"
	minioStore "github.com/bryanwahyu/millwatt/internal/infra/storage"
	"github.com/bryanwahyu/millwatt/internal/middleware"
)

type repositories struct {
	records  records.Repository
	users    identity.Repository
	analyses analysis.Repository
}

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, repos, err := openDatabase(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("database connect error")
	}
	defer db.Close()

	checkers := map[string]middleware.HealthCheck{
		"database": {Checker: &middleware.DatabaseHealthChecker{DB: db}},
	}

	// init minio (optional)
	var archive records.MediaArchive
	if cfg.MinioEnabled() {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			logger.Fatal().Err(err).Msg("minio init error")
		}
		archive = store
		checkers["storage"] = middleware.HealthCheck{Checker: middleware.CheckFunc(store.Ping), Optional: true}
	}

	// init ai pipeline
	client, err := backend.New(backend.Settings{
		Provider:   cfg.AI.Provider,
		APIKey:     cfg.AI.APIKey,
		BaseURL:    cfg.AI.BaseURL,
		APIVersion: cfg.AI.APIVersion,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("ai backend init error")
	}
	if err := client.CheckCredential(); err != nil {
		logger.Warn().Err(err).Msg("ai credential not usable, analysis requests will fail with 503")
	}
	checkers["ai_credential"] = middleware.HealthCheck{
		Checker:  middleware.CheckFunc(func(context.Context) error { return client.CheckCredential() }),
		Optional: true,
	}

	pipeline := appai.NewService(client, prompt.Templates{}, appai.Options{
		Models:  cfg.AI.Models,
		Timeout: cfg.AI.Timeout,
	}, logger)

	tokens, err := auth.NewTokens(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("auth init error")
	}

	clock := application.SystemClock{}
	recorder := &audit.Recorder{Repo: repos.analyses, Archive: archive, Logger: logger.With().Str("component", "audit").Logger()}

	handler := httpserver.NewRouter(httpserver.Options{
		Bills: &bills.Service{
			Analyzer: pipeline,
			Records:  repos.records,
			Audit:    recorder,
			Baselines: trend.Baselines{
				FallbackUnits: decimal.NewFromFloat(cfg.Trend.FallbackUnits),
				AverageUnits:  decimal.NewFromFloat(cfg.Trend.AverageUnits),
			},
			Clock:  clock,
			Logger: logger.With().Str("component", "bills").Logger(),
		},
		Audio: &appaudio.Service{Analyzer: pipeline, Audit: recorder, Clock: clock},
		Analytics: &analytics.Service{
			Records: repos.records,
			Users:   repos.users,
			Samples: analytics.Samples{
				TotalUnits:    decimal.NewFromFloat(cfg.Analytics.SampleTotalUnits),
				PeakPenalties: decimal.NewFromFloat(cfg.Analytics.SamplePeakPenalties),
			},
			Clock: clock,
		},
		Accounts: &appidentity.Service{
			Users:  repos.users,
			Hasher: auth.Bcrypt{},
			Tokens: tokens,
			Clock:  clock,
		},
		Analyses:       repos.analyses,
		Tokens:         tokens,
		Checkers:       checkers,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxUploadBytes: cfg.Server.MaxUploadMB << 20,
		RateCapacity:   cfg.RateLimit.Capacity,
		RateRefill:     cfg.RateLimit.RefillRate,
		Logger:         logger,
		Context:        ctx,
	})

	// init router
	mux := chi.NewRouter()
	mux.Mount("/", handler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		logger.Info().Str("addr", addr).Strs("models", cfg.AI.Models).Str("provider", cfg.AI.Provider).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info().Msg("shutting down server...")
	cancel()

	ctx2, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
}

func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, repositories, error) {
	var (
		db      *sql.DB
		err     error
		migrate func(context.Context, *sql.DB) error
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = pgp.Connect(ctx, cfg.DSN())
		migrate = pgp.Migrate
	default:
		db, err = mysqlp.Connect(ctx, cfg.DSN())
		migrate = mysqlp.Migrate
	}
	if err != nil {
		return nil, repositories{}, err
	}
	if cfg.Database.AutoMigrate {
		if err := migrate(ctx, db); err != nil {
			db.Close()
			return nil, repositories{}, fmt.Errorf("migrate: %w", err)
		}
	}

	if cfg.Database.Driver == "postgres" {
		return db, repositories{
			records:  pgp.NewRecordRepository(db),
			users:    pgp.NewUserRepository(db),
			analyses: pgp.NewAnalysisRepository(db),
		}, nil
	}
	return db, repositories{
		records:  mysqlp.NewRecordRepository(db),
		users:    mysqlp.NewUserRepository(db),
		analyses: mysqlp.NewAnalysisRepository(db),
	}, nil
}


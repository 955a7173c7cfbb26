package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"kitflip/internal/config"
	"kitflip/internal/domain/service/flip"
	"kitflip/internal/infrastructure/catalog"
	"kitflip/internal/infrastructure/marketplace"
	"kitflip/internal/infrastructure/notifier"
	"kitflip/internal/infrastructure/oracle"
	"kitflip/internal/infrastructure/persistence"
	"kitflip/internal/metrics"
	"kitflip/internal/worker"
	"kitflip/pkg/application/connectors"
	"kitflip/pkg/application/modules"
	"kitflip/pkg/contextx"
	"kitflip/pkg/httpx"
	"kitflip/pkg/logx"
	"kitflip/pkg/migrate"
)

const (
	breakerFailures    = 5
	breakerOpenTimeout = 30 * time.Second
	logFieldMaxLen     = 2048
)

func Run(ctx context.Context) error {
	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	log := slog.New(logx.NewHandler(os.Stderr, logx.ParseLevel(cfg.App.LogLevel))).With(
		slog.String(logx.FieldAppName, cfg.App.Name),
		slog.String(logx.FieldAppVersion, cfg.App.Version),
	)
	slog.SetDefault(log)

	ctx = contextx.WithLogger(ctx, log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// 2. Catalog
	weapons, err := catalog.LoadWeaponNames(cfg.Flip.WeaponsPath)
	if err != nil {
		return fmt.Errorf("load weapons: %w", err)
	}

	schema, err := catalog.LoadSchema(cfg.Flip.SchemaPath)
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}

	log.Info("catalog loaded", slog.Int("weapons", len(weapons)), slog.Int("schema-items", schema.Len()))

	// 3. Upstream clients
	session := oracle.NewSession(&http.Client{
		Timeout:   cfg.Oracle.Timeout,
		Transport: loggingTransport(metrics.UpstreamOracle),
	}, cfg.Oracle.URL).WithFailureCooldown(cfg.Oracle.AuthFailureCooldown)

	oracleClient := oracle.NewClient(&http.Client{
		Timeout: cfg.Oracle.Timeout,
		Transport: httpx.NewAuthBearerRoundTripper(
			breakerTransport(metrics.UpstreamOracle),
			session,
		),
	}, session, oracle.Config{
		BaseURL:          cfg.Oracle.URL,
		StalenessWindow:  cfg.Oracle.StalenessWindow,
		RefreshCooldown:  cfg.Oracle.RefreshCooldown,
		RetryBackoff:     cfg.Oracle.RetryBackoff,
		AuthRefreshLimit: cfg.Oracle.AuthRefreshLimit,
		RetryAfterUnit:   cfg.Oracle.RetryAfterUnit,
	})
	defer oracleClient.WaitRefreshes()

	marketClient := marketplace.NewClient(&http.Client{
		Timeout:   cfg.Market.Timeout,
		Transport: breakerTransport(metrics.UpstreamMarket),
	}, marketplace.Config{
		BaseURL:           cfg.Market.URL,
		Token:             cfg.Market.Token,
		AppID:             cfg.Market.AppID,
		MinInterval:       cfg.Market.MinInterval,
		RetryAfterUnit:    cfg.Market.RetryAfterUnit,
		MismatchPause:     cfg.Market.MismatchPause,
		MaxMismatches:     cfg.Market.MaxMismatches,
		MaxRateLimitWaits: cfg.Market.MaxRateLimitWaits,
	})

	// 4. Flip service
	svc := flip.NewService(oracleClient, marketClient, schema).
		WithQuality(cfg.Flip.Quality).
		WithRetryBudgets(cfg.Oracle.RetryBudget, cfg.Market.RetryBudget).
		WithConcurrency(cfg.Flip.Concurrency)

	// 5. Sinks
	sinks := []worker.Sink{worker.NewLogSink(slog.LevelInfo)}

	if cfg.Postgres.Enabled() {
		pg := &connectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		}
		db := pg.Client(ctx)
		defer pg.Close(ctx)

		if cfg.Postgres.MigrationsDir != "" {
			if err := migrate.FromDir(ctx, db, cfg.Postgres.MigrationsDir); err != nil {
				return fmt.Errorf("migrate dir: %w", err)
			}
		}

		if err := migrate.FromFile(ctx, db, cfg.Postgres.MigrationFiles()...); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		sinks = append(sinks, persistence.NewFlipResultRepository(db))
	}

	if cfg.Bot.Enabled() {
		alertBot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID, cfg.Bot.Top)
		if err != nil {
			return fmt.Errorf("notifier bot: %w", err)
		}

		sinks = append(sinks, alertBot)
	}

	// 6. Scanner
	scanner := worker.NewFlipScanner(svc, weapons).
		WithMode(cfg.Flip.Mode, cfg.Flip.RefineTop).
		WithInterval(cfg.Flip.Interval).
		WithSinks(sinks...)

	// 7. Modules
	var ready atomic.Bool

	g, ctx := errgroup.WithContext(ctx)

	modules.MetricServer{
		ListenAddress: cfg.App.MetricsListenAddress,
		Gatherer:      prometheus.DefaultGatherer,
	}.Run(ctx, g)

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.App.ProbeListenAddress,
		Ready:         ready.Load,
	}.Run(ctx, g)

	ready.Store(true)

	g.Go(func() error {
		defer cancel()

		if err := scanner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("scanner.Run: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return err //nolint:wrapcheck
	}

	log.Info("application stopped")

	return nil
}

func loggingTransport(upstream string) http.RoundTripper {
	return httpx.NewLoggingRoundTripper(
		http.DefaultTransport,
		httpx.WithUpstream(upstream),
		httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
		httpx.WithLogFieldMaxLen(logFieldMaxLen),
	)
}

func breakerTransport(upstream string) http.RoundTripper {
	return httpx.NewBreakerRoundTripper(loggingTransport(upstream), httpx.BreakerSettings{
		Name:                upstream,
		ConsecutiveFailures: breakerFailures,
		OpenTimeout:         breakerOpenTimeout,
	})
}

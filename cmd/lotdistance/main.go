package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/app"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/config"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/oba"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/report"
	"github.com/getsentry/sentry-go"
)

const version = "1.0.0"

const writeTimeout = 10 * time.Second

func main() {
	var (
		port             = flag.Int("port", 4000, "API server port")
		env              = flag.String("env", "development", "Environment (development|staging|production)")
		catalogFile      = flag.String("catalog-file", "", "Path to a local JSON or YAML lot catalog")
		catalogURL       = flag.String("catalog-url", "", "URL to a remote JSON or YAML lot catalog")
		gtfsFile         = flag.String("gtfs-file", "", "Path to a local GTFS zip whose stops are used as lots")
		gtfsURL          = flag.String("gtfs-url", "", "URL to a remote GTFS zip whose stops are used as lots")
		refreshInterval  = flag.Duration("refresh-interval", time.Hour, "How often the lot source is reloaded (0 disables)")
		maxRetries       = flag.Int("max-retries", 5, "Retries for remote downloads (0 retries until cancelled)")
		maxEdgeKm        = flag.Float64("max-edge-km", 5, "Longest walking edge, in kilometers, between two points in the graph")
		fullConnectivity = flag.Bool("full-connectivity", false, "Join disconnected clusters so every destination is reachable by path")
		obaBaseURL       = flag.String("oba-base-url", "", "OneBusAway server used to resolve transit stop IDs")
		obaRPS           = flag.Float64("oba-rps", oba.DefaultRequestsPerSec, "Rate limit for OneBusAway requests")
		obaPingInterval  = flag.Duration("oba-ping-interval", 30*time.Second, "How often the OneBusAway server is pinged")
	)

	flag.Parse()

	if err := config.ValidateCatalogFlags(catalogFile, catalogURL, gtfsFile, gtfsURL); err != nil {
		fmt.Println("Error:", err)
		flag.Usage()
		os.Exit(1)
	}
	if err := config.ValidateMaxEdgeKm(*maxEdgeKm); err != nil {
		fmt.Println("Error:", err)
		flag.Usage()
		os.Exit(1)
	}

	cfg := config.NewConfig(*port, *env, version)
	cfg.CatalogFile = *catalogFile
	cfg.CatalogURL = *catalogURL
	cfg.CatalogAuthUser = os.Getenv("CATALOG_AUTH_USER")
	cfg.CatalogAuthPass = os.Getenv("CATALOG_AUTH_PASS")
	cfg.GtfsFile = *gtfsFile
	cfg.GtfsURL = *gtfsURL
	cfg.RefreshInterval = *refreshInterval
	cfg.MaxRetries = *maxRetries
	cfg.MaxEdgeKm = *maxEdgeKm
	cfg.FullConnectivity = *fullConnectivity
	cfg.ObaBaseURL = *obaBaseURL
	cfg.ObaAPIKey = os.Getenv("OBA_API_KEY")
	cfg.ObaRPS = *obaRPS
	cfg.StopLookupTimeout = writeTimeout - 2*time.Second

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := report.SetupSentry(report.SentryConfig{
		DSN:         os.Getenv("SENTRY_DSN"),
		Environment: cfg.Env,
		Release:     version,
	}); err != nil {
		logger.Error("Failed to initialize Sentry", "error", err)
	}
	defer report.FlushSentry()

	if cfg.ObaBaseURL != "" && cfg.ObaAPIKey == "" {
		logger.Warn("--oba-base-url is set but OBA_API_KEY is empty, stop lookups will use the GTFS index if one is loaded")
	}

	application, err := app.New(cfg, logger, app.NewPooledClient(2*time.Minute), version)
	if err != nil {
		logger.Error("Failed to create application", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The first load must succeed; later failures keep serving the last good set.
	refresher := application.LotRefresher(config.NewBackoffStore())
	if err := refresher.Refresh(ctx); err != nil {
		logger.Error("Failed to load lots", "source", refresher.Source, "error", err)
		report.FlushSentry()
		os.Exit(1)
	}
	go refresher.Run(ctx, cfg.RefreshInterval)

	application.StartOBAHealthChecks(ctx, *obaPingInterval)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      application.Routes(ctx),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: writeTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env, "max_edge_km", cfg.MaxEdgeKm)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		report.ReportError(err, sentry.LevelFatal)
		report.FlushSentry()
		logger.Error(err.Error())
		os.Exit(1)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}

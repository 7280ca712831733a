package report

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// SentryConfig holds what SetupSentry needs to initialise the global client.
type SentryConfig struct {
	DSN         string
	Environment string
	Release     string
	Debug       bool
	// SampleRate applies to performance traces only; errors are always sent.
	SampleRate float64
}

// SetupSentry initialises the global Sentry client. An empty DSN leaves
// reporting disabled, which is what local runs and tests want.
func SetupSentry(cfg SentryConfig) error {
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		Debug:            cfg.Debug,
		EnableTracing:    cfg.SampleRate > 0,
		TracesSampleRate: cfg.SampleRate,
	}); err != nil {
		return fmt.Errorf("sentry.Init: %w", err)
	}
	ConfigureScope(cfg.Environment, cfg.Release)
	if cfg.DSN != "" {
		sentry.CaptureMessage("Lot distance service started")
	}
	return nil
}

func FlushSentry() {
	sentry.Flush(2 * time.Second)
}

package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/config"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/metrics"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/models"
)

// Loader produces a fresh lot list, for example by downloading a catalog.
type Loader func(ctx context.Context) ([]models.Location, error)

// Refresher keeps a Store filled from a Loader. Source names the loader in
// logs, metrics and the backoff store.
type Refresher struct {
	Source  string
	Load    Loader
	Store   *Store
	Config  *config.Config
	Backoff *config.BackoffStore
	Logger  *slog.Logger
}

func NewRefresher(source string, load Loader, store *Store, cfg *config.Config, backoff *config.BackoffStore, logger *slog.Logger) *Refresher {
	return &Refresher{
		Source:  source,
		Load:    load,
		Store:   store,
		Config:  cfg,
		Backoff: backoff,
		Logger:  logger,
	}
}

// Refresh loads once and, on success, replaces the Store contents. On
// failure the Store keeps serving the previous catalog.
func (r *Refresher) Refresh(ctx context.Context) error {
	lots, err := r.Load(ctx)
	if err != nil {
		metrics.CatalogRefreshStatus.WithLabelValues(r.Source).Set(0)
		r.Backoff.UpdateBackoff(r.Source)
		return err
	}

	r.Store.Set(lots)
	r.Backoff.ResetBackoff(r.Source)
	r.Config.MarkLotsLoaded(r.Source, time.Now())
	metrics.CatalogRefreshStatus.WithLabelValues(r.Source).Set(1)
	metrics.LotsLoaded.WithLabelValues(r.Source).Set(float64(len(lots)))
	return nil
}

// Run refreshes every interval until ctx is cancelled. A failed refresh is
// retried on the backoff schedule when that comes sooner than the interval.
//
// Errors are logged and the loop continues; loaders report to Sentry. A
// non-positive interval disables refreshing.
func (r *Refresher) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Logger.Info("Stopping catalog refresh routine", "source", r.Source)
			return
		case <-timer.C:
			if err := r.Refresh(ctx); err != nil {
				r.Logger.Error("Failed to refresh lot catalog", "source", r.Source, "error", err)
			} else {
				r.Logger.Info("Successfully refreshed lot catalog", "source", r.Source, "lots", r.Store.Len())
			}
			timer.Reset(r.nextWait(interval))
		}
	}
}

func (r *Refresher) nextWait(interval time.Duration) time.Duration {
	next, backingOff := r.Backoff.NextRetryAt(r.Source)
	if !backingOff {
		return interval
	}
	if wait := time.Until(next); wait < interval {
		return max(wait, 0)
	}
	return interval
}

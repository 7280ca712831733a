package app

import (
	"context"
	"time"
)

// StartOBAHealthChecks pings the OneBusAway server every interval until ctx
// is cancelled, keeping metrics.ObaApiStatus current. It does nothing when
// stop lookups are not configured.
func (app *Application) StartOBAHealthChecks(ctx context.Context, interval time.Duration) {
	if app.StopFinder == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			app.pingOBA(ctx)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func (app *Application) pingOBA(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := app.StopFinder.Ping(ctx); err != nil {
		app.Logger.Error("OneBusAway server is not responding", "oba_base_url", app.Config.ObaBaseURL, "error", err)
	}
}

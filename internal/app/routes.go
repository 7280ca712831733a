package app

import (
	"context"
	"net/http"
	"time"

	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/middleware"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
)

// Routes registers the application's endpoints and wraps the router in
// the middleware chain. ctx bounds the cached /metrics refresh loop.
//
//   - GET  /v1/healthcheck
//   - POST /v1/distances
//   - GET  /v1/lots/distances?lat=&lng=
//   - GET  /v1/stops/distances?lat=&lng=&stop_id=
//   - GET  /metrics
func (app *Application) Routes(ctx context.Context) http.Handler {
	router := httprouter.New()

	handle := func(method, route string, h http.HandlerFunc) {
		router.Handler(method, route, middleware.Instrument(route, h))
	}
	handle(http.MethodGet, "/v1/healthcheck", app.healthcheckHandler)
	handle(http.MethodPost, "/v1/distances", app.distancesHandler)
	handle(http.MethodGet, "/v1/lots/distances", app.lotsDistancesHandler)
	handle(http.MethodGet, "/v1/stops/distances", app.stopsDistancesHandler)

	router.Handler(http.MethodGet, "/metrics", middleware.NewCachedPromHandler(ctx, prometheus.DefaultGatherer, 10*time.Second))

	// Request ids are assigned first so Sentry reports can carry them.
	handler := middleware.SentryMiddleware(router)
	handler = middleware.RequestID(handler)
	return middleware.SecurityHeaders(handler)
}

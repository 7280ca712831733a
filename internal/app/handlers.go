package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/geo"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/middleware"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/models"
)

const (
	maxRequestBytes = 1 << 20
	maxStopIDs      = 100

	// DefaultStopLookupTimeout bounds a stop lookup when the configuration
	// sets no timeout. It stays under the server's 10s write timeout.
	DefaultStopLookupTimeout = 8 * time.Second
)

// HealthStatus is the JSON body of /v1/healthcheck.
//
// The service is ready once a lot catalog has been loaded; until then only
// POST /v1/distances, which brings its own destinations, can serve traffic.
type HealthStatus struct {
	Status       string           `json:"status"`
	Environment  string           `json:"environment"`
	Version      string           `json:"version"`
	Lots         int              `json:"lots"`
	LotsSource   string           `json:"lots_source,omitempty"`
	LotsLoadedAt *time.Time       `json:"lots_loaded_at,omitempty"`
	BoundingBox  *geo.BoundingBox `json:"bounding_box,omitempty"`
	StopLookup   string           `json:"stop_lookup"`
	MaxEdgeKm    float64          `json:"max_edge_km"`
	Ready        bool             `json:"ready"`
}

// healthcheckHandler responds with a JSON representation of the application's
// health status, with HTTP 500 while no lots are loaded.
func (app *Application) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	lots := app.Catalog.Len()
	ready := lots > 0

	status := HealthStatus{
		Status:      "available",
		Environment: app.Config.Env,
		Version:     app.Version,
		Lots:        lots,
		StopLookup:  app.stopLookupName(),
		MaxEdgeKm:   app.Config.MaxEdgeKm,
		Ready:       ready,
	}
	if source, at := app.Config.LotsLoaded(); !at.IsZero() {
		status.LotsSource = source
		status.LotsLoadedAt = &at
	}
	if bbox, ok := app.Catalog.BoundingBox(); ok {
		status.BoundingBox = &bbox
	}

	code := http.StatusOK
	if !ready {
		code = http.StatusInternalServerError
	}
	app.writeJSON(w, r, code, status)
}

// distancesHandler annotates the destinations posted in a DistanceRequest.
// A request without sourceCoordinates gets its destinations back unchanged.
func (app *Application) distancesHandler(w http.ResponseWriter, r *http.Request) {
	var req models.DistanceRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		app.badRequest(w, r, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		app.badRequest(w, r, errors.New("invalid request body: unexpected data after the JSON object"))
		return
	}

	src, err := req.Source()
	if err != nil {
		app.badRequest(w, r, err)
		return
	}
	if src != nil && !geo.IsValidLatLon(src[0], src[1]) {
		app.badRequest(w, r, fmt.Errorf("sourceCoordinates out of range: [%v, %v]", src[0], src[1]))
		return
	}

	destinations := req.Destinations
	if destinations == nil {
		destinations = []models.Location{}
	}
	app.writeJSON(w, r, http.StatusOK, app.Annotate(SourceRequest, src, destinations))
}

// lotsDistancesHandler annotates the loaded lot catalog from ?lat=&lng=.
func (app *Application) lotsDistancesHandler(w http.ResponseWriter, r *http.Request) {
	origin, err := parseOrigin(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	lots := app.Catalog.Get()
	if len(lots) == 0 {
		app.errorResponse(w, r, http.StatusServiceUnavailable, "no lots loaded")
		return
	}
	app.writeJSON(w, r, http.StatusOK, app.Annotate(SourceCatalog, &origin, lots))
}

// StopsResponse is the JSON body of /v1/stops/distances.
type StopsResponse struct {
	Destinations   []models.Location `json:"destinations"`
	MissingStopIDs []string          `json:"missing_stop_ids"`
}

// stopsDistancesHandler resolves ?stop_id= values (repeated or comma
// separated) and annotates them from ?lat=&lng=.
func (app *Application) stopsDistancesHandler(w http.ResponseWriter, r *http.Request) {
	origin, err := parseOrigin(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	stopIDs := parseStopIDs(r)
	if len(stopIDs) == 0 {
		app.badRequest(w, r, errors.New("at least one stop_id is required"))
		return
	}
	if len(stopIDs) > maxStopIDs {
		app.badRequest(w, r, fmt.Errorf("at most %d stop_id values are allowed", maxStopIDs))
		return
	}

	lookup := app.stopLookup()
	if lookup == nil {
		app.errorResponse(w, r, http.StatusServiceUnavailable, "stop lookup is not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), app.stopLookupTimeout())
	defer cancel()

	found, missing, err := lookup(ctx, stopIDs)
	if err != nil {
		app.Logger.Error("Failed to resolve stops", "error", err, "request_id", middleware.RequestIDFromContext(r.Context()))
		app.errorResponse(w, r, http.StatusGatewayTimeout, "stop lookup did not complete")
		return
	}

	resp := StopsResponse{
		Destinations:   app.Annotate(SourceStops, &origin, found),
		MissingStopIDs: missing,
	}
	if resp.Destinations == nil {
		resp.Destinations = []models.Location{}
	}
	if resp.MissingStopIDs == nil {
		resp.MissingStopIDs = []string{}
	}
	app.writeJSON(w, r, http.StatusOK, resp)
}

func (app *Application) stopLookupTimeout() time.Duration {
	if app.Config.StopLookupTimeout > 0 {
		return app.Config.StopLookupTimeout
	}
	return DefaultStopLookupTimeout
}

// parseOrigin reads and validates the lat and lng query parameters.
func parseOrigin(r *http.Request) ([2]float64, error) {
	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		return [2]float64{}, fmt.Errorf("invalid or missing lat: %q", q.Get("lat"))
	}
	lng, err := strconv.ParseFloat(q.Get("lng"), 64)
	if err != nil {
		return [2]float64{}, fmt.Errorf("invalid or missing lng: %q", q.Get("lng"))
	}
	if !geo.IsValidLatLon(lat, lng) {
		return [2]float64{}, fmt.Errorf("coordinates out of range: [%v, %v]", lat, lng)
	}
	return [2]float64{lat, lng}, nil
}

// parseStopIDs collects non-empty, de-duplicated stop IDs in request order.
func parseStopIDs(r *http.Request) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, v := range r.URL.Query()["stop_id"] {
		for _, id := range strings.Split(v, ",") {
			id = strings.TrimSpace(id)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/catalog"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/config"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/geo"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/gtfs"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/metrics"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/models"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/oba"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/pathfinding"
)

// Annotation sources, used as the "source" metric label.
const (
	SourceRequest = "request"
	SourceCatalog = "catalog"
	SourceStops   = "stops"
)

// StopLookup resolves stop IDs to locations, returning the IDs it could not
// resolve. Both the OneBusAway resolver and the GTFS stop index satisfy it.
type StopLookup func(ctx context.Context, stopIDs []string) ([]models.Location, []string, error)

// Application holds the services the HTTP handlers and background jobs use.
// One annotator per source keeps metrics for posted lots, catalog lots and
// transit stops apart.
type Application struct {
	Config      *config.Config
	Catalog     *catalog.Store
	GtfsService *gtfs.GtfsService
	StopFinder  *oba.StopResolver
	Logger      *slog.Logger
	Client      *http.Client
	Version     string

	annotators map[string]*pathfinding.Annotator
}

// New creates and wires all dependencies for the Application.
func New(cfg *config.Config, logger *slog.Logger, client *http.Client, version string) (*Application, error) {
	annotators := make(map[string]*pathfinding.Annotator, 3)
	for _, source := range []string{SourceRequest, SourceCatalog, SourceStops} {
		opts := []pathfinding.Option{
			pathfinding.WithMaxEdgeDistance(cfg.MaxEdgeKm),
			pathfinding.WithObserver(metrics.NewAnnotationObserver(source)),
		}
		if cfg.FullConnectivity {
			opts = append(opts, pathfinding.WithFullConnectivity())
		}
		a, err := pathfinding.NewAnnotator(logger.With("source", source), opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s annotator: %w", source, err)
		}
		annotators[source] = a
	}

	app := &Application{
		Config:      cfg,
		Catalog:     catalog.NewStore(),
		GtfsService: gtfs.NewGtfsService(gtfs.NewStaticStore(), logger, client, cfg.MaxRetries),
		Logger:      logger,
		Client:      client,
		Version:     version,
		annotators:  annotators,
	}
	if cfg.ObaEnabled() {
		app.StopFinder = oba.NewStopResolver(cfg.ObaBaseURL, cfg.ObaAPIKey, cfg.ObaRPS, client, logger)
	}
	return app, nil
}

// Annotate runs the annotator registered for source.
func (app *Application) Annotate(source string, origin *[2]float64, destinations []models.Location) []models.Location {
	a, ok := app.annotators[source]
	if !ok {
		a = app.annotators[SourceRequest]
	}
	if origin == nil {
		return a.Annotate(nil, destinations)
	}
	c := geo.NewCoordinate(*origin)
	return a.Annotate(&c, destinations)
}

// stopLookup prefers the OneBusAway server and falls back to the stops of a
// loaded GTFS bundle. It returns nil when neither is available.
func (app *Application) stopLookup() StopLookup {
	if app.StopFinder != nil {
		return app.StopFinder.Resolve
	}
	if app.GtfsService != nil && app.GtfsService.StaticStore.Len() > 0 {
		return func(_ context.Context, stopIDs []string) ([]models.Location, []string, error) {
			found, missing := app.GtfsService.LookupStops(stopIDs)
			return found, missing, nil
		}
	}
	return nil
}

// stopLookupName names the lookup stopLookup would use, for the healthcheck.
func (app *Application) stopLookupName() string {
	switch {
	case app.StopFinder != nil:
		return "oba"
	case app.GtfsService != nil && app.GtfsService.StaticStore.Len() > 0:
		return "gtfs"
	}
	return "none"
}

package app

import (
	"context"

	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/catalog"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/config"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/models"
)

// Lot source names, as recorded by config.MarkLotsLoaded.
const (
	LotSourceCatalogFile = "catalog-file"
	LotSourceCatalogURL  = "catalog-url"
	LotSourceGtfsFile    = "gtfs-file"
	LotSourceGtfsURL     = "gtfs-url"
)

// LotRefresher returns a catalog.Refresher for whichever lot source the
// configuration names. Local files are loaded the same way as remote
// sources so a file edited in place is picked up on the next refresh.
func (app *Application) LotRefresher(backoff *config.BackoffStore) *catalog.Refresher {
	cfg := app.Config

	var source string
	var load catalog.Loader
	switch {
	case cfg.CatalogFile != "":
		source = LotSourceCatalogFile
		load = func(context.Context) ([]models.Location, error) {
			return catalog.LoadFromFile(cfg.CatalogFile)
		}
	case cfg.CatalogURL != "":
		source = LotSourceCatalogURL
		load = func(ctx context.Context) ([]models.Location, error) {
			return catalog.LoadFromURL(ctx, app.Client, cfg.CatalogURL, cfg.CatalogAuthUser, cfg.CatalogAuthPass, cfg.MaxRetries)
		}
	case cfg.GtfsFile != "":
		source = LotSourceGtfsFile
		load = func(context.Context) ([]models.Location, error) {
			return app.GtfsService.LoadLotsFromFile(cfg.GtfsFile)
		}
	default:
		source = LotSourceGtfsURL
		load = func(ctx context.Context) ([]models.Location, error) {
			return app.GtfsService.DownloadLots(ctx, cfg.GtfsURL)
		}
	}

	return catalog.NewRefresher(source, load, app.Catalog, cfg, backoff, app.Logger)
}

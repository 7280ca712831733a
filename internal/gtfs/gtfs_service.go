package gtfs

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/models"
)

type GtfsService struct {
	StaticStore *StaticStore
	Logger      *slog.Logger
	Client      *http.Client
	MaxRetries  int
}

func NewGtfsService(staticStore *StaticStore, logger *slog.Logger, client *http.Client, maxRetries int) *GtfsService {
	return &GtfsService{
		StaticStore: staticStore,
		Logger:      logger,
		Client:      client,
		MaxRetries:  maxRetries,
	}
}

// LoadLotsFromFile loads shuttle stops from a GTFS zip on disk.
func (gs *GtfsService) LoadLotsFromFile(path string) ([]models.Location, error) {
	lots, err := loadLotsFromFile(path, gs.StaticStore)
	if err != nil {
		return nil, err
	}
	gs.Logger.Info("Loaded shuttle stops from GTFS bundle", "file_path", path, "lots", len(lots), "stops", gs.StaticStore.Len())
	return lots, nil
}

// DownloadLots loads shuttle stops from a remote GTFS zip. It has the
// signature of a catalog loader so it can drive periodic refreshes.
func (gs *GtfsService) DownloadLots(ctx context.Context, url string) ([]models.Location, error) {
	lots, err := downloadLots(ctx, gs.Client, url, gs.MaxRetries, gs.StaticStore)
	if err != nil {
		return nil, err
	}
	gs.Logger.Info("Downloaded shuttle stops from GTFS bundle", "gtfs_url", url, "lots", len(lots), "stops", gs.StaticStore.Len())
	return lots, nil
}

// LookupStops resolves GTFS stop IDs against the last loaded bundle.
func (gs *GtfsService) LookupStops(stopIDs []string) ([]models.Location, []string) {
	return gs.StaticStore.LookupStops(stopIDs)
}

package gtfs

import (
	"sync"

	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/models"
	remoteGtfs "github.com/jamespfennell/gtfs"
)

// StaticStore is a thread-safe in-memory index of the stops of the most
// recently loaded GTFS static bundle, keyed by stop ID.
type StaticStore struct {
	mu    sync.RWMutex
	stops map[string]remoteGtfs.Stop
}

// NewStaticStore initializes and returns a new instance of StaticStore.
// The underlying map is built on the first Set.
func NewStaticStore() *StaticStore {
	return &StaticStore{}
}

// Set replaces the indexed stops with those of static. Only the stops are
// kept so the rest of the bundle can be collected.
func (s *StaticStore) Set(static *remoteGtfs.Static) {
	stops := make(map[string]remoteGtfs.Stop, len(static.Stops))
	for _, stop := range static.Stops {
		stops[stop.Id] = stop
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops = stops
}

// Len returns the number of indexed stops.
func (s *StaticStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stops)
}

// LookupStops returns a location for every known stop in stopIDs, in input
// order, and the IDs that were unknown or have no coordinates.
func (s *StaticStore) LookupStops(stopIDs []string) ([]models.Location, []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found []models.Location
	var missing []string
	for _, id := range stopIDs {
		stop, ok := s.stops[id]
		if !ok || stop.Latitude == nil || stop.Longitude == nil {
			missing = append(missing, id)
			continue
		}
		loc, err := models.NewLocationFromFields(map[string]any{
			"id":          stop.Id,
			"name":        stop.Name,
			"code":        stop.Code,
			"type":        ShuttleStopType,
			"coordinates": []float64{*stop.Latitude, *stop.Longitude},
		})
		if err != nil {
			missing = append(missing, id)
			continue
		}
		found = append(found, loc)
	}
	return found, missing
}

package catalog

import (
	"sync"

	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/geo"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/models"
)

// Store is a thread-safe in-memory holder for the current lot catalog.
// Lots keep the order they were loaded in, which is the order annotated
// responses come back in.
type Store struct {
	mu   sync.RWMutex
	lots []models.Location
	bbox *geo.BoundingBox
}

// NewStore initializes and returns a new, empty Store.
func NewStore() *Store {
	return &Store{}
}

// Set replaces the catalog and recomputes its bounding box. Lots without
// valid coordinates are kept but do not contribute to the box.
func (s *Store) Set(lots []models.Location) {
	lots = append([]models.Location(nil), lots...)

	coords := make([]geo.Coordinate, len(lots))
	for i, lot := range lots {
		coords[i] = lot.Coordinates()
	}
	var bbox *geo.BoundingBox
	if b, err := geo.ComputeBoundingBox(coords); err == nil {
		bbox = &b
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lots = lots
	s.bbox = bbox
}

// Get returns a copy of the catalog. Locations are immutable, so sharing
// them between callers is safe.
func (s *Store) Get() []models.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Location(nil), s.lots...)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lots)
}

// BoundingBox returns the box around the catalog's valid coordinates and
// false when there are none.
func (s *Store) BoundingBox() (geo.BoundingBox, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.bbox == nil {
		return geo.BoundingBox{}, false
	}
	return *s.bbox, true
}

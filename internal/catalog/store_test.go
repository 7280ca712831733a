package catalog

import (
	"sync"
	"testing"

	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/models"
)

func TestStore(t *testing.T) {
	store := NewStore()
	if store.Len() != 0 {
		t.Fatalf("expected an empty store, got %d lots", store.Len())
	}
	if _, ok := store.BoundingBox(); ok {
		t.Fatal("expected no bounding box for an empty store")
	}

	lots := []models.Location{
		models.MustLocation(`{"id":"a","coordinates":[40.9151,-73.1230]}`),
		models.MustLocation(`{"id":"b","coordinates":[40.9200,-73.1500]}`),
		models.MustLocation(`{"id":"broken"}`),
	}
	store.Set(lots)

	if store.Len() != 3 {
		t.Errorf("expected 3 lots, got %d", store.Len())
	}

	bbox, ok := store.BoundingBox()
	if !ok {
		t.Fatal("expected a bounding box")
	}
	if bbox.MinLat != 40.9151 || bbox.MaxLat != 40.92 || bbox.MinLon != -73.15 || bbox.MaxLon != -73.123 {
		t.Errorf("unexpected bounding box %+v", bbox)
	}

	got := store.Get()
	got[0] = models.MustLocation(`{"id":"changed"}`)
	if id := store.Get()[0].Get("id").String(); id != "a" {
		t.Errorf("expected Get to return a copy, store now has %q", id)
	}

	lots[1] = models.MustLocation(`{"id":"changed"}`)
	if id := store.Get()[1].Get("id").String(); id != "b" {
		t.Errorf("expected Set to copy its input, store now has %q", id)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewStore()
	lots := []models.Location{models.MustLocation(`{"coordinates":[40.9151,-73.1230]}`)}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Set(lots)
		}()
		go func() {
			defer wg.Done()
			store.Get()
			store.BoundingBox()
		}()
	}
	wg.Wait()

	if store.Len() != 1 {
		t.Errorf("expected 1 lot, got %d", store.Len())
	}
}

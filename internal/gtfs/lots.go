package gtfs

import (
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/models"
	remoteGtfs "github.com/jamespfennell/gtfs"
)

// ShuttleStopType is the "type" field of locations built from GTFS stops.
const ShuttleStopType = "shuttle_stop"

// stopGroupID returns the id a stop is listed under. Platforms, entrances and
// boarding areas are folded into their root station so a station served by
// several platforms is a single destination. For the GTFS hierarchy see the
// parent_station section of https://gtfs.org/schedule/reference/#stopstxt.
//
// ok is false for stops with a malformed hierarchy.
func stopGroupID(stop *remoteGtfs.Stop) (id string, ok bool) {
	switch stop.Type {
	case 0: // Stop or Platform
		if stop.Parent == nil {
			return stop.Id, true
		}
		if root := stop.Root(); root.Type == 1 {
			return root.Id, true
		}
		return "", false
	case 1: // Station
		return stop.Id, true
	case 2, 3: // Entrance/Exit or Generic Node
		if stop.Parent != nil && stop.Parent.Type == 1 {
			return stop.Parent.Id, true
		}
	case 4: // Boarding Area
		if stop.Parent != nil && stop.Parent.Type == 0 {
			if stop.Parent.Parent == nil {
				return stop.Parent.Id, true
			}
			if stop.Parent.Parent.Type == 1 {
				return stop.Parent.Parent.Id, true
			}
		}
	}
	return "", false
}

// LotsFromStatic turns the stops of a parsed GTFS bundle into destination
// locations, one per stop group, in the order groups first appear. A group's
// coordinates are those of its root stop; groups whose root has no
// coordinates are skipped.
func LotsFromStatic(static *remoteGtfs.Static) []models.Location {
	if static == nil {
		return nil
	}

	byID := make(map[string]*remoteGtfs.Stop, len(static.Stops))
	for i := range static.Stops {
		byID[static.Stops[i].Id] = &static.Stops[i]
	}

	var order []string
	members := make(map[string]int)
	for i := range static.Stops {
		id, ok := stopGroupID(&static.Stops[i])
		if !ok {
			continue
		}
		if _, seen := members[id]; !seen {
			order = append(order, id)
		}
		members[id]++
	}

	lots := make([]models.Location, 0, len(order))
	for _, id := range order {
		root, ok := byID[id]
		if !ok || root.Latitude == nil || root.Longitude == nil {
			continue
		}
		loc, err := models.NewLocationFromFields(map[string]any{
			"id":          root.Id,
			"name":        root.Name,
			"code":        root.Code,
			"type":        ShuttleStopType,
			"stops":       members[id],
			"coordinates": []float64{*root.Latitude, *root.Longitude},
		})
		if err != nil {
			continue
		}
		lots = append(lots, loc)
	}
	return lots
}

// ParseLots parses a GTFS static zip and returns its stop groups as locations.
func ParseLots(data []byte) ([]models.Location, *remoteGtfs.Static, error) {
	static, err := remoteGtfs.ParseStatic(data, remoteGtfs.ParseStaticOptions{})
	if err != nil {
		return nil, nil, err
	}
	return LotsFromStatic(static), static, nil
}

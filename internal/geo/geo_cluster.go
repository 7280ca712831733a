package geo

import (
	"fmt"

	"github.com/golang/geo/s2"
)

// ClusterLevel is the S2 cell level used for cluster ids (~5 km cells),
// roughly the default proximity-graph edge threshold.
const ClusterLevel = 11

// ClusterID returns a stable S2-based cluster id for c at ClusterLevel.
// Coordinates that are not valid lat/lon yield "invalid".
func ClusterID(c Coordinate) string {
	return clusterID(c, ClusterLevel)
}

func clusterID(c Coordinate, level int) string {
	if !IsValidLatLon(c.Lat, c.Lng) {
		return "invalid"
	}
	ll := s2.LatLngFromDegrees(c.Lat, c.Lng)
	cellID := s2.CellIDFromLatLng(ll).Parent(level)
	return fmt.Sprintf("s2_%d", uint64(cellID))
}

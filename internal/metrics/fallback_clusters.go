package metrics

import (
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/geo"
)

// reportFallbackCluster counts a direct-distance fallback under the S2
// cluster of the destination. Destinations without valid coordinates land
// in the "invalid" cluster so they stay visible on dashboards.
func reportFallbackCluster(dest geo.Coordinate) {
	DirectFallbackClusters.WithLabelValues(geo.ClusterID(dest)).Inc()
}

package metrics

import (
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/geo"
)

// AnnotationObserver records annotator events as Prometheus metrics. The
// source label separates lots posted by clients from the loaded catalog and
// from resolved transit stops.
//
// It keeps no state of its own and can be shared by concurrent annotations.
type AnnotationObserver struct {
	source string
}

func NewAnnotationObserver(source string) *AnnotationObserver {
	return &AnnotationObserver{source: source}
}

// GraphBuilt is called once per non-degenerate annotation.
func (o *AnnotationObserver) GraphBuilt(nodes, edges, isolated int) {
	AnnotateRequests.WithLabelValues(o.source).Inc()
	GraphNodes.WithLabelValues(o.source).Observe(float64(nodes))
	GraphEdges.WithLabelValues(o.source).Observe(float64(edges))
	GraphIsolatedNodes.WithLabelValues(o.source).Observe(float64(isolated))
}

func (o *AnnotationObserver) DestinationResolved(dest geo.Coordinate, direct bool) {
	if !direct {
		DestinationsResolved.WithLabelValues(o.source, "path").Inc()
		return
	}
	DestinationsResolved.WithLabelValues(o.source, "direct").Inc()
	reportFallbackCluster(dest)
}

func (o *AnnotationObserver) PathFailed(error) {
	PathErrors.WithLabelValues(o.source).Inc()
}

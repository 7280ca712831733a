package pathfinding

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/geo"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/models"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/report"
	"github.com/getsentry/sentry-go"
)

// ErrPathPanic wraps a panic recovered while computing a path.
var ErrPathPanic = errors.New("pathfinding: path computation panicked")

const sourceNode = 0

// Annotator annotates destination lists with walking-distance estimates.
// It holds only immutable configuration and may be shared between goroutines.
type Annotator struct {
	logger  *slog.Logger
	options Options
}

// NewAnnotator validates opts and returns an Annotator. A nil logger falls
// back to slog.Default().
func NewAnnotator(logger *slog.Logger, opts ...Option) (*Annotator, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Annotator{logger: logger, options: cfg}, nil
}

// Annotate uses the default options and slog.Default().
func Annotate(source *geo.Coordinate, destinations []models.Location) []models.Location {
	a := &Annotator{logger: slog.Default(), options: DefaultOptions()}
	return a.Annotate(source, destinations)
}

// MaxEdgeKm returns the configured proximity threshold.
func (a *Annotator) MaxEdgeKm() float64 {
	return a.options.MaxEdgeKm
}

// Annotate returns a copy of destinations, same length and order, in which
// every element carries calculatedDistance (km) and distance ("X.X miles",
// or "X.X miles (direct)" when the direct haversine distance was used).
//
// A nil source or an empty destination list returns destinations unchanged.
// Failures for one destination are logged, reported and replaced by the
// direct distance; they never affect the others.
func (a *Annotator) Annotate(source *geo.Coordinate, destinations []models.Location) []models.Location {
	if source == nil || len(destinations) == 0 {
		return destinations
	}

	points := make([]geo.Coordinate, 0, len(destinations)+1)
	points = append(points, *source)
	for _, dest := range destinations {
		points = append(points, dest.Coordinates())
	}

	g := a.buildGraph(points)

	annotated := make([]models.Location, len(destinations))
	for i, dest := range destinations {
		annotated[i] = a.annotateOne(g, points, i, dest)
	}
	return annotated
}

func (a *Annotator) buildGraph(points []geo.Coordinate) *Graph {
	g := BuildGraph(points, a.options.MaxEdgeKm)
	if a.options.FullConnectivity {
		if added := ConnectComponents(g, points); added > 0 {
			a.logger.Debug("Joined disconnected graph components", "edges_added", added)
		}
	}
	a.options.Observer.GraphBuilt(g.Len(), g.EdgeCount(), len(g.IsolatedNodes()))
	return g
}

// annotateOne resolves destination i (graph node i+1).
func (a *Annotator) annotateOne(g *Graph, points []geo.Coordinate, i int, dest models.Location) models.Location {
	node := i + 1

	res, err := solve(g, sourceNode, node)
	if err == nil && res.Reachable() {
		a.options.Observer.DestinationResolved(points[node], false)
		return a.label(dest, res.Distance, false, i)
	}

	if err != nil {
		a.logger.Error("Failed to compute path distance, using direct distance", "destination", i, "error", err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags: map[string]string{
				"destination": strconv.Itoa(i),
			},
			ExtraContext: map[string]interface{}{
				"source":      points[sourceNode].String(),
				"coordinates": points[node].String(),
			},
			Level: sentry.LevelWarning,
		})
		a.options.Observer.PathFailed(err)
	}

	direct := geo.HaversineKm(points[sourceNode], points[node])
	a.options.Observer.DestinationResolved(points[node], true)
	return a.label(dest, direct, true, i)
}

// solve runs ShortestPath and turns a panic into an error.
func solve(g *Graph, start, end int) (res PathResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrPathPanic, rec)
		}
	}()
	return ShortestPath(g, start, end)
}

func (a *Annotator) label(dest models.Location, km float64, direct bool, i int) models.Location {
	out, err := dest.WithDistance(km, FormatMiles(km, direct))
	if err != nil {
		a.logger.Error("Failed to annotate destination", "destination", i, "error", err)
		return dest
	}
	return out
}

// FormatMiles converts km to miles and formats it with one decimal place,
// e.g. "1.5 miles" or "1.5 miles (direct)".
func FormatMiles(km float64, direct bool) string {
	label := fmt.Sprintf("%.1f miles", km*geo.KmToMiles)
	if direct {
		label += " (direct)"
	}
	return label
}

package pathfinding

import (
	"bytes"
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/geo"
	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu       sync.Mutex
	graphs   int
	nodes    int
	isolated int
	path     int
	direct   int
	failures []error
}

func (o *recordingObserver) GraphBuilt(nodes, edges, isolated int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.graphs++
	o.nodes = nodes
	o.isolated = isolated
}

func (o *recordingObserver) DestinationResolved(_ geo.Coordinate, direct bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if direct {
		o.direct++
	} else {
		o.path++
	}
}

func (o *recordingObserver) PathFailed(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failures = append(o.failures, err)
}

func newTestAnnotator(t *testing.T, opts ...Option) (*Annotator, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	a, err := NewAnnotator(logger, opts...)
	require.NoError(t, err)
	return a, &buf
}

func lot(raw string) models.Location {
	return models.MustLocation(raw)
}

func TestAnnotate_CampusScenario(t *testing.T) {
	a, _ := newTestAnnotator(t)
	source := campusCenter
	destinations := []models.Location{
		lot(`{"name":"Lot 40","coordinates":[40.9151,-73.1230]}`),
		lot(`{"name":"South P","coordinates":[40.9200,-73.1500]}`),
	}

	out := a.Annotate(&source, destinations)
	require.Len(t, out, 2)

	assert.Equal(t, "0.1 miles", out[0].DistanceLabel())
	assert.Equal(t, "1.5 miles", out[1].DistanceLabel())

	km, ok := out[0].CalculatedDistance()
	require.True(t, ok)
	assert.InDelta(t, 0.13038, km, 1e-4)

	km, ok = out[1].CalculatedDistance()
	require.True(t, ok)
	assert.InDelta(t, 2.46353, km, 1e-4)

	assert.Equal(t, "Lot 40", out[0].Get("name").String())
	assert.Equal(t, "South P", out[1].Get("name").String())
}

func TestAnnotate_DegenerateInputs(t *testing.T) {
	a, _ := newTestAnnotator(t)
	source := campusCenter
	destinations := []models.Location{lot(`{"coordinates":[40.9151,-73.1230]}`)}

	t.Run("missing source", func(t *testing.T) {
		out := a.Annotate(nil, destinations)
		require.Len(t, out, 1)
		assert.Equal(t, destinations[0].Raw(), out[0].Raw())
		assert.Empty(t, out[0].DistanceLabel())
	})

	t.Run("empty destinations", func(t *testing.T) {
		out := a.Annotate(&source, []models.Location{})
		assert.NotNil(t, out)
		assert.Empty(t, out)
	})

	t.Run("nil destinations", func(t *testing.T) {
		assert.Nil(t, a.Annotate(&source, nil))
	})
}

func TestAnnotate_UnreachableUsesDirectDistance(t *testing.T) {
	obs := &recordingObserver{}
	a, _ := newTestAnnotator(t, WithObserver(obs))
	source := campusCenter

	// The last two lots form their own component ~65 km north.
	destinations := []models.Location{
		lot(`{"id":"a","coordinates":[40.9151,-73.1230]}`),
		lot(`{"id":"c","coordinates":[41.5000,-73.1215]}`),
		lot(`{"id":"d","coordinates":[41.5090,-73.1215]}`),
	}

	out := a.Annotate(&source, destinations)
	require.Len(t, out, 3)

	assert.Equal(t, "0.1 miles", out[0].DistanceLabel())
	for i := 1; i < 3; i++ {
		direct := geo.HaversineKm(source, destinations[i].Coordinates())
		assert.Equal(t, FormatMiles(direct, true), out[i].DistanceLabel())
		km, ok := out[i].CalculatedDistance()
		require.True(t, ok)
		assert.Equal(t, direct, km)
	}

	assert.Equal(t, 1, obs.graphs)
	assert.Equal(t, 4, obs.nodes)
	assert.Equal(t, 1, obs.path)
	assert.Equal(t, 2, obs.direct)
	assert.Empty(t, obs.failures, "an unreachable node is not a failure")
}

func TestAnnotate_FullConnectivityReachesEveryLot(t *testing.T) {
	a, _ := newTestAnnotator(t, WithFullConnectivity())
	source := campusCenter
	destinations := []models.Location{
		lot(`{"coordinates":[40.9151,-73.1230]}`),
		lot(`{"coordinates":[41.5000,-73.1215]}`),
		lot(`{"coordinates":[41.5090,-73.1215]}`),
	}

	out := a.Annotate(&source, destinations)
	for i, loc := range out {
		assert.NotContains(t, loc.DistanceLabel(), "(direct)", "destination %d", i)
	}
}

func TestAnnotate_MalformedCoordinatesFallBack(t *testing.T) {
	a, _ := newTestAnnotator(t)
	source := campusCenter
	destinations := []models.Location{
		lot(`{"id":"broken"}`),
		lot(`{"id":"ok","coordinates":[40.9151,-73.1230]}`),
	}

	out := a.Annotate(&source, destinations)
	require.Len(t, out, 2)

	assert.Equal(t, "NaN miles (direct)", out[0].DistanceLabel())
	_, ok := out[0].CalculatedDistance()
	assert.False(t, ok, "a NaN distance is written as null")
	assert.Equal(t, "broken", out[0].Get("id").String())

	assert.Equal(t, "0.1 miles", out[1].DistanceLabel())
}

func TestAnnotate_SolverErrorFallsBack(t *testing.T) {
	obs := &recordingObserver{}
	a, logs := newTestAnnotator(t, WithObserver(obs))

	points := []geo.Coordinate{campusCenter, lotNear}
	g := BuildGraph(points, DefaultMaxEdgeKm)
	g.Nodes[0].Edges = append([]Edge{{To: 9, Weight: 1}}, g.Nodes[0].Edges...)

	dest := lot(`{"coordinates":[40.9151,-73.1230]}`)
	out := a.annotateOne(g, points, 0, dest)

	assert.Equal(t, FormatMiles(geo.HaversineKm(campusCenter, lotNear), true), out.DistanceLabel())
	require.Len(t, obs.failures, 1)
	assert.ErrorIs(t, obs.failures[0], ErrNodeOutOfRange)
	assert.Contains(t, logs.String(), "Failed to compute path distance")
}

func TestSolve(t *testing.T) {
	g := &Graph{Nodes: make([]Node, 2)}
	res, err := solve(g, 0, 1)
	require.NoError(t, err)
	assert.False(t, res.Reachable())

	_, err = solve(nil, 0, 1)
	assert.ErrorIs(t, err, ErrNilGraph)
}

func TestAnnotate_PreservesOrderAndFields(t *testing.T) {
	a, _ := newTestAnnotator(t)
	source := campusCenter

	points := randomCampus(3, 25, 1.0)
	destinations := make([]models.Location, len(points))
	for i, p := range points {
		loc, err := models.NewLocationFromFields(map[string]any{
			"index":       i,
			"coordinates": []float64{p.Lat, p.Lng},
			"meta":        map[string]any{"spaces": i * 10},
		})
		require.NoError(t, err)
		destinations[i] = loc
	}

	out := a.Annotate(&source, destinations)
	require.Len(t, out, len(destinations))
	for i, loc := range out {
		assert.Equal(t, int64(i), loc.Get("index").Int())
		assert.Equal(t, int64(i*10), loc.Get("meta.spaces").Int())
		assert.NotEmpty(t, loc.DistanceLabel())
		_, ok := loc.CalculatedDistance()
		assert.True(t, ok)
	}
}

func TestAnnotate_Idempotent(t *testing.T) {
	a, _ := newTestAnnotator(t)
	source := campusCenter
	destinations := []models.Location{
		lot(`{"coordinates":[40.9151,-73.1230]}`),
		lot(`{"coordinates":[40.9200,-73.1500]}`),
		lot(`{"coordinates":[41.5000,-73.1215]}`),
	}

	first := a.Annotate(&source, destinations)
	second := a.Annotate(&source, destinations)
	for i := range first {
		assert.Equal(t, first[i].Raw(), second[i].Raw())
	}
}

func TestAnnotate_ConcurrentCallers(t *testing.T) {
	a, _ := newTestAnnotator(t)
	source := campusCenter
	points := randomCampus(11, 40, 0.5)
	destinations := make([]models.Location, len(points))
	for i, p := range points {
		loc, err := models.NewLocationFromFields(map[string]any{"coordinates": []float64{p.Lat, p.Lng}})
		require.NoError(t, err)
		destinations[i] = loc
	}
	want := a.Annotate(&source, destinations)

	var wg sync.WaitGroup
	results := make([][]models.Location, 8)
	for w := range results {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			results[w] = a.Annotate(&source, destinations)
		}(w)
	}
	wg.Wait()

	for _, got := range results {
		require.Len(t, got, len(want))
		for i := range want {
			assert.Equal(t, want[i].Raw(), got[i].Raw())
		}
	}
}

func TestAnnotate_PackageDefault(t *testing.T) {
	source := campusCenter
	out := Annotate(&source, []models.Location{lot(`{"coordinates":[40.9151,-73.1230]}`)})
	require.Len(t, out, 1)
	assert.Equal(t, "0.1 miles", out[0].DistanceLabel())
}

func TestNewAnnotator_RejectsBadThreshold(t *testing.T) {
	for _, km := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := NewAnnotator(nil, WithMaxEdgeDistance(km))
		assert.ErrorIs(t, err, ErrBadMaxEdgeDistance, "km=%v", km)
	}

	a, err := NewAnnotator(nil, WithMaxEdgeDistance(0.5))
	require.NoError(t, err)
	assert.Equal(t, 0.5, a.MaxEdgeKm())
}

func TestAnnotate_ThresholdChangesRouting(t *testing.T) {
	// 0.5 km only links the source with the near lot; the far lot becomes
	// isolated and joins its nearest neighbour (the near lot), so its
	// distance is the two-hop path rather than the direct one.
	a, _ := newTestAnnotator(t, WithMaxEdgeDistance(0.5))
	source := campusCenter
	out := a.Annotate(&source, []models.Location{
		lot(`{"coordinates":[40.9151,-73.1230]}`),
		lot(`{"coordinates":[40.9200,-73.1500]}`),
	})

	km, ok := out[1].CalculatedDistance()
	require.True(t, ok)
	want := geo.HaversineKm(campusCenter, lotNear) + geo.HaversineKm(lotNear, lotFar)
	assert.InDelta(t, want, km, 1e-9)
	assert.NotContains(t, out[1].DistanceLabel(), "(direct)")
}

func TestFormatMiles(t *testing.T) {
	assert.Equal(t, "1.0 miles", FormatMiles(1.609344, false))
	assert.Equal(t, "0.0 miles (direct)", FormatMiles(0, true))
	assert.Equal(t, "NaN miles (direct)", FormatMiles(math.NaN(), true))
}

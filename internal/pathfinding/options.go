package pathfinding

import (
	"errors"
	"math"

	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/geo"
)

// ErrBadMaxEdgeDistance indicates a negative, NaN or infinite edge threshold.
var ErrBadMaxEdgeDistance = errors.New("pathfinding: max edge distance must be finite and non-negative")

// Observer receives notifications about each annotation run. The metrics
// package provides the production implementation.
type Observer interface {
	// GraphBuilt is called once per Annotate call with the graph's size.
	GraphBuilt(nodes, edges, isolated int)
	// DestinationResolved is called once per destination; direct is true when
	// the direct-distance fallback was used.
	DestinationResolved(dest geo.Coordinate, direct bool)
	// PathFailed is called when the solver returned an error or panicked.
	PathFailed(err error)
}

type nopObserver struct{}

func (nopObserver) GraphBuilt(int, int, int)                 {}
func (nopObserver) DestinationResolved(geo.Coordinate, bool) {}
func (nopObserver) PathFailed(error)                         {}

// Options configures an Annotator.
//
//   - MaxEdgeKm: proximity threshold in km (default 5.0).
//   - FullConnectivity: run ConnectComponents after BuildGraph so every
//     destination is reachable through the graph. Off by default.
//   - Observer: hook for metrics; nil means no-op.
type Options struct {
	MaxEdgeKm        float64
	FullConnectivity bool
	Observer         Observer
}

// Option represents a functional option for configuring an Annotator.
type Option func(*Options)

// WithMaxEdgeDistance sets the proximity threshold in kilometers.
func WithMaxEdgeDistance(km float64) Option {
	return func(o *Options) {
		o.MaxEdgeKm = km
	}
}

// WithFullConnectivity enables the component-joining pass.
func WithFullConnectivity() Option {
	return func(o *Options) {
		o.FullConnectivity = true
	}
}

// WithObserver installs an Observer.
func WithObserver(obs Observer) Option {
	return func(o *Options) {
		o.Observer = obs
	}
}

// DefaultOptions returns the defaults: 5 km threshold, no component joining,
// no observer.
func DefaultOptions() Options {
	return Options{
		MaxEdgeKm: DefaultMaxEdgeKm,
		Observer:  nopObserver{},
	}
}

func (o Options) validate() error {
	if math.IsNaN(o.MaxEdgeKm) || math.IsInf(o.MaxEdgeKm, 0) || o.MaxEdgeKm < 0 {
		return ErrBadMaxEdgeDistance
	}
	return nil
}

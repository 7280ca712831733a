package models

import (
	"errors"
	"math"
)

// ErrBadSourceCoordinates is returned when sourceCoordinates is present but
// is not a pair of finite numbers.
var ErrBadSourceCoordinates = errors.New("models: sourceCoordinates must be [lat, lng]")

// DistanceRequest is the body of POST /v1/distances.
//
// SourceCoordinates is optional: when it is absent the destinations are
// returned unchanged. It is decoded as a slice so a short or long array is
// rejected by Source instead of being padded or truncated.
type DistanceRequest struct {
	SourceCoordinates []float64  `json:"sourceCoordinates"`
	Destinations      []Location `json:"destinations"`
}

// Source returns the source pair, or nil when none was sent.
func (r DistanceRequest) Source() (*[2]float64, error) {
	if r.SourceCoordinates == nil {
		return nil, nil
	}
	if len(r.SourceCoordinates) != 2 {
		return nil, ErrBadSourceCoordinates
	}
	for _, v := range r.SourceCoordinates {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrBadSourceCoordinates
		}
	}
	return &[2]float64{r.SourceCoordinates[0], r.SourceCoordinates[1]}, nil
}

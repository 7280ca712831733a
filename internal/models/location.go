package models

import (
	"encoding/json"
	"errors"
	"math"

	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/geo"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Field names written onto annotated locations.
const (
	CalculatedDistanceField = "calculatedDistance"
	DistanceField           = "distance"
	CoordinatesField        = "coordinates"
)

// ErrNotObject is returned when a location payload is not a JSON object.
var ErrNotObject = errors.New("models: location must be a JSON object")

// Location is an opaque destination record. Only the `coordinates` field
// ([lat, lng]) is interpreted; every other field is passed through verbatim.
//
// The record is kept as its raw JSON object so unknown fields, their order and
// their formatting survive a round trip through the service.
type Location struct {
	raw []byte
}

// NewLocation wraps a raw JSON object. The bytes are copied.
func NewLocation(raw []byte) (Location, error) {
	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return Location{}, ErrNotObject
	}
	return Location{raw: append([]byte(nil), raw...)}, nil
}

// NewLocationFromFields builds a Location from a field map, e.g. records
// produced by the GTFS or OneBusAway lot sources.
func NewLocationFromFields(fields map[string]any) (Location, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return Location{}, err
	}
	return NewLocation(raw)
}

// MustLocation is NewLocation for literals in tests and examples.
func MustLocation(raw string) Location {
	loc, err := NewLocation([]byte(raw))
	if err != nil {
		panic(err)
	}
	return loc
}

// Raw returns a copy of the underlying JSON object.
func (l Location) Raw() []byte {
	return append([]byte(nil), l.raw...)
}

// Get looks up a field using gjson path syntax.
func (l Location) Get(path string) gjson.Result {
	return gjson.GetBytes(l.raw, path)
}

// Coordinates returns the location's [lat, lng] pair. Missing or
// non-numeric components are returned as NaN.
func (l Location) Coordinates() geo.Coordinate {
	nan := math.NaN()
	c := geo.Coordinate{Lat: nan, Lng: nan}

	coords := l.Get(CoordinatesField)
	if !coords.IsArray() {
		return c
	}
	values := coords.Array()
	if len(values) > 0 && values[0].Type == gjson.Number {
		c.Lat = values[0].Float()
	}
	if len(values) > 1 && values[1].Type == gjson.Number {
		c.Lng = values[1].Float()
	}
	return c
}

// HasCoordinates reports whether both coordinate components are numbers.
func (l Location) HasCoordinates() bool {
	return !l.Coordinates().IsNaN()
}

// WithDistance returns a copy of l carrying calculatedDistance=km and
// distance=label. Non-finite km values are written as null.
func (l Location) WithDistance(km float64, label string) (Location, error) {
	out := l.Raw()
	if len(out) == 0 {
		out = []byte("{}")
	}

	var err error
	if math.IsNaN(km) || math.IsInf(km, 0) {
		out, err = sjson.SetRawBytes(out, CalculatedDistanceField, []byte("null"))
	} else {
		out, err = sjson.SetBytes(out, CalculatedDistanceField, km)
	}
	if err != nil {
		return Location{}, err
	}

	out, err = sjson.SetBytes(out, DistanceField, label)
	if err != nil {
		return Location{}, err
	}
	return Location{raw: out}, nil
}

// CalculatedDistance returns the calculatedDistance field in km, if present
// and numeric.
func (l Location) CalculatedDistance() (float64, bool) {
	r := l.Get(CalculatedDistanceField)
	if r.Type != gjson.Number {
		return 0, false
	}
	return r.Float(), true
}

// DistanceLabel returns the formatted distance field, or "" if absent.
func (l Location) DistanceLabel() string {
	return l.Get(DistanceField).String()
}

// MarshalJSON implements json.Marshaler.
func (l Location) MarshalJSON() ([]byte, error) {
	if len(l.raw) == 0 {
		return []byte("null"), nil
	}
	return l.Raw(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Location) UnmarshalJSON(data []byte) error {
	loc, err := NewLocation(data)
	if err != nil {
		return err
	}
	*l = loc
	return nil
}

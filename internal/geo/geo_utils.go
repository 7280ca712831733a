package geo

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

// earthRadiusKm represents the mean radius of the Earth in kilometers.
//
// This value (6,371 km) is the Earth's volumetric mean radius, the usual
// choice for spherical approximations.
//
// Reference: NASA Planetary Fact Sheet – Earth
// https://nssdc.gsfc.nasa.gov/planetary/factsheet/earthfact.html
const earthRadiusKm = 6371.0

// KmToMiles converts kilometers to statute miles.
const KmToMiles = 0.621371

// Coordinate is a latitude/longitude pair in degrees (WGS84).
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NewCoordinate builds a Coordinate from a [lat, lng] pair.
func NewCoordinate(pair [2]float64) Coordinate {
	return Coordinate{Lat: pair[0], Lng: pair[1]}
}

// Pair returns the coordinate as a [lat, lng] array.
func (c Coordinate) Pair() [2]float64 {
	return [2]float64{c.Lat, c.Lng}
}

// IsNaN reports whether either component is NaN.
func (c Coordinate) IsNaN() bool {
	return math.IsNaN(c.Lat) || math.IsNaN(c.Lng)
}

func (c Coordinate) String() string {
	return fmt.Sprintf("[%g, %g]", c.Lat, c.Lng)
}

// HaversineKm returns the great-circle distance between a and b in kilometers.
//
// The central angle comes from s2.LatLng.Distance, which evaluates
// 2·atan2(√h, √(1−h)) with h = sin²(Δlat/2) + cos(lat1)·cos(lat2)·sin²(Δlng/2).
// No range validation is performed: NaN inputs yield NaN.
func HaversineKm(a, b Coordinate) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lng)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lng)
	return p1.Distance(p2).Radians() * earthRadiusKm
}

// IsValidLatLon returns true if the given latitude and longitude values
// fall within the valid geographic coordinate bounds.
//
// Latitude must be between -90 and 90 degrees, and longitude must be
// between -180 and 180 degrees. NaN is rejected.
func IsValidLatLon(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return false
	}
	return true
}

// BoundingBox defines the corners of a lat/lon box
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Contains checks whether the given coordinate is within the bounding box
func (b BoundingBox) Contains(c Coordinate) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat && c.Lng >= b.MinLon && c.Lng <= b.MaxLon
}

// ComputeBoundingBox computes the bounding box of the valid coordinates in points.
// Invalid or NaN coordinates are skipped.
func ComputeBoundingBox(points []Coordinate) (BoundingBox, error) {
	if len(points) == 0 {
		return BoundingBox{}, fmt.Errorf("no points to compute bounding box")
	}

	minLat := math.MaxFloat64
	maxLat := -math.MaxFloat64
	minLon := math.MaxFloat64
	maxLon := -math.MaxFloat64

	for _, p := range points {
		if !IsValidLatLon(p.Lat, p.Lng) {
			continue
		}
		minLat = math.Min(minLat, p.Lat)
		maxLat = math.Max(maxLat, p.Lat)
		minLon = math.Min(minLon, p.Lng)
		maxLon = math.Max(maxLon, p.Lng)
	}

	if minLat == math.MaxFloat64 {
		return BoundingBox{}, fmt.Errorf("no valid latitude/longitude found in points")
	}

	return BoundingBox{
		MinLat: minLat,
		MaxLat: maxLat,
		MinLon: minLon,
		MaxLon: maxLon,
	}, nil
}

// Package geo holds the great-circle math behind shop discovery.
package geo

import (
	"math"

	"github.com/mmcloughlin/geohash"
)

// EarthRadiusKm is the mean Earth radius used for every distance in the system.
const EarthRadiusKm = 6371.0

// ShopGeohashPrecision is the geohash length stored on shops (~150m cells).
const ShopGeohashPrecision = 7

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Valid reports whether the point lies within the WGS84 degree ranges.
func (p Point) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180 &&
		!math.IsNaN(p.Latitude) && !math.IsNaN(p.Longitude)
}

// Distance returns the great-circle distance in kilometers between a and b
// using the spherical law of cosines.
func Distance(a, b Point) float64 {
	if a == b {
		return 0
	}

	latA := toRadians(a.Latitude)
	latB := toRadians(b.Latitude)
	dLng := toRadians(b.Longitude) - toRadians(a.Longitude)

	cosAngle := math.Cos(latA)*math.Cos(latB)*math.Cos(dLng) +
		math.Sin(latA)*math.Sin(latB)

	// Rounding can push the argument just outside acos's domain (e.g. a == b).
	cosAngle = math.Max(-1.0, math.Min(1.0, cosAngle))

	return EarthRadiusKm * math.Acos(cosAngle)
}

// Box is an inclusive latitude/longitude rectangle in degrees.
type Box struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// FullLongitude reports whether the box spans every longitude, in which case
// callers should not filter on longitude at all.
func (b Box) FullLongitude() bool {
	return b.MinLng <= -180 && b.MaxLng >= 180
}

// Contains reports whether p lies inside the box.
func (b Box) Contains(p Point) bool {
	if p.Latitude < b.MinLat || p.Latitude > b.MaxLat {
		return false
	}
	return b.FullLongitude() || (p.Longitude >= b.MinLng && p.Longitude <= b.MaxLng)
}

// boxMarginDeg widens every box slightly so float error never excludes a
// point that Distance places inside the radius.
const boxMarginDeg = 1e-6

// BoundingBox returns a rectangle containing every point whose distance from
// center is at most radiusKm. Boxes touching a pole or crossing the
// antimeridian collapse to the full longitude range.
func BoundingBox(center Point, radiusKm float64) Box {
	angular := radiusKm / EarthRadiusKm
	latDelta := toDegrees(angular) + boxMarginDeg

	box := Box{
		MinLat: center.Latitude - latDelta,
		MaxLat: center.Latitude + latDelta,
		MinLng: -180,
		MaxLng: 180,
	}

	if box.MinLat <= -90 || box.MaxLat >= 90 || angular >= math.Pi/2 {
		box.MinLat = math.Max(box.MinLat, -90)
		box.MaxLat = math.Min(box.MaxLat, 90)
		return box
	}

	ratio := math.Sin(angular) / math.Cos(toRadians(center.Latitude))
	if ratio >= 1 {
		return box
	}
	lngDelta := toDegrees(math.Asin(ratio)) + boxMarginDeg

	minLng := center.Longitude - lngDelta
	maxLng := center.Longitude + lngDelta
	if minLng < -180 || maxLng > 180 {
		return box
	}

	box.MinLng = minLng
	box.MaxLng = maxLng
	return box
}

// Geohash encodes p at the given precision.
func Geohash(p Point, precision uint) string {
	return geohash.EncodeWithPrecision(p.Latitude, p.Longitude, precision)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func toDegrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

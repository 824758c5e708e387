package geo

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// kmPerDegreeLat is the meridian arc length of one degree on the model sphere.
var kmPerDegreeLat = EarthRadiusKm * math.Pi / 180

func TestDistance_SamePointIsZero(t *testing.T) {
	points := []Point{
		{41.0, 29.0},
		{41.0122, 28.9764},
		{0, 0},
		{89.9999, 179.9999},
		{-33.8688, 151.2093},
	}

	for _, p := range points {
		d := Distance(p, p)
		assert.False(t, math.IsNaN(d), "distance for %+v is NaN", p)
		assert.Equal(t, 0.0, d)
	}
}

func TestDistance_Symmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		a := Point{rng.Float64()*180 - 90, rng.Float64()*360 - 180}
		b := Point{rng.Float64()*180 - 90, rng.Float64()*360 - 180}

		assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
	}
}

func TestDistance_KnownValues(t *testing.T) {
	// Istanbul (Sultanahmet) to Ankara (Kizilay): ~350km
	istanbul := Point{41.0054, 28.9768}
	ankara := Point{39.9208, 32.8541}
	assert.InDelta(t, 349.5, Distance(istanbul, ankara), 2.0)

	// One degree along a meridian
	assert.InDelta(t, kmPerDegreeLat, Distance(Point{10, 20}, Point{11, 20}), 1e-6)

	// Antipodal points are half the circumference apart
	assert.InDelta(t, math.Pi*EarthRadiusKm, Distance(Point{0, 0}, Point{0, 180}), 1e-6)
}

func TestBoundingBox_ContainsEveryPointInRadius(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	centers := []Point{
		{41.01, 28.98},
		{0, 0},
		{-45, 179.9},
		{89.5, 10},
		{-89.9, -120},
	}

	for _, center := range centers {
		for _, radius := range []float64{1, 10, 55, 100} {
			box := BoundingBox(center, radius)
			for i := 0; i < 2000; i++ {
				p := Point{
					Latitude:  math.Max(-90, math.Min(90, center.Latitude+(rng.Float64()*2-1)*3)),
					Longitude: center.Longitude + (rng.Float64()*2-1)*6,
				}
				if p.Longitude > 180 {
					p.Longitude -= 360
				}
				if p.Longitude < -180 {
					p.Longitude += 360
				}
				if Distance(center, p) < radius {
					require.True(t, box.Contains(p), "center %+v radius %v excludes %+v", center, radius, p)
				}
			}
		}
	}
}

func TestBoundingBox_CollapsesNearPolesAndAntimeridian(t *testing.T) {
	assert.True(t, BoundingBox(Point{89.95, 0}, 10).FullLongitude())
	assert.True(t, BoundingBox(Point{10, 179.99}, 10).FullLongitude())
	assert.False(t, BoundingBox(Point{41.01, 28.98}, 10).FullLongitude())
}

func TestPoint_Valid(t *testing.T) {
	assert.True(t, Point{41, 29}.Valid())
	assert.True(t, Point{-90, 180}.Valid())
	assert.False(t, Point{90.01, 0}.Valid())
	assert.False(t, Point{0, -180.5}.Valid())
	assert.False(t, Point{math.NaN(), 0}.Valid())
}

func TestGeohash(t *testing.T) {
	hash := Geohash(Point{41.0122, 28.9764}, ShopGeohashPrecision)

	assert.Len(t, hash, ShopGeohashPrecision)
	assert.Equal(t, "sxk9", hash[:4])
}

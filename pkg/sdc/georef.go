package sdc

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// metersPerDegree is the approximate ground length of one degree of latitude.
// The preprocessing pipeline uses the same flat-earth approximation, so
// conversions here land on the same local coordinates it baked into meshes.
const metersPerDegree = 111000.0

// GeoOrigin anchors the local meters frame to a WGS84 coordinate. The local
// frame has X pointing east, Y up, and Z pointing south, so that north of the
// origin is negative Z.
type GeoOrigin struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ToLocal converts a WGS84 coordinate to local meters.
func (o GeoOrigin) ToLocal(lat, lon float64) (x, z float32) {
	cosLat := math.Cos(o.Latitude * math.Pi / 180)
	x = float32((lon - o.Longitude) * metersPerDegree * cosLat)
	z = float32(-(lat - o.Latitude) * metersPerDegree)
	return x, z
}

// ToGeo converts local meters back to a WGS84 coordinate.
func (o GeoOrigin) ToGeo(x, z float32) (lat, lon float64) {
	cosLat := math.Cos(o.Latitude * math.Pi / 180)
	lat = o.Latitude - float64(z)/metersPerDegree
	lon = o.Longitude + float64(x)/(metersPerDegree*cosLat)
	return lat, lon
}

// ToLocalVec converts a WGS84 coordinate to a local position at the given
// height.
func (o GeoOrigin) ToLocalVec(lat, lon float64, y float32) mgl32.Vec3 {
	x, z := o.ToLocal(lat, lon)
	return mgl32.Vec3{x, y, z}
}

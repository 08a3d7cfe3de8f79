package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/x3d/pkg/math"
)

// SunDirection converts longitude/latitude angles in degrees to a light direction vector.
// Longitude is rotation around the Y axis (0-360), latitude is elevation from the horizon (0-90).
// Returns a normalized direction vector pointing towards the sun.
func SunDirection(longitude, latitude float32) math.Vec3 {
	lon := math.Radians(longitude)
	lat := math.Radians(latitude)

	// Spherical to Cartesian, Y up
	return math.Vec3{
		X: math32.Cos(lat) * math32.Sin(lon),
		Y: math32.Sin(lat),
		Z: math32.Cos(lat) * math32.Cos(lon),
	}
}

// Sun returns a directional light shining from the given angles.
// Vector points from the sun toward the scene.
func Sun(longitude, latitude float32, color math.Vec4) Light {
	return Light{
		Type:   Directional,
		Vector: SunDirection(longitude, latitude).Neg(),
		Color:  color,
	}
}

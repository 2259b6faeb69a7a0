package cinema

import "github.com/go-gl/mathgl/mgl64"

// Vec3 is a 3D vector in world space.
type Vec3 = mgl64.Vec3

// V3 is a convenience function to create a Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// normalize returns the unit vector in the direction of v. Unlike
// mgl64.Vec3.Normalize, the zero vector is returned unchanged.
func normalize(v Vec3) Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Mul(1 / l)
}

package cinema

import "math"

// LightTerms are the Phong coefficients of the lit pass.
type LightTerms struct {
	Ka    float64 // ambient
	Kd    float64 // diffuse
	Ks    float64 // specular
	Alpha float64 // specular exponent
}

// DefaultLightTerms returns {Ka: 0.1, Kd: 0.6, Ks: 0.3, Alpha: 20}.
func DefaultLightTerms() LightTerms {
	return LightTerms{Ka: 0.1, Kd: 0.6, Ks: 0.3, Alpha: 20}
}

// lightBias scales each contribution added to the world light before it is
// renormalized.
const lightBias = 0.3

// The camera always looks at the origin with z up.
var (
	lookAt = Vec3{}
	north  = Vec3{0, 0, 1}
)

// SphericalToCartesian converts a camera position in degrees to the unit
// view direction. Both angles are measured from 180.
func SphericalToCartesian(phi, theta float64) Vec3 {
	phiRad := (180 - phi) * math.Pi / 180
	thetaRad := (180 - theta) * math.Pi / 180
	return Vec3{
		math.Sin(thetaRad) * math.Cos(phiRad),
		math.Sin(thetaRad) * math.Sin(phiRad),
		math.Cos(thetaRad),
	}
}

// Light is a directional light that follows the camera. Each Recompute
// nudges the persisted world light toward the view and toward the light's
// position in the camera plane, so the result depends on the whole
// sequence of views.
//
// Light is not safe for concurrent use; a Compositor owns one.
type Light struct {
	world Vec3
	x, y  float64
}

// NewLight returns a light at position (-1, 1) with world vector (-1, 0, 1).
func NewLight() *Light {
	return &Light{world: Vec3{-1, 0, 1}, x: -1, y: 1}
}

// SetPosition moves the light in the camera plane. x runs toward the
// camera's right, y toward its up.
func (l *Light) SetPosition(x, y float64) {
	l.x, l.y = x, y
}

// Position returns the light's position in the camera plane.
func (l *Light) Position() (x, y float64) {
	return l.x, l.y
}

// World returns the current world light vector.
func (l *Light) World() Vec3 {
	return l.world
}

// Recompute updates the world light for a new view direction and returns
// it as a unit vector. When the update sums to zero the previous direction
// is kept.
func (l *Light) Recompute(view Vec3) Vec3 {
	approxUp := normalize(north.Add(view))
	right := normalize(lookAt.Sub(view).Cross(approxUp.Sub(view)))
	up := normalize(right.Sub(view).Cross(lookAt.Sub(view)))

	next := l.world.
		Add(view.Mul(lightBias)).
		Add(right.Mul(l.x * lightBias)).
		Add(up.Mul(l.y * lightBias))

	if n := next.Len(); n == 0 || math.IsNaN(n) {
		l.world = normalize(l.world)
		return l.world
	}
	l.world = normalize(next)
	return l.world
}

package cinema

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func TestSphericalToCartesian(t *testing.T) {
	tests := []struct {
		name       string
		phi, theta float64
		want       Vec3
	}{
		{"top", 0, 180, V3(0, 0, 1)},
		{"bottom", 0, 0, V3(0, 0, -1)},
		{"equator phi 0", 0, 90, V3(-1, 0, 0)},
		{"equator phi 90", 90, 90, V3(0, 1, 0)},
		{"equator phi 180", 180, 90, V3(1, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SphericalToCartesian(tt.phi, tt.theta)
			if !approxVec(got, tt.want, epsilon) {
				t.Errorf("SphericalToCartesian(%v, %v) = %v, want %v", tt.phi, tt.theta, got, tt.want)
			}
			if math.Abs(got.Len()-1) > epsilon {
				t.Errorf("length = %v, want 1", got.Len())
			}
		})
	}
}

func viewSequence() []Vec3 {
	var views []Vec3
	for phi := -180.0; phi <= 180; phi += 30 {
		for theta := 10.0; theta < 180; theta += 40 {
			views = append(views, SphericalToCartesian(phi, theta))
		}
	}
	return views
}

func TestLight_RecomputeUnitLength(t *testing.T) {
	l := NewLight()
	for i, view := range viewSequence() {
		for _, scale := range []float64{1, 0.01, 250} {
			got := l.Recompute(view.Mul(scale))
			if math.Abs(got.Len()-1) > epsilon {
				t.Fatalf("step %d scale %v: |light| = %v", i, scale, got.Len())
			}
		}
	}
}

func TestLight_RecomputeDeterministic(t *testing.T) {
	a, b := NewLight(), NewLight()
	for i, view := range viewSequence() {
		la, lb := a.Recompute(view), b.Recompute(view)
		if la != lb {
			t.Fatalf("step %d: %v != %v", i, la, lb)
		}
	}
}

func TestLight_RecomputePathDependent(t *testing.T) {
	view := SphericalToCartesian(0, 90)
	other := SphericalToCartesian(90, 45)

	a := NewLight()
	a.Recompute(view)

	b := NewLight()
	b.Recompute(other)
	b.Recompute(view)

	if approxVec(a.World(), b.World(), 1e-6) {
		t.Error("light should depend on the views seen before")
	}
}

func TestLight_FirstRecompute(t *testing.T) {
	view := SphericalToCartesian(0, 90)
	l := NewLight()
	got := l.Recompute(view)

	approxUp := normalize(north.Add(view))
	right := normalize(lookAt.Sub(view).Cross(approxUp.Sub(view)))
	up := normalize(right.Sub(view).Cross(lookAt.Sub(view)))
	want := normalize(V3(-1, 0, 1).
		Add(view.Mul(0.3)).
		Add(right.Mul(-0.3)).
		Add(up.Mul(0.3)))

	if !approxVec(got, want, epsilon) {
		t.Errorf("Recompute() = %v, want %v", got, want)
	}
}

func TestLight_DegenerateKeepsDirection(t *testing.T) {
	// With the light centered only 0.3*view is added, which cancels world.
	l := &Light{world: V3(0, 0, 0.3)}
	got := l.Recompute(V3(0, 0, -1))
	if !approxVec(got, V3(0, 0, 1), epsilon) {
		t.Errorf("degenerate Recompute() = %v, want previous direction", got)
	}
}

func TestLight_SetPosition(t *testing.T) {
	l := NewLight()
	if x, y := l.Position(); x != -1 || y != 1 {
		t.Errorf("default position = (%v, %v), want (-1, 1)", x, y)
	}
	l.SetPosition(0.5, -0.25)
	if x, y := l.Position(); x != 0.5 || y != -0.25 {
		t.Errorf("Position() = (%v, %v)", x, y)
	}
}

func TestDefaultLightTerms(t *testing.T) {
	want := LightTerms{Ka: 0.1, Kd: 0.6, Ks: 0.3, Alpha: 20}
	if got := DefaultLightTerms(); got != want {
		t.Errorf("DefaultLightTerms() = %+v, want %+v", got, want)
	}
}

package cinema

import (
	"fmt"
	"maps"
	"net/url"
	"strconv"
)

// Controls is a viewpoint: parameter name to value, e.g. time, phi, theta.
type Controls map[string]string

// Equal reports whether both hold the same names with the same values.
func (c Controls) Equal(other Controls) bool {
	return maps.Equal(c, other)
}

// Clone returns a copy of c. The copy is never nil.
func (c Controls) Clone() Controls {
	out := make(Controls, len(c))
	maps.Copy(out, c)
	return out
}

// Key returns a canonical string for c with names in sorted order, used
// to key caches.
func (c Controls) Key() string {
	v := make(url.Values, len(c))
	for name, value := range c {
		v.Set(name, value)
	}
	return v.Encode()
}

// Merge returns c updated with the entries of update, and whether any
// entry was added or changed. Entries absent from update are kept.
func (c Controls) Merge(update Controls) (Controls, bool) {
	out := c.Clone()
	changed := false
	for name, value := range update {
		if old, ok := out[name]; !ok || old != value {
			changed = true
		}
		out[name] = value
	}
	return out, changed
}

// Float parses a numeric control. A missing control reads as 0.
func (c Controls) Float(name string) (float64, error) {
	s, ok := c[name]
	if !ok || s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidControl, name, s)
	}
	return f, nil
}

// ViewDirection returns the unit view direction for the phi and theta
// controls, in degrees.
func (c Controls) ViewDirection() (Vec3, error) {
	phi, err := c.Float("phi")
	if err != nil {
		return Vec3{}, err
	}
	theta, err := c.Float("theta")
	if err != nil {
		return Vec3{}, err
	}
	return SphericalToCartesian(phi, theta), nil
}

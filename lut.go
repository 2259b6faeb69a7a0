package cinema

import (
	"fmt"
	"math"

	"github.com/cquammen/cinema/cache"
)

// LUTSize is the number of entries in a lookup table.
const LUTSize = 256

// ControlPoint is one stop of a color map: a normalized scalar position X
// and its color, with components in [0, 1].
type ControlPoint struct {
	X float64 `json:"x"`
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// LUT maps a normalized scalar to an opaque color.
type LUT [LUTSize]RGB8

// BuildLUT samples the piecewise-linear color map defined by points at 256
// evenly spaced positions i/255.
//
// points must contain at least two entries with strictly increasing X in
// [0, 1]. Positions before the first point take its color, positions after
// the last point take the last color.
func BuildLUT(points []ControlPoint) (*LUT, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: need at least 2, got %d", ErrInvalidControlPoints, len(points))
	}
	for i, p := range points {
		if !(p.X >= 0 && p.X <= 1) {
			return nil, fmt.Errorf("%w: x=%v outside [0, 1] at index %d", ErrInvalidControlPoints, p.X, i)
		}
		if i > 0 && !(p.X > points[i-1].X) {
			return nil, fmt.Errorf("%w: x not increasing at index %d", ErrInvalidControlPoints, i)
		}
	}

	first, last := points[0], points[len(points)-1]
	var lut LUT
	cur := 0
	for i := range LUTSize {
		v := float64(i) / 255
		switch {
		case v <= first.X:
			lut[i] = pointColor(first)
			continue
		case v >= last.X:
			lut[i] = pointColor(last)
			continue
		}
		for cur < len(points)-2 && v > points[cur+1].X {
			cur++
		}
		a, b := points[cur], points[cur+1]
		ratio := (v - a.X) / (b.X - a.X)
		lut[i] = RGB8{
			R: toByte((a.R + ratio*(b.R-a.R)) * 255),
			G: toByte((a.G + ratio*(b.G-a.G)) * 255),
			B: toByte((a.B + ratio*(b.B-a.B)) * 255),
		}
	}
	return &lut, nil
}

func pointColor(p ControlPoint) RGB8 {
	return RGB8{R: toByte(p.R * 255), G: toByte(p.G * 255), B: toByte(p.B * 255)}
}

// GrayLUT returns the identity gray ramp. The compositor falls back to it
// when a field has no color map.
func GrayLUT() *LUT {
	var lut LUT
	for i := range LUTSize {
		lut[i] = RGB8{R: uint8(i), G: uint8(i), B: uint8(i)}
	}
	return &lut
}

// Lookup returns the color for v, table[floor(v*255)]. v is clamped to
// [0, 1]; NaN maps to the first entry.
func (l *LUT) Lookup(v float64) RGB8 {
	if !(v > 0) {
		return l[0]
	}
	if v >= 1 {
		return l[LUTSize-1]
	}
	return l[int(math.Floor(v*255))]
}

// LUTCache holds the lookup table of each field. It is shared by every
// compositor of a dataset and is safe for concurrent use.
type LUTCache struct {
	tables *cache.ShardedCache[string, *LUT]
}

// NewLUTCache creates a cache; capacity bounds each of its shards and
// defaults to cache.DefaultCapacity when <= 0.
func NewLUTCache(capacity int) *LUTCache {
	return &LUTCache{tables: cache.NewSharded[string, *LUT](capacity, cache.StringHasher)}
}

// Get returns the table of field, if present.
func (c *LUTCache) Get(field string) (*LUT, bool) {
	return c.tables.Get(field)
}

// Set replaces the table of field.
func (c *LUTCache) Set(field string, lut *LUT) {
	c.tables.Set(field, lut)
}

// Invalidate drops the table of field so the next lookup rebuilds it.
func (c *LUTCache) Invalidate(field string) {
	if c.tables.Delete(field) {
		Logger().Debug("cinema: lut invalidated", "field", field)
	}
}

// GetOrBuild returns the cached table of field or builds it from points.
// A build error is returned without caching anything.
func (c *LUTCache) GetOrBuild(field string, points []ControlPoint) (*LUT, error) {
	if lut, ok := c.tables.Get(field); ok {
		return lut, nil
	}
	lut, err := BuildLUT(points)
	if err != nil {
		return nil, fmt.Errorf("cinema: lut for field %q: %w", field, err)
	}
	Logger().Debug("cinema: lut built", "field", field, "points", len(points))
	return c.tables.GetOrCreate(field, func() *LUT { return lut }), nil
}

// Len returns the number of cached tables.
func (c *LUTCache) Len() int {
	return c.tables.Len()
}

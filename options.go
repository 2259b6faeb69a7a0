package cinema

import (
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/image/draw"
)

// CompositorOption configures a Compositor during creation.
//
// Example:
//
//	comp := cinema.NewCompositor(ds, rendering,
//	    cinema.WithBackgroundColor(cinema.Color{}),
//	    cinema.WithWorkers(4))
type CompositorOption func(*compositorOptions)

type compositorOptions struct {
	background     Color
	backgroundSlot int // < 0 means Dataset.SlotCount()
	terms          LightTerms
	lightColor     Color
	workers        int
	luts           *LUTCache
}

func defaultCompositorOptions() compositorOptions {
	return compositorOptions{
		background:     White,
		backgroundSlot: -1,
		terms:          DefaultLightTerms(),
		lightColor:     White,
		workers:        runtime.GOMAXPROCS(0),
	}
}

// WithBackgroundColor sets the color drawn under the background slot.
// Default is white.
func WithBackgroundColor(c Color) CompositorOption {
	return func(o *compositorOptions) {
		o.background = c
	}
}

// WithBackgroundSlot sets the sprite slot drawn first. By default it is
// the slot after the last offset, Dataset.SlotCount(). A negative slot
// restores the default.
func WithBackgroundSlot(slot int) CompositorOption {
	return func(o *compositorOptions) {
		o.backgroundSlot = slot
	}
}

// WithLightTerms sets the initial Phong coefficients.
func WithLightTerms(t LightTerms) CompositorOption {
	return func(o *compositorOptions) {
		o.terms = t
	}
}

// WithLightColor sets the initial light color. Default is white.
func WithLightColor(c Color) CompositorOption {
	return func(o *compositorOptions) {
		o.lightColor = c
	}
}

// WithWorkers sets how many goroutines composite row bands. Values <= 1
// composite on the calling goroutine. Default is GOMAXPROCS.
func WithWorkers(n int) CompositorOption {
	return func(o *compositorOptions) {
		o.workers = n
	}
}

// WithLUTCache shares a lookup table cache between compositors of the
// same dataset. By default each Compositor has its own.
func WithLUTCache(c *LUTCache) CompositorOption {
	return func(o *compositorOptions) {
		o.luts = c
	}
}

// Interpolation selects the resampling filter of the display pass.
type Interpolation int

const (
	// InterpNearest picks the nearest source pixel.
	InterpNearest Interpolation = iota
	// InterpApproxBilinear is a fast bilinear approximation.
	InterpApproxBilinear
	// InterpBilinear is exact bilinear filtering.
	InterpBilinear
	// InterpCatmullRom is bicubic Catmull-Rom filtering.
	InterpCatmullRom
)

var interpNames = [...]string{"nearest", "approx-bilinear", "bilinear", "catmull-rom"}

// String returns the name of the interpolation mode.
func (i Interpolation) String() string {
	if i >= 0 && int(i) < len(interpNames) {
		return interpNames[i]
	}
	return fmt.Sprintf("Interpolation(%d)", int(i))
}

// ParseInterpolation parses a name returned by Interpolation.String.
func ParseInterpolation(s string) (Interpolation, error) {
	for i, name := range interpNames {
		if strings.EqualFold(s, name) {
			return Interpolation(i), nil
		}
	}
	return InterpNearest, fmt.Errorf("cinema: unknown interpolation %q", s)
}

func (i Interpolation) interpolator() draw.Interpolator {
	switch i {
	case InterpApproxBilinear:
		return draw.ApproxBiLinear
	case InterpBilinear:
		return draw.BiLinear
	case InterpCatmullRom:
		return draw.CatmullRom
	default:
		return draw.NearestNeighbor
	}
}

// ViewerOption configures a Viewer during creation.
type ViewerOption func(*viewerOptions)

type viewerOptions struct {
	width, height int
	interp        Interpolation
	stats         bool
	cacheSize     int
}

func defaultViewerOptions() viewerOptions {
	return viewerOptions{
		interp:    InterpBilinear,
		cacheSize: 32,
	}
}

// WithViewportSize sets the display size. A zero size means 400x400.
func WithViewportSize(width, height int) ViewerOption {
	return func(o *viewerOptions) {
		o.width, o.height = width, height
	}
}

// WithInterpolation sets the display pass filter. Default is bilinear.
func WithInterpolation(i Interpolation) ViewerOption {
	return func(o *viewerOptions) {
		o.interp = i
	}
}

// WithStatsOverlay draws the current and average frame rate in the corner
// of the display image.
func WithStatsOverlay(enabled bool) ViewerOption {
	return func(o *viewerOptions) {
		o.stats = enabled
	}
}

// WithCompositeCacheSize bounds how many composites are kept, keyed by
// viewpoint. 0 means unlimited. Default is 32.
func WithCompositeCacheSize(n int) ViewerOption {
	return func(o *viewerOptions) {
		o.cacheSize = n
	}
}

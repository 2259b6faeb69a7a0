package cinema

import (
	"fmt"
	"sync"

	"github.com/cquammen/cinema/internal/blend"
	intImage "github.com/cquammen/cinema/internal/image"
	"github.com/cquammen/cinema/internal/parallel"
)

// scratchBuffers is how many slot-sized buffers a composite borrows:
// one flat layer or nX, nY, nZ and scalar for a lit layer.
const scratchBuffers = 4

// Compositor blends the slots of a sprite sheet into one image.
//
// A Compositor owns the light state, so the light seen by a composite
// depends on the views composited before it. Composite calls are
// serialized; the setters may be called at any time from any goroutine.
type Compositor struct {
	mu        sync.Mutex
	ds        *Dataset
	rendering *Rendering
	opts      compositorOptions
	luts      *LUTCache
	light     *Light
	pool      *parallel.WorkerPool
	bufs      *intImage.Pool
	closeOnce sync.Once
}

// NewCompositor creates a compositor for ds. Lookup tables are built from
// rendering on first use and rebuilt when its color maps change.
func NewCompositor(ds *Dataset, rendering *Rendering, opts ...CompositorOption) *Compositor {
	o := defaultCompositorOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.luts == nil {
		o.luts = NewLUTCache(0)
	}

	c := &Compositor{
		ds:        ds,
		rendering: rendering,
		opts:      o,
		luts:      o.luts,
		light:     NewLight(),
		bufs:      intImage.NewPool(scratchBuffers),
	}
	if o.workers > 1 {
		c.pool = parallel.NewWorkerPool(o.workers)
	}
	if rendering != nil {
		rendering.OnInvalidate(c.luts.Invalidate)
	}
	return c
}

// Close stops the worker goroutines. Composite keeps working afterwards,
// on the calling goroutine.
func (c *Compositor) Close() {
	c.closeOnce.Do(func() {
		if c.pool != nil {
			c.pool.Close()
		}
	})
}

// Composite draws the background slot, then every layer in order, and
// returns the result in a new buffer the size of one slot. view is the
// unit view direction; it updates the light before any lit layer is
// drawn.
//
// Composite returns ErrNotReady when sheet is nil or the rendering has not
// been loaded, and ErrSlotOutOfRange when a layer names a slot the sheet
// does not have.
func (c *Compositor) Composite(sheet *SpriteSheet, layers []ResolvedLayer, view Vec3) (*ImageBuf, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sheet == nil || c.rendering == nil || !c.rendering.Loaded() {
		return nil, ErrNotReady
	}
	w, h := sheet.SlotSize()
	out, err := intImage.NewImageBuf(w, h)
	if err != nil {
		return nil, fmt.Errorf("cinema: composite: %w", err)
	}

	bgSlot := c.opts.backgroundSlot
	if bgSlot < 0 {
		bgSlot = c.ds.SlotCount()
	}
	// The light is path dependent; a composite that cannot finish must not
	// move it.
	if err := checkSlots(sheet, bgSlot, layers); err != nil {
		return nil, err
	}
	light := c.light.Recompute(view)

	if err := sheet.CopySlot(out, bgSlot); err != nil {
		return nil, fmt.Errorf("cinema: background: %w", err)
	}

	var scratch [scratchBuffers]*ImageBuf
	for i := range scratch {
		scratch[i] = c.bufs.Get(w, h)
	}
	defer func() {
		for _, buf := range scratch {
			c.bufs.Put(buf)
		}
	}()

	// Transparent background pixels take the background color.
	bg := c.opts.background.RGB8()
	fill := scratch[0]
	fill.Fill(bg.R, bg.G, bg.B, 255)
	c.rows(h, func(y int) {
		blend.Row(out.RowBytes(y), fill.RowBytes(y), blend.DestinationOver)
	})

	for _, layer := range layers {
		switch k := layer.Kind.(type) {
		case HiddenLayer:
		case FlatLayer:
			src := scratch[0]
			if err := sheet.CopySlot(src, k.Slot); err != nil {
				return nil, fmt.Errorf("cinema: layer %q: %w", layer.Layer, err)
			}
			c.rows(h, func(y int) {
				blend.Row(out.RowBytes(y), src.RowBytes(y), blend.SourceOver)
			})
		case LitLayer:
			nx, ny, nz, sc := scratch[0], scratch[1], scratch[2], scratch[3]
			for i, slot := range [scratchBuffers]int{k.NX, k.NY, k.NZ, k.Scalar} {
				if err := sheet.CopySlot(scratch[i], slot); err != nil {
					return nil, fmt.Errorf("cinema: layer %q: %w", layer.Layer, err)
				}
			}
			sh := newShader(light, view, c.opts.terms, c.opts.lightColor, c.lutFor(k.ColorBy))
			c.rows(h, func(y int) {
				sh.shadeRow(out.RowBytes(y), nx.RowBytes(y), ny.RowBytes(y), nz.RowBytes(y), sc.RowBytes(y))
			})
		}
	}
	return out, nil
}

// checkSlots verifies that the background and every layer slot exist in
// sheet.
func checkSlots(sheet *SpriteSheet, bgSlot int, layers []ResolvedLayer) error {
	n := sheet.Slots()
	bad := func(slot int) bool { return slot < 0 || slot >= n }
	if bad(bgSlot) {
		return fmt.Errorf("cinema: background: %w: slot %d of %d", ErrSlotOutOfRange, bgSlot, n)
	}
	for _, layer := range layers {
		var slots []int
		switch k := layer.Kind.(type) {
		case FlatLayer:
			slots = []int{k.Slot}
		case LitLayer:
			slots = []int{k.NX, k.NY, k.NZ, k.Scalar}
		}
		for _, slot := range slots {
			if bad(slot) {
				return fmt.Errorf("cinema: layer %q: %w: slot %d of %d", layer.Layer, ErrSlotOutOfRange, slot, n)
			}
		}
	}
	return nil
}

// rows runs fn for every row, split into bands across the workers.
func (c *Compositor) rows(height int, fn func(y int)) {
	parallel.Bands(c.pool, height, c.opts.workers, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			fn(y)
		}
	})
}

// lutFor returns the lookup table of field, building it from the
// rendering's color map. A field without a usable color map is drawn with
// the gray ramp until its color map is set.
func (c *Compositor) lutFor(field string) *LUT {
	if lut, ok := c.luts.Get(field); ok {
		return lut
	}
	points, ok := c.rendering.ControlPoints(field)
	if !ok {
		Logger().Warn("cinema: no color map for field, using gray", "field", field)
		c.luts.Set(field, GrayLUT())
		return GrayLUT()
	}
	lut, err := c.luts.GetOrBuild(field, points)
	if err != nil {
		Logger().Warn("cinema: bad color map, using gray", "field", field, "err", err)
		c.luts.Set(field, GrayLUT())
		return GrayLUT()
	}
	return lut
}

// SetLUT replaces the lookup table of field. A nil table drops it, so the
// next composite rebuilds it from the rendering.
func (c *Compositor) SetLUT(field string, lut *LUT) {
	if lut == nil {
		c.luts.Invalidate(field)
		return
	}
	c.luts.Set(field, lut)
}

// SetLightTerms replaces the Phong coefficients.
func (c *Compositor) SetLightTerms(t LightTerms) {
	c.mu.Lock()
	c.opts.terms = t
	c.mu.Unlock()
}

// LightTerms returns the Phong coefficients.
func (c *Compositor) LightTerms() LightTerms {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts.terms
}

// SetLightColor replaces the light color.
func (c *Compositor) SetLightColor(col Color) {
	c.mu.Lock()
	c.opts.lightColor = col
	c.mu.Unlock()
}

// SetLightPosition moves the light in the camera plane. It takes effect
// at the next composite.
func (c *Compositor) SetLightPosition(x, y float64) {
	c.mu.Lock()
	c.light.SetPosition(x, y)
	c.mu.Unlock()
}

// LightPosition returns the light's position in the camera plane.
func (c *Compositor) LightPosition() (x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.light.Position()
}

// WorldLight returns the light vector used by the last composite.
func (c *Compositor) WorldLight() Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.light.World()
}

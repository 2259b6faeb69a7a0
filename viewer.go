package cinema

import (
	"context"
	"errors"
	"fmt"
	"image"
	"slices"
	"sync"
	"time"

	"github.com/cquammen/cinema/cache"
)

// Fetcher loads the sprite sheet of a viewpoint. Implementations must be
// safe for concurrent use; the Viewer may have several fetches in flight.
type Fetcher interface {
	Fetch(ctx context.Context, controls Controls) (*SpriteSheet, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, controls Controls) (*SpriteSheet, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, controls Controls) (*SpriteSheet, error) {
	return f(ctx, controls)
}

// State is the fetch state of a Viewer.
type State int

const (
	// StateIdle means no fetch is in flight.
	StateIdle State = iota
	// StateDownloadPending means at least one fetch has not completed.
	StateDownloadPending
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDownloadPending:
		return "download-pending"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// frameStats accumulates composite timings.
type frameStats struct {
	count  int
	total  time.Duration
	curFPS int
	avgFPS int
}

func (s *frameStats) record(elapsed time.Duration) {
	elapsed = max(elapsed, time.Microsecond)
	s.count++
	s.total += elapsed
	s.curFPS = int(time.Second / elapsed)
	s.avgFPS = int(time.Second / (s.total / time.Duration(s.count)))
}

// Viewer decides when a viewpoint must be fetched, drops fetches that
// complete after the viewpoint moved on, caches composites by viewpoint
// and draws the current composite through its Viewport.
//
// The last requested viewpoint always wins. A fetch is never cancelled;
// its result is discarded if it no longer matches.
//
// Thread safety: all methods are safe for concurrent use. Event handlers
// run on the goroutine that raised the event, without the viewer's lock
// held, and may call back into the Viewer.
type Viewer struct {
	ds      *Dataset
	comp    *Compositor
	fetcher Fetcher
	opts    viewerOptions
	events  *eventRouter
	wg      sync.WaitGroup

	mu         sync.Mutex
	spec       LayerSpec
	layers     []ResolvedLayer
	generation uint64
	desired    Controls
	composites *cache.Cache[string, *ImageBuf]
	current    *ImageBuf
	viewport   Viewport
	display    *image.NRGBA
	first      bool
	inflight   int
	stats      frameStats
}

// NewViewer creates a viewer showing ds.DefaultLayerSpec().
func NewViewer(ds *Dataset, comp *Compositor, fetcher Fetcher, opts ...ViewerOption) (*Viewer, error) {
	o := defaultViewerOptions()
	for _, opt := range opts {
		opt(&o)
	}

	spec := ds.DefaultLayerSpec()
	layers, err := ResolveLayers(spec, ds)
	if err != nil {
		return nil, fmt.Errorf("cinema: default layers: %w", err)
	}

	v := &Viewer{
		ds:         ds,
		comp:       comp,
		fetcher:    fetcher,
		opts:       o,
		events:     newEventRouter(),
		spec:       spec,
		layers:     layers,
		desired:    Controls{},
		composites: cache.New[string, *ImageBuf](o.cacheSize),
		viewport:   NewViewport(o.width, o.height),
		first:      true,
	}
	v.composites.OnEvict(func(key string, _ *ImageBuf) {
		Logger().Debug("cinema: composite evicted", "controls", key)
	})
	return v, nil
}

// Subscribe registers fn for the given event types, or for all of them
// when none are given. Handlers run in registration order. The returned
// function unsubscribes.
func (v *Viewer) Subscribe(fn EventHandler, types ...EventType) func() {
	return v.events.subscribe(fn, types...)
}

// ShowViewpoint merges controls into the requested viewpoint. If any
// value changed, or forced is set, the sprite sheet is fetched in the
// background and composited when it arrives; otherwise the current
// composite is only redrawn.
func (v *Viewer) ShowViewpoint(ctx context.Context, controls Controls, forced bool) {
	v.mu.Lock()
	merged, changed := v.desired.Merge(controls)
	v.desired = merged
	if !changed && !forced {
		v.mu.Unlock()
		v.DrawImage()
		return
	}
	snapshot := merged.Clone()
	if forced {
		v.composites.Delete(snapshot.Key())
	}
	v.inflight++
	v.wg.Add(1)
	v.mu.Unlock()

	go func() {
		defer v.wg.Done()
		sheet, err := v.fetcher.Fetch(ctx, snapshot)
		v.Deliver(snapshot, sheet, err)

		v.mu.Lock()
		v.inflight--
		v.mu.Unlock()
	}()
}

// ForceRedraw fetches and composites the current viewpoint again.
func (v *Viewer) ForceRedraw(ctx context.Context) {
	v.ShowViewpoint(ctx, nil, true)
}

// Deliver hands the result of a fetch for controls to the viewer. Errors
// are reported as EventError. A sheet is composited and shown only if
// controls is still the requested viewpoint; otherwise it is dropped.
//
// The first composite shown resets the camera.
func (v *Viewer) Deliver(controls Controls, sheet *SpriteSheet, err error) {
	if err != nil {
		Logger().Warn("cinema: fetch failed", "controls", controls.Key(), "err", err)
		v.events.dispatch(Event{Type: EventError, Controls: controls, Err: err})
		return
	}

	v.mu.Lock()
	if !controls.Equal(v.desired) {
		v.mu.Unlock()
		Logger().Debug("cinema: dropping stale viewpoint", "controls", controls.Key())
		return
	}
	key := controls.Key()
	gen := v.generation
	layers := v.layers
	out, hit := v.composites.Get(key)
	v.mu.Unlock()

	start := time.Now()
	if hit {
		Logger().Debug("cinema: composite cache hit", "controls", key)
	} else {
		view, err := controls.ViewDirection()
		if err != nil {
			v.events.dispatch(Event{Type: EventError, Controls: controls, Err: err})
			return
		}
		out, err = v.comp.Composite(sheet, layers, view)
		if errors.Is(err, ErrNotReady) {
			Logger().Debug("cinema: not ready to render", "controls", key)
			return
		}
		if err != nil {
			Logger().Warn("cinema: composite failed", "controls", key, "err", err)
			v.events.dispatch(Event{Type: EventError, Controls: controls, Err: err})
			return
		}
	}

	v.mu.Lock()
	if gen != v.generation || !controls.Equal(v.desired) {
		v.mu.Unlock()
		Logger().Debug("cinema: dropping stale composite", "controls", key)
		return
	}
	if !hit {
		v.composites.Set(key, out)
	}
	v.current = out
	if v.first {
		v.first = false
		v.viewport.Reset(out.Bounds())
	}
	v.mu.Unlock()

	v.events.dispatch(Event{Type: EventComposited, Controls: controls})
	v.DrawImage()

	elapsed := time.Since(start)
	v.mu.Lock()
	v.stats.record(elapsed)
	cur, avg := v.stats.curFPS, v.stats.avgFPS
	v.mu.Unlock()
	v.events.dispatch(Event{Type: EventFPS, Controls: controls, Elapsed: elapsed, CurFPS: cur, AvgFPS: avg})
}

// SetLayers switches to a new layer spec, drops every cached composite
// and shows the current viewpoint again. On error the previous spec stays.
func (v *Viewer) SetLayers(ctx context.Context, spec LayerSpec) error {
	v.mu.Lock()
	controls := v.desired
	v.mu.Unlock()
	return v.UpdateQuery(ctx, spec, controls)
}

// UpdateQuery switches to a new layer spec and shows controls with it.
func (v *Viewer) UpdateQuery(ctx context.Context, spec LayerSpec, controls Controls) error {
	layers, err := ResolveLayers(spec, v.ds)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.spec = slices.Clone(spec)
	v.layers = layers
	v.generation++
	v.composites.Clear()
	v.desired = Controls{}
	v.mu.Unlock()

	v.ShowViewpoint(ctx, controls, true)
	return nil
}

// DrawImage draws the current composite through the viewport into a new
// display image and raises EventDrawn. It does nothing before the first
// composite.
func (v *Viewer) DrawImage() {
	v.mu.Lock()
	if v.current == nil {
		v.mu.Unlock()
		return
	}
	display := image.NewNRGBA(image.Rect(0, 0, v.viewport.Width, v.viewport.Height))
	v.viewport.Draw(display, v.current, v.opts.interp)
	if v.opts.stats && v.stats.count > 0 {
		drawStats(display, v.stats.curFPS, v.stats.avgFPS)
	}
	v.display = display
	controls := v.desired.Clone()
	v.mu.Unlock()

	v.events.dispatch(Event{Type: EventDrawn, Controls: controls, Image: display})
}

// ResetCamera fits the composite to the viewport, centered, and redraws.
func (v *Viewer) ResetCamera() {
	v.mu.Lock()
	switch {
	case v.current != nil:
		v.viewport.Reset(v.current.Bounds())
	case v.ds.Width > 0 && v.ds.Height > 0:
		v.viewport.Reset(v.ds.Width, v.ds.Height)
	}
	v.mu.Unlock()
	v.DrawImage()
}

// Resize changes the display size and redraws.
func (v *Viewer) Resize(width, height int) {
	v.mu.Lock()
	v.viewport.Resize(width, height)
	v.mu.Unlock()
	v.DrawImage()
}

// Zoom multiplies the zoom by factor and redraws.
func (v *Viewer) Zoom(factor float64) {
	v.mu.Lock()
	v.viewport.ZoomBy(factor)
	v.mu.Unlock()
	v.DrawImage()
}

// Pan moves the drawing center by (dx, dy) display pixels and redraws.
func (v *Viewer) Pan(dx, dy float64) {
	v.mu.Lock()
	v.viewport.Pan(dx, dy)
	v.mu.Unlock()
	v.DrawImage()
}

// Viewport returns a copy of the viewport.
func (v *Viewer) Viewport() Viewport {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewport
}

// MapToImage maps a display position to coordinates in the current
// composite. ok is false before the first composite and outside it.
func (v *Viewer) MapToImage(x, y float64) (ix, iy float64, ok bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.current == nil {
		return 0, 0, false
	}
	iw, ih := v.current.Bounds()
	return v.viewport.MapToImage(x, y, iw, ih)
}

// Image returns the last display image, or nil before the first draw.
// Display images are never modified after they are published.
func (v *Viewer) Image() *image.NRGBA {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.display
}

// Composite returns the composite currently shown, or nil.
func (v *Viewer) Composite() *ImageBuf {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Controls returns a copy of the requested viewpoint.
func (v *Viewer) Controls() Controls {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.desired.Clone()
}

// LayerSpec returns the layer spec being shown.
func (v *Viewer) LayerSpec() LayerSpec {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.spec)
}

// State reports whether any fetch is in flight.
func (v *Viewer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.inflight > 0 {
		return StateDownloadPending
	}
	return StateIdle
}

// FPS returns the current and average composites per second.
func (v *Viewer) FPS() (cur, avg int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stats.curFPS, v.stats.avgFPS
}

// Wait blocks until every fetch started so far has been delivered.
func (v *Viewer) Wait() {
	v.wg.Wait()
}

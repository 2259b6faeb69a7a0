// Package cinema composites pre-rendered Cinema image stacks into a lit,
// color-mapped view.
//
// # Overview
//
// A Cinema composite-image-stack dataset stores, for every camera position,
// one sprite sheet: a vertical stack of equally sized slots holding flat
// color layers, normal components (nX, nY, nZ) and scalar fields. Instead of
// rendering geometry, the viewer picks the slots named by a layer spec and
// blends them, mapping scalars through per-field lookup tables and shading
// them with a light that follows the camera.
//
// # Quick Start
//
//	ds, _ := dataset.Open("path/to/cinema.cdb")
//	comp := cinema.NewCompositor(ds.Info(), ds.Rendering())
//	v, _ := cinema.NewViewer(ds.Info(), comp, ds, cinema.WithViewportSize(800, 600))
//	v.Subscribe(func(ev cinema.Event) { ... }, cinema.EventDrawn)
//	v.ShowViewpoint(ctx, cinema.Controls{"phi": "90", "theta": "45"}, false)
//	v.Wait()
//	img := v.Image()
//
// # Architecture
//
// The package is organized into:
//   - Layer spec parsing and slot resolution: LayerSpec, ResolveLayers
//   - Lookup tables: BuildLUT, LUTCache
//   - Light reconstruction: SphericalToCartesian, Light
//   - Compositing: Compositor
//   - Display: Viewport
//   - Fetch gating and caching: Viewer
//
// Internal packages provide the pixel buffers (internal/image), the
// straight-alpha blend math (internal/blend) and the worker pool
// (internal/parallel). The dataset package reads datasets from disk.
//
// # Coordinate System
//
// Image and viewport coordinates have the origin at top-left with y
// increasing down. World space has z up ("north"); the camera always looks
// at the origin.
package cinema

// Version is the current version of the library.
const Version = "0.3.0"

package cinema

import (
	"image"

	"golang.org/x/image/draw"

	intImage "github.com/cquammen/cinema/internal/image"
)

// DefaultViewportSize is the width and height used when a viewport has no
// size of its own.
const DefaultViewportSize = 400

// Viewport places a composite on the display: the composite's center
// lands on (CenterX, CenterY) and one composite pixel spans Zoom display
// pixels.
type Viewport struct {
	Width, Height    int
	Zoom             float64
	CenterX, CenterY float64
}

// NewViewport returns a viewport of the given size with zoom 1, centered.
func NewViewport(width, height int) Viewport {
	var v Viewport
	v.Resize(width, height)
	v.Zoom = 1
	v.CenterX, v.CenterY = float64(v.Width)/2, float64(v.Height)/2
	return v
}

// Resize changes the display size, keeping zoom and center. A
// non-positive size becomes DefaultViewportSize square.
func (v *Viewport) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		width, height = DefaultViewportSize, DefaultViewportSize
	}
	v.Width, v.Height = width, height
}

// Fit returns the zoom at which an iw x ih image just fits the viewport,
// and how much wider (xscale) or taller (yscale) the viewport is than the
// image at that zoom. One of the scales is always 1.
func (v Viewport) Fit(iw, ih int) (naturalZoom, xscale, yscale float64) {
	if iw <= 0 || ih <= 0 {
		return 1, 1, 1
	}
	imgAspect := float64(iw) / float64(ih)
	vpAspect := float64(v.Width) / float64(v.Height)
	if vpAspect > imgAspect {
		return float64(v.Height) / float64(ih), vpAspect / imgAspect, 1
	}
	return float64(v.Width) / float64(iw), 1, imgAspect / vpAspect
}

// Reset zooms an iw x ih image to fit and centers it.
func (v *Viewport) Reset(iw, ih int) {
	v.Zoom, _, _ = v.Fit(iw, ih)
	v.CenterX, v.CenterY = float64(v.Width)/2, float64(v.Height)/2
}

// ZoomBy multiplies the zoom by factor. Non-positive factors are ignored.
func (v *Viewport) ZoomBy(factor float64) {
	if factor > 0 {
		v.Zoom *= factor
	}
}

// Pan moves the drawing center by (dx, dy) display pixels.
func (v *Viewport) Pan(dx, dy float64) {
	v.CenterX += dx
	v.CenterY += dy
}

// Transform returns the mapping from composite to display coordinates for
// an iw x ih composite.
func (v Viewport) Transform(iw, ih int) intImage.Affine {
	return intImage.Translate(v.CenterX, v.CenterY).
		Multiply(intImage.Scale(v.Zoom, v.Zoom)).
		Multiply(intImage.Translate(-float64(iw)/2, -float64(ih)/2))
}

// Draw renders src into dst, which is cleared first. The same inputs
// always produce the same pixels.
func (v Viewport) Draw(dst *image.NRGBA, src *ImageBuf, interp Interpolation) {
	clear(dst.Pix)
	if src == nil || v.Zoom <= 0 {
		return
	}
	iw, ih := src.Bounds()
	s2d := v.Transform(iw, ih).Aff3()
	s := src.ToStdImage()
	interp.interpolator().Transform(dst, s2d, s, s.Bounds(), draw.Src, nil)
}

// MapToImage maps a display position to composite coordinates. ok is false
// when the position falls outside the iw x ih composite.
func (v Viewport) MapToImage(x, y float64, iw, ih int) (ix, iy float64, ok bool) {
	inv, ok := v.Transform(iw, ih).Invert()
	if !ok {
		return 0, 0, false
	}
	ix, iy = inv.TransformPoint(x, y)
	if ix < 0 || iy < 0 || ix >= float64(iw) || iy >= float64(ih) {
		return ix, iy, false
	}
	return ix, iy, true
}

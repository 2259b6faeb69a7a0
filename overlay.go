package cinema

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const overlayPadding = 3

var (
	overlayText = image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	overlayBox  = image.NewUniform(color.NRGBA{A: 160})
)

// drawStats writes the frame rate line in the top-left corner of dst.
func drawStats(dst *image.NRGBA, curFPS, avgFPS int) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: dst, Src: overlayText, Face: face}
	text := fmt.Sprintf("%d fps (avg %d)", curFPS, avgFPS)

	box := image.Rect(0, 0,
		d.MeasureString(text).Ceil()+2*overlayPadding,
		face.Height+2*overlayPadding)
	draw.Draw(dst, box.Intersect(dst.Bounds()), overlayBox, image.Point{}, draw.Over)

	d.Dot = fixed.P(overlayPadding, overlayPadding+face.Ascent)
	d.DrawString(text)
}

package main

import (
	"image"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const halfBlock = '▀'

// pixelColor returns the color of (x, y) over a black terminal. Pixels
// outside img are black.
func pixelColor(img *image.NRGBA, x, y int) tcell.Color {
	if !(image.Point{x, y}.In(img.Rect)) {
		return tcell.ColorBlack
	}
	c := img.NRGBAAt(x, y)
	a := int32(c.A)
	return tcell.NewRGBColor(int32(c.R)*a/255, int32(c.G)*a/255, int32(c.B)*a/255)
}

// drawFrame paints img with one half-block cell per two stacked pixels.
func drawFrame(screen tcell.Screen, img *image.NRGBA) {
	cols, rows := screen.Size()
	for y := 0; y < rows-1; y++ {
		for x := 0; x < cols; x++ {
			style := tcell.StyleDefault.
				Foreground(pixelColor(img, x, 2*y)).
				Background(pixelColor(img, x, 2*y+1))
			screen.SetContent(x, y, halfBlock, nil, style)
		}
	}
}

// drawStatus writes text on row y, truncated to the screen width.
func drawStatus(screen tcell.Screen, cols, y int, text string) {
	style := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if x+w > cols {
			break
		}
		screen.SetContent(x, y, r, nil, style)
		x += w
	}
	for ; x < cols; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}
}

package cinema

import (
	"image"

	intImage "github.com/cquammen/cinema/internal/image"
)

// ImageBuf is a straight-alpha RGBA8 pixel buffer. Sprite sheets are
// decoded into it and composites are returned in it.
type ImageBuf = intImage.ImageBuf

// NewImageBuf creates a transparent buffer of the given size.
func NewImageBuf(width, height int) (*ImageBuf, error) {
	return intImage.NewImageBuf(width, height)
}

// LoadImage decodes an image file (PNG, JPEG, BMP, TIFF, WebP or JPEG 2000).
func LoadImage(path string) (*ImageBuf, error) {
	return intImage.LoadImage(path)
}

// ImageBufFromImage converts any image.Image to a straight-alpha buffer.
func ImageBufFromImage(img image.Image) *ImageBuf {
	return intImage.FromStdImage(img)
}

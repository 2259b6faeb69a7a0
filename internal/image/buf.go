// Package image provides the RGBA8 pixel buffers the compositor works on.
//
// Every buffer holds straight (non-premultiplied) RGBA, 4 bytes per pixel,
// which is what decoded sprite sheets and the composite output use.
package image

import (
	"errors"
)

// BytesPerPixel is the size of one RGBA8 pixel.
const BytesPerPixel = 4

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrOutOfBounds is returned when pixel coordinates or a row range fall
	// outside the image.
	ErrOutOfBounds = errors.New("image: coordinates out of bounds")

	// ErrSizeMismatch is returned when two buffers must share a width.
	ErrSizeMismatch = errors.New("image: buffer size mismatch")
)

// ImageBuf is a straight-alpha RGBA8 pixel buffer.
//
// Thread safety: concurrent reads are safe. Writers need external
// synchronization; disjoint row ranges may be written concurrently.
type ImageBuf struct {
	data   []byte
	width  int
	height int
	stride int
}

// NewImageBuf creates a zeroed (transparent black) buffer.
func NewImageBuf(width, height int) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	stride := width * BytesPerPixel
	return &ImageBuf{
		data:   make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
	}, nil
}

// Clone creates a deep, tightly packed copy of the buffer.
func (b *ImageBuf) Clone() *ImageBuf {
	c, _ := NewImageBuf(b.width, b.height)
	for y := range b.height {
		copy(c.RowBytes(y), b.RowBytes(y))
	}
	return c
}

// Width returns the image width in pixels.
func (b *ImageBuf) Width() int {
	return b.width
}

// Height returns the image height in pixels.
func (b *ImageBuf) Height() int {
	return b.height
}

// Stride returns the number of bytes per row (including padding).
func (b *ImageBuf) Stride() int {
	return b.stride
}

// Bounds returns the image dimensions as (width, height).
func (b *ImageBuf) Bounds() (int, int) {
	return b.width, b.height
}

// Data returns the raw pixel data slice.
func (b *ImageBuf) Data() []byte {
	return b.data
}

// RowBytes returns the pixels of row y, or nil if y is out of bounds.
func (b *ImageBuf) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	return b.data[start : start+b.width*BytesPerPixel]
}

// PixelOffset returns the byte offset of pixel (x, y) in the data slice.
// Returns -1 if coordinates are out of bounds.
func (b *ImageBuf) PixelOffset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.stride + x*BytesPerPixel
}

// GetRGBA returns the color at (x, y).
// Returns (0,0,0,0) if coordinates are out of bounds.
func (b *ImageBuf) GetRGBA(x, y int) (r, g, bl, a uint8) {
	off := b.PixelOffset(x, y)
	if off < 0 {
		return 0, 0, 0, 0
	}
	p := b.data[off : off+4]
	return p[0], p[1], p[2], p[3]
}

// Clear sets all pixels to transparent black.
func (b *ImageBuf) Clear() {
	clear(b.data)
}

// Fill sets all pixels to the given color.
func (b *ImageBuf) Fill(r, g, bl, a uint8) {
	for y := range b.height {
		row := b.RowBytes(y)
		for i := 0; i < len(row); i += 4 {
			row[i], row[i+1], row[i+2], row[i+3] = r, g, bl, a
		}
	}
}

// CopyRows copies dst.Height() rows of src, starting at row srcY, into dst.
// Both buffers must have the same width. This is how a slot is cut out of a
// vertically stacked sprite sheet.
func CopyRows(dst, src *ImageBuf, srcY int) error {
	if dst.width != src.width {
		return ErrSizeMismatch
	}
	if srcY < 0 || srcY+dst.height > src.height {
		return ErrOutOfBounds
	}
	for y := range dst.height {
		copy(dst.RowBytes(y), src.RowBytes(srcY+y))
	}
	return nil
}

// Equal reports whether two buffers have the same size and pixels.
func (b *ImageBuf) Equal(other *ImageBuf) bool {
	if b.width != other.width || b.height != other.height {
		return false
	}
	for y := range b.height {
		r1, r2 := b.RowBytes(y), other.RowBytes(y)
		for i := range r1 {
			if r1[i] != r2[i] {
				return false
			}
		}
	}
	return true
}

// ByteSize returns the total size of the image data in bytes.
func (b *ImageBuf) ByteSize() int {
	return len(b.data)
}

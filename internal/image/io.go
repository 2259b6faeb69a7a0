package image

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	// Sprite sheets come out of many pipelines; register every decoder we
	// can read so image.Decode picks the right one.
	_ "image/jpeg"

	"github.com/mrjoshuak/go-jpeg2000"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// I/O errors.
var (
	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("image: empty data")
)

// JPEG 2000 signatures: the JP2 box header and the raw J2K codestream SOC+SIZ.
var (
	jp2Magic = []byte{0x00, 0x00, 0x00, 0x0C, 0x6A, 0x50, 0x20, 0x20}
	j2kMagic = []byte{0xFF, 0x4F, 0xFF, 0x51}
)

// LoadImage loads an image file, detecting the format from its content.
func LoadImage(path string) (*ImageBuf, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// LoadImageFromBytes decodes an in-memory image, detecting the format.
func LoadImageFromBytes(data []byte) (*ImageBuf, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Decode decodes PNG, JPEG, BMP, TIFF, WebP or JPEG 2000 from r.
func Decode(r io.Reader) (*ImageBuf, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(jp2Magic))
	if isJPEG2000(head) {
		img, err := jpeg2000.Decode(br)
		if err != nil {
			return nil, fmt.Errorf("image: decode JPEG 2000: %w", err)
		}
		return FromStdImage(img), nil
	}

	img, _, err := image.Decode(br)
	if err != nil {
		return nil, fmt.Errorf("image: decode: %w", err)
	}
	return FromStdImage(img), nil
}

func isJPEG2000(head []byte) bool {
	return bytes.HasPrefix(head, jp2Magic) || bytes.HasPrefix(head, j2kMagic)
}

// FromStdImage converts any image.Image to a straight-alpha ImageBuf.
// The result always starts at (0, 0).
func FromStdImage(img image.Image) *ImageBuf {
	bounds := img.Bounds()
	buf, err := NewImageBuf(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil
	}

	// Fast path: already straight alpha.
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := range buf.height {
			start := nrgba.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(buf.RowBytes(y), nrgba.Pix[start:start+buf.width*BytesPerPixel])
		}
		return buf
	}

	// Everything else goes through the NRGBA color model, which
	// un-premultiplies RGBA sources.
	dst := buf.ToStdImage()
	draw.Copy(dst, image.Point{}, img, bounds, draw.Src, nil)
	return buf
}

// ToStdImage returns an *image.NRGBA sharing b's pixel memory.
func (b *ImageBuf) ToStdImage() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.data,
		Stride: b.stride,
		Rect:   image.Rect(0, 0, b.width, b.height),
	}
}

// EncodePNG encodes the image as PNG to the given writer.
func (b *ImageBuf) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, b.ToStdImage()); err != nil {
		return fmt.Errorf("image: encode PNG: %w", err)
	}
	return nil
}

// SavePNG saves the image as a PNG file.
func (b *ImageBuf) SavePNG(path string) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}
	if err := b.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

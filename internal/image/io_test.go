package image

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
)

func TestFromStdImageUnpremultiplies(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	// Premultiplied half-transparent red.
	src.SetRGBA(0, 0, color.RGBA{R: 128, A: 128})

	buf := FromStdImage(src)
	r, g, b, a := buf.GetRGBA(0, 0)
	if r != 255 || g != 0 || b != 0 || a != 128 {
		t.Errorf("GetRGBA = (%d,%d,%d,%d), want (255,0,0,128)", r, g, b, a)
	}
}

func TestFromStdImageOffsetBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 7))
	src.SetNRGBA(5, 5, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	buf := FromStdImage(src)
	if r, g, b, a := buf.GetRGBA(0, 0); r != 1 || g != 2 || b != 3 || a != 4 {
		t.Errorf("GetRGBA(0,0) = (%d,%d,%d,%d)", r, g, b, a)
	}
}

func TestDecodePNGRoundTrip(t *testing.T) {
	buf, _ := NewImageBuf(3, 2)
	buf.Fill(10, 20, 30, 200)

	var out bytes.Buffer
	if err := buf.EncodePNG(&out); err != nil {
		t.Fatal(err)
	}
	got, err := LoadImageFromBytes(out.Bytes())
	if err != nil {
		t.Fatalf("LoadImageFromBytes() error = %v", err)
	}
	if !got.Equal(buf) {
		t.Error("decoded PNG differs from source")
	}
}

func TestSaveAndLoad(t *testing.T) {
	buf, _ := NewImageBuf(2, 2)
	buf.Fill(1, 2, 3, 255)
	path := filepath.Join(t.TempDir(), "sheet.png")
	if err := buf.SavePNG(path); err != nil {
		t.Fatal(err)
	}
	got, err := LoadImage(path)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(buf) {
		t.Error("loaded image differs")
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := LoadImageFromBytes(nil); !errors.Is(err, ErrEmptyData) {
		t.Errorf("empty data error = %v", err)
	}
	if _, err := LoadImageFromBytes([]byte("not an image")); err == nil {
		t.Error("expected decode error")
	}
	if _, err := LoadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected open error")
	}
}

func TestIsJPEG2000(t *testing.T) {
	if !isJPEG2000([]byte{0xFF, 0x4F, 0xFF, 0x51, 0, 0}) {
		t.Error("J2K codestream not detected")
	}
	if !isJPEG2000(jp2Magic) {
		t.Error("JP2 box not detected")
	}
	var pngHead bytes.Buffer
	_ = png.Encode(&pngHead, image.NewGray(image.Rect(0, 0, 1, 1)))
	if isJPEG2000(pngHead.Bytes()[:8]) {
		t.Error("PNG misdetected as JPEG 2000")
	}
}

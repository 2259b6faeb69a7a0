package blend

import (
	"bytes"
	"testing"
)

func TestRowMatchesPixelFunc(t *testing.T) {
	src := []byte{
		255, 0, 0, 255,
		0, 255, 0, 0,
		0, 0, 255, 128,
		7, 7, 7, 1,
	}
	dst := []byte{
		1, 2, 3, 255,
		4, 5, 6, 255,
		200, 200, 200, 255,
		9, 9, 9, 0,
	}

	want := append([]byte(nil), dst...)
	for i := 0; i < len(src); i += 4 {
		want[i], want[i+1], want[i+2], want[i+3] = sourceOver(
			src[i], src[i+1], src[i+2], src[i+3],
			want[i], want[i+1], want[i+2], want[i+3])
	}

	Row(dst, src, SourceOver)
	if !bytes.Equal(dst, want) {
		t.Errorf("Row(SourceOver) = %v, want %v", dst, want)
	}
}

func TestRowDestinationOver(t *testing.T) {
	dst := []byte{0, 0, 0, 0, 10, 20, 30, 255}
	src := []byte{50, 60, 70, 255, 50, 60, 70, 255}
	Row(dst, src, DestinationOver)
	want := []byte{50, 60, 70, 255, 10, 20, 30, 255}
	if !bytes.Equal(dst, want) {
		t.Errorf("Row(DestinationOver) = %v, want %v", dst, want)
	}
}

func TestRowShortSource(t *testing.T) {
	dst := []byte{1, 1, 1, 255, 2, 2, 2, 255}
	Row(dst, []byte{9, 9, 9, 255}, SourceOver)
	want := []byte{9, 9, 9, 255, 2, 2, 2, 255}
	if !bytes.Equal(dst, want) {
		t.Errorf("Row with short source = %v, want %v", dst, want)
	}
}

func TestRowDestinationOverOpaque(t *testing.T) {
	row := []byte{
		0, 0, 0, 0,
		10, 20, 30, 255,
		255, 0, 0, 128,
	}
	bg := []byte{0, 0, 255, 255, 0, 0, 255, 255, 0, 0, 255, 255}
	Row(row, bg, DestinationOver)

	want := []byte{
		0, 0, 255, 255,
		10, 20, 30, 255,
		128, 0, 127, 255,
	}
	if !bytes.Equal(row, want) {
		t.Errorf("Row(DestinationOver) over opaque = %v, want %v", row, want)
	}
}

func TestPixel(t *testing.T) {
	dst := []byte{0, 0, 0, 255}
	Pixel(dst, 255, 255, 255, 255)
	if !bytes.Equal(dst, []byte{255, 255, 255, 255}) {
		t.Errorf("Pixel = %v", dst)
	}
}

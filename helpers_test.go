package cinema

import (
	"context"
	"sync"
	"testing"
)

// Slots of the two-layer test dataset. Layer '1' is flat (field c), layer
// '2' is lit (nX, nY, nZ) and colored by scalar field s.
const (
	slotFlat  = 0
	slotNX    = 1
	slotNY    = 2
	slotNZ    = 3
	slotS     = 4
	slotBG    = 5
	slotCount = 6
)

func testDataset() *Dataset {
	return NewDataset(
		map[byte]string{'c': "color", 'X': FieldNormalX, 'Y': FieldNormalY, 'Z': FieldNormalZ, 's': "temperature"},
		map[byte]string{'1': "c", '2': "XYZs"},
		map[string]int{"1c": 5, "2X": 4, "2Y": 3, "2Z": 2, "2s": 1},
	)
}

const grayRenderingJSON = `{
  "lookuptables": {
    "temperature": {"controlpoints": [
      {"x": 0, "r": 0, "g": 0, "b": 0},
      {"x": 1, "r": 1, "g": 1, "b": 1}
    ]}
  }
}`

func testRendering(t *testing.T) *Rendering {
	t.Helper()
	r, err := ParseRendering([]byte(grayRenderingJSON))
	if err != nil {
		t.Fatalf("ParseRendering() = %v", err)
	}
	return r
}

// sheetBuilder fills the slots of a test sprite sheet pixel by pixel.
type sheetBuilder struct {
	t    *testing.T
	w, h int
	img  *ImageBuf
}

func newSheetBuilder(t *testing.T, w, h int) *sheetBuilder {
	t.Helper()
	img, err := NewImageBuf(w, h*slotCount)
	if err != nil {
		t.Fatalf("NewImageBuf() = %v", err)
	}
	return &sheetBuilder{t: t, w: w, h: h, img: img}
}

func (b *sheetBuilder) set(slot, x, y int, r, g, bl, a uint8) *sheetBuilder {
	b.t.Helper()
	off := b.img.PixelOffset(x, slot*b.h+y)
	if off < 0 {
		b.t.Fatalf("pixel (%d, %d) outside sheet", x, slot*b.h+y)
	}
	copy(b.img.Data()[off:], []byte{r, g, bl, a})
	return b
}

// normal stores a unit normal in the nX, nY, nZ slots at (x, y).
func (b *sheetBuilder) normal(x, y int, n Vec3) *sheetBuilder {
	enc := func(c float64) uint8 { return toByte((c + 1) / 2 * 255) }
	b.set(slotNX, x, y, enc(n.X()), 0, 0, 255)
	b.set(slotNY, x, y, enc(n.Y()), 0, 0, 255)
	b.set(slotNZ, x, y, enc(n.Z()), 0, 0, 255)
	return b
}

func (b *sheetBuilder) sheet() *SpriteSheet {
	b.t.Helper()
	s, err := NewSpriteSheetSlots(b.img, slotCount)
	if err != nil {
		b.t.Fatalf("NewSpriteSheetSlots() = %v", err)
	}
	return s
}

// gatedFetcher blocks each fetch until the gate of its controls is opened.
type gatedFetcher struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	sheet *SpriteSheet
	calls int
}

func newGatedFetcher(sheet *SpriteSheet) *gatedFetcher {
	return &gatedFetcher{gates: make(map[string]chan struct{}), sheet: sheet}
}

func (f *gatedFetcher) gate(c Controls) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.gates[c.Key()]
	if !ok {
		g = make(chan struct{})
		f.gates[c.Key()] = g
	}
	return g
}

func (f *gatedFetcher) open(c Controls) {
	close(f.gate(c))
}

func (f *gatedFetcher) Fetch(ctx context.Context, c Controls) (*SpriteSheet, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	select {
	case <-f.gate(c):
		return f.sheet, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *gatedFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// eventLog records viewer events.
type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) handle(ev Event) {
	l.mu.Lock()
	l.events = append(l.events, ev)
	l.mu.Unlock()
}

func (l *eventLog) ofType(t EventType) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Event
	for _, ev := range l.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

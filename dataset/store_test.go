package dataset

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/cquammen/cinema"
)

const infoFixture = `{
  "name_pattern": "{phi}/{theta}.png",
  "parameter_list": {
    "phi":   {"values": [0, 30], "default": 0, "label": "phi", "type": "range"},
    "theta": {"values": [90], "default": 90, "label": "theta", "type": "range"}
  },
  "metadata": {
    "type": "composite-image-stack",
    "fields": {"c": "color", "X": "nX", "Y": "nY", "Z": "nZ", "s": "temperature"},
    "layer_fields": {"1": ["c"], "2": "XYZs"},
    "offset": {"1c": 5, "2X": 4, "2Y": 3, "2Z": 2, "2s": 1},
    "dimensions": [2, 2]
  }
}`

const renderingFixture = `{
  "lookuptables": {
    "temperature": {"controlpoints": [
      {"x": 0, "r": 0, "g": 0, "b": 1},
      {"x": 1, "r": 1, "g": 0, "b": 0}
    ]}
  }
}`

// slots in the fixture: SlotCount 5 plus the background.
const fixtureSlots = 6

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
}

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func zstded(t *testing.T, data []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil)
}

// sheetPNG returns a 2-pixel-wide sheet whose flat slot is red and whose
// background slot is transparent.
func sheetPNG(t *testing.T) []byte {
	t.Helper()
	img, err := cinema.NewImageBuf(2, 2*fixtureSlots)
	if err != nil {
		t.Fatal(err)
	}
	for y := range 2 {
		row := img.RowBytes(y)
		for i := 0; i < len(row); i += 4 {
			row[i], row[i+3] = 255, 255
		}
	}
	var buf bytes.Buffer
	if err := img.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func openFixture(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name      string
		info      func(t *testing.T) (string, []byte)
		rendering func(t *testing.T) (string, []byte)
		fields    []string
	}{
		{
			name:      "plain",
			info:      func(*testing.T) (string, []byte) { return InfoFile, []byte(infoFixture) },
			rendering: func(*testing.T) (string, []byte) { return RenderingFile, []byte(renderingFixture) },
			fields:    []string{"temperature"},
		},
		{
			name: "compressed",
			info: func(t *testing.T) (string, []byte) {
				return InfoFile + ".gz", gzipped(t, []byte(infoFixture))
			},
			rendering: func(t *testing.T) (string, []byte) {
				return RenderingFile + ".zst", zstded(t, []byte(renderingFixture))
			},
			fields: []string{"temperature"},
		},
		{
			name: "no rendering",
			info: func(*testing.T) (string, []byte) { return InfoFile, []byte(infoFixture) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			name, data := tt.info(t)
			writeFile(t, filepath.Join(dir, name), data)
			if tt.rendering != nil {
				name, data := tt.rendering(t)
				writeFile(t, filepath.Join(dir, name), data)
			}

			s := openFixture(t, dir)
			if s.Dir() != dir {
				t.Errorf("Dir() = %q", s.Dir())
			}
			if got := s.Info().SlotCount(); got != 5 {
				t.Errorf("SlotCount() = %d, want 5", got)
			}
			if got := s.Info().DefaultLayerSpec().String(); got != "1c2s" {
				t.Errorf("DefaultLayerSpec() = %q, want 1c2s", got)
			}
			if !s.Rendering().Loaded() {
				t.Error("Rendering() not loaded")
			}
			got := s.Rendering().Fields()
			if len(got) != len(tt.fields) {
				t.Fatalf("Fields() = %v, want %v", got, tt.fields)
			}
			for i := range got {
				if got[i] != tt.fields[i] {
					t.Errorf("Fields()[%d] = %q, want %q", i, got[i], tt.fields[i])
				}
			}
		})
	}
}

func TestOpen_Errors(t *testing.T) {
	t.Run("missing info", func(t *testing.T) {
		if _, err := Open(t.TempDir()); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Open() = %v, want fs.ErrNotExist", err)
		}
	})
	t.Run("corrupt gzip", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, InfoFile+".gz"), []byte("not gzip"))
		if _, err := Open(dir); err == nil {
			t.Error("Open() with corrupt info.json.gz succeeded")
		}
	})
	t.Run("bad rendering", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, InfoFile), []byte(infoFixture))
		writeFile(t, filepath.Join(dir, RenderingFile), []byte(`{"lookuptables": [`))
		if _, err := Open(dir); err == nil {
			t.Error("Open() with truncated rendering.json succeeded")
		}
	})
}

func TestStore_Fetch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, InfoFile), []byte(infoFixture))
	writeFile(t, filepath.Join(dir, RenderingFile), []byte(renderingFixture))
	writeFile(t, filepath.Join(dir, "0", "90.png"), sheetPNG(t))
	writeFile(t, filepath.Join(dir, "30", "90.png.zst"), zstded(t, sheetPNG(t)))
	s := openFixture(t, dir)
	ctx := context.Background()

	sheet, err := s.Fetch(ctx, cinema.Controls{})
	if err != nil {
		t.Fatalf("Fetch(defaults) = %v", err)
	}
	if w, h := sheet.SlotSize(); w != 2 || h != 2 {
		t.Errorf("SlotSize() = %dx%d, want 2x2", w, h)
	}
	if sheet.Slots() != fixtureSlots {
		t.Errorf("Slots() = %d, want %d", sheet.Slots(), fixtureSlots)
	}

	again, err := s.Fetch(ctx, cinema.Controls{"phi": "0", "theta": "90"})
	if err != nil || again != sheet {
		t.Errorf("Fetch(explicit defaults) = %p, %v; want the cached sheet", again, err)
	}

	if _, err := s.Fetch(ctx, cinema.Controls{"phi": "30"}); err != nil {
		t.Errorf("Fetch(zstd sheet) = %v", err)
	}

	if _, err := s.Fetch(ctx, cinema.Controls{"phi": "60"}); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Fetch(missing) = %v, want fs.ErrNotExist", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := s.Fetch(canceled, cinema.Controls{"phi": "60"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch(canceled) = %v, want context.Canceled", err)
	}
}

func TestStore_ViewerIntegration(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, InfoFile), []byte(infoFixture))
	writeFile(t, filepath.Join(dir, RenderingFile), []byte(renderingFixture))
	writeFile(t, filepath.Join(dir, "0", "90.png"), sheetPNG(t))
	s := openFixture(t, dir)

	comp := cinema.NewCompositor(s.Info(), s.Rendering(), cinema.WithWorkers(1))
	defer comp.Close()
	v, err := cinema.NewViewer(s.Info(), comp, s, cinema.WithViewportSize(4, 4))
	if err != nil {
		t.Fatalf("NewViewer() = %v", err)
	}
	var composited, failed int
	v.Subscribe(func(ev cinema.Event) {
		switch ev.Type {
		case cinema.EventComposited:
			composited++
		case cinema.EventError:
			failed++
			t.Errorf("viewer error: %v", ev.Err)
		}
	})

	v.ShowViewpoint(context.Background(), s.Info().DefaultControls(), false)
	v.Wait()
	if composited != 1 || failed != 0 {
		t.Fatalf("composited = %d, errors = %d", composited, failed)
	}
	if r, g, _, a := v.Composite().GetRGBA(0, 0); r != 255 || g != 0 || a != 255 {
		t.Errorf("composite (0,0) = %d,%d,_,%d, want opaque red", r, g, a)
	}
}

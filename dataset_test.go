package cinema

import (
	"errors"
	"reflect"
	"testing"
)

const infoJSONFixture = `{
  "type": "composite-image-stack",
  "name_pattern": "{time}/{phi}/{theta}/rgb.png",
  "parameter_list": {
    "phi":   {"label": "phi", "type": "range", "values": [-180, -90, 0, 90], "default": 0},
    "theta": {"label": "theta", "type": "range", "values": [0, 45, 90], "default": 90},
    "time":  {"label": "time", "type": "range", "values": ["0.0", "1.5"]}
  },
  "metadata": {
    "type": "composite-image-stack",
    "dimensions": [64, 32],
    "fields": {"c": "color", "X": "nX", "Y": "nY", "Z": "nZ", "s": "temperature"},
    "layer_fields": {"1": ["c"], "2": "XYZs"},
    "offset": {"1c": 5, "2X": 4, "2Y": 3, "2Z": 2, "2s": 1}
  }
}`

func TestParseDataset(t *testing.T) {
	ds, err := ParseDataset([]byte(infoJSONFixture))
	if err != nil {
		t.Fatalf("ParseDataset() = %v", err)
	}

	if ds.Type != "composite-image-stack" {
		t.Errorf("Type = %q", ds.Type)
	}
	if ds.NamePattern != "{time}/{phi}/{theta}/rgb.png" {
		t.Errorf("NamePattern = %q", ds.NamePattern)
	}
	if ds.Width != 64 || ds.Height != 32 {
		t.Errorf("size = %dx%d, want 64x32", ds.Width, ds.Height)
	}
	if ds.SlotCount() != 5 {
		t.Errorf("SlotCount() = %d, want 5", ds.SlotCount())
	}
	if got := ds.LayerFields('1'); got != "c" {
		t.Errorf("LayerFields('1') = %q, want c", got)
	}
	if got := ds.LayerFields('2'); got != "XYZs" {
		t.Errorf("LayerFields('2') = %q, want XYZs", got)
	}
	if code, ok := ds.FieldCode("nY"); !ok || code != 'Y' {
		t.Errorf("FieldCode(nY) = %q, %v", code, ok)
	}
	if name, ok := ds.FieldName('s'); !ok || name != "temperature" {
		t.Errorf("FieldName('s') = %q, %v", name, ok)
	}
	if off, ok := ds.Offset('2', 'Z'); !ok || off != 2 {
		t.Errorf("Offset(2Z) = %d, %v", off, ok)
	}

	phi, ok := ds.Parameter("phi")
	if !ok {
		t.Fatal("missing phi parameter")
	}
	if !reflect.DeepEqual(phi.Values, []string{"-180", "-90", "0", "90"}) {
		t.Errorf("phi values = %v", phi.Values)
	}
	if phi.Index("90") != 3 || phi.Index("45") != -1 {
		t.Errorf("Index mismatch")
	}

	want := Controls{"phi": "0", "theta": "90", "time": "0.0"}
	if got := ds.DefaultControls(); !got.Equal(want) {
		t.Errorf("DefaultControls() = %v, want %v", got, want)
	}
	if got := ds.ParameterNames(); !reflect.DeepEqual(got, []string{"phi", "theta", "time"}) {
		t.Errorf("ParameterNames() = %v", got)
	}
}

func TestParseDataset_Invalid(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"long field code", `{"metadata": {"fields": {"ab": "x"}}}`},
		{"long layer code", `{"metadata": {"layer_fields": {"ab": "x"}}}`},
		{"short offset code", `{"metadata": {"offset": {"a": 1}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDataset([]byte(tt.json)); !errors.Is(err, ErrInvalidDataset) {
				t.Errorf("ParseDataset() error = %v, want ErrInvalidDataset", err)
			}
		})
	}

	if _, err := ParseDataset([]byte("{")); err == nil {
		t.Error("ParseDataset(truncated) should fail")
	}
}

func TestDataset_DefaultLayerSpec(t *testing.T) {
	if got := testDataset().DefaultLayerSpec().String(); got != "1c2s" {
		t.Errorf("DefaultLayerSpec() = %q, want 1c2s", got)
	}
}

func TestDataset_Layers(t *testing.T) {
	if got := testDataset().Layers(); string(got) != "12" {
		t.Errorf("Layers() = %q, want 12", got)
	}
}

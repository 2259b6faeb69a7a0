package cinema

import (
	"fmt"
	"slices"
	"strings"
)

// HiddenField is the field code that hides a layer.
const HiddenField = '_'

// LayerField selects the field a layer is colored by.
type LayerField struct {
	Layer byte
	Field byte
}

// Hidden reports whether the layer is switched off.
func (lf LayerField) Hidden() bool {
	return lf.Field == HiddenField
}

// LayerSpec lists the visible layers in draw order. Its text form is a
// sequence of two-character (layer, field) pairs, e.g. "a0b1c_".
type LayerSpec []LayerField

// ParseLayerSpec parses the text form of a layer spec.
// A layer named twice keeps its first position and takes the later field.
func ParseLayerSpec(s string) (LayerSpec, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: %q has odd length", ErrMalformedLayerSpec, s)
	}
	spec := make(LayerSpec, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		spec = spec.With(s[i], s[i+1])
	}
	return spec, nil
}

// String returns the text form; it round-trips through ParseLayerSpec.
func (s LayerSpec) String() string {
	var b strings.Builder
	b.Grow(len(s) * 2)
	for _, lf := range s {
		b.WriteByte(lf.Layer)
		b.WriteByte(lf.Field)
	}
	return b.String()
}

// LayerString returns the sorted layer codes joined by '/', e.g. "a/b/c".
func (s LayerSpec) LayerString() string {
	layers := make([]string, len(s))
	for i, lf := range s {
		layers[i] = string(lf.Layer)
	}
	slices.Sort(layers)
	return strings.Join(layers, "/")
}

// Field returns the field selected for layer.
func (s LayerSpec) Field(layer byte) (byte, bool) {
	i := s.index(layer)
	if i < 0 {
		return 0, false
	}
	return s[i].Field, true
}

// With returns a copy of s with layer colored by field. An existing layer
// keeps its position; a new one is appended.
func (s LayerSpec) With(layer, field byte) LayerSpec {
	out := slices.Clone(s)
	if i := out.index(layer); i >= 0 {
		out[i].Field = field
		return out
	}
	return append(out, LayerField{Layer: layer, Field: field})
}

func (s LayerSpec) index(layer byte) int {
	return slices.IndexFunc(s, func(lf LayerField) bool { return lf.Layer == layer })
}

// LayerKind is how the compositor treats a resolved layer: HiddenLayer,
// FlatLayer or LitLayer.
type LayerKind interface {
	layerKind()
}

// HiddenLayer is skipped.
type HiddenLayer struct{}

// FlatLayer is blended straight from one slot.
type FlatLayer struct {
	Slot int
}

// LitLayer is shaded from three normal slots and colored by mapping the
// Scalar slot through the lookup table of field ColorBy.
type LitLayer struct {
	NX, NY, NZ int
	Scalar     int
	ColorBy    string
}

func (HiddenLayer) layerKind() {}
func (FlatLayer) layerKind()   {}
func (LitLayer) layerKind()    {}

// ResolvedLayer is a layer with its sprite slots looked up.
type ResolvedLayer struct {
	Layer byte
	Kind  LayerKind
}

// ResolveLayers maps each entry of spec to the sprite slots it draws from,
// preserving spec order. A slot index is SlotCount minus the pair's offset.
//
// A layer is lit when its field list contains the fields named nX, nY and
// nZ; the selected field then supplies the scalar.
func ResolveLayers(spec LayerSpec, ds *Dataset) ([]ResolvedLayer, error) {
	out := make([]ResolvedLayer, 0, len(spec))
	for _, lf := range spec {
		if lf.Hidden() {
			out = append(out, ResolvedLayer{Layer: lf.Layer, Kind: HiddenLayer{}})
			continue
		}
		slot, err := slotOf(ds, lf.Layer, lf.Field)
		if err != nil {
			return nil, err
		}

		normals, lit, err := normalSlots(ds, lf.Layer)
		if err != nil {
			return nil, err
		}
		if !lit {
			out = append(out, ResolvedLayer{Layer: lf.Layer, Kind: FlatLayer{Slot: slot}})
			continue
		}
		colorBy, _ := ds.FieldName(lf.Field)
		out = append(out, ResolvedLayer{Layer: lf.Layer, Kind: LitLayer{
			NX:      normals[0],
			NY:      normals[1],
			NZ:      normals[2],
			Scalar:  slot,
			ColorBy: colorBy,
		}})
	}
	return out, nil
}

func slotOf(ds *Dataset, layer, field byte) (int, error) {
	off, ok := ds.Offset(layer, field)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLayerField, string([]byte{layer, field}))
	}
	return ds.SlotCount() - off, nil
}

// normalSlots resolves the nX, nY, nZ slots of a layer. lit is false when
// the dataset has no such fields or the layer lacks one of them.
func normalSlots(ds *Dataset, layer byte) (slots [3]int, lit bool, err error) {
	available := ds.LayerFields(layer)
	for i, name := range [3]string{FieldNormalX, FieldNormalY, FieldNormalZ} {
		code, ok := ds.FieldCode(name)
		if !ok || strings.IndexByte(available, code) < 0 {
			return slots, false, nil
		}
		if slots[i], err = slotOf(ds, layer, code); err != nil {
			return slots, false, err
		}
	}
	return slots, true, nil
}

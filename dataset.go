package cinema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// Names of the fields that carry surface normals. A layer whose field list
// includes all three is shaded by the lit pass.
const (
	FieldNormalX = "nX"
	FieldNormalY = "nY"
	FieldNormalZ = "nZ"
)

// Parameter is one axis of the dataset's parameter space, such as time,
// phi or theta. Values keep their textual form from info.json because they
// are substituted verbatim into the file name pattern.
type Parameter struct {
	Name    string
	Label   string
	Type    string
	Values  []string
	Default string
}

// Index returns the position of value in Values, or -1.
func (p Parameter) Index(value string) int {
	return slices.Index(p.Values, value)
}

// Dataset is the metadata of a composite image stack. It is immutable
// after creation and safe to share.
type Dataset struct {
	// Type is metadata.type, e.g. "composite-image-stack".
	Type string
	// NamePattern locates a viewpoint's sprite sheet, e.g.
	// "{time}/{phi}/{theta}/image.png".
	NamePattern string
	// Width and Height are the size of one slot, zero when info.json does
	// not record it.
	Width, Height int

	params      map[string]Parameter
	fields      map[byte]string
	fieldCodes  map[string]byte
	layerFields map[byte]string
	offsets     map[string]int
}

// NewDataset builds a Dataset from its three lookup tables: field code to
// field name, layer code to the codes of its fields, and two-character
// (layer, field) code to sprite offset.
func NewDataset(fields map[byte]string, layerFields map[byte]string, offsets map[string]int) *Dataset {
	d := &Dataset{
		params:      make(map[string]Parameter),
		fields:      maps.Clone(fields),
		fieldCodes:  make(map[string]byte, len(fields)),
		layerFields: maps.Clone(layerFields),
		offsets:     maps.Clone(offsets),
	}
	if d.fields == nil {
		d.fields = make(map[byte]string)
	}
	if d.layerFields == nil {
		d.layerFields = make(map[byte]string)
	}
	if d.offsets == nil {
		d.offsets = make(map[string]int)
	}
	for code, name := range d.fields {
		d.fieldCodes[name] = code
	}
	return d
}

// SlotCount returns the number of offset entries. Offsets count down from
// it, and the slot with this index holds the background.
func (d *Dataset) SlotCount() int {
	return len(d.offsets)
}

// FieldName returns the name of a field code.
func (d *Dataset) FieldName(code byte) (string, bool) {
	name, ok := d.fields[code]
	return name, ok
}

// FieldCode returns the code of a named field.
func (d *Dataset) FieldCode(name string) (byte, bool) {
	code, ok := d.fieldCodes[name]
	return code, ok
}

// LayerFields returns the field codes available for a layer.
func (d *Dataset) LayerFields(layer byte) string {
	return d.layerFields[layer]
}

// Offset returns the sprite offset of a (layer, field) pair.
func (d *Dataset) Offset(layer, field byte) (int, bool) {
	off, ok := d.offsets[string([]byte{layer, field})]
	return off, ok
}

// Layers returns the layer codes in ascending order.
func (d *Dataset) Layers() []byte {
	return slices.Sorted(maps.Keys(d.layerFields))
}

// Parameter returns the named parameter.
func (d *Dataset) Parameter(name string) (Parameter, bool) {
	p, ok := d.params[name]
	return p, ok
}

// ParameterNames returns the parameter names in ascending order.
func (d *Dataset) ParameterNames() []string {
	return slices.Sorted(maps.Keys(d.params))
}

// DefaultControls returns every parameter at its default value.
func (d *Dataset) DefaultControls() Controls {
	c := make(Controls, len(d.params))
	for name, p := range d.params {
		c[name] = p.Default
	}
	return c
}

// DefaultLayerSpec shows every layer, colored by the first of its fields
// that is not a normal component.
func (d *Dataset) DefaultLayerSpec() LayerSpec {
	normals := map[string]bool{FieldNormalX: true, FieldNormalY: true, FieldNormalZ: true}
	var spec LayerSpec
	for _, layer := range d.Layers() {
		codes := d.layerFields[layer]
		if codes == "" {
			continue
		}
		field := codes[0]
		for i := range len(codes) {
			if !normals[d.fields[codes[i]]] {
				field = codes[i]
				break
			}
		}
		spec = append(spec, LayerField{Layer: layer, Field: field})
	}
	return spec
}

// info.json layout.
type infoJSON struct {
	NamePattern   string                   `json:"name_pattern"`
	ParameterList map[string]parameterJSON `json:"parameter_list"`
	Metadata      struct {
		Type        string               `json:"type"`
		Fields      map[string]string    `json:"fields"`
		LayerFields map[string]codesJSON `json:"layer_fields"`
		Offset      map[string]int       `json:"offset"`
		Dimensions  []int                `json:"dimensions"`
	} `json:"metadata"`
}

type parameterJSON struct {
	Label   string            `json:"label"`
	Type    string            `json:"type"`
	Values  []json.RawMessage `json:"values"`
	Default json.RawMessage   `json:"default"`
}

// codesJSON accepts a field list written either as a string ("ABC") or as
// an array of one-character strings.
type codesJSON string

func (c *codesJSON) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = codesJSON(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	var buf bytes.Buffer
	for _, code := range list {
		buf.WriteString(code)
	}
	*c = codesJSON(buf.String())
	return nil
}

// scalarText returns a JSON string's contents or a number's literal text.
func scalarText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

// ParseDataset decodes a dataset's info.json.
func ParseDataset(data []byte) (*Dataset, error) {
	var info infoJSON
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("cinema: parse info.json: %w", err)
	}
	meta := info.Metadata

	fields := make(map[byte]string, len(meta.Fields))
	for code, name := range meta.Fields {
		if len(code) != 1 {
			return nil, fmt.Errorf("%w: field code %q", ErrInvalidDataset, code)
		}
		fields[code[0]] = name
	}
	layerFields := make(map[byte]string, len(meta.LayerFields))
	for layer, codes := range meta.LayerFields {
		if len(layer) != 1 {
			return nil, fmt.Errorf("%w: layer code %q", ErrInvalidDataset, layer)
		}
		layerFields[layer[0]] = string(codes)
	}
	for code := range meta.Offset {
		if len(code) != 2 {
			return nil, fmt.Errorf("%w: offset code %q", ErrInvalidDataset, code)
		}
	}

	d := NewDataset(fields, layerFields, meta.Offset)
	d.Type = meta.Type
	d.NamePattern = info.NamePattern
	if len(meta.Dimensions) == 2 {
		d.Width, d.Height = meta.Dimensions[0], meta.Dimensions[1]
	}
	for name, pj := range info.ParameterList {
		p := Parameter{
			Name:    name,
			Label:   pj.Label,
			Type:    pj.Type,
			Default: scalarText(pj.Default),
		}
		for _, v := range pj.Values {
			p.Values = append(p.Values, scalarText(v))
		}
		if p.Default == "" && len(p.Values) > 0 {
			p.Default = p.Values[0]
		}
		d.params[name] = p
	}
	return d, nil
}

// String summarizes the dataset for logs.
func (d *Dataset) String() string {
	return "dataset{layers=" + strconv.Itoa(len(d.layerFields)) +
		" fields=" + strconv.Itoa(len(d.fields)) +
		" slots=" + strconv.Itoa(d.SlotCount()) + "}"
}

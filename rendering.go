package cinema

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Rendering holds the color maps of a dataset (rendering.json). It starts
// unloaded; a Compositor refuses to run until Load succeeds.
//
// Thread safety: all methods are safe for concurrent use. Invalidation
// callbacks run on the goroutine that changed the color map, in
// registration order, without internal locks held.
type Rendering struct {
	mu     sync.RWMutex
	loaded bool
	tables map[string][]ControlPoint
	subs   []func(field string)
}

type renderingJSON struct {
	LookupTables map[string]struct {
		ControlPoints []ControlPoint `json:"controlpoints"`
	} `json:"lookuptables"`
}

// NewRendering returns an unloaded Rendering.
func NewRendering() *Rendering {
	return &Rendering{tables: make(map[string][]ControlPoint)}
}

// ParseRendering decodes rendering.json into a loaded Rendering.
func ParseRendering(data []byte) (*Rendering, error) {
	r := NewRendering()
	if err := r.Load(data); err != nil {
		return nil, err
	}
	return r, nil
}

// Load replaces all color maps with those in rendering.json and marks the
// Rendering loaded. Every previously known or newly loaded field is
// invalidated.
func (r *Rendering) Load(data []byte) error {
	var doc renderingJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("cinema: parse rendering.json: %w", err)
	}
	tables := make(map[string][]ControlPoint, len(doc.LookupTables))
	for field, lt := range doc.LookupTables {
		tables[field] = lt.ControlPoints
	}

	r.mu.Lock()
	changed := slices.Collect(maps.Keys(r.tables))
	for field := range tables {
		if _, ok := r.tables[field]; !ok {
			changed = append(changed, field)
		}
	}
	r.tables = tables
	r.loaded = true
	subs := slices.Clone(r.subs)
	r.mu.Unlock()

	slices.Sort(changed)
	for _, field := range changed {
		notify(subs, field)
	}
	return nil
}

// Loaded reports whether rendering.json has been loaded.
func (r *Rendering) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// Fields returns the fields that have a color map, sorted.
func (r *Rendering) Fields() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.tables))
}

// ControlPoints returns a copy of the color map of field.
func (r *Rendering) ControlPoints(field string) ([]ControlPoint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	points, ok := r.tables[field]
	return slices.Clone(points), ok
}

// SetControlPoints replaces the color map of field and invalidates its
// lookup table. Invalid points are rejected with ErrInvalidControlPoints.
func (r *Rendering) SetControlPoints(field string, points []ControlPoint) error {
	if _, err := BuildLUT(points); err != nil {
		return fmt.Errorf("cinema: set control points for %q: %w", field, err)
	}
	r.mu.Lock()
	r.tables[field] = slices.Clone(points)
	subs := slices.Clone(r.subs)
	r.mu.Unlock()

	notify(subs, field)
	return nil
}

// OnInvalidate registers fn to be called with the name of every field
// whose color map changes.
func (r *Rendering) OnInvalidate(fn func(field string)) {
	r.mu.Lock()
	r.subs = append(r.subs, fn)
	r.mu.Unlock()
}

func notify(subs []func(string), field string) {
	for _, fn := range subs {
		fn(field)
	}
}

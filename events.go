package cinema

import (
	"fmt"
	"image"
	"slices"
	"sync"
	"time"
)

// EventType identifies what a Viewer reports.
type EventType int

const (
	// EventComposited follows every composite the viewer applies.
	EventComposited EventType = iota
	// EventDrawn follows every display pass; Event.Image is the display.
	EventDrawn
	// EventError carries a fetch or composite failure in Event.Err.
	EventError
	// EventFPS reports the timing of the last applied composite.
	EventFPS
)

var eventNames = [...]string{"composited", "drawn", "error", "fps"}

// String returns the name of the event type.
func (t EventType) String() string {
	if t >= 0 && int(t) < len(eventNames) {
		return eventNames[t]
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

// Event is delivered to handlers registered with Viewer.Subscribe.
type Event struct {
	Type     EventType
	Controls Controls

	// Err is set for EventError.
	Err error
	// Image is the display image for EventDrawn. Published images are
	// never modified afterwards, so handlers may keep it; Viewer.Image
	// returns the same image until the next draw.
	Image *image.NRGBA

	// Elapsed, CurFPS and AvgFPS are set for EventFPS.
	Elapsed time.Duration
	CurFPS  int
	AvgFPS  int
}

// EventHandler receives viewer events.
type EventHandler func(Event)

type subscription struct {
	id int
	fn EventHandler
}

// eventRouter delivers events to handlers synchronously, in registration
// order, on the goroutine that raised the event.
type eventRouter struct {
	mu       sync.RWMutex
	handlers map[EventType][]subscription
	nextID   int
}

func newEventRouter() *eventRouter {
	return &eventRouter{handlers: make(map[EventType][]subscription)}
}

// subscribe registers fn for types, or for every type when none are given.
// The returned function removes the registration.
func (r *eventRouter) subscribe(fn EventHandler, types ...EventType) func() {
	if len(types) == 0 {
		types = []EventType{EventComposited, EventDrawn, EventError, EventFPS}
	}
	r.mu.Lock()
	r.nextID++
	id := r.nextID
	for _, t := range types {
		r.handlers[t] = append(r.handlers[t], subscription{id: id, fn: fn})
	}
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			for _, t := range types {
				r.handlers[t] = slices.DeleteFunc(slices.Clone(r.handlers[t]), func(s subscription) bool {
					return s.id == id
				})
			}
		})
	}
}

func (r *eventRouter) dispatch(ev Event) {
	r.mu.RLock()
	subs := r.handlers[ev.Type]
	r.mu.RUnlock()
	for _, s := range subs {
		s.fn(ev)
	}
}

package dom

// Common event types.
const (
	EventClick   = "click"
	EventKeyDown = "keydown"
	EventScroll  = "scroll"
	EventLoad    = "load"
)

// Event is a dispatched UI event.
type Event struct {
	Type string
	// Key is the KeyboardEvent.key value for keyboard events.
	Key string

	// Target is the element the event was dispatched to; nil for window
	// events. CurrentTarget is the element whose listener is running.
	Target        Element
	CurrentTarget Element

	defaultPrevented bool
	stopped          bool
}

// NewEvent returns an event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ}
}

// NewKeyEvent returns a keydown event for key.
func NewKeyEvent(key string) *Event {
	return &Event{Type: EventKeyDown, Key: key}
}

// PreventDefault suppresses the browser's default action.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation prevents the event from reaching ancestor listeners.
func (e *Event) StopPropagation() { e.stopped = true }

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool { return e.stopped }

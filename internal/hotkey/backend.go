package hotkey

import (
	"errors"
	"fmt"
)

// ErrBackendNotAvailable is returned when a backend cannot be used on the current system.
var ErrBackendNotAvailable = errors.New("backend not available on this system")

// ErrConnectionClosed is returned by an EventSource once its connection to the
// display server is gone.
var ErrConnectionClosed = errors.New("display connection closed")

// EventKind classifies an incoming windowing event.
type EventKind int

const (
	EventPress EventKind = iota + 1
	EventRelease
	// EventIgnored is any other core protocol event, e.g. a keyboard
	// mapping notification.
	EventIgnored
	// EventUnsupported is an event the core protocol does not define, such
	// as one from an extension; the event loop treats it as fatal.
	EventUnsupported
)

func (k EventKind) String() string {
	switch k {
	case EventPress:
		return "press"
	case EventRelease:
		return "release"
	case EventIgnored:
		return "ignored"
	case EventUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Event is one keyboard event as delivered by the display server.
type Event struct {
	Kind  EventKind
	Code  Keycode
	State ModMask
	// Time is the server timestamp in milliseconds.
	Time uint32
	// Detail is a printable description, used for logging non-key events.
	Detail string
}

func (e Event) String() string {
	switch e.Kind {
	case EventPress, EventRelease:
		return fmt.Sprintf("%s %s@%d", e.Kind, Chord{Mods: e.State, Code: e.Code}, e.Time)
	default:
		return fmt.Sprintf("%s %s", e.Kind, e.Detail)
	}
}

// EventSource is the stream of grabbed keyboard events.
type EventSource interface {
	// NextEvent blocks until the next event arrives.
	NextEvent() (Event, error)
	// PollEvent returns the next queued event without blocking. The boolean
	// is false when nothing is queued.
	PollEvent() (Event, bool, error)
}

// Keyboard is the part of a display backend needed to resolve and grab hotkeys.
type Keyboard interface {
	// Grab requests an exclusive grab of code under exactly mods.
	Grab(mods ModMask, code Keycode) error
	// ResolveKeysyms maps every keysym name to the keycodes it is bound to
	// on the current layout. Names without a keycode map to an empty slice.
	ResolveKeysyms(names []string) (map[string][]Keycode, error)
	// ModifierMapping reports, for every keycode acting as a modifier, the
	// modifier bit(s) it drives.
	ModifierMapping() (map[Keycode]ModMask, error)
}

// Backend is an interface that abstracts a display server connection: it
// resolves and grabs hotkeys and then delivers their events.
type Backend interface {
	Keyboard
	EventSource

	// Name returns a human-readable name for this backend (for logging).
	Name() string

	// Close releases the display connection and with it every grab.
	Close() error
}

package capture

import (
	"fmt"
	"log"
	"time"

	"github.com/TanaroSch/push-to-talk/internal/hotkey"
	"github.com/TanaroSch/push-to-talk/internal/mixer"
)

const (
	// DefaultUnmuteDelay is how long an unmute waits before taking effect.
	DefaultUnmuteDelay = 150 * time.Millisecond
	// DefaultSettleDelay is waited after each event before peeking at the
	// next one. The press half of a key repeat arrives some 3..6ms after
	// its release.
	DefaultSettleDelay = 15 * time.Millisecond
)

// UnsupportedEventError is returned by Interpreter.Run when the display
// server sends an event the interpreter has no meaning for.
type UnsupportedEventError struct {
	Event hotkey.Event
}

func (e *UnsupportedEventError) Error() string {
	return fmt.Sprintf("unsupported event: %s", e.Event.Detail)
}

// StateObserver is told about every change of the desired state.
type StateObserver func(capturing bool, reason string)

// InterpreterOptions tunes an Interpreter.
type InterpreterOptions struct {
	// UnmuteDelay is waited before every unmute; zero unmutes at once.
	UnmuteDelay time.Duration
	// SettleDelay defaults to DefaultSettleDelay when zero.
	SettleDelay time.Duration
	Observer    StateObserver
}

// Interpreter turns hotkey events into the desired capture state.
type Interpreter struct {
	source  hotkey.EventSource
	table   *hotkey.Table
	desired *DesiredState
	control *control

	unmuteDelay time.Duration
	settleDelay time.Duration
	observer    StateObserver
	sleep       func(time.Duration)

	latched bool
	pending *pendingEvent
}

type pendingEvent struct {
	event hotkey.Event
	err   error
}

// NewInterpreter opens the interpreter's own handle on the capture control.
// A missing device or control is returned as an error.
func NewInterpreter(source hotkey.EventSource, table *hotkey.Table, desired *DesiredState,
	opener mixer.Opener, device, controlName string, opts InterpreterOptions) (*Interpreter, error) {
	c, err := openControl("Interpreter", opener, device, controlName)
	if err != nil {
		return nil, err
	}

	i := &Interpreter{
		source:      source,
		table:       table,
		desired:     desired,
		control:     c,
		unmuteDelay: opts.UnmuteDelay,
		settleDelay: opts.SettleDelay,
		observer:    opts.Observer,
		sleep:       time.Sleep,
	}
	if i.settleDelay <= 0 {
		i.settleDelay = DefaultSettleDelay
	}
	return i, nil
}

// Run processes events until the event stream fails or delivers an
// unsupported event. It never returns nil.
func (i *Interpreter) Run() error {
	for {
		if err := i.step(); err != nil {
			return err
		}
	}
}

func (i *Interpreter) step() error {
	ev, err := i.next()
	if err != nil {
		return fmt.Errorf("keyboard event stream: %w", err)
	}

	i.sleep(i.settleDelay)
	i.peek()

	switch ev.Kind {
	case hotkey.EventUnsupported:
		return &UnsupportedEventError{Event: ev}
	case hotkey.EventIgnored:
		return nil
	case hotkey.EventRelease:
		if i.isRepeat(ev) {
			// auto-repeat (e.g. Pause key): drop the release and the press
			i.pending = nil
			return nil
		}
	}

	if role, ok := i.table.Lookup(ev.Kind, ev.State, ev.Code); ok {
		i.handle(role, ev.Kind)
	}

	if err := i.control.drain(); err != nil {
		log.Printf("Interpreter: error handling mixer events: %v", err)
	}
	return nil
}

func (i *Interpreter) next() (hotkey.Event, error) {
	if p := i.pending; p != nil {
		i.pending = nil
		return p.event, p.err
	}
	return i.source.NextEvent()
}

func (i *Interpreter) peek() {
	ev, ok, err := i.source.PollEvent()
	switch {
	case err != nil:
		i.pending = &pendingEvent{err: err}
	case ok:
		i.pending = &pendingEvent{event: ev}
	}
}

// isRepeat reports whether release is immediately followed by a press of
// the same key with the same timestamp.
func (i *Interpreter) isRepeat(release hotkey.Event) bool {
	p := i.pending
	return p != nil && p.err == nil &&
		p.event.Kind == hotkey.EventPress &&
		p.event.Code == release.Code &&
		p.event.Time == release.Time
}

func (i *Interpreter) handle(role hotkey.Role, kind hotkey.EventKind) {
	var action Action
	switch role {
	case hotkey.RolePush:
		action = pushAction(kind)
	case hotkey.RoleToggle:
		var next ToggleState
		action, next = toggleStateOf(i.desired.Load(), i.latched).Next(kind)
		i.latched = next == ToggleMuteLatched
	}

	reason := role.String() + "-" + kind.String()
	switch action {
	case ActionMute:
		log.Printf("Muting by %s", reason)
		i.apply(false, reason)
	case ActionUnmute:
		log.Printf("Unmuting by %s", reason)
		if i.unmuteDelay > 0 {
			i.sleep(i.unmuteDelay)
		}
		i.apply(true, reason)
	}
}

// apply stores the new intent before touching the hardware. A failed write
// is left for the enforcer to fix.
func (i *Interpreter) apply(capturing bool, reason string) {
	i.desired.Store(capturing)
	if err := i.control.set(capturing); err != nil {
		log.Printf("Interpreter: error setting mixer capture state: %v", err)
	}
	if i.observer != nil {
		i.observer(capturing, reason)
	}
}

// Close releases the interpreter's mixer handle.
func (i *Interpreter) Close() {
	i.control.close()
}

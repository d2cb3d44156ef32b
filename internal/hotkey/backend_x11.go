package hotkey

import (
	"fmt"
	"log"
	"reflect"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgbutil"
	"github.com/jezek/xgbutil/keybind"
)

// X11Backend grabs hotkeys on the root window of the default screen and
// delivers their key events.
type X11Backend struct {
	display string
	conn    *xgb.Conn
	root    xproto.Window

	closeOnce sync.Once
}

// NewX11Backend connects to display; an empty display means $DISPLAY.
func NewX11Backend(display string) (*X11Backend, error) {
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11 display %q: %w", display, err)
	}

	screen := xproto.Setup(conn).DefaultScreen(conn)
	if screen == nil {
		conn.Close()
		return nil, fmt.Errorf("could not find default screen on X11 display %q", display)
	}

	log.Printf("X11 backend: connected, root window 0x%x", uint32(screen.Root))
	return &X11Backend{
		display: display,
		conn:    conn,
		root:    screen.Root,
	}, nil
}

// Name returns the name of this backend.
func (b *X11Backend) Name() string {
	return "X11 (xgb)"
}

// Grab grabs code under mods on the root window. The server answers with an
// Access error if another client already holds the same grab.
func (b *X11Backend) Grab(mods ModMask, code Keycode) error {
	return xproto.GrabKeyChecked(b.conn, true, b.root, uint16(mods), xproto.Keycode(code),
		xproto.GrabModeAsync, xproto.GrabModeAsync).Check()
}

// ResolveKeysyms looks the names up in the server's keyboard mapping. The
// mapping is fetched once per call on a short-lived connection of its own so
// that the event connection stays untouched.
func (b *X11Backend) ResolveKeysyms(names []string) (map[string][]Keycode, error) {
	xu, err := xgbutil.NewConnDisplay(b.display)
	if err != nil {
		return nil, fmt.Errorf("failed to get keyboard mapping: %w", err)
	}
	defer xu.Conn().Close()

	keybind.Initialize(xu)

	out := make(map[string][]Keycode, len(names))
	for _, name := range names {
		var codes []Keycode
		for _, kc := range keybind.StrToKeycodes(xu, name) {
			codes = append(codes, Keycode(kc))
		}
		out[name] = codes
	}
	return out, nil
}

// ModifierMapping returns which modifier bit every modifier key drives.
func (b *X11Backend) ModifierMapping() (map[Keycode]ModMask, error) {
	reply, err := xproto.GetModifierMapping(b.conn).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get modifier mapping: %w", err)
	}
	return modifierMappingFromRows(reply.Keycodes, int(reply.KeycodesPerModifier)), nil
}

// modifierMappingFromRows decodes the eight rows of a GetModifierMapping
// reply, perRow keycodes each, zero meaning an unused slot.
func modifierMappingFromRows(keycodes []xproto.Keycode, perRow int) map[Keycode]ModMask {
	out := make(map[Keycode]ModMask)
	if perRow == 0 {
		return out
	}
	for i, kc := range keycodes {
		row := i / perRow
		if kc == 0 || row >= len(modifierRows) {
			continue
		}
		out[Keycode(kc)] |= modifierRows[row]
	}
	return out
}

// NextEvent blocks until the server sends the next event.
func (b *X11Backend) NextEvent() (Event, error) {
	ev, xerr := b.conn.WaitForEvent()
	if ev == nil && xerr == nil {
		return Event{}, ErrConnectionClosed
	}
	if xerr != nil {
		return Event{}, fmt.Errorf("X11 error: %s", xerr.Error())
	}
	return translateEvent(ev), nil
}

// PollEvent returns an already queued event, if any.
func (b *X11Backend) PollEvent() (Event, bool, error) {
	ev, xerr := b.conn.PollForEvent()
	if xerr != nil {
		return Event{}, false, fmt.Errorf("X11 error: %s", xerr.Error())
	}
	if ev == nil {
		return Event{}, false, nil
	}
	return translateEvent(ev), true, nil
}

// Close closes the display connection, which drops all grabs and makes a
// blocked NextEvent return. Calling it again is a no-op.
func (b *X11Backend) Close() error {
	b.closeOnce.Do(b.conn.Close)
	return nil
}

func translateEvent(ev xgb.Event) Event {
	switch e := ev.(type) {
	case xproto.KeyPressEvent:
		return Event{Kind: EventPress, Code: Keycode(e.Detail), State: ModMask(e.State), Time: uint32(e.Time)}
	case xproto.KeyReleaseEvent:
		return Event{Kind: EventRelease, Code: Keycode(e.Detail), State: ModMask(e.State), Time: uint32(e.Time)}
	default:
		if isCoreEvent(ev) {
			return Event{Kind: EventIgnored, Detail: ev.String()}
		}
		return Event{Kind: EventUnsupported, Detail: ev.String()}
	}
}

var corePkg = reflect.TypeOf(xproto.KeyPressEvent{}).PkgPath()

// isCoreEvent reports whether ev is defined by the core X protocol rather
// than by an extension.
func isCoreEvent(ev xgb.Event) bool {
	t := reflect.TypeOf(ev)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.PkgPath() == corePkg
}

// Package mixer gives access to the capture switch of a sound card control.
package mixer

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrControlNotFound is returned when the named control does not exist on the device.
	ErrControlNotFound = errors.New("mixer control not found")
	// ErrNoCaptureSwitch is returned when the control exists but cannot mute capture.
	ErrNoCaptureSwitch = errors.New("capture switch not found, cannot adjust")
	// ErrStale is returned by Wait or Drain once the handle no longer tracks
	// the device (removed, suspended, reconfigured). The handle must be reopened.
	ErrStale = errors.New("mixer handle is stale")
	// ErrBackendNotAvailable is returned when a mixer backend is not compiled in.
	ErrBackendNotAvailable = errors.New("mixer backend not available on this system")
)

// Channel identifies one channel of a control.
type Channel int

// Element is a control with a per-channel capture switch.
type Element interface {
	Channels() []Channel
	// CaptureSwitch reports whether capture is on for ch.
	CaptureSwitch(ch Channel) (bool, error)
	SetCaptureSwitch(ch Channel, on bool) error
}

// Handle is an open mixer device.
type Handle interface {
	// Element looks up a control by name.
	Element(control string) (Element, error)
	// Wait blocks until the device reports a change or timeout passes. A
	// negative timeout waits forever.
	Wait(timeout time.Duration) error
	// Drain processes every pending change notification without blocking.
	Drain() error
	Close() error
}

// Opener opens a mixer device by name.
type Opener interface {
	Open(device string) (Handle, error)
	Name() string
}

// NewOpener returns the opener for the named backend ("alsa" or "pulse").
func NewOpener(backend string) (Opener, error) {
	switch backend {
	case "", "alsa":
		return alsaOpener{}, nil
	case "pulse":
		return pulseOpener{}, nil
	default:
		return nil, fmt.Errorf("unknown mixer backend %q", backend)
	}
}

// OpenElement opens device and looks up control on it. The handle is closed
// again if the control is missing.
func OpenElement(opener Opener, device, control string) (Handle, Element, error) {
	h, err := opener.Open(device)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s mixer %q: %w", opener.Name(), device, err)
	}
	el, err := h.Element(control)
	if err != nil {
		h.Close()
		return nil, nil, err
	}
	return h, el, nil
}

// Unanimous reads every channel. ok is false when the channels disagree or
// when any of them could not be read.
func Unanimous(el Element) (state bool, ok bool, err error) {
	channels := el.Channels()
	if len(channels) == 0 {
		return false, false, nil
	}

	var errs []error
	first := true
	ok = true
	for _, ch := range channels {
		on, rerr := el.CaptureSwitch(ch)
		if rerr != nil {
			errs = append(errs, fmt.Errorf("channel %d: %w", ch, rerr))
			ok = false
			continue
		}
		if first {
			state, first = on, false
		} else if on != state {
			ok = false
		}
	}
	if first {
		ok = false
	}
	return state, ok, errors.Join(errs...)
}

// SetAll writes on to every channel. A failing channel does not stop the
// others; all failures are returned joined.
func SetAll(el Element, on bool) error {
	var errs []error
	for _, ch := range el.Channels() {
		if err := el.SetCaptureSwitch(ch, on); err != nil {
			errs = append(errs, fmt.Errorf("channel %d: %w", ch, err))
		}
	}
	return errors.Join(errs...)
}

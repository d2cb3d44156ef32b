package mixer

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/godbus/dbus"
	"github.com/sqp/pulseaudio"
)

// pulseOpener controls the mute flag of a PulseAudio source through the
// server's D-Bus interface. The device is a source name, a source object
// path, or "default" for the fallback source. A source has one logical
// channel and the control name is not used.
type pulseOpener struct{}

func (pulseOpener) Name() string { return "pulse" }

func (pulseOpener) Open(device string) (Handle, error) {
	loaded, err := pulseaudio.ModuleIsLoaded()
	if err != nil {
		return nil, fmt.Errorf("check pulseaudio dbus module: %w", err)
	}
	if !loaded {
		log.Println("Pulse mixer: loading module-dbus-protocol")
		if err := pulseaudio.LoadModule(); err != nil {
			return nil, fmt.Errorf("load pulseaudio dbus module: %w", err)
		}
	}

	client, err := pulseaudio.New()
	if err != nil {
		return nil, fmt.Errorf("connect to pulseaudio: %w", err)
	}

	h := newPulseHandle(client, client, device)
	if errs := client.Register(h); len(errs) > 0 {
		client.Close()
		return nil, fmt.Errorf("register pulseaudio listener: %v", errs)
	}
	h.listen()
	return h, nil
}

// pulseConn is the part of the client that runs the signal loop.
type pulseConn interface {
	// Listen dispatches signals until the D-Bus connection is closed.
	Listen()
	Close() error
}

// pulseCloseTimeout bounds how long Close waits for Listen to return.
const pulseCloseTimeout = 2 * time.Second

type pulseHandle struct {
	conn    pulseConn
	client  *pulseaudio.Client
	device  string
	changes chan struct{}
	// listening is closed once the listener goroutine runs, done once
	// Listen has returned.
	listening chan struct{}
	done      chan struct{}

	closeOnce sync.Once
}

func newPulseHandle(conn pulseConn, client *pulseaudio.Client, device string) *pulseHandle {
	return &pulseHandle{
		conn:      conn,
		client:    client,
		device:    device,
		changes:   make(chan struct{}, 1),
		listening: make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (h *pulseHandle) listen() {
	go func() {
		close(h.listening)
		h.conn.Listen()
		close(h.done)
	}()
}

// DeviceMuteUpdated is called by the pulseaudio client on every mute change.
func (h *pulseHandle) DeviceMuteUpdated(path dbus.ObjectPath, muted bool) {
	select {
	case h.changes <- struct{}{}:
	default:
	}
}

func (h *pulseHandle) Element(control string) (Element, error) {
	path, err := h.findSource()
	if err != nil {
		return nil, err
	}
	return &pulseElement{source: h.client.Device(path)}, nil
}

func (h *pulseHandle) findSource() (dbus.ObjectPath, error) {
	if h.device == "" || h.device == "default" {
		var path dbus.ObjectPath
		if err := h.client.Core().Get("FallbackSource", &path); err != nil {
			return "", fmt.Errorf("%w: no fallback source: %v", ErrControlNotFound, err)
		}
		return path, nil
	}

	sources, err := h.client.Core().ListPath("Sources")
	if err != nil {
		return "", fmt.Errorf("list pulseaudio sources: %w", err)
	}
	for _, path := range sources {
		if string(path) == h.device {
			return path, nil
		}
		var name string
		if err := h.client.Device(path).Get("Name", &name); err == nil && name == h.device {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: no pulseaudio source %q", ErrControlNotFound, h.device)
}

func (h *pulseHandle) Wait(timeout time.Duration) error {
	var timer <-chan time.Time
	if timeout >= 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timer = t.C
	}
	select {
	case <-h.changes:
		return nil
	case <-h.done:
		return fmt.Errorf("%w: pulseaudio connection lost", ErrStale)
	case <-timer:
		return nil
	}
}

func (h *pulseHandle) Drain() error {
	for {
		select {
		case <-h.done:
			return fmt.Errorf("%w: pulseaudio connection lost", ErrStale)
		case <-h.changes:
		default:
			return nil
		}
	}
}

// Close ends the signal loop by closing the D-Bus connection, which closes
// the client's signal channel. The client's StopListening closes that same
// channel and must not be used: the bus closes it too when the server goes
// away.
func (h *pulseHandle) Close() error {
	var err error
	h.closeOnce.Do(func() {
		<-h.listening
		select {
		case <-h.done:
			// connection already dropped by the bus
			return
		default:
		}
		err = h.conn.Close()
		select {
		case <-h.done:
		case <-time.After(pulseCloseTimeout):
			log.Println("Pulse mixer: signal listener did not stop")
		}
	})
	return err
}

type pulseElement struct {
	source *pulseaudio.Object
}

func (e *pulseElement) Channels() []Channel {
	return []Channel{0}
}

func (e *pulseElement) CaptureSwitch(ch Channel) (bool, error) {
	var muted bool
	if err := e.source.Get("Mute", &muted); err != nil {
		return false, err
	}
	return !muted, nil
}

func (e *pulseElement) SetCaptureSwitch(ch Channel, on bool) error {
	return e.source.Set("Mute", !on)
}

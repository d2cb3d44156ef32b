package app

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/TanaroSch/push-to-talk/internal/config"
	"github.com/TanaroSch/push-to-talk/internal/hotkey"
	"github.com/TanaroSch/push-to-talk/internal/mixer"
)

var errStreamClosed = errors.New("stream closed")

type fakeBackend struct {
	events []hotkey.Event
	taken  map[hotkey.Chord]bool

	grabs  []hotkey.Chord
	closed bool

	// block, when set, holds NextEvent on an empty queue until Close.
	block chan struct{}
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) Grab(mods hotkey.ModMask, code hotkey.Keycode) error {
	chord := hotkey.Chord{Mods: mods, Code: code}
	if b.taken[chord] {
		return errors.New("BadAccess")
	}
	b.grabs = append(b.grabs, chord)
	return nil
}

func (b *fakeBackend) ResolveKeysyms(names []string) (map[string][]hotkey.Keycode, error) {
	return map[string][]hotkey.Keycode{}, nil
}

func (b *fakeBackend) ModifierMapping() (map[hotkey.Keycode]hotkey.ModMask, error) {
	return map[hotkey.Keycode]hotkey.ModMask{}, nil
}

func (b *fakeBackend) NextEvent() (hotkey.Event, error) {
	if len(b.events) == 0 {
		if b.block != nil {
			<-b.block
			return hotkey.Event{}, hotkey.ErrConnectionClosed
		}
		return hotkey.Event{}, errStreamClosed
	}
	ev := b.events[0]
	b.events = b.events[1:]
	return ev, nil
}

func (b *fakeBackend) PollEvent() (hotkey.Event, bool, error) {
	return hotkey.Event{}, false, nil
}

func (b *fakeBackend) Close() error {
	if !b.closed && b.block != nil {
		close(b.block)
	}
	b.closed = true
	return nil
}

// fakeMixer is shared by the interpreter and the enforcer goroutine.
type fakeMixer struct {
	mu     sync.Mutex
	on     bool
	writes []bool
}

func (m *fakeMixer) Channels() []mixer.Channel { return []mixer.Channel{0} }

func (m *fakeMixer) CaptureSwitch(mixer.Channel) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.on, nil
}

func (m *fakeMixer) SetCaptureSwitch(_ mixer.Channel, on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.on = on
	m.writes = append(m.writes, on)
	return nil
}

func (m *fakeMixer) wrote(on bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.writes {
		if w == on {
			return true
		}
	}
	return false
}

type fakeHandle struct {
	m     *fakeMixer
	block chan struct{}
}

func (h *fakeHandle) Element(string) (mixer.Element, error) { return h.m, nil }

func (h *fakeHandle) Wait(time.Duration) error {
	<-h.block
	return nil
}

func (h *fakeHandle) Drain() error { return nil }
func (h *fakeHandle) Close() error { return nil }

type fakeOpener struct {
	m     *fakeMixer
	block chan struct{}
}

func (o *fakeOpener) Open(string) (mixer.Handle, error) {
	return &fakeHandle{m: o.m, block: o.block}, nil
}

func (o *fakeOpener) Name() string { return "fake" }

// fakeTray runs onStart and blocks until Quit. With userQuit set it quits
// right away, like a click on the Quit item.
type fakeTray struct {
	userQuit bool

	quit     chan struct{}
	quitOnce sync.Once

	mu     sync.Mutex
	states []bool
}

func newFakeTray(userQuit bool) *fakeTray {
	return &fakeTray{userQuit: userQuit, quit: make(chan struct{})}
}

func (t *fakeTray) Run(onStart func()) {
	onStart()
	if t.userQuit {
		t.Quit()
	}
	<-t.quit
}

func (t *fakeTray) Quit() {
	t.quitOnce.Do(func() { close(t.quit) })
}

func (t *fakeTray) CaptureStateChanged(capturing bool, _ string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states = append(t.states, capturing)
}

func (t *fakeTray) shown() []bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]bool(nil), t.states...)
}

func newTestApp(cfg *config.Config, backend *fakeBackend, m *fakeMixer, ds hotkey.DisplayServer) *Application {
	a := New(cfg, "test")
	a.detect = func() hotkey.DisplayServer { return ds }
	a.newBackend = func(string) (hotkey.Backend, error) { return backend, nil }
	a.newOpener = func(string) (mixer.Opener, error) {
		return &fakeOpener{m: m, block: make(chan struct{})}, nil
	}
	return a
}

func TestRunInterpretsUntilStreamFails(t *testing.T) {
	cfg := config.Default()
	cfg.UnmuteDelayMs = 1
	backend := &fakeBackend{events: []hotkey.Event{
		{Kind: hotkey.EventPress, Code: 62, State: hotkey.Mod3, Time: 100},
		{Kind: hotkey.EventRelease, Code: 62, State: hotkey.Mod3, Time: 900},
	}}
	m := &fakeMixer{}

	err := newTestApp(cfg, backend, m, hotkey.DisplayServerX11).Run()

	if !errors.Is(err, errStreamClosed) {
		t.Fatalf("Run() = %v, want stream error", err)
	}
	if !backend.closed {
		t.Error("backend not closed")
	}
	if len(backend.grabs) != 2 {
		t.Errorf("grabs = %v, want one per hotkey", backend.grabs)
	}
	if !m.wrote(true) {
		t.Error("push press never unmuted")
	}
}

func TestRunFailsOnWayland(t *testing.T) {
	backend := &fakeBackend{}
	err := newTestApp(config.Default(), backend, &fakeMixer{}, hotkey.DisplayServerWayland).Run()

	if !errors.Is(err, hotkey.ErrBackendNotAvailable) {
		t.Fatalf("Run() = %v, want ErrBackendNotAvailable", err)
	}
	if len(backend.grabs) != 0 {
		t.Errorf("grabbed keys on Wayland: %v", backend.grabs)
	}
}

func TestRunFailsWhenGrabIsHeld(t *testing.T) {
	backend := &fakeBackend{taken: map[hotkey.Chord]bool{
		{Mods: hotkey.Mod3 | hotkey.ModControl, Code: 62}: true,
	}}
	err := newTestApp(config.Default(), backend, &fakeMixer{}, hotkey.DisplayServerX11).Run()

	var grabErr *hotkey.GrabError
	if !errors.As(err, &grabErr) {
		t.Fatalf("Run() = %v, want GrabError", err)
	}
	if grabErr.Role != hotkey.RoleToggle {
		t.Errorf("GrabError role = %s", grabErr.Role)
	}
	if !backend.closed {
		t.Error("backend not closed after failed grab")
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Mixer = "jack"
	backend := &fakeBackend{}

	err := newTestApp(cfg, backend, &fakeMixer{}, hotkey.DisplayServerX11).Run()
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Fatalf("Run() = %v", err)
	}
}

func TestRunWithTrayReturnsInterpreterError(t *testing.T) {
	cfg := config.Default()
	cfg.UnmuteDelayMs = 0
	cfg.UseTray = true
	backend := &fakeBackend{events: []hotkey.Event{
		{Kind: hotkey.EventPress, Code: 62, State: hotkey.Mod3, Time: 100},
		{Kind: hotkey.EventRelease, Code: 62, State: hotkey.Mod3, Time: 900},
	}}
	tray := newFakeTray(false)
	a := newTestApp(cfg, backend, &fakeMixer{}, hotkey.DisplayServerX11)
	a.newTray = func() Tray { return tray }

	err := a.Run()

	if !errors.Is(err, errStreamClosed) {
		t.Fatalf("Run() = %v, want stream error", err)
	}
	select {
	case <-tray.quit:
	default:
		t.Error("tray not closed after fatal error")
	}
	if got := tray.shown(); len(got) == 0 || !got[0] {
		t.Errorf("tray states = %v, want the push press first", got)
	}
}

func TestRunWithTrayQuitFromMenu(t *testing.T) {
	cfg := config.Default()
	cfg.UseTray = true
	backend := &fakeBackend{block: make(chan struct{})}
	a := newTestApp(cfg, backend, &fakeMixer{}, hotkey.DisplayServerX11)
	a.newTray = func() Tray { return newFakeTray(true) }

	if err := a.Run(); err != nil {
		t.Fatalf("Run() = %v, want nil after Quit", err)
	}
	if !backend.closed {
		t.Error("backend not closed after Quit")
	}
}

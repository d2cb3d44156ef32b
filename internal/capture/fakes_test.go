package capture

import (
	"errors"
	"time"

	"github.com/TanaroSch/push-to-talk/internal/hotkey"
	"github.com/TanaroSch/push-to-talk/internal/mixer"
)

var errEndOfScript = errors.New("end of script")

// scripted is one entry of a fakeSource. A queued entry has already arrived
// when the previous event is handled, so PollEvent can see it.
type scripted struct {
	event  hotkey.Event
	err    error
	queued bool
}

type fakeSource struct {
	script []scripted
}

func (s *fakeSource) NextEvent() (hotkey.Event, error) {
	if len(s.script) == 0 {
		return hotkey.Event{}, errEndOfScript
	}
	e := s.script[0]
	s.script = s.script[1:]
	return e.event, e.err
}

func (s *fakeSource) PollEvent() (hotkey.Event, bool, error) {
	if len(s.script) == 0 || !s.script[0].queued {
		return hotkey.Event{}, false, nil
	}
	e := s.script[0]
	s.script = s.script[1:]
	if e.err != nil {
		return hotkey.Event{}, false, e.err
	}
	return e.event, true, nil
}

func press(mods hotkey.ModMask, code hotkey.Keycode, t uint32) scripted {
	return scripted{event: hotkey.Event{Kind: hotkey.EventPress, State: mods, Code: code, Time: t}}
}

func release(mods hotkey.ModMask, code hotkey.Keycode, t uint32) scripted {
	return scripted{event: hotkey.Event{Kind: hotkey.EventRelease, State: mods, Code: code, Time: t}}
}

func queued(s scripted) scripted {
	s.queued = true
	return s
}

// fakeHardware is the capture control shared by every handle the fake
// opener hands out.
type fakeHardware struct {
	values   []bool
	readErr  error
	writeErr error
	missing  bool
	writes   []bool
}

func newHardware(values ...bool) *fakeHardware {
	return &fakeHardware{values: values}
}

func (hw *fakeHardware) all(v bool) bool {
	for _, on := range hw.values {
		if on != v {
			return false
		}
	}
	return true
}

type fakeElement struct {
	hw *fakeHardware
}

func (e *fakeElement) Channels() []mixer.Channel {
	out := make([]mixer.Channel, len(e.hw.values))
	for i := range out {
		out[i] = mixer.Channel(i)
	}
	return out
}

func (e *fakeElement) CaptureSwitch(ch mixer.Channel) (bool, error) {
	if e.hw.readErr != nil {
		return false, e.hw.readErr
	}
	return e.hw.values[ch], nil
}

func (e *fakeElement) SetCaptureSwitch(ch mixer.Channel, on bool) error {
	if e.hw.writeErr != nil {
		return e.hw.writeErr
	}
	e.hw.values[ch] = on
	if ch == 0 {
		e.hw.writes = append(e.hw.writes, on)
	}
	return nil
}

type fakeHandle struct {
	hw        *fakeHardware
	waitErrs  []error
	drainErrs []error
	waits     int
	closed    bool
}

func (h *fakeHandle) Element(control string) (mixer.Element, error) {
	if h.hw.missing || control != "Capture" {
		return nil, mixer.ErrControlNotFound
	}
	return &fakeElement{hw: h.hw}, nil
}

func (h *fakeHandle) Wait(time.Duration) error {
	h.waits++
	return pop(&h.waitErrs)
}

func (h *fakeHandle) Drain() error {
	return pop(&h.drainErrs)
}

func (h *fakeHandle) Close() error {
	h.closed = true
	return nil
}

func pop(errs *[]error) error {
	if len(*errs) == 0 {
		return nil
	}
	err := (*errs)[0]
	*errs = (*errs)[1:]
	return err
}

type fakeOpener struct {
	hw       *fakeHardware
	openErrs []error
	handles  []*fakeHandle

	// prepare, if set, configures every new handle.
	prepare func(*fakeHandle)
}

func (o *fakeOpener) Name() string { return "fake" }

func (o *fakeOpener) Open(device string) (mixer.Handle, error) {
	if err := pop(&o.openErrs); err != nil {
		return nil, err
	}
	h := &fakeHandle{hw: o.hw}
	if o.prepare != nil {
		o.prepare(h)
	}
	o.handles = append(o.handles, h)
	return h, nil
}

func (o *fakeOpener) last() *fakeHandle {
	return o.handles[len(o.handles)-1]
}

// sleepRecorder replaces time.Sleep and remembers the desired state seen at
// every sleep.
type sleepRecorder struct {
	desired *DesiredState
	slept   []time.Duration
	seen    []bool
}

func (r *sleepRecorder) sleep(d time.Duration) {
	r.slept = append(r.slept, d)
	if r.desired != nil {
		r.seen = append(r.seen, r.desired.Load())
	}
}

func (r *sleepRecorder) count(d time.Duration) int {
	n := 0
	for _, s := range r.slept {
		if s == d {
			n++
		}
	}
	return n
}

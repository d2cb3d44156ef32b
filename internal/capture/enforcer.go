package capture

import (
	"log"
	"time"

	"github.com/TanaroSch/push-to-talk/internal/mixer"
)

// DefaultReopenInterval is the pause between attempts to reopen a stale mixer.
const DefaultReopenInterval = time.Second

// Enforcer keeps the capture switch equal to the desired state. It wakes on
// every mixer change notification, so an external change is undone right
// away.
type Enforcer struct {
	desired *DesiredState
	control *control

	reopenInterval time.Duration
	sleep          func(time.Duration)
}

// NewEnforcer opens the enforcer's own handle on the capture control. A
// missing device or control is returned as an error; later failures are
// retried forever.
func NewEnforcer(desired *DesiredState, opener mixer.Opener, device, controlName string) (*Enforcer, error) {
	c, err := openControl("Enforcer", opener, device, controlName)
	if err != nil {
		return nil, err
	}
	return &Enforcer{
		desired:        desired,
		control:        c,
		reopenInterval: DefaultReopenInterval,
		sleep:          time.Sleep,
	}, nil
}

// Run reconciles forever. It is meant to run on its own goroutine.
func (e *Enforcer) Run() {
	for {
		e.cycle()
	}
}

// cycle reconciles once and then blocks until the mixer changes.
func (e *Enforcer) cycle() {
	if e.control.handle == nil {
		e.reopen()
	}

	el, err := e.control.handle.Element(e.control.name)
	if err != nil {
		log.Printf("Enforcer: %v", err)
		e.control.close()
		e.sleep(e.reopenInterval)
		return
	}
	e.reconcile(el)

	if err := e.control.handle.Wait(-1); err != nil {
		log.Printf("Enforcer: waiting for mixer events failed: %v", err)
		e.control.close()
		return
	}
	if err := e.control.drain(); err != nil {
		log.Printf("Enforcer: handling mixer events failed: %v", err)
		e.control.close()
	}
}

// reconcile writes the desired state to el if all of its channels agree on
// something else.
func (e *Enforcer) reconcile(el mixer.Element) {
	actual, ok, err := mixer.Unanimous(el)
	if err != nil {
		log.Printf("Enforcer: could not get capture switch value: %v", err)
	}
	if !ok {
		return
	}

	expected := e.desired.Load()
	if actual == expected {
		return
	}

	log.Printf("Fixing capture state to %s", describe(expected))
	if err := mixer.SetAll(el, expected); err != nil {
		log.Printf("Enforcer: error fixing capture state: %v", err)
	}
}

// reopen retries until a fresh handle is open.
func (e *Enforcer) reopen() {
	for attempt := 1; ; attempt++ {
		err := e.control.reopen()
		if err == nil {
			return
		}
		log.Printf("Enforcer: reopening mixer failed (attempt %d): %v", attempt, err)
		e.sleep(e.reopenInterval)
	}
}

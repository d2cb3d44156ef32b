// Package capture keeps a capture control muted or unmuted according to
// hotkey events.
//
// An Interpreter turns key events into the desired capture state and writes
// it to the hardware. An Enforcer runs next to it and puts the hardware back
// whenever something else changes it. The DesiredState is all they share.
package capture

import "sync/atomic"

// DesiredState is the last capture state asked for by the user: true means
// capturing (unmuted). It starts out muted.
type DesiredState struct {
	capturing atomic.Bool
}

// NewDesiredState returns a muted DesiredState.
func NewDesiredState() *DesiredState {
	return &DesiredState{}
}

// Load reports whether capture is wanted.
func (s *DesiredState) Load() bool {
	return s.capturing.Load()
}

// Store records a new desired state.
func (s *DesiredState) Store(capturing bool) {
	s.capturing.Store(capturing)
}

func describe(capturing bool) string {
	if capturing {
		return "unmuted"
	}
	return "muted"
}

package hotkey

import "fmt"

// UnknownSymbolError is returned when a keysym name resolves to no keycode.
type UnknownSymbolError struct {
	Keysym string
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("no keycode bound to keysym %q", e.Keysym)
}

// ConflictError is returned when one chord is claimed by two roles in the
// same binding table.
type ConflictError struct {
	Table    string
	Chord    Chord
	Existing Role
	Claimed  Role
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting keybindings: %s chord %s is bound to both %s and %s",
		e.Table, e.Chord, e.Existing, e.Claimed)
}

// GrabError is returned when a hotkey could not be grabbed, usually because
// another client already holds it.
type GrabError struct {
	Chord Chord
	Role  Role
	Err   error
}

func (e *GrabError) Error() string {
	return fmt.Sprintf("failed to grab %s hotkey %s: %v", e.Role, e.Chord, e.Err)
}

func (e *GrabError) Unwrap() error {
	return e.Err
}

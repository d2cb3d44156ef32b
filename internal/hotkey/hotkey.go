package hotkey

import (
	"log"
)

// Spec describes one hotkey as configured: a modifier mask plus either a
// literal keycode or a keysym name. A Spec with neither is disabled.
type Spec struct {
	Role      Role
	Modifiers ModMask
	Keycode   Keycode
	Keysym    string
}

// Disabled reports whether the spec names no key at all.
func (s Spec) Disabled() bool {
	return s.Keycode == 0 && s.Keysym == ""
}

// Binding is a resolved Spec. A keysym may live on several physical keys,
// so a binding can carry more than one keycode.
type Binding struct {
	Role      Role
	Modifiers ModMask
	Keycodes  []Keycode
}

// Table classifies key events into roles.
type Table struct {
	Press   map[Chord]Role
	Release map[Chord]Role
}

// NewTable returns an empty binding table.
func NewTable() *Table {
	return &Table{
		Press:   make(map[Chord]Role),
		Release: make(map[Chord]Role),
	}
}

// Lookup returns the role bound to a press or release of code under mods.
func (t *Table) Lookup(kind EventKind, mods ModMask, code Keycode) (Role, bool) {
	var m map[Chord]Role
	switch kind {
	case EventPress:
		m = t.Press
	case EventRelease:
		m = t.Release
	default:
		return 0, false
	}
	role, ok := m[Chord{Mods: mods, Code: code}]
	return role, ok
}

func (t *Table) add(table string, chord Chord, role Role) error {
	m := t.Press
	if table == "release" {
		m = t.Release
	}
	if existing, ok := m[chord]; ok && existing != role {
		return &ConflictError{Table: table, Chord: chord, Existing: existing, Claimed: role}
	}
	m[chord] = role
	return nil
}

// Resolve turns the given specs into a binding table and grabs every
// resolved key. Disabled specs are skipped. Nothing is grabbed unless all
// specs resolve without conflict.
func Resolve(kb Keyboard, specs ...Spec) (*Table, error) {
	bindings, err := resolveBindings(kb, specs)
	if err != nil {
		return nil, err
	}

	// A release of a key that is itself a modifier still reports that
	// modifier as held in the event state.
	modifiers, err := kb.ModifierMapping()
	if err != nil {
		return nil, err
	}

	table := NewTable()
	for _, b := range bindings {
		for _, code := range b.Keycodes {
			if err := table.add("press", Chord{Mods: b.Modifiers, Code: code}, b.Role); err != nil {
				return nil, err
			}
			releaseMods := b.Modifiers | modifiers[code]
			if err := table.add("release", Chord{Mods: releaseMods, Code: code}, b.Role); err != nil {
				return nil, err
			}
		}
	}

	grabbed := 0
	for _, b := range bindings {
		for _, code := range b.Keycodes {
			chord := Chord{Mods: b.Modifiers, Code: code}
			if err := kb.Grab(b.Modifiers, code); err != nil {
				if grabbed > 0 {
					log.Printf("Resolver: %d hotkey grab(s) stay in place until the display connection closes", grabbed)
				}
				return nil, &GrabError{Chord: chord, Role: b.Role, Err: err}
			}
			grabbed++
			log.Printf("Resolver: grabbed %s hotkey %s", b.Role, chord)
		}
	}

	return table, nil
}

func resolveBindings(kb Keyboard, specs []Spec) ([]Binding, error) {
	var names []string
	for _, s := range specs {
		if !s.Disabled() && s.Keysym != "" {
			names = append(names, s.Keysym)
		}
	}

	var symbols map[string][]Keycode
	if len(names) > 0 {
		var err error
		symbols, err = kb.ResolveKeysyms(names)
		if err != nil {
			return nil, err
		}
	}

	bindings := make([]Binding, 0, len(specs))
	for _, s := range specs {
		if s.Disabled() {
			log.Printf("Resolver: %s hotkey disabled", s.Role)
			continue
		}
		codes := []Keycode{s.Keycode}
		if s.Keysym != "" {
			codes = dedupe(symbols[s.Keysym])
			if len(codes) == 0 {
				return nil, &UnknownSymbolError{Keysym: s.Keysym}
			}
			log.Printf("Resolver: keysym %q is on keycode(s) %v", s.Keysym, codes)
		}
		bindings = append(bindings, Binding{Role: s.Role, Modifiers: s.Modifiers, Keycodes: codes})
	}
	return bindings, nil
}

func dedupe(codes []Keycode) []Keycode {
	seen := make(map[Keycode]bool, len(codes))
	out := make([]Keycode, 0, len(codes))
	for _, c := range codes {
		if c == 0 || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

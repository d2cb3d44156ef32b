package hotkey

import (
	"fmt"
	"sort"
	"strings"
)

// ModMask is a set of X11 core modifier bits as reported in the state field
// of key events.
type ModMask uint16

const (
	ModShift ModMask = 1 << iota
	ModLock
	ModControl
	Mod1
	Mod2
	Mod3
	Mod4
	Mod5
)

// modifierRows lists the eight modifier slots in the order the server
// reports them in GetModifierMapping.
var modifierRows = [8]ModMask{ModShift, ModLock, ModControl, Mod1, Mod2, Mod3, Mod4, Mod5}

// ModifierMap provides mapping between modifier names and mask bits.
var ModifierMap = map[string]ModMask{
	"shift":   ModShift,
	"lock":    ModLock,
	"control": ModControl,
	"mod1":    Mod1,
	"mod2":    Mod2,
	"mod3":    Mod3,
	"mod4":    Mod4,
	"mod5":    Mod5,
}

func (m ModMask) String() string {
	if m == 0 {
		return "none"
	}
	var names []string
	for name, bit := range ModifierMap {
		if m&bit != 0 {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool { return ModifierMap[names[i]] < ModifierMap[names[j]] })
	if rest := m &^ (ModShift | ModLock | ModControl | Mod1 | Mod2 | Mod3 | Mod4 | Mod5); rest != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint16(rest)))
	}
	return strings.Join(names, "+")
}

// Keycode identifies one physical key on the X server's keyboard.
type Keycode uint8

// Role is the behaviour bound to a hotkey.
type Role int

const (
	RolePush Role = iota + 1
	RoleToggle
)

func (r Role) String() string {
	switch r {
	case RolePush:
		return "push"
	case RoleToggle:
		return "toggle"
	default:
		return "unknown"
	}
}

// Chord is a modifier state plus keycode, the lookup key of a binding table.
type Chord struct {
	Mods ModMask
	Code Keycode
}

func (c Chord) String() string {
	return fmt.Sprintf("%s+%d", c.Mods, c.Code)
}

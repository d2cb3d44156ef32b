package capture

import "github.com/TanaroSch/push-to-talk/internal/hotkey"

// Action is what a key event asks the interpreter to do.
type Action int

const (
	ActionNone Action = iota
	ActionMute
	ActionUnmute
)

func (a Action) String() string {
	switch a {
	case ActionMute:
		return "mute"
	case ActionUnmute:
		return "unmute"
	default:
		return "none"
	}
}

// ToggleState is the state of the toggle hotkey.
type ToggleState int

const (
	ToggleUnmuted ToggleState = iota
	// ToggleMuteLatched follows a press that muted; its release must not unmute.
	ToggleMuteLatched
	ToggleMuted
)

func (s ToggleState) String() string {
	switch s {
	case ToggleUnmuted:
		return "unmuted"
	case ToggleMuteLatched:
		return "mute-latched"
	case ToggleMuted:
		return "muted"
	default:
		return "unknown"
	}
}

func toggleStateOf(capturing, latched bool) ToggleState {
	switch {
	case latched:
		return ToggleMuteLatched
	case capturing:
		return ToggleUnmuted
	default:
		return ToggleMuted
	}
}

// Next returns the action for a toggle key event in state s and the state
// after it.
func (s ToggleState) Next(kind hotkey.EventKind) (Action, ToggleState) {
	switch kind {
	case hotkey.EventPress:
		if s == ToggleUnmuted {
			return ActionMute, ToggleMuteLatched
		}
	case hotkey.EventRelease:
		switch s {
		case ToggleMuteLatched:
			return ActionNone, ToggleMuted
		case ToggleMuted:
			return ActionUnmute, ToggleUnmuted
		}
	}
	return ActionNone, s
}

func pushAction(kind hotkey.EventKind) Action {
	switch kind {
	case hotkey.EventPress:
		return ActionUnmute
	case hotkey.EventRelease:
		return ActionMute
	default:
		return ActionNone
	}
}

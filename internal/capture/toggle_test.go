package capture

import (
	"testing"

	"github.com/TanaroSch/push-to-talk/internal/hotkey"
)

func TestToggleTransitions(t *testing.T) {
	tests := []struct {
		state      ToggleState
		kind       hotkey.EventKind
		wantAction Action
		wantState  ToggleState
	}{
		{ToggleUnmuted, hotkey.EventPress, ActionMute, ToggleMuteLatched},
		{ToggleMuted, hotkey.EventPress, ActionNone, ToggleMuted},
		{ToggleMuteLatched, hotkey.EventPress, ActionNone, ToggleMuteLatched},
		{ToggleMuteLatched, hotkey.EventRelease, ActionNone, ToggleMuted},
		{ToggleMuted, hotkey.EventRelease, ActionUnmute, ToggleUnmuted},
		{ToggleUnmuted, hotkey.EventRelease, ActionNone, ToggleUnmuted},
	}
	for _, tc := range tests {
		action, next := tc.state.Next(tc.kind)
		if action != tc.wantAction || next != tc.wantState {
			t.Errorf("%s + %s = %s -> %s, want %s -> %s",
				tc.state, tc.kind, action, next, tc.wantAction, tc.wantState)
		}
	}
}

func TestToggleStateOf(t *testing.T) {
	tests := []struct {
		capturing bool
		latched   bool
		want      ToggleState
	}{
		{true, false, ToggleUnmuted},
		{false, false, ToggleMuted},
		{false, true, ToggleMuteLatched},
	}
	for _, tc := range tests {
		if got := toggleStateOf(tc.capturing, tc.latched); got != tc.want {
			t.Errorf("toggleStateOf(%v, %v) = %s, want %s", tc.capturing, tc.latched, got, tc.want)
		}
	}
}

func TestPushAction(t *testing.T) {
	if got := pushAction(hotkey.EventPress); got != ActionUnmute {
		t.Errorf("push press = %s", got)
	}
	if got := pushAction(hotkey.EventRelease); got != ActionMute {
		t.Errorf("push release = %s", got)
	}
}

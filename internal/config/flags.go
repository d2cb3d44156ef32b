package config

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// FlagValues holds parsed flags with explicit set tracking.
type FlagValues struct {
	ConfigPath    string
	ConfigPathSet bool

	Device         string
	DeviceSet      bool
	Control        string
	ControlSet     bool
	Mixer          string
	MixerSet       bool
	UnmuteDelay    int
	UnmuteDelaySet bool

	PushModifiers      string
	PushModifiersSet   bool
	PushKeycode        int
	PushKeycodeSet     bool
	PushKeysym         string
	PushKeysymSet      bool
	ToggleModifiers    string
	ToggleModifiersSet bool
	ToggleKeycode      int
	ToggleKeycodeSet   bool
	ToggleKeysym       string
	ToggleKeysymSet    bool

	Notification    bool
	NotificationSet bool
	Tray            bool
	TraySet         bool
	Display         string
	DisplaySet      bool
}

type stringFlag struct {
	target *string
	set    *bool
}

func (s *stringFlag) String() string {
	if s == nil || s.target == nil {
		return ""
	}
	return *s.target
}

func (s *stringFlag) Set(v string) error {
	if s.target != nil {
		*s.target = v
	}
	if s.set != nil {
		*s.set = true
	}
	return nil
}

type intFlag struct {
	target *int
	set    *bool
}

func (i *intFlag) String() string {
	if i == nil || i.target == nil {
		return ""
	}
	return fmt.Sprintf("%d", *i.target)
}

func (i *intFlag) Set(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	if i.target != nil {
		*i.target = n
	}
	if i.set != nil {
		*i.set = true
	}
	return nil
}

type boolFlag struct {
	target *bool
	set    *bool
}

func (b *boolFlag) String() string {
	if b == nil || b.target == nil {
		return ""
	}
	return fmt.Sprintf("%v", *b.target)
}

func parseBoolExt(v string) (bool, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "1", "true", "yes", "y", "on":
		return true, nil
	case "0", "false", "no", "n", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean: %s", v)
}

func (b *boolFlag) Set(v string) error {
	n, err := parseBoolExt(v)
	if err != nil {
		return err
	}
	if b.target != nil {
		*b.target = n
	}
	if b.set != nil {
		*b.set = true
	}
	return nil
}

// IsBoolFlag lets "-notification" be given without a value.
func (b *boolFlag) IsBoolFlag() bool { return true }

// BindFlags registers all flags and returns the populated FlagValues.
func BindFlags(fs *flag.FlagSet) *FlagValues {
	fv := &FlagValues{}

	fs.Var(&stringFlag{&fv.ConfigPath, &fv.ConfigPathSet}, "config", "JSON config file (created with defaults if missing)")

	fs.Var(&stringFlag{&fv.Device, &fv.DeviceSet}, "device", "mixer device (ALSA device or PulseAudio source)")
	fs.Var(&stringFlag{&fv.Control, &fv.ControlSet}, "control", "mixer control with a capture switch")
	fs.Var(&stringFlag{&fv.Mixer, &fv.MixerSet}, "mixer", "mixer backend (alsa or pulse)")
	fs.Var(&intFlag{&fv.UnmuteDelay, &fv.UnmuteDelaySet}, "unmute-delay", "delay before unmuting (ms)")

	fs.Var(&stringFlag{&fv.PushModifiers, &fv.PushModifiersSet}, "push-modifiers", "push-to-talk modifiers (e.g. mod3)")
	fs.Var(&intFlag{&fv.PushKeycode, &fv.PushKeycodeSet}, "push-keycode", "push-to-talk keycode")
	fs.Var(&stringFlag{&fv.PushKeysym, &fv.PushKeysymSet}, "push-keysym", "push-to-talk keysym name (e.g. Shift_R)")
	fs.Var(&stringFlag{&fv.ToggleModifiers, &fv.ToggleModifiersSet}, "toggle-modifiers", "toggle modifiers (e.g. mod3+control)")
	fs.Var(&intFlag{&fv.ToggleKeycode, &fv.ToggleKeycodeSet}, "toggle-keycode", "toggle keycode (0 disables)")
	fs.Var(&stringFlag{&fv.ToggleKeysym, &fv.ToggleKeysymSet}, "toggle-keysym", "toggle keysym name")

	fs.Var(&boolFlag{&fv.Notification, &fv.NotificationSet}, "notification", "enable desktop notifications (true/false)")
	fs.Var(&boolFlag{&fv.Tray, &fv.TraySet}, "tray", "show the microphone state in the system tray (true/false)")
	fs.Var(&stringFlag{&fv.Display, &fv.DisplaySet}, "display", "X display (defaults to $DISPLAY)")

	return fv
}

// ApplyFlags applies present flags to the config. A keycode and a keysym
// for the same hotkey are mutually exclusive; whichever is set replaces the
// other from the config file.
func ApplyFlags(cfg *Config, fv *FlagValues) error {
	if fv.PushKeycodeSet && fv.PushKeysymSet {
		return errors.New("-push-keycode and -push-keysym are mutually exclusive")
	}
	if fv.ToggleKeycodeSet && fv.ToggleKeysymSet {
		return errors.New("-toggle-keycode and -toggle-keysym are mutually exclusive")
	}

	if fv.DeviceSet {
		cfg.Device = fv.Device
	}
	if fv.ControlSet {
		cfg.Control = fv.Control
	}
	if fv.MixerSet {
		cfg.Mixer = fv.Mixer
	}
	if fv.UnmuteDelaySet {
		cfg.UnmuteDelayMs = fv.UnmuteDelay
	}

	if fv.PushModifiersSet {
		cfg.PushModifiers = fv.PushModifiers
	}
	if fv.PushKeycodeSet {
		cfg.PushKeycode = fv.PushKeycode
		cfg.PushKeysym = ""
	}
	if fv.PushKeysymSet {
		cfg.PushKeysym = fv.PushKeysym
		cfg.PushKeycode = 0
	}
	if fv.ToggleModifiersSet {
		cfg.ToggleModifiers = fv.ToggleModifiers
	}
	if fv.ToggleKeycodeSet {
		cfg.ToggleKeycode = fv.ToggleKeycode
		cfg.ToggleKeysym = ""
	}
	if fv.ToggleKeysymSet {
		cfg.ToggleKeysym = fv.ToggleKeysym
		cfg.ToggleKeycode = 0
	}

	if fv.NotificationSet {
		cfg.UseNotifications = fv.Notification
	}
	if fv.TraySet {
		cfg.UseTray = fv.Tray
	}
	if fv.DisplaySet {
		cfg.Display = fv.Display
	}
	return nil
}

// AnySet reports whether any flag was explicitly set by the user.
func (fv *FlagValues) AnySet() bool {
	return fv.ConfigPathSet ||
		fv.DeviceSet ||
		fv.ControlSet ||
		fv.MixerSet ||
		fv.UnmuteDelaySet ||
		fv.PushModifiersSet ||
		fv.PushKeycodeSet ||
		fv.PushKeysymSet ||
		fv.ToggleModifiersSet ||
		fv.ToggleKeycodeSet ||
		fv.ToggleKeysymSet ||
		fv.NotificationSet ||
		fv.TraySet ||
		fv.DisplaySet
}

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/TanaroSch/push-to-talk/internal/capture"
	"github.com/TanaroSch/push-to-talk/internal/hotkey"
)

// Config holds the application configuration
type Config struct {
	// ALSA device name, or PulseAudio source name for the pulse mixer.
	Device  string `json:"device"`
	Control string `json:"control"`
	// Mixer selects the mixer backend: "alsa" or "pulse".
	Mixer         string `json:"mixer"`
	UnmuteDelayMs int    `json:"unmute_delay_ms"`

	PushModifiers string `json:"push_modifiers"`
	PushKeycode   int    `json:"push_keycode"`
	PushKeysym    string `json:"push_keysym,omitempty"`

	// A toggle keycode of 0 without a keysym disables the toggle hotkey.
	ToggleModifiers string `json:"toggle_modifiers"`
	ToggleKeycode   int    `json:"toggle_keycode"`
	ToggleKeysym    string `json:"toggle_keysym,omitempty"`

	UseNotifications bool   `json:"use_notifications"`
	UseTray          bool   `json:"use_tray"`
	Display          string `json:"display,omitempty"`

	// Non-JSON fields (runtime state)
	configPath string
}

// Default returns the built-in configuration: push on mod3 + keycode 62
// (Right Shift on most layouts), toggle on control + mod3 + the same key.
func Default() *Config {
	return &Config{
		Device:          "default",
		Control:         "Capture",
		Mixer:           "alsa",
		UnmuteDelayMs:   int(capture.DefaultUnmuteDelay / time.Millisecond),
		PushModifiers:   "mod3",
		PushKeycode:     62,
		ToggleModifiers: "mod3+control",
		ToggleKeycode:   62,
	}
}

// GetConfigPath returns the path to the configuration file
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// Load reads a JSON config file on top of the defaults. Keys missing from
// the file keep their default value. A missing file is created with the
// defaults.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
		}
		log.Printf("Config file '%s' not found. Attempting to create default.", configPath)
		if createErr := CreateDefaultConfig(configPath); createErr != nil {
			return nil, fmt.Errorf("config file not found and failed to create default '%s': %w", configPath, createErr)
		}
		cfg.configPath = configPath
		return cfg, nil
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", configPath, err)
	}
	cfg.configPath = configPath
	return cfg, nil
}

// Save writes the current configuration back to its file
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config has no file path")
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.configPath, data, 0644)
}

// CreateDefaultConfig creates a default configuration file if none exists
func CreateDefaultConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return nil // File exists, don't overwrite
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error checking config path '%s': %w", configPath, err)
	}

	log.Printf("Creating default configuration file at: %s", configPath)
	cfg := Default()
	cfg.configPath = configPath
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to write default config file '%s': %w", configPath, err)
	}
	return nil
}

// Validate checks every field that can be checked without a display or a
// sound card.
func (c *Config) Validate() error {
	if c.Device == "" {
		return errors.New("device must not be empty")
	}
	if c.Control == "" {
		return errors.New("control must not be empty")
	}
	if c.Mixer != "alsa" && c.Mixer != "pulse" {
		return fmt.Errorf("unknown mixer %q: expected alsa or pulse", c.Mixer)
	}
	if c.UnmuteDelayMs < 0 {
		return fmt.Errorf("unmute delay must not be negative, got %d", c.UnmuteDelayMs)
	}
	if _, err := c.PushSpec(); err != nil {
		return err
	}
	if _, err := c.ToggleSpec(); err != nil {
		return err
	}
	return nil
}

// UnmuteDelay returns the configured unmute delay.
func (c *Config) UnmuteDelay() time.Duration {
	return time.Duration(c.UnmuteDelayMs) * time.Millisecond
}

// PushSpec returns the push hotkey. The push hotkey cannot be disabled.
func (c *Config) PushSpec() (hotkey.Spec, error) {
	spec, err := buildSpec(hotkey.RolePush, c.PushModifiers, c.PushKeycode, c.PushKeysym)
	if err != nil {
		return spec, err
	}
	if spec.Disabled() {
		return spec, errors.New("push hotkey needs a keycode or keysym")
	}
	return spec, nil
}

// ToggleSpec returns the toggle hotkey, disabled when it names no key.
func (c *Config) ToggleSpec() (hotkey.Spec, error) {
	return buildSpec(hotkey.RoleToggle, c.ToggleModifiers, c.ToggleKeycode, c.ToggleKeysym)
}

func buildSpec(role hotkey.Role, modifiers string, keycode int, keysym string) (hotkey.Spec, error) {
	mods, err := hotkey.ParseModifiers(modifiers)
	if err != nil {
		return hotkey.Spec{}, fmt.Errorf("%s modifiers: %w", role, err)
	}
	if keycode < 0 || keycode > 255 {
		return hotkey.Spec{}, fmt.Errorf("%s keycode %d out of range 0..255", role, keycode)
	}
	spec := hotkey.Spec{Role: role, Modifiers: mods, Keysym: keysym}
	if keysym == "" {
		spec.Keycode = hotkey.Keycode(keycode)
	}
	return spec, nil
}

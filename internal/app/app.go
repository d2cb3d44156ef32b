package app

import (
	"fmt"
	"log"

	"github.com/TanaroSch/push-to-talk/internal/capture"
	"github.com/TanaroSch/push-to-talk/internal/config"
	"github.com/TanaroSch/push-to-talk/internal/hotkey"
	"github.com/TanaroSch/push-to-talk/internal/mixer"
	"github.com/TanaroSch/push-to-talk/internal/ui"
)

const appName = "Push to Talk"

// Tray shows the desired capture state while the application runs.
type Tray interface {
	// Run blocks until Quit; onStart runs once the tray is up.
	Run(onStart func())
	Quit()
	CaptureStateChanged(capturing bool, reason string)
}

// Application represents the main application
type Application struct {
	config        *config.Config
	version       string
	notifications *ui.NotificationManager

	detect     func() hotkey.DisplayServer
	newBackend func(display string) (hotkey.Backend, error)
	newOpener  func(backend string) (mixer.Opener, error)
	newTray    func() Tray
}

// New creates a new application instance
func New(cfg *config.Config, version string) *Application {
	a := &Application{
		config:        cfg,
		version:       version,
		notifications: ui.NewNotificationManager(cfg.UseNotifications, appName),
		detect:        hotkey.DetectDisplayServer,
		newBackend: func(display string) (hotkey.Backend, error) {
			return hotkey.NewX11Backend(display)
		},
		newOpener: mixer.NewOpener,
	}
	a.newTray = func() Tray {
		return ui.NewSystrayManager(appName, a.version, a.onTrayQuit)
	}
	return a
}

// Run grabs the hotkeys, starts the enforcer and interprets key events. It
// returns on a fatal error, or with nil when the tray's Quit item is used.
// With the tray enabled Run must be called from the main goroutine.
func (a *Application) Run() error {
	if err := a.config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	push, err := a.config.PushSpec()
	if err != nil {
		return err
	}
	toggle, err := a.config.ToggleSpec()
	if err != nil {
		return err
	}

	// An explicit display overrides what the environment says.
	if a.config.Display == "" {
		if err := hotkey.CheckDisplayServer(a.detect()); err != nil {
			return err
		}
	}
	backend, err := a.newBackend(a.config.Display)
	if err != nil {
		return err
	}
	defer backend.Close()
	log.Printf("Using hotkey backend: %s", backend.Name())

	opener, err := a.newOpener(a.config.Mixer)
	if err != nil {
		return err
	}
	log.Printf("Using %s mixer, device %q, control %q", opener.Name(), a.config.Device, a.config.Control)

	// Desired state starts muted.
	desired := capture.NewDesiredState()

	table, err := hotkey.Resolve(backend, push, toggle)
	if err != nil {
		return err
	}
	log.Printf("Push to talk: %s", describeSpec(push))
	if !toggle.Disabled() {
		log.Printf("Toggle: %s", describeSpec(toggle))
	}

	var tray Tray
	if a.config.UseTray {
		tray = a.newTray()
	}
	observer := func(capturing bool, reason string) {
		a.notifications.CaptureStateChanged(capturing, reason)
		if tray != nil {
			tray.CaptureStateChanged(capturing, reason)
		}
	}

	enforcer, err := capture.NewEnforcer(desired, opener, a.config.Device, a.config.Control)
	if err != nil {
		return err
	}
	go enforcer.Run()

	interpreter, err := capture.NewInterpreter(backend, table, desired, opener, a.config.Device, a.config.Control,
		capture.InterpreterOptions{
			UnmuteDelay: a.config.UnmuteDelay(),
			Observer:    observer,
		})
	if err != nil {
		return err
	}
	defer interpreter.Close()

	log.Printf("%s %s ready", appName, a.version)
	if tray == nil {
		return interpreter.Run()
	}
	return runWithTray(tray, backend, interpreter)
}

// runWithTray gives the calling goroutine to the tray and interprets events
// on another one. A fatal interpreter error closes the tray and is returned.
func runWithTray(tray Tray, backend hotkey.Backend, interpreter *capture.Interpreter) error {
	errCh := make(chan error, 1)
	tray.Run(func() {
		go func() {
			errCh <- interpreter.Run()
			tray.Quit()
		}()
	})

	select {
	case err := <-errCh:
		return err
	default:
	}

	// Quit from the menu. Closing the backend ends the interpreter's
	// blocked read; wait for it before the deferred cleanup runs.
	backend.Close()
	err := <-errCh
	log.Printf("Interpreter stopped: %v", err)
	return nil
}

func (a *Application) onTrayQuit() {
	log.Println("Quit requested from the tray, releasing hotkeys")
}

func describeSpec(s hotkey.Spec) string {
	if s.Keysym != "" {
		return fmt.Sprintf("%s+%s", s.Modifiers, s.Keysym)
	}
	return fmt.Sprintf("%s+keycode %d", s.Modifiers, s.Keycode)
}

package ui

import (
	"fmt"
	"log"
	"sync"

	"github.com/TanaroSch/push-to-talk/internal/resources"
	"github.com/getlantern/systray"
)

// SystrayManager handles the system tray icon and menu. The icon follows
// the desired capture state.
type SystrayManager struct {
	appName string
	version string
	onQuit  func()

	mu        sync.Mutex
	ready     bool
	capturing bool
	miStatus  *systray.MenuItem
}

// NewSystrayManager creates a new system tray manager
func NewSystrayManager(appName, version string, onQuit func()) *SystrayManager {
	return &SystrayManager{
		appName: appName,
		version: version,
		onQuit:  onQuit,
	}
}

// Run shows the tray and blocks until Quit is called. onStart runs once the
// tray is ready. Run must be called from the main goroutine.
func (s *SystrayManager) Run(onStart func()) {
	systray.Run(func() {
		s.onReady()
		if onStart != nil {
			onStart()
		}
	}, s.onExit)
}

// Quit removes the tray icon and makes Run return.
func (s *SystrayManager) Quit() {
	systray.Quit()
}

// CaptureStateChanged updates the icon and status line. Changes that
// arrive before the tray is ready are shown once it is.
func (s *SystrayManager) CaptureStateChanged(capturing bool, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.capturing = capturing
	if s.ready {
		s.show()
	}
}

// onReady is called by systray once the tray is ready.
func (s *SystrayManager) onReady() {
	systray.SetTitle(s.appName)

	miVersion := systray.AddMenuItem(fmt.Sprintf("Version: %s", s.version), s.appName+" version")
	miVersion.Disable()
	systray.AddSeparator()

	s.mu.Lock()
	s.miStatus = systray.AddMenuItem(trayStatus(s.capturing), "Current microphone state")
	s.miStatus.Disable()
	s.ready = true
	s.show()
	s.mu.Unlock()

	systray.AddSeparator()
	miQuit := systray.AddMenuItem("Quit", "Exit the application")

	go func() {
		<-miQuit.ClickedCh
		log.Println("Quit menu item clicked.")
		if s.onQuit != nil {
			s.onQuit()
		}
		systray.Quit()
	}()

	log.Println("Systray ready and menu configured.")
}

// onExit is called when the systray is exiting
func (s *SystrayManager) onExit() {
	log.Println("Systray exiting.")
}

// show must be called with s.mu held.
func (s *SystrayManager) show() {
	status := trayStatus(s.capturing)
	icon, err := resources.MicIcon(s.capturing)
	if err != nil {
		log.Printf("Warning: %v", err)
	} else {
		systray.SetIcon(icon)
	}
	systray.SetTooltip(s.appName + ": " + status)
	s.miStatus.SetTitle(status)
}

func trayStatus(capturing bool) string {
	if capturing {
		return "Microphone live"
	}
	return "Microphone muted"
}

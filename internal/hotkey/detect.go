package hotkey

import (
	"fmt"
	"log"
	"os"
)

// DisplayServer represents the type of display server in use
type DisplayServer int

const (
	DisplayServerUnknown DisplayServer = iota
	DisplayServerX11
	DisplayServerXWayland
	DisplayServerWayland
)

func (ds DisplayServer) String() string {
	switch ds {
	case DisplayServerX11:
		return "X11"
	case DisplayServerXWayland:
		return "XWayland"
	case DisplayServerWayland:
		return "Wayland"
	default:
		return "Unknown"
	}
}

// DetectDisplayServer determines which display server is currently in use
// from the environment.
func DetectDisplayServer() DisplayServer {
	return detectDisplayServer(os.Getenv)
}

func detectDisplayServer(getenv func(string) string) DisplayServer {
	wayland := getenv("WAYLAND_DISPLAY") != ""
	x11 := getenv("DISPLAY") != ""

	switch {
	case wayland && x11:
		return DisplayServerXWayland
	case wayland:
		return DisplayServerWayland
	case x11:
		return DisplayServerX11
	default:
		return DisplayServerUnknown
	}
}

// CheckDisplayServer returns an error if no X11 display is reachable. Under
// XWayland it only warns: grabs then see just the keys typed into X clients.
func CheckDisplayServer(ds DisplayServer) error {
	switch ds {
	case DisplayServerX11:
		log.Println("Detected display server: X11 (DISPLAY set)")
		return nil
	case DisplayServerXWayland:
		log.Println("Warning: Wayland session detected, hotkeys only fire while an XWayland window has focus")
		return nil
	case DisplayServerWayland:
		return fmt.Errorf("%w: Wayland without XWayland (DISPLAY not set)", ErrBackendNotAvailable)
	default:
		return fmt.Errorf("%w: no X11 display found (DISPLAY not set)", ErrBackendNotAvailable)
	}
}

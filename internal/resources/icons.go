package resources

import (
	_ "embed"
	"errors"
)

// ErrIconNotFound is returned when an embedded icon is empty.
var ErrIconNotFound = errors.New("embedded icon not found")

//go:embed mic_live.png
var liveIcon []byte

//go:embed mic_muted.png
var mutedIcon []byte

// MicIcon returns the tray icon for the given capture state.
func MicIcon(capturing bool) ([]byte, error) {
	data := mutedIcon
	if capturing {
		data = liveIcon
	}
	if len(data) == 0 {
		return nil, ErrIconNotFound
	}
	return data, nil
}

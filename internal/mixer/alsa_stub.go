//go:build !linux || !cgo

package mixer

// alsaOpener stub for builds without cgo or outside Linux.
type alsaOpener struct{}

func (alsaOpener) Name() string { return "alsa" }

func (alsaOpener) Open(device string) (Handle, error) {
	return nil, ErrBackendNotAvailable
}

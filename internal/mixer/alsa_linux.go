//go:build linux && cgo

package mixer

/*
#cgo pkg-config: alsa
#include <stdlib.h>
#include <alsa/asoundlib.h>
*/
import "C"

import (
	"fmt"
	"time"
	"unsafe"
)

type alsaOpener struct{}

func (alsaOpener) Name() string { return "alsa" }

func (alsaOpener) Open(device string) (Handle, error) {
	var h *C.snd_mixer_t
	if rc := C.snd_mixer_open(&h, 0); rc < 0 {
		return nil, alsaError("snd_mixer_open", rc)
	}

	cdev := C.CString(device)
	defer C.free(unsafe.Pointer(cdev))

	if rc := C.snd_mixer_attach(h, cdev); rc < 0 {
		C.snd_mixer_close(h)
		return nil, alsaError("snd_mixer_attach", rc)
	}
	if rc := C.snd_mixer_selem_register(h, nil, nil); rc < 0 {
		C.snd_mixer_close(h)
		return nil, alsaError("snd_mixer_selem_register", rc)
	}
	if rc := C.snd_mixer_load(h); rc < 0 {
		C.snd_mixer_close(h)
		return nil, alsaError("snd_mixer_load", rc)
	}

	return &alsaHandle{mixer: h, device: device}, nil
}

type alsaHandle struct {
	mixer  *C.snd_mixer_t
	device string
}

func (h *alsaHandle) Element(control string) (Element, error) {
	var sid *C.snd_mixer_selem_id_t
	if rc := C.snd_mixer_selem_id_malloc(&sid); rc < 0 {
		return nil, alsaError("snd_mixer_selem_id_malloc", rc)
	}
	defer C.snd_mixer_selem_id_free(sid)

	cname := C.CString(control)
	defer C.free(unsafe.Pointer(cname))

	C.snd_mixer_selem_id_set_index(sid, 0)
	C.snd_mixer_selem_id_set_name(sid, cname)

	elem := C.snd_mixer_find_selem(h.mixer, sid)
	if elem == nil {
		return nil, fmt.Errorf("%w: could not find simple control %q on %q", ErrControlNotFound, control, h.device)
	}
	if C.snd_mixer_selem_has_capture_switch(elem) == 0 {
		return nil, fmt.Errorf("%w: control %q", ErrNoCaptureSwitch, control)
	}
	return &alsaElement{elem: elem}, nil
}

func (h *alsaHandle) Wait(timeout time.Duration) error {
	ms := C.int(-1)
	if timeout >= 0 {
		ms = C.int(timeout.Milliseconds())
	}
	if rc := C.snd_mixer_wait(h.mixer, ms); rc < 0 {
		return fmt.Errorf("%w: %v", ErrStale, alsaError("snd_mixer_wait", rc))
	}
	return nil
}

func (h *alsaHandle) Drain() error {
	if rc := C.snd_mixer_handle_events(h.mixer); rc < 0 {
		return fmt.Errorf("%w: %v", ErrStale, alsaError("snd_mixer_handle_events", rc))
	}
	return nil
}

func (h *alsaHandle) Close() error {
	if h.mixer == nil {
		return nil
	}
	rc := C.snd_mixer_close(h.mixer)
	h.mixer = nil
	if rc < 0 {
		return alsaError("snd_mixer_close", rc)
	}
	return nil
}

type alsaElement struct {
	elem *C.snd_mixer_elem_t
}

func (e *alsaElement) Channels() []Channel {
	var out []Channel
	for ch := C.SND_MIXER_SCHN_FRONT_LEFT; ch <= C.SND_MIXER_SCHN_LAST; ch++ {
		if C.snd_mixer_selem_has_capture_channel(e.elem, C.snd_mixer_selem_channel_id_t(ch)) != 0 {
			out = append(out, Channel(ch))
		}
	}
	if len(out) == 0 {
		out = append(out, Channel(C.SND_MIXER_SCHN_MONO))
	}
	return out
}

func (e *alsaElement) CaptureSwitch(ch Channel) (bool, error) {
	var v C.int
	if rc := C.snd_mixer_selem_get_capture_switch(e.elem, C.snd_mixer_selem_channel_id_t(ch), &v); rc < 0 {
		return false, alsaError("snd_mixer_selem_get_capture_switch", rc)
	}
	return v != 0, nil
}

func (e *alsaElement) SetCaptureSwitch(ch Channel, on bool) error {
	v := C.int(0)
	if on {
		v = 1
	}
	if rc := C.snd_mixer_selem_set_capture_switch(e.elem, C.snd_mixer_selem_channel_id_t(ch), v); rc < 0 {
		return alsaError("snd_mixer_selem_set_capture_switch", rc)
	}
	return nil
}

func alsaError(op string, rc C.int) error {
	return fmt.Errorf("%s: %s", op, C.GoString(C.snd_strerror(rc)))
}

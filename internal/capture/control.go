package capture

import (
	"errors"
	"fmt"
	"log"

	"github.com/TanaroSch/push-to-talk/internal/mixer"
)

// control is one component's own handle on the capture control. The
// element is looked up again on every use because a stale handle can
// invalidate it.
type control struct {
	owner  string
	opener mixer.Opener
	device string
	name   string
	handle mixer.Handle
}

func openControl(owner string, opener mixer.Opener, device, name string) (*control, error) {
	h, _, err := mixer.OpenElement(opener, device, name)
	if err != nil {
		return nil, err
	}
	return &control{owner: owner, opener: opener, device: device, name: name, handle: h}, nil
}

func (c *control) element() (mixer.Element, error) {
	if c.handle == nil {
		if err := c.reopen(); err != nil {
			return nil, err
		}
	}
	return c.handle.Element(c.name)
}

// reopen closes the current handle, if any, and opens a fresh one.
func (c *control) reopen() error {
	c.close()
	h, _, err := mixer.OpenElement(c.opener, c.device, c.name)
	if err != nil {
		return err
	}
	c.handle = h
	log.Printf("%s: reopened %s mixer %q", c.owner, c.opener.Name(), c.device)
	return nil
}

func (c *control) close() {
	if c.handle == nil {
		return
	}
	if err := c.handle.Close(); err != nil {
		log.Printf("%s: error closing mixer handle: %v", c.owner, err)
	}
	c.handle = nil
}

// drain handles pending notifications; a stale handle is dropped so the
// next use reopens it.
func (c *control) drain() error {
	if c.handle == nil {
		return nil
	}
	err := c.handle.Drain()
	if errors.Is(err, mixer.ErrStale) {
		c.close()
	}
	return err
}

// set writes on to every channel.
func (c *control) set(on bool) error {
	el, err := c.element()
	if err != nil {
		return err
	}
	if err := mixer.SetAll(el, on); err != nil {
		return fmt.Errorf("set capture switch %s: %w", describe(on), err)
	}
	return nil
}

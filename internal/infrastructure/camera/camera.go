package camera

import (
	"context"
	"image"
)

// Device acquires a live camera feed. Implementations wrap whatever the host
// platform exposes (a media-device bridge, a test fake).
type Device interface {
	Open(ctx context.Context) (Feed, error)
}

// Feed is an owned camera resource. Stop MUST release the underlying tracks;
// a feed left running keeps the hardware indicator on and the device locked.
type Feed interface {
	// Frame returns the current live frame.
	Frame() (image.Image, error)
	// Resolution reports the feed's native size, or (0, 0) when unknown.
	Resolution() (width, height int)
	// Stop releases the feed. It must be safe to call more than once.
	Stop()
}

// Hooks receives the UI side effects of session transitions: the modal and
// the page scroll lock belong to the external UI collaborator, not to the
// session itself.
type Hooks interface {
	// ModalOpened fires entering Opening: modal shown, live view visible,
	// accept control disabled, page scroll locked.
	ModalOpened()
	// FrameFrozen fires entering Frozen: frozen frame shown, live view
	// hidden, accept control enabled.
	FrameFrozen()
	// ModalClosed fires entering Closed: modal hidden, scroll lock released.
	ModalClosed()
}

// NopHooks is for sessions with no UI attached.
type NopHooks struct{}

func (NopHooks) ModalOpened() {}
func (NopHooks) FrameFrozen() {}
func (NopHooks) ModalClosed() {}

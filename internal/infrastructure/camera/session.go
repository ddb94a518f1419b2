package camera

import (
	"context"
	"fmt"
	"sync"

	"github.com/maintdesk/ticket-intake/internal/infrastructure"
	"github.com/maintdesk/ticket-intake/pkg/logger"
	"github.com/maintdesk/ticket-intake/pkg/types/errs"
)

// Fallback when the feed does not report its native resolution.
const (
	_defaultFrameWidth  = 1280
	_defaultFrameHeight = 720
)

// Quality of the frozen-frame snapshot. High on purpose: the final
// compression happens on Accept.
const _snapshotQuality = 0.9

type State int

const (
	StateClosed State = iota
	StateOpening
	StateLive
	StateFrozen
)

// Session drives the capture modal: Closed -> Opening -> Live -> Frozen ->
// (Accepted | Closed). The feed handle is non-nil exactly while the modal is
// open, and every path to Closed releases it.
type Session struct {
	device Device
	codec  infrastructure.PhotoCodec
	hooks  Hooks
	logger logger.Interface

	acceptMaxDim  int
	acceptQuality float64

	mu    sync.Mutex
	state State
	feed  Feed
	shot  string // frozen frame as a data URL, empty before first capture
}

func NewSession(
	device Device,
	codec infrastructure.PhotoCodec,
	hooks Hooks,
	l logger.Interface,
	acceptMaxDim int,
	acceptQuality float64,
) *Session {
	return &Session{
		device:        device,
		codec:         codec,
		hooks:         hooks,
		logger:        l,
		acceptMaxDim:  acceptMaxDim,
		acceptQuality: acceptQuality,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Open acquires the camera feed. The modal flips open immediately; on
// acquisition failure the session transitions straight back to Closed and
// the error is surfaced to the caller.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateClosed {
		return fmt.Errorf("camera - Session - Open: modal already open")
	}

	s.state = StateOpening
	s.shot = ""
	s.hooks.ModalOpened()

	feed, err := s.device.Open(ctx)
	if err != nil {
		s.closeLocked()

		return fmt.Errorf("camera - Session - Open - s.device.Open: %w", err)
	}

	s.feed = feed
	s.state = StateLive

	return nil
}

// Capture freezes the current live frame. Capturing again from Frozen
// replaces the previous frame; the feed stays open so the user can retake.
func (s *Session) Capture(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLive && s.state != StateFrozen {
		return fmt.Errorf("camera - Session - Capture: %w", errs.ErrCameraNotOpen)
	}

	frame, err := s.feed.Frame()
	if err != nil {
		return fmt.Errorf("camera - Session - Capture - s.feed.Frame: %w", err)
	}

	width, height := s.feed.Resolution()
	if width <= 0 || height <= 0 {
		width, height = _defaultFrameWidth, _defaultFrameHeight
	}

	shot, err := s.codec.SnapshotDataURL(ctx, frame, width, height, _snapshotQuality)
	if err != nil {
		return fmt.Errorf("camera - Session - Capture - s.codec.SnapshotDataURL: %w", err)
	}

	s.shot = shot
	s.state = StateFrozen
	s.hooks.FrameFrozen()

	return nil
}

// Accept compresses the frozen frame and returns it as the pending photo,
// closing the session. Codec failure is not allowed to block the user: the
// uncompressed snapshot is returned instead.
func (s *Session) Accept(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateFrozen || s.shot == "" {
		return "", fmt.Errorf("camera - Session - Accept: %w", errs.ErrNoCapturedFrame)
	}

	photo, err := s.codec.CompressDataURL(ctx, s.shot, s.acceptMaxDim, s.acceptQuality)
	if err != nil {
		s.logger.Warn("camera - Session - Accept - compression failed, using raw snapshot: %v", err)
		photo = s.shot
	}

	s.closeLocked()

	return photo, nil
}

// Close releases the camera resource and shuts the modal, whatever state the
// session is in.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeLocked()
}

func (s *Session) closeLocked() {
	if s.feed != nil {
		s.feed.Stop()
		s.feed = nil
	}

	if s.state != StateClosed {
		s.state = StateClosed
		s.hooks.ModalClosed()
	}
}

package ticket

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/maintdesk/ticket-intake/internal/dto"
	"github.com/maintdesk/ticket-intake/internal/entity"
	"github.com/maintdesk/ticket-intake/internal/infrastructure"
	"github.com/maintdesk/ticket-intake/internal/usecase"
	"github.com/maintdesk/ticket-intake/pkg/logger"
	"github.com/maintdesk/ticket-intake/pkg/types/errs"
)

// Session is the per-user intake context: the confirmed identity plus the
// single pending photo candidate for the next submission. It is constructed
// when the identity provider confirms a user and torn down on sign-out.
type Session struct {
	user  entity.User
	uc    usecase.TicketUseCase
	codec infrastructure.PhotoCodec

	photoMaxDim  int
	photoQuality float64

	logger logger.Interface

	mu      sync.Mutex
	pending string

	submitting atomic.Bool
}

func NewSession(
	user entity.User,
	uc usecase.TicketUseCase,
	codec infrastructure.PhotoCodec,
	l logger.Interface,
	photoMaxDim int,
	photoQuality float64,
) *Session {
	return &Session{
		user:         user,
		uc:           uc,
		codec:        codec,
		photoMaxDim:  photoMaxDim,
		photoQuality: photoQuality,
		logger:       l,
	}
}

func (s *Session) User() entity.User {
	return s.user
}

// AttachPhoto makes dataURL the pending photo, compressed for storage.
// Compression is best-effort: on codec failure the original encoding is kept
// so a bad image never blocks the user. Any previously pending photo is
// discarded.
func (s *Session) AttachPhoto(ctx context.Context, dataURL string) (string, error) {
	if dataURL == "" {
		s.RemovePhoto()
		return "", nil
	}

	photo, err := s.codec.CompressDataURL(ctx, dataURL, s.photoMaxDim, s.photoQuality)
	if err != nil {
		s.logger.Warn("ticket - Session - AttachPhoto - compression failed, keeping original: %v", err)
		photo = dataURL
	}

	s.mu.Lock()
	s.pending = photo
	s.mu.Unlock()

	return photo, nil
}

// AttachCapturedPhoto stores a frame accepted from a capture session, which
// arrives already compressed.
func (s *Session) AttachCapturedPhoto(dataURL string) {
	s.mu.Lock()
	s.pending = dataURL
	s.mu.Unlock()
}

func (s *Session) RemovePhoto() {
	s.mu.Lock()
	s.pending = ""
	s.mu.Unlock()
}

func (s *Session) PendingPhoto() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pending
}

// Submit runs the pipeline for this session's user and pending photo. The
// in-flight guard mirrors the disabled submit control: a second submission
// cannot start until the first settles, and the guard is restored on every
// exit path. On success the pending photo is cleared; on failure it is kept
// so the user can retry without re-selecting.
func (s *Session) Submit(ctx context.Context, form dto.Submission) (*usecase.SubmitResult, error) {
	if !s.submitting.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("ticket - Session - Submit: %w", errs.ErrSubmissionInFlight)
	}
	defer s.submitting.Store(false)

	res, err := s.uc.Submit(ctx, s.user, form, s.PendingPhoto())
	if err != nil {
		return nil, err
	}

	s.RemovePhoto()

	return res, nil
}

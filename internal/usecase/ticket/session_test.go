package ticket

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"

	"github.com/maintdesk/ticket-intake/internal/dto"
	"github.com/maintdesk/ticket-intake/internal/entity"
	"github.com/maintdesk/ticket-intake/internal/usecase"
	"github.com/maintdesk/ticket-intake/pkg/logger"
	"github.com/maintdesk/ticket-intake/pkg/types/errs"
)

type sessionCodec struct {
	compressed  string
	compressErr error
	calls       int
}

func (c *sessionCodec) CompressDataURL(_ context.Context, dataURL string, _ int, _ float64) (string, error) {
	c.calls++
	if c.compressErr != nil {
		return "", c.compressErr
	}
	if c.compressed != "" {
		return c.compressed, nil
	}
	return dataURL, nil
}

func (c *sessionCodec) SnapshotDataURL(_ context.Context, _ image.Image, _, _ int, _ float64) (string, error) {
	return "", errors.New("not used")
}

// fakeUC lets a test hold a submission open or fail it on demand.
type fakeUC struct {
	mu      sync.Mutex
	err     error
	block   chan struct{} // when non-nil, Submit waits on it
	photos  []string      // pendingPhoto per call
	submits int
}

func (u *fakeUC) Submit(ctx context.Context, user entity.User, form dto.Submission, pendingPhoto string) (*usecase.SubmitResult, error) {
	u.mu.Lock()
	u.submits++
	u.photos = append(u.photos, pendingPhoto)
	block := u.block
	err := u.err
	u.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	return &usecase.SubmitResult{Ticket: &entity.Ticket{}}, nil
}

func (u *fakeUC) ListByOwner(ctx context.Context, ownerUID string) ([]*entity.Ticket, error) {
	return nil, nil
}
func (u *fakeUC) GetPendingEvents(ctx context.Context, maxRetries, limit int) ([]*entity.OutboxEvent, error) {
	return nil, nil
}
func (u *fakeUC) MarkAsProcessingBatch(ctx context.Context, events []*entity.OutboxEvent) error {
	return nil
}
func (u *fakeUC) MarkAsProcessedBatch(ctx context.Context, events []*entity.OutboxEvent) error {
	return nil
}
func (u *fakeUC) IncrementRetryCountBatch(ctx context.Context, events []*entity.OutboxEvent) error {
	return nil
}
func (u *fakeUC) MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error { return nil }
func (u *fakeUC) CleanupOutbox(ctx context.Context) error                          { return nil }

func newSession(uc usecase.TicketUseCase, codec *sessionCodec) *Session {
	return NewSession(testUser, uc, codec, logger.New("error"), 900, 0.5)
}

func TestSession_AttachPhotoCompresses(t *testing.T) {
	codec := &sessionCodec{compressed: "data:image/jpeg;base64,small"}
	s := newSession(&fakeUC{}, codec)

	photo, err := s.AttachPhoto(context.Background(), "data:image/jpeg;base64,big")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if photo != "data:image/jpeg;base64,small" {
		t.Errorf("expected compressed photo, got %q", photo)
	}
	if s.PendingPhoto() != photo {
		t.Error("pending photo must hold the compressed form")
	}
	if codec.calls != 1 {
		t.Errorf("expected one codec call, got %d", codec.calls)
	}
}

func TestSession_AttachPhotoKeepsOriginalOnCodecFailure(t *testing.T) {
	codec := &sessionCodec{compressErr: errors.New("bad image")}
	s := newSession(&fakeUC{}, codec)

	original := "data:image/jpeg;base64,original"
	photo, err := s.AttachPhoto(context.Background(), original)
	if err != nil {
		t.Fatalf("compression failure must not surface: %v", err)
	}
	if photo != original {
		t.Errorf("expected original kept, got %q", photo)
	}
}

func TestSession_AttachEmptyClearsPending(t *testing.T) {
	s := newSession(&fakeUC{}, &sessionCodec{})

	if _, err := s.AttachPhoto(context.Background(), "data:image/jpeg;base64,x"); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if _, err := s.AttachPhoto(context.Background(), ""); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if s.PendingPhoto() != "" {
		t.Error("expected pending photo cleared")
	}
}

func TestSession_SubmitClearsPendingOnSuccess(t *testing.T) {
	uc := &fakeUC{}
	s := newSession(uc, &sessionCodec{})
	s.AttachCapturedPhoto("data:image/jpeg;base64,shot")

	if _, err := s.Submit(context.Background(), validForm()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if s.PendingPhoto() != "" {
		t.Error("expected pending photo cleared after success")
	}
	if len(uc.photos) != 1 || uc.photos[0] != "data:image/jpeg;base64,shot" {
		t.Errorf("expected the pending photo passed through, got %v", uc.photos)
	}
}

func TestSession_SubmitKeepsPendingOnFailure(t *testing.T) {
	uc := &fakeUC{err: errors.New("db down")}
	s := newSession(uc, &sessionCodec{})
	s.AttachCapturedPhoto("data:image/jpeg;base64,shot")

	if _, err := s.Submit(context.Background(), validForm()); err == nil {
		t.Fatal("expected error")
	}
	if s.PendingPhoto() == "" {
		t.Error("pending photo must survive a failed submission for retry")
	}

	// the guard is restored: a retry goes through
	uc.mu.Lock()
	uc.err = nil
	uc.mu.Unlock()
	if _, err := s.Submit(context.Background(), validForm()); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestSession_SecondSubmitWhileInFlight(t *testing.T) {
	uc := &fakeUC{block: make(chan struct{})}
	s := newSession(uc, &sessionCodec{})

	firstDone := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), validForm())
		firstDone <- err
	}()

	// wait until the first submission is inside the use case
	for {
		uc.mu.Lock()
		started := uc.submits > 0
		uc.mu.Unlock()
		if started {
			break
		}
	}

	_, err := s.Submit(context.Background(), validForm())
	if !errors.Is(err, errs.ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
	}

	close(uc.block)
	if err := <-firstDone; err != nil {
		t.Fatalf("first submission: %v", err)
	}
}

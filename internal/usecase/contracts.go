package usecase

import (
	"context"

	"github.com/maintdesk/ticket-intake/internal/dto"
	"github.com/maintdesk/ticket-intake/internal/entity"
)

// SubmitResult is what a successful submission reports back to the UI
// collaborator. PhotoDropped is set when the inline fallback exceeded the
// size cap and the ticket was created without its photo.
type SubmitResult struct {
	Ticket       *entity.Ticket
	PhotoDropped bool
}

type (
	TicketUseCase interface {
		Submit(ctx context.Context, user entity.User, form dto.Submission, pendingPhoto string) (*SubmitResult, error)
		ListByOwner(ctx context.Context, ownerUID string) ([]*entity.Ticket, error)

		GetPendingEvents(ctx context.Context, maxRetries, limit int) ([]*entity.OutboxEvent, error)
		MarkAsProcessingBatch(ctx context.Context, events []*entity.OutboxEvent) error
		MarkAsProcessedBatch(ctx context.Context, events []*entity.OutboxEvent) error
		IncrementRetryCountBatch(ctx context.Context, events []*entity.OutboxEvent) error
		MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error
		CleanupOutbox(ctx context.Context) error
	}

	// Subscription is a live handle on one user's ticket set. Updates carries
	// full result sets; a value on Err means the stream broke and the view
	// should freeze at its last good state.
	Subscription interface {
		Updates() <-chan []*entity.Ticket
		Err() <-chan error
		Close()
	}

	LiveFeedUseCase interface {
		Subscribe(ctx context.Context, ownerUID string) (Subscription, error)
		Render(tickets []*entity.Ticket) string
	}
)

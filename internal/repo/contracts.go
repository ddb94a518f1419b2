package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/maintdesk/ticket-intake/internal/entity"
)

type (
	// PhotoRepo is the object-store side of photo persistence.
	PhotoRepo interface {
		Upload(ctx context.Context, key string, data []byte, contentType string) error
		RetrievableURL(ctx context.Context, key string) (string, error)
	}

	// TicketRepo persists ticket records. The store assigns creation
	// timestamps; this client never updates or deletes records.
	TicketRepo interface {
		Create(ctx context.Context, ticket *entity.Ticket) error
		ListByOwner(ctx context.Context, ownerUID string) ([]*entity.Ticket, error)
	}

	OutboxTicketRepo interface {
		Create(ctx context.Context, event *entity.OutboxEvent) error
		GetPendingEvents(ctx context.Context, maxRetries, limit int) ([]*entity.OutboxEvent, error)
		MarkAsProcessingBatch(ctx context.Context, IDs uuid.UUIDs) error
		MarkAsProcessedBatch(ctx context.Context, IDs uuid.UUIDs) error
		IncrementRetryCountBatch(ctx context.Context, IDs uuid.UUIDs) error
		MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error
		DeleteOldProcessedAndFailed(ctx context.Context) (int64, error)
	}

	Transactor interface {
		WithinTransaction(ctx context.Context, f func(ctx context.Context) error) error
	}
)

package infrastructure

import (
	"context"
	"image"

	"github.com/maintdesk/ticket-intake/internal/entity"
)

type (
	EventsSender interface {
		SendEvents(ctx context.Context, events []*entity.OutboxEvent) error
		Close() error
	}

	// PhotoCodec is the compression boundary of the intake pipeline.
	// Compression is best-effort: callers fall back to the uncompressed
	// encoding when a call fails.
	PhotoCodec interface {
		CompressDataURL(ctx context.Context, dataURL string, maxDim int, quality float64) (string, error)
		SnapshotDataURL(ctx context.Context, frame image.Image, width, height int, quality float64) (string, error)
	}

	// ChangeNotifier wakes live subscriptions of a single user.
	ChangeNotifier interface {
		Notify(ownerUID string)
	}
)

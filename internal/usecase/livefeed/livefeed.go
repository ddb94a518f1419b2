package livefeed

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/maintdesk/ticket-intake/internal/entity"
	"github.com/maintdesk/ticket-intake/internal/repo"
	"github.com/maintdesk/ticket-intake/internal/usecase"
	"github.com/maintdesk/ticket-intake/pkg/logger"
)

// Notifier delivers per-user change notices; each notice means "re-query the
// full result set".
type Notifier interface {
	Subscribe(ownerUID string) (<-chan struct{}, func())
}

type UseCase struct {
	ticketRepo repo.TicketRepo
	notifier   Notifier

	logger logger.Interface
}

func New(ticketRepo repo.TicketRepo, notifier Notifier, l logger.Interface) *UseCase {
	return &UseCase{
		ticketRepo: ticketRepo,
		notifier:   notifier,
		logger:     l,
	}
}

// Subscribe opens a live view on ownerUID's tickets. The first result set is
// delivered unconditionally; after that, every change notice triggers a
// re-query. A failed re-query breaks the stream: the error is delivered once
// and the subscription stops updating.
func (uc *UseCase) Subscribe(ctx context.Context, ownerUID string) (usecase.Subscription, error) {
	snapshot, err := uc.query(ctx, ownerUID)
	if err != nil {
		return nil, fmt.Errorf("LiveFeedUseCase - Subscribe: %w", err)
	}

	notices, unsubscribe := uc.notifier.Subscribe(ownerUID)

	ctx, cancel := context.WithCancel(ctx)

	sub := &subscription{
		updates: make(chan []*entity.Ticket, 1),
		errc:    make(chan error, 1),
		cancel:  cancel,
	}

	go func() {
		defer unsubscribe()
		defer close(sub.updates)

		if !sub.push(ctx, snapshot) {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-notices:
				set, err := uc.query(ctx, ownerUID)
				if err != nil {
					uc.logger.Error(err, "LiveFeedUseCase - Subscribe - re-query failed")
					sub.errc <- err

					return
				}

				if !sub.push(ctx, set) {
					return
				}
			}
		}
	}()

	return sub, nil
}

func (uc *UseCase) query(ctx context.Context, ownerUID string) ([]*entity.Ticket, error) {
	tickets, err := uc.ticketRepo.ListByOwner(ctx, ownerUID)
	if err != nil {
		return nil, fmt.Errorf("uc.ticketRepo.ListByOwner: %w", err)
	}

	sortByCreation(tickets)

	return tickets, nil
}

// sortByCreation orders ascending by server timestamp. Records the server
// has not acknowledged yet have no timestamp and sort first, as time zero.
func sortByCreation(tickets []*entity.Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		return creationTime(tickets[i]).Before(creationTime(tickets[j]))
	})
}

func creationTime(t *entity.Ticket) time.Time {
	if t.CreatedAt == nil {
		return time.Time{}
	}
	return *t.CreatedAt
}

type subscription struct {
	updates chan []*entity.Ticket
	errc    chan error
	cancel  context.CancelFunc
}

func (s *subscription) push(ctx context.Context, set []*entity.Ticket) bool {
	// Coalesce: a stale unread set is replaced by the newer one.
	select {
	case <-s.updates:
	default:
	}

	select {
	case s.updates <- set:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *subscription) Updates() <-chan []*entity.Ticket {
	return s.updates
}

func (s *subscription) Err() <-chan error {
	return s.errc
}

func (s *subscription) Close() {
	s.cancel()
}

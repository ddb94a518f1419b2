package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/maintdesk/ticket-intake/internal/infrastructure"
	kafkapc "github.com/maintdesk/ticket-intake/internal/infrastructure/kafka"
	"github.com/maintdesk/ticket-intake/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// FeedController consumes ticket events and wakes the live-feed
// subscriptions of the ticket owner. Subscriptions requery on wake-up,
// so a lost or duplicated event never corrupts the feed.
type FeedController struct {
	notifier infrastructure.ChangeNotifier
	ec       *kafkapc.EventConsumer
	logger   logger.Interface

	commitTimeout  time.Duration
	processTimeout time.Duration

	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	started atomic.Bool
}

func New(
	notifier infrastructure.ChangeNotifier,
	ec *kafkapc.EventConsumer,
	l logger.Interface,
	commitTimeout time.Duration,
	processTimeout time.Duration,
	workers int,
) *FeedController {
	return &FeedController{
		notifier:       notifier,
		ec:             ec,
		logger:         l,
		commitTimeout:  commitTimeout,
		processTimeout: processTimeout,
		workers:        workers,
	}
}

func (c *FeedController) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return fmt.Errorf("FeedController - Start - controller already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)

	tasks := make(chan kafka.Message, c.workers*2)

	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker(tasks)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(tasks)

		for {
			select {
			case <-c.ctx.Done():
				return
			default:
				event, err := c.ec.ReadEvent(c.ctx)
				if err != nil {
					if !errors.Is(err, context.Canceled) {
						c.logger.Error(err, "FeedController - Start - c.ec.ReadEvent")
					}
					continue
				}

				select {
				case tasks <- event:
				case <-c.ctx.Done():
					return
				}
			}
		}
	}()

	return nil
}

func (c *FeedController) processEvent(_ context.Context, event kafka.Message) error {
	var payload TicketEventPayload
	err := json.Unmarshal(event.Value, &payload)
	if err != nil {
		return fmt.Errorf("FeedController - processEvent - json.Unmarshal: %w", err)
	}

	if payload.OwnerUID == "" {
		return fmt.Errorf("FeedController - processEvent - event %s has no owner", payload.ID)
	}

	c.notifier.Notify(payload.OwnerUID)

	return nil
}

func (c *FeedController) worker(tasks <-chan kafka.Message) {
	defer c.wg.Done()

	for event := range tasks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error(fmt.Errorf("panic %v", r), "FeedController - worker - panic")
				}
			}()

			processCtx, processCancel := context.WithTimeout(c.ctx, c.processTimeout)
			err := c.processEvent(processCtx, event)
			processCancel()
			if err != nil {
				c.logger.Error(err, "FeedController - worker - c.processEvent")

				return
			}

			commitCtx, commitCancel := context.WithTimeout(c.ctx, c.commitTimeout)
			err = c.ec.CommitEvent(commitCtx, event)
			commitCancel()
			if err != nil {
				c.logger.Error(err, "FeedController - worker - c.ec.CommitEvent")
			}
		}()
	}
}

func (c *FeedController) Shutdown(ctx context.Context) error {
	if !c.started.Load() {
		return nil
	}

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})

	go func() {
		c.wg.Wait()
		c.ec.Close()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return nil
	}
}

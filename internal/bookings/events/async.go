package events

import (
	"context"
	"sync"
	"time"

	"roombook/pkg/logger"

	"github.com/cockroachdb/errors"
)

const (
	DefaultQueueSize      = 1024
	DefaultPublishTimeout = 5 * time.Second
)

var (
	ErrQueueFull       = errors.New("booking event queue is full")
	ErrPublisherClosed = errors.New("booking event publisher is closed")
)

type queuedEvent struct {
	ctx   context.Context
	event BookingEvent
}

// AsyncPublisher hands events to a single background worker so callers never
// wait on the broker. Events are delivered in the order they were queued.
type AsyncPublisher struct {
	next    Publisher
	timeout time.Duration
	log     *logger.Logger
	queue   chan queuedEvent

	mu      sync.Mutex
	cond    *sync.Cond
	pending int
	closed  bool
	done    chan struct{}
}

func NewAsyncPublisher(next Publisher, queueSize int, timeout time.Duration, log *logger.Logger) *AsyncPublisher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	p := &AsyncPublisher{
		next:    next,
		timeout: timeout,
		log:     log,
		queue:   make(chan queuedEvent, queueSize),
		done:    make(chan struct{}),
	}
	p.cond = sync.NewCond(&p.mu)

	go p.run()

	return p
}

// Publish queues the event without blocking. The request's values (request
// id) travel with it, its cancellation does not.
func (p *AsyncPublisher) Publish(ctx context.Context, event BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.queue <- queuedEvent{ctx: context.WithoutCancel(ctx), event: event}:
		p.pending++
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *AsyncPublisher) run() {
	defer close(p.done)

	for item := range p.queue {
		ctx, cancel := context.WithTimeout(item.ctx, p.timeout)
		if err := p.next.Publish(ctx, item.event); err != nil {
			p.log.Warn("Failed to publish booking event",
				"id", item.event.Booking.ID,
				"event_type", item.event.Type,
				"error", err,
			)
		}
		cancel()

		p.mu.Lock()
		p.pending--
		if p.pending == 0 {
			p.cond.Broadcast()
		}
		p.mu.Unlock()
	}
}

// Flush blocks until every queued event has been handed to the next publisher.
func (p *AsyncPublisher) Flush() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.pending > 0 {
		p.cond.Wait()
	}
}

// Close stops accepting events, drains the queue and closes the next publisher.
func (p *AsyncPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	return p.next.Close()
}

package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

const (
	defaultQueueSize      = 256
	defaultPublishTimeout = 5 * time.Second
)

// ErrQueueFull is returned when an event is dropped because the publish
// queue is saturated.
var ErrQueueFull = errors.New("event queue full")

// AsyncPublisher hands events to a single background worker so callers never
// wait on the broker. Events are delivered in the order they were queued.
type AsyncPublisher struct {
	next    Publisher
	logger  *slog.Logger
	timeout time.Duration

	queue chan TransactionEvent
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewAsyncPublisher starts the worker. queueSize <= 0 uses a default.
func NewAsyncPublisher(next Publisher, queueSize int, logger *slog.Logger) *AsyncPublisher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	p := &AsyncPublisher{
		next:    next,
		logger:  logger,
		timeout: defaultPublishTimeout,
		queue:   make(chan TransactionEvent, queueSize),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish queues the event and returns immediately.
func (p *AsyncPublisher) Publish(_ context.Context, event TransactionEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return errors.New("publisher closed")
	}

	select {
	case p.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for event := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		if err := p.next.Publish(ctx, event); err != nil {
			p.logger.Warn("Failed to publish transaction event",
				slog.String("type", event.Type),
				slog.String("reference_id", event.ReferenceID),
				slog.String("error", err.Error()))
		}
		cancel()
	}
}

// Close stops accepting events, drains the queue and closes the wrapped
// publisher.
func (p *AsyncPublisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	p.next.Close()
}

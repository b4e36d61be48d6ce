package queue

import (
	"context"
	"log/slog"
	"sync"

	"github.com/forumhub/webhook-notifier/internal/domain"
)

// Dispatcher fans one event out to its subscribers.
type Dispatcher interface {
	Dispatch(ctx context.Context, event domain.Event)
}

// Pool runs a fixed number of goroutines that dispatch queued events.
// Fan-out within one event is the dispatcher's concern; the pool gives
// concurrency across events.
type Pool struct {
	numWorkers int
	events     chan domain.Event
	dispatcher Dispatcher
	logger     *slog.Logger
	wg         sync.WaitGroup
}

func NewPool(numWorkers int, dispatcher Dispatcher, logger *slog.Logger) *Pool {
	return &Pool{
		numWorkers: numWorkers,
		events:     make(chan domain.Event, numWorkers*2),
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Start launches the worker goroutines. They drain the events channel
// until it is closed.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
	p.logger.Info("dispatch pool started", "num_workers", p.numWorkers)
}

// Submit hands an event to the pool.
func (p *Pool) Submit(event domain.Event) {
	p.events <- event
}

// Stop closes the events channel and waits for in-flight dispatches to
// complete, so no event ends up sent but unrecorded.
func (p *Pool) Stop() {
	close(p.events)
	p.wg.Wait()
	p.logger.Info("dispatch pool stopped")
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()

	for event := range p.events {
		p.dispatcher.Dispatch(ctx, event)
	}
}

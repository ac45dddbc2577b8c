package node

import (
	"context"
	"sync"

	"github.com/go-errors/errors"
)

// ErrUnknownEvent is returned when acknowledging an event that is not at the
// head of the queue.
var ErrUnknownEvent = errors.New("unknown event")

// EventQueue buffers node events until they are acknowledged. Next always
// returns the oldest unacknowledged event, so an event that was not
// acknowledged is handed out again.
type EventQueue interface {
	Push(event *Event) error
	Next(ctx context.Context) (*Event, error)
	Ack(seq uint64) error
}

// check MemoryQueue compliance to its interface during compile time
var _ EventQueue = (*MemoryQueue)(nil)

// MemoryQueue is an EventQueue that lives in memory only.
type MemoryQueue struct {
	mu      sync.Mutex
	events  []*Event
	nextSeq uint64
	signal  chan struct{}
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		nextSeq: 1,
		signal:  make(chan struct{}, 1),
	}
}

func (q *MemoryQueue) Push(event *Event) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	event.Seq = q.nextSeq
	q.nextSeq++
	q.events = append(q.events, event)

	// buffer of 1 coalesces multiple signals
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return nil
}

func (q *MemoryQueue) Next(ctx context.Context) (*Event, error) {
	for {
		q.mu.Lock()
		if len(q.events) > 0 {
			event := q.events[0]
			q.mu.Unlock()
			return event, nil
		}
		q.mu.Unlock()

		select {
		case <-q.signal:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (q *MemoryQueue) Ack(seq uint64) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 || q.events[0].Seq != seq {
		return ErrUnknownEvent
	}

	q.events[0] = nil
	q.events = q.events[1:]

	if len(q.events) == 0 {
		q.events = nil
	}

	return nil
}

// Len returns the number of unacknowledged events.
func (q *MemoryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.events)
}

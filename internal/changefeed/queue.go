package changefeed

import (
	"context"
	"sync"
)

// queue sits between a producer that must never block and a subscriber that
// reads at its own pace. It grows without bound; a subscriber that stops
// reading is expected to cancel its context.
type queue struct {
	mu      sync.Mutex
	pending []Message
	wake    chan struct{}
}

func newQueue() *queue {
	return &queue{wake: make(chan struct{}, 1)}
}

func (q *queue) push(msg Message) {
	q.mu.Lock()
	q.pending = append(q.pending, msg)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *queue) take() []Message {
	q.mu.Lock()
	defer q.mu.Unlock()

	batch := q.pending
	q.pending = nil
	return batch
}

// forward delivers queued messages to out in publish order and closes out
// once ctx is done.
func (q *queue) forward(ctx context.Context, out chan<- Message) {
	defer close(out)
	for {
		for _, msg := range q.take() {
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
		select {
		case <-q.wake:
		case <-ctx.Done():
			return
		}
	}
}

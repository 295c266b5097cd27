package changefeed

import (
	"context"
	"sync"

	"golang.org/x/exp/slog"
)

const subscriberBuffer = 256

type subscriber struct {
	filter Filter
	queue  *queue
	cancel context.CancelFunc
}

// Hub is the in-process Bus. Publish never blocks and never drops a change;
// every subscriber has its own queue.
type Hub struct {
	log *slog.Logger

	mu     sync.Mutex
	subs   map[int]*subscriber
	nextID int
	closed bool
}

// NewHub returns an open hub without subscribers.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:  log.With("component", "changefeed_hub"),
		subs: make(map[int]*subscriber),
	}
}

// Publish queues msg for every matching subscriber.
func (h *Hub) Publish(_ context.Context, msg Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}
	for _, sub := range h.subs {
		if sub.filter.Match(msg) {
			sub.queue.push(msg)
		}
	}
	return nil
}

// Subscribe streams matching messages until ctx is done or the hub is closed.
func (h *Hub) Subscribe(ctx context.Context, filter Filter) (<-chan Message, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrClosed
	}
	id := h.nextID
	h.nextID++
	subCtx, cancel := context.WithCancel(ctx)
	sub := &subscriber{filter: filter, queue: newQueue(), cancel: cancel}
	h.subs[id] = sub
	h.mu.Unlock()

	h.log.Debug("subscribed", "subscriber", id, "table", filter.Table)

	out := make(chan Message, subscriberBuffer)
	go sub.queue.forward(subCtx, out)
	go func() {
		<-subCtx.Done()
		h.unsubscribe(id)
	}()
	return out, nil
}

func (h *Hub) unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, id)
}

// Close ends every subscription.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	for _, sub := range h.subs {
		sub.cancel()
	}
	return nil
}

// Package watch delivers live change notifications from Postgres
// LISTEN/NOTIFY channels to in-process subscribers. Each subscriber owns a
// channel for the lifetime of its scope and must release it on teardown;
// consumers treat every event as "refetch the view", replacing local state
// wholesale rather than merging.
package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lib/pq"
)

const (
	minReconnectInterval = time.Second
	maxReconnectInterval = time.Minute

	// Slow subscribers drop events rather than block the fanout loop; a
	// dropped event only costs an extra refetch.
	subscriberBuffer = 8
)

// Event is a single change notification.
type Event struct {
	Channel string
	Payload string
}

// Watcher fans out notifications from one Postgres channel to any number
// of subscribers.
type Watcher struct {
	listener *pq.Listener
	logger   *slog.Logger

	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	closed bool
}

// New opens a LISTEN connection on the given channel.
func New(dsn, channel string, logger *slog.Logger) (*Watcher, error) {
	w := &Watcher{
		logger: logger,
		subs:   make(map[int]chan Event),
	}

	w.listener = pq.NewListener(dsn, minReconnectInterval, maxReconnectInterval, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.Warn("listener connection event", "event", int(ev), "error", err)
		}
	})
	if err := w.listener.Listen(channel); err != nil {
		w.listener.Close()
		return nil, err
	}
	return w, nil
}

// Run pumps notifications to subscribers until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	defer w.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-w.listener.Notify:
			if n == nil {
				// Connection re-established; subscribers refetch on the
				// next event anyway.
				continue
			}
			w.broadcast(Event{Channel: n.Channel, Payload: n.Extra})
		case <-time.After(90 * time.Second):
			if err := w.listener.Ping(); err != nil {
				w.logger.Warn("listener ping failed", "error", err)
			}
		}
	}
}

func (w *Watcher) broadcast(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for id, ch := range w.subs {
		select {
		case ch <- ev:
		default:
			w.logger.Debug("dropping event for slow subscriber", "subscriber", id)
		}
	}
}

// Subscribe registers a new subscriber. The returned cancel function MUST
// be called on consumer teardown so no events are delivered to a consumer
// that is gone.
func (w *Watcher) Subscribe() (<-chan Event, func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextID
	w.nextID++
	ch := make(chan Event, subscriberBuffer)
	if w.closed {
		close(ch)
		return ch, func() {}
	}
	w.subs[id] = ch

	cancel := func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if sub, ok := w.subs[id]; ok {
			delete(w.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Close shuts down the listener and all subscriber channels.
func (w *Watcher) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	for id, ch := range w.subs {
		delete(w.subs, id)
		close(ch)
	}
	w.mu.Unlock()

	if err := w.listener.Close(); err != nil {
		w.logger.Warn("closing listener", "error", err)
	}
}

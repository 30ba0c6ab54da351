package hub

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/boardsync/backend/domain"
)

// DefaultBuffer is the per-subscriber event queue depth.
const DefaultBuffer = 64

// Resolver verifies an identity token before a connection is admitted as an
// observer.
type Resolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// Event is one broadcast frame.
type Event struct {
	Name    string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Subscriber is a bound observer. Events arrive on its channel in broadcast
// order; the channel closes when the subscriber is unbound.
type Subscriber struct {
	id     string
	userID string
	ch     chan Event

	mu     sync.Mutex
	closed bool
}

func (s *Subscriber) Events() <-chan Event { return s.ch }
func (s *Subscriber) UserID() string       { return s.userID }

// send enqueues without blocking. Returns false when the buffer is full,
// signalling the hub to drop the subscriber.
func (s *Subscriber) send(event Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	select {
	case s.ch <- event:
		return true
	default:
		return false
	}
}

func (s *Subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

// Hub delivers every committed mutation event to all bound observers. It
// owns no board state: it is a fan-out relay plus the connection→identity
// bindings. Broadcast never blocks on a consumer, so commit latency never
// depends on delivery.
type Hub struct {
	resolver Resolver
	buffer   int
	logger   *zap.Logger

	mu   sync.RWMutex
	subs map[string]*Subscriber
}

func New(resolver Resolver, buffer int, logger *zap.Logger) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		resolver: resolver,
		buffer:   buffer,
		logger:   logger,
		subs:     make(map[string]*Subscriber),
	}
}

// Bind resolves the token and admits the connection as an observer. A token
// that does not resolve refuses the connection.
func (h *Hub) Bind(ctx context.Context, token string) (*Subscriber, error) {
	if h.resolver == nil {
		return nil, domain.ErrUnauthorized
	}
	userID, err := h.resolver.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	sub := &Subscriber{
		id:     uuid.NewString(),
		userID: userID,
		ch:     make(chan Event, h.buffer),
	}

	h.mu.Lock()
	h.subs[sub.id] = sub
	h.mu.Unlock()

	h.logger.Info("observer bound", zap.String("user_id", userID))
	return sub, nil
}

// Unbind removes a subscriber and closes its channel. Safe to call while a
// broadcast is in flight, and safe to call twice.
func (h *Hub) Unbind(sub *Subscriber) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	_, bound := h.subs[sub.id]
	delete(h.subs, sub.id)
	h.mu.Unlock()

	if bound {
		sub.close()
		h.logger.Info("observer unbound", zap.String("user_id", sub.userID))
	}
}

// Broadcast delivers the event to every bound observer. Order is guaranteed
// per observer, not across observers. Zero observers is a no-op. A
// subscriber whose buffer is full is dropped rather than awaited.
func (h *Hub) Broadcast(name string, payload interface{}) {
	event := Event{Name: name, Payload: payload}

	h.mu.RLock()
	subs := make([]*Subscriber, 0, len(h.subs))
	for _, sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	var dropped []*Subscriber
	for _, sub := range subs {
		if !sub.send(event) {
			dropped = append(dropped, sub)
		}
	}
	for _, sub := range dropped {
		h.logger.Warn("dropping slow observer", zap.String("user_id", sub.userID))
		h.Unbind(sub)
	}
}

// Count reports the number of bound observers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close unbinds every observer. Called on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := make([]*Subscriber, 0, len(h.subs))
	for _, sub := range h.subs {
		subs = append(subs, sub)
	}
	h.subs = make(map[string]*Subscriber)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
}

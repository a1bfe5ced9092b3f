package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// ===============================
// EVENT INTERFACE
// ===============================

// Event represents a domain event
type Event interface {
	GetEventID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetUserID() string
	GetMetadata() map[string]interface{}
}

// BaseEvent provides common event functionality
type BaseEvent struct {
	EventID   string                 `json:"event_id"`
	EventType string                 `json:"event_type"`
	Timestamp time.Time              `json:"timestamp"`
	UserID    string                 `json:"user_id,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewBaseEvent creates a BaseEvent with a fresh event ID and timestamp.
func NewBaseEvent(eventType, userID string) BaseEvent {
	id, _ := uuid.NewV4()
	return BaseEvent{
		EventID:   id.String(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		UserID:    userID,
	}
}

// GetEventID returns the event ID
func (e *BaseEvent) GetEventID() string { return e.EventID }

// GetEventType returns the event type
func (e *BaseEvent) GetEventType() string { return e.EventType }

// GetTimestamp returns the event timestamp
func (e *BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// GetUserID returns the user ID associated with the event
func (e *BaseEvent) GetUserID() string { return e.UserID }

// GetMetadata returns the event metadata
func (e *BaseEvent) GetMetadata() map[string]interface{} { return e.Metadata }

// ===============================
// EVENT BUS
// ===============================

// EventHandler represents an event handler
type EventHandler interface {
	Handle(ctx context.Context, event Event) error
	GetHandlerID() string
}

// EventHandlerFunc adapts a function to the EventHandler interface
type EventHandlerFunc struct {
	ID   string
	Func func(ctx context.Context, event Event) error
}

// Handle implements EventHandler
func (f EventHandlerFunc) Handle(ctx context.Context, event Event) error {
	return f.Func(ctx, event)
}

// GetHandlerID implements EventHandler
func (f EventHandlerFunc) GetHandlerID() string { return f.ID }

// EventBus defines the event publishing and subscription interface
type EventBus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType string, handler EventHandler)
	Stats() Stats
	Stop()
}

// Stats represents event bus statistics
type Stats struct {
	EventsPublished int64 `json:"events_published"`
	EventsProcessed int64 `json:"events_processed"`
	EventsFailed    int64 `json:"events_failed"`
	HandlersCount   int   `json:"handlers_count"`
}

// inMemoryEventBus delivers events to subscribers on a background worker.
// Delivery is best-effort: handler failures are logged and counted, never
// propagated to the publisher.
type inMemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
	queue    chan queuedEvent
	logger   *zap.Logger
	stats    Stats
	statsMu  sync.Mutex
	stopOnce sync.Once
	stopMu   sync.RWMutex
	stopped  bool
	wg       sync.WaitGroup
}

type queuedEvent struct {
	event Event
}

// NewInMemoryBus creates an in-process event bus with the given number of
// delivery workers.
func NewInMemoryBus(workers, bufferSize int, logger *zap.Logger) EventBus {
	if workers <= 0 {
		workers = 2
	}
	if bufferSize <= 0 {
		bufferSize = 256
	}

	bus := &inMemoryEventBus{
		handlers: make(map[string][]EventHandler),
		queue:    make(chan queuedEvent, bufferSize),
		logger:   logger,
	}

	bus.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go bus.worker()
	}

	return bus
}

// Publish enqueues an event for delivery. It returns an error only when the
// bus has stopped or the queue is full.
//
// The stop lock is held across the send so Stop cannot close the queue
// between the stopped check and the enqueue.
func (b *inMemoryEventBus) Publish(ctx context.Context, event Event) error {
	b.stopMu.RLock()
	defer b.stopMu.RUnlock()

	if b.stopped {
		return fmt.Errorf("event bus stopped")
	}

	select {
	case b.queue <- queuedEvent{event: event}:
		b.statsMu.Lock()
		b.stats.EventsPublished++
		b.statsMu.Unlock()
		return nil
	default:
		return fmt.Errorf("event queue full, dropping %s", event.GetEventType())
	}
}

// Subscribe registers a handler for an event type
func (b *inMemoryEventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Stats returns event bus statistics
func (b *inMemoryEventBus) Stats() Stats {
	b.statsMu.Lock()
	defer b.statsMu.Unlock()

	b.mu.RLock()
	handlers := 0
	for _, hs := range b.handlers {
		handlers += len(hs)
	}
	b.mu.RUnlock()

	stats := b.stats
	stats.HandlersCount = handlers
	return stats
}

// Stop drains the queue and stops the workers. Once the write lock is held
// no publisher can be mid-send, so closing the queue is safe.
func (b *inMemoryEventBus) Stop() {
	b.stopOnce.Do(func() {
		b.stopMu.Lock()
		b.stopped = true
		b.stopMu.Unlock()

		close(b.queue)
		b.wg.Wait()
	})
}

func (b *inMemoryEventBus) worker() {
	defer b.wg.Done()

	for msg := range b.queue {
		b.dispatch(msg.event)
	}
}

func (b *inMemoryEventBus) dispatch(event Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.handlers[event.GetEventType()]...)
	b.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, handler := range handlers {
		if err := handler.Handle(ctx, event); err != nil {
			b.statsMu.Lock()
			b.stats.EventsFailed++
			b.statsMu.Unlock()
			b.logger.Error("event handler failed",
				zap.String("event_type", event.GetEventType()),
				zap.String("event_id", event.GetEventID()),
				zap.String("handler", handler.GetHandlerID()),
				zap.Error(err),
			)
			continue
		}
		b.statsMu.Lock()
		b.stats.EventsProcessed++
		b.statsMu.Unlock()
	}
}

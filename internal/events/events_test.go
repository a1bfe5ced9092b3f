package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestBusDeliversToSubscriber(t *testing.T) {
	bus := NewInMemoryBus(2, 16, zap.NewNop())
	defer bus.Stop()

	var handled int64
	bus.Subscribe(EventPurchaseCompleted, EventHandlerFunc{
		ID: "test-handler",
		Func: func(ctx context.Context, event Event) error {
			atomic.AddInt64(&handled, 1)
			return nil
		},
	})

	event := NewPurchaseCompletedEvent("user-1", "course-1", "payment-1", 299000)
	require.NoError(t, bus.Publish(context.Background(), event))

	waitFor(t, func() bool { return atomic.LoadInt64(&handled) == 1 })
}

func TestBusIgnoresUnsubscribedTypes(t *testing.T) {
	bus := NewInMemoryBus(1, 16, zap.NewNop())
	defer bus.Stop()

	var handled int64
	bus.Subscribe(EventBadgeAwarded, EventHandlerFunc{
		ID: "badge-handler",
		Func: func(ctx context.Context, event Event) error {
			atomic.AddInt64(&handled, 1)
			return nil
		},
	})

	// Single worker drains in order, so once the badge event is handled the
	// earlier registration event has already been dispatched past it.
	require.NoError(t, bus.Publish(context.Background(), NewUserRegisteredEvent("user-1", "budi@example.com")))
	require.NoError(t, bus.Publish(context.Background(), NewBadgeAwardedEvent("user-1", "first_course")))

	waitFor(t, func() bool { return atomic.LoadInt64(&handled) == 1 })
	assert.Equal(t, int64(1), atomic.LoadInt64(&handled))
}

func TestBusCountsHandlerFailures(t *testing.T) {
	bus := NewInMemoryBus(1, 16, zap.NewNop())
	defer bus.Stop()

	bus.Subscribe(EventUserRegistered, EventHandlerFunc{
		ID: "failing-handler",
		Func: func(ctx context.Context, event Event) error {
			return errors.New("boom")
		},
	})

	require.NoError(t, bus.Publish(context.Background(), NewUserRegisteredEvent("user-1", "budi@example.com")))

	waitFor(t, func() bool { return bus.Stats().EventsFailed == 1 })
}

func TestStopDuringConcurrentPublish(t *testing.T) {
	// Publishers racing Stop either enqueue or get an error back; the send
	// must never land on a closed queue.
	bus := NewInMemoryBus(2, 4, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = bus.Publish(context.Background(), NewUserRegisteredEvent("user-1", "budi@example.com"))
			}
		}()
	}

	bus.Stop()
	wg.Wait()

	err := bus.Publish(context.Background(), NewUserRegisteredEvent("user-1", "budi@example.com"))
	assert.Error(t, err)
}

func TestPublishAfterStopFails(t *testing.T) {
	bus := NewInMemoryBus(1, 1, zap.NewNop())
	bus.Stop()

	err := bus.Publish(context.Background(), NewUserRegisteredEvent("user-1", "budi@example.com"))
	assert.Error(t, err)
}

func TestEventCarriesMetadata(t *testing.T) {
	event := NewPurchaseCompletedEvent("user-1", "course-1", "payment-1", 299000)

	assert.Equal(t, EventPurchaseCompleted, event.GetEventType())
	assert.Equal(t, "user-1", event.GetUserID())
	assert.NotEmpty(t, event.GetEventID())
	assert.False(t, event.GetTimestamp().IsZero())
}

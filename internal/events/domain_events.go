package events

import (
	"context"

	"go.uber.org/zap"
)

// Event types published by the application.
const (
	EventUserRegistered    = "user.registered"
	EventPurchaseCompleted = "purchase.completed"
	EventBadgeAwarded      = "badge.awarded"
)

// NewUserRegisteredEvent is published after a successful registration.
func NewUserRegisteredEvent(userID, email string) Event {
	e := NewBaseEvent(EventUserRegistered, userID)
	e.Metadata = map[string]interface{}{"email": email}
	return &e
}

// NewPurchaseCompletedEvent is published after a purchase transaction commits.
func NewPurchaseCompletedEvent(userID, courseID, paymentID string, amount int64) Event {
	e := NewBaseEvent(EventPurchaseCompleted, userID)
	e.Metadata = map[string]interface{}{
		"course_id":  courseID,
		"payment_id": paymentID,
		"amount":     amount,
	}
	return &e
}

// NewBadgeAwardedEvent is published for each badge granted by a purchase.
func NewBadgeAwardedEvent(userID, badgeID string) Event {
	e := NewBaseEvent(EventBadgeAwarded, userID)
	e.Metadata = map[string]interface{}{"badge_id": badgeID}
	return &e
}

// RegisterLoggingSubscribers attaches a zap-backed subscriber for every
// application event type.
func RegisterLoggingSubscribers(bus EventBus, logger *zap.Logger) {
	handler := EventHandlerFunc{
		ID: "zap-logger",
		Func: func(ctx context.Context, event Event) error {
			logger.Info("domain event",
				zap.String("event_type", event.GetEventType()),
				zap.String("event_id", event.GetEventID()),
				zap.String("user_id", event.GetUserID()),
				zap.Any("metadata", event.GetMetadata()),
			)
			return nil
		},
	}

	for _, eventType := range []string{EventUserRegistered, EventPurchaseCompleted, EventBadgeAwarded} {
		bus.Subscribe(eventType, handler)
	}
}

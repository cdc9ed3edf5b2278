package services

import (
	"context"
	"time"

	"basket-service/kafka"
	"basket-service/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutService runs the simulated checkout: there is no real payment
// integration, only a fixed processing delay, an event on the wire and a
// cleared cart.
type CheckoutService struct {
	producer kafka.EventPublisher
	delay    time.Duration
	logger   *zap.Logger
}

// NewCheckoutService creates a new CheckoutService. producer may be nil
// when no broker is configured; checkout then completes without an event.
func NewCheckoutService(producer kafka.EventPublisher, delay time.Duration, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{producer: producer, delay: delay, logger: logger}
}

// Checkout captures the session's snapshot, simulates payment processing,
// publishes the checkout event and clears the cart. An empty cart fails
// with ErrEmptyCart before the delay.
func (s *CheckoutService) Checkout(ctx context.Context, sess *Session) (*models.CheckoutEvent, error) {
	snap := sess.Snapshot()
	if len(snap.Items) == 0 {
		return nil, ErrEmptyCart
	}

	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	event := models.CheckoutEvent{
		Event:     "checkout.completed",
		OrderID:   uuid.NewString(),
		UserID:    sess.UserID(),
		Items:     snap.Items,
		Total:     snap.TotalPrice,
		Timestamp: time.Now().UTC(),
	}

	if s.producer != nil {
		// Event delivery is best effort: the simulated order still
		// completes when the broker is down.
		if err := s.producer.SendCheckoutEvent(ctx, event); err != nil {
			s.logger.Warn("Failed to publish checkout event",
				zap.String("order_id", event.OrderID), zap.Error(err))
		}
	}

	if err := sess.Clear(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("Checkout completed",
		zap.String("order_id", event.OrderID),
		zap.String("user_id", event.UserID),
		zap.Float64("total", event.Total),
	)
	return &event, nil
}

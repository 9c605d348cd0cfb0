package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/appetiteclub/pantry/pkg/event"
	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
	"github.com/google/uuid"
)

// PaymentRequestSubscriber pays orders requested over the payments topic.
type PaymentRequestSubscriber struct {
	subscriber events.Subscriber
	reconciler *Reconciler
	logger     aqm.Logger
}

func NewPaymentRequestSubscriber(subscriber events.Subscriber, reconciler *Reconciler, logger aqm.Logger) *PaymentRequestSubscriber {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &PaymentRequestSubscriber{
		subscriber: subscriber,
		reconciler: reconciler,
		logger:     logger.With("component", "payment-subscriber"),
	}
}

func (s *PaymentRequestSubscriber) Start(ctx context.Context) error {
	s.logger.Info("Starting PaymentRequestSubscriber", "topic", event.PaymentsTopic)

	if err := s.subscriber.Subscribe(ctx, event.PaymentsTopic, s.handleEvent); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", event.PaymentsTopic, err)
	}

	return nil
}

func (s *PaymentRequestSubscriber) Stop(context.Context) error {
	return nil
}

// retryable reports failures a later delivery may get past.
func retryable(err error) bool {
	return errors.Is(err, ErrPersistence) ||
		errors.Is(err, ErrConcurrentModification) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// handleEvent acknowledges malformed messages and business rejections.
// Infrastructure failures and exhausted contention are returned so the
// transport can redeliver.
func (s *PaymentRequestSubscriber) handleEvent(ctx context.Context, msg []byte) error {
	var evt event.PaymentRequestedEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		s.logger.Errorf("Failed to unmarshal payment request: %v", err)
		return nil
	}

	if evt.EventType != event.EventPaymentRequested {
		s.logger.Debug("ignoring event", "event_type", evt.EventType)
		return nil
	}

	orderID, err := uuid.Parse(evt.OrderID)
	if err != nil {
		s.logger.Errorf("Invalid order_id: %v", err)
		return nil
	}

	result, err := s.reconciler.PayOrder(ctx, orderID)
	if err != nil {
		if retryable(err) {
			s.logger.Error("payment request failed", "order_id", evt.OrderID, "error", err)
			return err
		}
		s.logger.Info("payment request rejected", "order_id", evt.OrderID, "reason", err.Error())
		return nil
	}

	s.logger.Info("payment request settled", "order_id", evt.OrderID, "requested_by", evt.RequestedBy, "deductions", len(result.Deductions))
	return nil
}

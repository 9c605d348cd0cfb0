package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"

	"github.com/appetiteclub/pantry/pkg"
	"github.com/appetiteclub/pantry/pkg/event"
)

const defaultNATSURL = "nats://localhost:4222"

// PayOrder asks the inventory service to pay an order by publishing a
// payment request on the payments topic.
func PayOrder(ctx context.Context, config *aqm.Config, logger aqm.Logger, orderID string) error {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return fmt.Errorf("invalid order id %q: %w", orderID, err)
	}

	natsURL, _ := config.GetString("nats.url")
	if natsURL == "" {
		natsURL = defaultNATSURL
	}

	publisher, err := pkg.NewNATSPublisher(natsURL, "pantry-utils")
	if err != nil {
		return fmt.Errorf("connect to nats: %w", err)
	}
	defer publisher.Close()

	msg, err := json.Marshal(event.PaymentRequestedEvent{
		EventType:   event.EventPaymentRequested,
		OccurredAt:  time.Now().UTC(),
		OrderID:     id.String(),
		RequestedBy: "utils",
	})
	if err != nil {
		return fmt.Errorf("encode payment request: %w", err)
	}

	if err := publisher.Publish(ctx, event.PaymentsTopic, msg); err != nil {
		return fmt.Errorf("publish payment request: %w", err)
	}

	logger.Infof("Payment requested for order %s", id)
	return nil
}

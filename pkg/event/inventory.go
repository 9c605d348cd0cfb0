package event

import "time"

const (
	InventoryTopic = "inventory.stock"
	PaymentsTopic  = "inventory.payments"

	EventOrderPaid        = "inventory.order.paid"
	EventStockDepleted    = "inventory.stock.depleted"
	EventPaymentRequested = "inventory.payment.requested"
)

// StockDeduction is one inventory item consumed by a paid order.
type StockDeduction struct {
	ItemID    string  `json:"item_id"`
	Name      string  `json:"name"`
	Unit      string  `json:"unit"`
	Amount    float64 `json:"amount"`
	Remaining float64 `json:"remaining"`
}

// OrderPaidEvent is published on InventoryTopic once a payment has been
// committed.
type OrderPaidEvent struct {
	EventType   string           `json:"event_type"`
	OccurredAt  time.Time        `json:"occurred_at"`
	OrderID     string           `json:"order_id"`
	Customer    string           `json:"customer,omitempty"`
	TotalAmount float64          `json:"total_amount"`
	Deductions  []StockDeduction `json:"deductions"`
}

// StockDepletedEvent is published on InventoryTopic for every item a payment
// brought down to zero.
type StockDepletedEvent struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	ItemID     string    `json:"item_id"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit"`
	OrderID    string    `json:"order_id"`
}

// PaymentRequestedEvent asks the inventory service to pay an order
// asynchronously. It is consumed from PaymentsTopic.
type PaymentRequestedEvent struct {
	EventType   string    `json:"event_type"`
	OccurredAt  time.Time `json:"occurred_at"`
	OrderID     string    `json:"order_id"`
	RequestedBy string    `json:"requested_by,omitempty"`
}

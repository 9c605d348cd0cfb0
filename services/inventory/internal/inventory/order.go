package inventory

import (
	"time"

	"github.com/appetiteclub/pantry/pkg/enums/orderstatus"
	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
)

const DefaultCustomer = "Guest"

var (
	StatusPending   = orderstatus.Statuses.Pending.Code()
	StatusPaid      = orderstatus.Statuses.Paid.Code()
	StatusCancelled = orderstatus.Statuses.Cancelled.Code()
)

type Order struct {
	ID          uuid.UUID   `json:"id" bson:"_id"`
	Items       []OrderItem `json:"items" bson:"items"`
	Customer    string      `json:"customer" bson:"customer"`
	Status      string      `json:"status" bson:"status"`
	TotalAmount float64     `json:"total_amount" bson:"total_amount"`
	CreatedAt   time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" bson:"updated_at"`
	PaidAt      *time.Time  `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
}

// OrderItem names either a recipe product or an inventory item directly.
// ItemID is informational; resolution always goes by Name.
type OrderItem struct {
	ItemID   *uuid.UUID `json:"item_id,omitempty" bson:"item_id,omitempty"`
	Name     string     `json:"name" bson:"name"`
	Quantity float64    `json:"quantity" bson:"quantity"`
	Price    float64    `json:"price" bson:"price"`
	Total    float64    `json:"total" bson:"total"`
}

func NewOrder(customer string, items ...OrderItem) *Order {
	o := &Order{
		Customer: customer,
		Items:    items,
	}
	o.BeforeCreate()
	return o
}

func (o *Order) GetID() uuid.UUID {
	return o.ID
}

func (o *Order) ResourceType() string {
	return "order"
}

func (o *Order) EnsureID() {
	if o.ID == uuid.Nil {
		o.ID = aqm.GenerateNewID()
	}
}

// BeforeCreate fills defaults and computes line and order totals.
func (o *Order) BeforeCreate() {
	o.EnsureID()
	if o.Customer == "" {
		o.Customer = DefaultCustomer
	}
	o.Status = StatusPending
	o.TotalAmount = 0
	for i := range o.Items {
		if o.Items[i].Total == 0 {
			o.Items[i].Total = o.Items[i].Price * o.Items[i].Quantity
		}
		o.TotalAmount += o.Items[i].Total
	}
	o.CreatedAt = time.Now()
	o.UpdatedAt = time.Now()
}

func (o *Order) BeforeUpdate() {
	o.UpdatedAt = time.Now()
}

func (o *Order) IsPending() bool {
	return o.Status == StatusPending
}

func (o *Order) IsPaid() bool {
	return o.Status == StatusPaid
}

func (o *Order) MarkAsPaid(at time.Time) {
	o.Status = StatusPaid
	o.PaidAt = &at
	o.UpdatedAt = at
}

// Cancel moves a pending order to cancelled.
func (o *Order) Cancel() error {
	if o.IsPaid() {
		return ErrAlreadyPaid
	}
	if !o.IsPending() {
		return ErrOrderNotPayable
	}
	o.Status = StatusCancelled
	o.BeforeUpdate()
	return nil
}

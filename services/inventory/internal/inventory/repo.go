package inventory

import (
	"context"

	"github.com/google/uuid"
)

// Get and Find* return (nil, nil) when the record does not exist.

type InventoryRepo interface {
	Create(ctx context.Context, item *InventoryItem) error
	Get(ctx context.Context, id uuid.UUID) (*InventoryItem, error)
	FindByName(ctx context.Context, name string) (*InventoryItem, error)
	List(ctx context.Context) ([]*InventoryItem, error)
	// Save replaces the item only while its stored quantity still equals
	// expected and returns ErrConcurrentModification otherwise.
	Save(ctx context.Context, item *InventoryItem, expected float64) error
	// Decrement lowers stock by amount in a single write, never below zero,
	// and returns the updated item.
	Decrement(ctx context.Context, id uuid.UUID, amount float64) (*InventoryItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type RecipeRepo interface {
	Create(ctx context.Context, recipe *Recipe) error
	Get(ctx context.Context, id uuid.UUID) (*Recipe, error)
	FindByProductName(ctx context.Context, name string) (*Recipe, error)
	List(ctx context.Context) ([]*Recipe, error)
	Save(ctx context.Context, recipe *Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type OrderRepo interface {
	Create(ctx context.Context, order *Order) error
	Get(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context) ([]*Order, error)
	ListByStatus(ctx context.Context, status string) ([]*Order, error)
	// Save only succeeds while the stored order is still pending and
	// returns ErrConcurrentModification otherwise.
	Save(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Deduction is the write planned for one inventory item. Expected is the
// quantity the plan was validated against; the ledger must refuse the write
// if the stored quantity differs.
type Deduction struct {
	ItemID       uuid.UUID `json:"item_id"`
	Name         string    `json:"name"`
	Unit         string    `json:"unit"`
	Expected     float64   `json:"expected"`
	Amount       float64   `json:"amount"`
	NewQuantity  float64   `json:"new_quantity"`
	NewTotalCost float64   `json:"new_total_cost"`
}

// PaymentLedger applies a payment atomically: every deduction is a
// compare-and-swap on the item quantity and the order moves from pending to
// paid, all or nothing. A failed compare yields ErrConcurrentModification; an
// order that is no longer pending yields ErrAlreadyPaid.
type PaymentLedger interface {
	CommitPayment(ctx context.Context, order *Order, deductions []Deduction) error
}

type Repos struct {
	InventoryRepo InventoryRepo
	RecipeRepo    RecipeRepo
	OrderRepo     OrderRepo
	Ledger        PaymentLedger
}

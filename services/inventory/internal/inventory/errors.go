package inventory

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrAlreadyPaid            = errors.New("order already paid")
	ErrOrderNotPayable        = errors.New("order cannot be paid")
	ErrInvalidOrderItem       = errors.New("invalid order item")
	ErrInventoryItemNotFound  = errors.New("inventory item not found")
	ErrUnsupportedConversion  = errors.New("unsupported unit conversion")
	ErrMissingUnit            = errors.New("missing unit")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrPersistence            = errors.New("persistence failure")
)

// InvalidOrderItemError names the offending line of an order. Index is -1
// when the order as a whole is unusable.
type InvalidOrderItemError struct {
	Index  int
	Name   string
	Reason string
}

func (e *InvalidOrderItemError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid order: %s", e.Reason)
	}
	if e.Name == "" {
		return fmt.Sprintf("invalid order item at position %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid order item %q: %s", e.Name, e.Reason)
}

func (e *InvalidOrderItemError) Unwrap() error {
	return ErrInvalidOrderItem
}

type InventoryItemNotFoundError struct {
	Name string
}

func (e *InventoryItemNotFoundError) Error() string {
	return fmt.Sprintf("inventory item not found: %q", e.Name)
}

func (e *InventoryItemNotFoundError) Unwrap() error {
	return ErrInventoryItemNotFound
}

// ConversionError wraps ErrUnsupportedConversion or ErrMissingUnit with the
// units involved.
type ConversionError struct {
	From string
	To   string
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %q to %q: %v", e.From, e.To, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

type InsufficientStockError struct {
	Item      string
	Required  float64
	Available float64
	Unit      string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: required %g %s, available %g %s",
		e.Item, e.Required, e.Unit, e.Available, e.Unit)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: cannot %s: %w", ErrPersistence, op, err)
}

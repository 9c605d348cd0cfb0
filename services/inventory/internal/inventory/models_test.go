package inventory

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewInventoryItem(t *testing.T) {
	item := NewInventoryItem("  Cheese ", "Dairy", 500, "g", 0.02)

	if item.ID == uuid.Nil {
		t.Error("expected ID to be set")
	}
	if item.Name != "Cheese" {
		t.Errorf("Name = %q, want %q", item.Name, "Cheese")
	}
	if item.NameKey != "cheese" {
		t.Errorf("NameKey = %q, want %q", item.NameKey, "cheese")
	}
	if item.TotalCost != 10 {
		t.Errorf("TotalCost = %v, want 10", item.TotalCost)
	}
	if item.ResourceType() != "inventory-item" {
		t.Errorf("ResourceType() = %q", item.ResourceType())
	}
}

func TestInventoryItemDecrement(t *testing.T) {
	tests := []struct {
		name      string
		quantity  float64
		amount    float64
		wantQty   float64
		wantTotal float64
	}{
		{name: "partial", quantity: 10, amount: 4, wantQty: 6, wantTotal: 12},
		{name: "exact", quantity: 10, amount: 10, wantQty: 0, wantTotal: 0},
		{name: "floorsAtZero", quantity: 3, amount: 10, wantQty: 0, wantTotal: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := NewInventoryItem("Bread", "Bakery", tt.quantity, "pcs", 2)
			item.Decrement(tt.amount)

			if item.Quantity != tt.wantQty {
				t.Errorf("Quantity = %v, want %v", item.Quantity, tt.wantQty)
			}
			if item.TotalCost != tt.wantTotal {
				t.Errorf("TotalCost = %v, want %v", item.TotalCost, tt.wantTotal)
			}
		})
	}
}

func TestInventoryItemValidate(t *testing.T) {
	tests := []struct {
		name    string
		item    InventoryItem
		wantErr bool
	}{
		{name: "valid", item: InventoryItem{Name: "Milk", Unit: "ml", Quantity: 1}},
		{name: "missingName", item: InventoryItem{Name: " ", Unit: "ml"}, wantErr: true},
		{name: "missingUnit", item: InventoryItem{Name: "Milk"}, wantErr: true},
		{name: "negativeQuantity", item: InventoryItem{Name: "Milk", Unit: "ml", Quantity: -1}, wantErr: true},
		{name: "negativeCost", item: InventoryItem{Name: "Milk", Unit: "ml", UnitCost: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.item.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecipeNormalizeAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		recipe  Recipe
		wantErr bool
	}{
		{
			name: "valid",
			recipe: Recipe{ProductName: "Burger", Ingredients: []Ingredient{
				{Name: "Bread", Quantity: 2},
			}},
		},
		{
			name:    "missingProduct",
			recipe:  Recipe{Ingredients: []Ingredient{{Name: "Bread", Quantity: 1}}},
			wantErr: true,
		},
		{
			name:    "noIngredients",
			recipe:  Recipe{ProductName: "Burger"},
			wantErr: true,
		},
		{
			name: "ingredientWithoutName",
			recipe: Recipe{ProductName: "Burger", Ingredients: []Ingredient{
				{Name: "", Quantity: 1},
			}},
			wantErr: true,
		},
		{
			name: "quantityBelowMinimum",
			recipe: Recipe{ProductName: "Burger", Ingredients: []Ingredient{
				{Name: "Salt", Quantity: 0.00001},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.recipe.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	r := NewRecipe(" Cheese Toast ", Ingredient{Name: " Bread ", Quantity: 2})
	if r.ProductName != "Cheese Toast" || r.ProductKey != "cheese toast" {
		t.Errorf("product = %q/%q", r.ProductName, r.ProductKey)
	}
	if r.Ingredients[0].Name != "Bread" || r.Ingredients[0].Unit != DefaultIngredientUnit {
		t.Errorf("ingredient = %+v, want trimmed name and default unit", r.Ingredients[0])
	}
}

func TestNewOrder(t *testing.T) {
	order := NewOrder("",
		OrderItem{Name: "Burger", Quantity: 2, Price: 8.5},
		OrderItem{Name: "Cola", Quantity: 1, Price: 2, Total: 2.5},
	)

	if order.Customer != DefaultCustomer {
		t.Errorf("Customer = %q, want %q", order.Customer, DefaultCustomer)
	}
	if order.Status != StatusPending {
		t.Errorf("Status = %q, want %q", order.Status, StatusPending)
	}
	if order.Items[0].Total != 17 {
		t.Errorf("Items[0].Total = %v, want 17", order.Items[0].Total)
	}
	if order.TotalAmount != 19.5 {
		t.Errorf("TotalAmount = %v, want 19.5", order.TotalAmount)
	}
}

func TestOrderTransitions(t *testing.T) {
	t.Run("markAsPaid", func(t *testing.T) {
		order := NewOrder("Ana", OrderItem{Name: "Cola", Quantity: 1})
		at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		order.MarkAsPaid(at)

		if !order.IsPaid() || order.PaidAt == nil || !order.PaidAt.Equal(at) {
			t.Errorf("order = %+v, want paid at %v", order, at)
		}
	})

	t.Run("cancelPending", func(t *testing.T) {
		order := NewOrder("Ana", OrderItem{Name: "Cola", Quantity: 1})
		if err := order.Cancel(); err != nil {
			t.Fatalf("Cancel() error = %v", err)
		}
		if order.Status != StatusCancelled {
			t.Errorf("Status = %q, want %q", order.Status, StatusCancelled)
		}
	})

	t.Run("cancelPaid", func(t *testing.T) {
		order := NewOrder("Ana", OrderItem{Name: "Cola", Quantity: 1})
		order.MarkAsPaid(time.Now())
		if err := order.Cancel(); !errors.Is(err, ErrAlreadyPaid) {
			t.Errorf("Cancel() error = %v, want %v", err, ErrAlreadyPaid)
		}
	})

	t.Run("cancelCancelled", func(t *testing.T) {
		order := NewOrder("Ana", OrderItem{Name: "Cola", Quantity: 1})
		_ = order.Cancel()
		if err := order.Cancel(); !errors.Is(err, ErrOrderNotPayable) {
			t.Errorf("Cancel() error = %v, want %v", err, ErrOrderNotPayable)
		}
	})
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "insufficientStock",
			err:  &InsufficientStockError{Item: "Cheese", Required: 60, Available: 40, Unit: "g"},
			want: "insufficient stock for Cheese: required 60 g, available 40 g",
		},
		{
			name: "itemNotFound",
			err:  &InventoryItemNotFoundError{Name: "Pickles"},
			want: `inventory item not found: "Pickles"`,
		},
		{
			name: "invalidLine",
			err:  &InvalidOrderItemError{Index: 1, Name: "Cola", Reason: "quantity must be greater than zero"},
			want: `invalid order item "Cola": quantity must be greater than zero`,
		},
		{
			name: "emptyOrder",
			err:  &InvalidOrderItemError{Index: -1, Reason: "order has no items"},
			want: "invalid order: order has no items",
		},
		{
			name: "conversion",
			err:  &ConversionError{From: "g", To: "tbsp", Err: ErrUnsupportedConversion},
			want: `cannot convert "g" to "tbsp": unsupported unit conversion`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

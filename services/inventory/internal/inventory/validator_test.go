package inventory

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestStockValidatorPlan(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(env *mockEnv)
		draws   []Draw
		wantErr error
		check   func(t *testing.T, plan *StockPlan)
	}{
		{
			name: "convertsToItemUnit",
			setup: func(env *mockEnv) {
				env.addItem("Cheese", 100, "g")
			},
			draws: []Draw{{Name: "Cheese", Quantity: 3, Unit: "slice", Recipe: "Toast"}},
			check: func(t *testing.T, plan *StockPlan) {
				d := plan.Deductions[0]
				if d.Amount != 60 || d.Expected != 100 || d.NewQuantity != 40 {
					t.Errorf("deduction = %+v, want 60 of 100 leaving 40", d)
				}
				if d.NewTotalCost != 40 {
					t.Errorf("NewTotalCost = %v, want 40", d.NewTotalCost)
				}
			},
		},
		{
			name: "directDrawUsesItemUnit",
			setup: func(env *mockEnv) {
				env.addItem("Cola", 12, "pcs")
			},
			draws: []Draw{{Name: "Cola", Quantity: 2}},
			check: func(t *testing.T, plan *StockPlan) {
				if plan.Deductions[0].NewQuantity != 10 {
					t.Errorf("NewQuantity = %v, want 10", plan.Deductions[0].NewQuantity)
				}
			},
		},
		{
			name: "mergesDrawsPerItem",
			setup: func(env *mockEnv) {
				env.addItem("Bread", 10, "pcs")
			},
			draws: []Draw{
				{Name: "Bread", Quantity: 4, Unit: "pcs", Recipe: "Burger"},
				{Name: "bread", Quantity: 4, Unit: "pcs", Recipe: "Toast"},
			},
			check: func(t *testing.T, plan *StockPlan) {
				if len(plan.Deductions) != 1 {
					t.Fatalf("got %d deductions, want 1", len(plan.Deductions))
				}
				if plan.Deductions[0].Amount != 8 || plan.Deductions[0].NewQuantity != 2 {
					t.Errorf("deduction = %+v, want 8 leaving 2", plan.Deductions[0])
				}
			},
		},
		{
			name: "mergedTotalExceedsStock",
			setup: func(env *mockEnv) {
				env.addItem("Bread", 10, "pcs")
			},
			draws: []Draw{
				{Name: "Bread", Quantity: 6, Unit: "pcs", Recipe: "Burger"},
				{Name: "Bread", Quantity: 6, Unit: "pcs", Recipe: "Toast"},
			},
			wantErr: ErrInsufficientStock,
		},
		{
			name: "exactStockFloorsAtZero",
			setup: func(env *mockEnv) {
				env.addItem("Milk", 0.3, "l")
			},
			draws: []Draw{{Name: "Milk", Quantity: 100, Unit: "ml", Recipe: "Shake"}, {Name: "Milk", Quantity: 200, Unit: "ml", Recipe: "Shake"}},
			check: func(t *testing.T, plan *StockPlan) {
				if plan.Deductions[0].NewQuantity != 0 {
					t.Errorf("NewQuantity = %v, want exactly 0", plan.Deductions[0].NewQuantity)
				}
			},
		},
		{
			name: "overdrawBeyondRoundingRejected",
			setup: func(env *mockEnv) {
				env.addItem("Milk", 0.3, "l")
			},
			draws:   []Draw{{Name: "Milk", Quantity: 300.001, Unit: "ml", Recipe: "Shake"}},
			wantErr: ErrInsufficientStock,
		},
		{
			name:    "unknownItem",
			setup:   func(env *mockEnv) {},
			draws:   []Draw{{Name: "Pickles", Quantity: 1}},
			wantErr: ErrInventoryItemNotFound,
		},
		{
			name: "unsupportedConversion",
			setup: func(env *mockEnv) {
				env.addItem("Sugar", 100, "g")
			},
			draws:   []Draw{{Name: "Sugar", Quantity: 5, Unit: "tbsp", Recipe: "Tea"}},
			wantErr: ErrUnsupportedConversion,
		},
		{
			name: "itemWithoutUnit",
			setup: func(env *mockEnv) {
				env.addItem("Salt", 100, "")
			},
			draws:   []Draw{{Name: "Salt", Quantity: 1}},
			wantErr: ErrMissingUnit,
		},
		{
			name: "lookupFailure",
			setup: func(env *mockEnv) {
				env.inventory.FindByNameFunc = func(ctx context.Context, name string) (*InventoryItem, error) {
					return nil, errors.New("timeout")
				}
			},
			draws:   []Draw{{Name: "Bread", Quantity: 1}},
			wantErr: ErrPersistence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newMockEnv()
			tt.setup(env)
			v := NewStockValidator(env.inventory, NewUnitConverter(DefaultUnitTable()))

			plan, err := v.Plan(context.Background(), tt.draws)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Plan() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Plan() unexpected error: %v", err)
			}
			tt.check(t, plan)
		})
	}
}

func TestStockValidatorInsufficientDetails(t *testing.T) {
	env := newMockEnv()
	env.addItem("Cheese", 50, "g")
	v := NewStockValidator(env.inventory, NewUnitConverter(DefaultUnitTable()))

	_, err := v.Plan(context.Background(), []Draw{
		{Name: "Cheese", Quantity: 2, Unit: "slice", Recipe: "Toast"},
		{Name: "Cheese", Quantity: 1, Unit: "slice", Recipe: "Burger"},
	})

	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("Plan() error = %v, want *InsufficientStockError", err)
	}
	if stockErr.Item != "Cheese" || stockErr.Unit != "g" {
		t.Errorf("error names %q in %q", stockErr.Item, stockErr.Unit)
	}
	if math.Abs(stockErr.Required-60) > 1e-9 || stockErr.Available != 50 {
		t.Errorf("required %v available %v, want 60 and 50", stockErr.Required, stockErr.Available)
	}
}

func TestStockValidatorReadsEachItemOnce(t *testing.T) {
	env := newMockEnv()
	env.addItem("Bread", 10, "pcs")

	lookups := 0
	counting := &MockInventoryRepo{
		db: env.db,
		FindByNameFunc: func(ctx context.Context, name string) (*InventoryItem, error) {
			lookups++
			return env.inventory.FindByName(ctx, name)
		},
	}

	v := NewStockValidator(counting, NewUnitConverter(DefaultUnitTable()))
	_, err := v.Plan(context.Background(), []Draw{
		{Name: "Bread", Quantity: 1},
		{Name: "BREAD", Quantity: 1},
		{Name: "bread ", Quantity: 1},
	})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if lookups != 1 {
		t.Errorf("lookups = %d, want 1", lookups)
	}
}

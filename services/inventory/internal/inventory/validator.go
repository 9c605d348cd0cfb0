package inventory

import "context"

// quantityEpsilon absorbs float rounding from unit conversion and merged
// draws (0.1 l + 0.2 l against 0.3 l). Requirements within it of the stock
// are treated as exact and leave the item at zero.
const quantityEpsilon = 1e-9

// StockPlan is the validated outcome of the plan phase. Items holds the
// snapshot each deduction was checked against, in first-draw order.
type StockPlan struct {
	Items      []*InventoryItem
	Deductions []Deduction
}

type StockValidator struct {
	inventory InventoryRepo
	converter *UnitConverter
}

func NewStockValidator(inventory InventoryRepo, converter *UnitConverter) *StockValidator {
	return &StockValidator{
		inventory: inventory,
		converter: converter,
	}
}

// Plan matches every draw to an inventory item, converts it to the item's
// unit and checks the accumulated requirement per item against one snapshot
// of its stock. It performs no writes.
func (v *StockValidator) Plan(ctx context.Context, draws []Draw) (*StockPlan, error) {
	plan := &StockPlan{}
	required := make(map[string]float64)
	index := make(map[string]int)
	var keys []string

	for _, d := range draws {
		key := NameKey(d.Name)

		pos, seen := index[key]
		if !seen {
			item, err := v.inventory.FindByName(ctx, d.Name)
			if err != nil {
				return nil, persistenceError("find inventory item", err)
			}
			if item == nil {
				return nil, &InventoryItemNotFoundError{Name: d.Name}
			}
			pos = len(plan.Items)
			index[key] = pos
			plan.Items = append(plan.Items, item)
			keys = append(keys, key)
		}
		item := plan.Items[pos]

		from := d.Unit
		if d.direct() || from == "" {
			from = item.Unit
		}
		amount, err := v.converter.Convert(d.Quantity, from, item.Unit)
		if err != nil {
			return nil, err
		}

		required[key] += amount
		if required[key] > item.Quantity+quantityEpsilon {
			return nil, &InsufficientStockError{
				Item:      item.Name,
				Required:  required[key],
				Available: item.Quantity,
				Unit:      item.Unit,
			}
		}
	}

	for pos, item := range plan.Items {
		amount := required[keys[pos]]
		remaining := item.Quantity - amount
		if remaining < quantityEpsilon {
			remaining = 0
		}
		plan.Deductions = append(plan.Deductions, Deduction{
			ItemID:       item.ID,
			Name:         item.Name,
			Unit:         item.Unit,
			Expected:     item.Quantity,
			Amount:       amount,
			NewQuantity:  remaining,
			NewTotalCost: remaining * item.UnitCost,
		})
	}

	return plan, nil
}

package inventory

import (
	"context"
	"strings"
)

// Draw is a quantity to take from one inventory item. An empty Unit means
// the quantity is already expressed in the item's own unit.
type Draw struct {
	Name     string
	Quantity float64
	Unit     string
	Recipe   string
}

func (d Draw) direct() bool {
	return d.Recipe == ""
}

type RecipeResolver struct {
	recipes RecipeRepo
}

func NewRecipeResolver(recipes RecipeRepo) *RecipeResolver {
	return &RecipeResolver{recipes: recipes}
}

// Resolve expands an order line into draws. A name matching a recipe yields
// one draw per ingredient scaled by quantity; anything else is drawn
// directly from the inventory item of the same name.
func (r *RecipeResolver) Resolve(ctx context.Context, name string, quantity float64) ([]Draw, error) {
	recipe, err := r.recipes.FindByProductName(ctx, name)
	if err != nil {
		return nil, persistenceError("find recipe", err)
	}

	if recipe == nil {
		return []Draw{{
			Name:     strings.TrimSpace(name),
			Quantity: quantity,
		}}, nil
	}

	draws := make([]Draw, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		unit := ing.Unit
		if strings.TrimSpace(unit) == "" {
			unit = DefaultIngredientUnit
		}
		draws = append(draws, Draw{
			Name:     ing.Name,
			Quantity: ing.Quantity * quantity,
			Unit:     unit,
			Recipe:   recipe.ProductName,
		})
	}

	return draws, nil
}

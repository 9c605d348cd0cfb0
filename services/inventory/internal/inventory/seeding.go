package inventory

import (
	"context"
	"fmt"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/seed"
	"go.mongodb.org/mongo-driver/mongo"
)

// DemoInventory is the stock created by the demo seed.
func DemoInventory() []*InventoryItem {
	return []*InventoryItem{
		NewInventoryItem("Bread", "Bakery", 100, "pcs", 0.5),
		NewInventoryItem("Beef Patty", "Meat", 60, "pcs", 1.8),
		NewInventoryItem("Cheese", "Dairy", 5000, "g", 0.02),
		NewInventoryItem("Lettuce", "Produce", 2000, "g", 0.01),
		NewInventoryItem("Tomato", "Produce", 3000, "g", 0.008),
		NewInventoryItem("Milk", "Dairy", 10000, "ml", 0.002),
		NewInventoryItem("Cola", "Beverages", 48, "pcs", 0.6),
	}
}

// DemoRecipes are the products sold from DemoInventory. Cola has no recipe
// and is drawn directly.
func DemoRecipes() []*Recipe {
	return []*Recipe{
		NewRecipe("Burger",
			Ingredient{Name: "Bread", Quantity: 2, Unit: "pcs"},
			Ingredient{Name: "Beef Patty", Quantity: 1, Unit: "pcs"},
			Ingredient{Name: "Cheese", Quantity: 1, Unit: "slice"},
			Ingredient{Name: "Lettuce", Quantity: 2, Unit: "leaf"},
			Ingredient{Name: "Tomato", Quantity: 2, Unit: "slice"},
		),
		NewRecipe("Cheese Toast",
			Ingredient{Name: "Bread", Quantity: 2, Unit: "pcs"},
			Ingredient{Name: "Cheese", Quantity: 2, Unit: "slice"},
		),
		NewRecipe("Garden Salad",
			Ingredient{Name: "Lettuce", Quantity: 6, Unit: "leaf"},
			Ingredient{Name: "Tomato", Quantity: 3, Unit: "slice"},
			Ingredient{Name: "Cheese", Quantity: 1, Unit: "spoon"},
		),
		NewRecipe("Milkshake",
			Ingredient{Name: "Milk", Quantity: 300, Unit: "ml"},
		),
	}
}

func Seeds(repos Repos) []seed.Seed {
	return []seed.Seed{
		{
			ID:          "demo_inventory_v1",
			Description: "Create demo inventory items",
			Run: func(ctx context.Context) error {
				return SeedInventory(ctx, repos.InventoryRepo, DemoInventory())
			},
		},
		{
			ID:          "demo_recipes_v1",
			Description: "Create demo recipes",
			Run: func(ctx context.Context) error {
				return SeedRecipes(ctx, repos.RecipeRepo, DemoRecipes())
			},
		},
	}
}

// SeedInventory creates the items whose names are not taken yet.
func SeedInventory(ctx context.Context, repo InventoryRepo, items []*InventoryItem) error {
	for _, item := range items {
		existing, err := repo.FindByName(ctx, item.Name)
		if err != nil {
			return fmt.Errorf("cannot check inventory item %s: %w", item.Name, err)
		}
		if existing != nil {
			continue
		}
		if err := repo.Create(ctx, item); err != nil {
			return fmt.Errorf("cannot seed inventory item %s: %w", item.Name, err)
		}
	}
	return nil
}

// SeedRecipes creates the recipes whose products are not taken yet.
func SeedRecipes(ctx context.Context, repo RecipeRepo, recipes []*Recipe) error {
	for _, recipe := range recipes {
		existing, err := repo.FindByProductName(ctx, recipe.ProductName)
		if err != nil {
			return fmt.Errorf("cannot check recipe %s: %w", recipe.ProductName, err)
		}
		if existing != nil {
			continue
		}
		if err := repo.Create(ctx, recipe); err != nil {
			return fmt.Errorf("cannot seed recipe %s: %w", recipe.ProductName, err)
		}
	}
	return nil
}

// DemoSeedingFunc returns a lifecycle start hook that applies the demo seeds
// once per database.
func DemoSeedingFunc(repos Repos, db *mongo.Database, logger aqm.Logger) func(context.Context) error {
	return func(ctx context.Context) error {
		logger.Info("Applying demo inventory seeds")
		tracker := seed.NewMongoTracker(db)
		if err := seed.Apply(ctx, tracker, Seeds(repos), "inventory"); err != nil {
			return fmt.Errorf("demo seed failed: %w", err)
		}
		logger.Info("Demo inventory seeded successfully")
		return nil
	}
}

package seeding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/text/cases"
)

const (
	InventorySeedID = "demo_inventory_v1"
	RecipesSeedID   = "demo_recipes_v1"
)

type demoItem struct {
	name     string
	category string
	quantity float64
	unit     string
	unitCost float64
}

type demoIngredient struct {
	name     string
	quantity float64
	unit     string
}

type demoRecipe struct {
	product     string
	ingredients []demoIngredient
}

var demoItems = []demoItem{
	{"Bread", "Bakery", 100, "pcs", 0.5},
	{"Beef Patty", "Meat", 60, "pcs", 1.8},
	{"Cheese", "Dairy", 5000, "g", 0.02},
	{"Lettuce", "Produce", 2000, "g", 0.01},
	{"Tomato", "Produce", 3000, "g", 0.008},
	{"Milk", "Dairy", 10000, "ml", 0.002},
	{"Cola", "Beverages", 48, "pcs", 0.6},
}

var demoRecipes = []demoRecipe{
	{"Burger", []demoIngredient{
		{"Bread", 2, "pcs"},
		{"Beef Patty", 1, "pcs"},
		{"Cheese", 1, "slice"},
		{"Lettuce", 2, "leaf"},
		{"Tomato", 2, "slice"},
	}},
	{"Cheese Toast", []demoIngredient{
		{"Bread", 2, "pcs"},
		{"Cheese", 2, "slice"},
	}},
	{"Garden Salad", []demoIngredient{
		{"Lettuce", 6, "leaf"},
		{"Tomato", 3, "slice"},
		{"Cheese", 1, "spoon"},
	}},
	{"Milkshake", []demoIngredient{
		{"Milk", 300, "ml"},
	}},
}

var fold = cases.Fold()

func nameKey(name string) string {
	return fold.String(strings.TrimSpace(name))
}

// DemoItemKeys returns the name keys of the demo inventory items.
func DemoItemKeys() []string {
	keys := make([]string, 0, len(demoItems))
	for _, item := range demoItems {
		keys = append(keys, nameKey(item.name))
	}
	return keys
}

// DemoRecipeKeys returns the product keys of the demo recipes.
func DemoRecipeKeys() []string {
	keys := make([]string, 0, len(demoRecipes))
	for _, recipe := range demoRecipes {
		keys = append(keys, nameKey(recipe.product))
	}
	return keys
}

// SeedInventory upserts the demo inventory items. Items that already exist
// keep their current stock.
func SeedInventory(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("inventory_items")
	now := time.Now()

	for _, item := range demoItems {
		key := nameKey(item.name)
		doc := bson.M{
			"_id":        uuid.New(),
			"name":       item.name,
			"name_key":   key,
			"category":   item.category,
			"quantity":   item.quantity,
			"unit":       item.unit,
			"unit_cost":  item.unitCost,
			"total_cost": item.quantity * item.unitCost,
			"created_at": now,
			"updated_at": now,
		}

		_, err := collection.UpdateOne(ctx, bson.M{"name_key": key}, bson.M{"$setOnInsert": doc}, options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("cannot seed inventory item %s: %w", item.name, err)
		}
	}

	return nil
}

// SeedRecipes upserts the demo recipes.
func SeedRecipes(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("recipes")
	now := time.Now()

	for _, recipe := range demoRecipes {
		key := nameKey(recipe.product)

		ingredients := make(bson.A, 0, len(recipe.ingredients))
		for _, ing := range recipe.ingredients {
			ingredients = append(ingredients, bson.M{
				"name":     ing.name,
				"quantity": ing.quantity,
				"unit":     ing.unit,
			})
		}

		doc := bson.M{
			"_id":          uuid.New(),
			"product_name": recipe.product,
			"product_key":  key,
			"ingredients":  ingredients,
			"created_at":   now,
			"updated_at":   now,
		}

		_, err := collection.UpdateOne(ctx, bson.M{"product_key": key}, bson.M{"$setOnInsert": doc}, options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("cannot seed recipe %s: %w", recipe.product, err)
		}
	}

	return nil
}

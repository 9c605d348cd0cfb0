package commands

import (
	"context"
	"fmt"

	"github.com/aquamarinepk/aqm"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/appetiteclub/pantry/cmd/utils/internal/seeding"
)

// ClearDemo removes the demo inventory items and recipes together with
// their seed tracker entries. Orders are left untouched.
func ClearDemo(ctx context.Context, config *aqm.Config, logger aqm.Logger) error {
	logger.Info("Starting demo data cleanup...")

	client, err := connectMongo(ctx, config, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	db := client.Database(databaseName(config))

	items, err := db.Collection("inventory_items").DeleteMany(ctx, bson.M{"name_key": bson.M{"$in": seeding.DemoItemKeys()}})
	if err != nil {
		return fmt.Errorf("delete demo inventory items: %w", err)
	}
	logger.Infof("Deleted %d demo inventory items", items.DeletedCount)

	recipes, err := db.Collection("recipes").DeleteMany(ctx, bson.M{"product_key": bson.M{"$in": seeding.DemoRecipeKeys()}})
	if err != nil {
		return fmt.Errorf("delete demo recipes: %w", err)
	}
	logger.Infof("Deleted %d demo recipes", recipes.DeletedCount)

	ids := []string{seeding.InventorySeedID, seeding.RecipesSeedID}
	tracker, err := db.Collection(seedsCollection).DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return fmt.Errorf("delete seed tracker: %w", err)
	}
	logger.Infof("Cleared %d seed tracker entries", tracker.DeletedCount)

	return nil
}

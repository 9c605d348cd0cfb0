package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/appetiteclub/pantry/cmd/utils/internal/seeding"
)

type demoSeed struct {
	id          string
	description string
	run         func(context.Context, *mongo.Database) error
}

var demoSeeds = []demoSeed{
	{seeding.InventorySeedID, "Create demo inventory items", seeding.SeedInventory},
	{seeding.RecipesSeedID, "Create demo recipes", seeding.SeedRecipes},
}

// SeedDemo applies the demo inventory and recipe seeds.
func SeedDemo(ctx context.Context, config *aqm.Config, logger aqm.Logger) error {
	logger.Info("Starting demo seeding process...")

	client, err := connectMongo(ctx, config, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	db := client.Database(databaseName(config))
	for _, s := range demoSeeds {
		if err := applySeed(ctx, db, s, logger); err != nil {
			return err
		}
	}

	return nil
}

func applySeed(ctx context.Context, db *mongo.Database, s demoSeed, logger aqm.Logger) error {
	seeds := db.Collection(seedsCollection)
	count, err := seeds.CountDocuments(ctx, bson.M{"_id": s.id})
	if err != nil {
		return fmt.Errorf("check seed status: %w", err)
	}

	if count > 0 {
		logger.Infof("Seed %s already applied, skipping", s.id)
		return nil
	}

	if err := s.run(ctx, db); err != nil {
		return fmt.Errorf("seed %s: %w", s.id, err)
	}

	_, err = seeds.InsertOne(ctx, bson.M{
		"_id":         s.id,
		"description": s.description,
		"applied_at":  time.Now(),
	})
	if err != nil {
		logger.Infof("Failed to mark seed %s as applied: %v", s.id, err)
	}

	logger.Infof("Seed %s applied", s.id)
	return nil
}

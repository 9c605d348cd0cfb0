package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appetiteclub/pantry/services/inventory/internal/inventory"
)

type InventoryRepo struct {
	collection *mongo.Collection
}

func NewInventoryRepo(db *mongo.Database) *InventoryRepo {
	return &InventoryRepo{
		collection: db.Collection(inventoryCollection),
	}
}

func (r *InventoryRepo) Create(ctx context.Context, item *inventory.InventoryItem) error {
	if item == nil {
		return fmt.Errorf("inventory item is nil")
	}

	item.Normalize()
	if _, err := r.collection.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("cannot create inventory item: %w", err)
	}

	return nil
}

func (r *InventoryRepo) Get(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *InventoryRepo) FindByName(ctx context.Context, name string) (*inventory.InventoryItem, error) {
	return r.findOne(ctx, bson.M{"name_key": inventory.NameKey(name)})
}

func (r *InventoryRepo) findOne(ctx context.Context, filter bson.M) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	err := r.collection.FindOne(ctx, filter).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get inventory item: %w", err)
	}
	return &item, nil
}

func (r *InventoryRepo) List(ctx context.Context) ([]*inventory.InventoryItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list inventory items: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*inventory.InventoryItem
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode inventory items: %w", err)
	}

	return result, nil
}

func (r *InventoryRepo) Save(ctx context.Context, item *inventory.InventoryItem, expected float64) error {
	if item == nil {
		return fmt.Errorf("inventory item is nil")
	}

	item.Normalize()
	filter := bson.M{"_id": item.ID, "quantity": expected}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": item})
	if err != nil {
		return fmt.Errorf("cannot update inventory item: %w", err)
	}

	if result.MatchedCount == 0 {
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": item.ID})
		if err != nil {
			return fmt.Errorf("cannot reload inventory item: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("inventory item not found")
		}
		return fmt.Errorf("%w: stock of %s changed", inventory.ErrConcurrentModification, item.Name)
	}

	return nil
}

// Decrement clamps at zero server side so it composes with payment commits.
func (r *InventoryRepo) Decrement(ctx context.Context, id uuid.UUID, amount float64) (*inventory.InventoryItem, error) {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "quantity", Value: bson.D{{Key: "$max", Value: bson.A{
				0,
				bson.D{{Key: "$subtract", Value: bson.A{"$quantity", amount}}},
			}}}},
			{Key: "updated_at", Value: time.Now()},
		}}},
		{{Key: "$set", Value: bson.D{
			{Key: "total_cost", Value: bson.D{{Key: "$multiply", Value: bson.A{"$quantity", "$unit_cost"}}}},
		}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item inventory.InventoryItem
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot decrement inventory item: %w", err)
	}
	return &item, nil
}

func (r *InventoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("cannot delete inventory item: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("inventory item not found")
	}

	return nil
}

package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appetiteclub/pantry/services/inventory/internal/inventory"
)

type RecipeRepo struct {
	collection *mongo.Collection
}

func NewRecipeRepo(db *mongo.Database) *RecipeRepo {
	return &RecipeRepo{
		collection: db.Collection(recipeCollection),
	}
}

func (r *RecipeRepo) Create(ctx context.Context, recipe *inventory.Recipe) error {
	if recipe == nil {
		return fmt.Errorf("recipe is nil")
	}

	recipe.Normalize()
	if _, err := r.collection.InsertOne(ctx, recipe); err != nil {
		return fmt.Errorf("cannot create recipe: %w", err)
	}

	return nil
}

func (r *RecipeRepo) Get(ctx context.Context, id uuid.UUID) (*inventory.Recipe, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *RecipeRepo) FindByProductName(ctx context.Context, name string) (*inventory.Recipe, error) {
	return r.findOne(ctx, bson.M{"product_key": inventory.NameKey(name)})
}

func (r *RecipeRepo) findOne(ctx context.Context, filter bson.M) (*inventory.Recipe, error) {
	var recipe inventory.Recipe
	err := r.collection.FindOne(ctx, filter).Decode(&recipe)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get recipe: %w", err)
	}
	return &recipe, nil
}

func (r *RecipeRepo) List(ctx context.Context) ([]*inventory.Recipe, error) {
	opts := options.Find().SetSort(bson.D{{Key: "product_name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list recipes: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*inventory.Recipe
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode recipes: %w", err)
	}

	return result, nil
}

func (r *RecipeRepo) Save(ctx context.Context, recipe *inventory.Recipe) error {
	if recipe == nil {
		return fmt.Errorf("recipe is nil")
	}

	recipe.Normalize()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": recipe.ID}, bson.M{"$set": recipe})
	if err != nil {
		return fmt.Errorf("cannot update recipe: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("recipe not found")
	}

	return nil
}

func (r *RecipeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("cannot delete recipe: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("recipe not found")
	}

	return nil
}

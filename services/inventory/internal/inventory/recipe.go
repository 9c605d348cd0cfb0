package inventory

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
)

const (
	DefaultIngredientUnit = "pcs"
	MinIngredientQuantity = 0.0001
)

type Recipe struct {
	ID          uuid.UUID    `json:"id" bson:"_id"`
	ProductName string       `json:"product_name" bson:"product_name"`
	ProductKey  string       `json:"-" bson:"product_key"`
	Ingredients []Ingredient `json:"ingredients" bson:"ingredients"`
	CreatedAt   time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" bson:"updated_at"`
}

// Ingredient is the amount of one inventory item consumed by a single unit
// of a recipe's product.
type Ingredient struct {
	Name     string  `json:"name" bson:"name"`
	Quantity float64 `json:"quantity" bson:"quantity"`
	Unit     string  `json:"unit" bson:"unit"`
}

func NewRecipe(productName string, ingredients ...Ingredient) *Recipe {
	r := &Recipe{
		ProductName: productName,
		Ingredients: ingredients,
	}
	r.BeforeCreate()
	return r
}

func (r *Recipe) GetID() uuid.UUID {
	return r.ID
}

func (r *Recipe) ResourceType() string {
	return "recipe"
}

func (r *Recipe) EnsureID() {
	if r.ID == uuid.Nil {
		r.ID = aqm.GenerateNewID()
	}
}

func (r *Recipe) Normalize() {
	r.ProductName = strings.TrimSpace(r.ProductName)
	r.ProductKey = NameKey(r.ProductName)
	for i := range r.Ingredients {
		ing := &r.Ingredients[i]
		ing.Name = strings.TrimSpace(ing.Name)
		ing.Unit = strings.TrimSpace(ing.Unit)
		if ing.Unit == "" {
			ing.Unit = DefaultIngredientUnit
		}
	}
}

func (r *Recipe) BeforeCreate() {
	r.EnsureID()
	r.Normalize()
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
}

func (r *Recipe) BeforeUpdate() {
	r.Normalize()
	r.UpdatedAt = time.Now()
}

func (r *Recipe) Validate() error {
	if strings.TrimSpace(r.ProductName) == "" {
		return errors.New("product_name is required")
	}
	if len(r.Ingredients) == 0 {
		return errors.New("at least one ingredient is required")
	}
	for i, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return fmt.Errorf("ingredient %d: name is required", i)
		}
		if !(ing.Quantity >= MinIngredientQuantity) {
			return fmt.Errorf("ingredient %q: quantity must be at least %g", ing.Name, MinIngredientQuantity)
		}
	}
	return nil
}

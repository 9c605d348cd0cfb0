package inventory

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
)

type InventoryItem struct {
	ID        uuid.UUID `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	NameKey   string    `json:"-" bson:"name_key"`
	Category  string    `json:"category" bson:"category"`
	Quantity  float64   `json:"quantity" bson:"quantity"`
	Unit      string    `json:"unit" bson:"unit"`
	UnitCost  float64   `json:"unit_cost" bson:"unit_cost"`
	TotalCost float64   `json:"total_cost" bson:"total_cost"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func NewInventoryItem(name, category string, quantity float64, unit string, unitCost float64) *InventoryItem {
	item := &InventoryItem{
		Name:     name,
		Category: category,
		Unit:     unit,
		UnitCost: unitCost,
	}
	item.SetQuantity(quantity)
	item.BeforeCreate()
	return item
}

func (i *InventoryItem) GetID() uuid.UUID {
	return i.ID
}

func (i *InventoryItem) ResourceType() string {
	return "inventory-item"
}

func (i *InventoryItem) EnsureID() {
	if i.ID == uuid.Nil {
		i.ID = aqm.GenerateNewID()
	}
}

func (i *InventoryItem) Normalize() {
	i.Name = strings.TrimSpace(i.Name)
	i.Category = strings.TrimSpace(i.Category)
	i.Unit = strings.TrimSpace(i.Unit)
	i.NameKey = NameKey(i.Name)
}

func (i *InventoryItem) BeforeCreate() {
	i.EnsureID()
	i.Normalize()
	i.TotalCost = i.Quantity * i.UnitCost
	i.CreatedAt = time.Now()
	i.UpdatedAt = time.Now()
}

func (i *InventoryItem) BeforeUpdate() {
	i.Normalize()
	i.TotalCost = i.Quantity * i.UnitCost
	i.UpdatedAt = time.Now()
}

// SetQuantity stores q and keeps TotalCost in step with it.
func (i *InventoryItem) SetQuantity(q float64) {
	i.Quantity = q
	i.TotalCost = q * i.UnitCost
}

// Decrement lowers stock by amount, never below zero.
func (i *InventoryItem) Decrement(amount float64) {
	i.SetQuantity(math.Max(0, i.Quantity-amount))
	i.UpdatedAt = time.Now()
}

func (i *InventoryItem) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(i.Unit) == "" {
		return errors.New("unit is required")
	}
	if i.Quantity < 0 || math.IsNaN(i.Quantity) || math.IsInf(i.Quantity, 0) {
		return errors.New("quantity must be a non-negative number")
	}
	if i.UnitCost < 0 || math.IsNaN(i.UnitCost) || math.IsInf(i.UnitCost, 0) {
		return errors.New("unit_cost must be a non-negative number")
	}
	return nil
}

package inventory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/aquamarinepk/aqm/events"
	"github.com/google/uuid"
)

// mockDB backs the mock repositories with one lock so the mock ledger can
// commit atomically across them.
type mockDB struct {
	mu      sync.Mutex
	items   map[uuid.UUID]*InventoryItem
	recipes map[uuid.UUID]*Recipe
	orders  map[uuid.UUID]*Order
}

func newMockDB() *mockDB {
	return &mockDB{
		items:   make(map[uuid.UUID]*InventoryItem),
		recipes: make(map[uuid.UUID]*Recipe),
		orders:  make(map[uuid.UUID]*Order),
	}
}

func copyItem(i *InventoryItem) *InventoryItem {
	c := *i
	return &c
}

func copyRecipe(r *Recipe) *Recipe {
	c := *r
	c.Ingredients = append([]Ingredient(nil), r.Ingredients...)
	return &c
}

func copyOrder(o *Order) *Order {
	c := *o
	c.Items = append([]OrderItem(nil), o.Items...)
	return &c
}

type mockEnv struct {
	db        *mockDB
	inventory *MockInventoryRepo
	recipes   *MockRecipeRepo
	orders    *MockOrderRepo
	ledger    *MockLedger
}

func newMockEnv() *mockEnv {
	db := newMockDB()
	return &mockEnv{
		db:        db,
		inventory: &MockInventoryRepo{db: db},
		recipes:   &MockRecipeRepo{db: db},
		orders:    &MockOrderRepo{db: db},
		ledger:    &MockLedger{db: db},
	}
}

func (e *mockEnv) repos() Repos {
	return Repos{
		InventoryRepo: e.inventory,
		RecipeRepo:    e.recipes,
		OrderRepo:     e.orders,
		Ledger:        e.ledger,
	}
}

func (e *mockEnv) addItem(name string, quantity float64, unit string) *InventoryItem {
	item := NewInventoryItem(name, "Test", quantity, unit, 1)
	e.db.mu.Lock()
	e.db.items[item.ID] = copyItem(item)
	e.db.mu.Unlock()
	return item
}

func (e *mockEnv) addRecipe(product string, ingredients ...Ingredient) *Recipe {
	recipe := NewRecipe(product, ingredients...)
	e.db.mu.Lock()
	e.db.recipes[recipe.ID] = copyRecipe(recipe)
	e.db.mu.Unlock()
	return recipe
}

func (e *mockEnv) addOrder(items ...OrderItem) *Order {
	order := NewOrder("", items...)
	e.db.mu.Lock()
	e.db.orders[order.ID] = copyOrder(order)
	e.db.mu.Unlock()
	return order
}

func (e *mockEnv) item(id uuid.UUID) *InventoryItem {
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	return copyItem(e.db.items[id])
}

func (e *mockEnv) order(id uuid.UUID) *Order {
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	return copyOrder(e.db.orders[id])
}

type MockInventoryRepo struct {
	db             *mockDB
	CreateFunc     func(ctx context.Context, item *InventoryItem) error
	GetFunc        func(ctx context.Context, id uuid.UUID) (*InventoryItem, error)
	FindByNameFunc func(ctx context.Context, name string) (*InventoryItem, error)
	ListFunc       func(ctx context.Context) ([]*InventoryItem, error)
	SaveFunc       func(ctx context.Context, item *InventoryItem, expected float64) error
	DecrementFunc  func(ctx context.Context, id uuid.UUID, amount float64) (*InventoryItem, error)
}

func (m *MockInventoryRepo) Create(ctx context.Context, item *InventoryItem) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, item)
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	item.Normalize()
	m.db.items[item.ID] = copyItem(item)
	return nil
}

func (m *MockInventoryRepo) Get(ctx context.Context, id uuid.UUID) (*InventoryItem, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	item, ok := m.db.items[id]
	if !ok {
		return nil, nil
	}
	return copyItem(item), nil
}

func (m *MockInventoryRepo) FindByName(ctx context.Context, name string) (*InventoryItem, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, name)
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	key := NameKey(name)
	for _, item := range m.db.items {
		if item.NameKey == key {
			return copyItem(item), nil
		}
	}
	return nil, nil
}

func (m *MockInventoryRepo) List(ctx context.Context) ([]*InventoryItem, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var result []*InventoryItem
	for _, item := range m.db.items {
		result = append(result, copyItem(item))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *MockInventoryRepo) Save(ctx context.Context, item *InventoryItem, expected float64) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, item, expected)
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	stored, ok := m.db.items[item.ID]
	if !ok {
		return errors.New("inventory item not found")
	}
	if stored.Quantity != expected {
		return ErrConcurrentModification
	}
	item.Normalize()
	m.db.items[item.ID] = copyItem(item)
	return nil
}

func (m *MockInventoryRepo) Decrement(ctx context.Context, id uuid.UUID, amount float64) (*InventoryItem, error) {
	if m.DecrementFunc != nil {
		return m.DecrementFunc(ctx, id, amount)
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	stored, ok := m.db.items[id]
	if !ok {
		return nil, nil
	}
	stored.Decrement(amount)
	return copyItem(stored), nil
}

func (m *MockInventoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.items[id]; !ok {
		return errors.New("inventory item not found")
	}
	delete(m.db.items, id)
	return nil
}

type MockRecipeRepo struct {
	db                    *mockDB
	FindByProductNameFunc func(ctx context.Context, name string) (*Recipe, error)
	findCalls             int
}

func (m *MockRecipeRepo) Create(ctx context.Context, recipe *Recipe) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	recipe.Normalize()
	m.db.recipes[recipe.ID] = copyRecipe(recipe)
	return nil
}

func (m *MockRecipeRepo) Get(ctx context.Context, id uuid.UUID) (*Recipe, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	recipe, ok := m.db.recipes[id]
	if !ok {
		return nil, nil
	}
	return copyRecipe(recipe), nil
}

func (m *MockRecipeRepo) FindByProductName(ctx context.Context, name string) (*Recipe, error) {
	m.db.mu.Lock()
	m.findCalls++
	m.db.mu.Unlock()

	if m.FindByProductNameFunc != nil {
		return m.FindByProductNameFunc(ctx, name)
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	key := NameKey(name)
	for _, recipe := range m.db.recipes {
		if recipe.ProductKey == key {
			return copyRecipe(recipe), nil
		}
	}
	return nil, nil
}

func (m *MockRecipeRepo) List(ctx context.Context) ([]*Recipe, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var result []*Recipe
	for _, recipe := range m.db.recipes {
		result = append(result, copyRecipe(recipe))
	}
	return result, nil
}

func (m *MockRecipeRepo) Save(ctx context.Context, recipe *Recipe) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.recipes[recipe.ID]; !ok {
		return errors.New("recipe not found")
	}
	recipe.Normalize()
	m.db.recipes[recipe.ID] = copyRecipe(recipe)
	return nil
}

func (m *MockRecipeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.recipes[id]; !ok {
		return errors.New("recipe not found")
	}
	delete(m.db.recipes, id)
	return nil
}

func (m *MockRecipeRepo) calls() int {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	return m.findCalls
}

type MockOrderRepo struct {
	db         *mockDB
	CreateFunc func(ctx context.Context, order *Order) error
	GetFunc    func(ctx context.Context, id uuid.UUID) (*Order, error)
}

func (m *MockOrderRepo) Create(ctx context.Context, order *Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, order)
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.orders[order.ID] = copyOrder(order)
	return nil
}

func (m *MockOrderRepo) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	order, ok := m.db.orders[id]
	if !ok {
		return nil, nil
	}
	return copyOrder(order), nil
}

func (m *MockOrderRepo) List(ctx context.Context) ([]*Order, error) {
	return m.ListByStatus(ctx, "")
}

func (m *MockOrderRepo) ListByStatus(ctx context.Context, status string) ([]*Order, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var result []*Order
	for _, order := range m.db.orders {
		if status == "" || order.Status == status {
			result = append(result, copyOrder(order))
		}
	}
	return result, nil
}

func (m *MockOrderRepo) Save(ctx context.Context, order *Order) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	stored, ok := m.db.orders[order.ID]
	if !ok || stored.Status != StatusPending {
		return ErrConcurrentModification
	}
	m.db.orders[order.ID] = copyOrder(order)
	return nil
}

func (m *MockOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.orders[id]; !ok {
		return errors.New("order not found")
	}
	delete(m.db.orders, id)
	return nil
}

// MockLedger applies payments with the same compare-and-swap rules as the
// Mongo ledger.
type MockLedger struct {
	db                *mockDB
	CommitPaymentFunc func(ctx context.Context, order *Order, deductions []Deduction) error
	commitCalls       int
}

func (m *MockLedger) CommitPayment(ctx context.Context, order *Order, deductions []Deduction) error {
	m.db.mu.Lock()
	m.commitCalls++
	m.db.mu.Unlock()

	if m.CommitPaymentFunc != nil {
		return m.CommitPaymentFunc(ctx, order, deductions)
	}
	return m.commit(order, deductions)
}

func (m *MockLedger) commit(order *Order, deductions []Deduction) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	for _, d := range deductions {
		item, ok := m.db.items[d.ItemID]
		if !ok || item.Quantity != d.Expected {
			return ErrConcurrentModification
		}
	}

	stored, ok := m.db.orders[order.ID]
	switch {
	case !ok:
		return ErrOrderNotFound
	case stored.Status == StatusPaid:
		return ErrAlreadyPaid
	case stored.Status != StatusPending:
		return ErrOrderNotPayable
	}

	for _, d := range deductions {
		item := m.db.items[d.ItemID]
		item.Quantity = d.NewQuantity
		item.TotalCost = d.NewTotalCost
	}
	m.db.orders[order.ID] = copyOrder(order)
	return nil
}

func (m *MockLedger) calls() int {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	return m.commitCalls
}

type publishedMessage struct {
	Topic string
	Data  []byte
}

// MockPublisher implements events.Publisher for testing
type MockPublisher struct {
	mu          sync.Mutex
	messages    []publishedMessage
	PublishFunc func(ctx context.Context, topic string, msg []byte) error
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, publishedMessage{Topic: topic, Data: msg})
	return nil
}

func (m *MockPublisher) published() []publishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]publishedMessage(nil), m.messages...)
}

// MockSubscriber implements events.Subscriber for testing
type MockSubscriber struct {
	SubscribeFunc func(ctx context.Context, topic string, handler events.HandlerFunc) error
}

func (m *MockSubscriber) Subscribe(ctx context.Context, topic string, handler events.HandlerFunc) error {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, topic, handler)
	}
	return nil
}

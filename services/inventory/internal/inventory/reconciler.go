package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/appetiteclub/pantry/pkg/event"
	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
	"github.com/google/uuid"
)

const DefaultMaxRetries = 3

type ReconcilerDeps struct {
	Repos     Repos
	Converter *UnitConverter
	Publisher events.Publisher
}

// PaymentResult is returned for a committed payment.
type PaymentResult struct {
	Order      *Order           `json:"order"`
	Items      []*InventoryItem `json:"items"`
	Deductions []Deduction      `json:"deductions"`
}

// Reconciler pays orders by deducting the ingredients they consume from
// inventory. Validation runs against a snapshot; the commit is rejected if
// any item changed since, and the whole payment is re-planned.
type Reconciler struct {
	orders     OrderRepo
	ledger     PaymentLedger
	resolver   *RecipeResolver
	validator  *StockValidator
	publisher  events.Publisher
	maxRetries int
	logger     aqm.Logger
	now        func() time.Time
}

func NewReconciler(deps ReconcilerDeps, maxRetries int, logger aqm.Logger) *Reconciler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	converter := deps.Converter
	if converter == nil {
		converter = NewUnitConverter(DefaultUnitTable())
	}

	return &Reconciler{
		orders:     deps.Repos.OrderRepo,
		ledger:     deps.Repos.Ledger,
		resolver:   NewRecipeResolver(deps.Repos.RecipeRepo),
		validator:  NewStockValidator(deps.Repos.InventoryRepo, converter),
		publisher:  deps.Publisher,
		maxRetries: maxRetries,
		logger:     logger.With("component", "reconciler"),
		now:        time.Now,
	}
}

// PayOrder moves a pending order to paid and deducts its ingredients. Either
// everything is applied or nothing is.
func (r *Reconciler) PayOrder(ctx context.Context, id uuid.UUID) (*PaymentResult, error) {
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := r.pay(ctx, id)
		if err == nil {
			r.publishPaid(ctx, result)
			return result, nil
		}

		if !errors.Is(err, ErrConcurrentModification) {
			return nil, err
		}

		r.logger.Info("payment conflicted with a concurrent write", "order_id", id.String(), "attempt", attempt+1)
	}

	return nil, fmt.Errorf("%w: order %s still contended after %d attempts",
		ErrConcurrentModification, id, r.maxRetries+1)
}

func (r *Reconciler) pay(ctx context.Context, id uuid.UUID) (*PaymentResult, error) {
	order, err := r.orders.Get(ctx, id)
	if err != nil {
		return nil, persistenceError("load order", err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}

	switch {
	case order.IsPaid():
		return nil, ErrAlreadyPaid
	case !order.IsPending():
		return nil, fmt.Errorf("%w: status is %s", ErrOrderNotPayable, order.Status)
	}

	if err := validateOrderItems(order.Items); err != nil {
		return nil, err
	}

	var draws []Draw
	for _, item := range order.Items {
		d, err := r.resolver.Resolve(ctx, item.Name, item.Quantity)
		if err != nil {
			return nil, err
		}
		draws = append(draws, d...)
	}

	plan, err := r.validator.Plan(ctx, draws)
	if err != nil {
		return nil, err
	}

	paid := *order
	paid.MarkAsPaid(r.now())

	if err := r.ledger.CommitPayment(ctx, &paid, plan.Deductions); err != nil {
		if isCommitRejection(err) {
			return nil, err
		}
		return nil, persistenceError("commit payment", err)
	}

	items := make([]*InventoryItem, 0, len(plan.Items))
	for i, snapshot := range plan.Items {
		updated := *snapshot
		updated.Quantity = plan.Deductions[i].NewQuantity
		updated.TotalCost = plan.Deductions[i].NewTotalCost
		updated.UpdatedAt = *paid.PaidAt
		items = append(items, &updated)
	}

	return &PaymentResult{
		Order:      &paid,
		Items:      items,
		Deductions: plan.Deductions,
	}, nil
}

// isCommitRejection reports ledger errors that already carry their meaning.
func isCommitRejection(err error) bool {
	for _, target := range []error{
		ErrConcurrentModification,
		ErrAlreadyPaid,
		ErrOrderNotFound,
		ErrOrderNotPayable,
		ErrPersistence,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func validateOrderItems(items []OrderItem) error {
	if len(items) == 0 {
		return &InvalidOrderItemError{Index: -1, Reason: "order has no items"}
	}

	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return &InvalidOrderItemError{Index: i, Reason: "name is required"}
		}
		q := item.Quantity
		if math.IsNaN(q) || math.IsInf(q, 0) || q <= 0 {
			return &InvalidOrderItemError{Index: i, Name: item.Name, Reason: "quantity must be greater than zero"}
		}
	}

	return nil
}

func (r *Reconciler) publishPaid(ctx context.Context, result *PaymentResult) {
	if r.publisher == nil {
		return
	}

	now := r.now()
	orderID := result.Order.ID.String()

	paidEvt := event.OrderPaidEvent{
		EventType:   event.EventOrderPaid,
		OccurredAt:  now,
		OrderID:     orderID,
		Customer:    result.Order.Customer,
		TotalAmount: result.Order.TotalAmount,
	}
	for _, d := range result.Deductions {
		paidEvt.Deductions = append(paidEvt.Deductions, event.StockDeduction{
			ItemID:    d.ItemID.String(),
			Name:      d.Name,
			Unit:      d.Unit,
			Amount:    d.Amount,
			Remaining: d.NewQuantity,
		})
	}
	r.publish(ctx, paidEvt, "order_id", orderID)

	for _, d := range result.Deductions {
		if d.NewQuantity > 0 {
			continue
		}
		r.publish(ctx, event.StockDepletedEvent{
			EventType:  event.EventStockDepleted,
			OccurredAt: now,
			ItemID:     d.ItemID.String(),
			Name:       d.Name,
			Unit:       d.Unit,
			OrderID:    orderID,
		}, "item", d.Name)
	}
}

func (r *Reconciler) publish(ctx context.Context, evt interface{}, kv ...interface{}) {
	payload, err := json.Marshal(evt)
	if err != nil {
		r.logger.Error("cannot marshal inventory event", append(kv, "error", err)...)
		return
	}

	if err := r.publisher.Publish(ctx, event.InventoryTopic, payload); err != nil {
		r.logger.Error("cannot publish inventory event", append(kv, "error", err)...)
	}
}

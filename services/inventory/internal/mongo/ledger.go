package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/appetiteclub/pantry/services/inventory/internal/inventory"
)

// PaymentLedger commits payments in a multi-document transaction. It needs
// a replica set or sharded cluster.
type PaymentLedger struct {
	client *mongo.Client
	items  *mongo.Collection
	orders *mongo.Collection
}

func NewPaymentLedger(db *mongo.Database) *PaymentLedger {
	return &PaymentLedger{
		client: db.Client(),
		items:  db.Collection(inventoryCollection),
		orders: db.Collection(orderCollection),
	}
}

func (l *PaymentLedger) CommitPayment(ctx context.Context, order *inventory.Order, deductions []inventory.Deduction) error {
	if order == nil {
		return fmt.Errorf("order is nil")
	}

	session, err := l.client.StartSession()
	if err != nil {
		return fmt.Errorf("cannot start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, l.apply(sc, order, deductions)
	})
	return transactionError(err)
}

// transactionError reports write conflicts the driver gave up retrying as
// concurrent modifications.
func transactionError(err error) error {
	if err == nil {
		return nil
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.HasErrorLabel("TransientTransactionError") {
		return fmt.Errorf("%w: %v", inventory.ErrConcurrentModification, err)
	}
	return err
}

func (l *PaymentLedger) apply(ctx mongo.SessionContext, order *inventory.Order, deductions []inventory.Deduction) error {
	for _, d := range deductions {
		filter := bson.M{"_id": d.ItemID, "quantity": d.Expected}
		update := bson.M{"$set": bson.M{
			"quantity":   d.NewQuantity,
			"total_cost": d.NewTotalCost,
			"updated_at": order.UpdatedAt,
		}}

		result, err := l.items.UpdateOne(ctx, filter, update)
		if err != nil {
			return fmt.Errorf("cannot deduct %s: %w", d.Name, err)
		}
		if result.MatchedCount == 0 {
			return fmt.Errorf("%w: stock of %s changed", inventory.ErrConcurrentModification, d.Name)
		}
	}

	filter := bson.M{"_id": order.ID, "status": inventory.StatusPending}
	update := bson.M{"$set": bson.M{
		"status":     order.Status,
		"paid_at":    order.PaidAt,
		"updated_at": order.UpdatedAt,
	}}

	result, err := l.orders.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("cannot mark order paid: %w", err)
	}
	if result.MatchedCount == 0 {
		return l.orderConflict(ctx, order)
	}

	return nil
}

// orderConflict explains why the pending order could not be matched.
func (l *PaymentLedger) orderConflict(ctx context.Context, order *inventory.Order) error {
	var current struct {
		Status string `bson:"status"`
	}
	err := l.orders.FindOne(ctx, bson.M{"_id": order.ID}).Decode(&current)
	return orderStatusConflict(order.ID, current.Status, err)
}

func orderStatusConflict(id uuid.UUID, status string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%w: %s", inventory.ErrOrderNotFound, id)
	case err != nil:
		return fmt.Errorf("cannot reload order: %w", err)
	case status == inventory.StatusPaid:
		return inventory.ErrAlreadyPaid
	default:
		return fmt.Errorf("%w: status is %s", inventory.ErrOrderNotPayable, status)
	}
}

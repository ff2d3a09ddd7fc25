package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/order"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"go.uber.org/zap"
)

// StageCount is the number of live orders currently in a stage
type StageCount struct {
	Status order.Status `json:"status"`
	Count  int64        `json:"count"`
}

// Engine drives orders through their workflow and keeps their history
type Engine struct {
	orders order.OrderRepository
	logger *zap.Logger
}

// NewEngine creates a workflow engine over the given repository
func NewEngine(orders order.OrderRepository, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{orders: orders, logger: logger}
}

// Create places a new order with its "Order Created" history entry
func (e *Engine) Create(ctx context.Context, partyID uuid.UUID, initial order.Status, details order.Details, actor shared.Actor) (*order.Order, error) {
	o, err := order.NewOrder(partyID, initial, details, actor)
	if err != nil {
		return nil, err
	}
	if err := e.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	e.logger.Info("order created",
		zap.String("order_id", o.ID.String()),
		zap.String("po_number", o.PONumber),
		zap.String("status", string(o.Status)),
		zap.String("actor_id", actor.ID),
	)
	return o, nil
}

// Get loads an order
func (e *Engine) Get(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	o, err := e.orders.FindByID(ctx, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError("ORDER_NOT_FOUND", fmt.Sprintf("Order %s not found", id))
		}
		return nil, err
	}
	return o, nil
}

// ChangeStatus moves an order to a new status and appends one history entry
func (e *Engine) ChangeStatus(ctx context.Context, id uuid.UUID, target order.Status, note string, actor shared.Actor) (*order.Order, error) {
	o, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	from := o.Status
	expected := o.Version
	if err := o.ChangeStatus(target, note, actor); err != nil {
		return nil, err
	}
	if err := e.orders.Update(ctx, o, expected); err != nil {
		return nil, err
	}
	e.logger.Info("order status changed",
		zap.String("order_id", o.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(o.Status)),
		zap.String("actor_id", actor.ID),
	)
	return o, nil
}

// UpdateDetails edits the non-workflow fields of a live order
func (e *Engine) UpdateDetails(ctx context.Context, id uuid.UUID, details order.Details) (*order.Order, error) {
	o, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := o.Version
	if err := o.UpdateDetails(details); err != nil {
		return nil, err
	}
	if err := e.orders.Update(ctx, o, expected); err != nil {
		return nil, err
	}
	return o, nil
}

// Delete soft-deletes an order by moving it to Deleted
func (e *Engine) Delete(ctx context.Context, id uuid.UUID, actor shared.Actor) (*order.Order, error) {
	return e.ChangeStatus(ctx, id, order.StatusDeleted, order.NoteOrderDeleted, actor)
}

// List returns a page of orders
func (e *Engine) List(ctx context.Context, filter order.OrderFilter) (shared.Paginated[order.Order], error) {
	filter.Filter = filter.Filter.Normalize()
	orders, err := e.orders.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[order.Order]{}, err
	}
	total, err := e.orders.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[order.Order]{}, err
	}
	return shared.NewPaginated(orders, total, filter.Page, filter.PageSize), nil
}

// StageCounts tallies live orders per stage. Every stage appears, in
// pipeline order, with zero when no order is in it. Deleted is excluded.
func (e *Engine) StageCounts(ctx context.Context) ([]StageCount, error) {
	byStatus, err := e.orders.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count orders by status: %w", err)
	}
	counts := make([]StageCount, 0, len(order.Stages))
	for _, st := range order.Stages {
		counts = append(counts, StageCount{Status: st, Count: byStatus[st]})
	}
	return counts, nil
}

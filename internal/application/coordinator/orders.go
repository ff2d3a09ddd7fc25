package coordinator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/order"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
)

// CreateOrder places an order for an existing party. Line item names are
// filled from the catalog when the caller leaves them empty.
func (c *Coordinator) CreateOrder(ctx context.Context, partyID uuid.UUID, initial order.Status, details order.Details, actor shared.Actor) (*order.Order, error) {
	var o *order.Order
	err := c.run(ctx, "create_order", actor, func(u *unit) error {
		if _, err := requireParty(ctx, u.repos, partyID); err != nil {
			return err
		}
		if err := resolveOrderLines(ctx, u, details.Lines); err != nil {
			return err
		}
		var err error
		o, err = u.workflow.Create(ctx, partyID, initial, details, actor)
		if err != nil {
			return step("persist order", err)
		}
		u.collect(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// ChangeOrderStatus moves an order through the workflow
func (c *Coordinator) ChangeOrderStatus(ctx context.Context, id uuid.UUID, status order.Status, note string, actor shared.Actor) (*order.Order, error) {
	var o *order.Order
	err := c.run(ctx, "change_order_status", actor, func(u *unit) error {
		var err error
		o, err = u.workflow.ChangeStatus(ctx, id, status, note, actor)
		if err != nil {
			return step("change order status", err)
		}
		u.collect(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateOrderDetails edits a live order's fields and lines
func (c *Coordinator) UpdateOrderDetails(ctx context.Context, id uuid.UUID, details order.Details, actor shared.Actor) (*order.Order, error) {
	var o *order.Order
	err := c.run(ctx, "update_order", actor, func(u *unit) error {
		if err := resolveOrderLines(ctx, u, details.Lines); err != nil {
			return err
		}
		var err error
		o, err = u.workflow.UpdateDetails(ctx, id, details)
		if err != nil {
			return step("update order", err)
		}
		u.collect(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// DeleteOrder soft-deletes an order through the workflow
func (c *Coordinator) DeleteOrder(ctx context.Context, id uuid.UUID, actor shared.Actor) (*order.Order, error) {
	var o *order.Order
	err := c.run(ctx, "delete_order", actor, func(u *unit) error {
		var err error
		o, err = u.workflow.Delete(ctx, id, actor)
		if err != nil {
			return step("delete order", err)
		}
		u.collect(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// resolveOrderLines checks that every line references a known item and
// fills in missing names and units
func resolveOrderLines(ctx context.Context, u *unit, lines []order.Line) error {
	if len(lines) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ItemID)
	}
	items, err := u.repos.Items().FindByIDs(ctx, ids)
	if err != nil {
		return step("load items", err)
	}
	byID := make(map[uuid.UUID]int, len(items))
	for i := range items {
		byID[items[i].ID] = i
	}
	for i := range lines {
		idx, ok := byID[lines[i].ItemID]
		if !ok {
			return shared.NewNotFoundError("ITEM_NOT_FOUND", fmt.Sprintf("Item %s not found", lines[i].ItemID))
		}
		if lines[i].ItemName == "" {
			lines[i].ItemName = items[idx].Name
		}
		if lines[i].Unit == "" {
			lines[i].Unit = items[idx].Unit
		}
	}
	return nil
}

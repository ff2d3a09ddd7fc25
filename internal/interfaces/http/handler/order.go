package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/application/ledger"
	"github.com/sharadhiadiga/Elint/internal/application/workflow"
	"github.com/sharadhiadiga/Elint/internal/domain/order"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/interfaces/http/middleware"
)

// OrderWriter runs order mutations inside a unit of work
type OrderWriter interface {
	CreateOrder(ctx context.Context, partyID uuid.UUID, initial order.Status, details order.Details, actor shared.Actor) (*order.Order, error)
	ChangeOrderStatus(ctx context.Context, id uuid.UUID, status order.Status, note string, actor shared.Actor) (*order.Order, error)
	UpdateOrderDetails(ctx context.Context, id uuid.UUID, details order.Details, actor shared.Actor) (*order.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID, actor shared.Actor) (*order.Order, error)
}

// OrderReader serves order reads and the stage dashboard
type OrderReader interface {
	Get(ctx context.Context, id uuid.UUID) (*order.Order, error)
	List(ctx context.Context, filter order.OrderFilter) (shared.Paginated[order.Order], error)
	StageCounts(ctx context.Context) ([]workflow.StageCount, error)
}

// OrderHandler handles the manufacturing order workflow endpoints
type OrderHandler struct {
	BaseHandler
	writer OrderWriter
	reader OrderReader
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(writer OrderWriter, reader OrderReader) *OrderHandler {
	return &OrderHandler{writer: writer, reader: reader}
}

// Create godoc
// @Summary      Place an order
// @Description  Creates an order in New (or the given stage) with an "Order Created" history entry.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body ledger.CreateOrderRequest true "Order"
// @Success      201 {object} APIResponse[ledger.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req ledger.CreateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	details, err := req.ToDetails()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	o, err := h.writer.CreateOrder(c.Request.Context(), req.PartyID, order.Status(req.Status), details, middleware.GetActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ledger.ToOrderResponse(o))
}

// GetByID godoc
// @Summary      Get an order with its status history
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[ledger.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "order")
	if !ok {
		return
	}

	o, err := h.reader.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ledger.ToOrderResponse(o))
}

// List godoc
// @Summary      List orders
// @Description  Deleted orders are only listed when asked for by status.
// @Tags         orders
// @Produce      json
// @Param        search    query string false "PO number search"
// @Param        status    query string false "Order status"
// @Param        party_id  query string false "Party ID" format(uuid)
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]ledger.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var filter ledger.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.reader.List(c.Request.Context(), filter.ToDomain())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := shared.Paginated[ledger.OrderResponse]{
		Items:      make([]ledger.OrderResponse, 0, len(page.Items)),
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
	for i := range page.Items {
		out.Items = append(out.Items, ledger.ToOrderResponse(&page.Items[i]))
	}
	paginated(c, out)
}

// Update godoc
// @Summary      Edit an order's details and lines
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body ledger.OrderDetailsRequest true "Order details"
// @Success      200 {object} APIResponse[ledger.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [put]
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "order")
	if !ok {
		return
	}
	var req ledger.OrderDetailsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	details, err := req.ToDetails()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	o, err := h.writer.UpdateOrderDetails(c.Request.Context(), id, details, middleware.GetActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ledger.ToOrderResponse(o))
}

// ChangeStatus godoc
// @Summary      Move an order to another stage
// @Description  Appends one history entry. Deleted orders cannot change status.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body ledger.ChangeStatusRequest true "Target status"
// @Success      200 {object} APIResponse[ledger.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/status [patch]
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	id, ok := h.parseID(c, "order")
	if !ok {
		return
	}
	var req ledger.ChangeStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	o, err := h.writer.ChangeOrderStatus(c.Request.Context(), id, order.Status(req.Status), req.Note, middleware.GetActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ledger.ToOrderResponse(o))
}

// Delete godoc
// @Summary      Delete an order
// @Description  Soft delete: the order moves to Deleted and keeps its history.
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[ledger.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "order")
	if !ok {
		return
	}

	o, err := h.writer.DeleteOrder(c.Request.Context(), id, middleware.GetActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ledger.ToOrderResponse(o))
}

// StageCounts godoc
// @Summary      Orders per stage
// @Description  Every workflow stage in pipeline order, with zero when empty. Deleted orders are excluded.
// @Tags         orders
// @Produce      json
// @Success      200 {object} APIResponse[[]ledger.StageCountResponse]
// @Router       /orders/stats/stages [get]
func (h *OrderHandler) StageCounts(c *gin.Context) {
	counts, err := h.reader.StageCounts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counts)
}

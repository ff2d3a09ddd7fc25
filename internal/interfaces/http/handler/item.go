package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/application/masterdata"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
)

// ItemService is the item use case set the handler needs
type ItemService interface {
	Create(ctx context.Context, req masterdata.CreateItemRequest) (*masterdata.ItemResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*masterdata.ItemResponse, error)
	List(ctx context.Context, filter masterdata.ItemListFilter) (shared.Paginated[masterdata.ItemResponse], error)
	Update(ctx context.Context, id uuid.UUID, req masterdata.UpdateItemRequest) (*masterdata.ItemResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ItemHandler handles item-related API endpoints
type ItemHandler struct {
	BaseHandler
	items ItemService
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(items ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

// Create godoc
// @Summary      Create an item
// @Description  Create a product or service. Opening stock becomes the current stock.
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        request body masterdata.CreateItemRequest true "Item creation request"
// @Success      201 {object} APIResponse[masterdata.ItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /items [post]
func (h *ItemHandler) Create(c *gin.Context) {
	var req masterdata.CreateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.items.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// GetByID godoc
// @Summary      Get item by ID
// @Tags         items
// @Produce      json
// @Param        id path string true "Item ID" format(uuid)
// @Success      200 {object} APIResponse[masterdata.ItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /items/{id} [get]
func (h *ItemHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "item")
	if !ok {
		return
	}

	item, err := h.items.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// List godoc
// @Summary      List items
// @Description  Search by name or code, filter by type, category or low stock
// @Tags         items
// @Produce      json
// @Param        search    query string false "Search term"
// @Param        type      query string false "Item type" Enums(product, service)
// @Param        category  query string false "Category"
// @Param        low_stock query bool   false "Only items at or below minimum stock"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]masterdata.ItemResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /items [get]
func (h *ItemHandler) List(c *gin.Context) {
	var filter masterdata.ItemListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.items.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// Update godoc
// @Summary      Update an item
// @Description  Stock figures cannot be edited here; they move only through documents.
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id path string true "Item ID" format(uuid)
// @Param        request body masterdata.UpdateItemRequest true "Item update request"
// @Success      200 {object} APIResponse[masterdata.ItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /items/{id} [put]
func (h *ItemHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "item")
	if !ok {
		return
	}
	var req masterdata.UpdateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.items.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete godoc
// @Summary      Delete an item
// @Description  Items referenced by documents or orders cannot be deleted.
// @Tags         items
// @Param        id path string true "Item ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /items/{id} [delete]
func (h *ItemHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "item")
	if !ok {
		return
	}

	if err := h.items.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/application/masterdata"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
)

// PartyService is the party use case set the handler needs
type PartyService interface {
	Create(ctx context.Context, req masterdata.CreatePartyRequest) (*masterdata.PartyResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*masterdata.PartyResponse, error)
	List(ctx context.Context, filter masterdata.PartyListFilter) (shared.Paginated[masterdata.PartyResponse], error)
	Update(ctx context.Context, id uuid.UUID, req masterdata.UpdatePartyRequest) (*masterdata.PartyResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PartyHandler handles customer and supplier endpoints
type PartyHandler struct {
	BaseHandler
	parties PartyService
}

// NewPartyHandler creates a new PartyHandler
func NewPartyHandler(parties PartyService) *PartyHandler {
	return &PartyHandler{parties: parties}
}

// Create godoc
// @Summary      Create a party
// @Description  Create a customer, supplier or both. The opening balance becomes the current balance.
// @Tags         parties
// @Accept       json
// @Produce      json
// @Param        request body masterdata.CreatePartyRequest true "Party creation request"
// @Success      201 {object} APIResponse[masterdata.PartyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /parties [post]
func (h *PartyHandler) Create(c *gin.Context) {
	var req masterdata.CreatePartyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	party, err := h.parties.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, party)
}

// GetByID godoc
// @Summary      Get party by ID
// @Tags         parties
// @Produce      json
// @Param        id path string true "Party ID" format(uuid)
// @Success      200 {object} APIResponse[masterdata.PartyResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /parties/{id} [get]
func (h *PartyHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "party")
	if !ok {
		return
	}

	party, err := h.parties.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, party)
}

// List godoc
// @Summary      List parties
// @Tags         parties
// @Produce      json
// @Param        search    query string false "Search term"
// @Param        type      query string false "Party type" Enums(customer, supplier, both)
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]masterdata.PartyResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /parties [get]
func (h *PartyHandler) List(c *gin.Context) {
	var filter masterdata.PartyListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.parties.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// Update godoc
// @Summary      Update a party
// @Description  Balances cannot be edited here; they move only through documents and payments.
// @Tags         parties
// @Accept       json
// @Produce      json
// @Param        id path string true "Party ID" format(uuid)
// @Param        request body masterdata.UpdatePartyRequest true "Party update request"
// @Success      200 {object} APIResponse[masterdata.PartyResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /parties/{id} [put]
func (h *PartyHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "party")
	if !ok {
		return
	}
	var req masterdata.UpdatePartyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	party, err := h.parties.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, party)
}

// Delete godoc
// @Summary      Delete a party
// @Description  Parties with documents, orders or transactions cannot be deleted.
// @Tags         parties
// @Param        id path string true "Party ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /parties/{id} [delete]
func (h *PartyHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "party")
	if !ok {
		return
	}

	if err := h.parties.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

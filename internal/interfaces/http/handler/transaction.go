package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/application/coordinator"
	"github.com/sharadhiadiga/Elint/internal/application/ledger"
	"github.com/sharadhiadiga/Elint/internal/domain/finance"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/interfaces/http/middleware"
)

// TransactionWriter records and removes standalone transactions
type TransactionWriter interface {
	RecordTransaction(ctx context.Context, in coordinator.TransactionInput, actor shared.Actor) (*finance.Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID, actor shared.Actor) error
}

// TransactionReader serves transaction reads
type TransactionReader interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.TransactionResponse, error)
	ListTransactions(ctx context.Context, filter ledger.TransactionListFilter) (shared.Paginated[ledger.TransactionResponse], error)
}

// TransactionHandler handles money movement endpoints
type TransactionHandler struct {
	BaseHandler
	writer TransactionWriter
	reader TransactionReader
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(writer TransactionWriter, reader TransactionReader) *TransactionHandler {
	return &TransactionHandler{writer: writer, reader: reader}
}

// Create godoc
// @Summary      Record a transaction
// @Description  payment_in lowers and payment_out raises the party balance. Expenses and income have no balance effect.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        request body ledger.CreateTransactionRequest true "Transaction"
// @Success      201 {object} APIResponse[ledger.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req ledger.CreateTransactionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tx, err := h.writer.RecordTransaction(c.Request.Context(), req.ToInput(), middleware.GetActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ledger.ToTransactionResponse(tx))
}

// GetByID godoc
// @Summary      Get a transaction
// @Tags         transactions
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Success      200 {object} APIResponse[ledger.TransactionResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "transaction")
	if !ok {
		return
	}

	tx, err := h.reader.GetTransaction(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// List godoc
// @Summary      List transactions
// @Description  Newest first
// @Tags         transactions
// @Produce      json
// @Param        type      query string false "Transaction type" Enums(payment_in, payment_out, sale, purchase, expense, income)
// @Param        party_id  query string false "Party ID" format(uuid)
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]ledger.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	var filter ledger.TransactionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.reader.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// Delete godoc
// @Summary      Delete a standalone transaction
// @Description  Reverses its balance effect. Payments linked to a sale or purchase are removed with the document.
// @Tags         transactions
// @Param        id path string true "Transaction ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "transaction")
	if !ok {
		return
	}

	if err := h.writer.DeleteTransaction(c.Request.Context(), id, middleware.GetActor(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

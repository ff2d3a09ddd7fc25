package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/application/ledger"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/domain/trade"
	"github.com/sharadhiadiga/Elint/internal/interfaces/http/middleware"
)

// DocumentWriter runs the document operations that touch stock and balances
type DocumentWriter interface {
	CreateDocument(ctx context.Context, kind trade.Kind, draft trade.Draft, actor shared.Actor) (*trade.Document, error)
	UpdateDocument(ctx context.Context, kind trade.Kind, id uuid.UUID, draft trade.Draft, expectedVersion int, actor shared.Actor) (*trade.Document, error)
	DeleteDocument(ctx context.Context, kind trade.Kind, id uuid.UUID, actor shared.Actor) error
}

// DocumentReader serves document reads
type DocumentReader interface {
	GetDocument(ctx context.Context, kind trade.Kind, id uuid.UUID) (*ledger.DocumentResponse, error)
	ListDocuments(ctx context.Context, kind trade.Kind, filter ledger.DocumentListFilter) (shared.Paginated[ledger.DocumentResponse], error)
}

// DocumentHandler serves either sales or purchases; both share one shape
type DocumentHandler struct {
	BaseHandler
	kind   trade.Kind
	writer DocumentWriter
	reader DocumentReader
}

// NewDocumentHandler creates a handler for documents of the given kind
func NewDocumentHandler(kind trade.Kind, writer DocumentWriter, reader DocumentReader) *DocumentHandler {
	return &DocumentHandler{kind: kind, writer: writer, reader: reader}
}

func (h *DocumentHandler) what() string {
	return strings.ToLower(h.kind.Label())
}

// Create godoc
// @Summary      Create a sale or purchase
// @Description  Stores the document, moves stock for every line, moves the party balance by the total and records the paid amount as a linked payment. All or nothing.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        request body ledger.DocumentRequest true "Document"
// @Success      201 {object} APIResponse[ledger.DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales [post]
// @Router       /purchases [post]
func (h *DocumentHandler) Create(c *gin.Context) {
	var req ledger.DocumentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	doc, err := h.writer.CreateDocument(c.Request.Context(), h.kind, req.ToDraft(), middleware.GetActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ledger.ToDocumentResponse(doc))
}

// GetByID godoc
// @Summary      Get a sale or purchase
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} APIResponse[ledger.DocumentResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /sales/{id} [get]
// @Router       /purchases/{id} [get]
func (h *DocumentHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, h.what())
	if !ok {
		return
	}

	doc, err := h.reader.GetDocument(c.Request.Context(), h.kind, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// List godoc
// @Summary      List sales or purchases
// @Tags         documents
// @Produce      json
// @Param        search         query string false "Document number search"
// @Param        party_id       query string false "Party ID" format(uuid)
// @Param        payment_status query string false "Payment status" Enums(paid, partial, unpaid)
// @Param        from_date      query string false "From date (YYYY-MM-DD)"
// @Param        to_date        query string false "To date (YYYY-MM-DD)"
// @Param        page           query int    false "Page number" default(1)
// @Param        page_size      query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]ledger.DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /sales [get]
// @Router       /purchases [get]
func (h *DocumentHandler) List(c *gin.Context) {
	var filter ledger.DocumentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.reader.ListDocuments(c.Request.Context(), h.kind, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// Update godoc
// @Summary      Replace a sale or purchase
// @Description  Reverses every effect of the stored document and applies the new one. Send the version last read to detect concurrent edits.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Param        request body ledger.DocumentRequest true "Document"
// @Success      200 {object} APIResponse[ledger.DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/{id} [put]
// @Router       /purchases/{id} [put]
func (h *DocumentHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, h.what())
	if !ok {
		return
	}
	var req ledger.DocumentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	doc, err := h.writer.UpdateDocument(c.Request.Context(), h.kind, id, req.ToDraft(), req.Version, middleware.GetActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ledger.ToDocumentResponse(doc))
}

// Delete godoc
// @Summary      Delete a sale or purchase
// @Description  Restores stock and balance and removes the linked payments.
// @Tags         documents
// @Param        id path string true "Document ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/{id} [delete]
// @Router       /purchases/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, h.what())
	if !ok {
		return
	}

	if err := h.writer.DeleteDocument(c.Request.Context(), h.kind, id, middleware.GetActor(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

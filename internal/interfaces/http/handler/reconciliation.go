package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sharadhiadiga/Elint/internal/application/reconcile"
)

// Reconciler recomputes stock and balances from the ledger
type Reconciler interface {
	Run(ctx context.Context) (*reconcile.Report, error)
}

// ReconciliationHandler exposes the drift report
type ReconciliationHandler struct {
	BaseHandler
	reconciler Reconciler
}

// NewReconciliationHandler creates a new ReconciliationHandler
func NewReconciliationHandler(r Reconciler) *ReconciliationHandler {
	return &ReconciliationHandler{reconciler: r}
}

// Report godoc
// @Summary      Ledger drift report
// @Description  Recomputes every item's stock and every party's balance from documents and transactions and lists the mismatches. Read only.
// @Tags         reconciliation
// @Produce      json
// @Success      200 {object} APIResponse[reconcile.Report]
// @Failure      500 {object} ErrorResponse
// @Router       /reconciliation [get]
func (h *ReconciliationHandler) Report(c *gin.Context) {
	report, err := h.reconciler.Run(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

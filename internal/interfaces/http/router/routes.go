package router

import (
	"github.com/sharadhiadiga/Elint/internal/interfaces/http/handler"
)

// Handlers are the API handlers mounted by LedgerResources
type Handlers struct {
	Items          *handler.ItemHandler
	Parties        *handler.PartyHandler
	Sales          *handler.DocumentHandler
	Purchases      *handler.DocumentHandler
	Orders         *handler.OrderHandler
	Transactions   *handler.TransactionHandler
	Reconciliation *handler.ReconciliationHandler
}

// LedgerResources returns the route table of every resource with a handler.
// Nil handlers are skipped.
func LedgerResources(h Handlers) []*Resource {
	var out []*Resource

	if h.Items != nil {
		out = append(out, NewResource("/items").
			crud(h.Items.Create, h.Items.List, h.Items.GetByID, h.Items.Update, h.Items.Delete))
	}
	if h.Parties != nil {
		out = append(out, NewResource("/parties").
			crud(h.Parties.Create, h.Parties.List, h.Parties.GetByID, h.Parties.Update, h.Parties.Delete))
	}
	for _, doc := range []struct {
		prefix string
		h      *handler.DocumentHandler
	}{{"/sales", h.Sales}, {"/purchases", h.Purchases}} {
		if doc.h != nil {
			out = append(out, NewResource(doc.prefix).
				crud(doc.h.Create, doc.h.List, doc.h.GetByID, doc.h.Update, doc.h.Delete))
		}
	}
	if h.Orders != nil {
		// The static stats path is registered alongside /:id; gin prefers static segments
		out = append(out, NewResource("/orders").
			crud(h.Orders.Create, h.Orders.List, h.Orders.GetByID, h.Orders.Update, h.Orders.Delete).
			GET("/stats/stages", h.Orders.StageCounts).
			PATCH("/:id/status", h.Orders.ChangeStatus))
	}
	if h.Transactions != nil {
		// Transactions are immutable once recorded
		out = append(out, NewResource("/transactions").
			POST("", h.Transactions.Create).
			GET("", h.Transactions.List).
			GET("/:id", h.Transactions.GetByID).
			DELETE("/:id", h.Transactions.Delete))
	}
	if h.Reconciliation != nil {
		out = append(out, NewResource("/reconciliation").GET("", h.Reconciliation.Report))
	}
	return out
}

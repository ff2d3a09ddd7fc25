package persistence

import (
	"strings"
)

// sortColumns is the set of columns a list query may be ordered by.
// Anything outside the set falls back, so client input never reaches SQL.
type sortColumns struct {
	allowed  map[string]struct{}
	fallback string
}

func newSortColumns(fallback string, extra ...string) sortColumns {
	allowed := map[string]struct{}{"id": {}, "created_at": {}, "updated_at": {}, fallback: {}}
	for _, c := range extra {
		allowed[c] = struct{}{}
	}
	return sortColumns{allowed: allowed, fallback: fallback}
}

// column returns field when it is allowed, else the fallback column
func (s sortColumns) column(field string) string {
	field = strings.TrimSpace(field)
	if _, ok := s.allowed[field]; ok {
		return field
	}
	return s.fallback
}

// clause builds the ORDER BY expression. Direction defaults to DESC.
func (s sortColumns) clause(field, dir string) string {
	return s.column(field) + " " + sortDirection(dir)
}

func sortDirection(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "ASC"
	}
	return "DESC"
}

var (
	itemSort = newSortColumns("created_at",
		"name", "item_code", "type", "category", "sale_price", "purchase_price", "current_stock")
	partySort = newSortColumns("created_at",
		"name", "type", "phone", "current_balance")
	orderSort = newSortColumns("created_at",
		"po_number", "po_date", "estimated_delivery_date", "status", "priority", "total_amount")
	documentSort = newSortColumns("document_date",
		"number", "due_date", "total_amount", "balance_amount", "payment_status")
	transactionSort = newSortColumns("transaction_date",
		"type", "amount", "payment_mode")
)

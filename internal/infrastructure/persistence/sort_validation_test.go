package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortColumns_Clause(t *testing.T) {
	cases := []struct {
		cols  sortColumns
		field string
		dir   string
		want  string
	}{
		{itemSort, "name", "asc", "name ASC"},
		{itemSort, "  current_stock ", " ASC ", "current_stock ASC"},
		{itemSort, "", "", "created_at DESC"},
		{itemSort, "NAME", "asc", "created_at ASC"},
		{itemSort, "password", "desc", "created_at DESC"},
		{partySort, "current_balance", "up", "current_balance DESC"},
		{documentSort, "", "asc", "document_date ASC"},
		{documentSort, "updated_at", "", "updated_at DESC"},
		{orderSort, "priority", "desc", "priority DESC"},
		{transactionSort, "", "", "transaction_date DESC"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.cols.clause(tc.field, tc.dir), "field=%q dir=%q", tc.field, tc.dir)
	}
}

func TestSortColumns_CommonColumns(t *testing.T) {
	for _, cols := range []sortColumns{itemSort, partySort, orderSort, documentSort, transactionSort} {
		for _, c := range []string{"id", "created_at", "updated_at"} {
			assert.Equal(t, c, cols.column(c))
		}
	}
}

func TestSortColumns_RejectsInjection(t *testing.T) {
	payloads := []string{
		"id; DROP TABLE items;--",
		"id' OR '1'='1",
		"id UNION SELECT * FROM parties",
		"CASE WHEN 1=1 THEN id ELSE name END",
		"id\n; DROP TABLE transactions",
	}
	for _, p := range payloads {
		assert.Equal(t, "document_date DESC", documentSort.clause(p, p))
	}
}

package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError(t *testing.T) {
	t.Run("matches by code through wrapping", func(t *testing.T) {
		err := fmt.Errorf("loading party: %w", NewNotFoundError("NOT_FOUND", "Party not found"))

		assert.True(t, errors.Is(err, ErrNotFound))
		assert.True(t, IsNotFound(err))
		assert.False(t, IsConflict(err))
	})

	t.Run("consistency error keeps its cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := NewConsistencyError("balance adjustment", cause)

		assert.Equal(t, KindConsistency, KindOf(err))
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "balance adjustment failed: connection reset", err.Error())
	})

	t.Run("plain errors are internal", func(t *testing.T) {
		assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
		assert.Equal(t, KindInternal, KindOf(nil))
	})

	t.Run("conflict kind", func(t *testing.T) {
		assert.True(t, IsConflict(ErrConcurrencyConflict))
		assert.True(t, IsConflict(ErrDuplicateRequest))
	})
}

func TestFilterNormalize(t *testing.T) {
	f := Filter{Page: 0, PageSize: 500, OrderDir: "sideways"}.Normalize()

	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 100, f.PageSize)
	assert.Equal(t, "desc", f.OrderDir)
	assert.NotNil(t, f.Filters)
	assert.Equal(t, 0, f.Offset())

	f.Page = 3
	assert.Equal(t, 200, f.Offset())
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2}, 41, 1, 20)
	assert.Equal(t, 3, p.TotalPages)

	empty := NewPaginated([]int{}, 0, 1, 20)
	assert.Equal(t, 0, empty.TotalPages)
}

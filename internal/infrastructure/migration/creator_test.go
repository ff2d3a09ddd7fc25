package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/sharadhiadiga/Elint/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add items table", "add_items_table"},
		{"Add-Items-Table", "add_items_table"},
		{"ADD_ITEMS_TABLE", "add_items_table"},
		{"add__items__table", "add_items_table"},
		{"Add Index 123", "add_index_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration_NumbersSequentially(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "create items", "Items and stock")
	require.NoError(t, err)
	assert.Equal(t, "000001", first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_create_items.up.sql"), first.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_create_items.down.sql"), first.DownPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: create items")
	assert.Contains(t, string(up), "-- Items and stock")

	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "-- Rollback: create items")

	second, err := CreateMigration(dir, "add index", "")
	require.NoError(t, err)
	assert.Equal(t, "000002", second.Version)

	names, err := ListMigrations(os.DirFS(dir))
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_create_items", "000002_add_index"}, names)
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	t.Run("orders by version and skips strays", func(t *testing.T) {
		fsys := fstest.MapFS{
			"000010_late.up.sql":    {},
			"000010_late.down.sql":  {},
			"000002_early.up.sql":   {},
			"000002_early.down.sql": {},
			"README.md":             {},
			"notes.up.sql":          {},
		}
		names, err := ListMigrations(fsys)
		require.NoError(t, err)
		assert.Equal(t, []string{"000002_early", "000010_late"}, names)
	})

	t.Run("missing directory is empty", func(t *testing.T) {
		names, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "nope")))
		require.NoError(t, err)
		assert.Empty(t, names)
	})
}

func TestEmbeddedMigrations_ArePaired(t *testing.T) {
	names, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for i, name := range names {
		v, ok := splitVersion(name)
		require.True(t, ok, name)
		assert.Equal(t, i+1, v, "versions must be contiguous")

		_, err := migrations.FS.Open(name + ".down.sql")
		assert.NoError(t, err, "missing down migration for %s", name)
	}
}

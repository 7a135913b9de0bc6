package migration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var createdAt = time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add members table", "add_members_table"},
		{"Add-Members-Table", "add_members_table"},
		{"ADD_MEMBERS_TABLE", "add_members_table"},
		{"add__members__table", "add_members_table"},
		{"Add Members 123", "add_members_123"},
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

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "add member notes", "Free-text notes on members", createdAt)
	require.NoError(t, err)

	assert.Equal(t, "20240301090500", mf.Version)
	assert.Equal(t, filepath.Join(dir, "20240301090500_add_member_notes.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, "20240301090500_add_member_notes.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add_member_notes")
	assert.Contains(t, string(up), "Free-text notes on members")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")

	t.Run("same version twice is rejected", func(t *testing.T) {
		_, err := CreateMigration(dir, "add member notes", "", createdAt)
		assert.Error(t, err)
	})

	t.Run("creates nested directories", func(t *testing.T) {
		nested := filepath.Join(dir, "nested", "migrations")
		_, err := CreateMigration(nested, "init", "", createdAt)
		require.NoError(t, err)
		info, err := os.Stat(nested)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("name without letters", func(t *testing.T) {
		_, err := CreateMigration(dir, "!!!", "", createdAt)
		assert.ErrorIs(t, err, errEmptyName)
	})
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"20240301090200_create_memberships.up.sql",
		"20240301090200_create_memberships.down.sql",
		"20240301090000_create_tenants.up.sql",
		"20240301090000_create_tenants.down.sql",
		"20240301090100_create_members.up.sql",
		"README.md",
		"notaversion_x.up.sql",
		".gitkeep",
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("-- test"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "1_subdir.up.sql"), 0o755))

	entries, err := ListMigrations(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "20240301090000_create_tenants", entries[0].String())
	assert.True(t, entries[0].HasDown)
	assert.Equal(t, "create_members", entries[1].Name)
	assert.False(t, entries[1].HasDown)
	assert.Equal(t, uint64(20240301090200), entries[2].Version)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	entries, err := ListMigrations(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListMigrations_RepositoryMigrations(t *testing.T) {
	entries, err := ListMigrations(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.True(t, e.HasDown, "%s has no rollback", e)
	}
	assert.Equal(t, "create_tenants", entries[0].Name)
}

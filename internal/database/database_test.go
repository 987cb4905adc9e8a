package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/fintrack/internal/entities"
	"github.com/mrlokans/fintrack/internal/logging"
)

func TestNewDatabase_MigratesAndPings(t *testing.T) {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "fintrack.db"), logging.Discard())
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, db.DB.Migrator().HasTable(&entities.AIReport{}))
	assert.NoError(t, db.Ping(context.Background()))

	sqlDB, err := db.SQL()
	require.NoError(t, err)
	assert.NotNil(t, sqlDB)
}

func TestNewDatabase_InvalidPath(t *testing.T) {
	_, err := NewDatabase(filepath.Join(t.TempDir(), "missing", "dir", "fintrack.db"), logging.Discard())
	assert.Error(t, err)
}

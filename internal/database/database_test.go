package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synqtech/synq-site/internal/config"
	"github.com/synqtech/synq-site/internal/models"
	"go.uber.org/zap"
)

func TestInitializeSQLite(t *testing.T) {
	cfg := &config.Config{
		DatabaseType: "sqlite",
		DatabaseURL:  filepath.Join(t.TempDir(), "synq.db"),
	}

	db, err := Initialize(cfg, zap.NewNop())
	require.NoError(t, err)

	for _, model := range []any{
		&models.User{},
		&models.TeamMember{},
		&models.Project{},
		&models.Comment{},
		&models.MigrationLock{},
	} {
		assert.True(t, db.Migrator().HasTable(model), "table for %T should exist", model)
	}

	require.NoError(t, Ping(context.Background(), db))
}

func TestInitializeIsRepeatable(t *testing.T) {
	cfg := &config.Config{
		DatabaseType: "sqlite",
		DatabaseURL:  filepath.Join(t.TempDir(), "synq.db"),
	}

	_, err := Initialize(cfg, zap.NewNop())
	require.NoError(t, err)
	_, err = Initialize(cfg, zap.NewNop())
	require.NoError(t, err)
}

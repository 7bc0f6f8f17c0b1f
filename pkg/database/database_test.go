package database

import (
	"path/filepath"
	"testing"

	"learnpulse_backend/internal/config"
	"learnpulse_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_SQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver: "sqlite",
		DBName: filepath.Join(t.TempDir(), "learnpulse.db"),
	}

	db, err := InitDB(cfg)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	assert.True(t, db.Migrator().HasTable(&model.LearningRecord{}))
	assert.True(t, db.Migrator().HasTable(&model.PredictionSnapshot{}))
	assert.True(t, db.Migrator().HasTable(&model.User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Close())
}

func TestInitDB_UnknownDriver(t *testing.T) {
	_, err := InitDB(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

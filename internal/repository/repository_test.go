package repository

import (
	"context"
	"testing"
	"time"

	"learnpulse_backend/internal/engine"
	"learnpulse_backend/internal/model"
	"learnpulse_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库每个连接独立，限制为单连接
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.LearningRecord{}, &model.PredictionSnapshot{}))
	return db
}

var day0 = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func TestLearningRecordRepository_GetHistory(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLearningRecordRepository(db, 3)
	ctx := context.Background()

	for i, score := range []float64{60, 65, 70, 75, 80} {
		require.NoError(t, repo.SaveRecord(ctx, "s1", engine.LearningRecord{
			Timestamp:       day0.AddDate(0, 0, i),
			Subject:         "数学",
			Topic:           "代数",
			Difficulty:      engine.DifficultyBasic,
			Score:           score,
			DurationSeconds: 120,
		}))
	}
	require.NoError(t, repo.SaveRecord(ctx, "other", engine.LearningRecord{Timestamp: day0, Score: 10}))

	history, err := repo.GetHistory(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history, 3)

	assert.Equal(t, 80.0, history[0].Score)
	assert.Equal(t, 70.0, history[2].Score)
	assert.Equal(t, engine.DifficultyBasic, history[0].Difficulty)
	assert.True(t, history[0].Timestamp.Equal(day0.AddDate(0, 0, 4)))

	all, err := repo.FindRecent(ctx, "s1", 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	none, err := repo.GetHistory(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPredictionSnapshotRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPredictionSnapshotRepository(db)
	ctx := context.Background()

	latest, err := repo.Latest(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, latest)

	pred, err := engine.New().Predict(engine.User{ID: "s1"}, nil, nil)
	require.NoError(t, err)

	first, err := model.NewPredictionSnapshot(pred)
	require.NoError(t, err)
	first.CreatedAt = day0
	require.NoError(t, repo.Save(ctx, first))

	second, err := model.NewPredictionSnapshot(pred)
	require.NoError(t, err)
	second.CreatedAt = day0.Add(time.Hour)
	require.NoError(t, repo.Save(ctx, second))

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	latest, err = repo.Latest(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, "low", latest.OverallRisk)

	decoded, err := latest.Prediction()
	require.NoError(t, err)
	assert.Equal(t, pred.Performance.ExpectedScore, decoded.Performance.ExpectedScore)
	assert.Equal(t, pred.Risk.OverallLevel, decoded.Risk.OverallLevel)

	list, err := repo.ListByUser(ctx, "s1", 10)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestUserRepository_GetLearner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.User{
		LearnerID:     "s1",
		Name:          "小明",
		Role:          model.Student,
		DeclaredStyle: string(engine.StyleAuditory),
		Grade:         "七年级",
	}))

	u, err := repo.GetLearner(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, engine.User{ID: "s1", DeclaredStyle: engine.StyleAuditory, Grade: "七年级"}, u)

	unknown, err := repo.GetLearner(ctx, "ghost")
	require.NoError(t, err)
	assert.Equal(t, engine.User{ID: "ghost"}, unknown)

	_, err = repo.FindByLearnerID(ctx, "ghost")
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	assert.NoError(t, repo.UpdateLastSeen("s1"))

	require.NoError(t, repo.Create(ctx, &model.User{LearnerID: "s2", Role: model.Student, Disabled: true}))
	_, err = repo.GetLearner(ctx, "s2")
	assert.ErrorIs(t, err, util.ErrLearnerDisabled)
}

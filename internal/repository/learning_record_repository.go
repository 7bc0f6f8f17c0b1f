package repository

import (
	"context"

	"learnpulse_backend/internal/engine"
	"learnpulse_backend/internal/model"

	"gorm.io/gorm"
)

type LearningRecordRepository struct {
	DB         *gorm.DB
	maxHistory int
}

func NewLearningRecordRepository(db *gorm.DB, maxHistory int) *LearningRecordRepository {
	return &LearningRecordRepository{DB: db, maxHistory: maxHistory}
}

func (r *LearningRecordRepository) Create(ctx context.Context, record *model.LearningRecord) error {
	return r.DB.WithContext(ctx).Create(record).Error
}

// FindRecent 取最近的 limit 条记录，按时间倒序
func (r *LearningRecordRepository) FindRecent(ctx context.Context, userID string, limit int) ([]model.LearningRecord, error) {
	var records []model.LearningRecord
	query := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("studied_at DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&records).Error
	return records, err
}

// GetHistory 返回引擎使用的历史记录，条数受 max_history 限制，顺序由引擎重新整理
func (r *LearningRecordRepository) GetHistory(ctx context.Context, userID string) ([]engine.LearningRecord, error) {
	rows, err := r.FindRecent(ctx, userID, r.maxHistory)
	if err != nil {
		return nil, err
	}
	history := make([]engine.LearningRecord, len(rows))
	for i, row := range rows {
		history[i] = row.ToEngine()
	}
	return history, nil
}

func (r *LearningRecordRepository) SaveRecord(ctx context.Context, userID string, rec engine.LearningRecord) error {
	return r.Create(ctx, model.NewLearningRecord(userID, rec))
}

package repository

import (
	"context"
	"errors"

	"learnpulse_backend/internal/model"

	"gorm.io/gorm"
)

type PredictionSnapshotRepository struct {
	DB *gorm.DB
}

func NewPredictionSnapshotRepository(db *gorm.DB) *PredictionSnapshotRepository {
	return &PredictionSnapshotRepository{DB: db}
}

func (r *PredictionSnapshotRepository) Save(ctx context.Context, snapshot *model.PredictionSnapshot) error {
	return r.DB.WithContext(ctx).Create(snapshot).Error
}

// Latest 没有快照时返回 nil, nil
func (r *PredictionSnapshotRepository) Latest(ctx context.Context, userID string) (*model.PredictionSnapshot, error) {
	var snapshot model.PredictionSnapshot
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *PredictionSnapshotRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.PredictionSnapshot, error) {
	var snapshots []model.PredictionSnapshot
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&snapshots).Error
	return snapshots, err
}

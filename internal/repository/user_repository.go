package repository

import (
	"context"
	"errors"
	"time"

	"learnpulse_backend/internal/engine"
	"learnpulse_backend/internal/model"
	"learnpulse_backend/internal/util"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByLearnerID(ctx context.Context, learnerID string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("learner_id = ?", learnerID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetLearner 未登记的学习者按只有 ID 的画像处理，已停用的学习者返回 ErrLearnerDisabled
func (r *UserRepository) GetLearner(ctx context.Context, learnerID string) (engine.User, error) {
	user, err := r.FindByLearnerID(ctx, learnerID)
	if errors.Is(err, util.ErrUserNotFound) {
		return engine.User{ID: learnerID}, nil
	}
	if err != nil {
		return engine.User{}, err
	}
	if user.Disabled {
		return engine.User{}, util.ErrLearnerDisabled
	}
	return engine.User{
		ID:            user.LearnerID,
		DeclaredStyle: engine.LearningStyle(user.DeclaredStyle),
		Grade:         user.Grade,
	}, nil
}

func (r *UserRepository) UpdateLastSeen(learnerID string) error {
	return r.DB.Model(&model.User{}).
		Where("learner_id = ?", learnerID).
		Update("last_seen", time.Now()).
		Error
}

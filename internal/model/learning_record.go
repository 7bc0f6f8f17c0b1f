package model

import (
	"time"

	"learnpulse_backend/internal/engine"
)

// swagger:model LearningRecord
type LearningRecord struct {
	BaseModel
	UserID          string    `gorm:"size:64;not null;index:idx_record_user_time,priority:1" json:"userId"`
	Subject         string    `gorm:"size:100" json:"subject"`
	Topic           string    `gorm:"size:100" json:"topic"`
	Difficulty      string    `gorm:"size:20" json:"difficulty"`
	Score           float64   `gorm:"not null" json:"score"`
	DurationSeconds int       `gorm:"not null;default:0" json:"durationSeconds"`
	StudiedAt       time.Time `gorm:"not null;index:idx_record_user_time,priority:2" json:"studiedAt"`
}

func (LearningRecord) TableName() string {
	return "learning_records"
}

func NewLearningRecord(userID string, r engine.LearningRecord) *LearningRecord {
	return &LearningRecord{
		UserID:          userID,
		Subject:         r.Subject,
		Topic:           r.Topic,
		Difficulty:      string(r.Difficulty),
		Score:           r.Score,
		DurationSeconds: r.DurationSeconds,
		StudiedAt:       r.Timestamp,
	}
}

func (r LearningRecord) ToEngine() engine.LearningRecord {
	return engine.LearningRecord{
		Timestamp:       r.StudiedAt,
		Subject:         r.Subject,
		Topic:           r.Topic,
		Difficulty:      engine.Difficulty(r.Difficulty),
		Score:           r.Score,
		DurationSeconds: r.DurationSeconds,
	}
}

package model

import (
	"encoding/json"
	"fmt"

	"learnpulse_backend/internal/engine"
)

// PredictionSnapshot 每次预测的结果快照，便于回溯风险变化
// swagger:model PredictionSnapshot
type PredictionSnapshot struct {
	UUIDBase
	UserID        string          `gorm:"size:64;index;not null" json:"userId"`
	OverallRisk   string          `gorm:"size:10" json:"overallRisk"`
	ExpectedScore float64         `json:"expectedScore"`
	Confidence    float64         `json:"confidence"`
	RiskCount     int             `gorm:"default:0" json:"riskCount"`
	Payload       json.RawMessage `gorm:"type:json" json:"payload"`
}

func (PredictionSnapshot) TableName() string {
	return "prediction_snapshots"
}

func NewPredictionSnapshot(p *engine.LearningPrediction) (*PredictionSnapshot, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode prediction: %w", err)
	}
	return &PredictionSnapshot{
		UserID:        p.UserID,
		OverallRisk:   string(p.Risk.OverallLevel),
		ExpectedScore: p.Performance.ExpectedScore,
		Confidence:    p.Confidence,
		RiskCount:     len(p.Risk.Risks),
		Payload:       payload,
	}, nil
}

func (s PredictionSnapshot) Prediction() (*engine.LearningPrediction, error) {
	var p engine.LearningPrediction
	if err := json.Unmarshal(s.Payload, &p); err != nil {
		return nil, fmt.Errorf("decode prediction snapshot %s: %w", s.ID, err)
	}
	return &p, nil
}

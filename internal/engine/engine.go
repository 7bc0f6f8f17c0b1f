// Package engine 学习者建模与预测干预引擎。
//
// 引擎是学习记录的纯函数：不做任何 I/O，不持有可变状态，同样的输入总是得到同样的画像，
// 可以被多个 goroutine 并发调用。
package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

const uncategorized = "未分类"

var (
	ErrMissingUserID     = errors.New("engine: user id is required")
	ErrScoreOutOfRange   = errors.New("engine: score must be within [0,100]")
	ErrNegativeDuration  = errors.New("engine: duration must not be negative")
	ErrUnknownDifficulty = errors.New("engine: unknown difficulty")
)

type Engine struct {
	thresholds Thresholds
	now        func() time.Time
}

type Option func(*Engine)

func WithThresholds(th Thresholds) Option {
	return func(e *Engine) {
		e.thresholds = th.withDefaults()
	}
}

// WithClock 仅用于 LearningPrediction.GeneratedAt
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		thresholds: DefaultThresholds(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

func validateRecord(r LearningRecord) error {
	switch {
	case math.IsNaN(r.Score) || r.Score < 0 || r.Score > 100:
		return fmt.Errorf("%w: %v", ErrScoreOutOfRange, r.Score)
	case r.DurationSeconds < 0:
		return fmt.Errorf("%w: %d", ErrNegativeDuration, r.DurationSeconds)
	case r.Difficulty != "" && !r.Difficulty.Valid():
		return fmt.Errorf("%w: %q", ErrUnknownDifficulty, r.Difficulty)
	}
	return nil
}

// ValidateRecord 校验单条记录
func ValidateRecord(r LearningRecord) error {
	return validateRecord(r)
}

// ValidateRecords 丢弃非法记录并返回丢弃数量，不修改输入切片。
// 缺省的科目/知识点归入“未分类”，缺省难度按“中级”处理。
func ValidateRecords(history []LearningRecord) ([]LearningRecord, int) {
	valid := make([]LearningRecord, 0, len(history))
	skipped := 0
	for _, r := range history {
		if validateRecord(r) != nil {
			skipped++
			continue
		}
		r.Subject = strings.TrimSpace(r.Subject)
		r.Topic = strings.TrimSpace(r.Topic)
		if r.Subject == "" {
			r.Subject = uncategorized
		}
		if r.Topic == "" {
			r.Topic = uncategorized
		}
		if r.Difficulty == "" {
			r.Difficulty = DifficultyIntermediate
		}
		valid = append(valid, r)
	}
	return valid, skipped
}

// prepare 校验并按时间稳定排序
func prepare(history []LearningRecord) ([]LearningRecord, int) {
	records, skipped := ValidateRecords(history)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
	return records, skipped
}

func (e *Engine) BuildLearnerProfile(user User, history []LearningRecord) (*LearnerProfile, error) {
	if user.ID == "" {
		return nil, ErrMissingUserID
	}
	records, skipped := prepare(history)
	return e.buildProfile(user, records, skipped), nil
}

func (e *Engine) buildProfile(user User, records []LearningRecord, skipped int) *LearnerProfile {
	if len(records) == 0 {
		p := DefaultProfile(user)
		p.SkippedRecords = skipped
		return p
	}

	th := e.thresholds
	p := &LearnerProfile{
		UserID:         user.ID,
		RecordCount:    len(records),
		SkippedRecords: skipped,
		Style:          analyzeStyle(records, user, th),
		Knowledge:      buildKnowledgeMap(records, th),
		Cognitive:      analyzeCognitive(records, th),
		Motivation:     analyzeMotivation(records, th),
		Performance:    analyzePattern(records, th),
	}
	p.Strategy = synthesizeStrategy(p)
	return p
}

// Predict 未传入画像时先根据历史记录构建画像
func (e *Engine) Predict(user User, history []LearningRecord, profile *LearnerProfile) (*LearningPrediction, error) {
	if user.ID == "" {
		return nil, ErrMissingUserID
	}
	records, skipped := prepare(history)
	if profile == nil {
		profile = e.buildProfile(user, records, skipped)
	}

	perf := predictPerformance(records, profile)
	risk := assessRisk(riskInput{
		records:    records,
		profile:    profile,
		prediction: perf,
		th:         e.thresholds,
	})

	return &LearningPrediction{
		UserID:         user.ID,
		GeneratedAt:    e.now(),
		SkippedRecords: skipped,
		Performance:    perf,
		Risk:           risk,
		Interventions:  recommendInterventions(profile, perf, risk),
		Confidence:     predictionConfidence(len(records), profile),
		KeyFactors:     keyFactors(records, profile, risk, e.thresholds),
	}, nil
}

func predictionConfidence(n int, p *LearnerProfile) float64 {
	sufficiency := min(1, float64(n)/recentWindow)
	return clamp01(0.3 + 0.4*sufficiency + 0.3*p.Performance.Consistency)
}

func keyFactors(records []LearningRecord, p *LearnerProfile, risk RiskAssessment, th Thresholds) []string {
	factors := []string{
		fmt.Sprintf("近期成绩趋势斜率 %.2f", TrendSlope(scoresOf(lastN(records, recentWindow)))),
		fmt.Sprintf("成绩一致性 %.2f", p.Performance.Consistency),
		fmt.Sprintf("认知负荷 %.2f", p.Cognitive.CognitiveLoad),
		fmt.Sprintf("内在动机 %.2f", p.Motivation.Intrinsic),
	}
	if len(records) < th.MinRecords {
		factors = append(factors, "学习记录不足，预测置信度较低")
	}
	for _, r := range risk.Risks {
		factors = append(factors, "主要风险: "+r.Type.Label())
	}
	return factors
}

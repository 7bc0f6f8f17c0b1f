package engine

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func rec(day int, subject, topic string, score float64, seconds int) LearningRecord {
	return LearningRecord{
		Timestamp:       baseTime.AddDate(0, 0, day),
		Subject:         subject,
		Topic:           topic,
		Difficulty:      DifficultyIntermediate,
		Score:           score,
		DurationSeconds: seconds,
	}
}

// dailyRecords 每天一条记录，同一科目同一知识点
func dailyRecords(scores []float64, seconds int) []LearningRecord {
	out := make([]LearningRecord, len(scores))
	for i, s := range scores {
		out[i] = rec(i, "数学", "代数", s, seconds)
	}
	return out
}

func repeatScore(score float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = score
	}
	return out
}

func fixedClock() time.Time { return baseTime }

func TestBuildLearnerProfile_MissingUserID(t *testing.T) {
	e := New()

	_, err := e.BuildLearnerProfile(User{}, dailyRecords([]float64{80}, 60))
	assert.True(t, errors.Is(err, ErrMissingUserID))

	_, err = e.Predict(User{}, nil, nil)
	assert.True(t, errors.Is(err, ErrMissingUserID))
}

func TestBuildLearnerProfile_EmptyHistory(t *testing.T) {
	e := New()

	for _, history := range [][]LearningRecord{nil, {}} {
		p, err := e.BuildLearnerProfile(User{ID: "u1"}, history)
		require.NoError(t, err)

		assert.Equal(t, "u1", p.UserID)
		assert.Equal(t, 0, p.RecordCount)
		assert.Equal(t, 0.5, p.Style.Confidence)
		assert.Equal(t, StyleVisual, p.Style.PrimaryStyle)
		assert.Empty(t, p.Knowledge.SubjectMastery)
		assert.NotNil(t, p.Knowledge.SubjectMastery)
		assert.Equal(t, 0.3, p.Cognitive.CognitiveLoad)
		assert.Equal(t, DefaultProfile(User{ID: "u1"}), p)
	}
}

func TestBuildLearnerProfile_EmptyHistoryUsesDeclaredStyle(t *testing.T) {
	p, err := New().BuildLearnerProfile(User{ID: "u1", DeclaredStyle: StyleKinesthetic}, nil)
	require.NoError(t, err)

	assert.Equal(t, StyleKinesthetic, p.Style.PrimaryStyle)
	assert.Equal(t, StyleVisual, p.Style.SecondaryStyle)
	assert.Equal(t, []string{"实践操作题", "实验探究题", "互动练习题"}, p.Strategy.OptimalQuestionTypes)
}

func TestPredict_EmptyHistory(t *testing.T) {
	pred, err := New(WithClock(fixedClock)).Predict(User{ID: "u1"}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 70.0, pred.Performance.ExpectedScore)
	assert.Equal(t, ScoreRange{Low: 60, High: 80}, pred.Performance.ScoreRange)
	assert.Equal(t, RiskLow, pred.Risk.OverallLevel)
	assert.Empty(t, pred.Risk.Risks)
	assert.Equal(t, baseTime, pred.GeneratedAt)
	assert.NotEmpty(t, pred.Interventions)
	assert.Len(t, pred.Risk.RiskFactors, len(AllRiskTypes))
}

func TestPredict_SteadyImprover(t *testing.T) {
	scores := []float64{50, 55, 60, 65, 70, 75, 80, 82, 85, 88}
	history := dailyRecords(scores, 90)
	user := User{ID: "s1"}
	e := New()

	p, err := e.BuildLearnerProfile(user, history)
	require.NoError(t, err)

	assert.InDelta(t, 0.71, p.Knowledge.SubjectMastery["数学"].OverallMastery, 1e-9)
	assert.Greater(t, p.Performance.ImprovementRate, 0.0)
	assert.Equal(t, 10, p.RecordCount)

	pred, err := e.Predict(user, history, p)
	require.NoError(t, err)

	assert.Equal(t, RiskLow, pred.Risk.OverallLevel)
	assert.Empty(t, pred.Risk.Risks)
	assert.Equal(t, 100.0, pred.Performance.ExpectedScore)
	assert.Equal(t, 1.0, pred.Performance.ImprovementProbability)
	for typ, prob := range pred.Risk.RiskFactors {
		assert.LessOrEqual(t, prob, 0.6, typ)
	}
}

func TestPredict_BurnoutScenario(t *testing.T) {
	history := dailyRecords(repeatScore(30, 10), 12000)
	pred, err := New().Predict(User{ID: "s2"}, history, nil)
	require.NoError(t, err)

	assert.Equal(t, RiskHigh, pred.Risk.OverallLevel)
	assert.Equal(t, 0.9, pred.Risk.RiskFactors[RiskBurnout])
	assert.Equal(t, 1.0, pred.Risk.RiskFactors[RiskCognitiveOverload])

	var types []RiskType
	for _, r := range pred.Risk.Risks {
		types = append(types, r.Type)
	}
	assert.Contains(t, types, RiskBurnout)
	assert.Contains(t, types, RiskCognitiveOverload)

	require.NotEmpty(t, pred.Interventions)
	first := pred.Interventions[0]
	assert.Equal(t, InterventionImmediate, first.Type)
	assert.Equal(t, PriorityHigh, first.Priority)
	assert.Equal(t, "学习节奏", first.TargetArea)
}

func TestPredict_ProfileOmittedMatchesExplicit(t *testing.T) {
	history := dailyRecords([]float64{60, 72, 65, 80, 77}, 150)
	user := User{ID: "u"}
	e := New(WithClock(fixedClock))

	p, err := e.BuildLearnerProfile(user, history)
	require.NoError(t, err)

	withProfile, err := e.Predict(user, history, p)
	require.NoError(t, err)
	without, err := e.Predict(user, history, nil)
	require.NoError(t, err)

	assert.Equal(t, withProfile, without)
}

func TestBuildLearnerProfile_Deterministic(t *testing.T) {
	history := []LearningRecord{
		rec(0, "数学", "代数", 62, 80),
		rec(1, "英语", "阅读", 88, 200),
		rec(2, "数学", "几何", 45, 3700),
		rec(3, "物理", "力学", 71, 140),
		rec(4, "数学", "代数", 79, 95),
		rec(5, "英语", "写作", 90, 260),
	}
	e := New(WithClock(fixedClock))
	user := User{ID: "u"}

	p1, err := e.BuildLearnerProfile(user, history)
	require.NoError(t, err)
	p2, err := e.BuildLearnerProfile(user, history)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)

	reversed := make([]LearningRecord, len(history))
	for i, r := range history {
		reversed[len(history)-1-i] = r
	}
	p3, err := e.BuildLearnerProfile(user, reversed)
	require.NoError(t, err)
	assert.Equal(t, p1, p3, "record order must not matter")

	pr1, err := e.Predict(user, history, nil)
	require.NoError(t, err)
	pr2, err := e.Predict(user, reversed, nil)
	require.NoError(t, err)
	assert.Equal(t, pr1, pr2)
}

func TestBuildLearnerProfile_DoesNotMutateInput(t *testing.T) {
	history := []LearningRecord{
		rec(2, "", "", 70, 60),
		rec(0, "数学", "代数", 80, 60),
	}
	history[0].Difficulty = ""
	snapshot := append([]LearningRecord(nil), history...)

	_, err := New().BuildLearnerProfile(User{ID: "u"}, history)
	require.NoError(t, err)
	assert.Equal(t, snapshot, history)
}

func TestBuildLearnerProfile_SkipsInvalidRecords(t *testing.T) {
	history := []LearningRecord{
		rec(0, "数学", "代数", 80, 60),
		rec(1, "数学", "代数", 120, 60),
		rec(2, "数学", "代数", -1, 60),
		rec(3, "数学", "代数", math.NaN(), 60),
		rec(4, "数学", "代数", 70, -5),
		{Timestamp: baseTime, Subject: "数学", Topic: "代数", Difficulty: "超难", Score: 50},
	}

	p, err := New().BuildLearnerProfile(User{ID: "u"}, history)
	require.NoError(t, err)
	assert.Equal(t, 1, p.RecordCount)
	assert.Equal(t, 5, p.SkippedRecords)
}

func TestValidateRecords_Normalizes(t *testing.T) {
	in := []LearningRecord{{Timestamp: baseTime, Score: 66, DurationSeconds: 10}}
	out, skipped := ValidateRecords(in)

	require.Len(t, out, 1)
	assert.Zero(t, skipped)
	assert.Equal(t, "未分类", out[0].Subject)
	assert.Equal(t, "未分类", out[0].Topic)
	assert.Equal(t, DifficultyIntermediate, out[0].Difficulty)
	assert.Equal(t, Difficulty(""), in[0].Difficulty)

	assert.ErrorIs(t, ValidateRecord(LearningRecord{Score: 101}), ErrScoreOutOfRange)
	assert.ErrorIs(t, ValidateRecord(LearningRecord{DurationSeconds: -1}), ErrNegativeDuration)
	assert.ErrorIs(t, ValidateRecord(LearningRecord{Difficulty: "x"}), ErrUnknownDifficulty)
	assert.NoError(t, ValidateRecord(LearningRecord{}))
}

func TestPredict_HigherScoresDoNotLowerMastery(t *testing.T) {
	scores := []float64{40, 52, 47, 61, 58, 66}
	better := make([]float64, len(scores))
	for i, s := range scores {
		better[i] = s + 15
	}
	e := New()

	low, err := e.BuildLearnerProfile(User{ID: "u"}, dailyRecords(scores, 100))
	require.NoError(t, err)
	high, err := e.BuildLearnerProfile(User{ID: "u"}, dailyRecords(better, 100))
	require.NoError(t, err)

	assert.Greater(t,
		high.Knowledge.SubjectMastery["数学"].OverallMastery,
		low.Knowledge.SubjectMastery["数学"].OverallMastery)
}

func TestPredict_RaisingRecentScoresDoesNotLowerExpectedScore(t *testing.T) {
	bases := map[string][]float64{
		"flat":   repeatScore(60, 10),
		"varied": {55, 62, 58, 60, 63, 57, 61, 59, 64, 60},
	}
	e := New()
	user := User{ID: "u"}

	for name, base := range bases {
		t.Run(name, func(t *testing.T) {
			a, err := e.Predict(user, dailyRecords(base, 600), nil)
			require.NoError(t, err)

			for shift := 1.0; shift <= 30; shift++ {
				raised := append([]float64(nil), base...)
				for i := len(raised) - 5; i < len(raised); i++ {
					raised[i] += shift
				}
				b, err := e.Predict(user, dailyRecords(raised, 600), nil)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, b.Performance.ExpectedScore, a.Performance.ExpectedScore, "shift %v", shift)
			}
		})
	}
}

func TestWithThresholds_RiskThresholdControlsInclusion(t *testing.T) {
	history := dailyRecords([]float64{70, 71, 70, 72, 70, 71}, 100)
	user := User{ID: "u"}

	def, err := New().Predict(user, history, nil)
	require.NoError(t, err)

	th := DefaultThresholds()
	th.RiskThreshold = 0.1
	loose, err := New(WithThresholds(th)).Predict(user, history, nil)
	require.NoError(t, err)

	assert.Greater(t, len(loose.Risk.Risks), len(def.Risk.Risks))
	for _, r := range loose.Risk.Risks {
		assert.Greater(t, r.Probability, 0.1)
	}
}

func TestWithThresholds_FillsZeroValues(t *testing.T) {
	e := New(WithThresholds(Thresholds{RiskThreshold: 0.5}))
	th := e.Thresholds()

	assert.Equal(t, 0.5, th.RiskThreshold)
	assert.Equal(t, DefaultThresholds().HighRiskProbability, th.HighRiskProbability)
	assert.Equal(t, DefaultThresholds().MinRecords, th.MinRecords)
	assert.Equal(t, DefaultThresholds().FatigueSessionSeconds, th.FatigueSessionSeconds)
}

func randomHistory(r *rand.Rand, n int) []LearningRecord {
	subjects := []string{"数学", "英语", "物理", ""}
	topics := []string{"A", "B", "C"}
	difficulties := []Difficulty{DifficultyIntro, DifficultyBasic, DifficultyIntermediate, DifficultyAdvanced, DifficultyChallenge, ""}

	out := make([]LearningRecord, n)
	for i := range out {
		score := float64(r.Intn(101))
		if r.Intn(8) == 0 {
			score = 0
		}
		duration := r.Intn(14000)
		if r.Intn(8) == 0 {
			duration = 0
		}
		// 故意制造时间戳重复
		out[i] = LearningRecord{
			Timestamp:       baseTime.Add(time.Duration(r.Intn(n*6)) * time.Hour),
			Subject:         subjects[r.Intn(len(subjects))],
			Topic:           topics[r.Intn(len(topics))],
			Difficulty:      difficulties[r.Intn(len(difficulties))],
			Score:           score,
			DurationSeconds: duration,
		}
	}
	return out
}

func assertUnit(t *testing.T, name string, v float64) {
	t.Helper()
	assert.False(t, math.IsNaN(v), "%s is NaN", name)
	assert.GreaterOrEqual(t, v, 0.0, name)
	assert.LessOrEqual(t, v, 1.0, name)
}

func TestPredict_RandomHistoriesStayWithinBounds(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	e := New(WithClock(fixedClock))
	th := e.Thresholds()

	for i := 0; i < 200; i++ {
		history := randomHistory(r, 1+r.Intn(25))
		user := User{ID: "p"}

		p, err := e.BuildLearnerProfile(user, history)
		require.NoError(t, err)

		assertUnit(t, "style.confidence", p.Style.Confidence)
		for subject, sm := range p.Knowledge.SubjectMastery {
			assertUnit(t, "mastery "+subject, sm.OverallMastery)
			for topic, m := range sm.TopicMastery {
				assertUnit(t, "topic "+topic, m)
			}
		}
		for name, v := range map[string]float64{
			"workingMemory":       p.Cognitive.WorkingMemory,
			"processingSpeed":     p.Cognitive.ProcessingSpeed,
			"attentionSpan":       p.Cognitive.AttentionSpan,
			"cognitiveLoad":       p.Cognitive.CognitiveLoad,
			"optimalChallenge":    p.Cognitive.OptimalChallenge,
			"intrinsic":           p.Motivation.Intrinsic,
			"extrinsic":           p.Motivation.Extrinsic,
			"persistence":         p.Motivation.Persistence,
			"challengePreference": p.Motivation.ChallengePreference,
			"feedbackSensitivity": p.Motivation.FeedbackSensitivity,
			"consistency":         p.Performance.Consistency,
			"retentionRate":       p.Performance.RetentionRate,
			"transferAbility":     p.Performance.TransferAbility,
			"errorRecoveryRate":   p.Performance.ErrorRecoveryRate,
		} {
			assertUnit(t, name, v)
		}
		assert.LessOrEqual(t, len(p.Knowledge.NextTargets), th.MaxNextTargets)
		assert.Len(t, p.Knowledge.LearningSequence, len(p.Knowledge.SubjectMastery))

		pred, err := e.Predict(user, history, p)
		require.NoError(t, err)

		perf := pred.Performance
		assert.LessOrEqual(t, perf.ScoreRange.Low, perf.ExpectedScore)
		assert.LessOrEqual(t, perf.ExpectedScore, perf.ScoreRange.High)
		assert.GreaterOrEqual(t, perf.ScoreRange.Low, 0.0)
		assert.LessOrEqual(t, perf.ScoreRange.High, 100.0)
		assertUnit(t, "improvementProbability", perf.ImprovementProbability)
		assertUnit(t, "learningEfficiency", perf.LearningEfficiency)
		assertUnit(t, "cognitiveLoadPrediction", perf.CognitiveLoadPrediction)
		assertUnit(t, "confidence", pred.Confidence)

		for _, risk := range pred.Risk.Risks {
			assert.Greater(t, risk.Probability, th.RiskThreshold)
		}
		for typ, prob := range pred.Risk.RiskFactors {
			assertUnit(t, string(typ), prob)
		}
		assert.Equal(t, overallLevel(pred.Risk.Risks, th), pred.Risk.OverallLevel)

		for j := 1; j < len(pred.Interventions); j++ {
			assert.GreaterOrEqual(t,
				pred.Interventions[j-1].Priority.weight(),
				pred.Interventions[j].Priority.weight())
		}
	}
}

package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyStyle(t *testing.T) {
	tests := []struct {
		name      string
		stats     styleStats
		primary   LearningStyle
		secondary LearningStyle
	}{
		{
			name:      "fast and consistent",
			stats:     styleStats{avgResponseTime: 40, scoreConsistency: 0.9, avgScore: 70},
			primary:   StyleVisual,
			secondary: StyleAuditory,
		},
		{
			name:      "slow high scorer",
			stats:     styleStats{avgResponseTime: 200, scoreConsistency: 0.6, avgScore: 85},
			primary:   StyleReadWrite,
			secondary: StyleAuditory,
		},
		{
			name:      "slow high scorer with variable pace",
			stats:     styleStats{avgResponseTime: 200, responseVariability: 50, scoreConsistency: 0.6, avgScore: 85},
			primary:   StyleReadWrite,
			secondary: StyleKinesthetic,
		},
		{
			name:      "variable pace",
			stats:     styleStats{avgResponseTime: 90, responseVariability: 45, scoreConsistency: 0.6, avgScore: 78},
			primary:   StyleKinesthetic,
			secondary: StyleAuditory,
		},
		{
			name:      "fallback",
			stats:     styleStats{avgResponseTime: 90, responseVariability: 5, scoreConsistency: 0.6, avgScore: 60},
			primary:   StyleAuditory,
			secondary: StyleVisual,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary, secondary := classifyStyle(tt.stats)
			assert.Equal(t, tt.primary, primary)
			assert.Equal(t, tt.secondary, secondary)
			assert.NotEqual(t, primary, secondary)
		})
	}
}

func TestAnalyzeStyle(t *testing.T) {
	th := DefaultThresholds()

	t.Run("observed", func(t *testing.T) {
		s := analyzeStyle(dailyRecords([]float64{80, 82, 81, 79}, 45), User{ID: "u"}, th)

		assert.Equal(t, StyleVisual, s.PrimaryStyle)
		assert.Equal(t, PaceFast, s.Pace)
		assert.Equal(t, ProcessingSequential, s.ProcessingPreference)
		assert.Equal(t, ThinkingAnalytical, s.ThinkingStyle)
		assert.InDelta(t, 0.805, s.Confidence, 1e-9)
		assert.Len(t, s.Evidence, 4)
	})

	t.Run("declared style wins on short history", func(t *testing.T) {
		s := analyzeStyle(dailyRecords([]float64{90, 92}, 200), User{ID: "u", DeclaredStyle: StyleVisual}, th)

		assert.Equal(t, StyleVisual, s.PrimaryStyle)
		assert.Equal(t, StyleReadWrite, s.SecondaryStyle)
		assert.Equal(t, PaceSlow, s.Pace)
		assert.Contains(t, s.Evidence, "样本不足，风格判断仅供参考")
	})

	t.Run("declared style ignored once history is sufficient", func(t *testing.T) {
		s := analyzeStyle(dailyRecords([]float64{90, 92, 91}, 200), User{ID: "u", DeclaredStyle: StyleVisual}, th)
		assert.Equal(t, StyleReadWrite, s.PrimaryStyle)
	})
}

func TestBuildKnowledgeMap(t *testing.T) {
	records := []LearningRecord{
		rec(0, "数学", "代数", 90, 60),
		rec(1, "数学", "代数", 92, 60),
		rec(2, "数学", "几何", 50, 60),
		rec(3, "数学", "几何", 60, 60),
		rec(4, "数学", "几何", 55, 60),
		rec(5, "英语", "阅读", 95, 60),
		rec(6, "英语", "阅读", 85, 60),
		rec(7, "物理", "力学", 40, 60),
		rec(8, "物理", "力学", 50, 60),
	}
	km := buildKnowledgeMap(records, DefaultThresholds())

	ms := km.SubjectMastery["数学"]
	assert.InDelta(t, 0.91, ms.TopicMastery["代数"], 1e-9)
	assert.InDelta(t, 0.55, ms.TopicMastery["几何"], 1e-9)
	assert.InDelta(t, 0.73, ms.OverallMastery, 1e-9)
	assert.Equal(t, []string{"几何"}, ms.CommonMistakes)
	assert.Equal(t, []string{"代数"}, ms.StrongConcepts)
	assert.Equal(t, 0.0, ms.ImprovementTrend["几何"])
	assert.Equal(t, 0.0, ms.ImprovementTrend["代数"])

	assert.Equal(t, []string{"英语"}, km.Strengths)
	assert.Equal(t, []string{"物理"}, km.Weaknesses)
	assert.Equal(t, []string{"数学/几何", "物理/力学"}, km.NextTargets)
	assert.Equal(t, []string{"英语", "数学", "物理"}, km.LearningSequence)
	assert.Equal(t, map[string][]string{"代数": {"几何"}}, km.ConceptConnections)
}

func TestBuildKnowledgeMap_NextTargetsCapped(t *testing.T) {
	var records []LearningRecord
	for i, topic := range []string{"t1", "t2", "t3", "t4", "t5", "t6", "t7"} {
		records = append(records, rec(i, "数学", topic, 60, 60))
	}
	km := buildKnowledgeMap(records, DefaultThresholds())
	assert.Equal(t, []string{"数学/t1", "数学/t2", "数学/t3", "数学/t4", "数学/t5"}, km.NextTargets)
}

func TestBuildKnowledgeMap_SameTopicInTwoSubjects(t *testing.T) {
	records := []LearningRecord{
		rec(0, "数学", "基础", 60, 60),
		rec(1, "英语", "基础", 50, 60),
	}
	km := buildKnowledgeMap(records, DefaultThresholds())
	assert.Equal(t, []string{"数学/基础", "英语/基础"}, km.NextTargets)
}

func TestImprovementTrend(t *testing.T) {
	records := dailyRecords([]float64{50, 60, 70, 80, 90}, 60)
	km := buildKnowledgeMap(records, DefaultThresholds())
	assert.InDelta(t, 0.2, km.SubjectMastery["数学"].ImprovementTrend["代数"], 1e-9)
}

func TestCognitiveSteps(t *testing.T) {
	assert.Equal(t, 0.9, stepSpeed(30))
	assert.Equal(t, 0.7, stepSpeed(60))
	assert.Equal(t, 0.5, stepSpeed(150))
	assert.Equal(t, 0.3, stepSpeed(180))

	assert.Equal(t, 0.9, stepAttention(181))
	assert.Equal(t, 0.7, stepAttention(150))
	assert.Equal(t, 0.5, stepAttention(90))
	assert.Equal(t, 0.3, stepAttention(60))
}

func TestAnalyzeCognitive(t *testing.T) {
	th := DefaultThresholds()

	t.Run("short history keeps neutral load", func(t *testing.T) {
		c := analyzeCognitive(dailyRecords([]float64{90, 20}, 100), th)
		assert.Equal(t, 0.5, c.CognitiveLoad)
		assert.NotContains(t, c.FatiguePattern, "近期成绩呈下滑趋势")
	})

	t.Run("declining scores", func(t *testing.T) {
		c := analyzeCognitive(dailyRecords([]float64{90, 90, 60, 60}, 100), th)
		assert.InDelta(t, 0.3, c.CognitiveLoad, 1e-9)
		assert.Contains(t, c.FatiguePattern, "近期成绩呈下滑趋势")
	})

	t.Run("working memory from demanding records", func(t *testing.T) {
		records := dailyRecords([]float64{70, 80, 90}, 100)
		records[1].Difficulty = DifficultyAdvanced
		records[2].Difficulty = DifficultyChallenge
		c := analyzeCognitive(records, th)

		assert.InDelta(t, 0.85, c.WorkingMemory, 1e-9)
		assert.Equal(t, 0.9, c.OptimalChallenge)
	})

	t.Run("long sessions", func(t *testing.T) {
		records := []LearningRecord{
			rec(0, "数学", "代数", 85, 600),
			rec(1, "数学", "代数", 88, 600),
			rec(2, "数学", "代数", 50, 5000),
		}
		c := analyzeCognitive(records, th)
		assert.Contains(t, c.FatiguePattern, "长时间学习后成绩明显下降")
		assert.Equal(t, 0.6, c.WorkingMemory)
	})
}

func TestPeakTimes(t *testing.T) {
	at := func(hour int, score float64) LearningRecord {
		return LearningRecord{Timestamp: time.Date(2024, 3, 1, hour, 0, 0, 0, time.UTC), Score: score}
	}
	records := []LearningRecord{at(9, 60), at(14, 90), at(20, 75), at(2, 40)}

	assert.Equal(t, []string{"下午", "晚上"}, peakTimes(records))
	assert.Equal(t, []string{"上午"}, peakTimes(records[:1]))
}

func TestAnalyzeMotivation(t *testing.T) {
	th := DefaultThresholds()

	t.Run("single record", func(t *testing.T) {
		m := analyzeMotivation(dailyRecords([]float64{75}, 100), th)
		assert.Equal(t, 1.0, m.Intrinsic)
		assert.Equal(t, 0.5, m.Extrinsic)
		assert.Equal(t, 0.6, m.Persistence)
		assert.Equal(t, GoalMastery, m.GoalOrientation)
	})

	t.Run("weekly learner improving", func(t *testing.T) {
		var records []LearningRecord
		scores := []float64{40, 50, 60, 70, 80, 90}
		for i, s := range scores {
			records = append(records, rec(i*7, "数学", "代数", s, 100))
		}
		m := analyzeMotivation(records, th)

		assert.InDelta(t, 6.0/35.0, m.Intrinsic, 1e-9)
		assert.InDelta(t, 0.5, m.Extrinsic, 1e-9)
		assert.Equal(t, GoalPerformance, m.GoalOrientation)
		assert.Equal(t, 0.0, m.Persistence)
	})
}

func TestPersistence(t *testing.T) {
	th := DefaultThresholds()
	records := []LearningRecord{
		{Timestamp: baseTime, Score: 40},
		{Timestamp: baseTime.Add(2 * time.Hour), Score: 45},
		{Timestamp: baseTime.Add(72 * time.Hour), Score: 80},
	}
	assert.InDelta(t, 0.5, persistence(records, th), 1e-9)
}

func TestAnalyzePattern(t *testing.T) {
	th := DefaultThresholds()

	records := []LearningRecord{
		rec(0, "数学", "代数", 0, 60),
		rec(1, "数学", "代数", 40, 120),
		rec(2, "英语", "阅读", 80, 180),
		rec(3, "英语", "阅读", 60, 240),
	}
	p := analyzePattern(records, th)

	assert.InDelta(t, 0.4, p.ImprovementRate, 1e-9)
	// 代数首次为 0 记为 1，阅读 60/80
	assert.InDelta(t, (1+0.75)/2, p.RetentionRate, 1e-9)
	assert.InDelta(t, 1.0, p.ErrorRecoveryRate, 1e-9)
	assert.InDelta(t, 0.75, p.TransferAbility, 1e-9)
	assert.InDelta(t, 2.5, p.OptimalSessionLengthMinutes, 1e-9)
}

func TestAnalyzePattern_Defaults(t *testing.T) {
	p := analyzePattern(dailyRecords([]float64{80}, 60), DefaultThresholds())
	assert.Equal(t, 0.7, p.RetentionRate)
	assert.Equal(t, 0.5, p.TransferAbility)
	assert.Equal(t, 0.8, p.ErrorRecoveryRate)
	assert.Equal(t, 0.0, p.ImprovementRate)
	assert.Equal(t, 1.0, p.Consistency)
}

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile(User{ID: "x"})
	require.NotNil(t, p)
	assert.Equal(t, DefaultImprovementRate, p.Performance.ImprovementRate)
	assert.Equal(t, DefaultSessionLengthMinutes, p.Performance.OptimalSessionLengthMinutes)
	assert.Equal(t, DifficultyBasic, p.Strategy.RecommendedDifficulty)
}

package engine

import "sort"

const (
	defaultWorkingMemory    = 0.6
	defaultCognitiveLoad    = 0.5
	defaultOptimalChallenge = 0.4
	longSessionSeconds      = 3600
	recentWindow            = 10
	fatigueScoreGap         = 10.0
	declineFatigueLoad      = 0.1
)

func stepSpeed(avgSeconds float64) float64 {
	switch {
	case avgSeconds < 60:
		return 0.9
	case avgSeconds < 120:
		return 0.7
	case avgSeconds < 180:
		return 0.5
	default:
		return 0.3
	}
}

func stepAttention(avgSeconds float64) float64 {
	switch {
	case avgSeconds > 180:
		return 0.9
	case avgSeconds > 120:
		return 0.7
	case avgSeconds > 60:
		return 0.5
	default:
		return 0.3
	}
}

func workingMemory(records []LearningRecord) float64 {
	var scores []float64
	for _, r := range records {
		if r.Difficulty.Demanding() {
			scores = append(scores, r.Score)
		}
	}
	if len(scores) == 0 {
		return defaultWorkingMemory
	}
	return clamp01(Mean(scores) / 100)
}

// halfDecline 最近 window 条记录中前半段均分减后半段均分
func halfDecline(records []LearningRecord, window int) float64 {
	recent := scoresOf(lastN(records, window))
	half := len(recent) / 2
	if half == 0 {
		return 0
	}
	return Mean(recent[:half]) - Mean(recent[half:])
}

func cognitiveLoad(records []LearningRecord, th Thresholds) float64 {
	if len(records) < th.MinRecords {
		return defaultCognitiveLoad
	}
	return clamp01(max(0, halfDecline(records, recentWindow)/100))
}

func optimalChallenge(records []LearningRecord) float64 {
	byTier := make(map[Difficulty][]float64)
	for _, r := range records {
		byTier[r.Difficulty] = append(byTier[r.Difficulty], r.Score)
	}
	tiers := []struct {
		difficulty Difficulty
		minScore   float64
		value      float64
	}{
		{DifficultyChallenge, 70, 0.9},
		{DifficultyAdvanced, 75, 0.8},
		{DifficultyIntermediate, 80, 0.6},
	}
	for _, t := range tiers {
		scores := byTier[t.difficulty]
		if len(scores) > 0 && Mean(scores) > t.minScore {
			return t.value
		}
	}
	return defaultOptimalChallenge
}

func dayPart(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return "上午"
	case hour >= 12 && hour < 18:
		return "下午"
	case hour >= 18:
		return "晚上"
	default:
		return "深夜"
	}
}

var dayParts = []string{"上午", "下午", "晚上", "深夜"}

func peakTimes(records []LearningRecord) []string {
	byPart := make(map[string][]float64)
	for _, r := range records {
		part := dayPart(r.Timestamp.Hour())
		byPart[part] = append(byPart[part], r.Score)
	}
	parts := make([]string, 0, len(dayParts))
	for _, p := range dayParts {
		if len(byPart[p]) > 0 {
			parts = append(parts, p)
		}
	}
	sort.SliceStable(parts, func(i, j int) bool {
		return Mean(byPart[parts[i]]) > Mean(byPart[parts[j]])
	})
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return parts
}

func fatiguePattern(records []LearningRecord, load float64) []string {
	pattern := []string{}

	var long, normal, lateNight []float64
	for _, r := range records {
		if r.DurationSeconds > longSessionSeconds {
			long = append(long, r.Score)
		} else {
			normal = append(normal, r.Score)
		}
		if dayPart(r.Timestamp.Hour()) == "深夜" {
			lateNight = append(lateNight, r.Score)
		}
	}
	if len(long) > 0 && len(normal) > 0 && Mean(long) < Mean(normal)-fatigueScoreGap {
		pattern = append(pattern, "长时间学习后成绩明显下降")
	}
	if load > declineFatigueLoad {
		pattern = append(pattern, "近期成绩呈下滑趋势")
	}
	if len(lateNight) > 0 && len(lateNight) < len(records) && Mean(lateNight) < Mean(scoresOf(records))-fatigueScoreGap {
		pattern = append(pattern, "深夜学习效率偏低")
	}
	return pattern
}

func analyzeCognitive(records []LearningRecord, th Thresholds) CognitiveProfile {
	if len(records) == 0 {
		return defaultCognitive()
	}
	avgDuration := Mean(durationsOf(records))
	load := cognitiveLoad(records, th)
	observedLoad := 0.0
	if len(records) >= th.MinRecords {
		observedLoad = load
	}
	return CognitiveProfile{
		WorkingMemory:    workingMemory(records),
		ProcessingSpeed:  stepSpeed(avgDuration),
		AttentionSpan:    stepAttention(avgDuration),
		CognitiveLoad:    load,
		OptimalChallenge: optimalChallenge(records),
		FatiguePattern:   fatiguePattern(records, observedLoad),
		PeakTimes:        peakTimes(records),
	}
}

package engine

import "time"

const (
	defaultExtrinsic   = 0.5
	defaultPersistence = 0.6
	followUpWindow     = 24 * time.Hour
)

// weeklyFrequency 每周学习次数，时间跨度至少按 1 天计
func weeklyFrequency(records []LearningRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	first, last := records[0].Timestamp, records[len(records)-1].Timestamp
	days := max(1, last.Sub(first).Hours()/24)
	return float64(len(records)) / (days / 7)
}

func scoreImprovement(records []LearningRecord) float64 {
	return Mean(scoresOf(lastN(records, 5))) - Mean(scoresOf(firstN(records, 5)))
}

// persistence 低分后 24 小时内继续学习的比例
func persistence(records []LearningRecord, th Thresholds) float64 {
	low, followed := 0, 0
	for i, r := range records {
		if r.Score >= th.LowScore {
			continue
		}
		low++
		if i+1 < len(records) && records[i+1].Timestamp.Sub(r.Timestamp) <= followUpWindow {
			followed++
		}
	}
	if low == 0 {
		return defaultPersistence
	}
	return clamp01(float64(followed) / float64(low))
}

func analyzeMotivation(records []LearningRecord, th Thresholds) MotivationProfile {
	if len(records) == 0 {
		return defaultMotivation()
	}

	intrinsic := clamp01(weeklyFrequency(records) / 7)
	extrinsic := defaultExtrinsic
	if len(records) >= th.MinRecords {
		extrinsic = clamp01(scoreImprovement(records) / 20)
	}

	orientation := GoalPerformance
	if intrinsic > extrinsic {
		orientation = GoalMastery
	}

	demanding := 0
	for _, r := range records {
		if r.Difficulty.Demanding() {
			demanding++
		}
	}

	return MotivationProfile{
		Intrinsic:           intrinsic,
		Extrinsic:           extrinsic,
		GoalOrientation:     orientation,
		Persistence:         persistence(records, th),
		ChallengePreference: clamp01(float64(demanding) / float64(len(records))),
		FeedbackSensitivity: clamp01(StdDev(scoresOf(records)) / 50),
	}
}

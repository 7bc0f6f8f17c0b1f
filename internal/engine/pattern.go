package engine

const (
	defaultRetentionRate     = 0.7
	defaultTransferAbility   = 0.5
	defaultErrorRecoveryRate = 0.8
	recoveryGain             = 10.0
)

func improvementRate(records []LearningRecord) float64 {
	var gains []float64
	for i := 1; i < len(records); i++ {
		if d := records[i].Score - records[i-1].Score; d > 0 {
			gains = append(gains, d)
		}
	}
	if len(gains) == 0 {
		return 0
	}
	return Mean(gains) / 100
}

// retentionRate 重复出现的知识点末次与首次成绩之比（上限 1）的平均
func retentionRate(records []LearningRecord) float64 {
	var ratios []float64
	for _, sg := range groupBySubject(records) {
		for _, tg := range sg.topics {
			if len(tg.records) < 2 {
				continue
			}
			first, last := tg.records[0].Score, tg.records[len(tg.records)-1].Score
			ratio := 1.0
			if first > 0 {
				ratio = min(1, last/first)
			}
			ratios = append(ratios, ratio)
		}
	}
	if len(ratios) == 0 {
		return defaultRetentionRate
	}
	return clamp01(Mean(ratios))
}

func transferAbility(records []LearningRecord) float64 {
	subjects := groupBySubject(records)
	if len(subjects) < 2 {
		return defaultTransferAbility
	}
	means := make([]float64, 0, len(subjects))
	for _, sg := range subjects {
		var scores []float64
		for _, tg := range sg.topics {
			scores = append(scores, scoresOf(tg.records)...)
		}
		means = append(means, Mean(scores))
	}
	return clamp01(1 - StdDev(means)/100)
}

func errorRecoveryRate(records []LearningRecord, th Thresholds) float64 {
	low, recovered := 0, 0
	for i := 0; i+1 < len(records); i++ {
		if records[i].Score >= th.LowScore {
			continue
		}
		low++
		if records[i+1].Score >= records[i].Score+recoveryGain {
			recovered++
		}
	}
	if low == 0 {
		return defaultErrorRecoveryRate
	}
	return clamp01(float64(recovered) / float64(low))
}

func analyzePattern(records []LearningRecord, th Thresholds) PerformancePattern {
	if len(records) == 0 {
		return defaultPattern()
	}
	return PerformancePattern{
		Consistency:                 clamp01(1 - StdDev(scoresOf(records))/100),
		ImprovementRate:             improvementRate(records),
		RetentionRate:               retentionRate(records),
		TransferAbility:             transferAbility(records),
		ErrorRecoveryRate:           errorRecoveryRate(records, th),
		OptimalSessionLengthMinutes: Median(durationsOf(records)) / 60,
	}
}

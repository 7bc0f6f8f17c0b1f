package engine

import "slices"

// predictionHorizon 预测跨度（天），与趋势斜率相乘
const predictionHorizon = 7

func improvementBase(slope float64) float64 {
	switch {
	case slope > 1:
		return 0.8
	case slope > 0:
		return 0.6
	case slope > -1:
		return 0.4
	default:
		return 0.2
	}
}

func motivationTrend(p *LearnerProfile) MotivationTrend {
	drive := (p.Motivation.Intrinsic + p.Motivation.Persistence) / 2
	rate := p.Performance.ImprovementRate
	switch {
	case drive > 0.7 && rate > 0.1:
		return TrendRising
	case drive < 0.4 || rate < -0.1:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func learningEfficiency(p *LearnerProfile) float64 {
	return clamp01(Mean([]float64{
		p.Cognitive.ProcessingSpeed,
		p.Cognitive.WorkingMemory,
		p.Performance.Consistency,
	}))
}

func optimalPath(km KnowledgeMap, predictedLoad float64) []string {
	path := []string{}
	add := func(items []string) {
		for _, item := range firstStrings(items, 2) {
			if !slices.Contains(path, item) {
				path = append(path, item)
			}
		}
	}
	// 负荷偏高时先从优势内容热身
	if predictedLoad > 0.7 {
		add(focusTopics(km, km.Strengths, true))
	}
	add(focusTopics(km, km.Weaknesses, false))
	add(km.NextTargets)
	return path
}

// focusTopics 取各科目的代表知识点：优势科目用 strongConcepts，薄弱科目用 commonMistakes，
// 没有候选时退回该科目掌握度最高或最低的知识点
func focusTopics(km KnowledgeMap, subjects []string, strong bool) []string {
	out := []string{}
	for _, subject := range subjects {
		sm, ok := km.SubjectMastery[subject]
		if !ok {
			continue
		}
		picked := sm.CommonMistakes
		if strong {
			picked = sm.StrongConcepts
		}
		if len(picked) == 0 {
			if topic, ok := extremeTopic(sm.TopicMastery, strong); ok {
				picked = []string{topic}
			}
		}
		for _, topic := range picked {
			out = append(out, TopicKey(subject, topic))
		}
	}
	return out
}

func extremeTopic(mastery map[string]float64, highest bool) (string, bool) {
	topics := make([]string, 0, len(mastery))
	for t := range mastery {
		topics = append(topics, t)
	}
	if len(topics) == 0 {
		return "", false
	}
	slices.Sort(topics)
	best := topics[0]
	for _, t := range topics[1:] {
		if (highest && mastery[t] > mastery[best]) || (!highest && mastery[t] < mastery[best]) {
			best = t
		}
	}
	return best, true
}

func predictPerformance(records []LearningRecord, p *LearnerProfile) PerformancePrediction {
	recent := scoresOf(lastN(records, recentWindow))
	slope := TrendSlope(recent)

	expected := DefaultExpectedScore
	spread := DefaultScoreSpread
	if len(recent) > 0 {
		expected = Clamp(Mean(recent)+slope*predictionHorizon, 0, 100)
		spread = StdDev(recent)
	}

	mastery := make(map[string]float64, len(p.Knowledge.SubjectMastery))
	for subject, sm := range p.Knowledge.SubjectMastery {
		mastery[subject] = clamp01(sm.OverallMastery + p.Performance.ImprovementRate*predictionHorizon)
	}

	efficiency := learningEfficiency(p)
	load := clamp01(p.Cognitive.CognitiveLoad + (100-expected)/100*0.2 + (1-efficiency)*0.1)

	return PerformancePrediction{
		ExpectedScore: expected,
		ScoreRange: ScoreRange{
			Low:  Clamp(expected-spread, 0, 100),
			High: Clamp(expected+spread, 0, 100),
		},
		ImprovementProbability:  clamp01(improvementBase(slope) + 0.2*p.Motivation.Intrinsic + 0.1*p.Performance.Consistency),
		MasteryBySubject:        mastery,
		LearningEfficiency:      efficiency,
		MotivationTrend:         motivationTrend(p),
		CognitiveLoadPrediction: load,
		OptimalPath:             optimalPath(p.Knowledge, load),
	}
}

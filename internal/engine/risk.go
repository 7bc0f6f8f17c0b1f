package engine

import "fmt"

var riskLabels = map[RiskType]string{
	RiskBurnout:           "学习倦怠",
	RiskForgetting:        "知识遗忘",
	RiskMotivationDecline: "动机下降",
	RiskCognitiveOverload: "认知过载",
	RiskStagnation:        "学习停滞",
}

// Label 风险类型的中文名称
func (t RiskType) Label() string {
	if l, ok := riskLabels[t]; ok {
		return l
	}
	return string(t)
}

type riskInput struct {
	records    []LearningRecord
	profile    *LearnerProfile
	prediction PerformancePrediction
	th         Thresholds
}

type recentLoad struct {
	avgMinutes float64
	decline    float64
	avgScore   float64
	samples    int
}

func measureRecentLoad(records []LearningRecord) recentLoad {
	recent := lastN(records, recentWindow)
	return recentLoad{
		avgMinutes: Mean(durationsOf(recent)) / 60,
		decline:    halfDecline(records, recentWindow),
		avgScore:   Mean(scoresOf(recent)),
		samples:    len(recent),
	}
}

func burnoutRisk(in riskInput) SpecificRisk {
	rl := measureRecentLoad(in.records)
	declining := rl.decline > 10 || (rl.samples > 0 && rl.avgScore < in.th.LowScore)

	var prob float64
	switch {
	case rl.avgMinutes > 120 && declining:
		prob = 0.9
	case rl.avgMinutes > 120 || rl.decline > 15:
		prob = 0.7
	case rl.avgMinutes > 60 || rl.decline > 5:
		prob = 0.5
	default:
		prob = 0.2
	}

	return SpecificRisk{
		Type:        RiskBurnout,
		Probability: prob,
		Impact:      RiskHigh,
		Timeframe:   "1-2周",
		Indicators: []string{
			fmt.Sprintf("近期平均单次学习时长 %.0f 分钟", rl.avgMinutes),
			fmt.Sprintf("近期成绩前后半段差值 %.1f 分", rl.decline),
		},
		Strategy: "控制单次学习时长，安排规律休息",
	}
}

func forgettingRisk(in riskInput) SpecificRisk {
	retention := in.profile.Performance.RetentionRate
	return SpecificRisk{
		Type:        RiskForgetting,
		Probability: clamp01(1 - retention),
		Impact:      RiskMedium,
		Timeframe:   "2-4周",
		Indicators:  []string{fmt.Sprintf("知识保持率 %.2f", retention)},
		Strategy:    "按遗忘曲线安排间隔复习",
	}
}

func motivationDeclineRisk(in riskInput) SpecificRisk {
	m := in.profile.Motivation
	return SpecificRisk{
		Type:        RiskMotivationDecline,
		Probability: clamp01(1 - (m.Intrinsic+m.Persistence)/2),
		Impact:      RiskHigh,
		Timeframe:   "2-3周",
		Indicators: []string{
			fmt.Sprintf("内在动机 %.2f", m.Intrinsic),
			fmt.Sprintf("学习坚持度 %.2f", m.Persistence),
		},
		Strategy: "设置阶段性目标并及时给予正向反馈",
	}
}

// sessionLoad 近期单次学习时长带来的负荷
func sessionLoad(avgMinutes float64) float64 {
	switch {
	case avgMinutes > 120:
		return 0.9
	case avgMinutes > 60:
		return 0.6
	case avgMinutes > 30:
		return 0.4
	default:
		return 0
	}
}

func cognitiveOverloadRisk(in riskInput) SpecificRisk {
	c := in.profile.Cognitive
	rl := measureRecentLoad(in.records)
	load := max(c.CognitiveLoad, in.prediction.CognitiveLoadPrediction, sessionLoad(rl.avgMinutes))

	prob := 0.0
	switch {
	case c.WorkingMemory > 0:
		prob = clamp01(load / c.WorkingMemory)
	case load > 0:
		prob = 1
	}

	return SpecificRisk{
		Type:        RiskCognitiveOverload,
		Probability: prob,
		Impact:      RiskHigh,
		Timeframe:   "即时",
		Indicators: []string{
			fmt.Sprintf("有效认知负荷 %.2f", load),
			fmt.Sprintf("工作记忆 %.2f", c.WorkingMemory),
		},
		Strategy: "降低题目难度并拆分学习任务",
	}
}

func stagnationRisk(in riskInput) SpecificRisk {
	rate := in.profile.Performance.ImprovementRate
	slope := TrendSlope(scoresOf(lastN(in.records, recentWindow)))

	prob := 0.3
	// 成绩仍在明显上升时不视为停滞
	if rate < in.th.StagnationRate && slope <= 1 {
		prob = 0.8
	}

	return SpecificRisk{
		Type:        RiskStagnation,
		Probability: prob,
		Impact:      RiskMedium,
		Timeframe:   "3-4周",
		Indicators: []string{
			fmt.Sprintf("平均提升幅度 %.3f", rate),
			fmt.Sprintf("近期成绩趋势斜率 %.2f", slope),
		},
		Strategy: "更换练习方式并引入新的知识点",
	}
}

var riskEvaluators = map[RiskType]func(riskInput) SpecificRisk{
	RiskBurnout:           burnoutRisk,
	RiskForgetting:        forgettingRisk,
	RiskMotivationDecline: motivationDeclineRisk,
	RiskCognitiveOverload: cognitiveOverloadRisk,
	RiskStagnation:        stagnationRisk,
}

// overallLevel 任一风险概率 > High 为 high，> Medium 为 medium
func overallLevel(risks []SpecificRisk, th Thresholds) RiskLevel {
	level := RiskLow
	for _, r := range risks {
		if r.Probability > th.HighRiskProbability {
			return RiskHigh
		}
		if r.Probability > th.MediumRiskProbability {
			level = RiskMedium
		}
	}
	return level
}

func assessRisk(in riskInput) RiskAssessment {
	ra := RiskAssessment{
		Risks:             []SpecificRisk{},
		Warnings:          []string{},
		PreventiveActions: []string{},
		RiskFactors:       make(map[RiskType]float64, len(AllRiskTypes)),
	}

	for _, t := range AllRiskTypes {
		risk := riskEvaluators[t](in)
		risk.Probability = clamp01(risk.Probability)
		ra.RiskFactors[t] = risk.Probability

		switch {
		case risk.Probability > in.th.RiskThreshold:
			ra.Risks = append(ra.Risks, risk)
			ra.Warnings = append(ra.Warnings, fmt.Sprintf("%s风险较高（概率 %.0f%%）", t.Label(), risk.Probability*100))
			ra.PreventiveActions = append(ra.PreventiveActions, risk.Strategy)
		case risk.Probability > in.th.MediumRiskProbability:
			ra.Warnings = append(ra.Warnings, fmt.Sprintf("%s风险需关注（概率 %.0f%%）", t.Label(), risk.Probability*100))
		}
	}

	if len(ra.PreventiveActions) == 0 {
		ra.PreventiveActions = append(ra.PreventiveActions, "保持当前学习节奏，定期复习巩固")
	}
	ra.OverallLevel = overallLevel(ra.Risks, in.th)
	return ra
}

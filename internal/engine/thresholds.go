package engine

// Thresholds 引擎中的可调阈值。默认值沿用既有行为，未经数据验证前不要改动。
//
// 认知超载风险使用有效负荷 max(cognitiveLoad, 预测负荷, 单次时长负荷)，
// 单次时长负荷按近 10 次平均时长 >120/>60/>30 分钟取 0.9/0.6/0.4，不在此处配置。
// 因此平均单次超过 30 分钟的学习者至少有 0.4/workingMemory 的超载概率
// （例如稳定 35 分钟、工作记忆 0.6 时约为 0.67），调整 RiskThreshold 决定其是否列入风险。
type Thresholds struct {
	// 风险概率超过该值才列入 RiskAssessment.Risks
	RiskThreshold         float64 `mapstructure:"risk_threshold" json:"riskThreshold"`
	HighRiskProbability   float64 `mapstructure:"high_risk_probability" json:"highRiskProbability"`
	MediumRiskProbability float64 `mapstructure:"medium_risk_probability" json:"mediumRiskProbability"`

	StrengthMastery      float64 `mapstructure:"strength_mastery" json:"strengthMastery"`
	WeaknessMastery      float64 `mapstructure:"weakness_mastery" json:"weaknessMastery"`
	StrongConceptMastery float64 `mapstructure:"strong_concept_mastery" json:"strongConceptMastery"`
	TargetMasteryMin     float64 `mapstructure:"target_mastery_min" json:"targetMasteryMin"`
	TargetMasteryMax     float64 `mapstructure:"target_mastery_max" json:"targetMasteryMax"`
	MaxNextTargets       int     `mapstructure:"max_next_targets" json:"maxNextTargets"`

	MistakeScore   float64 `mapstructure:"mistake_score" json:"mistakeScore"`
	LowScore       float64 `mapstructure:"low_score" json:"lowScore"`
	StagnationRate float64 `mapstructure:"stagnation_rate" json:"stagnationRate"`
	MinRecords     int     `mapstructure:"min_records" json:"minRecords"`

	// 实时干预
	StrugglingScore       float64 `mapstructure:"struggling_score" json:"strugglingScore"`
	FatigueSessionSeconds int     `mapstructure:"fatigue_session_seconds" json:"fatigueSessionSeconds"`
	RushSeconds           int     `mapstructure:"rush_seconds" json:"rushSeconds"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		RiskThreshold:         0.7,
		HighRiskProbability:   0.8,
		MediumRiskProbability: 0.6,
		StrengthMastery:       0.8,
		WeaknessMastery:       0.6,
		StrongConceptMastery:  0.85,
		TargetMasteryMin:      0.4,
		TargetMasteryMax:      0.8,
		MaxNextTargets:        5,
		MistakeScore:          70,
		LowScore:              60,
		StagnationRate:        0.05,
		MinRecords:            3,
		StrugglingScore:       50,
		FatigueSessionSeconds: 120 * 60,
		RushSeconds:           30,
	}
}

// withDefaults 补齐未配置（零值）的字段
func (t Thresholds) withDefaults() Thresholds {
	d := DefaultThresholds()
	fill := func(v *float64, def float64) {
		if *v <= 0 {
			*v = def
		}
	}
	fill(&t.RiskThreshold, d.RiskThreshold)
	fill(&t.HighRiskProbability, d.HighRiskProbability)
	fill(&t.MediumRiskProbability, d.MediumRiskProbability)
	fill(&t.StrengthMastery, d.StrengthMastery)
	fill(&t.WeaknessMastery, d.WeaknessMastery)
	fill(&t.StrongConceptMastery, d.StrongConceptMastery)
	fill(&t.TargetMasteryMin, d.TargetMasteryMin)
	fill(&t.TargetMasteryMax, d.TargetMasteryMax)
	fill(&t.MistakeScore, d.MistakeScore)
	fill(&t.LowScore, d.LowScore)
	fill(&t.StagnationRate, d.StagnationRate)
	fill(&t.StrugglingScore, d.StrugglingScore)
	if t.MaxNextTargets <= 0 {
		t.MaxNextTargets = d.MaxNextTargets
	}
	if t.MinRecords <= 0 {
		t.MinRecords = d.MinRecords
	}
	if t.FatigueSessionSeconds <= 0 {
		t.FatigueSessionSeconds = d.FatigueSessionSeconds
	}
	if t.RushSeconds <= 0 {
		t.RushSeconds = d.RushSeconds
	}
	return t
}

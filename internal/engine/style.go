package engine

import "fmt"

type styleStats struct {
	avgResponseTime     float64
	responseVariability float64
	avgScore            float64
	scoreConsistency    float64
}

func computeStyleStats(records []LearningRecord) styleStats {
	scores := scoresOf(records)
	normalized := make([]float64, len(scores))
	for i, s := range scores {
		normalized[i] = s / 100
	}
	durations := durationsOf(records)
	return styleStats{
		avgResponseTime:     Mean(durations),
		responseVariability: StdDev(durations),
		avgScore:            Mean(scores),
		scoreConsistency:    clamp01(1 - StdDev(normalized)),
	}
}

// styleRule 按顺序匹配，首个命中的规则即为主风格
type styleRule struct {
	style LearningStyle
	match func(styleStats) bool
}

var styleRules = []styleRule{
	{StyleVisual, func(s styleStats) bool { return s.avgResponseTime < 60 && s.scoreConsistency > 0.8 }},
	{StyleReadWrite, func(s styleStats) bool { return s.avgResponseTime > 120 && s.avgScore > 80 }},
	{StyleKinesthetic, func(s styleStats) bool { return s.responseVariability > 30 && s.avgScore > 75 }},
}

var complementStyle = map[LearningStyle]LearningStyle{
	StyleVisual:      StyleAuditory,
	StyleAuditory:    StyleVisual,
	StyleReadWrite:   StyleVisual,
	StyleKinesthetic: StyleVisual,
}

func classifyStyle(s styleStats) (primary, secondary LearningStyle) {
	matched := make([]LearningStyle, 0, len(styleRules)+1)
	for _, rule := range styleRules {
		if rule.match(s) {
			matched = append(matched, rule.style)
		}
	}
	matched = append(matched, StyleAuditory)

	primary = matched[0]
	secondary = complementStyle[primary]
	for _, st := range matched[1:] {
		if st != primary {
			secondary = st
			break
		}
	}
	return primary, secondary
}

func analyzeStyle(records []LearningRecord, user User, th Thresholds) LearningStyleProfile {
	if len(records) == 0 {
		return defaultStyle(user)
	}

	s := computeStyleStats(records)
	primary, secondary := classifyStyle(s)

	// 样本不足时以用户自述的风格为准
	if len(records) < th.MinRecords && user.DeclaredStyle.Valid() {
		if primary != user.DeclaredStyle {
			secondary = primary
		}
		primary = user.DeclaredStyle
		if secondary == primary {
			secondary = complementStyle[primary]
		}
	}

	processing := ProcessingGlobal
	if s.scoreConsistency > 0.7 {
		processing = ProcessingSequential
	}

	thinking := ThinkingHolistic
	switch {
	case s.avgScore > 80 && s.scoreConsistency > 0.7:
		thinking = ThinkingAnalytical
	case s.responseVariability > 30:
		thinking = ThinkingIntuitive
	}

	pace := PaceModerate
	switch {
	case s.avgResponseTime < 60:
		pace = PaceFast
	case s.avgResponseTime > 150:
		pace = PaceSlow
	}

	confidence := clamp01(min(s.scoreConsistency, s.avgScore/100))

	evidence := []string{
		fmt.Sprintf("样本量: %d 条学习记录", len(records)),
		fmt.Sprintf("平均答题时间: %.1f 秒", s.avgResponseTime),
		fmt.Sprintf("成绩一致性: %.2f", s.scoreConsistency),
		fmt.Sprintf("平均成绩: %.1f 分", s.avgScore),
	}
	if len(records) < th.MinRecords {
		evidence = append(evidence, "样本不足，风格判断仅供参考")
	}

	return LearningStyleProfile{
		PrimaryStyle:         primary,
		SecondaryStyle:       secondary,
		ProcessingPreference: processing,
		ThinkingStyle:        thinking,
		Pace:                 pace,
		Confidence:           confidence,
		Evidence:             evidence,
	}
}

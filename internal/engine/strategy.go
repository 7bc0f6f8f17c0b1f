package engine

import "fmt"

var questionTypesByStyle = map[LearningStyle][]string{
	StyleVisual:      {"图表题", "几何题", "选择题"},
	StyleAuditory:    {"听力题", "口述解题", "讨论题"},
	StyleReadWrite:   {"阅读理解题", "论述题", "填空题"},
	StyleKinesthetic: {"实践操作题", "实验探究题", "互动练习题"},
}

func recommendDifficulty(optimalChallenge float64) Difficulty {
	switch {
	case optimalChallenge > 0.8:
		return DifficultyAdvanced
	case optimalChallenge > 0.6:
		return DifficultyIntermediate
	case optimalChallenge > 0.4:
		return DifficultyBasic
	default:
		return DifficultyIntro
	}
}

// bulletRule 条件独立判断，输出顺序与规则顺序一致
type bulletRule struct {
	when func(*LearnerProfile) bool
	text func(*LearnerProfile) string
}

func fixed(s string) func(*LearnerProfile) string {
	return func(*LearnerProfile) string { return s }
}

func applyRules(p *LearnerProfile, rules []bulletRule) []string {
	out := []string{}
	for _, r := range rules {
		if r.when(p) {
			out = append(out, r.text(p))
		}
	}
	return out
}

var pathAdjustmentRules = []bulletRule{
	{
		when: func(p *LearnerProfile) bool { return len(p.Knowledge.Weaknesses) > 0 },
		text: func(p *LearnerProfile) string {
			return fmt.Sprintf("优先巩固薄弱科目: %s", p.Knowledge.Weaknesses[0])
		},
	},
	{
		when: func(p *LearnerProfile) bool { return len(p.Knowledge.Strengths) > 0 },
		text: func(p *LearnerProfile) string {
			return fmt.Sprintf("在优势科目 %s 上尝试拓展内容", p.Knowledge.Strengths[0])
		},
	},
	{
		when: func(p *LearnerProfile) bool { return p.Performance.ImprovementRate < 0.05 },
		text: fixed("调整学习路径，引入新的题型与练习方式"),
	},
	{
		when: func(p *LearnerProfile) bool { return p.Performance.RetentionRate < 0.6 },
		text: fixed("增加间隔复习，巩固已学知识点"),
	},
	{
		when: func(p *LearnerProfile) bool { return p.Performance.TransferAbility < 0.5 },
		text: fixed("安排跨科目综合练习，提升知识迁移能力"),
	},
}

var motivationalRules = []bulletRule{
	{
		when: func(p *LearnerProfile) bool { return p.Motivation.Intrinsic < 0.5 },
		text: fixed("设置短期可达成的学习目标"),
	},
	{
		when: func(p *LearnerProfile) bool { return p.Motivation.Extrinsic > p.Motivation.Intrinsic },
		text: fixed("结合积分与成就徽章进行激励"),
	},
	{
		when: func(p *LearnerProfile) bool { return p.Motivation.Persistence < 0.5 },
		text: fixed("低分后及时给予鼓励与针对性反馈"),
	},
	{
		when: func(p *LearnerProfile) bool { return p.Motivation.ChallengePreference > 0.6 },
		text: fixed("提供挑战性任务保持学习兴趣"),
	},
	{
		when: func(p *LearnerProfile) bool { return p.Motivation.FeedbackSensitivity > 0.6 },
		text: fixed("以过程性评价为主，弱化单次成绩波动"),
	},
}

var cognitiveSupportRules = []bulletRule{
	{
		when: func(p *LearnerProfile) bool { return p.Cognitive.CognitiveLoad > 0.7 },
		text: fixed("降低学习强度，适当安排休息"),
	},
	{
		when: func(p *LearnerProfile) bool { return p.Cognitive.WorkingMemory < 0.5 },
		text: fixed("将复杂问题拆分为小步骤呈现"),
	},
	{
		when: func(p *LearnerProfile) bool { return p.Cognitive.AttentionSpan < 0.5 },
		text: fixed("采用短时多次的学习安排"),
	},
	{
		when: func(p *LearnerProfile) bool { return p.Cognitive.ProcessingSpeed < 0.5 },
		text: fixed("放宽答题时间限制"),
	},
}

func synthesizeStrategy(p *LearnerProfile) PersonalizationStrategy {
	difficulty := recommendDifficulty(p.Cognitive.OptimalChallenge)

	suggested := append([]string{}, firstStrings(p.Knowledge.NextTargets, 3)...)

	motivational := applyRules(p, motivationalRules)
	if len(motivational) == 0 {
		motivational = append(motivational, "保持当前的激励方式")
	}

	next := []string{}
	for _, topic := range suggested {
		next = append(next, fmt.Sprintf("练习知识点: %s", topic))
	}
	for _, subject := range p.Knowledge.Weaknesses {
		next = append(next, fmt.Sprintf("复习薄弱科目: %s", subject))
	}
	next = append(next, fmt.Sprintf("按%s难度继续练习", difficulty))

	return PersonalizationStrategy{
		RecommendedDifficulty:  difficulty,
		OptimalQuestionTypes:   append([]string{}, questionTypesByStyle[p.Style.PrimaryStyle]...),
		SuggestedTopics:        suggested,
		PathAdjustments:        applyRules(p, pathAdjustmentRules),
		MotivationalStrategies: motivational,
		CognitiveSupports:      applyRules(p, cognitiveSupportRules),
		NextActions:            next,
	}
}

func firstStrings(list []string, n int) []string {
	if len(list) <= n {
		return list
	}
	return list[:n]
}

package engine

import "sort"

var riskInterventions = map[RiskType]InterventionRecommendation{
	RiskBurnout: {
		Type:            InterventionImmediate,
		Priority:        PriorityHigh,
		TargetArea:      "学习节奏",
		Actions:         []string{"立即安排休息", "将单次学习时长控制在45分钟以内"},
		ExpectedOutcome: "恢复学习精力，成绩止跌回稳",
		Steps:           []string{"暂停高强度练习1-2天", "采用番茄工作法安排学习", "每周至少安排一天完全休息"},
		SuccessMetrics:  []string{"平均单次学习时长低于60分钟", "近期成绩不再下滑"},
		Timeline:        "1周",
	},
	RiskForgetting: {
		Type:            InterventionShortTerm,
		Priority:        PriorityMedium,
		TargetArea:      "知识巩固",
		Actions:         []string{"安排间隔复习", "整理错题本"},
		ExpectedOutcome: "提高已学知识点的保持率",
		Steps:           []string{"按1、3、7天间隔复习旧知识点", "每周完成一次综合回顾测验"},
		SuccessMetrics:  []string{"重复练习的知识点成绩不低于首次成绩"},
		Timeline:        "2-4周",
	},
	RiskMotivationDecline: {
		Type:            InterventionShortTerm,
		Priority:        PriorityHigh,
		TargetArea:      "学习动机",
		Actions:         []string{"设定短期可达成目标", "及时给予正向反馈"},
		ExpectedOutcome: "学习频率与坚持度回升",
		Steps:           []string{"与学习者共同制定本周目标", "完成目标后给予奖励", "低分后安排容易成功的练习"},
		SuccessMetrics:  []string{"每周学习次数增加", "低分后24小时内继续学习的比例提升"},
		Timeline:        "2-3周",
	},
	RiskCognitiveOverload: {
		Type:            InterventionImmediate,
		Priority:        PriorityHigh,
		TargetArea:      "认知负荷",
		Actions:         []string{"降低题目难度", "拆分复杂任务"},
		ExpectedOutcome: "减轻认知负担，稳定正确率",
		Steps:           []string{"暂时回到上一难度等级", "每次只聚焦一个知识点", "提供分步提示"},
		SuccessMetrics:  []string{"认知负荷指标降至0.5以下", "正确率保持稳定"},
		Timeline:        "1-2周",
	},
	RiskStagnation: {
		Type:            InterventionShortTerm,
		Priority:        PriorityMedium,
		TargetArea:      "学习突破",
		Actions:         []string{"更换练习方式", "引入新的知识点"},
		ExpectedOutcome: "打破平台期，成绩重新提升",
		Steps:           []string{"分析近期错题找出瓶颈", "尝试不同题型", "适度提高挑战难度"},
		SuccessMetrics:  []string{"成绩趋势斜率转正", "平均提升幅度超过0.05"},
		Timeline:        "3-4周",
	},
}

var styleInterventions = map[LearningStyle]InterventionRecommendation{
	StyleVisual: {
		Actions: []string{"使用思维导图整理知识", "多采用图表与示意图讲解"},
		Steps:   []string{"每个单元结束绘制一张知识结构图", "用颜色标记重点与易错点"},
	},
	StyleAuditory: {
		Actions: []string{"通过讲解与讨论巩固知识", "尝试口述解题思路"},
		Steps:   []string{"每天复述一道题的解题过程", "参与小组讨论"},
	},
	StyleReadWrite: {
		Actions: []string{"阅读教材与解析", "撰写学习笔记与总结"},
		Steps:   []string{"每次练习后写下要点总结", "整理知识点清单"},
	},
	StyleKinesthetic: {
		Actions: []string{"通过动手实践理解概念", "使用互动练习与实验"},
		Steps:   []string{"将知识点与生活实例结合", "每周完成一次实践任务"},
	},
}

// clone 模板共享底层切片，输出前复制一份
func (r InterventionRecommendation) clone() InterventionRecommendation {
	r.Actions = append([]string{}, r.Actions...)
	r.Steps = append([]string{}, r.Steps...)
	r.SuccessMetrics = append([]string{}, r.SuccessMetrics...)
	return r
}

func styleIntervention(style LearningStyle) InterventionRecommendation {
	tpl, ok := styleInterventions[style]
	if !ok {
		tpl = styleInterventions[StyleVisual]
	}
	rec := tpl.clone()
	rec.Type = InterventionLongTerm
	rec.Priority = PriorityLow
	rec.TargetArea = "学习方式（" + string(style) + "）"
	rec.ExpectedOutcome = "学习方式与个人风格更匹配，提升学习效率"
	rec.SuccessMetrics = []string{"学习效率指标提升", "成绩一致性提升"}
	rec.Timeline = "1-2个月"
	return rec
}

func recommendInterventions(p *LearnerProfile, perf PerformancePrediction, risk RiskAssessment) []InterventionRecommendation {
	out := []InterventionRecommendation{}

	for _, r := range risk.Risks {
		if tpl, ok := riskInterventions[r.Type]; ok {
			out = append(out, tpl.clone())
		}
	}

	if perf.ImprovementProbability < 0.5 {
		out = append(out, InterventionRecommendation{
			Type:            InterventionLongTerm,
			Priority:        PriorityMedium,
			TargetArea:      "学习方法",
			Actions:         []string{"调整学习方法", "重新规划学习路径"},
			ExpectedOutcome: "提高成绩提升的可能性",
			Steps:           []string{"回顾近一个月的学习记录", "针对薄弱知识点制定专项计划", "每两周评估一次效果"},
			SuccessMetrics:  []string{"成绩提升概率高于0.5"},
			Timeline:        "1个月",
		})
	}

	out = append(out, styleIntervention(p.Style.PrimaryStyle))

	if risk.OverallLevel == RiskLow {
		out = append(out, InterventionRecommendation{
			Type:            InterventionPreventive,
			Priority:        PriorityLow,
			TargetArea:      "学习状态维持",
			Actions:         []string{"保持当前学习节奏", "定期复习巩固"},
			ExpectedOutcome: "保持良好的学习状态",
			Steps:           []string{"每周回顾学习数据", "适时提高挑战难度"},
			SuccessMetrics:  []string{"整体风险等级保持为低"},
			Timeline:        "持续",
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.weight() > out[j].Priority.weight()
	})
	return out
}

package engine

import "sort"

const realtimeWindow = 3

func learningDifficultyIntervention() *InterventionRecommendation {
	return &InterventionRecommendation{
		Type:            InterventionImmediate,
		Priority:        PriorityHigh,
		TargetArea:      "学习困难",
		Actions:         []string{"暂停当前难度的练习", "回顾相关基础知识点"},
		ExpectedOutcome: "找到薄弱环节，恢复答题信心",
		Steps:           []string{"查看最近三次的错题解析", "完成两道基础题", "再回到当前难度"},
		SuccessMetrics:  []string{"下一次练习成绩不低于50分"},
		Timeline:        "本次学习",
	}
}

func fatigueIntervention() *InterventionRecommendation {
	return &InterventionRecommendation{
		Type:            InterventionImmediate,
		Priority:        PriorityHigh,
		TargetArea:      "学习疲劳",
		Actions:         []string{"立即休息15分钟以上", "今日剩余时间安排轻量复习"},
		ExpectedOutcome: "缓解疲劳，避免效率下降",
		Steps:           []string{"离开屏幕活动身体", "休息后只做简单回顾"},
		SuccessMetrics:  []string{"下一次学习时长控制在2小时以内"},
		Timeline:        "本次学习",
	}
}

func rushingIntervention() *InterventionRecommendation {
	return &InterventionRecommendation{
		Type:            InterventionImmediate,
		Priority:        PriorityMedium,
		TargetArea:      "答题过快",
		Actions:         []string{"放慢答题速度", "作答前先审题"},
		ExpectedOutcome: "减少粗心错误",
		Steps:           []string{"每道题至少思考30秒", "提交前检查一遍答案"},
		SuccessMetrics:  []string{"单题用时超过30秒", "粗心错误减少"},
		Timeline:        "本次学习",
	}
}

// CheckRealTimeIntervention 每次学习结束后调用，按顺序匹配，只返回首个命中的干预，
// 无需干预时返回 nil。非法记录不参与判断。
func (e *Engine) CheckRealTimeIntervention(current LearningRecord, recent []LearningRecord) *InterventionRecommendation {
	if validateRecord(current) != nil {
		return nil
	}

	window, _ := ValidateRecords(recent)
	sort.SliceStable(window, func(i, j int) bool {
		return window[i].Timestamp.Before(window[j].Timestamp)
	})
	window = append(window, current)
	last := lastN(window, realtimeWindow)

	th := e.thresholds
	if len(last) == realtimeWindow && allRecords(last, func(r LearningRecord) bool { return r.Score < th.StrugglingScore }) {
		return learningDifficultyIntervention()
	}
	if current.DurationSeconds > th.FatigueSessionSeconds {
		return fatigueIntervention()
	}
	if current.DurationSeconds < th.RushSeconds && len(last) == realtimeWindow &&
		allRecords(last, func(r LearningRecord) bool { return r.DurationSeconds < th.RushSeconds }) {
		return rushingIntervention()
	}
	return nil
}

func allRecords(records []LearningRecord, pred func(LearningRecord) bool) bool {
	for _, r := range records {
		if !pred(r) {
			return false
		}
	}
	return true
}

package engine

// 无学习记录时使用的中性默认值
const (
	DefaultConfidence           = 0.5
	DefaultExpectedScore        = 70.0
	DefaultScoreSpread          = 10.0
	DefaultSessionLengthMinutes = 30.0
	DefaultImprovementRate      = 0.05
	emptyHistoryCognitiveLoad   = 0.3
)

func defaultStyle(user User) LearningStyleProfile {
	primary := StyleVisual
	if user.DeclaredStyle.Valid() {
		primary = user.DeclaredStyle
	}
	return LearningStyleProfile{
		PrimaryStyle:         primary,
		SecondaryStyle:       complementStyle[primary],
		ProcessingPreference: ProcessingSequential,
		ThinkingStyle:        ThinkingHolistic,
		Pace:                 PaceModerate,
		Confidence:           DefaultConfidence,
		Evidence:             []string{"样本量: 0 条学习记录，使用默认画像"},
	}
}

func emptyKnowledgeMap() KnowledgeMap {
	return KnowledgeMap{
		SubjectMastery:     map[string]SubjectMastery{},
		ConceptConnections: map[string][]string{},
		LearningSequence:   []string{},
		Strengths:          []string{},
		Weaknesses:         []string{},
		NextTargets:        []string{},
	}
}

func defaultCognitive() CognitiveProfile {
	return CognitiveProfile{
		WorkingMemory:    0.6,
		ProcessingSpeed:  0.6,
		AttentionSpan:    0.6,
		CognitiveLoad:    emptyHistoryCognitiveLoad,
		OptimalChallenge: 0.6,
		FatiguePattern:   []string{},
		PeakTimes:        []string{},
	}
}

func defaultMotivation() MotivationProfile {
	return MotivationProfile{
		Intrinsic:           0.6,
		Extrinsic:           0.5,
		GoalOrientation:     GoalMastery,
		Persistence:         0.6,
		ChallengePreference: 0.5,
		FeedbackSensitivity: 0.5,
	}
}

func defaultPattern() PerformancePattern {
	return PerformancePattern{
		Consistency:                 0.6,
		ImprovementRate:             DefaultImprovementRate,
		RetentionRate:               defaultRetentionRate,
		TransferAbility:             defaultTransferAbility,
		ErrorRecoveryRate:           defaultErrorRecoveryRate,
		OptimalSessionLengthMinutes: DefaultSessionLengthMinutes,
	}
}

// DefaultProfile 空历史对应的画像
func DefaultProfile(user User) *LearnerProfile {
	p := &LearnerProfile{
		UserID:      user.ID,
		Style:       defaultStyle(user),
		Knowledge:   emptyKnowledgeMap(),
		Cognitive:   defaultCognitive(),
		Motivation:  defaultMotivation(),
		Performance: defaultPattern(),
	}
	p.Strategy = synthesizeStrategy(p)
	return p
}

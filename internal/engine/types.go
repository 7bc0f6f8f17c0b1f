package engine

import "time"

// LearningStyle 学习风格
type LearningStyle string

const (
	StyleVisual      LearningStyle = "视觉型"
	StyleAuditory    LearningStyle = "听觉型"
	StyleReadWrite   LearningStyle = "读写型"
	StyleKinesthetic LearningStyle = "动觉型"
)

func (s LearningStyle) Valid() bool {
	switch s {
	case StyleVisual, StyleAuditory, StyleReadWrite, StyleKinesthetic:
		return true
	}
	return false
}

// Difficulty 题目难度，由低到高
type Difficulty string

const (
	DifficultyIntro        Difficulty = "入门"
	DifficultyBasic        Difficulty = "基础"
	DifficultyIntermediate Difficulty = "中级"
	DifficultyAdvanced     Difficulty = "高级"
	DifficultyChallenge    Difficulty = "挑战"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyIntro, DifficultyBasic, DifficultyIntermediate, DifficultyAdvanced, DifficultyChallenge:
		return true
	}
	return false
}

// Demanding 高级与挑战难度视为高认知需求
func (d Difficulty) Demanding() bool {
	return d == DifficultyAdvanced || d == DifficultyChallenge
}

type ProcessingPreference string

const (
	ProcessingSequential ProcessingPreference = "顺序型"
	ProcessingGlobal     ProcessingPreference = "全局型"
)

type ThinkingStyle string

const (
	ThinkingAnalytical ThinkingStyle = "分析型"
	ThinkingIntuitive  ThinkingStyle = "直觉型"
	ThinkingHolistic   ThinkingStyle = "综合型"
)

type Pace string

const (
	PaceFast     Pace = "快速"
	PaceModerate Pace = "中等"
	PaceSlow     Pace = "慢速"
)

type GoalOrientation string

const (
	GoalMastery     GoalOrientation = "掌握导向"
	GoalPerformance GoalOrientation = "表现导向"
)

type MotivationTrend string

const (
	TrendRising    MotivationTrend = "上升"
	TrendStable    MotivationTrend = "稳定"
	TrendDeclining MotivationTrend = "下降"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type RiskType string

const (
	RiskBurnout           RiskType = "burnout"
	RiskForgetting        RiskType = "forgetting"
	RiskMotivationDecline RiskType = "motivation_decline"
	RiskCognitiveOverload RiskType = "cognitive_overload"
	RiskStagnation        RiskType = "stagnation"
)

// AllRiskTypes 评估顺序固定
var AllRiskTypes = []RiskType{
	RiskBurnout,
	RiskForgetting,
	RiskMotivationDecline,
	RiskCognitiveOverload,
	RiskStagnation,
}

type InterventionType string

const (
	InterventionImmediate  InterventionType = "immediate"
	InterventionShortTerm  InterventionType = "short-term"
	InterventionLongTerm   InterventionType = "long-term"
	InterventionPreventive InterventionType = "preventive"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// LearningRecord 一次练习记录，时长单位为秒
type LearningRecord struct {
	Timestamp       time.Time  `json:"timestamp" yaml:"timestamp"`
	Subject         string     `json:"subject" yaml:"subject"`
	Topic           string     `json:"topic" yaml:"topic"`
	Difficulty      Difficulty `json:"difficulty" yaml:"difficulty"`
	Score           float64    `json:"score" yaml:"score"`
	DurationSeconds int        `json:"durationSeconds" yaml:"durationSeconds"`
}

// User 学习者标识与基础画像提示
type User struct {
	ID            string        `json:"id" yaml:"id"`
	DeclaredStyle LearningStyle `json:"declaredStyle,omitempty" yaml:"declaredStyle"`
	Grade         string        `json:"grade,omitempty" yaml:"grade"`
}

type LearningStyleProfile struct {
	PrimaryStyle         LearningStyle        `json:"primaryStyle"`
	SecondaryStyle       LearningStyle        `json:"secondaryStyle"`
	ProcessingPreference ProcessingPreference `json:"processingPreference"`
	ThinkingStyle        ThinkingStyle        `json:"thinkingStyle"`
	Pace                 Pace                 `json:"pace"`
	Confidence           float64              `json:"confidence"`
	Evidence             []string             `json:"evidence"`
}

type SubjectMastery struct {
	Subject          string             `json:"subject"`
	OverallMastery   float64            `json:"overallMastery"`
	TopicMastery     map[string]float64 `json:"topicMastery"`
	CommonMistakes   []string           `json:"commonMistakes"`
	StrongConcepts   []string           `json:"strongConcepts"`
	ImprovementTrend map[string]float64 `json:"improvementTrend"`
}

type KnowledgeMap struct {
	SubjectMastery     map[string]SubjectMastery `json:"subjectMastery"`
	ConceptConnections map[string][]string       `json:"conceptConnections"`
	LearningSequence   []string                  `json:"learningSequence"`
	Strengths          []string                  `json:"strengths"`
	Weaknesses         []string                  `json:"weaknesses"`
	NextTargets        []string                  `json:"nextTargets"`
}

type CognitiveProfile struct {
	WorkingMemory    float64  `json:"workingMemory"`
	ProcessingSpeed  float64  `json:"processingSpeed"`
	AttentionSpan    float64  `json:"attentionSpan"`
	CognitiveLoad    float64  `json:"cognitiveLoad"`
	OptimalChallenge float64  `json:"optimalChallenge"`
	FatiguePattern   []string `json:"fatiguePattern"`
	PeakTimes        []string `json:"peakTimes"`
}

type MotivationProfile struct {
	Intrinsic           float64         `json:"intrinsic"`
	Extrinsic           float64         `json:"extrinsic"`
	GoalOrientation     GoalOrientation `json:"goalOrientation"`
	Persistence         float64         `json:"persistence"`
	ChallengePreference float64         `json:"challengePreference"`
	FeedbackSensitivity float64         `json:"feedbackSensitivity"`
}

type PerformancePattern struct {
	Consistency                 float64 `json:"consistency"`
	ImprovementRate             float64 `json:"improvementRate"`
	RetentionRate               float64 `json:"retentionRate"`
	TransferAbility             float64 `json:"transferAbility"`
	ErrorRecoveryRate           float64 `json:"errorRecoveryRate"`
	OptimalSessionLengthMinutes float64 `json:"optimalSessionLengthMinutes"`
}

type PersonalizationStrategy struct {
	RecommendedDifficulty  Difficulty `json:"recommendedDifficulty"`
	OptimalQuestionTypes   []string   `json:"optimalQuestionTypes"`
	SuggestedTopics        []string   `json:"suggestedTopics"`
	PathAdjustments        []string   `json:"pathAdjustments"`
	MotivationalStrategies []string   `json:"motivationalStrategies"`
	CognitiveSupports      []string   `json:"cognitiveSupports"`
	NextActions            []string   `json:"nextActions"`
}

// LearnerProfile 每次都由记录集重新计算，不做原地修改
type LearnerProfile struct {
	UserID         string                  `json:"userId"`
	RecordCount    int                     `json:"recordCount"`
	SkippedRecords int                     `json:"skippedRecords"`
	Style          LearningStyleProfile    `json:"learningStyle"`
	Knowledge      KnowledgeMap            `json:"knowledgeMap"`
	Cognitive      CognitiveProfile        `json:"cognitiveProfile"`
	Motivation     MotivationProfile       `json:"motivationProfile"`
	Performance    PerformancePattern      `json:"performancePattern"`
	Strategy       PersonalizationStrategy `json:"personalizationStrategy"`
}

type ScoreRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

type PerformancePrediction struct {
	ExpectedScore           float64            `json:"expectedScore"`
	ScoreRange              ScoreRange         `json:"scoreRange"`
	ImprovementProbability  float64            `json:"improvementProbability"`
	MasteryBySubject        map[string]float64 `json:"masteryBySubject"`
	LearningEfficiency      float64            `json:"learningEfficiency"`
	MotivationTrend         MotivationTrend    `json:"motivationTrend"`
	CognitiveLoadPrediction float64            `json:"cognitiveLoadPrediction"`
	OptimalPath             []string           `json:"optimalPath"`
}

type SpecificRisk struct {
	Type        RiskType  `json:"type"`
	Probability float64   `json:"probability"`
	Impact      RiskLevel `json:"impact"`
	Timeframe   string    `json:"timeframe"`
	Indicators  []string  `json:"indicators"`
	Strategy    string    `json:"strategy"`
}

type RiskAssessment struct {
	OverallLevel      RiskLevel            `json:"overallLevel"`
	Risks             []SpecificRisk       `json:"risks"`
	Warnings          []string             `json:"warnings"`
	PreventiveActions []string             `json:"preventiveActions"`
	RiskFactors       map[RiskType]float64 `json:"riskFactors"`
}

type InterventionRecommendation struct {
	Type            InterventionType `json:"type"`
	Priority        Priority         `json:"priority"`
	TargetArea      string           `json:"targetArea"`
	Actions         []string         `json:"actions"`
	ExpectedOutcome string           `json:"expectedOutcome"`
	Steps           []string         `json:"steps"`
	SuccessMetrics  []string         `json:"successMetrics"`
	Timeline        string           `json:"timeline"`
}

type LearningPrediction struct {
	UserID         string                       `json:"userId"`
	GeneratedAt    time.Time                    `json:"generatedAt"`
	SkippedRecords int                          `json:"skippedRecords"`
	Performance    PerformancePrediction        `json:"performance"`
	Risk           RiskAssessment               `json:"risk"`
	Interventions  []InterventionRecommendation `json:"interventions"`
	Confidence     float64                      `json:"confidence"`
	KeyFactors     []string                     `json:"keyFactors"`
}

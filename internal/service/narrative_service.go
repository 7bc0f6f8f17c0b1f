package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"learnpulse_backend/internal/config"
	"learnpulse_backend/internal/engine"

	openai "github.com/sashabaranov/go-openai"
)

const defaultNarrativeModel = "gpt-4o-mini"

const narrativeSystemPrompt = "你是一名学习顾问。根据给出的学习者画像和预测数据，" +
	"用简洁的中文向老师说明该学生当前的学习状态、主要风险和下一步建议。" +
	"不超过 200 字，不要编造数据中没有的数字，不要输出链接。"

// NarrativeService 通过兼容 OpenAI 的接口生成画像解读
type NarrativeService struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewNarrativeService(cfg config.AIConfig) (*NarrativeService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ai api key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultNarrativeModel
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &NarrativeService{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		timeout: timeout,
	}, nil
}

func (s *NarrativeService) Explain(ctx context.Context, profile *engine.LearnerProfile, prediction *engine.LearningPrediction) (string, error) {
	if profile == nil || prediction == nil {
		return "", errors.New("profile and prediction are required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: narrativeSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildNarrativePrompt(profile, prediction)},
		},
		Temperature: 0.3,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("narrative api error (status %d): %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("narrative request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("narrative response has no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("narrative response is empty")
	}
	return text, nil
}

// buildNarrativePrompt 只传递汇总数据，不包含原始记录
func buildNarrativePrompt(p *engine.LearnerProfile, pred *engine.LearningPrediction) string {
	var b strings.Builder

	fmt.Fprintf(&b, "学习记录数: %d\n", p.RecordCount)
	fmt.Fprintf(&b, "学习方式: 主要 %s，次要 %s，节奏 %s\n",
		p.Style.PrimaryStyle, p.Style.SecondaryStyle, p.Style.Pace)
	if len(p.Knowledge.Strengths) > 0 {
		fmt.Fprintf(&b, "优势科目: %s\n", strings.Join(p.Knowledge.Strengths, "、"))
	}
	if len(p.Knowledge.Weaknesses) > 0 {
		fmt.Fprintf(&b, "薄弱科目: %s\n", strings.Join(p.Knowledge.Weaknesses, "、"))
	}
	fmt.Fprintf(&b, "认知负荷: %.2f，专注时长评分: %.2f\n", p.Cognitive.CognitiveLoad, p.Cognitive.AttentionSpan)
	fmt.Fprintf(&b, "内在动机: %.2f，坚持度: %.2f\n", p.Motivation.Intrinsic, p.Motivation.Persistence)
	fmt.Fprintf(&b, "预测得分: %.1f（%.1f - %.1f），提升概率: %.2f\n",
		pred.Performance.ExpectedScore, pred.Performance.ScoreRange.Low, pred.Performance.ScoreRange.High,
		pred.Performance.ImprovementProbability)
	fmt.Fprintf(&b, "整体风险: %s\n", pred.Risk.OverallLevel)
	for _, r := range pred.Risk.Risks {
		fmt.Fprintf(&b, "- %s 概率 %.2f\n", r.Type.Label(), r.Probability)
	}
	if len(pred.Interventions) > 0 {
		fmt.Fprintf(&b, "首要干预: %s\n", pred.Interventions[0].TargetArea)
	}
	if len(pred.KeyFactors) > 0 {
		fmt.Fprintf(&b, "关键因素: %s\n", strings.Join(pred.KeyFactors, "；"))
	}
	return b.String()
}

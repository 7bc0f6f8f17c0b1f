package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"learnpulse_backend/internal/engine"
	"learnpulse_backend/internal/model"
	"learnpulse_backend/internal/util"
	"learnpulse_backend/pkg/logger"
	"learnpulse_backend/pkg/monitoring"
	"learnpulse_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RecordStore 学习记录的读写
type RecordStore interface {
	GetHistory(ctx context.Context, userID string) ([]engine.LearningRecord, error)
	SaveRecord(ctx context.Context, userID string, rec engine.LearningRecord) error
}

type LearnerDirectory interface {
	GetLearner(ctx context.Context, learnerID string) (engine.User, error)
}

type SnapshotStore interface {
	Save(ctx context.Context, snapshot *model.PredictionSnapshot) error
	Latest(ctx context.Context, userID string) (*model.PredictionSnapshot, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]model.PredictionSnapshot, error)
}

type ProfileStore interface {
	Get(ctx context.Context, key string) (*engine.LearnerProfile, bool)
	Set(ctx context.Context, key string, profile *engine.LearnerProfile)
}

type NarrativeAssistant interface {
	Explain(ctx context.Context, profile *engine.LearnerProfile, prediction *engine.LearningPrediction) (string, error)
}

type SessionResult struct {
	Recorded     bool                               `json:"recorded"`
	Intervention *engine.InterventionRecommendation `json:"intervention,omitempty"`
}

type BatchProfileResult struct {
	LearnerID string                 `json:"learnerId"`
	Profile   *engine.LearnerProfile `json:"profile,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

type Narrative struct {
	LearnerID  string                     `json:"learnerId"`
	Text       string                     `json:"text"`
	Degraded   bool                       `json:"degraded"`
	Prediction *engine.LearningPrediction `json:"prediction"`
}

type LearnerService struct {
	records          RecordStore
	learners         LearnerDirectory
	snapshots        SnapshotStore
	cache            ProfileStore
	narrator         NarrativeAssistant
	engine           atomic.Pointer[engine.Engine]
	batchConcurrency int
}

// NewLearnerService snapshots、cache、narrator 可以为 nil
func NewLearnerService(
	records RecordStore,
	learners LearnerDirectory,
	snapshots SnapshotStore,
	cache ProfileStore,
	narrator NarrativeAssistant,
	eng *engine.Engine,
	batchConcurrency int,
) *LearnerService {
	if eng == nil {
		eng = engine.New()
	}
	if batchConcurrency <= 0 {
		batchConcurrency = 1
	}
	s := &LearnerService{
		records:          records,
		learners:         learners,
		snapshots:        snapshots,
		cache:            cache,
		narrator:         narrator,
		batchConcurrency: batchConcurrency,
	}
	s.engine.Store(eng)
	return s
}

func (s *LearnerService) Engine() *engine.Engine {
	return s.engine.Load()
}

// UpdateThresholds 配置热更新时替换引擎，进行中的请求继续使用旧引擎
func (s *LearnerService) UpdateThresholds(th engine.Thresholds) {
	s.engine.Store(engine.New(engine.WithThresholds(th)))
	logger.Log.Info("Engine thresholds updated",
		zap.Float64("riskThreshold", th.RiskThreshold),
		zap.Int("minRecords", th.MinRecords),
	)
}

func (s *LearnerService) load(ctx context.Context, learnerID string) (engine.User, []engine.LearningRecord, error) {
	user, err := s.learners.GetLearner(ctx, learnerID)
	if err != nil {
		return engine.User{}, nil, fmt.Errorf("load learner %s: %w", learnerID, err)
	}
	history, err := s.records.GetHistory(ctx, learnerID)
	if err != nil {
		return engine.User{}, nil, fmt.Errorf("load history of %s: %w", learnerID, err)
	}
	return user, history, nil
}

func (s *LearnerService) buildProfile(ctx context.Context, eng *engine.Engine, user engine.User, history []engine.LearningRecord, source string) (*engine.LearnerProfile, error) {
	key := ""
	if s.cache != nil {
		var err error
		key, err = ProfileCacheKey(user, history, eng.Thresholds())
		if err != nil {
			// 无法生成指纹时跳过缓存
			logger.Log.Warn("Profile cache key failed", zap.String("userId", user.ID), zap.Error(err))
			key = ""
		}
	}
	if key != "" {
		if p, ok := s.cache.Get(ctx, key); ok {
			monitoring.CacheResults.WithLabelValues("hit").Inc()
			return p, nil
		}
		monitoring.CacheResults.WithLabelValues("miss").Inc()
	}

	done := monitoring.ObserveEngine("profile")
	profile, err := eng.BuildLearnerProfile(user, history)
	done()
	if err != nil {
		return nil, err
	}

	monitoring.ProfilesBuilt.WithLabelValues(source).Inc()
	if profile.SkippedRecords > 0 {
		monitoring.RecordsSkipped.Add(float64(profile.SkippedRecords))
		logger.Log.Warn("Skipped invalid learning records",
			zap.String("userId", user.ID),
			zap.Int("skipped", profile.SkippedRecords),
		)
	}

	if key != "" {
		s.cache.Set(ctx, key, profile)
	}
	return profile, nil
}

func (s *LearnerService) predict(ctx context.Context, eng *engine.Engine, user engine.User, history []engine.LearningRecord, profile *engine.LearnerProfile) (*engine.LearningPrediction, error) {
	done := monitoring.ObserveEngine("predict")
	prediction, err := eng.Predict(user, history, profile)
	done()
	if err != nil {
		return nil, err
	}
	monitoring.PredictionsByRisk.WithLabelValues(string(prediction.Risk.OverallLevel)).Inc()
	return prediction, nil
}

func (s *LearnerService) GetProfile(ctx context.Context, learnerID string) (p *engine.LearnerProfile, err error) {
	ctx, span := tracing.StartSpan(ctx, "LearnerService.GetProfile", attribute.String("learner.id", learnerID))
	defer func() { tracing.EndSpan(span, err) }()

	user, history, err := s.load(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("history.size", len(history)))
	return s.buildProfile(ctx, s.Engine(), user, history, "stored")
}

func (s *LearnerService) GetPrediction(ctx context.Context, learnerID string) (pred *engine.LearningPrediction, err error) {
	ctx, span := tracing.StartSpan(ctx, "LearnerService.GetPrediction", attribute.String("learner.id", learnerID))
	defer func() { tracing.EndSpan(span, err) }()

	pred, _, err = s.predictStored(ctx, learnerID)
	return pred, err
}

func (s *LearnerService) predictStored(ctx context.Context, learnerID string) (*engine.LearningPrediction, *engine.LearnerProfile, error) {
	user, history, err := s.load(ctx, learnerID)
	if err != nil {
		return nil, nil, err
	}

	eng := s.Engine()
	profile, err := s.buildProfile(ctx, eng, user, history, "stored")
	if err != nil {
		return nil, nil, err
	}
	prediction, err := s.predict(ctx, eng, user, history, profile)
	if err != nil {
		return nil, nil, err
	}

	s.saveSnapshot(ctx, prediction)
	return prediction, profile, nil
}

// saveSnapshot 快照失败只记录日志，不影响预测结果
func (s *LearnerService) saveSnapshot(ctx context.Context, prediction *engine.LearningPrediction) {
	if s.snapshots == nil {
		return
	}
	snapshot, err := model.NewPredictionSnapshot(prediction)
	if err == nil {
		err = s.snapshots.Save(ctx, snapshot)
	}
	if err != nil {
		logger.Log.Error("Failed to save prediction snapshot",
			zap.String("userId", prediction.UserID),
			zap.Error(err),
		)
	}
}

// AnalyzeRecords 直接根据请求中的记录构建画像，不读写存储
func (s *LearnerService) AnalyzeRecords(ctx context.Context, user engine.User, records []engine.LearningRecord) (p *engine.LearnerProfile, err error) {
	ctx, span := tracing.StartSpan(ctx, "LearnerService.AnalyzeRecords",
		attribute.String("learner.id", user.ID),
		attribute.Int("history.size", len(records)),
	)
	defer func() { tracing.EndSpan(span, err) }()

	return s.buildProfile(ctx, s.Engine(), user, records, "inline")
}

func (s *LearnerService) PredictFromRecords(ctx context.Context, user engine.User, records []engine.LearningRecord) (pred *engine.LearningPrediction, err error) {
	ctx, span := tracing.StartSpan(ctx, "LearnerService.PredictFromRecords",
		attribute.String("learner.id", user.ID),
		attribute.Int("history.size", len(records)),
	)
	defer func() { tracing.EndSpan(span, err) }()

	eng := s.Engine()
	profile, err := s.buildProfile(ctx, eng, user, records, "inline")
	if err != nil {
		return nil, err
	}
	return s.predict(ctx, eng, user, records, profile)
}

// RecordSession 保存一次学习记录并做实时干预检查
func (s *LearnerService) RecordSession(ctx context.Context, learnerID string, rec engine.LearningRecord) (res *SessionResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "LearnerService.RecordSession", attribute.String("learner.id", learnerID))
	defer func() { tracing.EndSpan(span, err) }()

	if err := engine.ValidateRecord(rec); err != nil {
		return nil, fmt.Errorf("%w: %w", util.ErrInvalidRecord, err)
	}

	recent, err := s.records.GetHistory(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("load history of %s: %w", learnerID, err)
	}
	if err := s.records.SaveRecord(ctx, learnerID, rec); err != nil {
		return nil, fmt.Errorf("save record of %s: %w", learnerID, err)
	}

	res = &SessionResult{Recorded: true}
	res.Intervention = s.Engine().CheckRealTimeIntervention(rec, recent)
	if res.Intervention != nil {
		monitoring.RealtimeInterventions.WithLabelValues(res.Intervention.TargetArea).Inc()
		span.SetAttributes(attribute.String("intervention.target", res.Intervention.TargetArea))
		logger.Log.Info("Real-time intervention triggered",
			zap.String("userId", learnerID),
			zap.String("targetArea", res.Intervention.TargetArea),
		)
	}
	return res, nil
}

// BatchProfiles 并发构建多个学习者画像，单个失败不影响其他结果
func (s *LearnerService) BatchProfiles(ctx context.Context, learnerIDs []string) (out []BatchProfileResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "LearnerService.BatchProfiles", attribute.Int("batch.size", len(learnerIDs)))
	defer func() { tracing.EndSpan(span, err) }()

	ids := dedupe(learnerIDs)
	if len(ids) == 0 {
		return nil, util.ErrEmptyBatch
	}
	if len(ids) > util.MaxBatchLearners {
		return nil, fmt.Errorf("%w: %d > %d", util.ErrBatchTooLarge, len(ids), util.MaxBatchLearners)
	}

	results := make([]BatchProfileResult, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i].LearnerID = id
			user, history, err := s.load(gctx, id)
			if err == nil {
				results[i].Profile, err = s.buildProfile(gctx, s.Engine(), user, history, "batch")
			}
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				results[i].Error = err.Error()
				logger.Log.Warn("Batch profile failed", zap.String("userId", id), zap.Error(err))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Explain 生成自然语言解读；生成失败时返回空文本，数值结果不受影响
func (s *LearnerService) Explain(ctx context.Context, learnerID string) (n *Narrative, err error) {
	ctx, span := tracing.StartSpan(ctx, "LearnerService.Explain", attribute.String("learner.id", learnerID))
	defer func() { tracing.EndSpan(span, err) }()

	if s.narrator == nil {
		return nil, util.ErrNarrativeDisabled
	}

	prediction, profile, err := s.predictStored(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	n = &Narrative{LearnerID: learnerID, Prediction: prediction}
	text, nerr := s.narrator.Explain(ctx, profile, prediction)
	if nerr != nil {
		logger.Log.Warn("Narrative generation failed", zap.String("userId", learnerID), zap.Error(nerr))
		n.Degraded = true
		return n, nil
	}
	n.Text = text
	return n, nil
}

func (s *LearnerService) PredictionHistory(ctx context.Context, learnerID string, limit int) ([]model.PredictionSnapshot, error) {
	if s.snapshots == nil {
		return []model.PredictionSnapshot{}, nil
	}
	return s.snapshots.ListByUser(ctx, learnerID, limit)
}

// LatestPrediction 返回最近一次保存的预测，不重新计算
func (s *LearnerService) LatestPrediction(ctx context.Context, learnerID string) (*engine.LearningPrediction, error) {
	if s.snapshots == nil {
		return nil, util.ErrSnapshotNotFound
	}
	snapshot, err := s.snapshots.Latest(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("load latest snapshot of %s: %w", learnerID, err)
	}
	if snapshot == nil {
		return nil, util.ErrSnapshotNotFound
	}
	return snapshot.Prediction()
}

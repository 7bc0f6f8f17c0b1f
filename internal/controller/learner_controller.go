package controller

import (
	"errors"
	"time"

	"learnpulse_backend/internal/engine"
	"learnpulse_backend/internal/service"
	"learnpulse_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LearnerController struct {
	LearnerService *service.LearnerService
}

func NewLearnerController(learnerService *service.LearnerService) *LearnerController {
	return &LearnerController{LearnerService: learnerService}
}

// AnalyzeRequest 直接提交记录进行分析
type AnalyzeRequest struct {
	User    engine.User             `json:"user"`
	Records []engine.LearningRecord `json:"records"`
}

type BatchProfileRequest struct {
	LearnerIDs []string `json:"learnerIds" binding:"required"`
}

func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrInvalidRecord),
		errors.Is(err, util.ErrEmptyBatch),
		errors.Is(err, util.ErrBatchTooLarge),
		errors.Is(err, engine.ErrMissingUserID):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrLearnerDisabled):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrSnapshotNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrNarrativeDisabled):
		util.ServiceUnavailable(ctx, "学习解读功能未启用")
	default:
		util.LogInternalError(ctx, err)
	}
}

// bindAnalyzeRequest 解析请求体并校验当前用户能否访问该学习者
func bindAnalyzeRequest(ctx *gin.Context) (*AnalyzeRequest, bool) {
	var req AnalyzeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return nil, false
	}
	if req.User.ID == "" {
		util.BadRequest(ctx, "user.id 不能为空")
		return nil, false
	}
	if !util.GetUserFromContext(ctx).CanAccessLearner(req.User.ID) {
		util.Forbidden(ctx)
		return nil, false
	}
	return &req, true
}

// @Summary 获取学习者画像
// @Description 根据已保存的学习记录构建学习者画像
// @Tags 学习者
// @Produce json
// @Security BearerAuth
// @Param userId path string true "学习者ID"
// @Success 200 {object} util.Response{data=engine.LearnerProfile}
// @Router /api/learners/{userId}/profile [get]
func (c *LearnerController) GetProfile(ctx *gin.Context) {
	profile, err := c.LearnerService.GetProfile(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// @Summary 获取学习预测
// @Description 预测成绩、评估风险并给出干预建议，同时保存预测快照
// @Tags 学习者
// @Produce json
// @Security BearerAuth
// @Param userId path string true "学习者ID"
// @Success 200 {object} util.Response{data=engine.LearningPrediction}
// @Router /api/learners/{userId}/prediction [get]
func (c *LearnerController) GetPrediction(ctx *gin.Context) {
	prediction, err := c.LearnerService.GetPrediction(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, prediction)
}

// @Summary 历史预测快照
// @Tags 学习者
// @Produce json
// @Security BearerAuth
// @Param userId path string true "学习者ID"
// @Param limit query int false "返回数量" default(10)
// @Success 200 {object} util.Response
// @Router /api/learners/{userId}/predictions [get]
func (c *LearnerController) ListPredictions(ctx *gin.Context) {
	limit := util.ParseLimit(ctx.Query("limit"), util.DefaultPageLimit, util.MaxPageLimit)
	snapshots, err := c.LearnerService.PredictionHistory(ctx.Request.Context(), ctx.Param("userId"), limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, snapshots)
}

// @Summary 最近一次预测
// @Description 返回最近保存的预测快照内容，不重新计算
// @Tags 学习者
// @Produce json
// @Security BearerAuth
// @Param userId path string true "学习者ID"
// @Success 200 {object} util.Response{data=engine.LearningPrediction}
// @Failure 404 {object} util.Response
// @Router /api/learners/{userId}/predictions/latest [get]
func (c *LearnerController) LatestPrediction(ctx *gin.Context) {
	prediction, err := c.LearnerService.LatestPrediction(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, prediction)
}

// @Summary 提交学习记录
// @Description 保存一次学习记录，并返回实时干预建议（如有）
// @Tags 学习者
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "学习者ID"
// @Param record body engine.LearningRecord true "学习记录"
// @Success 201 {object} util.Response{data=service.SessionResult}
// @Router /api/learners/{userId}/records [post]
func (c *LearnerController) RecordSession(ctx *gin.Context) {
	var rec engine.LearningRecord
	if err := ctx.ShouldBindJSON(&rec); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	result, err := c.LearnerService.RecordSession(ctx.Request.Context(), ctx.Param("userId"), rec)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// @Summary 学习解读
// @Description 生成面向教师的自然语言解读，生成失败时 text 为空
// @Tags 学习者
// @Produce json
// @Security BearerAuth
// @Param userId path string true "学习者ID"
// @Success 200 {object} util.Response{data=service.Narrative}
// @Failure 503 {object} util.Response
// @Router /api/learners/{userId}/narrative [get]
func (c *LearnerController) GetNarrative(ctx *gin.Context) {
	narrative, err := c.LearnerService.Explain(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, narrative)
}

// @Summary 分析学习记录
// @Description 根据请求中的记录构建画像，不保存任何数据
// @Tags 分析
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AnalyzeRequest true "学习者与记录"
// @Success 200 {object} util.Response{data=engine.LearnerProfile}
// @Router /api/profile [post]
func (c *LearnerController) AnalyzeProfile(ctx *gin.Context) {
	req, ok := bindAnalyzeRequest(ctx)
	if !ok {
		return
	}
	profile, err := c.LearnerService.AnalyzeRecords(ctx.Request.Context(), req.User, req.Records)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// @Summary 预测学习表现
// @Description 根据请求中的记录给出预测、风险评估与干预建议，不保存任何数据
// @Tags 分析
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AnalyzeRequest true "学习者与记录"
// @Success 200 {object} util.Response{data=engine.LearningPrediction}
// @Router /api/predict [post]
func (c *LearnerController) Predict(ctx *gin.Context) {
	req, ok := bindAnalyzeRequest(ctx)
	if !ok {
		return
	}
	prediction, err := c.LearnerService.PredictFromRecords(ctx.Request.Context(), req.User, req.Records)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, prediction)
}

// @Summary 批量获取学习者画像
// @Description 教师或管理员批量构建画像，单个学习者失败时在结果中返回错误信息
// @Tags 学习者
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BatchProfileRequest true "学习者ID列表"
// @Success 200 {object} util.Response{data=[]service.BatchProfileResult}
// @Router /api/learners/batch/profile [post]
func (c *LearnerController) BatchProfiles(ctx *gin.Context) {
	var req BatchProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	results, err := c.LearnerService.BatchProfiles(ctx.Request.Context(), req.LearnerIDs)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

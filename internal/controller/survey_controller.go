package controller

import (
	"strconv"

	"surveyhub_backend/internal/model"
	"surveyhub_backend/internal/service"
	"surveyhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SurveyController struct {
	Service *service.SurveyService
	Gate    *service.InvitationGate
}

func NewSurveyController(svc *service.SurveyService, gate *service.InvitationGate) *SurveyController {
	return &SurveyController{Service: svc, Gate: gate}
}

// @Summary 创建问卷
// @Tags 问卷模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateSurveyInput true "问卷信息"
// @Success 201 {object} util.Response
// @Router /api/surveys [post]
func (c *SurveyController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.CreateSurveyInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	survey, err := c.Service.Create(input, user.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, survey)
}

// @Summary 获取问卷列表
// @Tags 问卷模块
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Param type query string false "问卷类型"
// @Param status query string false "问卷状态"
// @Success 200 {object} util.Response
// @Router /api/surveys [get]
func (c *SurveyController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	surveys, total, err := c.Service.List(page, limit, ctx.Query("type"), ctx.Query("status"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": surveys, "total": total})
}

// @Summary 获取问卷详情
// @Tags 问卷模块
// @Produce json
// @Security BearerAuth
// @Param id path string true "问卷ID"
// @Success 200 {object} util.Response
// @Router /api/surveys/{id} [get]
func (c *SurveyController) Get(ctx *gin.Context) {
	survey, err := c.Service.GetByID(ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, survey)
}

// @Summary 更新问卷
// @Tags 问卷模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "问卷ID"
// @Param body body service.UpdateSurveyInput true "更新内容"
// @Success 200 {object} util.Response
// @Router /api/surveys/{id} [put]
func (c *SurveyController) Update(ctx *gin.Context) {
	var input service.UpdateSurveyInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	survey, err := c.Service.Update(ctx.Request.Context(), ctx.Param("id"), input)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, survey)
}

// @Summary 更新问卷状态
// @Tags 问卷模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "问卷ID"
// @Success 200 {object} util.Response
// @Router /api/surveys/{id}/status [patch]
func (c *SurveyController) UpdateStatus(ctx *gin.Context) {
	var req struct {
		Status model.SurveyStatus `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	survey, err := c.Service.UpdateStatus(ctx.Request.Context(), ctx.Param("id"), req.Status)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, survey)
}

// @Summary 删除问卷
// @Tags 问卷模块
// @Produce json
// @Security BearerAuth
// @Param id path string true "问卷ID"
// @Success 200 {object} util.Response
// @Router /api/surveys/{id} [delete]
func (c *SurveyController) Delete(ctx *gin.Context) {
	if err := c.Service.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary 获取公开问卷（填答页）
// @Tags 公开访问
// @Produce json
// @Param slug path string true "问卷Slug"
// @Success 200 {object} util.Response
// @Router /api/public/surveys/{slug} [get]
func (c *SurveyController) GetPublic(ctx *gin.Context) {
	survey, err := c.Service.GetPublicBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, survey)
}

// @Summary 获取填答者的题目列表
// @Tags 公开访问
// @Produce json
// @Param slug path string true "问卷Slug"
// @Param email query string false "填答者邮箱，同一邮箱抽题结果一致"
// @Param invitation query string false "邀请码，受邀问卷必须先通过校验"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/public/surveys/{slug}/questions [get]
func (c *SurveyController) GetPublicQuestions(ctx *gin.Context) {
	email := ctx.Query("email")

	// The gate runs before any bank is read.
	if code := ctx.Query("invitation"); code != "" {
		if _, err := c.Gate.Authorize(code, ctx.Query("userId"), email, ctx.ClientIP()); err != nil {
			handleServiceError(ctx, err)
			return
		}
	}

	survey, questions, err := c.Service.QuestionsForRespondent(ctx.Param("slug"), email)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"surveyId":  survey.ID,
		"questions": questions,
	})
}

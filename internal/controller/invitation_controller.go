package controller

import (
	"strconv"

	"surveyhub_backend/internal/service"
	"surveyhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type InvitationController struct {
	Service *service.InvitationService
	Gate    *service.InvitationGate
	Surveys *service.SurveyService
}

func NewInvitationController(svc *service.InvitationService, gate *service.InvitationGate, surveys *service.SurveyService) *InvitationController {
	return &InvitationController{Service: svc, Gate: gate, Surveys: surveys}
}

// @Summary 创建邀请
// @Tags 邀请模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateInvitationInput true "邀请配置"
// @Success 201 {object} util.Response
// @Router /api/invitations [post]
func (c *InvitationController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.CreateInvitationInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	inv, err := c.Service.Create(input, user.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, inv)
}

// @Summary 获取问卷的邀请列表
// @Tags 邀请模块
// @Produce json
// @Security BearerAuth
// @Param surveyId query string true "问卷ID"
// @Success 200 {object} util.Response
// @Router /api/invitations [get]
func (c *InvitationController) List(ctx *gin.Context) {
	surveyID := ctx.Query("surveyId")
	if surveyID == "" {
		util.BadRequest(ctx, "surveyId is required")
		return
	}

	invs, err := c.Service.ListBySurvey(surveyID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, invs)
}

// @Summary 获取邀请详情
// @Tags 邀请模块
// @Produce json
// @Security BearerAuth
// @Param id path string true "邀请ID"
// @Success 200 {object} util.Response
// @Router /api/invitations/{id} [get]
func (c *InvitationController) Get(ctx *gin.Context) {
	inv, err := c.Service.GetByID(ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, inv)
}

// @Summary 更新邀请
// @Tags 邀请模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "邀请ID"
// @Param body body service.UpdateInvitationInput true "更新内容"
// @Success 200 {object} util.Response
// @Router /api/invitations/{id} [put]
func (c *InvitationController) Update(ctx *gin.Context) {
	var input service.UpdateInvitationInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	inv, err := c.Service.Update(ctx.Param("id"), input)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, inv)
}

// @Summary 删除邀请
// @Tags 邀请模块
// @Produce json
// @Security BearerAuth
// @Param id path string true "邀请ID"
// @Success 200 {object} util.Response
// @Router /api/invitations/{id} [delete]
func (c *InvitationController) Delete(ctx *gin.Context) {
	if err := c.Service.Delete(ctx.Param("id")); err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary 获取邀请统计
// @Tags 邀请模块
// @Produce json
// @Security BearerAuth
// @Param id path string true "邀请ID"
// @Success 200 {object} util.Response
// @Router /api/invitations/{id}/statistics [get]
func (c *InvitationController) Statistics(ctx *gin.Context) {
	stats, err := c.Service.Statistics(ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}

// @Summary 获取邀请访问记录
// @Tags 邀请模块
// @Produce json
// @Security BearerAuth
// @Param id path string true "邀请ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response
// @Router /api/invitations/{id}/accesses [get]
func (c *InvitationController) ListAccesses(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	accesses, total, err := c.Service.ListAccesses(ctx.Param("id"), page, limit)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": accesses, "total": total})
}

// @Summary 获取邀请链接
// @Tags 邀请模块
// @Produce json
// @Security BearerAuth
// @Param id path string true "邀请ID"
// @Success 200 {object} util.Response
// @Router /api/invitations/{id}/url [get]
func (c *InvitationController) URL(ctx *gin.Context) {
	inv, err := c.Service.GetByID(ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	url, err := c.Service.InvitationURL(inv)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"url": url, "invitationCode": inv.InvitationCode})
}

// @Summary 校验邀请访问权限（填答页）
// @Tags 公开访问
// @Accept json
// @Produce json
// @Param code path string true "邀请码"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/public/invitations/{code}/access [post]
func (c *InvitationController) CheckAccess(ctx *gin.Context) {
	var req struct {
		UserID string `json:"userId"`
		Email  string `json:"email"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	inv, err := c.Gate.Authorize(ctx.Param("code"), req.UserID, req.Email, ctx.ClientIP())
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	survey, err := c.Surveys.GetByID(inv.SurveyID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"allowed":    true,
		"surveySlug": survey.Slug,
	})
}

package controller

import (
	"strconv"
	"strings"

	"surveyhub_backend/internal/config"
	"surveyhub_backend/internal/model"
	"surveyhub_backend/internal/service"
	"surveyhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ResponseController struct {
	Service *service.ResponseService
}

func NewResponseController(svc *service.ResponseService) *ResponseController {
	return &ResponseController{Service: svc}
}

// @Summary 提交问卷答案
// @Tags 公开访问
// @Accept json
// @Produce json
// @Param slug path string true "问卷Slug"
// @Param body body service.SubmitInput true "答案"
// @Success 201 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/public/surveys/{slug}/responses [post]
func (c *ResponseController) Submit(ctx *gin.Context) {
	var input service.SubmitInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	input.Metadata = model.ResponseMeta{
		UserAgent:  ctx.Request.UserAgent(),
		IPAddress:  ctx.ClientIP(),
		DeviceType: deviceType(ctx.Request.UserAgent()),
	}

	cfg := ctx.MustGet("config").(*config.Config)
	result, err := c.Service.Submit(ctx.Param("slug"), input, cfg.Survey.DefaultPassingThreshold)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, result)
}

func deviceType(userAgent string) string {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "mobile"), strings.Contains(ua, "android"), strings.Contains(ua, "iphone"):
		return "mobile"
	case strings.Contains(ua, "ipad"), strings.Contains(ua, "tablet"):
		return "tablet"
	default:
		return "desktop"
	}
}

// @Summary 获取问卷的回答列表
// @Tags 回答模块
// @Produce json
// @Security BearerAuth
// @Param surveyId path string true "问卷ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response
// @Router /api/surveys/{surveyId}/responses [get]
func (c *ResponseController) ListBySurvey(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	responses, total, err := c.Service.ListBySurvey(ctx.Param("surveyId"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": responses, "total": total})
}

// @Summary 获取回答详情（含题目快照）
// @Tags 回答模块
// @Produce json
// @Security BearerAuth
// @Param id path string true "回答ID"
// @Success 200 {object} util.Response
// @Router /api/responses/{id} [get]
func (c *ResponseController) Get(ctx *gin.Context) {
	response, err := c.Service.GetByID(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, response)
}

// @Summary 删除回答
// @Tags 回答模块
// @Produce json
// @Security BearerAuth
// @Param id path string true "回答ID"
// @Success 200 {object} util.Response
// @Router /api/responses/{id} [delete]
func (c *ResponseController) Delete(ctx *gin.Context) {
	if err := c.Service.Delete(ctx.Param("id")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

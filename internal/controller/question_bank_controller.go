package controller

import (
	"errors"
	"strconv"

	"surveyhub_backend/internal/model"
	"surveyhub_backend/internal/service"
	"surveyhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionBankController struct {
	Service *service.QuestionBankService
}

func NewQuestionBankController(svc *service.QuestionBankService) *QuestionBankController {
	return &QuestionBankController{Service: svc}
}

// @Summary 创建题库
// @Tags 题库模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateBankInput true "题库信息"
// @Success 201 {object} util.Response
// @Router /api/question-banks [post]
func (c *QuestionBankController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.CreateBankInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	bank, err := c.Service.Create(input, user.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, bank)
}

// @Summary 获取题库列表
// @Tags 题库模块
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response
// @Router /api/question-banks [get]
func (c *QuestionBankController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	banks, total, err := c.Service.List(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": banks, "total": total})
}

// @Summary 获取题库详情
// @Tags 题库模块
// @Produce json
// @Security BearerAuth
// @Param id path string true "题库ID"
// @Success 200 {object} util.Response
// @Router /api/question-banks/{id} [get]
func (c *QuestionBankController) Get(ctx *gin.Context) {
	bank, err := c.Service.GetByID(ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, bank)
}

// @Summary 更新题库
// @Tags 题库模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "题库ID"
// @Success 200 {object} util.Response
// @Router /api/question-banks/{id} [put]
func (c *QuestionBankController) Update(ctx *gin.Context) {
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	bank, err := c.Service.Update(ctx.Param("id"), req.Name, req.Description)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, bank)
}

// @Summary 删除题库
// @Tags 题库模块
// @Produce json
// @Security BearerAuth
// @Param id path string true "题库ID"
// @Success 200 {object} util.Response
// @Router /api/question-banks/{id} [delete]
func (c *QuestionBankController) Delete(ctx *gin.Context) {
	if err := c.Service.Delete(ctx.Param("id")); err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary 获取题库题目列表
// @Tags 题库模块
// @Produce json
// @Security BearerAuth
// @Param id path string true "题库ID"
// @Success 200 {object} util.Response
// @Router /api/question-banks/{id}/questions [get]
func (c *QuestionBankController) ListQuestions(ctx *gin.Context) {
	questions, err := c.Service.ListQuestions(ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, questions)
}

// @Summary 向题库添加题目
// @Tags 题库模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "题库ID"
// @Param body body model.Question true "题目"
// @Success 201 {object} util.Response
// @Router /api/question-banks/{id}/questions [post]
func (c *QuestionBankController) AddQuestion(ctx *gin.Context) {
	var question model.Question
	if err := ctx.ShouldBindJSON(&question); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	created, err := c.Service.AddQuestion(ctx.Param("id"), &question)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, created)
}

// @Summary 更新题库题目
// @Tags 题库模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "题库ID"
// @Param questionId path string true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/question-banks/{id}/questions/{questionId} [put]
func (c *QuestionBankController) UpdateQuestion(ctx *gin.Context) {
	var question model.Question
	if err := ctx.ShouldBindJSON(&question); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, err := c.Service.UpdateQuestion(ctx.Param("id"), ctx.Param("questionId"), &question)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, updated)
}

// @Summary 删除题库题目
// @Tags 题库模块
// @Produce json
// @Security BearerAuth
// @Param id path string true "题库ID"
// @Param questionId path string true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/question-banks/{id}/questions/{questionId} [delete]
func (c *QuestionBankController) DeleteQuestion(ctx *gin.Context) {
	if err := c.Service.DeleteQuestion(ctx.Param("id"), ctx.Param("questionId")); err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary 随机抽题预览
// @Tags 题库模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "题库ID"
// @Success 200 {object} util.Response
// @Router /api/question-banks/{id}/random-questions [post]
func (c *QuestionBankController) RandomQuestions(ctx *gin.Context) {
	var req struct {
		Count   int               `json:"count" binding:"required"`
		Filters *model.BankFilter `json:"filters"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	questions, err := c.Service.RandomQuestions(ctx.Param("id"), req.Count, req.Filters)
	if err != nil {
		// 预览是管理端接口，配置类错误直接回给管理员。
		if errors.Is(err, util.ErrInvalidSourceConfig) || errors.Is(err, util.ErrInsufficientQuestions) {
			util.BadRequest(ctx, err.Error())
			return
		}
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, questions)
}

// @Summary 批量导入题目
// @Tags 题库模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "题库ID"
// @Success 201 {object} util.Response
// @Router /api/question-banks/{id}/import [post]
func (c *QuestionBankController) Import(ctx *gin.Context) {
	var req struct {
		Questions []model.Question `json:"questions" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	count, err := c.Service.Import(ctx.Param("id"), req.Questions)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"imported": count})
}

package controller

import (
	"errors"
	"net/http"

	"surveyhub_backend/internal/util"
	"surveyhub_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handleServiceError maps service errors to HTTP responses. Gate denials
// carry a machine-readable code alongside the 403.
func handleServiceError(ctx *gin.Context, err error) {
	if code, ok := util.InvitationDenialCode(err); ok {
		util.ForbiddenWithCode(ctx, code, err.Error())
		return
	}

	switch {
	case errors.Is(err, util.ErrSurveyNotFound),
		errors.Is(err, util.ErrBankNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrInvitationNotFound):
		util.NotFound(ctx)

	case errors.Is(err, util.ErrInvalidInput),
		errors.Is(err, util.ErrInvalidAnswerFormat),
		errors.Is(err, util.ErrEmailRegistered):
		util.BadRequest(ctx, err.Error())

	// 抽题失败属于问卷配置问题，不是填答者的错。只记录日志，
	// 不把配置细节回传给填答者。
	case errors.Is(err, util.ErrInvalidSourceConfig),
		errors.Is(err, util.ErrEmptyQuestionSet),
		errors.Is(err, util.ErrInsufficientQuestions):
		logger.Log.Error("Survey question sourcing failed", zap.Error(err))
		util.InternalServerError(ctx)

	case errors.Is(err, util.ErrInvalidCredentials):
		util.Error(ctx, http.StatusUnauthorized, err.Error())

	case errors.Is(err, util.ErrSurveyNotOpen),
		errors.Is(err, util.ErrMaxAttemptsReached),
		errors.Is(err, util.ErrPermissionDenied):
		util.Error(ctx, http.StatusForbidden, err.Error())

	default:
		util.LogInternalError(ctx, err)
	}
}

package controller

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"surveyhub_backend/internal/util"
	"surveyhub_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
}

func serveError(err error) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	handleServiceError(ctx, err)
	return w
}

func TestHandleServiceErrorSourcingFailures(t *testing.T) {
	// Sourcing failures are authoring mistakes. The respondent gets a
	// plain 500 and never the configuration detail.
	detailed := fmt.Errorf("%w: bank %q has 2 matching questions, 5 requested",
		util.ErrInsufficientQuestions, "math")

	for _, err := range []error{
		util.ErrInvalidSourceConfig,
		util.ErrEmptyQuestionSet,
		detailed,
	} {
		w := serveError(err)
		if w.Code != http.StatusInternalServerError {
			t.Errorf("%v: status = %d, want 500", err, w.Code)
		}
		if strings.Contains(w.Body.String(), "requested") ||
			strings.Contains(w.Body.String(), "configuration") {
			t.Errorf("%v: sourcing detail leaked to the client: %s", err, w.Body.String())
		}
	}
}

func TestHandleServiceErrorRespondentFaults(t *testing.T) {
	for _, err := range []error{util.ErrInvalidAnswerFormat, util.ErrInvalidInput} {
		if w := serveError(err); w.Code != http.StatusBadRequest {
			t.Errorf("%v: status = %d, want 400", err, w.Code)
		}
	}
}

func TestHandleServiceErrorDenialCode(t *testing.T) {
	w := serveError(util.ErrNotTargeted)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"NotTargeted"`) {
		t.Errorf("denial code missing from body: %s", w.Body.String())
	}
}

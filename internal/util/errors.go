package util

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrSurveyNotFound = errors.New("survey not found")
	ErrSurveyNotOpen  = errors.New("survey is not accepting responses")
	ErrBankNotFound   = errors.New("question bank not found")

	// Question sourcing failures. ErrInvalidSourceConfig is an authoring
	// mistake and never shown to respondents verbatim.
	ErrInvalidSourceConfig   = errors.New("invalid question source configuration")
	ErrEmptyQuestionSet      = errors.New("survey has no questions")
	ErrInsufficientQuestions = errors.New("not enough questions available")
	ErrQuestionNotFound      = errors.New("question not found")

	ErrInvalidAnswerFormat = errors.New("answer does not match question type")

	ErrInvitationNotFound  = errors.New("invitation not found")
	ErrInvitationExpired   = errors.New("invitation is no longer valid")
	ErrInvitationExhausted = errors.New("invitation response limit reached")
	ErrNotTargeted         = errors.New("you do not have access to this survey")
	ErrAlreadyCompleted    = errors.New("you have already completed this survey")

	ErrMaxAttemptsReached = errors.New("maximum attempts reached for this survey")
)

// InvitationDenialCode maps a gate denial to its machine-readable code.
func InvitationDenialCode(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrInvitationExpired):
		return "Expired", true
	case errors.Is(err, ErrInvitationExhausted):
		return "Exhausted", true
	case errors.Is(err, ErrNotTargeted):
		return "NotTargeted", true
	case errors.Is(err, ErrAlreadyCompleted):
		return "AlreadyCompleted", true
	}
	return "", false
}

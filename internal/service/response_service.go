package service

import (
	"encoding/json"
	"fmt"

	"surveyhub_backend/internal/model"
	"surveyhub_backend/internal/repository"
	"surveyhub_backend/internal/util"
	"surveyhub_backend/pkg/logger"
	"surveyhub_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// ResponseService runs the submission pipeline: gate, resolve, validate,
// grade, persist.
type ResponseService struct {
	Repo       *repository.ResponseRepository
	SurveyRepo *repository.SurveyRepository
	Source     *QuestionSourceService
	Scoring    *ScoringService
	Gate       *InvitationGate
}

func NewResponseService(
	repo *repository.ResponseRepository,
	surveyRepo *repository.SurveyRepository,
	source *QuestionSourceService,
	scoring *ScoringService,
	gate *InvitationGate,
) *ResponseService {
	return &ResponseService{
		Repo:       repo,
		SurveyRepo: surveyRepo,
		Source:     source,
		Scoring:    scoring,
		Gate:       gate,
	}
}

type SubmitInput struct {
	Name           string             `json:"name" binding:"required"`
	Email          string             `json:"email" binding:"required,email"`
	UserID         string             `json:"userId"`
	Answers        []json.RawMessage  `json:"answers" binding:"required"`
	InvitationCode string             `json:"invitationCode"`
	TimeSpent      int                `json:"timeSpent"`
	IsAutoSubmit   bool               `json:"isAutoSubmit"`
	Metadata       model.ResponseMeta `json:"-"`
}

type BreakdownItem struct {
	QuestionIndex int             `json:"questionIndex"`
	Text          string          `json:"text"`
	IsCorrect     bool            `json:"isCorrect"`
	Graded        bool            `json:"graded"`
	PointsAwarded int             `json:"pointsAwarded"`
	MaxPoints     int             `json:"maxPoints"`
	UserAnswer    json.RawMessage `json:"userAnswer,omitempty"`
	CorrectAnswer json.RawMessage `json:"correctAnswer,omitempty"`
	Explanation   string          `json:"explanation,omitempty"`
}

type SubmitResult struct {
	ResponseID string          `json:"responseId"`
	Graded     bool            `json:"graded"`
	Score      *model.Score    `json:"score,omitempty"`
	Breakdown  []BreakdownItem `json:"breakdown,omitempty"`
}

// Submit processes one take-attempt end to end. The invitation slot is
// claimed before the response row is written; over-admission is worse
// than a leaked slot on a storage failure.
func (s *ResponseService) Submit(slug string, input SubmitInput, defaultThreshold float64) (*SubmitResult, error) {
	survey, err := s.SurveyRepo.FindBySlug(slug)
	if err != nil {
		return nil, util.ErrSurveyNotFound
	}
	if survey.Status != model.StatusActive {
		return nil, util.ErrSurveyNotOpen
	}

	var invitation *model.Invitation
	if input.InvitationCode != "" {
		invitation, err = s.Gate.Authorize(input.InvitationCode, input.UserID, input.Email, input.Metadata.IPAddress)
		if err != nil {
			return nil, err
		}
		if invitation.SurveyID != survey.ID {
			return nil, util.ErrInvitationNotFound
		}
	}

	if survey.MaxAttempts > 0 {
		count, err := s.Repo.CountBySurveyAndEmail(survey.ID, input.Email)
		if err != nil {
			return nil, err
		}
		if count >= int64(survey.MaxAttempts) {
			return nil, util.ErrMaxAttemptsReached
		}
	}

	questions, err := s.Source.Resolve(survey, input.Email)
	if err != nil {
		return nil, err
	}

	if len(input.Answers) != len(questions) {
		return nil, fmt.Errorf("%w: %d answers for %d questions",
			util.ErrInvalidAnswerFormat, len(input.Answers), len(questions))
	}
	for i, raw := range input.Answers {
		if err := ValidateAnswerShape(questions[i].Type, raw); err != nil {
			return nil, fmt.Errorf("answer %d: %w", i+1, err)
		}
	}

	graded := survey.Type.RequiresAnswers()
	settings := survey.EffectiveScoring(defaultThreshold)

	evaluations := make([]Evaluation, len(questions))
	snapshots := make([]model.QuestionSnapshot, len(questions))
	for i := range questions {
		content := questions[i].Content()
		var ev Evaluation
		if graded {
			ev = s.Scoring.Evaluate(i, content, input.Answers[i], settings.CustomScoringRules)
		} else {
			ev = Evaluation{QuestionIndex: i}
		}
		evaluations[i] = ev
		snapshots[i] = model.QuestionSnapshot{
			QuestionID:    questions[i].ID,
			QuestionIndex: i,
			QuestionData:  content,
			UserAnswer:    input.Answers[i],
			IsCorrect:     ev.IsCorrect,
			PointsAwarded: ev.PointsAwarded,
			MaxPoints:     ev.MaxPoints,
			Graded:        ev.Graded,
		}
	}

	var score model.Score
	if graded {
		score = s.Scoring.Aggregate(evaluations, settings)
	}

	if invitation != nil {
		// Claim the slot before persisting. A concurrent submission may
		// have taken the last one since Authorize.
		if err := s.Gate.RecordCompletion(invitation.ID, input.UserID, input.Email); err != nil {
			return nil, err
		}
	}

	response := &model.Response{
		Name:         input.Name,
		Email:        input.Email,
		SurveyID:     survey.ID,
		Answers:      input.Answers,
		Score:        score,
		TimeSpent:    input.TimeSpent,
		IsAutoSubmit: input.IsAutoSubmit,
		Metadata:     input.Metadata,
	}
	if invitation != nil {
		response.InvitationID = &invitation.ID
	}

	if err := s.Repo.CreateWithSnapshots(response, snapshots); err != nil {
		if invitation != nil {
			logger.Log.Error("response persist failed after slot claim",
				zap.String("invitation_id", invitation.ID),
				zap.String("survey_id", survey.ID),
				zap.Error(err))
		}
		return nil, err
	}

	monitoring.ResponsesSubmitted.WithLabelValues(string(survey.Type)).Inc()

	result := &SubmitResult{ResponseID: response.ID, Graded: graded}
	if graded && settings.ShowScore {
		sc := score
		result.Score = &sc
	}
	if graded && settings.ShowScoreBreakdown {
		result.Breakdown = buildBreakdown(questions, evaluations, input.Answers, settings.ShowCorrectAnswers)
	}
	return result, nil
}

func buildBreakdown(questions []model.Question, evaluations []Evaluation, answers []json.RawMessage, showCorrect bool) []BreakdownItem {
	items := make([]BreakdownItem, len(questions))
	for i := range questions {
		items[i] = BreakdownItem{
			QuestionIndex: i,
			Text:          questions[i].Text,
			IsCorrect:     evaluations[i].IsCorrect,
			Graded:        evaluations[i].Graded,
			PointsAwarded: evaluations[i].PointsAwarded,
			MaxPoints:     evaluations[i].MaxPoints,
			UserAnswer:    answers[i],
		}
		if showCorrect {
			items[i].CorrectAnswer = questions[i].CorrectAnswer
			items[i].Explanation = questions[i].Explanation
		}
	}
	return items
}

func (s *ResponseService) GetByID(id string) (*model.Response, error) {
	return s.Repo.FindByID(id)
}

func (s *ResponseService) ListBySurvey(surveyID string, page, limit int) ([]model.Response, int64, error) {
	return s.Repo.ListBySurvey(surveyID, page, limit)
}

func (s *ResponseService) Delete(id string) error {
	return s.Repo.Delete(id)
}

package service

import (
	"context"
	"errors"
	"fmt"

	"surveyhub_backend/internal/model"
	"surveyhub_backend/internal/repository"
	"surveyhub_backend/internal/util"
	"surveyhub_backend/pkg/cache"

	"gorm.io/gorm"
)

type SurveyService struct {
	Repo   *repository.SurveyRepository
	Source *QuestionSourceService
	Cache  *cache.SurveyCache
}

func NewSurveyService(repo *repository.SurveyRepository, source *QuestionSourceService, surveyCache *cache.SurveyCache) *SurveyService {
	return &SurveyService{Repo: repo, Source: source, Cache: surveyCache}
}

type CreateSurveyInput struct {
	Title          string           `json:"title" binding:"required"`
	Description    string           `json:"description"`
	Type           model.SurveyType `json:"type"`
	Instructions   string           `json:"instructions"`
	NavigationMode string           `json:"navigationMode"`

	SourceType        model.SourceType       `json:"sourceType"`
	Questions         []model.Question       `json:"questions"`
	QuestionBankID    *string                `json:"questionBankId"`
	QuestionCount     int                    `json:"questionCount"`
	MultiBankConfig   model.BankSelectorList `json:"multiQuestionBankConfig"`
	SelectedQuestions model.QuestionRefList  `json:"selectedQuestions"`

	ScoringSettings *model.ScoringSettings `json:"scoringSettings"`
	TimeLimit       int                    `json:"timeLimit"`
	MaxAttempts     int                    `json:"maxAttempts"`
}

// validateShape rejects structurally broken sourcing configurations at
// authoring time. Counts against bank sizes are deliberately not checked
// here; banks change after the survey is saved, so that check belongs to
// resolve time.
func validateShape(input *CreateSurveyInput) error {
	switch input.SourceType {
	case "", model.SourceManual:
		for i := range input.Questions {
			if err := validateQuestion(&input.Questions[i]); err != nil {
				return err
			}
		}
	case model.SourceQuestionBank:
		if input.QuestionBankID == nil || *input.QuestionBankID == "" {
			return fmt.Errorf("%w: questionBankId is required", util.ErrInvalidInput)
		}
	case model.SourceMultiQuestionBank:
		if len(input.MultiBankConfig) == 0 {
			return fmt.Errorf("%w: multiQuestionBankConfig is required", util.ErrInvalidInput)
		}
		for _, sel := range input.MultiBankConfig {
			if sel.QuestionBankID == "" {
				return fmt.Errorf("%w: selector without bank id", util.ErrInvalidInput)
			}
		}
	case model.SourceManualSelection:
		if len(input.SelectedQuestions) == 0 {
			return fmt.Errorf("%w: selectedQuestions is required", util.ErrInvalidInput)
		}
		for _, ref := range input.SelectedQuestions {
			if ref.QuestionBankID == "" || ref.QuestionID == "" {
				return fmt.Errorf("%w: incomplete question reference", util.ErrInvalidInput)
			}
		}
	default:
		return fmt.Errorf("%w: unknown source type %q", util.ErrInvalidInput, input.SourceType)
	}
	return nil
}

func validateQuestion(q *model.Question) error {
	if q.Text == "" {
		return fmt.Errorf("%w: question text is required", util.ErrInvalidInput)
	}
	if q.Type == "" {
		q.Type = model.SingleChoice
	}
	if !q.Type.Valid() {
		return fmt.Errorf("%w: unknown question type %q", util.ErrInvalidInput, q.Type)
	}
	if q.Type != model.ShortText && len(q.Options) < 2 {
		return fmt.Errorf("%w: choice question needs at least two options", util.ErrInvalidInput)
	}
	return nil
}

func (s *SurveyService) Create(input CreateSurveyInput, createdBy string) (*model.Survey, error) {
	if err := validateShape(&input); err != nil {
		return nil, err
	}

	surveyType := input.Type
	if surveyType == "" {
		surveyType = model.TypeSurvey
	}
	sourceType := input.SourceType
	if sourceType == "" {
		sourceType = model.SourceManual
	}
	navigationMode := input.NavigationMode
	if navigationMode == "" {
		navigationMode = "step-by-step"
	}

	slug, err := s.uniqueSlug(input.Title)
	if err != nil {
		return nil, err
	}

	survey := &model.Survey{
		Title:             input.Title,
		Description:       input.Description,
		Slug:              slug,
		Type:              surveyType,
		Status:            model.StatusDraft,
		Instructions:      input.Instructions,
		NavigationMode:    navigationMode,
		SourceType:        sourceType,
		Questions:         input.Questions,
		QuestionBankID:    input.QuestionBankID,
		QuestionCount:     input.QuestionCount,
		MultiBankConfig:   input.MultiBankConfig,
		SelectedQuestions: input.SelectedQuestions,
		ScoringSettings:   input.ScoringSettings,
		TimeLimit:         input.TimeLimit,
		MaxAttempts:       input.MaxAttempts,
		CreatedBy:         createdBy,
	}
	for i := range survey.Questions {
		survey.Questions[i].Order = i
	}

	if err := s.Repo.Create(survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// uniqueSlug derives a slug from the title and suffixes -2, -3, ... until
// it is free.
func (s *SurveyService) uniqueSlug(title string) (string, error) {
	base := util.Slugify(title)
	if base == "" {
		base = "survey"
	}
	slug := base
	for i := 2; ; i++ {
		exists, err := s.Repo.SlugExists(slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *SurveyService) GetByID(id string) (*model.Survey, error) {
	survey, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSurveyNotFound
		}
		return nil, err
	}
	return survey, nil
}

func (s *SurveyService) List(page, limit int, surveyType, status string) ([]repository.SurveyListRow, int64, error) {
	return s.Repo.List(page, limit, surveyType, status)
}

type UpdateSurveyInput struct {
	Title          *string           `json:"title"`
	Description    *string           `json:"description"`
	Type           *model.SurveyType `json:"type"`
	Instructions   *string           `json:"instructions"`
	NavigationMode *string           `json:"navigationMode"`

	SourceType        *model.SourceType       `json:"sourceType"`
	Questions         *[]model.Question       `json:"questions"`
	QuestionBankID    *string                 `json:"questionBankId"`
	QuestionCount     *int                    `json:"questionCount"`
	MultiBankConfig   *model.BankSelectorList `json:"multiQuestionBankConfig"`
	SelectedQuestions *model.QuestionRefList  `json:"selectedQuestions"`

	ScoringSettings *model.ScoringSettings `json:"scoringSettings"`
	TimeLimit       *int                   `json:"timeLimit"`
	MaxAttempts     *int                   `json:"maxAttempts"`
}

func (s *SurveyService) Update(ctx context.Context, id string, input UpdateSurveyInput) (*model.Survey, error) {
	survey, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		survey.Title = *input.Title
	}
	if input.Description != nil {
		survey.Description = *input.Description
	}
	if input.Type != nil {
		survey.Type = *input.Type
	}
	if input.Instructions != nil {
		survey.Instructions = *input.Instructions
	}
	if input.NavigationMode != nil {
		survey.NavigationMode = *input.NavigationMode
	}
	if input.SourceType != nil {
		survey.SourceType = *input.SourceType
	}
	if input.QuestionBankID != nil {
		survey.QuestionBankID = input.QuestionBankID
	}
	if input.QuestionCount != nil {
		survey.QuestionCount = *input.QuestionCount
	}
	if input.MultiBankConfig != nil {
		survey.MultiBankConfig = *input.MultiBankConfig
	}
	if input.SelectedQuestions != nil {
		survey.SelectedQuestions = *input.SelectedQuestions
	}
	if input.ScoringSettings != nil {
		survey.ScoringSettings = input.ScoringSettings
	}
	if input.TimeLimit != nil {
		survey.TimeLimit = *input.TimeLimit
	}
	if input.MaxAttempts != nil {
		survey.MaxAttempts = *input.MaxAttempts
	}

	if input.Questions != nil {
		questions := *input.Questions
		for i := range questions {
			if err := validateQuestion(&questions[i]); err != nil {
				return nil, err
			}
			questions[i].Order = i
		}
		if err := s.Repo.ReplaceQuestions(survey.ID, questions); err != nil {
			return nil, err
		}
		survey.Questions = questions
	}

	if err := s.Repo.Update(survey); err != nil {
		return nil, err
	}
	s.Cache.Invalidate(ctx, survey.Slug)
	return survey, nil
}

func (s *SurveyService) UpdateStatus(ctx context.Context, id string, status model.SurveyStatus) (*model.Survey, error) {
	if status != model.StatusDraft && status != model.StatusActive && status != model.StatusClosed {
		return nil, fmt.Errorf("%w: unknown status %q", util.ErrInvalidInput, status)
	}
	survey, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	survey.Status = status
	s.Cache.Invalidate(ctx, survey.Slug)
	return survey, nil
}

func (s *SurveyService) Delete(ctx context.Context, id string) error {
	survey, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx, survey.Slug)
	return nil
}

// PublicSurvey is the take-page payload. It never carries correct answers
// or the sourcing configuration.
type PublicSurvey struct {
	ID             string                 `json:"id"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description,omitempty"`
	Slug           string                 `json:"slug"`
	Type           model.SurveyType       `json:"type"`
	Instructions   string                 `json:"instructions,omitempty"`
	NavigationMode string                 `json:"navigationMode"`
	TimeLimit      int                    `json:"timeLimit"`
	ScoringDisplay *PublicScoringSettings `json:"scoringSettings,omitempty"`
}

type PublicScoringSettings struct {
	ShowScore          bool `json:"showScore"`
	ShowCorrectAnswers bool `json:"showCorrectAnswers"`
	ShowScoreBreakdown bool `json:"showScoreBreakdown"`
}

// GetPublicBySlug serves the take-page metadata, read-through cached.
func (s *SurveyService) GetPublicBySlug(ctx context.Context, slug string) (*PublicSurvey, error) {
	var cached PublicSurvey
	if s.Cache.Get(ctx, slug, &cached) {
		return &cached, nil
	}

	survey, err := s.Repo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSurveyNotFound
		}
		return nil, err
	}
	if survey.Status != model.StatusActive {
		return nil, util.ErrSurveyNotOpen
	}

	view := &PublicSurvey{
		ID:             survey.ID,
		Title:          survey.Title,
		Description:    survey.Description,
		Slug:           survey.Slug,
		Type:           survey.Type,
		Instructions:   survey.Instructions,
		NavigationMode: survey.NavigationMode,
		TimeLimit:      survey.TimeLimit,
	}
	if survey.ScoringSettings != nil {
		view.ScoringDisplay = &PublicScoringSettings{
			ShowScore:          survey.ScoringSettings.ShowScore,
			ShowCorrectAnswers: survey.ScoringSettings.ShowCorrectAnswers,
			ShowScoreBreakdown: survey.ScoringSettings.ShowScoreBreakdown,
		}
	}
	s.Cache.Set(ctx, slug, view)
	return view, nil
}

// PublicQuestion is one resolved question with grading fields stripped.
type PublicQuestion struct {
	ID               string             `json:"id"`
	Text             string             `json:"text"`
	Description      string             `json:"description,omitempty"`
	DescriptionImage string             `json:"descriptionImage,omitempty"`
	Type             model.QuestionType `json:"type"`
	Options          model.OptionList   `json:"options,omitempty"`
	Points           int                `json:"points"`
}

// QuestionsForRespondent resolves the per-respondent question list for the
// take-page. Same email, same draw.
func (s *SurveyService) QuestionsForRespondent(slug, email string) (*model.Survey, []PublicQuestion, error) {
	survey, err := s.Repo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrSurveyNotFound
		}
		return nil, nil, err
	}
	if survey.Status != model.StatusActive {
		return nil, nil, util.ErrSurveyNotOpen
	}

	questions, err := s.Source.Resolve(survey, email)
	if err != nil {
		return nil, nil, err
	}

	public := make([]PublicQuestion, 0, len(questions))
	for _, q := range questions {
		public = append(public, PublicQuestion{
			ID:               q.ID,
			Text:             q.Text,
			Description:      q.Description,
			DescriptionImage: q.DescriptionImage,
			Type:             q.Type,
			Options:          q.Options,
			Points:           q.Points,
		})
	}
	return survey, public, nil
}

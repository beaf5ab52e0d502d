package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"surveyhub_backend/internal/model"
	"surveyhub_backend/internal/repository"
	"surveyhub_backend/internal/util"

	"gorm.io/gorm"
)

type InvitationService struct {
	Repo       *repository.InvitationRepository
	SurveyRepo *repository.SurveyRepository
	BaseURL    string
}

func NewInvitationService(repo *repository.InvitationRepository, surveyRepo *repository.SurveyRepository, baseURL string) *InvitationService {
	return &InvitationService{Repo: repo, SurveyRepo: surveyRepo, BaseURL: baseURL}
}

type CreateInvitationInput struct {
	SurveyID          string                 `json:"surveyId" binding:"required"`
	DistributionMode  model.DistributionMode `json:"distributionMode" binding:"required"`
	TargetUserIDs     []string               `json:"targetUsers"`
	TargetEmails      []string               `json:"targetEmails"`
	MaxResponses      *int                   `json:"maxResponses"`
	ExpiresAt         *time.Time             `json:"expiresAt"`
	PreventDuplicates bool                   `json:"preventDuplicates"`
}

func (s *InvitationService) Create(input CreateInvitationInput, createdBy string) (*model.Invitation, error) {
	if !input.DistributionMode.Valid() {
		return nil, fmt.Errorf("%w: unknown distribution mode %q", util.ErrInvalidInput, input.DistributionMode)
	}
	if input.DistributionMode == model.DistributionTargeted &&
		len(input.TargetUserIDs) == 0 && len(input.TargetEmails) == 0 {
		return nil, fmt.Errorf("%w: targeted invitation needs at least one target", util.ErrInvalidInput)
	}
	if input.MaxResponses != nil && *input.MaxResponses <= 0 {
		return nil, fmt.Errorf("%w: maxResponses must be positive", util.ErrInvalidInput)
	}

	if _, err := s.SurveyRepo.FindByID(input.SurveyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSurveyNotFound
		}
		return nil, err
	}

	inv := &model.Invitation{
		SurveyID:          input.SurveyID,
		InvitationCode:    model.NewInvitationCode(),
		DistributionMode:  input.DistributionMode,
		TargetUserIDs:     normalizeList(input.TargetUserIDs),
		TargetEmails:      normalizeList(input.TargetEmails),
		MaxResponses:      input.MaxResponses,
		ExpiresAt:         input.ExpiresAt,
		PreventDuplicates: input.PreventDuplicates,
		IsActive:          true,
		CreatedBy:         createdBy,
	}
	if err := s.Repo.Create(inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func normalizeList(values []string) model.StringList {
	out := make(model.StringList, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

type UpdateInvitationInput struct {
	TargetUserIDs     *[]string  `json:"targetUsers"`
	TargetEmails      *[]string  `json:"targetEmails"`
	MaxResponses      *int       `json:"maxResponses"`
	ExpiresAt         *time.Time `json:"expiresAt"`
	PreventDuplicates *bool      `json:"preventDuplicates"`
	IsActive          *bool      `json:"isActive"`
}

func (s *InvitationService) Update(id string, input UpdateInvitationInput) (*model.Invitation, error) {
	inv, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvitationNotFound
		}
		return nil, err
	}

	if input.TargetUserIDs != nil {
		inv.TargetUserIDs = normalizeList(*input.TargetUserIDs)
	}
	if input.TargetEmails != nil {
		inv.TargetEmails = normalizeList(*input.TargetEmails)
	}
	if input.MaxResponses != nil {
		if *input.MaxResponses <= 0 {
			return nil, fmt.Errorf("%w: maxResponses must be positive", util.ErrInvalidInput)
		}
		inv.MaxResponses = input.MaxResponses
	}
	if input.ExpiresAt != nil {
		inv.ExpiresAt = input.ExpiresAt
	}
	if input.PreventDuplicates != nil {
		inv.PreventDuplicates = *input.PreventDuplicates
	}
	if input.IsActive != nil {
		inv.IsActive = *input.IsActive
	}

	if err := s.Repo.Update(inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *InvitationService) Delete(id string) error {
	if _, err := s.Repo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrInvitationNotFound
		}
		return err
	}
	return s.Repo.Delete(id)
}

func (s *InvitationService) GetByID(id string) (*model.Invitation, error) {
	inv, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvitationNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (s *InvitationService) ListBySurvey(surveyID string) ([]model.Invitation, error) {
	return s.Repo.ListBySurvey(surveyID)
}

func (s *InvitationService) Statistics(id string) (*repository.InvitationStats, error) {
	if _, err := s.GetByID(id); err != nil {
		return nil, err
	}
	return s.Repo.Statistics(id)
}

func (s *InvitationService) ListAccesses(id string, page, limit int) ([]model.InvitationAccess, int64, error) {
	if _, err := s.GetByID(id); err != nil {
		return nil, 0, err
	}
	return s.Repo.ListAccesses(id, page, limit)
}

// InvitationURL builds the shareable take-page link for an invitation.
func (s *InvitationService) InvitationURL(inv *model.Invitation) (string, error) {
	survey, err := s.SurveyRepo.FindByID(inv.SurveyID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/survey/%s?invitation=%s", strings.TrimRight(s.BaseURL, "/"), survey.Slug, inv.InvitationCode), nil
}

package service

import (
	"errors"
	"fmt"

	"surveyhub_backend/internal/model"
	"surveyhub_backend/internal/repository"
	"surveyhub_backend/internal/util"

	"gorm.io/gorm"
)

type QuestionBankService struct {
	Repo   *repository.QuestionBankRepository
	Source *QuestionSourceService
}

func NewQuestionBankService(repo *repository.QuestionBankRepository, source *QuestionSourceService) *QuestionBankService {
	return &QuestionBankService{Repo: repo, Source: source}
}

type CreateBankInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *QuestionBankService) Create(input CreateBankInput, createdBy string) (*model.QuestionBank, error) {
	bank := &model.QuestionBank{
		Name:        input.Name,
		Description: input.Description,
		CreatedBy:   createdBy,
	}
	if err := s.Repo.Create(bank); err != nil {
		return nil, err
	}
	return bank, nil
}

func (s *QuestionBankService) GetByID(id string) (*model.QuestionBank, error) {
	bank, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrBankNotFound
		}
		return nil, err
	}
	return bank, nil
}

func (s *QuestionBankService) List(page, limit int) ([]repository.QuestionBankListRow, int64, error) {
	return s.Repo.List(page, limit)
}

func (s *QuestionBankService) Update(id string, name, description *string) (*model.QuestionBank, error) {
	bank, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		bank.Name = *name
	}
	if description != nil {
		bank.Description = *description
	}
	if err := s.Repo.Update(bank); err != nil {
		return nil, err
	}
	return bank, nil
}

func (s *QuestionBankService) Delete(id string) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.Repo.Delete(id)
}

func (s *QuestionBankService) AddQuestion(bankID string, question *model.Question) (*model.Question, error) {
	if _, err := s.GetByID(bankID); err != nil {
		return nil, err
	}
	if err := validateQuestion(question); err != nil {
		return nil, err
	}
	question.BankID = &bankID
	question.SurveyID = nil
	if err := s.Repo.CreateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionBankService) UpdateQuestion(bankID, questionID string, question *model.Question) (*model.Question, error) {
	existing, err := s.Repo.FindQuestionByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	if existing.BankID == nil || *existing.BankID != bankID {
		return nil, util.ErrQuestionNotFound
	}
	if err := validateQuestion(question); err != nil {
		return nil, err
	}

	existing.Text = question.Text
	existing.Description = question.Description
	existing.DescriptionImage = question.DescriptionImage
	existing.Type = question.Type
	existing.Options = question.Options
	existing.CorrectAnswer = question.CorrectAnswer
	existing.Explanation = question.Explanation
	existing.Points = question.Points
	existing.Tags = question.Tags
	existing.Difficulty = question.Difficulty
	existing.Order = question.Order

	if err := s.Repo.UpdateQuestion(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *QuestionBankService) DeleteQuestion(bankID, questionID string) error {
	existing, err := s.Repo.FindQuestionByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}
	if existing.BankID == nil || *existing.BankID != bankID {
		return util.ErrQuestionNotFound
	}
	return s.Repo.DeleteQuestion(questionID)
}

func (s *QuestionBankService) ListQuestions(bankID string) ([]model.Question, error) {
	if _, err := s.GetByID(bankID); err != nil {
		return nil, err
	}
	return s.Repo.ListQuestions(bankID)
}

// RandomQuestions is the authoring preview of a filtered random draw.
func (s *QuestionBankService) RandomQuestions(bankID string, count int, filter *model.BankFilter) ([]model.Question, error) {
	return s.Source.RandomQuestions(bankID, count, filter)
}

// Import bulk-loads questions into a bank, validating each before any
// row is written.
func (s *QuestionBankService) Import(bankID string, questions []model.Question) (int, error) {
	if _, err := s.GetByID(bankID); err != nil {
		return 0, err
	}
	if len(questions) == 0 {
		return 0, fmt.Errorf("%w: no questions to import", util.ErrInvalidInput)
	}
	for i := range questions {
		if err := validateQuestion(&questions[i]); err != nil {
			return 0, fmt.Errorf("question %d: %w", i+1, err)
		}
		questions[i].BankID = &bankID
		questions[i].SurveyID = nil
	}
	if err := s.Repo.CreateQuestions(questions); err != nil {
		return 0, err
	}
	return len(questions), nil
}

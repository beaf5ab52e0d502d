package service

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"surveyhub_backend/internal/model"
	"surveyhub_backend/internal/util"

	"gorm.io/gorm"
)

// BankLoader is the slice of the question bank repository the resolver needs.
type BankLoader interface {
	FindByID(id string) (*model.QuestionBank, error)
}

// QuestionSourceService resolves a survey's sourcing configuration into the
// concrete question list presented to one respondent.
type QuestionSourceService struct {
	Banks BankLoader

	// randFor returns the sampler for a respondent. Keyed by email so a
	// respondent who reloads the take-page sees the same draw; tests swap
	// in fixed seeds.
	randFor func(respondentKey string) *rand.Rand
}

func NewQuestionSourceService(banks BankLoader) *QuestionSourceService {
	return &QuestionSourceService{
		Banks:   banks,
		randFor: respondentRand,
	}
}

func respondentRand(key string) *rand.Rand {
	if key == "" {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	h := fnv.New64a()
	h.Write([]byte(key))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

// loadBank translates a missing row into ErrBankNotFound. Storage faults
// pass through so they are not reported as a 404 to the caller.
func (s *QuestionSourceService) loadBank(id string) (*model.QuestionBank, error) {
	bank, err := s.Banks.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrBankNotFound
		}
		return nil, err
	}
	return bank, nil
}

// Resolve materializes the question list for a survey. Sourcing
// configuration errors surface here, at take time, never at authoring time.
func (s *QuestionSourceService) Resolve(survey *model.Survey, respondentKey string) ([]model.Question, error) {
	switch survey.SourceType {
	case model.SourceManual:
		if len(survey.Questions) == 0 {
			return nil, util.ErrEmptyQuestionSet
		}
		return survey.Questions, nil

	case model.SourceQuestionBank:
		return s.resolveSingleBank(survey, respondentKey)

	case model.SourceMultiQuestionBank:
		return s.resolveMultiBank(survey, respondentKey)

	case model.SourceManualSelection:
		return s.resolveManualSelection(survey)

	default:
		return nil, fmt.Errorf("%w: unknown source type %q", util.ErrInvalidSourceConfig, survey.SourceType)
	}
}

func (s *QuestionSourceService) resolveSingleBank(survey *model.Survey, respondentKey string) ([]model.Question, error) {
	if survey.QuestionBankID == nil || *survey.QuestionBankID == "" {
		return nil, fmt.Errorf("%w: question bank not set", util.ErrInvalidSourceConfig)
	}
	if survey.QuestionCount <= 0 {
		return nil, fmt.Errorf("%w: question count must be positive", util.ErrInvalidSourceConfig)
	}

	bank, err := s.loadBank(*survey.QuestionBankID)
	if err != nil {
		return nil, err
	}
	if survey.QuestionCount > len(bank.Questions) {
		return nil, fmt.Errorf("%w: bank %q has %d questions, %d requested",
			util.ErrInsufficientQuestions, bank.Name, len(bank.Questions), survey.QuestionCount)
	}

	rng := s.randFor(respondentKey)
	return sampleQuestions(rng, bank.Questions, survey.QuestionCount), nil
}

func (s *QuestionSourceService) resolveMultiBank(survey *model.Survey, respondentKey string) ([]model.Question, error) {
	if len(survey.MultiBankConfig) == 0 {
		return nil, fmt.Errorf("%w: no bank selectors configured", util.ErrInvalidSourceConfig)
	}

	rng := s.randFor(respondentKey)
	banks := make(map[string]*model.QuestionBank)
	// Questions already drawn per bank. A bank referenced by several
	// selectors must never contribute the same question twice.
	drawn := make(map[string]map[string]bool)

	var result []model.Question
	for _, sel := range survey.MultiBankConfig {
		if sel.QuestionBankID == "" {
			return nil, fmt.Errorf("%w: selector without bank id", util.ErrInvalidSourceConfig)
		}
		if sel.QuestionCount <= 0 {
			return nil, fmt.Errorf("%w: selector question count must be positive", util.ErrInvalidSourceConfig)
		}

		bank, ok := banks[sel.QuestionBankID]
		if !ok {
			loaded, err := s.loadBank(sel.QuestionBankID)
			if err != nil {
				return nil, err
			}
			bank = loaded
			banks[sel.QuestionBankID] = bank
			drawn[sel.QuestionBankID] = make(map[string]bool)
		}

		pool := make([]model.Question, 0, len(bank.Questions))
		for i := range bank.Questions {
			q := &bank.Questions[i]
			if drawn[sel.QuestionBankID][q.ID] {
				continue
			}
			if sel.Filters.Matches(q) {
				pool = append(pool, *q)
			}
		}

		if sel.QuestionCount > len(pool) {
			return nil, fmt.Errorf("%w: bank %q has %d matching questions, %d requested",
				util.ErrInsufficientQuestions, bank.Name, len(pool), sel.QuestionCount)
		}

		picked := sampleQuestions(rng, pool, sel.QuestionCount)
		for _, q := range picked {
			drawn[sel.QuestionBankID][q.ID] = true
		}
		result = append(result, picked...)
	}
	return result, nil
}

func (s *QuestionSourceService) resolveManualSelection(survey *model.Survey) ([]model.Question, error) {
	if len(survey.SelectedQuestions) == 0 {
		return nil, fmt.Errorf("%w: no questions selected", util.ErrInvalidSourceConfig)
	}

	banks := make(map[string]*model.QuestionBank)
	result := make([]model.Question, 0, len(survey.SelectedQuestions))
	for _, ref := range survey.SelectedQuestions {
		bank, ok := banks[ref.QuestionBankID]
		if !ok {
			loaded, err := s.loadBank(ref.QuestionBankID)
			if err != nil {
				return nil, err
			}
			bank = loaded
			banks[ref.QuestionBankID] = bank
		}

		q := bank.QuestionByID(ref.QuestionID)
		if q == nil {
			return nil, fmt.Errorf("%w: %s not in bank %s", util.ErrQuestionNotFound, ref.QuestionID, ref.QuestionBankID)
		}
		result = append(result, *q)
	}
	return result, nil
}

// RandomQuestions draws a one-off sample from a bank, used by the authoring
// preview endpoint. Always freshly seeded.
func (s *QuestionSourceService) RandomQuestions(bankID string, count int, filter *model.BankFilter) ([]model.Question, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: question count must be positive", util.ErrInvalidSourceConfig)
	}
	bank, err := s.loadBank(bankID)
	if err != nil {
		return nil, err
	}

	pool := make([]model.Question, 0, len(bank.Questions))
	for i := range bank.Questions {
		if filter.Matches(&bank.Questions[i]) {
			pool = append(pool, bank.Questions[i])
		}
	}
	if count > len(pool) {
		return nil, fmt.Errorf("%w: bank %q has %d matching questions, %d requested",
			util.ErrInsufficientQuestions, bank.Name, len(pool), count)
	}

	rng := s.randFor("")
	return sampleQuestions(rng, pool, count), nil
}

// sampleQuestions draws n distinct questions without replacement.
func sampleQuestions(rng *rand.Rand, pool []model.Question, n int) []model.Question {
	perm := rng.Perm(len(pool))
	picked := make([]model.Question, 0, n)
	for _, idx := range perm[:n] {
		picked = append(picked, pool[idx])
	}
	return picked
}

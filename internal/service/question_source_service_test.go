package service

import (
	"errors"
	"math/rand"
	"testing"

	"surveyhub_backend/internal/model"
	"surveyhub_backend/internal/util"

	"gorm.io/gorm"
)

type fakeBankLoader struct {
	banks map[string]*model.QuestionBank
	// err, when set, simulates a storage fault on every lookup.
	err error
}

func (f *fakeBankLoader) FindByID(id string) (*model.QuestionBank, error) {
	if f.err != nil {
		return nil, f.err
	}
	bank, ok := f.banks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return bank, nil
}

func bankWithQuestions(id string, questions ...model.Question) *model.QuestionBank {
	bank := &model.QuestionBank{Questions: questions}
	bank.ID = id
	return bank
}

func bankQuestion(id string, tags []string, difficulty model.Difficulty, qtype model.QuestionType) model.Question {
	q := model.Question{
		Text:       "q-" + id,
		Type:       qtype,
		Tags:       model.StringList(tags),
		Difficulty: difficulty,
	}
	q.ID = id
	return q
}

func newTestSource(banks ...*model.QuestionBank) *QuestionSourceService {
	loader := &fakeBankLoader{banks: make(map[string]*model.QuestionBank)}
	for _, b := range banks {
		loader.banks[b.ID] = b
	}
	svc := NewQuestionSourceService(loader)
	svc.randFor = func(string) *rand.Rand {
		return rand.New(rand.NewSource(42))
	}
	return svc
}

func TestResolveManual(t *testing.T) {
	svc := newTestSource()

	q := bankQuestion("q1", nil, model.DifficultyMedium, model.SingleChoice)
	survey := &model.Survey{
		SourceType: model.SourceManual,
		Questions:  []model.Question{q},
	}

	got, err := svc.Resolve(survey, "a@b.com")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 1 || got[0].ID != "q1" {
		t.Errorf("got %d questions, want the manual one", len(got))
	}

	empty := &model.Survey{SourceType: model.SourceManual}
	if _, err := svc.Resolve(empty, ""); !errors.Is(err, util.ErrEmptyQuestionSet) {
		t.Errorf("empty manual survey: err = %v, want ErrEmptyQuestionSet", err)
	}
}

func TestResolveSingleBank(t *testing.T) {
	bank := bankWithQuestions("bank1",
		bankQuestion("q1", nil, model.DifficultyEasy, model.SingleChoice),
		bankQuestion("q2", nil, model.DifficultyEasy, model.SingleChoice),
		bankQuestion("q3", nil, model.DifficultyEasy, model.SingleChoice),
		bankQuestion("q4", nil, model.DifficultyEasy, model.SingleChoice),
	)
	svc := newTestSource(bank)

	bankID := "bank1"
	survey := &model.Survey{
		SourceType:     model.SourceQuestionBank,
		QuestionBankID: &bankID,
		QuestionCount:  3,
	}

	got, err := svc.Resolve(survey, "a@b.com")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d questions, want 3", len(got))
	}
	seen := make(map[string]bool)
	for _, q := range got {
		if seen[q.ID] {
			t.Errorf("question %s drawn twice", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestResolveSingleBankErrors(t *testing.T) {
	bank := bankWithQuestions("bank1",
		bankQuestion("q1", nil, model.DifficultyEasy, model.SingleChoice),
	)
	svc := newTestSource(bank)
	bankID := "bank1"
	missingID := "missing"

	tests := []struct {
		name    string
		survey  *model.Survey
		wantErr error
	}{
		{
			"missing bank id",
			&model.Survey{SourceType: model.SourceQuestionBank, QuestionCount: 1},
			util.ErrInvalidSourceConfig,
		},
		{
			"zero count",
			&model.Survey{SourceType: model.SourceQuestionBank, QuestionBankID: &bankID},
			util.ErrInvalidSourceConfig,
		},
		{
			"unknown bank",
			&model.Survey{SourceType: model.SourceQuestionBank, QuestionBankID: &missingID, QuestionCount: 1},
			util.ErrBankNotFound,
		},
		{
			"count exceeds bank",
			&model.Survey{SourceType: model.SourceQuestionBank, QuestionBankID: &bankID, QuestionCount: 5},
			util.ErrInsufficientQuestions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Resolve(tt.survey, "")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveBankStorageFault(t *testing.T) {
	loader := &fakeBankLoader{err: errors.New("dial tcp: connection refused")}
	svc := NewQuestionSourceService(loader)

	bankID := "bank1"
	survey := &model.Survey{
		SourceType:     model.SourceQuestionBank,
		QuestionBankID: &bankID,
		QuestionCount:  1,
	}

	// A storage outage is not a missing bank.
	_, err := svc.Resolve(survey, "")
	if err == nil {
		t.Fatal("expected an error from a failing loader")
	}
	if errors.Is(err, util.ErrBankNotFound) {
		t.Errorf("storage fault reported as ErrBankNotFound: %v", err)
	}
	if !errors.Is(err, loader.err) {
		t.Errorf("err = %v, want the loader's fault", err)
	}
}

func TestResolveMultiBankFilters(t *testing.T) {
	bank1 := bankWithQuestions("bank1",
		bankQuestion("m1", []string{"math"}, model.DifficultyEasy, model.SingleChoice),
		bankQuestion("m2", []string{"math"}, model.DifficultyEasy, model.SingleChoice),
		bankQuestion("h1", []string{"history"}, model.DifficultyEasy, model.SingleChoice),
	)
	bank2 := bankWithQuestions("bank2",
		bankQuestion("e1", nil, model.DifficultyHard, model.ShortText),
		bankQuestion("e2", nil, model.DifficultyHard, model.ShortText),
		bankQuestion("e3", nil, model.DifficultyEasy, model.ShortText),
	)
	svc := newTestSource(bank1, bank2)

	survey := &model.Survey{
		SourceType: model.SourceMultiQuestionBank,
		MultiBankConfig: model.BankSelectorList{
			{QuestionBankID: "bank1", QuestionCount: 2, Filters: &model.BankFilter{Tags: []string{"math"}}},
			{QuestionBankID: "bank2", QuestionCount: 2, Filters: &model.BankFilter{Difficulty: model.DifficultyHard}},
		},
	}

	got, err := svc.Resolve(survey, "a@b.com")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d questions, want 4", len(got))
	}
	wantIDs := map[string]bool{"m1": true, "m2": true, "e1": true, "e2": true}
	for _, q := range got {
		if !wantIDs[q.ID] {
			t.Errorf("unexpected question %s in draw", q.ID)
		}
	}
}

func TestResolveMultiBankNoDuplicateAcrossSelectors(t *testing.T) {
	bank := bankWithQuestions("bank1",
		bankQuestion("q1", nil, model.DifficultyEasy, model.SingleChoice),
		bankQuestion("q2", nil, model.DifficultyEasy, model.SingleChoice),
		bankQuestion("q3", nil, model.DifficultyEasy, model.SingleChoice),
		bankQuestion("q4", nil, model.DifficultyEasy, model.SingleChoice),
	)
	svc := newTestSource(bank)

	// Same bank twice; the union must still be distinct.
	survey := &model.Survey{
		SourceType: model.SourceMultiQuestionBank,
		MultiBankConfig: model.BankSelectorList{
			{QuestionBankID: "bank1", QuestionCount: 2},
			{QuestionBankID: "bank1", QuestionCount: 2},
		},
	}

	got, err := svc.Resolve(survey, "a@b.com")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	seen := make(map[string]bool)
	for _, q := range got {
		if seen[q.ID] {
			t.Fatalf("question %s drawn by both selectors", q.ID)
		}
		seen[q.ID] = true
	}
	if len(seen) != 4 {
		t.Errorf("got %d distinct questions, want 4", len(seen))
	}

	// A third selector cannot be satisfied once the bank is drained.
	survey.MultiBankConfig = append(survey.MultiBankConfig,
		model.BankSelector{QuestionBankID: "bank1", QuestionCount: 1})
	if _, err := svc.Resolve(survey, "a@b.com"); !errors.Is(err, util.ErrInsufficientQuestions) {
		t.Errorf("drained bank: err = %v, want ErrInsufficientQuestions", err)
	}
}

func TestResolveManualSelection(t *testing.T) {
	bank1 := bankWithQuestions("bank1",
		bankQuestion("q1", nil, model.DifficultyEasy, model.SingleChoice),
		bankQuestion("q2", nil, model.DifficultyEasy, model.SingleChoice),
	)
	bank2 := bankWithQuestions("bank2",
		bankQuestion("q3", nil, model.DifficultyEasy, model.SingleChoice),
	)
	svc := newTestSource(bank1, bank2)

	survey := &model.Survey{
		SourceType: model.SourceManualSelection,
		SelectedQuestions: model.QuestionRefList{
			{QuestionBankID: "bank2", QuestionID: "q3"},
			{QuestionBankID: "bank1", QuestionID: "q1"},
		},
	}

	got, err := svc.Resolve(survey, "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// Authored order is preserved.
	if len(got) != 2 || got[0].ID != "q3" || got[1].ID != "q1" {
		t.Errorf("got order %v, want [q3 q1]", []string{got[0].ID, got[1].ID})
	}

	survey.SelectedQuestions = model.QuestionRefList{
		{QuestionBankID: "bank1", QuestionID: "nope"},
	}
	if _, err := svc.Resolve(survey, ""); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Errorf("missing ref: err = %v, want ErrQuestionNotFound", err)
	}
}

func TestResolveReproduciblePerRespondent(t *testing.T) {
	bank := bankWithQuestions("bank1",
		bankQuestion("q1", nil, model.DifficultyEasy, model.SingleChoice),
		bankQuestion("q2", nil, model.DifficultyEasy, model.SingleChoice),
		bankQuestion("q3", nil, model.DifficultyEasy, model.SingleChoice),
		bankQuestion("q4", nil, model.DifficultyEasy, model.SingleChoice),
		bankQuestion("q5", nil, model.DifficultyEasy, model.SingleChoice),
		bankQuestion("q6", nil, model.DifficultyEasy, model.SingleChoice),
	)
	loader := &fakeBankLoader{banks: map[string]*model.QuestionBank{"bank1": bank}}
	svc := NewQuestionSourceService(loader) // real seeding

	bankID := "bank1"
	survey := &model.Survey{
		SourceType:     model.SourceQuestionBank,
		QuestionBankID: &bankID,
		QuestionCount:  3,
	}

	first, err := svc.Resolve(survey, "same@respondent.com")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := svc.Resolve(survey, "same@respondent.com")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("draw differs for the same respondent: %s vs %s", first[i].ID, second[i].ID)
		}
	}
}

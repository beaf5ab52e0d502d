package service

import (
	"encoding/json"
	"testing"

	"surveyhub_backend/internal/model"
)

func passAt(v float64) *float64 { return &v }

func choiceContent(correct string, points int, options ...string) model.QuestionContent {
	opts := make(model.OptionList, 0, len(options))
	for _, o := range options {
		opts = append(opts, model.Option{Text: o})
	}
	return model.QuestionContent{
		Type:          model.SingleChoice,
		Options:       opts,
		CorrectAnswer: json.RawMessage(correct),
		Points:        points,
	}
}

func TestEvaluateSingleChoice(t *testing.T) {
	svc := NewScoringService(60)
	q := choiceContent(`1`, 5, "Red", "Green", "Blue")

	tests := []struct {
		name        string
		answer      string
		wantCorrect bool
		wantPoints  int
	}{
		{"correct by text", `"Green"`, true, 5},
		{"correct by index string", `"1"`, true, 5},
		{"wrong option", `"Red"`, false, 0},
		{"unknown option", `"Purple"`, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := svc.Evaluate(0, q, json.RawMessage(tt.answer), model.CustomScoringRules{})
			if !ev.Graded {
				t.Fatal("expected graded evaluation")
			}
			if ev.IsCorrect != tt.wantCorrect {
				t.Errorf("IsCorrect = %v, want %v", ev.IsCorrect, tt.wantCorrect)
			}
			if ev.PointsAwarded != tt.wantPoints {
				t.Errorf("PointsAwarded = %d, want %d", ev.PointsAwarded, tt.wantPoints)
			}
			if ev.MaxPoints != 5 {
				t.Errorf("MaxPoints = %d, want 5", ev.MaxPoints)
			}
		})
	}
}

func TestEvaluateMultipleChoiceExactSet(t *testing.T) {
	svc := NewScoringService(60)
	q := model.QuestionContent{
		Type: model.MultipleChoice,
		Options: model.OptionList{
			{Text: "A"}, {Text: "B"}, {Text: "C"}, {Text: "D"},
		},
		CorrectAnswer: json.RawMessage(`[0, 2]`),
		Points:        4,
	}

	tests := []struct {
		name        string
		answer      string
		wantCorrect bool
	}{
		{"exact match", `["A", "C"]`, true},
		{"exact match reversed order", `["C", "A"]`, true},
		{"subset earns nothing", `["A"]`, false},
		{"superset earns nothing", `["A", "C", "B"]`, false},
		{"disjoint", `["B", "D"]`, false},
		{"duplicate picks collapse", `["A", "A"]`, false},
		{"unknown option", `["A", "E"]`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := svc.Evaluate(0, q, json.RawMessage(tt.answer), model.CustomScoringRules{})
			if ev.IsCorrect != tt.wantCorrect {
				t.Errorf("IsCorrect = %v, want %v", ev.IsCorrect, tt.wantCorrect)
			}
			want := 0
			if tt.wantCorrect {
				want = 4
			}
			if ev.PointsAwarded != want {
				t.Errorf("PointsAwarded = %d, want %d", ev.PointsAwarded, want)
			}
		})
	}
}

func TestEvaluateShortText(t *testing.T) {
	svc := NewScoringService(60)

	graded := model.QuestionContent{
		Type:          model.ShortText,
		CorrectAnswer: json.RawMessage(`"Paris"`),
		Points:        2,
	}

	ev := svc.Evaluate(0, graded, json.RawMessage(`"Paris"`), model.CustomScoringRules{})
	if !ev.IsCorrect || ev.PointsAwarded != 2 {
		t.Errorf("exact match: got correct=%v points=%d", ev.IsCorrect, ev.PointsAwarded)
	}

	// Case sensitive by design.
	ev = svc.Evaluate(0, graded, json.RawMessage(`"paris"`), model.CustomScoringRules{})
	if ev.IsCorrect {
		t.Error("case-insensitive match should not be correct")
	}

	// No correct answer means the question is ungraded.
	open := model.QuestionContent{Type: model.ShortText, Points: 2}
	ev = svc.Evaluate(0, open, json.RawMessage(`"anything"`), model.CustomScoringRules{})
	if ev.Graded {
		t.Error("open question should be ungraded")
	}
	if ev.MaxPoints != 0 {
		t.Errorf("ungraded MaxPoints = %d, want 0", ev.MaxPoints)
	}
}

func TestEvaluateDefaultPoints(t *testing.T) {
	svc := NewScoringService(60)
	q := choiceContent(`0`, 0, "Yes", "No")

	ev := svc.Evaluate(0, q, json.RawMessage(`"Yes"`), model.CustomScoringRules{})
	if ev.MaxPoints != 1 {
		t.Errorf("default MaxPoints = %d, want 1", ev.MaxPoints)
	}

	ev = svc.Evaluate(0, q, json.RawMessage(`"Yes"`), model.CustomScoringRules{
		UseCustomPoints:       true,
		DefaultQuestionPoints: 10,
	})
	if ev.MaxPoints != 10 {
		t.Errorf("custom default MaxPoints = %d, want 10", ev.MaxPoints)
	}

	// Explicit question points beat the custom default.
	q.Points = 3
	ev = svc.Evaluate(0, q, json.RawMessage(`"Yes"`), model.CustomScoringRules{
		UseCustomPoints:       true,
		DefaultQuestionPoints: 10,
	})
	if ev.MaxPoints != 3 {
		t.Errorf("explicit MaxPoints = %d, want 3", ev.MaxPoints)
	}
}

func TestAggregatePercentage(t *testing.T) {
	svc := NewScoringService(60)
	evals := []Evaluation{
		{QuestionIndex: 0, Graded: true, IsCorrect: true, PointsAwarded: 2, MaxPoints: 2},
		{QuestionIndex: 1, Graded: true, IsCorrect: false, MaxPoints: 2},
		{QuestionIndex: 2, Graded: true, IsCorrect: true, PointsAwarded: 2, MaxPoints: 2},
		// Ungraded: excluded from both sides of the ratio.
		{QuestionIndex: 3},
	}

	score := svc.Aggregate(evals, model.ScoringSettings{
		ScoringMode:      model.ScoringPercentage,
		PassingThreshold: passAt(60),
	})

	if score.TotalPoints != 4 || score.MaxPossiblePoints != 6 {
		t.Errorf("totals = %d/%d, want 4/6", score.TotalPoints, score.MaxPossiblePoints)
	}
	if score.CorrectAnswers != 2 || score.WrongAnswers != 1 {
		t.Errorf("counts = %d correct %d wrong, want 2/1", score.CorrectAnswers, score.WrongAnswers)
	}
	if score.DisplayScore != 66.67 {
		t.Errorf("DisplayScore = %v, want 66.67", score.DisplayScore)
	}
	if !score.Passed {
		t.Error("66.67 should pass a threshold of 60")
	}
}

func TestAggregateAccumulated(t *testing.T) {
	svc := NewScoringService(60)
	evals := []Evaluation{
		{Graded: true, IsCorrect: true, PointsAwarded: 7, MaxPoints: 7},
		{Graded: true, IsCorrect: true, PointsAwarded: 3, MaxPoints: 3},
		{Graded: true, IsCorrect: false, MaxPoints: 5},
	}

	score := svc.Aggregate(evals, model.ScoringSettings{
		ScoringMode:      model.ScoringAccumulated,
		PassingThreshold: passAt(10),
	})

	if score.DisplayScore != 10 {
		t.Errorf("DisplayScore = %v, want 10", score.DisplayScore)
	}
	if !score.Passed {
		t.Error("10 points should pass a threshold of 10")
	}

	score = svc.Aggregate(evals, model.ScoringSettings{
		ScoringMode:      model.ScoringAccumulated,
		PassingThreshold: passAt(11),
	})
	if score.Passed {
		t.Error("10 points should fail a threshold of 11")
	}
}

func TestAggregateThresholdFallback(t *testing.T) {
	svc := NewScoringService(60)
	evals := []Evaluation{
		{Graded: true, IsCorrect: false, MaxPoints: 2},
	}

	// An explicit zero threshold is kept: even a zero score passes.
	score := svc.Aggregate(evals, model.ScoringSettings{
		ScoringMode:      model.ScoringPercentage,
		PassingThreshold: passAt(0),
	})
	if score.DisplayScore != 0 {
		t.Errorf("DisplayScore = %v, want 0", score.DisplayScore)
	}
	if !score.Passed {
		t.Error("explicit zero threshold should pass a zero score")
	}

	// An unset threshold falls back to the configured default.
	score = svc.Aggregate(evals, model.ScoringSettings{
		ScoringMode: model.ScoringPercentage,
	})
	if score.Passed {
		t.Error("zero score should fail the default threshold of 60")
	}
}

func TestQuizScoreEndToEnd(t *testing.T) {
	svc := NewScoringService(60)
	questions := []model.QuestionContent{
		choiceContent(`0`, 1, "Yes", "No"),
		choiceContent(`1`, 2, "Earth", "Mars", "Venus"),
	}
	settings := model.ScoringSettings{
		ScoringMode:      model.ScoringPercentage,
		PassingThreshold: passAt(60),
	}

	grade := func(answers ...string) model.Score {
		evals := make([]Evaluation, len(questions))
		for i, q := range questions {
			evals[i] = svc.Evaluate(i, q, json.RawMessage(answers[i]), model.CustomScoringRules{})
		}
		return svc.Aggregate(evals, settings)
	}

	score := grade(`"Yes"`, `"Mars"`)
	if score.TotalPoints != 3 || score.MaxPossiblePoints != 3 {
		t.Errorf("totals = %d/%d, want 3/3", score.TotalPoints, score.MaxPossiblePoints)
	}
	if score.DisplayScore != 100 || !score.Passed {
		t.Errorf("perfect run: display=%v passed=%v, want 100/true", score.DisplayScore, score.Passed)
	}

	score = grade(`"Yes"`, `"Venus"`)
	if score.DisplayScore != 33.33 {
		t.Errorf("DisplayScore = %v, want 33.33", score.DisplayScore)
	}
	if score.Passed {
		t.Error("1/3 points should fail a threshold of 60")
	}
}

func TestAggregateAllUngraded(t *testing.T) {
	svc := NewScoringService(60)
	score := svc.Aggregate([]Evaluation{{}, {}}, model.ScoringSettings{
		ScoringMode:      model.ScoringPercentage,
		PassingThreshold: passAt(60),
	})

	if score.DisplayScore != 0 {
		t.Errorf("DisplayScore = %v, want 0 with empty denominator", score.DisplayScore)
	}
	if score.Passed {
		t.Error("all-ungraded response should not pass")
	}
}

func TestValidateAnswerShape(t *testing.T) {
	tests := []struct {
		name    string
		qtype   model.QuestionType
		raw     string
		wantErr bool
	}{
		{"single choice string", model.SingleChoice, `"A"`, false},
		{"single choice array", model.SingleChoice, `["A"]`, true},
		{"multiple choice array", model.MultipleChoice, `["A","B"]`, false},
		{"multiple choice string", model.MultipleChoice, `"A"`, true},
		{"short text string", model.ShortText, `"hello"`, false},
		{"short text number", model.ShortText, `42`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAnswerShape(tt.qtype, json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

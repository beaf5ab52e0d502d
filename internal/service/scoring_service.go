package service

import (
	"encoding/json"
	"math"

	"surveyhub_backend/internal/model"
	"surveyhub_backend/internal/util"
)

// Evaluation is the grading verdict for one presented question.
type Evaluation struct {
	QuestionIndex int  `json:"questionIndex"`
	IsCorrect     bool `json:"isCorrect"`
	PointsAwarded int  `json:"pointsAwarded"`
	MaxPoints     int  `json:"maxPoints"`
	Graded        bool `json:"graded"`
}

type ScoringService struct {
	DefaultPassingThreshold float64
}

func NewScoringService(defaultPassingThreshold float64) *ScoringService {
	return &ScoringService{DefaultPassingThreshold: defaultPassingThreshold}
}

// ValidateAnswerShape rejects answers whose JSON shape does not match the
// question type: strings for single choice and short text, string arrays
// for multiple choice.
func ValidateAnswerShape(t model.QuestionType, raw json.RawMessage) error {
	switch t {
	case model.SingleChoice, model.ShortText:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return util.ErrInvalidAnswerFormat
		}
	case model.MultipleChoice:
		var values []string
		if err := json.Unmarshal(raw, &values); err != nil {
			return util.ErrInvalidAnswerFormat
		}
	default:
		return util.ErrInvalidAnswerFormat
	}
	return nil
}

// Evaluate grades a single answer against the frozen question content.
// A question with no correct-answer definition is ungraded: it earns
// nothing and contributes nothing to the possible total.
func (s *ScoringService) Evaluate(index int, q model.QuestionContent, raw json.RawMessage, rules model.CustomScoringRules) Evaluation {
	ev := Evaluation{QuestionIndex: index}

	if !q.HasCorrectAnswer() {
		return ev
	}

	maxPoints := q.Points
	if maxPoints <= 0 {
		maxPoints = 1
		if rules.UseCustomPoints && rules.DefaultQuestionPoints > 0 {
			maxPoints = rules.DefaultQuestionPoints
		}
	}

	var correct bool
	switch q.Type {
	case model.SingleChoice:
		want, ok := q.CorrectIndex()
		if !ok {
			return ev
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			break
		}
		correct = q.OptionIndex(value) == want

	case model.MultipleChoice:
		want, ok := q.CorrectIndexSet()
		if !ok {
			return ev
		}
		var values []string
		if err := json.Unmarshal(raw, &values); err != nil {
			break
		}
		// Exact set match. No partial credit for subsets, any wrong pick
		// fails the whole question.
		got := make(map[int]bool, len(values))
		for _, v := range values {
			idx := q.OptionIndex(v)
			if idx < 0 {
				got = nil
				break
			}
			got[idx] = true
		}
		if got != nil && len(got) == len(want) {
			correct = true
			for idx := range want {
				if !got[idx] {
					correct = false
					break
				}
			}
		}

	case model.ShortText:
		want, ok := q.CorrectText()
		if !ok {
			return ev
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			break
		}
		// Exact, case-sensitive. Fuzzy matching is an authoring concern,
		// not a grading one.
		correct = value == want

	default:
		return ev
	}

	ev.Graded = true
	ev.MaxPoints = maxPoints
	ev.IsCorrect = correct
	if correct {
		ev.PointsAwarded = maxPoints
	}
	return ev
}

// Aggregate folds per-question evaluations into the response score.
// Ungraded questions are excluded from both sides of the ratio.
func (s *ScoringService) Aggregate(evals []Evaluation, settings model.ScoringSettings) model.Score {
	score := model.Score{ScoringMode: settings.ScoringMode}
	if score.ScoringMode == "" {
		score.ScoringMode = model.ScoringPercentage
	}

	for _, ev := range evals {
		if !ev.Graded {
			continue
		}
		score.TotalPoints += ev.PointsAwarded
		score.MaxPossiblePoints += ev.MaxPoints
		if ev.IsCorrect {
			score.CorrectAnswers++
		} else {
			score.WrongAnswers++
		}
	}

	// Only an absent threshold falls back to the default. An explicit
	// zero is a real threshold that every respondent clears.
	threshold := s.DefaultPassingThreshold
	if settings.PassingThreshold != nil {
		threshold = *settings.PassingThreshold
	}

	switch score.ScoringMode {
	case model.ScoringAccumulated:
		score.DisplayScore = float64(score.TotalPoints)
		score.Passed = float64(score.TotalPoints) >= threshold
	default:
		if score.MaxPossiblePoints > 0 {
			pct := float64(score.TotalPoints) / float64(score.MaxPossiblePoints) * 100
			score.DisplayScore = math.Round(pct*100) / 100
		}
		score.Passed = score.DisplayScore >= threshold
	}
	return score
}

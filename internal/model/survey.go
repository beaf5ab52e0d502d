package model

import "database/sql/driver"

type SurveyType string

const (
	TypeSurvey     SurveyType = "survey"
	TypeAssessment SurveyType = "assessment"
	TypeQuiz       SurveyType = "quiz"
	TypeIQ         SurveyType = "iq"
)

// RequiresAnswers reports whether responses to this survey type are graded.
// Plain feedback surveys never invoke the scoring pipeline.
func (t SurveyType) RequiresAnswers() bool {
	return t == TypeAssessment || t == TypeQuiz || t == TypeIQ
}

type SurveyStatus string

const (
	StatusDraft  SurveyStatus = "draft"
	StatusActive SurveyStatus = "active"
	StatusClosed SurveyStatus = "closed"
)

type SourceType string

const (
	SourceManual            SourceType = "manual"
	SourceQuestionBank      SourceType = "question_bank"
	SourceMultiQuestionBank SourceType = "multi_question_bank"
	SourceManualSelection   SourceType = "manual_selection"
)

type ScoringMode string

const (
	ScoringPercentage  ScoringMode = "percentage"
	ScoringAccumulated ScoringMode = "accumulated"
)

// BankFilter narrows a bank to a matching subset before sampling. Tags use
// OR semantics, difficulty is an exact match, question types set membership.
type BankFilter struct {
	Tags          []string       `json:"tags,omitempty"`
	Difficulty    Difficulty     `json:"difficulty,omitempty"`
	QuestionTypes []QuestionType `json:"questionTypes,omitempty"`
}

func (f *BankFilter) Matches(q *Question) bool {
	if f == nil {
		return true
	}
	if len(f.Tags) > 0 {
		found := false
		for _, tag := range f.Tags {
			if q.Tags.Contains(tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Difficulty != "" && q.Difficulty != f.Difficulty {
		return false
	}
	if len(f.QuestionTypes) > 0 {
		found := false
		for _, t := range f.QuestionTypes {
			if q.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// BankSelector is one entry of a multi-bank sourcing configuration.
type BankSelector struct {
	QuestionBankID string      `json:"questionBankId"`
	QuestionCount  int         `json:"questionCount"`
	Filters        *BankFilter `json:"filters,omitempty"`
}

type BankSelectorList []BankSelector

func (l BankSelectorList) Value() (driver.Value, error) { return jsonValue([]BankSelector(l)) }
func (l *BankSelectorList) Scan(src interface{}) error  { return jsonScan(l, src) }

// QuestionRef points at one hand-picked bank question.
type QuestionRef struct {
	QuestionBankID string `json:"questionBankId"`
	QuestionID     string `json:"questionId"`
}

type QuestionRefList []QuestionRef

func (l QuestionRefList) Value() (driver.Value, error) { return jsonValue([]QuestionRef(l)) }
func (l *QuestionRefList) Scan(src interface{}) error  { return jsonScan(l, src) }

type CustomScoringRules struct {
	UseCustomPoints       bool `json:"useCustomPoints"`
	DefaultQuestionPoints int  `json:"defaultQuestionPoints"`
}

type ScoringSettings struct {
	ScoringMode ScoringMode `json:"scoringMode"`
	// nil means "use the configured default". An explicit zero is a
	// valid threshold that every respondent passes.
	PassingThreshold   *float64           `json:"passingThreshold,omitempty"`
	ShowScore          bool               `json:"showScore"`
	ShowCorrectAnswers bool               `json:"showCorrectAnswers"`
	ShowScoreBreakdown bool               `json:"showScoreBreakdown"`
	CustomScoringRules CustomScoringRules `json:"customScoringRules"`
}

func (s ScoringSettings) Value() (driver.Value, error) { return jsonValue(s) }
func (s *ScoringSettings) Scan(src interface{}) error  { return jsonScan(s, src) }

// swagger:model Survey
type Survey struct {
	UUIDBase
	Title        string       `gorm:"size:255;not null" json:"title"`
	Description  string       `gorm:"type:text" json:"description,omitempty"`
	Slug         string       `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Type         SurveyType   `gorm:"size:20;default:'survey'" json:"type"`
	Status       SurveyStatus `gorm:"size:20;default:'draft'" json:"status"`
	Instructions string       `gorm:"type:text" json:"instructions,omitempty"`
	// step-by-step, paginated or all-in-one; presentation hint only.
	NavigationMode string `gorm:"size:20;default:'step-by-step'" json:"navigationMode"`

	// Exactly one sourcing configuration is meaningful, selected by SourceType.
	SourceType        SourceType       `gorm:"size:30;default:'manual'" json:"sourceType"`
	Questions         []Question       `gorm:"foreignKey:SurveyID" json:"questions,omitempty"`
	QuestionBankID    *string          `gorm:"type:varchar(36)" json:"questionBankId,omitempty"`
	QuestionCount     int              `gorm:"default:0" json:"questionCount,omitempty"`
	MultiBankConfig   BankSelectorList `gorm:"type:json" json:"multiQuestionBankConfig,omitempty"`
	SelectedQuestions QuestionRefList  `gorm:"type:json" json:"selectedQuestions,omitempty"`

	ScoringSettings *ScoringSettings `gorm:"type:json" json:"scoringSettings,omitempty"`
	TimeLimit       int              `gorm:"default:0" json:"timeLimit"` // Minutes
	MaxAttempts     int              `gorm:"default:0" json:"maxAttempts"`
	CreatedBy       string           `gorm:"index;type:varchar(36)" json:"createdBy,omitempty"`
}

func (Survey) TableName() string {
	return "surveys"
}

// EffectiveScoring returns the survey's scoring settings with defaults filled.
func (s *Survey) EffectiveScoring(defaultThreshold float64) ScoringSettings {
	settings := ScoringSettings{ScoringMode: ScoringPercentage}
	if s.ScoringSettings != nil {
		settings = *s.ScoringSettings
		if settings.ScoringMode == "" {
			settings.ScoringMode = ScoringPercentage
		}
	}
	if settings.PassingThreshold == nil {
		settings.PassingThreshold = &defaultThreshold
	}
	return settings
}

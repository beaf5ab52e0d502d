package model

import (
	"database/sql/driver"
	"encoding/json"
	"strconv"
	"strings"
)

type QuestionType string

const (
	SingleChoice   QuestionType = "single_choice"
	MultipleChoice QuestionType = "multiple_choice"
	ShortText      QuestionType = "short_text"
)

func (t QuestionType) Valid() bool {
	return t == SingleChoice || t == MultipleChoice || t == ShortText
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Option is one answer choice. Text and/or image, at least one populated.
type Option struct {
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// UnmarshalJSON accepts both the legacy plain-string form and the object form.
func (o *Option) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		o.Text = s
		o.ImageURL = ""
		return nil
	}
	type plain Option
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*o = Option(p)
	return nil
}

func (o Option) Empty() bool {
	return o.Text == "" && o.ImageURL == ""
}

type OptionList []Option

func (l OptionList) Value() (driver.Value, error) { return jsonValue([]Option(l)) }
func (l *OptionList) Scan(src interface{}) error  { return jsonScan(l, src) }

// Question lives either in a question bank (BankID set) or directly on a
// manually-authored survey (SurveyID set). Order preserves authored order.
type Question struct {
	UUIDBase
	BankID           *string         `gorm:"index;type:varchar(36)" json:"bankId,omitempty"`
	SurveyID         *string         `gorm:"index;type:varchar(36)" json:"surveyId,omitempty"`
	Text             string          `gorm:"type:text;not null" json:"text"`
	Description      string          `gorm:"type:text" json:"description,omitempty"`
	DescriptionImage string          `gorm:"size:512" json:"descriptionImage,omitempty"`
	Type             QuestionType    `gorm:"size:50;default:'single_choice'" json:"type"`
	Options          OptionList      `gorm:"type:json" json:"options,omitempty"`
	CorrectAnswer    json.RawMessage `gorm:"type:json" json:"correctAnswer,omitempty"`
	Explanation      string          `gorm:"type:text" json:"explanation,omitempty"`
	Points           int             `gorm:"default:1" json:"points"`
	Tags             StringList      `gorm:"type:json" json:"tags,omitempty"`
	Difficulty       Difficulty      `gorm:"size:20;default:'medium'" json:"difficulty"`
	Order            int             `gorm:"default:0" json:"order"`
}

func (Question) TableName() string {
	return "questions"
}

// Content returns the immutable copy embedded into response snapshots.
func (q *Question) Content() QuestionContent {
	return QuestionContent{
		Text:          q.Text,
		Type:          q.Type,
		Options:       q.Options,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		Points:        q.Points,
		Tags:          append([]string(nil), q.Tags...),
		Difficulty:    q.Difficulty,
	}
}

// QuestionContent is the frozen question payload stored inside a response
// snapshot, so later edits to the bank never alter historical scoring.
type QuestionContent struct {
	Text          string          `json:"text"`
	Type          QuestionType    `json:"type"`
	Options       OptionList      `json:"options,omitempty"`
	CorrectAnswer json.RawMessage `json:"correctAnswer,omitempty"`
	Explanation   string          `json:"explanation,omitempty"`
	Points        int             `json:"points"`
	Tags          []string        `json:"tags,omitempty"`
	Difficulty    Difficulty      `json:"difficulty,omitempty"`
}

func (c QuestionContent) Value() (driver.Value, error) { return jsonValue(c) }
func (c *QuestionContent) Scan(src interface{}) error  { return jsonScan(c, src) }

// HasCorrectAnswer reports whether a correct-answer definition exists.
// Questions without one are ungraded and excluded from score denominators.
func (c QuestionContent) HasCorrectAnswer() bool {
	trimmed := strings.TrimSpace(string(c.CorrectAnswer))
	return trimmed != "" && trimmed != "null"
}

// CorrectIndex decodes the correct answer of a single_choice question.
func (c QuestionContent) CorrectIndex() (int, bool) {
	if !c.HasCorrectAnswer() {
		return 0, false
	}
	var idx int
	if err := json.Unmarshal(c.CorrectAnswer, &idx); err != nil {
		return 0, false
	}
	return idx, true
}

// CorrectIndexSet decodes the correct answer of a multiple_choice question.
func (c QuestionContent) CorrectIndexSet() (map[int]bool, bool) {
	if !c.HasCorrectAnswer() {
		return nil, false
	}
	var idxs []int
	if err := json.Unmarshal(c.CorrectAnswer, &idxs); err != nil {
		return nil, false
	}
	set := make(map[int]bool, len(idxs))
	for _, i := range idxs {
		set[i] = true
	}
	return set, true
}

// CorrectText decodes the expected answer of a short_text question.
func (c QuestionContent) CorrectText() (string, bool) {
	if !c.HasCorrectAnswer() {
		return "", false
	}
	var s string
	if err := json.Unmarshal(c.CorrectAnswer, &s); err != nil {
		return "", false
	}
	return s, true
}

// OptionIndex resolves a submitted option value to its index. Respondents may
// submit either the option text or the stringified index.
func (c QuestionContent) OptionIndex(value string) int {
	for i, opt := range c.Options {
		if opt.Text != "" && opt.Text == value {
			return i
		}
	}
	if idx, err := strconv.Atoi(value); err == nil && idx >= 0 && idx < len(c.Options) {
		return idx
	}
	return -1
}

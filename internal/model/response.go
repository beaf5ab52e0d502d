package model

import (
	"database/sql/driver"
	"encoding/json"
)

// RawAnswerList keeps the respondent's submitted answers verbatim, positional
// by question. Entries are JSON strings for single choice and short text,
// JSON string arrays for multiple choice.
type RawAnswerList []json.RawMessage

func (l RawAnswerList) Value() (driver.Value, error) { return jsonValue([]json.RawMessage(l)) }
func (l *RawAnswerList) Scan(src interface{}) error  { return jsonScan(l, src) }

type ResponseMeta struct {
	UserAgent  string `json:"userAgent,omitempty"`
	IPAddress  string `json:"ipAddress,omitempty"`
	DeviceType string `json:"deviceType,omitempty"`
}

func (m ResponseMeta) Value() (driver.Value, error) { return jsonValue(m) }
func (m *ResponseMeta) Scan(src interface{}) error  { return jsonScan(m, src) }

// Score is the aggregated grading result embedded on a response.
type Score struct {
	TotalPoints       int         `json:"totalPoints"`
	MaxPossiblePoints int         `json:"maxPossiblePoints"`
	CorrectAnswers    int         `json:"correctAnswers"`
	WrongAnswers      int         `json:"wrongAnswers"`
	ScoringMode       ScoringMode `json:"scoringMode,omitempty"`
	DisplayScore      float64     `json:"displayScore"`
	Passed            bool        `json:"passed"`
}

// Response is one completed take-attempt. Created once, never updated.
type Response struct {
	UUIDBase
	Name         string             `gorm:"size:255;not null" json:"name"`
	Email        string             `gorm:"size:255;index;not null" json:"email"`
	SurveyID     string             `gorm:"index;type:varchar(36);not null" json:"surveyId"`
	InvitationID *string            `gorm:"index;type:varchar(36)" json:"invitationId,omitempty"`
	Answers      RawAnswerList      `gorm:"type:json" json:"answers"`
	Snapshots    []QuestionSnapshot `gorm:"foreignKey:ResponseID" json:"questionSnapshots,omitempty"`
	Score        Score              `gorm:"embedded;embeddedPrefix:score_" json:"score"`
	TimeSpent    int                `gorm:"default:0" json:"timeSpent"` // Seconds
	IsAutoSubmit bool               `gorm:"default:false" json:"isAutoSubmit"`
	Metadata     ResponseMeta       `gorm:"type:json" json:"metadata,omitempty"`
}

func (Response) TableName() string {
	return "responses"
}

// QuestionSnapshot freezes one presented question together with the raw
// answer and its evaluation, insulating stored scores from later bank edits.
type QuestionSnapshot struct {
	UUIDBase
	ResponseID    string          `gorm:"index;type:varchar(36);not null" json:"responseId"`
	QuestionID    string          `gorm:"type:varchar(36)" json:"questionId,omitempty"`
	QuestionIndex int             `gorm:"default:0" json:"questionIndex"`
	QuestionData  QuestionContent `gorm:"type:json" json:"questionData"`
	UserAnswer    json.RawMessage `gorm:"type:json" json:"userAnswer,omitempty"`
	IsCorrect     bool            `gorm:"default:false" json:"isCorrect"`
	PointsAwarded int             `gorm:"default:0" json:"pointsAwarded"`
	MaxPoints     int             `gorm:"default:0" json:"maxPoints"`
	Graded        bool            `gorm:"default:false" json:"graded"`
}

func (QuestionSnapshot) TableName() string {
	return "question_snapshots"
}

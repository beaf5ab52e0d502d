package model

// QuestionBank is a named, reusable pool of questions shared across surveys.
type QuestionBank struct {
	UUIDBase
	Name        string     `gorm:"size:255;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Questions   []Question `gorm:"foreignKey:BankID" json:"questions,omitempty"`
	CreatedBy   string     `gorm:"index;type:varchar(36)" json:"createdBy"`
}

func (QuestionBank) TableName() string {
	return "question_banks"
}

func (b *QuestionBank) QuestionByID(id string) *Question {
	for i := range b.Questions {
		if b.Questions[i].ID == id {
			return &b.Questions[i]
		}
	}
	return nil
}

package model

type UserRole string

const (
	Admin UserRole = "admin"
	User  UserRole = "user"
)

// UserAccount is an authoring/admin identity. Respondents are anonymous and
// identified only by the name/email they submit with a response.
type UserAccount struct {
	UUIDBase
	Name     string   `gorm:"size:255;not null" json:"name"`
	Email    string   `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password string   `gorm:"size:255;not null" json:"-"`
	Role     UserRole `gorm:"size:20;default:'admin'" json:"role"`
	Company  string   `gorm:"size:255" json:"companyName,omitempty"`
}

func (UserAccount) TableName() string {
	return "user_accounts"
}

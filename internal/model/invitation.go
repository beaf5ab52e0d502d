package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

type DistributionMode string

const (
	DistributionOpen     DistributionMode = "open"
	DistributionTargeted DistributionMode = "targeted"
	DistributionLink     DistributionMode = "link"
)

func (m DistributionMode) Valid() bool {
	return m == DistributionOpen || m == DistributionTargeted || m == DistributionLink
}

// Invitation gates controlled-distribution access to a survey. The access log
// and completion list live in append-only child tables; CurrentResponses is
// only ever advanced through the repository's conditional increment.
type Invitation struct {
	UUIDBase
	SurveyID          string           `gorm:"index;type:varchar(36);not null" json:"surveyId"`
	InvitationCode    string           `gorm:"size:64;uniqueIndex;not null" json:"invitationCode"`
	DistributionMode  DistributionMode `gorm:"size:20;not null" json:"distributionMode"`
	TargetUserIDs     StringList       `gorm:"type:json" json:"targetUsers,omitempty"`
	TargetEmails      StringList       `gorm:"type:json" json:"targetEmails,omitempty"`
	MaxResponses      *int             `json:"maxResponses,omitempty"` // nil means unlimited
	CurrentResponses  int              `gorm:"default:0" json:"currentResponses"`
	ExpiresAt         *time.Time       `gorm:"index" json:"expiresAt,omitempty"` // nil means never
	PreventDuplicates bool             `gorm:"default:false" json:"preventDuplicates"`
	IsActive          bool             `gorm:"default:true" json:"isActive"`
	CreatedBy         string           `gorm:"type:varchar(36)" json:"createdBy,omitempty"`
}

func (Invitation) TableName() string {
	return "invitations"
}

// NewInvitationCode returns a 32-hex-char code from a CSPRNG.
func NewInvitationCode() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return GenerateUUID()
	}
	return hex.EncodeToString(buf)
}

func (i *Invitation) IsExpired(now time.Time) bool {
	return i.ExpiresAt != nil && i.ExpiresAt.Before(now)
}

func (i *Invitation) IsExhausted() bool {
	return i.MaxResponses != nil && i.CurrentResponses >= *i.MaxResponses
}

// CanAccess checks the distribution policy only; expiry and exhaustion are
// judged separately so denials carry distinct codes.
func (i *Invitation) CanAccess(userID, email string) bool {
	switch i.DistributionMode {
	case DistributionOpen, DistributionLink:
		return true
	case DistributionTargeted:
		if userID != "" && i.TargetUserIDs.Contains(userID) {
			return true
		}
		if email != "" && i.TargetEmails.Contains(email) {
			return true
		}
		return false
	default:
		return false
	}
}

// InvitationAccess is one append-only audit row; written for allowed and
// denied attempts alike.
type InvitationAccess struct {
	UUIDBase
	InvitationID string    `gorm:"index;type:varchar(36);not null" json:"invitationId"`
	UserID       string    `gorm:"type:varchar(36)" json:"userId,omitempty"`
	Email        string    `gorm:"size:255" json:"email,omitempty"`
	IPAddress    string    `gorm:"size:64" json:"ipAddress,omitempty"`
	Allowed      bool      `json:"allowed"`
	AccessedAt   time.Time `json:"accessedAt"`
}

func (InvitationAccess) TableName() string {
	return "invitation_accesses"
}

// InvitationCompletion records one consumed response slot.
type InvitationCompletion struct {
	UUIDBase
	InvitationID string    `gorm:"index;type:varchar(36);not null" json:"invitationId"`
	UserID       string    `gorm:"type:varchar(36)" json:"userId,omitempty"`
	Email        string    `gorm:"size:255" json:"email,omitempty"`
	CompletedAt  time.Time `json:"completedAt"`
}

func (InvitationCompletion) TableName() string {
	return "invitation_completions"
}

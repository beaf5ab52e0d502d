package repository

import (
	"time"

	"surveyhub_backend/internal/model"
	"surveyhub_backend/internal/util"

	"gorm.io/gorm"
)

type InvitationRepository struct {
	DB *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{DB: db}
}

func (r *InvitationRepository) Create(inv *model.Invitation) error {
	return r.DB.Create(inv).Error
}

func (r *InvitationRepository) FindByID(id string) (*model.Invitation, error) {
	var inv model.Invitation
	err := r.DB.First(&inv, "id = ?", id).Error
	return &inv, err
}

func (r *InvitationRepository) FindByCode(code string) (*model.Invitation, error) {
	var inv model.Invitation
	err := r.DB.First(&inv, "invitation_code = ?", code).Error
	return &inv, err
}

func (r *InvitationRepository) Update(inv *model.Invitation) error {
	return r.DB.Save(inv).Error
}

func (r *InvitationRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invitation_id = ?", id).Delete(&model.InvitationAccess{}).Error; err != nil {
			return err
		}
		if err := tx.Where("invitation_id = ?", id).Delete(&model.InvitationCompletion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Invitation{}, "id = ?", id).Error
	})
}

func (r *InvitationRepository) ListBySurvey(surveyID string) ([]model.Invitation, error) {
	var invs []model.Invitation
	err := r.DB.Where("survey_id = ?", surveyID).Order("created_at desc").Find(&invs).Error
	return invs, err
}

// LogAccess appends to the audit trail. Every access attempt is recorded,
// allowed or denied.
func (r *InvitationRepository) LogAccess(access *model.InvitationAccess) error {
	return r.DB.Create(access).Error
}

func (r *InvitationRepository) HasCompleted(invitationID, userID, email string) (bool, error) {
	var count int64
	query := r.DB.Model(&model.InvitationCompletion{}).Where("invitation_id = ?", invitationID)
	switch {
	case userID != "" && email != "":
		query = query.Where("user_id = ? OR email = ?", userID, email)
	case userID != "":
		query = query.Where("user_id = ?", userID)
	case email != "":
		query = query.Where("email = ?", email)
	default:
		return false, nil
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// CompleteOne claims one response slot and records the completion in a
// single transaction. The conditional UPDATE is what makes concurrent
// submissions safe: only as many rows are affected as there are free
// slots, so the last slot goes to exactly one caller.
func (r *InvitationRepository) CompleteOne(invitationID, userID, email string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Invitation{}).
			Where("id = ? AND (max_responses IS NULL OR current_responses < max_responses)", invitationID).
			Update("current_responses", gorm.Expr("current_responses + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return util.ErrInvitationExhausted
		}

		completion := &model.InvitationCompletion{
			InvitationID: invitationID,
			UserID:       userID,
			Email:        email,
			CompletedAt:  time.Now(),
		}
		return tx.Create(completion).Error
	})
}

type InvitationStats struct {
	InvitationID      string     `json:"invitationId"`
	TotalAccesses     int64      `json:"totalAccesses"`
	AllowedCount      int64      `json:"allowedCount"`
	DeniedCount       int64      `json:"deniedCount"`
	Completions       int64      `json:"completions"`
	CompletionRate    float64    `json:"completionRate"`
	UniqueRespondents int64      `json:"uniqueRespondents"`
	LastAccessAt      *time.Time `json:"lastAccessAt,omitempty"`
}

func (r *InvitationRepository) Statistics(invitationID string) (*InvitationStats, error) {
	stats := &InvitationStats{InvitationID: invitationID}

	if err := r.DB.Model(&model.InvitationAccess{}).
		Where("invitation_id = ?", invitationID).
		Count(&stats.TotalAccesses).Error; err != nil {
		return nil, err
	}
	if err := r.DB.Model(&model.InvitationAccess{}).
		Where("invitation_id = ? AND allowed = ?", invitationID, true).
		Count(&stats.AllowedCount).Error; err != nil {
		return nil, err
	}
	stats.DeniedCount = stats.TotalAccesses - stats.AllowedCount

	if err := r.DB.Model(&model.InvitationCompletion{}).
		Where("invitation_id = ?", invitationID).
		Count(&stats.Completions).Error; err != nil {
		return nil, err
	}
	if stats.AllowedCount > 0 {
		stats.CompletionRate = float64(stats.Completions) / float64(stats.AllowedCount)
	}

	if err := r.DB.Model(&model.InvitationAccess{}).
		Where("invitation_id = ? AND email <> ''", invitationID).
		Distinct("email").
		Count(&stats.UniqueRespondents).Error; err != nil {
		return nil, err
	}

	var last model.InvitationAccess
	err := r.DB.Where("invitation_id = ?", invitationID).
		Order("accessed_at desc").First(&last).Error
	if err == nil {
		stats.LastAccessAt = &last.AccessedAt
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	return stats, nil
}

func (r *InvitationRepository) ListAccesses(invitationID string, page, limit int) ([]model.InvitationAccess, int64, error) {
	var total int64
	query := r.DB.Model(&model.InvitationAccess{}).Where("invitation_id = ?", invitationID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var accesses []model.InvitationAccess
	offset := (page - 1) * limit
	err := r.DB.Where("invitation_id = ?", invitationID).
		Order("accessed_at desc").Offset(offset).Limit(limit).Find(&accesses).Error
	return accesses, total, err
}

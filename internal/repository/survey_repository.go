package repository

import (
	"surveyhub_backend/internal/model"

	"gorm.io/gorm"
)

type SurveyRepository struct {
	DB *gorm.DB
}

func NewSurveyRepository(db *gorm.DB) *SurveyRepository {
	return &SurveyRepository{DB: db}
}

func (r *SurveyRepository) Create(survey *model.Survey) error {
	return r.DB.Create(survey).Error
}

func (r *SurveyRepository) FindByID(id string) (*model.Survey, error) {
	var survey model.Survey
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("`order` asc, created_at asc")
	}).First(&survey, "id = ?", id).Error
	return &survey, err
}

func (r *SurveyRepository) FindBySlug(slug string) (*model.Survey, error) {
	var survey model.Survey
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("`order` asc, created_at asc")
	}).First(&survey, "slug = ?", slug).Error
	return &survey, err
}

func (r *SurveyRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Survey{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *SurveyRepository) Update(survey *model.Survey) error {
	return r.DB.Save(survey).Error
}

func (r *SurveyRepository) UpdateStatus(id string, status model.SurveyStatus) error {
	result := r.DB.Model(&model.Survey{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *SurveyRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("survey_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		var invitationIDs []string
		if err := tx.Model(&model.Invitation{}).Where("survey_id = ?", id).Pluck("id", &invitationIDs).Error; err == nil && len(invitationIDs) > 0 {
			if err := tx.Where("invitation_id IN ?", invitationIDs).Delete(&model.InvitationAccess{}).Error; err != nil {
				return err
			}
			if err := tx.Where("invitation_id IN ?", invitationIDs).Delete(&model.InvitationCompletion{}).Error; err != nil {
				return err
			}
			if err := tx.Where("survey_id = ?", id).Delete(&model.Invitation{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Survey{}, "id = ?", id).Error
	})
}

type SurveyListRow struct {
	model.Survey
	ResponseCount int `json:"responseCount"`
}

func (r *SurveyRepository) List(page, limit int, surveyType, status string) ([]SurveyListRow, int64, error) {
	var total int64
	countQuery := r.DB.Model(&model.Survey{}).Where("deleted_at IS NULL")
	if surveyType != "" {
		countQuery = countQuery.Where("type = ?", surveyType)
	}
	if status != "" {
		countQuery = countQuery.Where("status = ?", status)
	}
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	dbQuery := r.DB.Table("surveys s").
		Select("s.*, " +
			"(SELECT COUNT(*) FROM responses r WHERE r.survey_id = s.id AND r.deleted_at IS NULL) as response_count").
		Where("s.deleted_at IS NULL")
	if surveyType != "" {
		dbQuery = dbQuery.Where("s.type = ?", surveyType)
	}
	if status != "" {
		dbQuery = dbQuery.Where("s.status = ?", status)
	}
	if limit > 0 {
		offset := (page - 1) * limit
		dbQuery = dbQuery.Offset(offset).Limit(limit)
	}

	var rows []SurveyListRow
	err := dbQuery.Order("s.created_at desc").Scan(&rows).Error
	return rows, total, err
}

// ReplaceQuestions swaps a manual survey's inline question set inside one
// transaction so a failed update never leaves a half-written set.
func (r *SurveyRepository) ReplaceQuestions(surveyID string, questions []model.Question) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("survey_id = ?", surveyID).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].SurveyID = &surveyID
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

package repository

import (
	"surveyhub_backend/internal/model"

	"gorm.io/gorm"
)

type ResponseRepository struct {
	DB *gorm.DB
}

func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{DB: db}
}

// CreateWithSnapshots persists the response and its frozen question
// snapshots atomically. Snapshots carry the question content as graded,
// so later edits to the bank never change a recorded result.
func (r *ResponseRepository) CreateWithSnapshots(response *model.Response, snapshots []model.QuestionSnapshot) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(response).Error; err != nil {
			return err
		}
		for i := range snapshots {
			snapshots[i].ResponseID = response.ID
			if err := tx.Create(&snapshots[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ResponseRepository) FindByID(id string) (*model.Response, error) {
	var response model.Response
	err := r.DB.Preload("Snapshots", func(db *gorm.DB) *gorm.DB {
		return db.Order("question_index asc")
	}).First(&response, "id = ?", id).Error
	return &response, err
}

func (r *ResponseRepository) CountBySurveyAndEmail(surveyID, email string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Response{}).
		Where("survey_id = ? AND email = ?", surveyID, email).
		Count(&count).Error
	return count, err
}

func (r *ResponseRepository) ListBySurvey(surveyID string, page, limit int) ([]model.Response, int64, error) {
	var total int64
	if err := r.DB.Model(&model.Response{}).Where("survey_id = ?", surveyID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var responses []model.Response
	offset := (page - 1) * limit
	err := r.DB.Where("survey_id = ?", surveyID).
		Order("created_at desc").Offset(offset).Limit(limit).Find(&responses).Error
	return responses, total, err
}

func (r *ResponseRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("response_id = ?", id).Delete(&model.QuestionSnapshot{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Response{}, "id = ?", id).Error
	})
}

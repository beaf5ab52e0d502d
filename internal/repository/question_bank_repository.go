package repository

import (
	"surveyhub_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionBankRepository struct {
	DB *gorm.DB
}

func NewQuestionBankRepository(db *gorm.DB) *QuestionBankRepository {
	return &QuestionBankRepository{DB: db}
}

func (r *QuestionBankRepository) Create(bank *model.QuestionBank) error {
	return r.DB.Create(bank).Error
}

func (r *QuestionBankRepository) FindByID(id string) (*model.QuestionBank, error) {
	var bank model.QuestionBank
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("`order` asc, created_at asc")
	}).First(&bank, "id = ?", id).Error
	return &bank, err
}

func (r *QuestionBankRepository) Update(bank *model.QuestionBank) error {
	return r.DB.Save(bank).Error
}

func (r *QuestionBankRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bank_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.QuestionBank{}, "id = ?", id).Error
	})
}

type QuestionBankListRow struct {
	model.QuestionBank
	QuestionCount int `json:"questionCount"`
}

func (r *QuestionBankRepository) List(page, limit int) ([]QuestionBankListRow, int64, error) {
	var total int64
	if err := r.DB.Model(&model.QuestionBank{}).Where("deleted_at IS NULL").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	dbQuery := r.DB.Table("question_banks b").
		Select("b.*, " +
			"(SELECT COUNT(*) FROM questions q WHERE q.bank_id = b.id AND q.deleted_at IS NULL) as question_count").
		Where("b.deleted_at IS NULL")
	if limit > 0 {
		offset := (page - 1) * limit
		dbQuery = dbQuery.Offset(offset).Limit(limit)
	}

	var rows []QuestionBankListRow
	err := dbQuery.Order("b.created_at desc").Scan(&rows).Error
	return rows, total, err
}

func (r *QuestionBankRepository) CreateQuestion(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionBankRepository) CreateQuestions(questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.DB.Create(&questions).Error
}

func (r *QuestionBankRepository) FindQuestionByID(id string) (*model.Question, error) {
	var q model.Question
	err := r.DB.First(&q, "id = ?", id).Error
	return &q, err
}

func (r *QuestionBankRepository) UpdateQuestion(question *model.Question) error {
	return r.DB.Save(question).Error
}

func (r *QuestionBankRepository) DeleteQuestion(id string) error {
	return r.DB.Delete(&model.Question{}, "id = ?", id).Error
}

func (r *QuestionBankRepository) ListQuestions(bankID string) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Where("bank_id = ?", bankID).Order("`order` asc, created_at asc").Find(&qs).Error
	return qs, err
}

func (r *QuestionBankRepository) FindQuestionsByIDs(ids []string) ([]model.Question, error) {
	var qs []model.Question
	if len(ids) == 0 {
		return qs, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&qs).Error
	return qs, err
}

package repository

import (
	"surveyhub_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.UserAccount) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id string) (*model.UserAccount, error) {
	var user model.UserAccount
	err := r.DB.First(&user, "id = ?", id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.UserAccount, error) {
	var user model.UserAccount
	err := r.DB.First(&user, "email = ?", email).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.UserAccount) error {
	return r.DB.Save(user).Error
}

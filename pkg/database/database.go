package database

import (
	"fmt"
	"log"

	"surveyhub_backend/internal/config"
	"surveyhub_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.UserAccount{},
		&model.QuestionBank{},
		&model.Question{},
		&model.Survey{},
		&model.Invitation{},
		&model.InvitationAccess{},
		&model.InvitationCompletion{},
		&model.Response{},
		&model.QuestionSnapshot{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 初始管理员账号（首次启动时创建，密码必须在上线后修改）
	var count int64
	db.Model(&model.UserAccount{}).Count(&count)
	if count == 0 {
		hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err == nil {
			admin := &model.UserAccount{
				Name:     "Administrator",
				Email:    "admin@surveyhub.local",
				Password: string(hashed),
				Role:     model.Admin,
			}
			db.Create(admin)
			log.Println("Default admin account created: admin@surveyhub.local")
		}
	}

	return db, nil
}

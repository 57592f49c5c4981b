package database

import (
	"fmt"
	"log"

	"formation_quiz_backend/internal/config"
	"formation_quiz_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DBName)
	default:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
		dialector = mysql.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	if err := seedAdmin(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates every table the application uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.TraineeProfile{},
		&model.Questionnaire{},
		&model.Question{},
		&model.Answer{},
		&model.Parcours{},
		&model.UserAnswer{},
		&model.UserAnswerSelection{},
		&model.QuestionStats{},
		&model.TraineeStats{},
		&model.QuestionnaireStats{},
	)
}

// seedAdmin creates the bootstrap administrator on an empty users table so a
// fresh deployment can log in.
func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).Where("role = ?", model.Admin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &model.User{
		LastName:  "Admin",
		FirstName: "Default",
		Login:     "admin",
		Email:     "admin@formation.local",
		Password:  string(hashed),
		Role:      model.Admin,
		IsActive:  true,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	log.Println("Seeded default admin account (login: admin)")
	return nil
}

package repository

import (
	"time"

	"formation_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

// CreateTrainee inserts the user and its trainee profile atomically.
func (r *UserRepository) CreateTrainee(user *model.User, profile *model.TraineeProfile) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile.UserID = user.ID
		return tx.Create(profile).Error
	})
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByLogin(login string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("login = ?", login).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateLastLogin(userID uint) error {
	now := time.Now()
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_login", now).
		Error
}

func (r *UserRepository) FindProfileByID(profileID uint) (*model.TraineeProfile, error) {
	var profile model.TraineeProfile
	err := r.DB.Preload("User").First(&profile, profileID).Error
	return &profile, err
}

func (r *UserRepository) FindProfileByUserID(userID uint) (*model.TraineeProfile, error) {
	var profile model.TraineeProfile
	err := r.DB.Preload("User").Where("user_id = ?", userID).First(&profile).Error
	return &profile, err
}

func (r *UserRepository) UpdateProfile(profile *model.TraineeProfile) error {
	return r.DB.Save(profile).Error
}

// ListTrainees returns trainee profiles matching the optional search term,
// newest first.
func (r *UserRepository) ListTrainees(search string, page, limit int) ([]model.TraineeProfile, int64, error) {
	query := r.DB.Model(&model.TraineeProfile{}).
		Joins("JOIN users ON users.id = trainee_profiles.user_id").
		Where("users.role = ?", model.Trainee)

	if search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"users.last_name LIKE ? OR users.first_name LIKE ? OR users.email LIKE ? OR trainee_profiles.company LIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []model.TraineeProfile
	err := query.Preload("User").
		Order("trainee_profiles.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&profiles).Error
	return profiles, total, err
}

func (r *UserRepository) ListAllTraineeProfiles() ([]model.TraineeProfile, error) {
	var profiles []model.TraineeProfile
	err := r.DB.Preload("User").Find(&profiles).Error
	return profiles, err
}

// DeactivateUser soft-disables the account; history stays queryable.
func (r *UserRepository) DeactivateUser(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("is_active", false).
		Error
}

func (r *UserRepository) CountByRole(role model.UserRole) (int64, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

package service

import (
	"errors"
	"strings"

	"formation_quiz_backend/internal/model"
	"formation_quiz_backend/internal/repository"
	"formation_quiz_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

type CreateTraineeInput struct {
	LastName  string `json:"lastName" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	Login     string `json:"login" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Company   string `json:"company"`
}

// CreateTrainee registers a trainee account with its profile.
func (s *UserService) CreateTrainee(input CreateTraineeInput) (*model.TraineeProfile, error) {
	login := strings.TrimSpace(input.Login)
	email := strings.TrimSpace(strings.ToLower(input.Email))

	if _, err := s.UserRepo.FindByLogin(login); err == nil {
		return nil, util.ErrLoginRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.UserRepo.FindByEmail(email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		LastName:  strings.TrimSpace(input.LastName),
		FirstName: strings.TrimSpace(input.FirstName),
		Login:     login,
		Email:     email,
		Password:  string(hashed),
		Role:      model.Trainee,
		IsActive:  true,
	}
	profile := &model.TraineeProfile{
		Company: strings.TrimSpace(input.Company),
	}

	if err := s.UserRepo.CreateTrainee(user, profile); err != nil {
		return nil, err
	}

	profile.User = *user
	return profile, nil
}

func (s *UserService) GetTrainee(profileID uint) (*model.TraineeProfile, error) {
	profile, err := s.UserRepo.FindProfileByID(profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTraineeNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *UserService) GetTraineeByUserID(userID uint) (*model.TraineeProfile, error) {
	profile, err := s.UserRepo.FindProfileByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTraineeNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *UserService) ListTrainees(search string, page, limit int) ([]model.TraineeProfile, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.UserRepo.ListTrainees(search, page, limit)
}

type UpdateTraineeInput struct {
	LastName  string `json:"lastName"`
	FirstName string `json:"firstName"`
	Company   string `json:"company"`
	IsActive  *bool  `json:"isActive"`
}

func (s *UserService) UpdateTrainee(profileID uint, input UpdateTraineeInput) (*model.TraineeProfile, error) {
	profile, err := s.GetTrainee(profileID)
	if err != nil {
		return nil, err
	}

	if input.LastName != "" {
		profile.User.LastName = strings.TrimSpace(input.LastName)
	}
	if input.FirstName != "" {
		profile.User.FirstName = strings.TrimSpace(input.FirstName)
	}
	if input.IsActive != nil {
		profile.User.IsActive = *input.IsActive
	}
	profile.Company = strings.TrimSpace(input.Company)

	if err := s.UserRepo.Update(&profile.User); err != nil {
		return nil, err
	}
	if err := s.UserRepo.UpdateProfile(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

type UpdateOwnProfileInput struct {
	LastName  string `json:"lastName"`
	FirstName string `json:"firstName"`
	Email     string `json:"email"`
}

// UpdateOwnProfile lets any authenticated user change their own name and
// email. Login and role are fixed at creation.
func (s *UserService) UpdateOwnProfile(userID uint, input UpdateOwnProfileInput) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if input.Email != "" {
		email := strings.TrimSpace(strings.ToLower(input.Email))
		if existing, err := s.UserRepo.FindByEmail(email); err == nil && existing.ID != userID {
			return nil, util.ErrEmailRegistered
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = email
	}
	if input.LastName != "" {
		user.LastName = strings.TrimSpace(input.LastName)
	}
	if input.FirstName != "" {
		user.FirstName = strings.TrimSpace(input.FirstName)
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeactivateTrainee disables the account rather than deleting it, so
// statistics keep their history.
func (s *UserService) DeactivateTrainee(profileID uint) error {
	profile, err := s.GetTrainee(profileID)
	if err != nil {
		return err
	}
	return s.UserRepo.DeactivateUser(profile.UserID)
}

package repository

import (
	"formation_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type ParcoursRepository struct {
	DB *gorm.DB
}

func NewParcoursRepository(db *gorm.DB) *ParcoursRepository {
	return &ParcoursRepository{DB: db}
}

func (r *ParcoursRepository) Create(p *model.Parcours) error {
	return r.DB.Create(p).Error
}

func (r *ParcoursRepository) FindByID(id uint) (*model.Parcours, error) {
	var p model.Parcours
	err := r.DB.First(&p, id).Error
	return &p, err
}

// FindByIDFull loads everything the grading path touches: the questionnaire
// with questions and answers, and the recorded user answers with selections.
func (r *ParcoursRepository) FindByIDFull(id uint) (*model.Parcours, error) {
	var p model.Parcours
	err := r.DB.
		Preload("Questionnaire").
		Preload("Questionnaire.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id ASC")
		}).
		Preload("Questionnaire.Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.id ASC")
		}).
		Preload("UserAnswers", func(db *gorm.DB) *gorm.DB {
			return db.Order("user_answers.id ASC")
		}).
		Preload("UserAnswers.Selections").
		First(&p, id).Error
	return &p, err
}

// FindInProgress returns the trainee's open parcours on a questionnaire, if
// any.
func (r *ParcoursRepository) FindInProgress(traineeID, questionnaireID uint) (*model.Parcours, error) {
	var p model.Parcours
	err := r.DB.
		Where("trainee_id = ? AND questionnaire_id = ? AND status = ?",
			traineeID, questionnaireID, model.StatusInProgress).
		First(&p).Error
	return &p, err
}

func (r *ParcoursRepository) HasAnyForTrainee(traineeID, questionnaireID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Parcours{}).
		Where("trainee_id = ? AND questionnaire_id = ?", traineeID, questionnaireID).
		Count(&count).Error
	return count > 0, err
}

func (r *ParcoursRepository) ListByTrainee(traineeID uint) ([]model.Parcours, error) {
	var items []model.Parcours
	err := r.DB.Preload("Questionnaire").
		Where("trainee_id = ?", traineeID).
		Order("started_at DESC").
		Find(&items).Error
	return items, err
}

func (r *ParcoursRepository) ListCompletedByTrainee(traineeID uint) ([]model.Parcours, error) {
	var items []model.Parcours
	err := r.DB.Preload("Questionnaire").
		Where("trainee_id = ? AND status = ?", traineeID, model.StatusCompleted).
		Order("started_at DESC").
		Find(&items).Error
	return items, err
}

func (r *ParcoursRepository) ListByQuestionnaire(questionnaireID uint) ([]model.Parcours, error) {
	var items []model.Parcours
	err := r.DB.
		Where("questionnaire_id = ?", questionnaireID).
		Order("started_at DESC").
		Find(&items).Error
	return items, err
}

func (r *ParcoursRepository) ListAll() ([]model.Parcours, error) {
	var items []model.Parcours
	err := r.DB.Find(&items).Error
	return items, err
}

// SubmitAnswer records one user answer with its selections and the parcours'
// accumulated time in a single transaction.
func (r *ParcoursRepository) SubmitAnswer(answer *model.UserAnswer, selections []model.UserAnswerSelection, timeSpentSec int) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(answer).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Parcours{}).
			Where("id = ?", answer.ParcoursID).
			Update("time_spent_sec", timeSpentSec).Error; err != nil {
			return err
		}
		for i := range selections {
			selections[i].UserAnswerID = answer.ID
		}
		if len(selections) == 0 {
			return nil
		}
		return tx.Create(&selections).Error
	})
}

// Complete flips the parcours to TERMINE and persists the graded aggregates
// in a single transaction.
func (r *ParcoursRepository) Complete(p *model.Parcours, answerScores map[uint]float64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for answerID, score := range answerScores {
			s := score
			if err := tx.Model(&model.UserAnswer{}).
				Where("id = ?", answerID).
				Update("score", s).Error; err != nil {
				return err
			}
		}
		return tx.Model(&model.Parcours{}).
			Where("id = ?", p.ID).
			Updates(map[string]interface{}{
				"status":                model.StatusCompleted,
				"time_spent_sec":        p.TimeSpentSec,
				"score":                 p.Score,
				"grade_on20":            p.GradeOn20,
				"avg_time_per_question": p.AvgTimePerQuestion,
			}).Error
	})
}

// Abandon flips the parcours to ABANDONNE and clears any graded fields.
// Safe to call on an already abandoned parcours.
func (r *ParcoursRepository) Abandon(p *model.Parcours) error {
	return r.DB.Model(&model.Parcours{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"status":                model.StatusAbandoned,
			"time_spent_sec":        p.TimeSpentSec,
			"score":                 nil,
			"grade_on20":            nil,
			"avg_time_per_question": nil,
		}).Error
}

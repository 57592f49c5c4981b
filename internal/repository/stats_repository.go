package repository

import (
	"errors"

	"formation_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type StatsRepository struct {
	DB *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{DB: db}
}

// ListAnswersForQuestion returns every recorded answer to the question,
// across all parcours.
func (r *StatsRepository) ListAnswersForQuestion(questionID uint) ([]model.UserAnswer, error) {
	var answers []model.UserAnswer
	err := r.DB.Where("question_id = ?", questionID).Find(&answers).Error
	return answers, err
}

func (r *StatsRepository) UpsertQuestionStats(stats *model.QuestionStats) error {
	var existing model.QuestionStats
	err := r.DB.Where("question_id = ?", stats.QuestionID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.DB.Create(stats).Error
	}
	if err != nil {
		return err
	}
	stats.ID = existing.ID
	stats.CreatedAt = existing.CreatedAt
	return r.DB.Save(stats).Error
}

func (r *StatsRepository) UpsertTraineeStats(stats *model.TraineeStats) error {
	var existing model.TraineeStats
	err := r.DB.Where("trainee_id = ?", stats.TraineeID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.DB.Create(stats).Error
	}
	if err != nil {
		return err
	}
	stats.ID = existing.ID
	stats.CreatedAt = existing.CreatedAt
	return r.DB.Save(stats).Error
}

func (r *StatsRepository) UpsertQuestionnaireStats(stats *model.QuestionnaireStats) error {
	var existing model.QuestionnaireStats
	err := r.DB.Where("questionnaire_id = ?", stats.QuestionnaireID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.DB.Create(stats).Error
	}
	if err != nil {
		return err
	}
	stats.ID = existing.ID
	stats.CreatedAt = existing.CreatedAt
	return r.DB.Save(stats).Error
}

func (r *StatsRepository) FindQuestionStats(questionID uint) (*model.QuestionStats, error) {
	var stats model.QuestionStats
	err := r.DB.Where("question_id = ?", questionID).First(&stats).Error
	return &stats, err
}

func (r *StatsRepository) FindTraineeStats(traineeID uint) (*model.TraineeStats, error) {
	var stats model.TraineeStats
	err := r.DB.Where("trainee_id = ?", traineeID).First(&stats).Error
	return &stats, err
}

func (r *StatsRepository) FindQuestionnaireStats(questionnaireID uint) (*model.QuestionnaireStats, error) {
	var stats model.QuestionnaireStats
	err := r.DB.Where("questionnaire_id = ?", questionnaireID).First(&stats).Error
	return &stats, err
}

// ListQuestionStatsBelow returns question aggregates under a success-rate
// threshold, weakest first, joined with their prompts.
func (r *StatsRepository) ListQuestionStatsBelow(questionnaireID uint, threshold float64) ([]model.QuestionStats, error) {
	var stats []model.QuestionStats
	err := r.DB.
		Joins("JOIN questions ON questions.id = question_stats.question_id").
		Where("questions.questionnaire_id = ? AND question_stats.attempts > 0 AND question_stats.success_rate < ?",
			questionnaireID, threshold).
		Order("question_stats.success_rate ASC").
		Find(&stats).Error
	return stats, err
}

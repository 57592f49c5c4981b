package repository

import (
	"formation_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// Create inserts the question with its answers in one transaction.
func (r *QuestionRepository) Create(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.Preload("Answers", func(db *gorm.DB) *gorm.DB {
		return db.Order("answers.id ASC")
	}).First(&q, id).Error
	return &q, err
}

func (r *QuestionRepository) ListByQuestionnaire(questionnaireID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Preload("Answers", func(db *gorm.DB) *gorm.DB {
		return db.Order("answers.id ASC")
	}).
		Where("questionnaire_id = ?", questionnaireID).
		Order("id ASC").
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) ListAll() ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Preload("Answers").Order("id ASC").Find(&questions).Error
	return questions, err
}

// Update replaces the prompt and the full answer set. Old answers are
// removed first so ids never leak between revisions.
func (r *QuestionRepository) Update(q *model.Question, answers []model.Answer) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(q).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", q.ID).Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].ID = 0
			answers[i].QuestionID = q.ID
		}
		return tx.Create(&answers).Error
	})
}

func (r *QuestionRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Question{}, id).Error
	})
}

// CountAnswered reports how many user answers reference the question, which
// gates deletion.
func (r *QuestionRepository) CountAnswered(questionID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserAnswer{}).
		Where("question_id = ?", questionID).
		Count(&count).Error
	return count, err
}

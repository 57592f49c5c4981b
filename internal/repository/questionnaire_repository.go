package repository

import (
	"time"

	"formation_quiz_backend/internal/model"

	"gorm.io/gorm"
)

// QuestionnaireFilter narrows admin list queries. Zero values mean "no
// constraint"; pointer fields distinguish unset from zero.
type QuestionnaireFilter struct {
	Search           string
	DurationMin      *int
	DurationMax      *int
	QuestionsMin     *int
	QuestionsMax     *int
	HasParcours      *bool
	RecentlyUsedDays int
	Page             int
	Limit            int
}

type QuestionnaireRepository struct {
	DB *gorm.DB
}

func NewQuestionnaireRepository(db *gorm.DB) *QuestionnaireRepository {
	return &QuestionnaireRepository{DB: db}
}

func (r *QuestionnaireRepository) Create(q *model.Questionnaire) error {
	return r.DB.Create(q).Error
}

func (r *QuestionnaireRepository) FindByID(id uint) (*model.Questionnaire, error) {
	var q model.Questionnaire
	err := r.DB.First(&q, id).Error
	return &q, err
}

// FindByIDWithQuestions loads the questionnaire with its questions and
// answers, the shape the trainee flow and scoring need.
func (r *QuestionnaireRepository) FindByIDWithQuestions(id uint) (*model.Questionnaire, error) {
	var q model.Questionnaire
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id ASC")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.id ASC")
		}).
		First(&q, id).Error
	return &q, err
}

func (r *QuestionnaireRepository) FindByName(name string) (*model.Questionnaire, error) {
	var q model.Questionnaire
	err := r.DB.Where("name = ?", name).First(&q).Error
	return &q, err
}

func (r *QuestionnaireRepository) Update(q *model.Questionnaire) error {
	return r.DB.Save(q).Error
}

func (r *QuestionnaireRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Questionnaire{}, id).Error
}

// List applies the admin filters and paginates.
func (r *QuestionnaireRepository) List(f QuestionnaireFilter) ([]model.Questionnaire, int64, error) {
	query := r.DB.Model(&model.Questionnaire{})

	if f.Search != "" {
		like := "%" + f.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if f.DurationMin != nil {
		query = query.Where("duration_minutes >= ?", *f.DurationMin)
	}
	if f.DurationMax != nil {
		query = query.Where("duration_minutes <= ?", *f.DurationMax)
	}
	if f.QuestionsMin != nil {
		query = query.Where(
			"(SELECT COUNT(*) FROM questions WHERE questions.questionnaire_id = questionnaires.id AND questions.deleted_at IS NULL) >= ?",
			*f.QuestionsMin,
		)
	}
	if f.QuestionsMax != nil {
		query = query.Where(
			"(SELECT COUNT(*) FROM questions WHERE questions.questionnaire_id = questionnaires.id AND questions.deleted_at IS NULL) <= ?",
			*f.QuestionsMax,
		)
	}
	if f.HasParcours != nil {
		sub := "EXISTS (SELECT 1 FROM parcours WHERE parcours.questionnaire_id = questionnaires.id AND parcours.deleted_at IS NULL)"
		if *f.HasParcours {
			query = query.Where(sub)
		} else {
			query = query.Where("NOT " + sub)
		}
	}
	if f.RecentlyUsedDays > 0 {
		since := time.Now().AddDate(0, 0, -f.RecentlyUsedDays)
		query = query.Where(
			"EXISTS (SELECT 1 FROM parcours WHERE parcours.questionnaire_id = questionnaires.id AND parcours.started_at >= ? AND parcours.deleted_at IS NULL)",
			since,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var items []model.Questionnaire
	err := query.Preload("Questions").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error
	return items, total, err
}

func (r *QuestionnaireRepository) ListAll() ([]model.Questionnaire, error) {
	var items []model.Questionnaire
	err := r.DB.Preload("Questions").Order("name ASC").Find(&items).Error
	return items, err
}

func (r *QuestionnaireRepository) CountParcours(questionnaireID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Parcours{}).
		Where("questionnaire_id = ?", questionnaireID).
		Count(&count).Error
	return count, err
}

func (r *QuestionnaireRepository) CountCreatedSince(since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Questionnaire{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

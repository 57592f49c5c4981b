package service

import (
	"errors"
	"strings"

	"formation_quiz_backend/internal/model"
	"formation_quiz_backend/internal/repository"
	"formation_quiz_backend/internal/util"

	"gorm.io/gorm"
)

// Answer-count bounds per question.
const (
	minAnswersPerQuestion = 2
	maxAnswersPerQuestion = 5
)

type QuestionnaireService struct {
	QuestionnaireRepo *repository.QuestionnaireRepository
	QuestionRepo      *repository.QuestionRepository
}

func NewQuestionnaireService(
	questionnaireRepo *repository.QuestionnaireRepository,
	questionRepo *repository.QuestionRepository,
) *QuestionnaireService {
	return &QuestionnaireService{
		QuestionnaireRepo: questionnaireRepo,
		QuestionRepo:      questionRepo,
	}
}

type QuestionnaireInput struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	DurationMinutes *int   `json:"durationMinutes"`
}

func (s *QuestionnaireService) Create(input QuestionnaireInput) (*model.Questionnaire, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, util.Validation("questionnaire name is required")
	}
	if input.DurationMinutes != nil && *input.DurationMinutes <= 0 {
		return nil, util.Validation("duration must be a positive number of minutes")
	}

	if _, err := s.QuestionnaireRepo.FindByName(name); err == nil {
		return nil, util.Validation("a questionnaire named %q already exists", name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	q := &model.Questionnaire{
		Name:            name,
		Description:     strings.TrimSpace(input.Description),
		DurationMinutes: input.DurationMinutes,
	}
	if err := s.QuestionnaireRepo.Create(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionnaireService) Get(id uint) (*model.Questionnaire, error) {
	q, err := s.QuestionnaireRepo.FindByIDWithQuestions(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionnaireNotFound
		}
		return nil, err
	}
	return q, nil
}

func (s *QuestionnaireService) List(f repository.QuestionnaireFilter) ([]model.Questionnaire, int64, error) {
	return s.QuestionnaireRepo.List(f)
}

func (s *QuestionnaireService) Update(id uint, input QuestionnaireInput) (*model.Questionnaire, error) {
	q, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, util.Validation("questionnaire name is required")
	}
	if input.DurationMinutes != nil && *input.DurationMinutes <= 0 {
		return nil, util.Validation("duration must be a positive number of minutes")
	}
	if existing, err := s.QuestionnaireRepo.FindByName(name); err == nil && existing.ID != id {
		return nil, util.Validation("a questionnaire named %q already exists", name)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	q.Name = name
	q.Description = strings.TrimSpace(input.Description)
	q.DurationMinutes = input.DurationMinutes

	if err := s.QuestionnaireRepo.Update(q); err != nil {
		return nil, err
	}
	return q, nil
}

// Delete refuses when any parcours references the questionnaire.
func (s *QuestionnaireService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	count, err := s.QuestionnaireRepo.CountParcours(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return util.Integrity("questionnaire has %d recorded parcours and cannot be deleted", count)
	}

	return s.QuestionnaireRepo.Delete(id)
}

type AnswerInput struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuestionInput struct {
	Prompt  string        `json:"prompt" binding:"required"`
	Answers []AnswerInput `json:"answers" binding:"required"`
}

func (s *QuestionnaireService) validateQuestion(input QuestionInput) error {
	if strings.TrimSpace(input.Prompt) == "" {
		return util.Validation("question prompt is required")
	}
	if len(input.Answers) < minAnswersPerQuestion || len(input.Answers) > maxAnswersPerQuestion {
		return util.Validation("a question needs between %d and %d answers", minAnswersPerQuestion, maxAnswersPerQuestion)
	}
	correct := 0
	for _, a := range input.Answers {
		if strings.TrimSpace(a.Text) == "" {
			return util.Validation("answer text is required")
		}
		if a.IsCorrect {
			correct++
		}
	}
	if correct == 0 {
		return util.Validation("at least one answer must be marked correct")
	}
	return nil
}

func (s *QuestionnaireService) AddQuestion(questionnaireID uint, input QuestionInput) (*model.Question, error) {
	if _, err := s.Get(questionnaireID); err != nil {
		return nil, err
	}
	if err := s.validateQuestion(input); err != nil {
		return nil, err
	}

	q := &model.Question{
		QuestionnaireID: questionnaireID,
		Prompt:          strings.TrimSpace(input.Prompt),
	}
	for _, a := range input.Answers {
		q.Answers = append(q.Answers, model.Answer{
			Text:      strings.TrimSpace(a.Text),
			IsCorrect: a.IsCorrect,
		})
	}

	if err := s.QuestionRepo.Create(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionnaireService) GetQuestion(id uint) (*model.Question, error) {
	q, err := s.QuestionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return q, nil
}

// UpdateQuestion is rejected once the question has recorded answers; editing
// it would silently rewrite past scores.
func (s *QuestionnaireService) UpdateQuestion(id uint, input QuestionInput) (*model.Question, error) {
	q, err := s.GetQuestion(id)
	if err != nil {
		return nil, err
	}
	if err := s.validateQuestion(input); err != nil {
		return nil, err
	}

	answered, err := s.QuestionRepo.CountAnswered(id)
	if err != nil {
		return nil, err
	}
	if answered > 0 {
		return nil, util.Integrity("question has %d recorded answers and cannot be modified", answered)
	}

	q.Prompt = strings.TrimSpace(input.Prompt)
	answers := make([]model.Answer, 0, len(input.Answers))
	for _, a := range input.Answers {
		answers = append(answers, model.Answer{
			Text:      strings.TrimSpace(a.Text),
			IsCorrect: a.IsCorrect,
		})
	}
	q.Answers = nil

	if err := s.QuestionRepo.Update(q, answers); err != nil {
		return nil, err
	}
	return s.GetQuestion(id)
}

func (s *QuestionnaireService) DeleteQuestion(id uint) error {
	if _, err := s.GetQuestion(id); err != nil {
		return err
	}

	answered, err := s.QuestionRepo.CountAnswered(id)
	if err != nil {
		return err
	}
	if answered > 0 {
		return util.Integrity("question has %d recorded answers and cannot be deleted", answered)
	}

	return s.QuestionRepo.Delete(id)
}

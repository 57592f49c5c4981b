package service

import (
	"errors"
	"time"

	"formation_quiz_backend/internal/model"
	"formation_quiz_backend/internal/repository"
	"formation_quiz_backend/internal/scoring"
	"formation_quiz_backend/internal/util"
	"formation_quiz_backend/pkg/monitoring"

	"gorm.io/gorm"
)

type ParcoursService struct {
	ParcoursRepo      *repository.ParcoursRepository
	QuestionnaireRepo *repository.QuestionnaireRepository
}

func NewParcoursService(
	parcoursRepo *repository.ParcoursRepository,
	questionnaireRepo *repository.QuestionnaireRepository,
) *ParcoursService {
	return &ParcoursService{
		ParcoursRepo:      parcoursRepo,
		QuestionnaireRepo: questionnaireRepo,
	}
}

// ListAvailable returns the questionnaires a trainee can start, flagging the
// ones already attempted. Empty questionnaires are hidden.
func (s *ParcoursService) ListAvailable(traineeID uint) ([]model.AvailableQuestionnaire, error) {
	questionnaires, err := s.QuestionnaireRepo.ListAll()
	if err != nil {
		return nil, err
	}

	out := make([]model.AvailableQuestionnaire, 0, len(questionnaires))
	for _, q := range questionnaires {
		if len(q.Questions) == 0 {
			continue
		}
		taken, err := s.ParcoursRepo.HasAnyForTrainee(traineeID, q.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, model.AvailableQuestionnaire{
			ID:              q.ID,
			Name:            q.Name,
			Description:     q.Description,
			DurationMinutes: q.DurationMinutes,
			QuestionCount:   len(q.Questions),
			AlreadyTaken:    taken,
		})
	}
	return out, nil
}

type StartParcoursInput struct {
	QuestionnaireID uint `json:"questionnaireId" binding:"required"`
	PenaltyMode     bool `json:"penaltyMode"`
}

// Start opens a parcours. A trainee may hold at most one open parcours per
// questionnaire.
func (s *ParcoursService) Start(traineeID uint, input StartParcoursInput) (*model.Parcours, error) {
	questionnaire, err := s.QuestionnaireRepo.FindByIDWithQuestions(input.QuestionnaireID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionnaireNotFound
		}
		return nil, err
	}
	if len(questionnaire.Questions) == 0 {
		return nil, util.Validation("questionnaire has no questions")
	}

	if _, err := s.ParcoursRepo.FindInProgress(traineeID, input.QuestionnaireID); err == nil {
		return nil, util.ErrParcoursInProgress
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p := &model.Parcours{
		TraineeID:       traineeID,
		QuestionnaireID: input.QuestionnaireID,
		StartedAt:       time.Now(),
		Status:          model.StatusInProgress,
		PenaltyMode:     input.PenaltyMode,
	}
	if err := s.ParcoursRepo.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// checkTimeLimit abandons an open parcours whose questionnaire time limit has
// elapsed. Returns ErrTimeLimitExceeded when it does; calling it again on the
// same parcours is a no-op because the status is already terminal.
func (s *ParcoursService) checkTimeLimit(p *model.Parcours, questionnaire *model.Questionnaire) error {
	if p.Status != model.StatusInProgress {
		return nil
	}
	if questionnaire.DurationMinutes == nil {
		return nil
	}

	elapsed := time.Since(p.StartedAt)
	limit := time.Duration(*questionnaire.DurationMinutes) * time.Minute
	if elapsed <= limit {
		return nil
	}

	p.TimeSpentSec = int(elapsed.Seconds())
	p.Score = nil
	p.GradeOn20 = nil
	p.AvgTimePerQuestion = nil
	if err := s.ParcoursRepo.Abandon(p); err != nil {
		return err
	}
	p.Status = model.StatusAbandoned
	monitoring.ParcoursCompleted.WithLabelValues(model.StatusAbandoned).Inc()
	return util.ErrTimeLimitExceeded
}

func (s *ParcoursService) loadOwned(parcoursID, traineeID uint) (*model.Parcours, error) {
	p, err := s.ParcoursRepo.FindByIDFull(parcoursID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrParcoursNotFound
		}
		return nil, err
	}
	// traineeID 0 means an admin is asking; skip the ownership check.
	if traineeID != 0 && p.TraineeID != traineeID {
		return nil, util.ErrParcoursNotFound
	}
	return p, nil
}

// GetDetail returns the parcours with its progress. The time limit is
// enforced lazily here, as on every read of an open parcours.
func (s *ParcoursService) GetDetail(parcoursID, traineeID uint) (*model.ParcoursDetail, error) {
	p, err := s.loadOwned(parcoursID, traineeID)
	if err != nil {
		return nil, err
	}
	if err := s.checkTimeLimit(p, &p.Questionnaire); err != nil {
		return nil, err
	}

	total := len(p.Questionnaire.Questions)
	answered := len(p.UserAnswers)

	detail := &model.ParcoursDetail{
		Parcours:          *p,
		AnsweredQuestions: answered,
		TotalQuestions:    total,
	}
	if total > 0 {
		detail.ProgressPercent = scoring.Round2(float64(answered) / float64(total) * 100)
	}
	if p.Status == model.StatusInProgress && p.Questionnaire.DurationMinutes != nil {
		remaining := float64(*p.Questionnaire.DurationMinutes) - time.Since(p.StartedAt).Minutes()
		if remaining < 0 {
			remaining = 0
		}
		r := scoring.Round1(remaining)
		detail.RemainingMinutes = &r
	}
	return detail, nil
}

// CurrentQuestion returns the next unanswered question, correctness flags
// stripped.
func (s *ParcoursService) CurrentQuestion(parcoursID, traineeID uint) (*model.CurrentQuestionView, error) {
	p, err := s.loadOwned(parcoursID, traineeID)
	if err != nil {
		return nil, err
	}
	if err := s.checkTimeLimit(p, &p.Questionnaire); err != nil {
		return nil, err
	}
	if p.Status != model.StatusInProgress {
		return nil, util.ErrParcoursNotInProgress
	}

	answered := make(map[uint]bool, len(p.UserAnswers))
	for _, ua := range p.UserAnswers {
		answered[ua.QuestionID] = true
	}

	for i, q := range p.Questionnaire.Questions {
		if answered[q.ID] {
			continue
		}
		view := &model.CurrentQuestionView{
			QuestionID:     q.ID,
			Prompt:         q.Prompt,
			QuestionNumber: i + 1,
			TotalQuestions: len(p.Questionnaire.Questions),
		}
		for _, a := range q.Answers {
			view.Answers = append(view.Answers, model.AnswerOption{ID: a.ID, Text: a.Text})
		}
		return view, nil
	}

	return nil, util.ErrAllQuestionsAnswered
}

type SubmitAnswerInput struct {
	QuestionID      uint   `json:"questionId" binding:"required"`
	SelectedAnswers []uint `json:"selectedAnswers"`
	ResponseTimeSec int    `json:"responseTimeSec"`
}

// SubmitAnswer records a trainee's selection for one question, grades it and
// adds the response time to the parcours. Validation order: existence, state,
// time limit, question membership, duplicate, selection integrity.
func (s *ParcoursService) SubmitAnswer(parcoursID, traineeID uint, input SubmitAnswerInput) (*model.UserAnswer, error) {
	p, err := s.loadOwned(parcoursID, traineeID)
	if err != nil {
		return nil, err
	}
	if p.Status != model.StatusInProgress {
		return nil, util.ErrParcoursNotInProgress
	}
	if err := s.checkTimeLimit(p, &p.Questionnaire); err != nil {
		return nil, err
	}

	var question *model.Question
	for i := range p.Questionnaire.Questions {
		if p.Questionnaire.Questions[i].ID == input.QuestionID {
			question = &p.Questionnaire.Questions[i]
			break
		}
	}
	if question == nil {
		return nil, util.ErrForeignQuestion
	}

	for _, ua := range p.UserAnswers {
		if ua.QuestionID == input.QuestionID {
			return nil, util.ErrAlreadyAnswered
		}
	}

	valid := scoring.NewAnswerSet()
	for _, a := range question.Answers {
		valid.Add(a.ID)
	}
	selected := scoring.NewAnswerSet()
	for _, id := range input.SelectedAnswers {
		if !valid.Contains(id) {
			return nil, util.ErrInvalidSelection
		}
		selected.Add(id)
	}

	if input.ResponseTimeSec < 0 {
		return nil, util.Validation("response time cannot be negative")
	}

	correct := scoring.NewAnswerSet(question.CorrectAnswerIDs()...)
	score := scoring.ScoreQuestion(correct, selected, p.PenaltyMode)

	answer := &model.UserAnswer{
		ParcoursID:      p.ID,
		QuestionID:      question.ID,
		Score:           &score,
		ResponseTimeSec: input.ResponseTimeSec,
		AnsweredAt:      time.Now(),
	}
	selections := make([]model.UserAnswerSelection, 0, selected.Len())
	for _, id := range selected.Values() {
		selections = append(selections, model.UserAnswerSelection{AnswerID: id})
	}

	p.TimeSpentSec += input.ResponseTimeSec
	if err := s.ParcoursRepo.SubmitAnswer(answer, selections, p.TimeSpentSec); err != nil {
		return nil, err
	}
	answer.Selections = selections
	return answer, nil
}

// Finish grades the parcours and persists every aggregate in one
// transaction. elapsedSec overrides the wall-clock total when the client
// reports its own timer; nil falls back to time since start.
func (s *ParcoursService) Finish(parcoursID, traineeID uint, elapsedSec *int) (*model.Parcours, error) {
	if elapsedSec != nil && *elapsedSec < 0 {
		return nil, util.Validation("elapsed time cannot be negative")
	}
	p, err := s.loadOwned(parcoursID, traineeID)
	if err != nil {
		return nil, err
	}
	if err := s.checkTimeLimit(p, &p.Questionnaire); err != nil {
		return nil, err
	}
	if p.Status != model.StatusInProgress {
		return nil, util.ErrParcoursNotInProgress
	}

	questionsByID := make(map[uint]*model.Question, len(p.Questionnaire.Questions))
	for i := range p.Questionnaire.Questions {
		q := &p.Questionnaire.Questions[i]
		questionsByID[q.ID] = q
	}

	answerScores := make(map[uint]float64, len(p.UserAnswers))
	var scoreSum float64
	var totalResponseSec int
	for i := range p.UserAnswers {
		ua := &p.UserAnswers[i]
		question, ok := questionsByID[ua.QuestionID]
		if !ok {
			continue
		}
		correct := scoring.NewAnswerSet(question.CorrectAnswerIDs()...)
		selected := scoring.NewAnswerSet(ua.SelectedAnswerIDs()...)
		score := scoring.ScoreQuestion(correct, selected, p.PenaltyMode)
		answerScores[ua.ID] = score
		scoreSum += score
		totalResponseSec += ua.ResponseTimeSec
	}

	totalQuestions := len(p.Questionnaire.Questions)
	percent := scoring.PercentScore(scoreSum, totalQuestions)
	grade := scoring.GradeOn20(percent)
	avgTime := scoring.AvgTimePerQuestion(totalResponseSec, len(p.UserAnswers))

	if elapsedSec != nil {
		p.TimeSpentSec = *elapsedSec
	} else {
		p.TimeSpentSec = int(time.Since(p.StartedAt).Seconds())
	}
	p.Score = &percent
	p.GradeOn20 = &grade
	p.AvgTimePerQuestion = &avgTime

	if err := s.ParcoursRepo.Complete(p, answerScores); err != nil {
		return nil, err
	}
	p.Status = model.StatusCompleted
	monitoring.ParcoursCompleted.WithLabelValues(model.StatusCompleted).Inc()
	return p, nil
}

// Abandon lets a trainee give up an open parcours.
func (s *ParcoursService) Abandon(parcoursID, traineeID uint) (*model.Parcours, error) {
	p, err := s.loadOwned(parcoursID, traineeID)
	if err != nil {
		return nil, err
	}
	if p.Status != model.StatusInProgress {
		return nil, util.ErrParcoursNotInProgress
	}

	p.TimeSpentSec = int(time.Since(p.StartedAt).Seconds())
	if err := s.ParcoursRepo.Abandon(p); err != nil {
		return nil, err
	}
	p.Status = model.StatusAbandoned
	p.Score = nil
	p.GradeOn20 = nil
	p.AvgTimePerQuestion = nil
	monitoring.ParcoursCompleted.WithLabelValues(model.StatusAbandoned).Inc()
	return p, nil
}

// MyRecommendations collects the advice for each of the trainee's completed
// parcours, newest first.
func (s *ParcoursService) MyRecommendations(traineeID uint) ([]model.ParcoursRecommendation, error) {
	completed, err := s.ParcoursRepo.ListCompletedByTrainee(traineeID)
	if err != nil {
		return nil, err
	}

	out := make([]model.ParcoursRecommendation, 0, len(completed))
	for _, p := range completed {
		var breakdown scoring.AttemptBreakdown
		if p.Score != nil {
			breakdown.SuccessRate = *p.Score
		}
		if p.AvgTimePerQuestion != nil {
			breakdown.AvgTimePerQuestion = *p.AvgTimePerQuestion
		}
		out = append(out, model.ParcoursRecommendation{
			ParcoursID:        p.ID,
			QuestionnaireName: p.Questionnaire.Name,
			GradeOn20:         p.GradeOn20,
			Recommendations:   scoring.Recommendations(breakdown, p.GradeOn20),
		})
	}
	return out, nil
}

// ListMine returns a trainee's parcours history, newest first.
func (s *ParcoursService) ListMine(traineeID uint) ([]model.Parcours, error) {
	return s.ParcoursRepo.ListByTrainee(traineeID)
}

func (s *ParcoursService) result(p *model.Parcours) model.ParcoursResult {
	return model.ParcoursResult{
		ParcoursID:         p.ID,
		QuestionnaireName:  p.Questionnaire.Name,
		Status:             p.Status,
		Score:              p.Score,
		GradeOn20:          p.GradeOn20,
		AvgTimePerQuestion: p.AvgTimePerQuestion,
		TimeSpentSec:       p.TimeSpentSec,
		AnsweredQuestions:  len(p.UserAnswers),
		TotalQuestions:     len(p.Questionnaire.Questions),
		PerformanceTier:    scoring.PerformanceTier(p.GradeOn20),
	}
}

// Results returns the summary of a terminal parcours.
func (s *ParcoursService) Results(parcoursID, traineeID uint) (*model.ParcoursResult, error) {
	p, err := s.loadOwned(parcoursID, traineeID)
	if err != nil {
		return nil, err
	}
	if err := s.checkTimeLimit(p, &p.Questionnaire); err != nil && !errors.Is(err, util.ErrTimeLimitExceeded) {
		return nil, err
	}
	if !p.IsTerminal() {
		return nil, util.ErrParcoursNotInProgress
	}

	r := s.result(p)
	return &r, nil
}

// DetailedResults adds the per-question breakdown and recommendations to the
// summary. Only completed parcours carry a breakdown.
func (s *ParcoursService) DetailedResults(parcoursID, traineeID uint) (*model.DetailedParcoursResult, error) {
	p, err := s.loadOwned(parcoursID, traineeID)
	if err != nil {
		return nil, err
	}
	if p.Status != model.StatusCompleted {
		return nil, util.StateError("detailed results require a completed parcours")
	}

	var breakdown scoring.AttemptBreakdown
	var totalResponseSec int
	for _, ua := range p.UserAnswers {
		if ua.Score == nil {
			continue
		}
		switch {
		case *ua.Score == 1:
			breakdown.CorrectQuestions++
		case *ua.Score > 0:
			breakdown.PartialQuestions++
		default:
			breakdown.IncorrectQuestions++
		}
		totalResponseSec += ua.ResponseTimeSec
	}

	answered := breakdown.CorrectQuestions + breakdown.PartialQuestions + breakdown.IncorrectQuestions
	breakdown.SuccessRate = scoring.SuccessRate(breakdown.CorrectQuestions, answered)
	breakdown.AvgTimePerQuestion = scoring.AvgTimePerQuestion(totalResponseSec, answered)
	if p.Score != nil {
		breakdown.TimeEfficiency = scoring.TimeEfficiency(*p.Score, totalResponseSec)
	}

	return &model.DetailedParcoursResult{
		ParcoursResult:  s.result(p),
		Breakdown:       breakdown,
		Recommendations: scoring.Recommendations(breakdown, p.GradeOn20),
	}, nil
}

package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"formation_quiz_backend/internal/model"
	"formation_quiz_backend/internal/repository"
	"formation_quiz_backend/internal/scoring"
	"formation_quiz_backend/pkg/logger"
	"formation_quiz_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Redis keys for the cached report payloads. Recomputation invalidates them.
const (
	cacheKeyGlobalReport  = "report:global"
	cacheKeyQuestionnaire = "report:questionnaire:%d"
	cacheKeyTrainee       = "report:trainee:%d"
)

// StatsService recomputes the derived aggregate rows from the base tables.
// Every recompute is a full pass; the aggregates are never updated
// incrementally, so a crash mid-write is repaired by the next run.
type StatsService struct {
	StatsRepo         *repository.StatsRepository
	ParcoursRepo      *repository.ParcoursRepository
	QuestionRepo      *repository.QuestionRepository
	QuestionnaireRepo *repository.QuestionnaireRepository
	UserRepo          *repository.UserRepository
	Redis             *redis.Client
}

func NewStatsService(
	statsRepo *repository.StatsRepository,
	parcoursRepo *repository.ParcoursRepository,
	questionRepo *repository.QuestionRepository,
	questionnaireRepo *repository.QuestionnaireRepository,
	userRepo *repository.UserRepository,
	rdb *redis.Client,
) *StatsService {
	return &StatsService{
		StatsRepo:         statsRepo,
		ParcoursRepo:      parcoursRepo,
		QuestionRepo:      questionRepo,
		QuestionnaireRepo: questionnaireRepo,
		UserRepo:          userRepo,
		Redis:             rdb,
	}
}

// RecomputeQuestion rebuilds the aggregate row for one question.
func (s *StatsService) RecomputeQuestion(ctx context.Context, questionID uint) (*model.QuestionStats, error) {
	answers, err := s.StatsRepo.ListAnswersForQuestion(questionID)
	if err != nil {
		return nil, err
	}

	stats := &model.QuestionStats{
		QuestionID:  questionID,
		Attempts:    len(answers),
		RefreshedAt: time.Now(),
	}

	var timeSum, timeCount int
	for _, a := range answers {
		if a.Score != nil && *a.Score == 1 {
			stats.Successes++
		}
		if a.ResponseTimeSec > 0 {
			timeSum += a.ResponseTimeSec
			timeCount++
		}
	}
	stats.SuccessRate = scoring.SuccessRate(stats.Successes, stats.Attempts)
	if timeCount > 0 {
		stats.AvgResponseTime = scoring.Round2(float64(timeSum) / float64(timeCount))
	}

	if err := s.StatsRepo.UpsertQuestionStats(stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// RecomputeTrainee rebuilds the aggregate row for one trainee. Only
// completed parcours count towards the means.
func (s *StatsService) RecomputeTrainee(ctx context.Context, traineeID uint) (*model.TraineeStats, error) {
	completed, err := s.ParcoursRepo.ListCompletedByTrainee(traineeID)
	if err != nil {
		return nil, err
	}

	stats := &model.TraineeStats{
		TraineeID:      traineeID,
		CompletedCount: len(completed),
		Level:          scoring.TraineeLevel(0),
		RefreshedAt:    time.Now(),
	}

	var scores, grades []float64
	for _, p := range completed {
		stats.TotalTimeSec += p.TimeSpentSec
		if p.Score != nil {
			scores = append(scores, *p.Score)
		}
		if p.GradeOn20 != nil {
			grades = append(grades, *p.GradeOn20)
		}
	}
	if len(scores) > 0 {
		mean := scoring.Mean(scores)
		stats.MeanScore = &mean
	}
	if len(grades) > 0 {
		meanGrade := scoring.Mean(grades)
		stats.MeanGradeOn20 = &meanGrade
		stats.Level = scoring.TraineeLevel(meanGrade)
	}

	if err := s.StatsRepo.UpsertTraineeStats(stats); err != nil {
		return nil, err
	}
	s.invalidate(ctx, fmt.Sprintf(cacheKeyTrainee, traineeID))
	return stats, nil
}

// RecomputeQuestionnaire rebuilds the aggregate row for one questionnaire.
// Abandon rate counts every passage; means and medians only completed ones.
func (s *StatsService) RecomputeQuestionnaire(ctx context.Context, questionnaireID uint) (*model.QuestionnaireStats, error) {
	passages, err := s.ParcoursRepo.ListByQuestionnaire(questionnaireID)
	if err != nil {
		return nil, err
	}

	stats := &model.QuestionnaireStats{
		QuestionnaireID: questionnaireID,
		TotalAttempts:   len(passages),
		RefreshedAt:     time.Now(),
	}

	var abandoned int
	var scores []float64
	var completionSum, completionCount int
	for _, p := range passages {
		switch p.Status {
		case model.StatusAbandoned:
			abandoned++
		case model.StatusCompleted:
			if p.Score != nil {
				scores = append(scores, *p.Score)
			}
			completionSum += p.TimeSpentSec
			completionCount++
		}
	}

	stats.AbandonRate = scoring.AbandonRate(abandoned, len(passages))
	if len(scores) > 0 {
		mean := scoring.Mean(scores)
		median := scoring.Median(scores)
		stats.MeanScore = &mean
		stats.MedianScore = &median
	}
	if completionCount > 0 {
		stats.MeanCompletionSec = int(math.Round(float64(completionSum) / float64(completionCount)))
	}

	if err := s.StatsRepo.UpsertQuestionnaireStats(stats); err != nil {
		return nil, err
	}
	s.invalidate(ctx, fmt.Sprintf(cacheKeyQuestionnaire, questionnaireID))
	return stats, nil
}

// RecomputeAll rebuilds every aggregate row, the maintenance entry point.
func (s *StatsService) RecomputeAll(ctx context.Context) error {
	start := time.Now()

	questions, err := s.QuestionRepo.ListAll()
	if err != nil {
		return err
	}
	for _, q := range questions {
		if _, err := s.RecomputeQuestion(ctx, q.ID); err != nil {
			return err
		}
	}

	profiles, err := s.UserRepo.ListAllTraineeProfiles()
	if err != nil {
		return err
	}
	for _, p := range profiles {
		if _, err := s.RecomputeTrainee(ctx, p.ID); err != nil {
			return err
		}
	}

	questionnaires, err := s.QuestionnaireRepo.ListAll()
	if err != nil {
		return err
	}
	for _, q := range questionnaires {
		if _, err := s.RecomputeQuestionnaire(ctx, q.ID); err != nil {
			return err
		}
	}

	s.invalidate(ctx, cacheKeyGlobalReport)

	elapsed := time.Since(start)
	monitoring.StatsRecomputeDuration.Observe(elapsed.Seconds())
	logger.Log.Info("statistics recomputed",
		zap.Int("questions", len(questions)),
		zap.Int("trainees", len(profiles)),
		zap.Int("questionnaires", len(questionnaires)),
		zap.Duration("elapsed", elapsed),
	)
	return nil
}

// GetQuestionStats returns the stored aggregate, recomputing on a miss.
func (s *StatsService) GetQuestionStats(ctx context.Context, questionID uint) (*model.QuestionStats, error) {
	stats, err := s.StatsRepo.FindQuestionStats(questionID)
	if err == nil {
		return stats, nil
	}
	return s.RecomputeQuestion(ctx, questionID)
}

func (s *StatsService) GetTraineeStats(ctx context.Context, traineeID uint) (*model.TraineeStats, error) {
	stats, err := s.StatsRepo.FindTraineeStats(traineeID)
	if err == nil {
		return stats, nil
	}
	return s.RecomputeTrainee(ctx, traineeID)
}

func (s *StatsService) GetQuestionnaireStats(ctx context.Context, questionnaireID uint) (*model.QuestionnaireStats, error) {
	stats, err := s.StatsRepo.FindQuestionnaireStats(questionnaireID)
	if err == nil {
		return stats, nil
	}
	return s.RecomputeQuestionnaire(ctx, questionnaireID)
}

// invalidate drops a cached report payload. Cache trouble is logged, never
// surfaced; the reports fall back to the database.
func (s *StatsService) invalidate(ctx context.Context, key string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, key).Err(); err != nil {
		logger.Log.Warn("failed to invalidate report cache", zap.String("key", key), zap.Error(err))
	}
}

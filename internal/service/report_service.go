package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"formation_quiz_backend/internal/model"
	"formation_quiz_backend/internal/repository"
	"formation_quiz_backend/internal/scoring"
	"formation_quiz_backend/internal/util"
	"formation_quiz_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultDifficultThreshold is the success-rate ceiling below which a
// question shows up in the difficult-questions report.
const DefaultDifficultThreshold = 60.0

const reportCacheTTL = 5 * time.Minute

// Grades below this mark a questionnaire as an improvement area for the
// trainee.
const improvementGradeCeiling = 12.0

type ReportService struct {
	Stats             *StatsService
	StatsRepo         *repository.StatsRepository
	ParcoursRepo      *repository.ParcoursRepository
	QuestionRepo      *repository.QuestionRepository
	QuestionnaireRepo *repository.QuestionnaireRepository
	UserRepo          *repository.UserRepository
	Redis             *redis.Client
}

func NewReportService(
	stats *StatsService,
	statsRepo *repository.StatsRepository,
	parcoursRepo *repository.ParcoursRepository,
	questionRepo *repository.QuestionRepository,
	questionnaireRepo *repository.QuestionnaireRepository,
	userRepo *repository.UserRepository,
	rdb *redis.Client,
) *ReportService {
	return &ReportService{
		Stats:             stats,
		StatsRepo:         statsRepo,
		ParcoursRepo:      parcoursRepo,
		QuestionRepo:      questionRepo,
		QuestionnaireRepo: questionnaireRepo,
		UserRepo:          userRepo,
		Redis:             rdb,
	}
}

// TraineeSynthesis builds the admin view of one trainee: refreshed stats,
// level, badges and improvement areas.
func (s *ReportService) TraineeSynthesis(ctx context.Context, traineeID uint) (*model.TraineeSynthesis, error) {
	key := fmt.Sprintf(cacheKeyTrainee, traineeID)
	var cached model.TraineeSynthesis
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	profile, err := s.UserRepo.FindProfileByID(traineeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTraineeNotFound
		}
		return nil, err
	}

	stats, err := s.Stats.RecomputeTrainee(ctx, traineeID)
	if err != nil {
		return nil, err
	}

	completed, err := s.ParcoursRepo.ListCompletedByTrainee(traineeID)
	if err != nil {
		return nil, err
	}

	var perfect int
	var avgTimes []float64
	var areas []model.ImprovementArea
	for _, p := range completed {
		if p.Score != nil && *p.Score == 100 {
			perfect++
		}
		if p.AvgTimePerQuestion != nil {
			avgTimes = append(avgTimes, *p.AvgTimePerQuestion)
		}
		if p.GradeOn20 != nil && *p.GradeOn20 < improvementGradeCeiling {
			breakdown := scoring.AttemptBreakdown{}
			if p.Score != nil {
				breakdown.SuccessRate = *p.Score
			}
			if p.AvgTimePerQuestion != nil {
				breakdown.AvgTimePerQuestion = *p.AvgTimePerQuestion
			}
			areas = append(areas, model.ImprovementArea{
				QuestionnaireName: p.Questionnaire.Name,
				GradeOn20:         *p.GradeOn20,
				Recommendations:   scoring.Recommendations(breakdown, p.GradeOn20),
			})
		}
	}

	synthesis := &model.TraineeSynthesis{
		TraineeID:        traineeID,
		FirstName:        profile.User.FirstName,
		LastName:         profile.User.LastName,
		Company:          profile.Company,
		Stats:            *stats,
		Level:            stats.Level,
		TotalTimeHours:   stats.TotalTimeHours(),
		Badges:           scoring.Badges(stats.CompletedCount, perfect, scoring.Mean(avgTimes)),
		ImprovementAreas: areas,
	}

	s.cacheSet(ctx, key, synthesis)
	return synthesis, nil
}

// QuestionnaireReport builds the per-questionnaire report. threshold bounds
// the difficult-question list; pass 0 for the default.
func (s *ReportService) QuestionnaireReport(ctx context.Context, questionnaireID uint, threshold float64) (*model.QuestionnaireReport, error) {
	if threshold <= 0 {
		threshold = DefaultDifficultThreshold
	}

	questionnaire, err := s.QuestionnaireRepo.FindByID(questionnaireID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionnaireNotFound
		}
		return nil, err
	}

	stats, err := s.Stats.RecomputeQuestionnaire(ctx, questionnaireID)
	if err != nil {
		return nil, err
	}

	questions, err := s.QuestionRepo.ListByQuestionnaire(questionnaireID)
	if err != nil {
		return nil, err
	}
	prompts := make(map[uint]string, len(questions))
	for _, q := range questions {
		if _, err := s.Stats.RecomputeQuestion(ctx, q.ID); err != nil {
			return nil, err
		}
		prompts[q.ID] = q.Prompt
	}

	weak, err := s.StatsRepo.ListQuestionStatsBelow(questionnaireID, threshold)
	if err != nil {
		return nil, err
	}

	report := &model.QuestionnaireReport{
		QuestionnaireID:       questionnaireID,
		Name:                  questionnaire.Name,
		Stats:                 *stats,
		Difficulty:            stats.Difficulty(),
		MeanCompletionMinutes: stats.MeanCompletionMinutes(),
	}
	for _, qs := range weak {
		report.DifficultQuestions = append(report.DifficultQuestions, model.DifficultQuestion{
			QuestionID:  qs.QuestionID,
			Prompt:      prompts[qs.QuestionID],
			SuccessRate: qs.SuccessRate,
			Difficulty:  scoring.QuestionDifficulty(qs.SuccessRate),
		})
	}
	return report, nil
}

// GlobalSynthesis is the admin dashboard: platform-wide counts and the most
// attempted questionnaires. Served from cache when fresh.
func (s *ReportService) GlobalSynthesis(ctx context.Context) (*model.GlobalSynthesis, error) {
	var cached model.GlobalSynthesis
	if s.cacheGet(ctx, cacheKeyGlobalReport, &cached) {
		return &cached, nil
	}

	questionnaires, err := s.QuestionnaireRepo.ListAll()
	if err != nil {
		return nil, err
	}

	synthesis := &model.GlobalSynthesis{
		TotalQuestionnaires: len(questionnaires),
	}

	trainees, err := s.UserRepo.CountByRole(model.Trainee)
	if err != nil {
		return nil, err
	}
	synthesis.TotalTrainees = int(trainees)

	since := time.Now().AddDate(0, 0, -30)
	recent, err := s.QuestionnaireRepo.CountCreatedSince(since)
	if err != nil {
		return nil, err
	}
	synthesis.NewQuestionnaires30d = int(recent)

	popular := make([]model.PopularQuestionnaire, 0, len(questionnaires))
	for _, q := range questionnaires {
		synthesis.TotalQuestions += len(q.Questions)
		if len(q.Questions) > 0 {
			synthesis.QuestionnairesWithItems++
		} else {
			synthesis.EmptyQuestionnaires++
		}

		count, err := s.QuestionnaireRepo.CountParcours(q.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			popular = append(popular, model.PopularQuestionnaire{
				ID:            q.ID,
				Name:          q.Name,
				ParcoursCount: int(count),
				QuestionCount: len(q.Questions),
			})
		}
	}
	if synthesis.TotalQuestionnaires > 0 {
		synthesis.AvgQuestionsPerQuiz = scoring.Round2(
			float64(synthesis.TotalQuestions) / float64(synthesis.TotalQuestionnaires))
	}

	sort.Slice(popular, func(i, j int) bool {
		return popular[i].ParcoursCount > popular[j].ParcoursCount
	})
	if len(popular) > 5 {
		popular = popular[:5]
	}
	synthesis.PopularQuestionnaires = popular

	all, err := s.ParcoursRepo.ListAll()
	if err != nil {
		return nil, err
	}
	synthesis.TotalParcours = len(all)

	var scores []float64
	for _, p := range all {
		if p.Status == model.StatusCompleted {
			synthesis.CompletedParcours++
			if p.Score != nil {
				scores = append(scores, *p.Score)
			}
		}
	}
	if len(scores) > 0 {
		mean := scoring.Mean(scores)
		synthesis.GlobalMeanScore = &mean
	}

	s.cacheSet(ctx, cacheKeyGlobalReport, synthesis)
	return synthesis, nil
}

func (s *ReportService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.Redis == nil {
		return false
	}
	payload, err := s.Redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		logger.Log.Warn("corrupt report cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *ReportService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.Redis == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, key, payload, reportCacheTTL).Err(); err != nil {
		logger.Log.Warn("failed to cache report", zap.String("key", key), zap.Error(err))
	}
}

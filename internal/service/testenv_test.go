package service

import (
	"fmt"
	"testing"

	"formation_quiz_backend/internal/model"
	"formation_quiz_backend/internal/repository"
	"formation_quiz_backend/pkg/database"
	"formation_quiz_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	db            *gorm.DB
	users         *repository.UserRepository
	questionnaire *repository.QuestionnaireRepository
	questions     *repository.QuestionRepository
	parcours      *repository.ParcoursRepository
	stats         *repository.StatsRepository

	userService          *UserService
	questionnaireService *QuestionnaireService
	parcoursService      *ParcoursService
	statsService         *StatsService
	exportService        *ExportService
}

// newTestEnv opens a fresh in-memory database, migrates the schema and wires
// the service graph without redis.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger.Log = zap.NewNop()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	env := &testEnv{
		db:            db,
		users:         repository.NewUserRepository(db),
		questionnaire: repository.NewQuestionnaireRepository(db),
		questions:     repository.NewQuestionRepository(db),
		parcours:      repository.NewParcoursRepository(db),
		stats:         repository.NewStatsRepository(db),
	}
	env.userService = NewUserService(env.users)
	env.questionnaireService = NewQuestionnaireService(env.questionnaire, env.questions)
	env.parcoursService = NewParcoursService(env.parcours, env.questionnaire)
	env.statsService = NewStatsService(env.stats, env.parcours, env.questions, env.questionnaire, env.users, nil)
	env.exportService = NewExportService(env.parcours, env.users, nil)
	return env
}

// createTrainee registers a trainee and returns its profile id.
func (e *testEnv) createTrainee(t *testing.T, login string) uint {
	t.Helper()

	profile, err := e.userService.CreateTrainee(CreateTraineeInput{
		LastName:  "Martin",
		FirstName: "Claire",
		Login:     login,
		Email:     login + "@example.com",
		Password:  "s3cret-pass",
		Company:   "Acme",
	})
	if err != nil {
		t.Fatalf("create trainee %s: %v", login, err)
	}
	return profile.ID
}

// createQuestionnaire builds a questionnaire with two questions matching the
// worked grading example: one single-correct question and one with two
// correct answers out of four.
func (e *testEnv) createQuestionnaire(t *testing.T, name string, durationMinutes *int) *model.Questionnaire {
	t.Helper()

	q, err := e.questionnaireService.Create(QuestionnaireInput{
		Name:            name,
		Description:     "test questionnaire",
		DurationMinutes: durationMinutes,
	})
	if err != nil {
		t.Fatalf("create questionnaire: %v", err)
	}

	_, err = e.questionnaireService.AddQuestion(q.ID, QuestionInput{
		Prompt: "Which keyword declares a constant?",
		Answers: []AnswerInput{
			{Text: "const", IsCorrect: true},
			{Text: "var"},
			{Text: "let"},
		},
	})
	if err != nil {
		t.Fatalf("add question 1: %v", err)
	}

	_, err = e.questionnaireService.AddQuestion(q.ID, QuestionInput{
		Prompt: "Which types are built in?",
		Answers: []AnswerInput{
			{Text: "matrix"},
			{Text: "string", IsCorrect: true},
			{Text: "bool", IsCorrect: true},
			{Text: "tensor"},
		},
	})
	if err != nil {
		t.Fatalf("add question 2: %v", err)
	}

	full, err := e.questionnaireService.Get(q.ID)
	if err != nil {
		t.Fatalf("reload questionnaire: %v", err)
	}
	return full
}

// answerIDs maps answer texts to ids for one question.
func answerIDs(q *model.Question) map[string]uint {
	out := make(map[string]uint, len(q.Answers))
	for _, a := range q.Answers {
		out[a.Text] = a.ID
	}
	return out
}

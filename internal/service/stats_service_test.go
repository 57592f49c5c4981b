package service

import (
	"context"
	"testing"

	"formation_quiz_backend/internal/model"
)

// completeRun drives a full parcours where the trainee answers the
// single-correct question right and picks the given answers on the
// multi-correct one. An optional elapsedSec is passed through to Finish.
func completeRun(t *testing.T, env *testEnv, traineeID uint, questionnaire *model.Questionnaire, multiSelections []string, elapsedSec ...int) *model.Parcours {
	t.Helper()

	p, err := env.parcoursService.Start(traineeID, StartParcoursInput{QuestionnaireID: questionnaire.ID})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	q1 := &questionnaire.Questions[0]
	q2 := &questionnaire.Questions[1]
	ids1 := answerIDs(q1)
	ids2 := answerIDs(q2)

	if _, err := env.parcoursService.SubmitAnswer(p.ID, traineeID, SubmitAnswerInput{
		QuestionID:      q1.ID,
		SelectedAnswers: []uint{ids1["const"]},
		ResponseTimeSec: 30,
	}); err != nil {
		t.Fatalf("submit q1: %v", err)
	}

	var selected []uint
	for _, text := range multiSelections {
		selected = append(selected, ids2[text])
	}
	if _, err := env.parcoursService.SubmitAnswer(p.ID, traineeID, SubmitAnswerInput{
		QuestionID:      q2.ID,
		SelectedAnswers: selected,
		ResponseTimeSec: 60,
	}); err != nil {
		t.Fatalf("submit q2: %v", err)
	}

	var finalSec *int
	if len(elapsedSec) > 0 {
		finalSec = &elapsedSec[0]
	}
	done, err := env.parcoursService.Finish(p.ID, traineeID, finalSec)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	return done
}

func TestRecomputeQuestionnaireStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	questionnaire := env.createQuestionnaire(t, "Aggregates", nil)

	t1 := env.createTrainee(t, "stats1")
	t2 := env.createTrainee(t, "stats2")
	t3 := env.createTrainee(t, "stats3")

	// 100 and 75, plus one abandon.
	completeRun(t, env, t1, questionnaire, []string{"string", "bool"})
	completeRun(t, env, t2, questionnaire, []string{"string", "tensor"})

	p, err := env.parcoursService.Start(t3, StartParcoursInput{QuestionnaireID: questionnaire.ID})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := env.parcoursService.Abandon(p.ID, t3); err != nil {
		t.Fatalf("abandon: %v", err)
	}

	stats, err := env.statsService.RecomputeQuestionnaire(ctx, questionnaire.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}

	if stats.TotalAttempts != 3 {
		t.Errorf("total attempts = %d, want 3", stats.TotalAttempts)
	}
	if stats.AbandonRate != 33.33 {
		t.Errorf("abandon rate = %v, want 33.33", stats.AbandonRate)
	}
	if stats.MeanScore == nil || *stats.MeanScore != 87.5 {
		t.Errorf("mean score = %v, want 87.5", stats.MeanScore)
	}
	if stats.MedianScore == nil || *stats.MedianScore != 87.5 {
		t.Errorf("median score = %v, want 87.5", stats.MedianScore)
	}
	if stats.Difficulty() != "Easy" {
		t.Errorf("difficulty = %q, want Easy", stats.Difficulty())
	}
}

func TestRecomputeQuestionnaireRoundsMeanCompletion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	questionnaire := env.createQuestionnaire(t, "Rounded mean", nil)

	t1 := env.createTrainee(t, "round1")
	t2 := env.createTrainee(t, "round2")

	// Completion times 100 and 45: mean 72.5 rounds to 73.
	completeRun(t, env, t1, questionnaire, []string{"string", "bool"}, 100)
	completeRun(t, env, t2, questionnaire, []string{"string", "bool"}, 45)

	stats, err := env.statsService.RecomputeQuestionnaire(ctx, questionnaire.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if stats.MeanCompletionSec != 73 {
		t.Errorf("mean completion = %d, want 73", stats.MeanCompletionSec)
	}
}

func TestRecomputeQuestionnaireStatsNoCompletedRuns(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	questionnaire := env.createQuestionnaire(t, "Never finished", nil)

	stats, err := env.statsService.RecomputeQuestionnaire(ctx, questionnaire.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if stats.TotalAttempts != 0 || stats.AbandonRate != 0 {
		t.Errorf("stats = %+v, want zeroes", stats)
	}
	if stats.MeanScore != nil || stats.MedianScore != nil {
		t.Error("means must stay nil without completed runs")
	}
	if stats.Difficulty() != "Unrated" {
		t.Errorf("difficulty = %q, want Unrated", stats.Difficulty())
	}
}

func TestRecomputeQuestionStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	questionnaire := env.createQuestionnaire(t, "Per question", nil)

	t1 := env.createTrainee(t, "qstats1")
	t2 := env.createTrainee(t, "qstats2")

	// Both trainees nail q1; only the first nails q2.
	completeRun(t, env, t1, questionnaire, []string{"string", "bool"})
	completeRun(t, env, t2, questionnaire, []string{"string", "tensor"})

	q1 := questionnaire.Questions[0]
	stats, err := env.statsService.RecomputeQuestion(ctx, q1.ID)
	if err != nil {
		t.Fatalf("recompute q1: %v", err)
	}
	if stats.Attempts != 2 || stats.Successes != 2 {
		t.Errorf("q1 attempts/successes = %d/%d, want 2/2", stats.Attempts, stats.Successes)
	}
	if stats.SuccessRate != 100 {
		t.Errorf("q1 success rate = %v, want 100", stats.SuccessRate)
	}
	if stats.AvgResponseTime != 30 {
		t.Errorf("q1 avg response time = %v, want 30", stats.AvgResponseTime)
	}
	if stats.Difficulty() != "Easy" {
		t.Errorf("q1 difficulty = %q, want Easy", stats.Difficulty())
	}

	q2 := questionnaire.Questions[1]
	stats, err = env.statsService.RecomputeQuestion(ctx, q2.ID)
	if err != nil {
		t.Fatalf("recompute q2: %v", err)
	}
	if stats.Attempts != 2 || stats.Successes != 1 {
		t.Errorf("q2 attempts/successes = %d/%d, want 2/1", stats.Attempts, stats.Successes)
	}
	if stats.SuccessRate != 50 {
		t.Errorf("q2 success rate = %v, want 50", stats.SuccessRate)
	}
	if stats.Difficulty() != "Hard" {
		t.Errorf("q2 difficulty = %q, want Hard", stats.Difficulty())
	}
}

func TestRecomputeTraineeStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	questionnaire := env.createQuestionnaire(t, "Trainee level", nil)
	other := env.createQuestionnaire(t, "Second quiz", nil)

	traineeID := env.createTrainee(t, "leveled")

	// Grades 20 and 15, mean 17.5: Expert.
	completeRun(t, env, traineeID, questionnaire, []string{"string", "bool"})
	completeRun(t, env, traineeID, other, []string{"string", "tensor"})

	// An abandon must not count.
	third := env.createQuestionnaire(t, "Third quiz", nil)
	p, err := env.parcoursService.Start(traineeID, StartParcoursInput{QuestionnaireID: third.ID})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := env.parcoursService.Abandon(p.ID, traineeID); err != nil {
		t.Fatalf("abandon: %v", err)
	}

	stats, err := env.statsService.RecomputeTrainee(ctx, traineeID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if stats.CompletedCount != 2 {
		t.Errorf("completed count = %d, want 2", stats.CompletedCount)
	}
	if stats.MeanGradeOn20 == nil || *stats.MeanGradeOn20 != 17.5 {
		t.Errorf("mean grade = %v, want 17.5", stats.MeanGradeOn20)
	}
	if stats.Level != "Expert" {
		t.Errorf("level = %q, want Expert", stats.Level)
	}
}

func TestRecomputeTraineeStatsWithoutHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	traineeID := env.createTrainee(t, "fresh")

	stats, err := env.statsService.RecomputeTrainee(ctx, traineeID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if stats.CompletedCount != 0 || stats.TotalTimeSec != 0 {
		t.Errorf("stats = %+v, want zeroes", stats)
	}
	if stats.MeanScore != nil || stats.MeanGradeOn20 != nil {
		t.Error("means must stay nil without completed parcours")
	}
	if stats.Level != "Beginner" {
		t.Errorf("level = %q, want Beginner", stats.Level)
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	questionnaire := env.createQuestionnaire(t, "Idempotence", nil)
	traineeID := env.createTrainee(t, "repeat")

	completeRun(t, env, traineeID, questionnaire, []string{"string", "bool"})

	first, err := env.statsService.RecomputeQuestionnaire(ctx, questionnaire.ID)
	if err != nil {
		t.Fatalf("first recompute: %v", err)
	}
	second, err := env.statsService.RecomputeQuestionnaire(ctx, questionnaire.ID)
	if err != nil {
		t.Fatalf("second recompute: %v", err)
	}

	if first.TotalAttempts != second.TotalAttempts ||
		*first.MeanScore != *second.MeanScore ||
		*first.MedianScore != *second.MedianScore {
		t.Errorf("recompute not stable: %+v then %+v", first, second)
	}

	var rows int64
	if err := env.db.Model(&model.QuestionnaireStats{}).
		Where("questionnaire_id = ?", questionnaire.ID).
		Count(&rows).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != 1 {
		t.Errorf("stats rows = %d, want a single upserted row", rows)
	}
}

func TestRecomputeAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	questionnaire := env.createQuestionnaire(t, "Everything", nil)
	traineeID := env.createTrainee(t, "all")

	completeRun(t, env, traineeID, questionnaire, []string{"string", "bool"})

	if err := env.statsService.RecomputeAll(ctx); err != nil {
		t.Fatalf("recompute all: %v", err)
	}

	if _, err := env.stats.FindQuestionnaireStats(questionnaire.ID); err != nil {
		t.Errorf("questionnaire stats missing: %v", err)
	}
	if _, err := env.stats.FindTraineeStats(traineeID); err != nil {
		t.Errorf("trainee stats missing: %v", err)
	}
	for _, q := range questionnaire.Questions {
		if _, err := env.stats.FindQuestionStats(q.ID); err != nil {
			t.Errorf("question %d stats missing: %v", q.ID, err)
		}
	}
}

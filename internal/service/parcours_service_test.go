package service

import (
	"errors"
	"testing"
	"time"

	"formation_quiz_backend/internal/model"
	"formation_quiz_backend/internal/util"
)

func TestParcoursFullRunStandardMode(t *testing.T) {
	env := newTestEnv(t)
	traineeID := env.createTrainee(t, "claire")
	questionnaire := env.createQuestionnaire(t, "Go basics", nil)

	p, err := env.parcoursService.Start(traineeID, StartParcoursInput{QuestionnaireID: questionnaire.ID})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if p.Status != model.StatusInProgress {
		t.Fatalf("status = %q, want EN_COURS", p.Status)
	}

	view, err := env.parcoursService.CurrentQuestion(p.ID, traineeID)
	if err != nil {
		t.Fatalf("current question: %v", err)
	}
	if view.QuestionNumber != 1 || view.TotalQuestions != 2 {
		t.Errorf("question %d of %d, want 1 of 2", view.QuestionNumber, view.TotalQuestions)
	}
	for _, a := range view.Answers {
		if a.Text == "" {
			t.Error("answer option missing text")
		}
	}

	q1 := &questionnaire.Questions[0]
	q2 := &questionnaire.Questions[1]
	ids1 := answerIDs(q1)
	ids2 := answerIDs(q2)

	// Q1: exact single correct answer, full point.
	if _, err := env.parcoursService.SubmitAnswer(p.ID, traineeID, SubmitAnswerInput{
		QuestionID:      q1.ID,
		SelectedAnswers: []uint{ids1["const"]},
		ResponseTimeSec: 30,
	}); err != nil {
		t.Fatalf("submit q1: %v", err)
	}

	// Q2: one hit (string), one miss (tensor); standard mode gives 1/2.
	if _, err := env.parcoursService.SubmitAnswer(p.ID, traineeID, SubmitAnswerInput{
		QuestionID:      q2.ID,
		SelectedAnswers: []uint{ids2["string"], ids2["tensor"]},
		ResponseTimeSec: 60,
	}); err != nil {
		t.Fatalf("submit q2: %v", err)
	}

	done, err := env.parcoursService.Finish(p.ID, traineeID, nil)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if done.Status != model.StatusCompleted {
		t.Errorf("status = %q, want TERMINE", done.Status)
	}
	if done.Score == nil || *done.Score != 75 {
		t.Errorf("score = %v, want 75", done.Score)
	}
	if done.GradeOn20 == nil || *done.GradeOn20 != 15 {
		t.Errorf("grade = %v, want 15", done.GradeOn20)
	}
	if done.AvgTimePerQuestion == nil || *done.AvgTimePerQuestion != 45 {
		t.Errorf("avg time = %v, want 45", done.AvgTimePerQuestion)
	}

	result, err := env.parcoursService.Results(p.ID, traineeID)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if result.PerformanceTier != "Very Good" {
		t.Errorf("tier = %q, want Very Good", result.PerformanceTier)
	}

	detailed, err := env.parcoursService.DetailedResults(p.ID, traineeID)
	if err != nil {
		t.Fatalf("detailed results: %v", err)
	}
	if detailed.Breakdown.CorrectQuestions != 1 || detailed.Breakdown.PartialQuestions != 1 || detailed.Breakdown.IncorrectQuestions != 0 {
		t.Errorf("breakdown = %+v, want 1 correct, 1 partial, 0 incorrect", detailed.Breakdown)
	}
	if len(detailed.Recommendations) == 0 {
		t.Error("recommendations empty")
	}
}

func TestParcoursPenaltyMode(t *testing.T) {
	env := newTestEnv(t)
	traineeID := env.createTrainee(t, "paul")
	questionnaire := env.createQuestionnaire(t, "Penalty run", nil)

	p, err := env.parcoursService.Start(traineeID, StartParcoursInput{
		QuestionnaireID: questionnaire.ID,
		PenaltyMode:     true,
	})
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
		ResponseTimeSec: 20,
	}); err != nil {
		t.Fatalf("submit q1: %v", err)
	}

	// One hit, one miss over two correct answers: (1-1)/2 = 0 under penalty.
	if _, err := env.parcoursService.SubmitAnswer(p.ID, traineeID, SubmitAnswerInput{
		QuestionID:      q2.ID,
		SelectedAnswers: []uint{ids2["string"], ids2["tensor"]},
		ResponseTimeSec: 40,
	}); err != nil {
		t.Fatalf("submit q2: %v", err)
	}

	done, err := env.parcoursService.Finish(p.ID, traineeID, nil)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if done.Score == nil || *done.Score != 50 {
		t.Errorf("score = %v, want 50", done.Score)
	}
}

func TestSubmitAnswerFailures(t *testing.T) {
	env := newTestEnv(t)
	traineeID := env.createTrainee(t, "lucie")
	questionnaire := env.createQuestionnaire(t, "Failure cases", nil)
	other := env.createQuestionnaire(t, "Other quiz", nil)

	p, err := env.parcoursService.Start(traineeID, StartParcoursInput{QuestionnaireID: questionnaire.ID})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	q1 := &questionnaire.Questions[0]
	ids1 := answerIDs(q1)
	foreign := &other.Questions[0]
	foreignIDs := answerIDs(foreign)

	t.Run("unknown parcours", func(t *testing.T) {
		_, err := env.parcoursService.SubmitAnswer(9999, traineeID, SubmitAnswerInput{
			QuestionID:      q1.ID,
			SelectedAnswers: []uint{ids1["const"]},
		})
		if !errors.Is(err, util.ErrParcoursNotFound) {
			t.Errorf("err = %v, want parcours not found", err)
		}
	})

	t.Run("foreign question", func(t *testing.T) {
		_, err := env.parcoursService.SubmitAnswer(p.ID, traineeID, SubmitAnswerInput{
			QuestionID:      foreign.ID,
			SelectedAnswers: []uint{foreignIDs["const"]},
		})
		if !errors.Is(err, util.ErrForeignQuestion) {
			t.Errorf("err = %v, want foreign question", err)
		}
	})

	t.Run("selection from another question", func(t *testing.T) {
		_, err := env.parcoursService.SubmitAnswer(p.ID, traineeID, SubmitAnswerInput{
			QuestionID:      q1.ID,
			SelectedAnswers: []uint{foreignIDs["const"]},
		})
		if !errors.Is(err, util.ErrInvalidSelection) {
			t.Errorf("err = %v, want invalid selection", err)
		}
	})

	t.Run("duplicate answer", func(t *testing.T) {
		if _, err := env.parcoursService.SubmitAnswer(p.ID, traineeID, SubmitAnswerInput{
			QuestionID:      q1.ID,
			SelectedAnswers: []uint{ids1["const"]},
			ResponseTimeSec: 10,
		}); err != nil {
			t.Fatalf("first submit: %v", err)
		}
		_, err := env.parcoursService.SubmitAnswer(p.ID, traineeID, SubmitAnswerInput{
			QuestionID:      q1.ID,
			SelectedAnswers: []uint{ids1["var"]},
		})
		if !errors.Is(err, util.ErrAlreadyAnswered) {
			t.Errorf("err = %v, want already answered", err)
		}
	})

	t.Run("submit after finish", func(t *testing.T) {
		if _, err := env.parcoursService.Finish(p.ID, traineeID, nil); err != nil {
			t.Fatalf("finish: %v", err)
		}
		q2 := &questionnaire.Questions[1]
		_, err := env.parcoursService.SubmitAnswer(p.ID, traineeID, SubmitAnswerInput{
			QuestionID:      q2.ID,
			SelectedAnswers: []uint{answerIDs(q2)["string"]},
		})
		if !errors.Is(err, util.ErrParcoursNotInProgress) {
			t.Errorf("err = %v, want not in progress", err)
		}
	})
}

func TestSubmitAnswerStoresScoreAndAccumulatesTime(t *testing.T) {
	env := newTestEnv(t)
	traineeID := env.createTrainee(t, "simon")
	questionnaire := env.createQuestionnaire(t, "Graded as you go", nil)

	p, err := env.parcoursService.Start(traineeID, StartParcoursInput{QuestionnaireID: questionnaire.ID})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	q1 := &questionnaire.Questions[0]
	q2 := &questionnaire.Questions[1]
	ids1 := answerIDs(q1)
	ids2 := answerIDs(q2)

	first, err := env.parcoursService.SubmitAnswer(p.ID, traineeID, SubmitAnswerInput{
		QuestionID:      q1.ID,
		SelectedAnswers: []uint{ids1["const"]},
		ResponseTimeSec: 30,
	})
	if err != nil {
		t.Fatalf("submit q1: %v", err)
	}
	if first.Score == nil || *first.Score != 1 {
		t.Errorf("q1 score = %v, want 1", first.Score)
	}

	var storedAnswer model.UserAnswer
	if err := env.db.First(&storedAnswer, first.ID).Error; err != nil {
		t.Fatalf("reload answer: %v", err)
	}
	if storedAnswer.Score == nil || *storedAnswer.Score != 1 {
		t.Errorf("stored q1 score = %v, want 1", storedAnswer.Score)
	}

	stored, err := env.parcours.FindByID(p.ID)
	if err != nil {
		t.Fatalf("reload parcours: %v", err)
	}
	if stored.TimeSpentSec != 30 {
		t.Errorf("time spent = %d, want 30", stored.TimeSpentSec)
	}

	// One hit, one miss on the multi-correct question: 0.5 in standard mode.
	second, err := env.parcoursService.SubmitAnswer(p.ID, traineeID, SubmitAnswerInput{
		QuestionID:      q2.ID,
		SelectedAnswers: []uint{ids2["string"], ids2["tensor"]},
		ResponseTimeSec: 60,
	})
	if err != nil {
		t.Fatalf("submit q2: %v", err)
	}
	if second.Score == nil || *second.Score != 0.5 {
		t.Errorf("q2 score = %v, want 0.5", second.Score)
	}

	stored, err = env.parcours.FindByID(p.ID)
	if err != nil {
		t.Fatalf("reload parcours: %v", err)
	}
	if stored.TimeSpentSec != 90 {
		t.Errorf("time spent = %d, want 90", stored.TimeSpentSec)
	}
}

func TestFinishWithExplicitElapsedTime(t *testing.T) {
	env := newTestEnv(t)
	traineeID := env.createTrainee(t, "timer")
	questionnaire := env.createQuestionnaire(t, "Client timed", nil)

	p, err := env.parcoursService.Start(traineeID, StartParcoursInput{QuestionnaireID: questionnaire.ID})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	q1 := &questionnaire.Questions[0]
	ids1 := answerIDs(q1)
	if _, err := env.parcoursService.SubmitAnswer(p.ID, traineeID, SubmitAnswerInput{
		QuestionID:      q1.ID,
		SelectedAnswers: []uint{ids1["const"]},
		ResponseTimeSec: 30,
	}); err != nil {
		t.Fatalf("submit q1: %v", err)
	}

	negative := -5
	if _, err := env.parcoursService.Finish(p.ID, traineeID, &negative); !util.IsKind(err, util.KindValidation) {
		t.Errorf("negative elapsed err = %v, want validation error", err)
	}

	elapsed := 420
	done, err := env.parcoursService.Finish(p.ID, traineeID, &elapsed)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if done.TimeSpentSec != 420 {
		t.Errorf("time spent = %d, want the client's 420", done.TimeSpentSec)
	}

	stored, err := env.parcours.FindByID(p.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.TimeSpentSec != 420 {
		t.Errorf("stored time spent = %d, want 420", stored.TimeSpentSec)
	}
}

func TestStartRejectsDuplicateOpenParcours(t *testing.T) {
	env := newTestEnv(t)
	traineeID := env.createTrainee(t, "marc")
	questionnaire := env.createQuestionnaire(t, "Single open run", nil)

	if _, err := env.parcoursService.Start(traineeID, StartParcoursInput{QuestionnaireID: questionnaire.ID}); err != nil {
		t.Fatalf("start: %v", err)
	}
	_, err := env.parcoursService.Start(traineeID, StartParcoursInput{QuestionnaireID: questionnaire.ID})
	if !errors.Is(err, util.ErrParcoursInProgress) {
		t.Errorf("err = %v, want parcours in progress", err)
	}
}

func TestStartRejectsEmptyQuestionnaire(t *testing.T) {
	env := newTestEnv(t)
	traineeID := env.createTrainee(t, "nina")

	empty, err := env.questionnaireService.Create(QuestionnaireInput{Name: "Empty"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = env.parcoursService.Start(traineeID, StartParcoursInput{QuestionnaireID: empty.ID})
	if !util.IsKind(err, util.KindValidation) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestTimeLimitAutoAbandon(t *testing.T) {
	env := newTestEnv(t)
	traineeID := env.createTrainee(t, "theo")
	duration := 10
	questionnaire := env.createQuestionnaire(t, "Timed run", &duration)

	p, err := env.parcoursService.Start(traineeID, StartParcoursInput{QuestionnaireID: questionnaire.ID})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	// Backdate the start past the limit.
	past := time.Now().Add(-11 * time.Minute)
	if err := env.db.Model(&model.Parcours{}).Where("id = ?", p.ID).
		Update("started_at", past).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}

	_, err = env.parcoursService.GetDetail(p.ID, traineeID)
	if !errors.Is(err, util.ErrTimeLimitExceeded) {
		t.Fatalf("err = %v, want time limit exceeded", err)
	}

	stored, err := env.parcours.FindByID(p.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != model.StatusAbandoned {
		t.Errorf("status = %q, want ABANDONNE", stored.Status)
	}
	if stored.Score != nil || stored.GradeOn20 != nil {
		t.Error("abandoned parcours must not keep a score")
	}

	// Second read is a plain view of the terminal state, no error.
	detail, err := env.parcoursService.GetDetail(p.ID, traineeID)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if detail.Status != model.StatusAbandoned {
		t.Errorf("status = %q, want ABANDONNE", detail.Status)
	}

	// And the parcours can never be finished.
	if _, err := env.parcoursService.Finish(p.ID, traineeID, nil); !errors.Is(err, util.ErrParcoursNotInProgress) {
		t.Errorf("finish err = %v, want not in progress", err)
	}
}

func TestVoluntaryAbandon(t *testing.T) {
	env := newTestEnv(t)
	traineeID := env.createTrainee(t, "emma")
	questionnaire := env.createQuestionnaire(t, "Abandoned run", nil)

	p, err := env.parcoursService.Start(traineeID, StartParcoursInput{QuestionnaireID: questionnaire.ID})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	abandoned, err := env.parcoursService.Abandon(p.ID, traineeID)
	if err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if abandoned.Status != model.StatusAbandoned {
		t.Errorf("status = %q, want ABANDONNE", abandoned.Status)
	}

	if _, err := env.parcoursService.Abandon(p.ID, traineeID); !errors.Is(err, util.ErrParcoursNotInProgress) {
		t.Errorf("second abandon err = %v, want not in progress", err)
	}
}

func TestOwnershipIsEnforced(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createTrainee(t, "owner")
	intruder := env.createTrainee(t, "intruder")
	questionnaire := env.createQuestionnaire(t, "Private run", nil)

	p, err := env.parcoursService.Start(owner, StartParcoursInput{QuestionnaireID: questionnaire.ID})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := env.parcoursService.GetDetail(p.ID, intruder); !errors.Is(err, util.ErrParcoursNotFound) {
		t.Errorf("err = %v, want parcours not found for foreign trainee", err)
	}
}

func TestListAvailableFlagsTakenQuestionnaires(t *testing.T) {
	env := newTestEnv(t)
	traineeID := env.createTrainee(t, "zoe")
	taken := env.createQuestionnaire(t, "Taken", nil)
	env.createQuestionnaire(t, "Fresh", nil)

	if _, err := env.parcoursService.Start(traineeID, StartParcoursInput{QuestionnaireID: taken.ID}); err != nil {
		t.Fatalf("start: %v", err)
	}

	items, err := env.parcoursService.ListAvailable(traineeID)
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d questionnaires, want 2", len(items))
	}
	for _, item := range items {
		wantTaken := item.ID == taken.ID
		if item.AlreadyTaken != wantTaken {
			t.Errorf("%s: alreadyTaken = %v, want %v", item.Name, item.AlreadyTaken, wantTaken)
		}
	}
}

package service

import (
	"testing"

	"formation_quiz_backend/internal/util"
)

func TestCreateQuestionnaireValidation(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.questionnaireService.Create(QuestionnaireInput{Name: "   "}); !util.IsKind(err, util.KindValidation) {
		t.Errorf("blank name: got %v, want validation error", err)
	}

	zero := 0
	if _, err := env.questionnaireService.Create(QuestionnaireInput{Name: "Timed", DurationMinutes: &zero}); !util.IsKind(err, util.KindValidation) {
		t.Errorf("zero duration: got %v, want validation error", err)
	}

	if _, err := env.questionnaireService.Create(QuestionnaireInput{Name: "Unique"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.questionnaireService.Create(QuestionnaireInput{Name: "Unique"}); !util.IsKind(err, util.KindValidation) {
		t.Errorf("duplicate name: got %v, want validation error", err)
	}
}

func TestQuestionValidation(t *testing.T) {
	env := newTestEnv(t)
	q, err := env.questionnaireService.Create(QuestionnaireInput{Name: "Authoring"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tests := []struct {
		name  string
		input QuestionInput
	}{
		{"blank prompt", QuestionInput{Prompt: " ", Answers: []AnswerInput{
			{Text: "a", IsCorrect: true}, {Text: "b"},
		}}},
		{"single answer", QuestionInput{Prompt: "p", Answers: []AnswerInput{
			{Text: "a", IsCorrect: true},
		}}},
		{"six answers", QuestionInput{Prompt: "p", Answers: []AnswerInput{
			{Text: "a", IsCorrect: true}, {Text: "b"}, {Text: "c"},
			{Text: "d"}, {Text: "e"}, {Text: "f"},
		}}},
		{"no correct answer", QuestionInput{Prompt: "p", Answers: []AnswerInput{
			{Text: "a"}, {Text: "b"},
		}}},
		{"blank answer text", QuestionInput{Prompt: "p", Answers: []AnswerInput{
			{Text: "a", IsCorrect: true}, {Text: "  "},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.questionnaireService.AddQuestion(q.ID, tt.input); !util.IsKind(err, util.KindValidation) {
				t.Errorf("got %v, want validation error", err)
			}
		})
	}
}

func TestQuestionEditBlockedOnceAnswered(t *testing.T) {
	env := newTestEnv(t)
	questionnaire := env.createQuestionnaire(t, "Frozen", nil)
	traineeID := env.createTrainee(t, "editor")

	completeRun(t, env, traineeID, questionnaire, []string{"string", "bool"})

	q1 := questionnaire.Questions[0]
	input := QuestionInput{Prompt: "rewritten", Answers: []AnswerInput{
		{Text: "x", IsCorrect: true}, {Text: "y"},
	}}

	if _, err := env.questionnaireService.UpdateQuestion(q1.ID, input); !util.IsKind(err, util.KindIntegrity) {
		t.Errorf("update answered question: got %v, want integrity error", err)
	}
	if err := env.questionnaireService.DeleteQuestion(q1.ID); !util.IsKind(err, util.KindIntegrity) {
		t.Errorf("delete answered question: got %v, want integrity error", err)
	}
}

func TestQuestionnaireDeleteBlockedByParcours(t *testing.T) {
	env := newTestEnv(t)
	questionnaire := env.createQuestionnaire(t, "Referenced", nil)
	traineeID := env.createTrainee(t, "blocker")

	if _, err := env.parcoursService.Start(traineeID, StartParcoursInput{QuestionnaireID: questionnaire.ID}); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := env.questionnaireService.Delete(questionnaire.ID); !util.IsKind(err, util.KindIntegrity) {
		t.Errorf("delete referenced questionnaire: got %v, want integrity error", err)
	}

	empty, err := env.questionnaireService.Create(QuestionnaireInput{Name: "Disposable"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := env.questionnaireService.Delete(empty.ID); err != nil {
		t.Errorf("delete unused questionnaire: %v", err)
	}
}

func TestQuestionEditableBeforeAnyAnswer(t *testing.T) {
	env := newTestEnv(t)
	questionnaire := env.createQuestionnaire(t, "Editable", nil)

	q1 := questionnaire.Questions[0]
	updated, err := env.questionnaireService.UpdateQuestion(q1.ID, QuestionInput{
		Prompt: "Which keyword declares an immutable binding?",
		Answers: []AnswerInput{
			{Text: "const", IsCorrect: true},
			{Text: "static"},
			{Text: "final"},
			{Text: "let"},
		},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated.Answers) != 4 {
		t.Errorf("answers after update = %d, want 4", len(updated.Answers))
	}
	if updated.Prompt != "Which keyword declares an immutable binding?" {
		t.Errorf("prompt not updated: %q", updated.Prompt)
	}
}

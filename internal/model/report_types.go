package model

import "formation_quiz_backend/internal/scoring"

// Read models returned by the trainee flow and the admin reports.

// swagger:model AvailableQuestionnaire
type AvailableQuestionnaire struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	DurationMinutes *int   `json:"durationMinutes,omitempty"`
	QuestionCount   int    `json:"questionCount"`
	AlreadyTaken    bool   `json:"alreadyTaken"`
}

// swagger:model AnswerOption
type AnswerOption struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// CurrentQuestionView is the next unanswered question of a parcours, with the
// correctness flags stripped.
//
// swagger:model CurrentQuestionView
type CurrentQuestionView struct {
	QuestionID     uint           `json:"questionId"`
	Prompt         string         `json:"prompt"`
	Answers        []AnswerOption `json:"answers"`
	QuestionNumber int            `json:"questionNumber"`
	TotalQuestions int            `json:"totalQuestions"`
}

// swagger:model ParcoursDetail
type ParcoursDetail struct {
	Parcours
	ProgressPercent   float64  `json:"progressPercent"`
	AnsweredQuestions int      `json:"answeredQuestions"`
	TotalQuestions    int      `json:"totalQuestions"`
	RemainingMinutes  *float64 `json:"remainingMinutes,omitempty"`
}

// swagger:model ParcoursResult
type ParcoursResult struct {
	ParcoursID         uint     `json:"parcoursId"`
	QuestionnaireName  string   `json:"questionnaireName"`
	Status             string   `json:"status"`
	Score              *float64 `json:"score,omitempty"`
	GradeOn20          *float64 `json:"gradeOn20,omitempty"`
	AvgTimePerQuestion *float64 `json:"avgTimePerQuestion,omitempty"`
	TimeSpentSec       int      `json:"timeSpentSec"`
	AnsweredQuestions  int      `json:"answeredQuestions"`
	TotalQuestions     int      `json:"totalQuestions"`
	PerformanceTier    string   `json:"performanceTier"`
}

// swagger:model DetailedParcoursResult
type DetailedParcoursResult struct {
	ParcoursResult
	Breakdown       scoring.AttemptBreakdown `json:"breakdown"`
	Recommendations []string                 `json:"recommendations"`
}

// ParcoursRecommendation is the trainee-facing advice for one completed
// parcours.
//
// swagger:model ParcoursRecommendation
type ParcoursRecommendation struct {
	ParcoursID        uint     `json:"parcoursId"`
	QuestionnaireName string   `json:"questionnaireName"`
	GradeOn20         *float64 `json:"gradeOn20,omitempty"`
	Recommendations   []string `json:"recommendations"`
}

// swagger:model ImprovementArea
type ImprovementArea struct {
	QuestionnaireName string   `json:"questionnaireName"`
	GradeOn20         float64  `json:"gradeOn20"`
	Recommendations   []string `json:"recommendations"`
}

// TraineeSynthesis is the admin-facing summary of one trainee.
//
// swagger:model TraineeSynthesis
type TraineeSynthesis struct {
	TraineeID        uint              `json:"traineeId"`
	FirstName        string            `json:"firstName"`
	LastName         string            `json:"lastName"`
	Company          string            `json:"company,omitempty"`
	Stats            TraineeStats      `json:"stats"`
	Level            string            `json:"level"`
	TotalTimeHours   float64           `json:"totalTimeHours"`
	Badges           []string          `json:"badges"`
	ImprovementAreas []ImprovementArea `json:"improvementAreas"`
}

// swagger:model DifficultQuestion
type DifficultQuestion struct {
	QuestionID  uint    `json:"questionId"`
	Prompt      string  `json:"prompt"`
	SuccessRate float64 `json:"successRate"`
	Difficulty  string  `json:"difficulty"`
}

// QuestionnaireReport couples the recomputed aggregate with its weakest
// questions.
//
// swagger:model QuestionnaireReport
type QuestionnaireReport struct {
	QuestionnaireID       uint                `json:"questionnaireId"`
	Name                  string              `json:"name"`
	Stats                 QuestionnaireStats  `json:"stats"`
	Difficulty            string              `json:"difficulty"`
	MeanCompletionMinutes float64             `json:"meanCompletionMinutes"`
	DifficultQuestions    []DifficultQuestion `json:"difficultQuestions"`
}

// swagger:model PopularQuestionnaire
type PopularQuestionnaire struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	ParcoursCount int    `json:"parcoursCount"`
	QuestionCount int    `json:"questionCount"`
}

// GlobalSynthesis is the admin dashboard payload.
//
// swagger:model GlobalSynthesis
type GlobalSynthesis struct {
	TotalTrainees           int                    `json:"totalTrainees"`
	TotalQuestionnaires     int                    `json:"totalQuestionnaires"`
	QuestionnairesWithItems int                    `json:"questionnairesWithQuestions"`
	EmptyQuestionnaires     int                    `json:"emptyQuestionnaires"`
	NewQuestionnaires30d    int                    `json:"newQuestionnaires30d"`
	TotalQuestions          int                    `json:"totalQuestions"`
	AvgQuestionsPerQuiz     float64                `json:"avgQuestionsPerQuestionnaire"`
	TotalParcours           int                    `json:"totalParcours"`
	CompletedParcours       int                    `json:"completedParcours"`
	GlobalMeanScore         *float64               `json:"globalMeanScore,omitempty"`
	PopularQuestionnaires   []PopularQuestionnaire `json:"popularQuestionnaires"`
}

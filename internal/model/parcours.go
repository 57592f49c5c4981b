package model

import "time"

// Parcours status values. EN_COURS is the only non-terminal state.
const (
	StatusInProgress = "EN_COURS"
	StatusCompleted  = "TERMINE"
	StatusAbandoned  = "ABANDONNE"
)

// Parcours is one trainee's run through one questionnaire.
//
// swagger:model Parcours
type Parcours struct {
	BaseModel
	TraineeID       uint      `gorm:"index:idx_parcours_trainee_questionnaire;type:bigint unsigned;not null" json:"traineeId"`
	QuestionnaireID uint      `gorm:"index:idx_parcours_trainee_questionnaire;type:bigint unsigned;not null" json:"questionnaireId"`
	StartedAt       time.Time `json:"startedAt"`
	TimeSpentSec    int       `gorm:"default:0" json:"timeSpentSec"`
	Status          string    `gorm:"size:10;default:'EN_COURS'" json:"status"`
	PenaltyMode     bool      `gorm:"default:false" json:"penaltyMode"`

	// Graded fields, nil until the parcours is completed. Abandons clear them.
	Score              *float64 `json:"score,omitempty"`
	GradeOn20          *float64 `json:"gradeOn20,omitempty"`
	AvgTimePerQuestion *float64 `json:"avgTimePerQuestion,omitempty"`

	Trainee       TraineeProfile `gorm:"foreignKey:TraineeID" json:"trainee,omitempty"`
	Questionnaire Questionnaire  `gorm:"foreignKey:QuestionnaireID" json:"questionnaire,omitempty"`
	UserAnswers   []UserAnswer   `gorm:"foreignKey:ParcoursID" json:"userAnswers,omitempty"`
}

func (Parcours) TableName() string {
	return "parcours"
}

func (p *Parcours) IsTerminal() bool {
	return p.Status != StatusInProgress
}

func (p *Parcours) TimeSpentMinutes() float64 {
	return float64(p.TimeSpentSec) / 60
}

// UserAnswer records one question answered within a parcours. A question may
// be answered at most once per parcours.
//
// swagger:model UserAnswer
type UserAnswer struct {
	BaseModel
	ParcoursID      uint      `gorm:"uniqueIndex:idx_user_answer_parcours_question;type:bigint unsigned;not null" json:"parcoursId"`
	QuestionID      uint      `gorm:"uniqueIndex:idx_user_answer_parcours_question;type:bigint unsigned;not null" json:"questionId"`
	ResponseTimeSec int       `gorm:"default:0" json:"responseTimeSec"`
	AnsweredAt      time.Time `json:"answeredAt"`
	// Score in [0, 1], nil until computed.
	Score *float64 `json:"score,omitempty"`

	Question   Question              `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	Selections []UserAnswerSelection `gorm:"foreignKey:UserAnswerID" json:"selections,omitempty"`
}

func (UserAnswer) TableName() string {
	return "user_answers"
}

// SelectedAnswerIDs returns the ids the trainee picked for this question.
func (ua *UserAnswer) SelectedAnswerIDs() []uint {
	ids := make([]uint, 0, len(ua.Selections))
	for _, s := range ua.Selections {
		ids = append(ids, s.AnswerID)
	}
	return ids
}

// UserAnswerSelection joins a UserAnswer to one selected Answer. The answer
// must belong to the same question as the user answer; the service enforces
// it before writing.
type UserAnswerSelection struct {
	BaseModel
	UserAnswerID uint `gorm:"uniqueIndex:idx_selection_user_answer_answer;type:bigint unsigned;not null" json:"userAnswerId"`
	AnswerID     uint `gorm:"uniqueIndex:idx_selection_user_answer_answer;type:bigint unsigned;not null" json:"answerId"`
}

func (UserAnswerSelection) TableName() string {
	return "user_answer_selections"
}

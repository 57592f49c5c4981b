package model

import (
	"time"

	"formation_quiz_backend/internal/scoring"
)

// Derived aggregate rows, one per summarised entity. Always recomputed from
// the base tables on demand; never the source of truth.

// swagger:model QuestionStats
type QuestionStats struct {
	BaseModel
	QuestionID      uint      `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"questionId"`
	Attempts        int       `gorm:"default:0" json:"attempts"`
	Successes       int       `gorm:"default:0" json:"successes"`
	SuccessRate     float64   `gorm:"default:0" json:"successRate"`
	AvgResponseTime float64   `gorm:"default:0" json:"avgResponseTime"`
	RefreshedAt     time.Time `json:"refreshedAt"`
}

func (QuestionStats) TableName() string {
	return "question_stats"
}

func (s *QuestionStats) Difficulty() string {
	return scoring.QuestionDifficulty(s.SuccessRate)
}

// swagger:model TraineeStats
type TraineeStats struct {
	BaseModel
	TraineeID      uint `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"traineeId"`
	CompletedCount int  `gorm:"default:0" json:"completedCount"`
	// Means are nil when the trainee has no completed parcours; a stored 0
	// would be indistinguishable from a real zero average.
	MeanScore     *float64  `json:"meanScore,omitempty"`
	MeanGradeOn20 *float64  `json:"meanGradeOn20,omitempty"`
	TotalTimeSec  int       `gorm:"default:0" json:"totalTimeSec"`
	Level         string    `gorm:"size:20;default:'Beginner'" json:"level"`
	RefreshedAt   time.Time `json:"refreshedAt"`
}

func (TraineeStats) TableName() string {
	return "trainee_stats"
}

func (s *TraineeStats) TotalTimeHours() float64 {
	return scoring.Round1(float64(s.TotalTimeSec) / 3600)
}

// swagger:model QuestionnaireStats
type QuestionnaireStats struct {
	BaseModel
	QuestionnaireID   uint      `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"questionnaireId"`
	TotalAttempts     int       `gorm:"default:0" json:"totalAttempts"`
	AbandonRate       float64   `gorm:"default:0" json:"abandonRate"`
	MeanScore         *float64  `json:"meanScore,omitempty"`
	MedianScore       *float64  `json:"medianScore,omitempty"`
	MeanCompletionSec int       `gorm:"default:0" json:"meanCompletionSec"`
	RefreshedAt       time.Time `json:"refreshedAt"`
}

func (QuestionnaireStats) TableName() string {
	return "questionnaire_stats"
}

func (s *QuestionnaireStats) MeanCompletionMinutes() float64 {
	return scoring.Round1(float64(s.MeanCompletionSec) / 60)
}

// Difficulty is only meaningful once at least one parcours completed.
func (s *QuestionnaireStats) Difficulty() string {
	if s.MeanScore == nil {
		return "Unrated"
	}
	return scoring.QuestionnaireDifficulty(*s.MeanScore)
}

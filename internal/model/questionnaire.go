package model

// swagger:model Questionnaire
type Questionnaire struct {
	BaseModel
	Name        string `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	// DurationMinutes is the time limit; nil means unlimited.
	DurationMinutes *int `json:"durationMinutes,omitempty"`

	Questions []Question `gorm:"foreignKey:QuestionnaireID" json:"questions,omitempty"`
}

func (Questionnaire) TableName() string {
	return "questionnaires"
}

func (q *Questionnaire) QuestionCount() int {
	return len(q.Questions)
}

// swagger:model Question
type Question struct {
	BaseModel
	QuestionnaireID uint   `gorm:"index;type:bigint unsigned;not null" json:"questionnaireId"`
	Prompt          string `gorm:"type:text;not null" json:"prompt"`

	Answers []Answer `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// CorrectAnswerIDs returns the ids of the answers flagged correct, in the
// order they are stored.
func (q *Question) CorrectAnswerIDs() []uint {
	var ids []uint
	for _, a := range q.Answers {
		if a.IsCorrect {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// swagger:model Answer
type Answer struct {
	BaseModel
	QuestionID uint   `gorm:"index;type:bigint unsigned;not null" json:"questionId"`
	Text       string `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
}

func (Answer) TableName() string {
	return "answers"
}

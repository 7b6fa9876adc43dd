package model

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// QuizAttempt is one learner's scored submission. Rows are append-only:
// they are inserted once by the scoring engine and never updated, a
// re-submission creates a fresh attempt. The submitted answers are stored
// verbatim for audit.
// swagger:model QuizAttempt
type QuizAttempt struct {
	UUIDBase
	QuizID           uint           `gorm:"index;not null" json:"quizId"`
	CourseID         uint           `gorm:"index;not null" json:"courseId"`
	UserID           *uint          `gorm:"index" json:"userId,omitempty"`
	FullName         string         `gorm:"size:120;not null" json:"fullName"`
	CollegiateNumber string         `gorm:"size:50;not null" json:"collegiateNumber"`
	Answers          datatypes.JSON `gorm:"type:json" json:"answers"`
	ScorePercent     int            `gorm:"not null" json:"scorePercent"`
	Passed           bool           `gorm:"not null;index" json:"passed"`
	// VerifyCode is set iff the attempt passed.
	VerifyCode *string `gorm:"size:40;uniqueIndex" json:"verifyCode,omitempty"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// AnswerMap decodes the stored answers column back into questionId -> choice.
func (a *QuizAttempt) AnswerMap() (map[uint]ChoiceOption, error) {
	out := make(map[uint]ChoiceOption)
	if len(a.Answers) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(a.Answers, &out); err != nil {
		return nil, err
	}
	return out, nil
}

package model

// QuizQuestionCount is fixed: every quiz carries exactly ten questions.
const QuizQuestionCount = 10

const DefaultPassPercent = 80

// swagger:model Quiz
type Quiz struct {
	BaseModel
	CourseID    uint    `gorm:"index;not null" json:"courseId"`
	Course      *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Title       string  `gorm:"size:255" json:"title"`
	PassPercent int     `gorm:"default:80" json:"passPercent"`
	Enabled     bool    `gorm:"default:false;index" json:"enabled"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// ChoiceOption is one of the three answer keys of a question.
type ChoiceOption string

const (
	ChoiceA ChoiceOption = "A"
	ChoiceB ChoiceOption = "B"
	ChoiceC ChoiceOption = "C"
)

func (c ChoiceOption) Valid() bool {
	return c == ChoiceA || c == ChoiceB || c == ChoiceC
}

// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	QuizID        uint         `gorm:"index;not null" json:"quizId"`
	Prompt        string       `gorm:"type:text;not null" json:"prompt"`
	OptionA       string       `gorm:"type:text" json:"optionA"`
	OptionB       string       `gorm:"type:text" json:"optionB"`
	OptionC       string       `gorm:"type:text" json:"optionC"`
	CorrectOption ChoiceOption `gorm:"type:varchar(1);not null" json:"-"`
	SortOrder     int          `gorm:"default:0" json:"sortOrder"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

package model

// Course is read-only here: the catalog is maintained by the course
// administration collaborator. Only title, duration and publication state
// matter to scoring and certificate issuance.
// swagger:model Course
type Course struct {
	BaseModel
	Title           string `gorm:"size:255;not null" json:"title"`
	Description     string `gorm:"type:text" json:"description"`
	DurationSeconds int    `gorm:"default:0" json:"durationSeconds"`
	Published       bool   `gorm:"default:false;index" json:"published"`
}

func (Course) TableName() string {
	return "courses"
}

package repository

import (
	"aula_virtual_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var q model.Quiz
	err := r.DB.First(&q, id).Error
	return &q, err
}

// ListQuestions returns the answer key in presentation order.
func (r *QuizRepository) ListQuestions(quizID uint) ([]model.QuizQuestion, error) {
	var qs []model.QuizQuestion
	err := r.DB.Where("quiz_id = ?", quizID).
		Order("sort_order asc, id asc").
		Find(&qs).Error
	return qs, err
}

package repository

import (
	"aula_virtual_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// Create inserts a scored attempt. Attempts are append-only: there is no
// update method on this repository on purpose.
func (r *AttemptRepository) Create(a *model.QuizAttempt) error {
	return r.DB.Create(a).Error
}

func (r *AttemptRepository) FindByID(id string) (*model.QuizAttempt, error) {
	var a model.QuizAttempt
	err := r.DB.Where("id = ?", id).First(&a).Error
	return &a, err
}

func (r *AttemptRepository) ListByUser(userID uint, page, limit int) ([]model.QuizAttempt, int64, error) {
	var as []model.QuizAttempt
	var total int64
	query := r.DB.Model(&model.QuizAttempt{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&as).Error
	return as, total, err
}

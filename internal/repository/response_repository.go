package repository

import (
	"tedp_backend/internal/model"

	"gorm.io/gorm"
)

type ResponseRepository struct {
	DB *gorm.DB
}

func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{DB: db}
}

func (r *ResponseRepository) CreateTx(tx *gorm.DB, resp *model.SurveyResponse) error {
	return tx.Create(resp).Error
}

func (r *ResponseRepository) FindByID(id uint) (*model.SurveyResponse, error) {
	var resp model.SurveyResponse
	err := r.DB.Preload("Answers").First(&resp, id).Error
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *ResponseRepository) ListByPassation(passationID uint, page, limit int) ([]model.SurveyResponse, int64, error) {
	var responses []model.SurveyResponse
	var total int64

	query := r.DB.Model(&model.SurveyResponse{}).Where("passation_id = ?", passationID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Preload("Answers").
		Order("submitted_at asc").Offset(offset).Limit(limit).Find(&responses).Error
	return responses, total, err
}

// ListAllByPassation loads every response with answers, for CSV export.
func (r *ResponseRepository) ListAllByPassation(passationID uint) ([]model.SurveyResponse, error) {
	var responses []model.SurveyResponse
	err := r.DB.Where("passation_id = ?", passationID).
		Preload("Answers").Order("submitted_at asc").Find(&responses).Error
	return responses, err
}

func (r *ResponseRepository) CountByPassation(passationID uint) (int64, error) {
	var total int64
	err := r.DB.Model(&model.SurveyResponse{}).
		Where("passation_id = ?", passationID).Count(&total).Error
	return total, err
}

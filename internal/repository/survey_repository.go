package repository

import (
	"tedp_backend/internal/model"

	"gorm.io/gorm"
)

type SurveyRepository struct {
	DB *gorm.DB
}

func NewSurveyRepository(db *gorm.DB) *SurveyRepository {
	return &SurveyRepository{DB: db}
}

func (r *SurveyRepository) Create(survey *model.Survey) error {
	return r.DB.Create(survey).Error
}

func (r *SurveyRepository) FindByID(id uint) (*model.Survey, error) {
	var s model.Survey
	err := r.DB.First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindByIDWithQuestions preloads questions in display order.
func (r *SurveyRepository) FindByIDWithQuestions(id uint) (*model.Survey, error) {
	var s model.Survey
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("`order` asc")
	}).First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SurveyRepository) List(page, limit int) ([]model.Survey, int64, error) {
	var surveys []model.Survey
	var total int64

	query := r.DB.Model(&model.Survey{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&surveys).Error
	return surveys, total, err
}

func (r *SurveyRepository) Update(survey *model.Survey) error {
	return r.DB.Save(survey).Error
}

func (r *SurveyRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Survey{}, id).Error
}

func (r *SurveyRepository) CreateQuestion(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *SurveyRepository) FindQuestionByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *SurveyRepository) ListQuestions(surveyID uint) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Where("survey_id = ?", surveyID).Order("`order` asc").Find(&qs).Error
	return qs, err
}

func (r *SurveyRepository) UpdateQuestion(q *model.Question) error {
	return r.DB.Save(q).Error
}

func (r *SurveyRepository) DeleteQuestion(id uint) error {
	return r.DB.Delete(&model.Question{}, id).Error
}

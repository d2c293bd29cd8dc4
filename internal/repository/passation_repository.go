package repository

import (
	"tedp_backend/internal/model"

	"gorm.io/gorm"
)

type PassationRepository struct {
	DB *gorm.DB
}

func NewPassationRepository(db *gorm.DB) *PassationRepository {
	return &PassationRepository{DB: db}
}

func (r *PassationRepository) Create(p *model.Passation) error {
	return r.DB.Create(p).Error
}

func (r *PassationRepository) FindByID(id uint) (*model.Passation, error) {
	var p model.Passation
	err := r.DB.Preload("Groups").First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PassationRepository) List(page, limit int, status string, schoolID *uint) ([]model.Passation, int64, error) {
	var ps []model.Passation
	var total int64

	query := r.DB.Model(&model.Passation{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if schoolID != nil {
		query = query.Where("school_id = ?", *schoolID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Preload("Survey").Preload("Groups").
		Order("created_at desc").Offset(offset).Limit(limit).Find(&ps).Error
	return ps, total, err
}

func (r *PassationRepository) Update(p *model.Passation) error {
	return r.DB.Save(p).Error
}

func (r *PassationRepository) CreateGroup(g *model.Group) error {
	return r.DB.Create(g).Error
}

func (r *PassationRepository) ListGroups(passationID uint) ([]model.Group, error) {
	var gs []model.Group
	err := r.DB.Where("passation_id = ?", passationID).Order("name asc").Find(&gs).Error
	return gs, err
}

func (r *PassationRepository) DeleteGroup(id uint) error {
	return r.DB.Delete(&model.Group{}, id).Error
}

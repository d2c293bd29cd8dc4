package repository

import (
	"time"

	"tedp_backend/internal/model"

	"gorm.io/gorm"
)

type AccessCodeRepository struct {
	DB *gorm.DB
}

func NewAccessCodeRepository(db *gorm.DB) *AccessCodeRepository {
	return &AccessCodeRepository{DB: db}
}

func (r *AccessCodeRepository) CreateBatch(codes []model.AccessCode) error {
	return r.DB.Create(&codes).Error
}

func (r *AccessCodeRepository) FindByPIN(pin string) (*model.AccessCode, error) {
	var c model.AccessCode
	err := r.DB.Where("pin = ?", pin).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *AccessCodeRepository) List(passationID uint, page, limit int, onlyUnused bool) ([]model.AccessCode, int64, error) {
	var codes []model.AccessCode
	var total int64

	query := r.DB.Model(&model.AccessCode{}).Where("passation_id = ?", passationID)
	if onlyUnused {
		query = query.Where("used_at IS NULL")
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at asc").Offset(offset).Limit(limit).Find(&codes).Error
	return codes, total, err
}

func (r *AccessCodeRepository) ExistingPINs(passationID uint) (map[string]bool, error) {
	var pins []string
	err := r.DB.Model(&model.AccessCode{}).Where("passation_id = ?", passationID).
		Pluck("pin", &pins).Error
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(pins))
	for _, p := range pins {
		set[p] = true
	}
	return set, nil
}

// ConsumeTx marks the code used inside an existing transaction, guarded
// against a concurrent consumer of the same code.
func (r *AccessCodeRepository) ConsumeTx(tx *gorm.DB, codeID uint, at time.Time) error {
	res := tx.Model(&model.AccessCode{}).
		Where("id = ? AND used_at IS NULL", codeID).
		Update("used_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

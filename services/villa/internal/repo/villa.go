package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/magicvilla/villa-booking/services/villa/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

type VillaFilter struct {
	Occupancy int
	Search    string
	Offset    int
	Limit     int
}

func (r *GormRepo) GetVilla(ctx context.Context, id uint) (*models.Villa, error) {
	var villa models.Villa
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&villa).Error; err != nil {
		return nil, err
	}
	return &villa, nil
}

func (r *GormRepo) ListVillas(ctx context.Context, f VillaFilter) (int64, []models.Villa, error) {
	q := r.DB.WithContext(ctx).Model(&models.Villa{})
	if f.Occupancy > 0 {
		q = q.Where("occupancy = ?", f.Occupancy)
	}
	if f.Search != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+f.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Villa, 0, f.Limit)
	if err := q.Order("id ASC").Offset(f.Offset).Limit(f.Limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateVilla(ctx context.Context, villa *models.Villa) error {
	return r.DB.WithContext(ctx).Create(villa).Error
}

func (r *GormRepo) SaveVilla(ctx context.Context, villa *models.Villa) error {
	return r.DB.WithContext(ctx).Save(villa).Error
}

func (r *GormRepo) DeleteVilla(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Villa{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/magicvilla/villa-booking/services/villa/internal/models"
)

func (r *GormRepo) GetVillaNumber(ctx context.Context, villaNo int) (*models.VillaNumber, error) {
	var vn models.VillaNumber
	err := r.DB.WithContext(ctx).
		Preload("Villa").
		Where("villa_no = ?", villaNo).
		First(&vn).Error
	if err != nil {
		return nil, err
	}
	return &vn, nil
}

func (r *GormRepo) ListVillaNumbers(ctx context.Context, offset, limit int) (int64, []models.VillaNumber, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.VillaNumber{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.VillaNumber, 0, limit)
	err := r.DB.WithContext(ctx).
		Preload("Villa").
		Order("villa_no ASC").
		Offset(offset).Limit(limit).
		Find(&items).Error
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateVillaNumber(ctx context.Context, vn *models.VillaNumber) error {
	return r.DB.WithContext(ctx).Create(vn).Error
}

func (r *GormRepo) SaveVillaNumber(ctx context.Context, vn *models.VillaNumber) error {
	return r.DB.WithContext(ctx).Save(vn).Error
}

func (r *GormRepo) DeleteVillaNumber(ctx context.Context, villaNo int) error {
	res := r.DB.WithContext(ctx).Delete(&models.VillaNumber{}, villaNo)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) VillaExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.Villa{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

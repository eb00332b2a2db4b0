package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/magicvilla/villa-booking/services/auth/internal/domain"
	"github.com/magicvilla/villa-booking/services/auth/internal/models"
)

func rolesByID(db *gorm.DB) *gorm.DB {
	return db.Order("roles.id ASC")
}

// FindByUsername matches case-insensitively, the same collation the duplicate
// check at registration uses.
func (r *GormRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).
		Preload("Roles", rolesByID).
		Where("LOWER(username) = LOWER(?)", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).
		Preload("Roles", rolesByID).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts the user and assigns roleName, creating the role row if
// it does not exist yet. The case-insensitive duplicate check and the insert
// share one transaction.
func (r *GormRepo) CreateUser(ctx context.Context, user *models.User, roleName string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("LOWER(username) = LOWER(?)", user.Username).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrDuplicateUsername
		}

		role := models.Role{Name: roleName}
		if err := tx.Where("name = ?", roleName).FirstOrCreate(&role).Error; err != nil {
			return err
		}

		user.Roles = []models.Role{role}
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrDuplicateUsername
			}
			return err
		}
		return nil
	})
}

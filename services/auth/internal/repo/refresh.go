package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/magicvilla/villa-booking/services/auth/internal/models"
)

// ErrRotationConflict means a concurrent refresh invalidated the row between
// our read and our write. The guard treats the loser of the race exactly like
// a reuse of an already-rotated token.
var ErrRotationConflict = errors.New("refresh token already rotated")

func (r *GormRepo) CreateRefreshToken(ctx context.Context, rt *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(rt).Error
}

func (r *GormRepo) FindRefreshByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("token = ?", tokenHash).First(&rt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &rt, nil
}

// InvalidateRefresh flips a single row to invalid. Idempotent on a stale row.
func (r *GormRepo) InvalidateRefresh(ctx context.Context, tokenHash string) error {
	return r.DB.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("token = ?", tokenHash).
		Update("valid", false).Error
}

// RevokeFamily invalidates every token sharing a (user id, jti) chain. Called
// when reuse of a rotated-out token signals possible theft: the whole session
// chain dies and the user must log in again.
func (r *GormRepo) RevokeFamily(ctx context.Context, userID uuid.UUID, jti string) (int64, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("user_id = ? AND jti = ?", userID, jti).
		Update("valid", false)
	return res.RowsAffected, res.Error
}

// ConsumeRefresh retires the presented token and persists its replacement in
// one transaction. The guarded UPDATE only matches a still-valid row, so of
// two concurrent refreshes exactly one sees RowsAffected == 1; the other gets
// ErrRotationConflict and is treated as a reuse.
func (r *GormRepo) ConsumeRefresh(ctx context.Context, oldHash string, next *models.RefreshToken) error {
	return r.InTx(ctx, func(tx *GormRepo) error {
		res := tx.DB.
			Model(&models.RefreshToken{}).
			Where("token = ? AND valid = ?", oldHash, true).
			Update("valid", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRotationConflict
		}
		return tx.DB.Create(next).Error
	})
}

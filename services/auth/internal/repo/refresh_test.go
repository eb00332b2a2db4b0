package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/magicvilla/villa-booking/services/auth/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Role{}, &models.RefreshToken{}))
	return &GormRepo{DB: db}
}

func seedToken(t *testing.T, r *GormRepo, hash string, userID uuid.UUID, jti string, valid bool) {
	t.Helper()
	require.NoError(t, r.DB.Create(&models.RefreshToken{
		Token:     hash,
		UserID:    userID,
		JTI:       jti,
		ExpiresAt: 1<<62 - 1,
		Valid:     valid,
	}).Error)
}

func TestConsumeRefresh_WinnerTakesRow(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	seedToken(t, r, "old-hash", userID, "fam", true)

	next := &models.RefreshToken{Token: "new-hash", UserID: userID, JTI: "fam", ExpiresAt: 1<<62 - 1, Valid: true}
	require.NoError(t, r.ConsumeRefresh(ctx, "old-hash", next))

	var old models.RefreshToken
	require.NoError(t, r.DB.Where("token = ?", "old-hash").First(&old).Error)
	assert.False(t, old.Valid)

	var created models.RefreshToken
	require.NoError(t, r.DB.Where("token = ?", "new-hash").First(&created).Error)
	assert.True(t, created.Valid)
}

// The compare-and-swap must refuse a row someone else already rotated, and
// must not leave a half-applied replacement behind.
func TestConsumeRefresh_ConflictRollsBack(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	seedToken(t, r, "old-hash", userID, "fam", false)

	next := &models.RefreshToken{Token: "new-hash", UserID: userID, JTI: "fam", ExpiresAt: 1<<62 - 1, Valid: true}
	err := r.ConsumeRefresh(ctx, "old-hash", next)
	assert.ErrorIs(t, err, ErrRotationConflict)

	var count int64
	require.NoError(t, r.DB.Model(&models.RefreshToken{}).
		Where("token = ?", "new-hash").Count(&count).Error)
	assert.Equal(t, int64(0), count, "loser must not insert a replacement row")
}

func TestRevokeFamily_OnlyTouchesItsChain(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	seedToken(t, r, "a1", alice, "fam-a", true)
	seedToken(t, r, "a2", alice, "fam-a", true)
	seedToken(t, r, "a3", alice, "fam-b", true)
	seedToken(t, r, "b1", bob, "fam-a", true)

	n, err := r.RevokeFamily(ctx, alice, "fam-a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var survivors []models.RefreshToken
	require.NoError(t, r.DB.Where("valid = ?", true).Order("token ASC").Find(&survivors).Error)
	require.Len(t, survivors, 2)
	assert.Equal(t, "a3", survivors[0].Token, "alice's other family must survive")
	assert.Equal(t, "b1", survivors[1].Token, "bob's chain must survive")
}

func TestInvalidateRefresh_Idempotent(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	seedToken(t, r, "h", uuid.New(), "fam", true)
	require.NoError(t, r.InvalidateRefresh(ctx, "h"))
	require.NoError(t, r.InvalidateRefresh(ctx, "h"))
	require.NoError(t, r.InvalidateRefresh(ctx, "missing"))
}

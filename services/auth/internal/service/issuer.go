package service

import (
	"context"
	"time"

	"github.com/magicvilla/villa-booking/pkg/tokens"
	"github.com/magicvilla/villa-booking/services/auth/internal/models"
	"github.com/magicvilla/villa-booking/services/auth/internal/repo"
)

// Token lifetime policy. Access tokens are short-lived on purpose: the
// rotation guard only ever sees them after expiry. Refresh tokens outlive
// them by orders of magnitude and are rotated on every use.
const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenIssuer mints access/refresh pairs. The jti ties every token of one
// login session together: fresh on login, reused across rotations.
type TokenIssuer struct {
	JWTSecret []byte
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

// Issue mints the pair and persists the refresh row through r, which may be
// transaction-scoped when called from the rotation guard.
func (i *TokenIssuer) Issue(ctx context.Context, r *repo.GormRepo, user *models.User, jti string) (*TokenPair, error) {
	now := time.Now().UTC()
	accessExp := now.Add(AccessTokenTTL)
	refreshExp := now.Add(RefreshTokenTTL)

	accessToken, err := tokens.SignAccessToken(user.ID.String(), user.PrimaryRole(), jti, i.JWTSecret, accessExp)
	if err != nil {
		return nil, err
	}

	refreshSecret, err := tokens.NewRefreshSecret()
	if err != nil {
		return nil, err
	}

	row := models.RefreshToken{
		Token:     tokens.Sha256Hex(refreshSecret),
		UserID:    user.ID,
		JTI:       jti,
		ExpiresAt: refreshExp.Unix(),
		Valid:     true,
	}
	if err := r.CreateRefreshToken(ctx, &row); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshSecret,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

// mintRotated is the rotation variant of Issue: same jti, but the new refresh
// row is created through ConsumeRefresh so the old row dies in the same
// statement sequence.
func (i *TokenIssuer) mintRotated(ctx context.Context, tx *repo.GormRepo, user *models.User, jti, oldHash string) (*TokenPair, error) {
	now := time.Now().UTC()
	accessExp := now.Add(AccessTokenTTL)
	refreshExp := now.Add(RefreshTokenTTL)

	accessToken, err := tokens.SignAccessToken(user.ID.String(), user.PrimaryRole(), jti, i.JWTSecret, accessExp)
	if err != nil {
		return nil, err
	}

	refreshSecret, err := tokens.NewRefreshSecret()
	if err != nil {
		return nil, err
	}

	row := models.RefreshToken{
		Token:     tokens.Sha256Hex(refreshSecret),
		UserID:    user.ID,
		JTI:       jti,
		ExpiresAt: refreshExp.Unix(),
		Valid:     true,
	}
	if err := tx.ConsumeRefresh(ctx, oldHash, &row); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshSecret,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

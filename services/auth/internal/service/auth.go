package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	pkg_hash "github.com/magicvilla/villa-booking/pkg/hash"
	"github.com/magicvilla/villa-booking/pkg/logging"
	"github.com/magicvilla/villa-booking/pkg/mykafka"
	"github.com/magicvilla/villa-booking/pkg/tokens"
	"github.com/magicvilla/villa-booking/services/auth/internal/domain"
	"github.com/magicvilla/villa-booking/services/auth/internal/models"
	"github.com/magicvilla/villa-booking/services/auth/internal/repo"
)

const securityTopic = "security_events"

type AuthService struct {
	Repo     *repo.GormRepo
	Issuer   *TokenIssuer
	Producer *mykafka.Producer
}

// Register creates the credential record and assigns the requested role,
// creating the role on first use. No tokens are issued here.
func (h *AuthService) Register(ctx context.Context, username, password, displayName, role string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if username == "" || password == "" {
		return nil, domain.ErrValidation
	}
	if role == "" {
		role = "customer"
	}
	if displayName == "" {
		displayName = username
	}

	pwHash, err := pkg_hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: pwHash,
		DisplayName:  displayName,
	}
	if err := h.Repo.CreateUser(ctx, &user, role); err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			l.Warn("register_conflict", "username", username)
			return nil, domain.ErrDuplicateUsername
		}
		l.Error("register_error", "error", err)
		return nil, err
	}

	l.Info("register_success", "user_id", user.ID.String(), "role", role)
	return &user, nil
}

// Login verifies credentials and issues a fresh token family. Absent user and
// wrong password are deliberately indistinguishable: both burn a bcrypt
// comparison and both answer ErrInvalidCredentials.
func (h *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if username == "" || password == "" {
		return nil, domain.ErrValidation
	}

	user, err := h.Repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			pkg_hash.BurnComparison(password)
			l.Warn("login_failed", "reason", "invalid credentials")
			return nil, domain.ErrInvalidCredentials
		}
		l.Error("login_failed", "error", err)
		return nil, err
	}

	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "invalid credentials")
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := h.Issuer.Issue(ctx, h.Repo, user, tokens.NewJTI())
	if err != nil {
		l.Error("login_failed", "error", err)
		return nil, err
	}

	l.Info("login_success", "user_id", user.ID.String())
	return pair, nil
}

// Refresh is the rotation guard. Checks run in order and short-circuit; the
// punitive invalidations on the failure paths are single-statement updates
// that commit even though the request fails, and the successful rotation is
// a compare-and-swap so concurrent refreshes of one token cannot both win.
func (h *AuthService) Refresh(ctx context.Context, accessToken, refreshSecret string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	if accessToken == "" || refreshSecret == "" {
		return nil, domain.ErrValidation
	}

	rt, err := h.Repo.FindRefreshByHash(ctx, tokens.Sha256Hex(refreshSecret))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("refresh_failed", "reason", "unknown token")
			return nil, domain.ErrUnknownToken
		}
		return nil, err
	}

	// Signature must verify; expiry must not, the access token is expected
	// to be stale by now.
	claims, err := tokens.AccessClaimsFromExpiredToken(accessToken, h.Issuer.JWTSecret)
	if err != nil {
		l.Warn("refresh_failed", "reason", "malformed access token", "error", err)
		return nil, domain.ErrMalformedAccessToken
	}

	if claims.Subject != rt.UserID.String() || claims.ID != rt.JTI {
		if err := h.Repo.InvalidateRefresh(ctx, rt.Token); err != nil {
			return nil, err
		}
		h.emitSecurityEvent(ctx, l, "token_mismatch", rt, 1)
		return nil, domain.ErrTokenMismatch
	}

	if !rt.Valid {
		return nil, h.revokeFamily(ctx, l, rt)
	}

	if rt.ExpiresAt < time.Now().UTC().Unix() {
		if err := h.Repo.InvalidateRefresh(ctx, rt.Token); err != nil {
			return nil, err
		}
		l.Warn("refresh_failed", "reason", "expired", "user_id", rt.UserID.String())
		return nil, domain.ErrTokenExpired
	}

	user, err := h.Repo.GetUserByID(ctx, rt.UserID)
	if err != nil {
		return nil, err
	}

	pair, err := h.Issuer.mintRotated(ctx, h.Repo, user, rt.JTI, rt.Token)
	if err != nil {
		if errors.Is(err, repo.ErrRotationConflict) {
			// Lost the race to a concurrent rotation of the same token;
			// same treatment as replaying a rotated-out token.
			return nil, h.revokeFamily(ctx, l, rt)
		}
		l.Error("refresh_failed", "error", err)
		return nil, err
	}

	l.Info("refresh_success", "user_id", user.ID.String(), "jti", rt.JTI)
	return pair, nil
}

// LogOut revokes the presented refresh token. Unknown tokens are ignored so
// logout stays idempotent.
func (h *AuthService) LogOut(ctx context.Context, refreshSecret string) error {
	if refreshSecret == "" {
		return nil
	}
	return h.Repo.InvalidateRefresh(ctx, tokens.Sha256Hex(refreshSecret))
}

func (h *AuthService) revokeFamily(ctx context.Context, l *slog.Logger, rt *models.RefreshToken) error {
	revoked, err := h.Repo.RevokeFamily(ctx, rt.UserID, rt.JTI)
	if err != nil {
		return err
	}
	l.Warn("refresh_reuse_detected",
		"user_id", rt.UserID.String(),
		"jti", rt.JTI,
		"revoked", revoked,
	)
	h.emitSecurityEvent(ctx, l, "reuse_detected", rt, revoked)
	return domain.ErrReuseDetected
}

// emitSecurityEvent publishes the audit event best-effort; a broker outage
// must not turn a handled fraud signal into a 500.
func (h *AuthService) emitSecurityEvent(ctx context.Context, l *slog.Logger, kind string, rt *models.RefreshToken, affected int64) {
	event := map[string]any{
		"type":     kind,
		"userID":   rt.UserID.String(),
		"jti":      rt.JTI,
		"affected": affected,
		"at":       time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.Producer.PublishEvent(ctx, securityTopic, rt.UserID.String(), event); err != nil {
		l.Error("security_event_publish_failed", "type", kind, "error", err)
	}
}

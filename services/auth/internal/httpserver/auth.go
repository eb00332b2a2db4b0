package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/magicvilla/villa-booking/pkg/logging"
	"github.com/magicvilla/villa-booking/services/auth/internal/domain"
	"github.com/magicvilla/villa-booking/services/auth/internal/service"
	"github.com/magicvilla/villa-booking/services/auth/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func fail(c echo.Context, status int, err error) error {
	msg := "temporarily unavailable, retry"
	if domain.Terminal(err) {
		msg = err.Error()
	}
	return c.JSON(status, transport.ErrorResponse{
		Error:   domain.Kind(err),
		Message: msg,
	})
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, domain.ErrValidation)
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Password, req.DisplayName, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateUsername):
			return fail(c, http.StatusBadRequest, err)
		case errors.Is(err, domain.ErrValidation):
			return fail(c, http.StatusBadRequest, err)
		default:
			return fail(c, http.StatusServiceUnavailable, err)
		}
	}

	roles := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, r.Name)
	}
	return c.JSON(http.StatusCreated, transport.UserResponse{
		ID:          user.ID.String(),
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Roles:       roles,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, domain.ErrValidation)
	}

	pair, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return fail(c, http.StatusBadRequest, err)
		case errors.Is(err, domain.ErrInvalidCredentials):
			return fail(c, http.StatusUnauthorized, err)
		default:
			return fail(c, http.StatusServiceUnavailable, err)
		}
	}

	return c.JSON(http.StatusOK, tokenResponse(pair))
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("refresh_error", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, domain.ErrValidation)
	}

	pair, err := h.Svc.Refresh(ctx, req.AccessToken, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return fail(c, http.StatusBadRequest, err)
		case domain.Terminal(err):
			return fail(c, http.StatusUnauthorized, err)
		default:
			return fail(c, http.StatusServiceUnavailable, err)
		}
	}

	return c.JSON(http.StatusOK, tokenResponse(pair))
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, domain.ErrValidation)
	}

	if err := h.Svc.LogOut(ctx, req.RefreshToken); err != nil {
		l.Error("logout_failed", "error", err)
		return fail(c, http.StatusServiceUnavailable, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func tokenResponse(pair *service.TokenPair) transport.TokenResponse {
	return transport.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		AccessExp:    pair.AccessExp.Unix(),
		RefreshExp:   pair.RefreshExp.Unix(),
	}
}

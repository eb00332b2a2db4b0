package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/magicvilla/villa-booking/pkg/authclient"
	"github.com/magicvilla/villa-booking/pkg/cookies"
	"github.com/magicvilla/villa-booking/pkg/logging"
)

// SessionHTTP turns the auth service's token API into a browser session: the
// token pair never reaches the client as JSON, only as HttpOnly cookies.
type SessionHTTP struct {
	Auth *authclient.Client
}

func (h *SessionHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "session.register")

	var req authclient.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Auth.Register(ctx, req)
	if err != nil {
		return h.authError(l, "register_failed", err)
	}

	l.Info("register_success", "username", user.Username)
	return c.JSON(http.StatusCreated, user)
}

func (h *SessionHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "session.login")

	var req authclient.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pair, err := h.Auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		return h.authError(l, "login_failed", err)
	}

	c.SetCookie(cookies.Create("accessToken", pair.AccessToken, "/", time.Unix(pair.AccessExp, 0)))
	c.SetCookie(cookies.Create("refreshToken", pair.RefreshToken, "/", time.Unix(pair.RefreshExp, 0)))

	l.Info("login_success")
	return c.JSON(http.StatusOK, map[string]any{
		"accessExp":  pair.AccessExp,
		"refreshExp": pair.RefreshExp,
	})
}

func (h *SessionHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "session.logout")

	access, aErr := c.Cookie("accessToken")
	refresh, rErr := c.Cookie("refreshToken")
	if aErr == nil && rErr == nil && access.Value != "" && refresh.Value != "" {
		if err := h.Auth.Logout(ctx, access.Value, refresh.Value); err != nil {
			l.Warn("logout_revoke_failed", "error", err)
		}
	}

	c.SetCookie(cookies.Delete("accessToken", "/"))
	c.SetCookie(cookies.Delete("refreshToken", "/"))

	l.Info("logout_success")
	return c.NoContent(http.StatusNoContent)
}

func (h *SessionHTTP) authError(l *slog.Logger, event string, err error) error {
	var se *authclient.StatusError
	if errors.As(err, &se) {
		l.Warn(event, "status", se.Code)
		return echo.NewHTTPError(se.Code, http.StatusText(se.Code))
	}
	l.Error(event, "error", err)
	return echo.NewHTTPError(http.StatusBadGateway, "auth service unavailable")
}

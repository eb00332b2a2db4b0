package authmw

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/magicvilla/villa-booking/pkg/authclient"
	"github.com/magicvilla/villa-booking/pkg/cookies"
	"github.com/magicvilla/villa-booking/pkg/tokens"
)

// AutoRefresh authenticates browser sessions carried in HttpOnly cookies.
// When the access token has expired but a refresh token is present, it calls
// the auth service to rotate the pair and replaces both cookies before the
// request continues. Any other token problem clears the session.
type AutoRefresh struct {
	JWTSecret  []byte
	AuthClient *authclient.Client
}

func NewAutoRefresh(secret []byte, client *authclient.Client) *AutoRefresh {
	return &AutoRefresh{JWTSecret: secret, AuthClient: client}
}

func (m *AutoRefresh) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.withValidator(next, nil)
}

func (m *AutoRefresh) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.withValidator(next, func(claims *tokens.AccessClaims) error {
		if claims.Role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return nil
	})
}

func (m *AutoRefresh) withValidator(next echo.HandlerFunc, validator validatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		accessCookie, err := c.Cookie("accessToken")
		if err != nil || accessCookie.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(accessCookie.Value, m.JWTSecret)
		if err == nil && claims != nil {
			if validator != nil {
				if vErr := validator(claims); vErr != nil {
					return vErr
				}
			}
			setSession(c, claims, accessCookie.Value)
			return next(c)
		}

		if !errors.Is(err, jwt.ErrTokenExpired) {
			clearSession(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}

		refreshCookie, rErr := c.Cookie("refreshToken")
		if rErr != nil || refreshCookie.Value == "" {
			clearSession(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
		}

		resp, refErr := m.AuthClient.RefreshTokens(
			c.Request().Context(),
			accessCookie.Value,
			refreshCookie.Value,
		)
		if refErr != nil {
			clearSession(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
		}

		c.SetCookie(cookies.Create("accessToken", resp.AccessToken, "/", time.Unix(resp.AccessExp, 0)))
		c.SetCookie(cookies.Create("refreshToken", resp.RefreshToken, "/", time.Unix(resp.RefreshExp, 0)))

		newClaims, pErr := tokens.AccessClaimsFromToken(resp.AccessToken, m.JWTSecret)
		if pErr != nil || newClaims == nil {
			clearSession(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "new access token invalid")
		}

		if validator != nil {
			if vErr := validator(newClaims); vErr != nil {
				clearSession(c)
				return vErr
			}
		}

		setSession(c, newClaims, resp.AccessToken)
		return next(c)
	}
}

func clearSession(c echo.Context) {
	c.SetCookie(cookies.Delete("accessToken", "/"))
	c.SetCookie(cookies.Delete("refreshToken", "/"))
}

// setSession records the caller identity and rewrites the Authorization
// header so downstream services see a bearer token instead of cookies.
func setSession(c echo.Context, claims *tokens.AccessClaims, accessToken string) {
	c.Set("user_id", claims.Subject)
	c.Set("role", claims.Role)
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer "+accessToken)
}

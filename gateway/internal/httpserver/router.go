package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/magicvilla/villa-booking/pkg/authclient"
	authmw "github.com/magicvilla/villa-booking/pkg/middleware/auth"
	"github.com/magicvilla/villa-booking/pkg/middleware/csrf"
)

type Deps struct {
	VillaURL   string
	AuthClient *authclient.Client
	CSRFConfig csrf.Config
	JWTSecret  []byte
}

func Register(e *echo.Echo, d *Deps) error {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.Use(echomw.Secure())
	e.Use(csrf.Middleware(d.CSRFConfig))

	session := &SessionHTTP{Auth: d.AuthClient}
	e.POST("/auth/register", session.Register)
	e.POST("/auth/login", session.Login)
	e.POST("/auth/logout", session.Logout)

	villaProxy, err := newProxy(d.VillaURL, "")
	if err != nil {
		return err
	}

	e.GET("/uploads/*", villaProxy)
	e.Match([]string{http.MethodGet}, "/api/villas", villaProxy)
	e.Match([]string{http.MethodGet}, "/api/villas/*", villaProxy)
	e.Match([]string{http.MethodGet}, "/api/villanumbers", villaProxy)
	e.Match([]string{http.MethodGet}, "/api/villanumbers/*", villaProxy)

	auth := authmw.NewAutoRefresh(d.JWTSecret, d.AuthClient)
	admin := e.Group("/api", auth.RequireAdmin)
	admin.Match([]string{http.MethodPost, http.MethodPut, http.MethodDelete}, "/villas", villaProxy)
	admin.Match([]string{http.MethodPost, http.MethodPut, http.MethodDelete}, "/villas/*", villaProxy)
	admin.Match([]string{http.MethodPost, http.MethodPut, http.MethodDelete}, "/villanumbers", villaProxy)
	admin.Match([]string{http.MethodPost, http.MethodPut, http.MethodDelete}, "/villanumbers/*", villaProxy)

	return nil
}

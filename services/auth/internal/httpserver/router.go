package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/magicvilla/villa-booking/pkg/middleware/auth"
)

type Deps struct {
	AuthHandler *AuthHTTP
	JWTSecret   []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	bearer := authmw.NewBearerAuth(d.JWTSecret)

	users := e.Group("/api/users")
	users.POST("/register", d.AuthHandler.Register)
	users.POST("/login", d.AuthHandler.Login)
	users.POST("/refresh", d.AuthHandler.Refresh)

	private := users.Group("")
	private.Use(bearer.RequireAuth)
	private.POST("/logout", d.AuthHandler.LogOut)
}

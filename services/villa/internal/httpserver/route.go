package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/magicvilla/villa-booking/pkg/middleware/auth"
)

type Deps struct {
	VillaHandler *VillaHTTP
	JWTSecret    []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := authmw.NewBearerAuth(d.JWTSecret)

	villas := e.Group("/api/villas")
	villas.GET("/search", d.VillaHandler.SearchVillas)
	villas.GET("", d.VillaHandler.GetVillas)
	villas.GET("/:id", d.VillaHandler.GetVilla)

	villaAdmin := villas.Group("", auth.RequireAdmin)
	villaAdmin.POST("", d.VillaHandler.CreateVilla)
	villaAdmin.PUT("/:id", d.VillaHandler.UpdateVilla)
	villaAdmin.DELETE("/:id", d.VillaHandler.DeleteVilla)

	numbers := e.Group("/api/villanumbers")
	numbers.GET("", d.VillaHandler.GetVillaNumbers)
	numbers.GET("/:villaNo", d.VillaHandler.GetVillaNumber)

	numberAdmin := numbers.Group("", auth.RequireAdmin)
	numberAdmin.POST("", d.VillaHandler.CreateVillaNumber)
	numberAdmin.PUT("/:villaNo", d.VillaHandler.UpdateVillaNumber)
	numberAdmin.DELETE("/:villaNo", d.VillaHandler.DeleteVillaNumber)
}

package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/magicvilla/villa-booking/pkg/logging"
	"github.com/magicvilla/villa-booking/services/villa/internal/service"
	"github.com/magicvilla/villa-booking/services/villa/internal/transport"
	"github.com/magicvilla/villa-booking/services/villa/internal/util"
)

func parseVillaNo(c echo.Context) (int, error) {
	return strconv.Atoi(c.Param("villaNo"))
}

func (h *VillaHTTP) GetVillaNumber(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "villanumber.get")

	villaNo, err := parseVillaNo(c)
	if err != nil {
		l.Warn("get_villa_number_failed", "status", 400, "reason", "villaNo is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "villaNo is not an integer")
	}

	vn, err := h.Svc.GetVillaNumber(ctx, villaNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_villa_number_failed", "status", 404, "reason", "villa number not found")
			return echo.NewHTTPError(http.StatusNotFound, "villa number not found")
		}
		l.Error("get_villa_number_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get villa number")
	}

	return c.JSON(http.StatusOK, vn)
}

func (h *VillaHTTP) GetVillaNumbers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "villanumber.list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.ListVillaNumbers(ctx, offset, limit)
	if err != nil {
		l.Error("get_villa_numbers_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list villa numbers")
	}

	l.Info("get_villa_numbers_success", "total", total)
	return c.JSON(http.StatusOK, paged(items, page, limit, offset, total))
}

func (h *VillaHTTP) CreateVillaNumber(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "villanumber.create")

	var req transport.CreateVillaNumberRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_villa_number_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	vn, err := h.Svc.CreateVillaNumber(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("create_villa_number_failed", "status", 400, "reason", "validation", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUnknownVilla):
			l.Warn("create_villa_number_failed", "status", 400, "reason", "unknown villa", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			l.Error("create_villa_number_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot create villa number")
		}
	}

	h.publish(c, map[string]any{"type": "villa_number_created", "villaNo": vn.VillaNo, "villaID": vn.VillaID})

	l.Info("create_villa_number_success", "villa_no", vn.VillaNo)
	return c.JSON(http.StatusCreated, vn)
}

func (h *VillaHTTP) UpdateVillaNumber(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "villanumber.update")

	villaNo, err := parseVillaNo(c)
	if err != nil {
		l.Warn("update_villa_number_failed", "status", 400, "reason", "villaNo is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "villaNo is not an integer")
	}

	var req transport.UpdateVillaNumberRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_villa_number_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	vn, err := h.Svc.UpdateVillaNumber(ctx, villaNo, req)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			l.Warn("update_villa_number_failed", "status", 404, "reason", "villa number not found")
			return echo.NewHTTPError(http.StatusNotFound, "villa number not found")
		case errors.Is(err, service.ErrUnknownVilla):
			l.Warn("update_villa_number_failed", "status", 400, "reason", "unknown villa", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			l.Error("update_villa_number_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update villa number")
		}
	}

	l.Info("update_villa_number_success", "villa_no", vn.VillaNo)
	return c.JSON(http.StatusOK, vn)
}

func (h *VillaHTTP) DeleteVillaNumber(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "villanumber.delete")

	villaNo, err := parseVillaNo(c)
	if err != nil {
		l.Warn("delete_villa_number_failed", "status", 400, "reason", "villaNo is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "villaNo is not an integer")
	}

	if err := h.Svc.DeleteVillaNumber(ctx, villaNo); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("delete_villa_number_failed", "status", 404, "reason", "villa number not found")
			return echo.NewHTTPError(http.StatusNotFound, "villa number not found")
		}
		l.Error("delete_villa_number_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete villa number")
	}

	h.publish(c, map[string]any{"type": "villa_number_deleted", "villaNo": villaNo})

	l.Info("delete_villa_number_success", "villa_no", villaNo)
	return c.NoContent(http.StatusNoContent)
}

package httpserver

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/magicvilla/villa-booking/pkg/logging"
	"github.com/magicvilla/villa-booking/pkg/mykafka"
	"github.com/magicvilla/villa-booking/services/villa/internal/models"
	"github.com/magicvilla/villa-booking/services/villa/internal/repo"
	"github.com/magicvilla/villa-booking/services/villa/internal/search"
	"github.com/magicvilla/villa-booking/services/villa/internal/service"
	"github.com/magicvilla/villa-booking/services/villa/internal/storage"
	"github.com/magicvilla/villa-booking/services/villa/internal/transport"
	"github.com/magicvilla/villa-booking/services/villa/internal/util"
)

type VillaHTTP struct {
	Svc      *service.VillaService
	Images   *storage.ImageStore
	Index    *search.Index
	Producer *mykafka.Producer
}

func (h *VillaHTTP) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "villa_events", c.Response().Header().Get(echo.HeaderXRequestID), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka_publish_failed", "error", err)
	}
}

func parseVillaID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func (h *VillaHTTP) GetVilla(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "villa.get_villa")

	id, err := parseVillaID(c)
	if err != nil {
		l.Warn("get_villa_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	villa, err := h.Svc.GetVilla(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_villa_failed", "status", 404, "reason", "villa not found")
			return echo.NewHTTPError(http.StatusNotFound, "villa not found")
		}
		l.Error("get_villa_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get villa")
	}

	return c.JSON(http.StatusOK, villa)
}

func (h *VillaHTTP) GetVillas(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "villa.get_villas")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	filter := repo.VillaFilter{
		Occupancy: util.ParseIntDefault(c.QueryParam("occupancy"), 0),
		Search:    c.QueryParam("search"),
		Offset:    offset,
		Limit:     limit,
	}

	total, items, err := h.Svc.ListVillas(ctx, filter)
	if err != nil {
		l.Error("get_villas_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list villas")
	}

	l.Info("get_villas_success", "total", total)
	return c.JSON(http.StatusOK, paged(items, page, limit, offset, total))
}

func (h *VillaHTTP) SearchVillas(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "villa.search_villas")

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing query parameter q")
	}
	if !h.Index.Enabled() {
		l.Warn("search_villas_failed", "status", 503, "reason", "search index not configured")
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not available")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Index.Search(ctx, q, offset, limit)
	if err != nil {
		l.Error("search_villas_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}

	l.Info("search_villas_success", "total", total)
	return c.JSON(http.StatusOK, paged(items, page, limit, offset, total))
}

func (h *VillaHTTP) CreateVilla(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "villa.create_villa")

	var req transport.CreateVillaRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_villa_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	villa, err := h.Svc.CreateVilla(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("create_villa_failed", "status", 400, "reason", "validation", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("create_villa_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create villa")
	}

	if fh, err := c.FormFile("image"); err == nil {
		villa, err = h.attachImage(c, villa, fh)
		if err != nil {
			return err
		}
	}

	h.Index.IndexVilla(ctx, villa)
	h.publish(c, map[string]any{"type": "villa_created", "villaID": villa.ID, "name": villa.Name})

	l.Info("create_villa_success", "villa_id", villa.ID)
	return c.JSON(http.StatusCreated, villa)
}

func (h *VillaHTTP) UpdateVilla(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "villa.update_villa")

	id, err := parseVillaID(c)
	if err != nil {
		l.Warn("update_villa_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var req transport.UpdateVillaRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_villa_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	villa, err := h.Svc.UpdateVilla(ctx, id, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("update_villa_failed", "status", 404, "reason", "villa not found")
			return echo.NewHTTPError(http.StatusNotFound, "villa not found")
		}
		if errors.Is(err, service.ErrValidation) {
			l.Warn("update_villa_failed", "status", 400, "reason", "validation", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("update_villa_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update villa")
	}

	if fh, err := c.FormFile("image"); err == nil {
		villa, err = h.attachImage(c, villa, fh)
		if err != nil {
			return err
		}
	}

	h.Index.IndexVilla(ctx, villa)
	h.publish(c, map[string]any{"type": "villa_updated", "villaID": villa.ID, "name": villa.Name})

	l.Info("update_villa_success", "villa_id", villa.ID)
	return c.JSON(http.StatusOK, villa)
}

func (h *VillaHTTP) DeleteVilla(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "villa.delete_villa")

	id, err := parseVillaID(c)
	if err != nil {
		l.Warn("delete_villa_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	villa, err := h.Svc.DeleteVilla(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("delete_villa_failed", "status", 404, "reason", "villa not found")
			return echo.NewHTTPError(http.StatusNotFound, "villa not found")
		}
		l.Error("delete_villa_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete villa")
	}

	if err := h.Images.Remove(villa.ImageLocalPath); err != nil {
		l.Warn("delete_villa_image_cleanup_failed", "villa_id", id, "error", err)
	}
	h.Index.DeleteVilla(ctx, id)
	h.publish(c, map[string]any{"type": "villa_deleted", "villaID": id})

	l.Info("delete_villa_success", "villa_id", id)
	return c.NoContent(http.StatusNoContent)
}

// attachImage stores the uploaded file and points the villa at it. The file
// name is derived from the villa id, so a previous image with a different
// extension has to be removed explicitly.
func (h *VillaHTTP) attachImage(c echo.Context, villa *models.Villa, fh *multipart.FileHeader) (*models.Villa, error) {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "villa.attach_image")

	oldPath := villa.ImageLocalPath

	url, localPath, err := h.Images.Save(fh, villa.ID)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImage) {
			l.Warn("attach_image_failed", "status", 400, "reason", "unsupported image type")
			return nil, echo.NewHTTPError(http.StatusBadRequest, "unsupported image type")
		}
		l.Error("attach_image_failed", "status", 500, "error", err)
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "cannot store image")
	}

	villa, err = h.Svc.SetVillaImage(ctx, villa.ID, url, localPath)
	if err != nil {
		l.Error("attach_image_failed", "status", 500, "error", err)
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "cannot store image")
	}

	if oldPath != "" && oldPath != localPath {
		if err := h.Images.Remove(oldPath); err != nil {
			l.Warn("attach_image_cleanup_failed", "villa_id", villa.ID, "error", err)
		}
	}
	return villa, nil
}

func paged[T any](items []T, page, limit, offset int, total int64) map[string]any {
	return map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	}
}

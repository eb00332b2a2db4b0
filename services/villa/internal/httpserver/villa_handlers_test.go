package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/magicvilla/villa-booking/pkg/tokens"
	"github.com/magicvilla/villa-booking/services/villa/internal/models"
	"github.com/magicvilla/villa-booking/services/villa/internal/repo"
	"github.com/magicvilla/villa-booking/services/villa/internal/search"
	"github.com/magicvilla/villa-booking/services/villa/internal/service"
	"github.com/magicvilla/villa-booking/services/villa/internal/storage"
)

var testSecret = []byte("test-jwt-secret")

type testEnv struct {
	t      *testing.T
	e      *echo.Echo
	db     *gorm.DB
	images *storage.ImageStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Villa{}, &models.VillaNumber{}))

	images, err := storage.NewImageStore(t.TempDir(), "")
	require.NoError(t, err)

	handler := &VillaHTTP{
		Svc:    &service.VillaService{Repo: &repo.GormRepo{DB: db}},
		Images: images,
		Index:  &search.Index{Name: "villas"},
	}

	e := echo.New()
	Register(e, &Deps{VillaHandler: handler, JWTSecret: testSecret})

	return &testEnv{t: t, e: e, db: db, images: images}
}

func accessToken(t *testing.T, role string) string {
	t.Helper()
	tok, err := tokens.SignAccessToken("user-1", role, tokens.NewJTI(), testSecret, time.Now().Add(time.Minute))
	require.NoError(t, err)
	return tok
}

func (env *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	env.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) seedVilla(name string, occupancy int, rate float64) *models.Villa {
	env.t.Helper()
	v := &models.Villa{Name: name, Occupancy: occupancy, Rate: rate, Sqft: 100}
	require.NoError(env.t, env.db.Create(v).Error)
	return v
}

func TestCreateVilla_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]any{"name": "Royal Villa", "rate": 200.0, "occupancy": 4, "sqft": 550}

	rec := env.do(http.MethodPost, "/api/villas", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodPost, "/api/villas", accessToken(t, "customer"), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodPost, "/api/villas", accessToken(t, "admin"), body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Villa
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Royal Villa", created.Name)
}

func TestCreateVilla_Validation(t *testing.T) {
	env := newTestEnv(t)
	admin := accessToken(t, "admin")

	rec := env.do(http.MethodPost, "/api/villas", admin, map[string]any{"rate": 100.0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/villas", admin, map[string]any{"name": "X", "rate": -5.0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVillaLifecycle(t *testing.T) {
	env := newTestEnv(t)
	admin := accessToken(t, "admin")

	rec := env.do(http.MethodPost, "/api/villas", admin, map[string]any{
		"name": "Pool Villa", "details": "private pool", "rate": 150.0, "occupancy": 2, "sqft": 300,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var villa models.Villa
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &villa))

	rec = env.do(http.MethodGet, fmt.Sprintf("/api/villas/%d", villa.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodPut, fmt.Sprintf("/api/villas/%d", villa.ID), admin, map[string]any{"rate": 175.0})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated models.Villa
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 175.0, updated.Rate)
	assert.Equal(t, "Pool Villa", updated.Name)

	rec = env.do(http.MethodDelete, fmt.Sprintf("/api/villas/%d", villa.ID), admin, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodGet, fmt.Sprintf("/api/villas/%d", villa.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateVilla_NotFound(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodPut, "/api/villas/999", accessToken(t, "admin"), map[string]any{"rate": 10.0})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetVillas_FilterAndPagination(t *testing.T) {
	env := newTestEnv(t)
	env.seedVilla("Beach House", 2, 100)
	env.seedVilla("Beach Palace", 4, 300)
	env.seedVilla("Forest Cabin", 4, 80)

	rec := env.do(http.MethodGet, "/api/villas?occupancy=4", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []models.Villa `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
			Page  int   `json:"page"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Meta.Total)
	assert.Len(t, resp.Data, 2)

	rec = env.do(http.MethodGet, "/api/villas?search=beach", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp.Data = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Meta.Total)

	rec = env.do(http.MethodGet, "/api/villas?page=2&size=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp.Data = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.Meta.Total)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 2, resp.Meta.Page)
}

func TestSearchVillas_UnavailableWithoutIndex(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/villas/search?q=beach", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = env.do(http.MethodGet, "/api/villas/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateVilla_WithImageUpload(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "Photo Villa"))
	require.NoError(t, mw.WriteField("rate", "120"))
	require.NoError(t, mw.WriteField("occupancy", "2"))
	require.NoError(t, mw.WriteField("sqft", "250"))
	fw, err := mw.CreateFormFile("image", "front.png")
	require.NoError(t, err)
	_, err = io.Copy(fw, bytes.NewReader([]byte("png-bytes")))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/villas", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+accessToken(t, "admin"))
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var villa models.Villa
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &villa))
	assert.Equal(t, fmt.Sprintf("/uploads/villa_%d.png", villa.ID), villa.ImageURL)

	var stored models.Villa
	require.NoError(t, env.db.First(&stored, villa.ID).Error)
	_, err = os.Stat(stored.ImageLocalPath)
	require.NoError(t, err)

	rec = env.do(http.MethodDelete, fmt.Sprintf("/api/villas/%d", villa.ID), accessToken(t, "admin"), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	_, err = os.Stat(stored.ImageLocalPath)
	assert.True(t, os.IsNotExist(err))
}

func TestVillaNumbers(t *testing.T) {
	env := newTestEnv(t)
	admin := accessToken(t, "admin")

	rec := env.do(http.MethodPost, "/api/villanumbers", admin, map[string]any{"villaNo": 101, "villaId": 999})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	villa := env.seedVilla("Numbered Villa", 2, 90)

	rec = env.do(http.MethodPost, "/api/villanumbers", admin, map[string]any{
		"villaNo": 101, "villaId": villa.ID, "specialDetails": "sea view",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(http.MethodGet, "/api/villanumbers/101", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var vn models.VillaNumber
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vn))
	assert.Equal(t, villa.ID, vn.VillaID)
	require.NotNil(t, vn.Villa)
	assert.Equal(t, "Numbered Villa", vn.Villa.Name)

	rec = env.do(http.MethodPut, "/api/villanumbers/101", admin, map[string]any{"specialDetails": "garden view"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodDelete, "/api/villanumbers/101", admin, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodGet, "/api/villanumbers/101", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

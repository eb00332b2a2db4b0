package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(cfg Config) *echo.Echo {
	e := echo.New()
	e.Use(Middleware(cfg))
	e.GET("/page", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.POST("/submit", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.POST("/open", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	return e
}

func csrfCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "XSRF-TOKEN" {
			return ck
		}
	}
	t.Fatal("no XSRF-TOKEN cookie issued")
	return nil
}

func TestGetIssuesToken(t *testing.T) {
	e := newServer(Config{})

	req := httptest.NewRequest(http.MethodGet, "/page", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	ck := csrfCookie(t, rec)
	assert.NotEmpty(t, ck.Value)
	assert.Equal(t, ck.Value, rec.Header().Get("X-CSRF-Token"))
}

func TestPostWithoutTokenRejected(t *testing.T) {
	e := newServer(Config{EnforceSameOrigin: false})

	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPostWithMatchingTokenAccepted(t *testing.T) {
	e := newServer(Config{EnforceSameOrigin: false})

	get := httptest.NewRequest(http.MethodGet, "/page", nil)
	getRec := httptest.NewRecorder()
	e.ServeHTTP(getRec, get)
	ck := csrfCookie(t, getRec)

	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.AddCookie(ck)
	req.Header.Set("X-CSRF-Token", ck.Value)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPostWithMismatchedTokenRejected(t *testing.T) {
	e := newServer(Config{EnforceSameOrigin: false})

	get := httptest.NewRequest(http.MethodGet, "/page", nil)
	getRec := httptest.NewRecorder()
	e.ServeHTTP(getRec, get)
	ck := csrfCookie(t, getRec)

	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.AddCookie(ck)
	req.Header.Set("X-CSRF-Token", "forged-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCrossOriginPostRejected(t *testing.T) {
	e := newServer(Config{})

	get := httptest.NewRequest(http.MethodGet, "/page", nil)
	getRec := httptest.NewRecorder()
	e.ServeHTTP(getRec, get)
	ck := csrfCookie(t, getRec)

	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.AddCookie(ck)
	req.Header.Set("X-CSRF-Token", ck.Value)
	req.Header.Set("Origin", "http://evil.example.com")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSkipPathBypassesCheck(t *testing.T) {
	e := newServer(Config{SkipPaths: []string{"/open"}})

	req := httptest.NewRequest(http.MethodPost, "/open", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

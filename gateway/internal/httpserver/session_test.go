package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magicvilla/villa-booking/pkg/authclient"
)

func fakeAuthService(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/users/login":
			var req authclient.LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req.Password != "correct horse" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(authclient.RefreshResponse{
				AccessToken:  "issued-access",
				RefreshToken: "issued-refresh",
				AccessExp:    time.Now().Add(15 * time.Minute).Unix(),
				RefreshExp:   time.Now().Add(7 * 24 * time.Hour).Unix(),
			})
		case "/api/users/register":
			w.WriteHeader(http.StatusBadRequest)
		case "/api/users/logout":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func callSession(t *testing.T, h echo.HandlerFunc, path string, body any, reqCookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range reqCookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e := echo.New()
	c := e.NewContext(req, rec)

	err := h(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestLogin_SetsSessionCookies(t *testing.T) {
	srv := fakeAuthService(t)
	h := &SessionHTTP{Auth: authclient.NewClient(srv.URL)}

	rec := callSession(t, h.Login, "/auth/login", map[string]string{
		"username": "alice", "password": "correct horse",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var access, refresh *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		switch ck.Name {
		case "accessToken":
			access = ck
		case "refreshToken":
			refresh = ck
		}
	}
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.Equal(t, "issued-access", access.Value)
	assert.Equal(t, "issued-refresh", refresh.Value)
	assert.True(t, access.HttpOnly)
	assert.True(t, refresh.HttpOnly)

	assert.NotContains(t, rec.Body.String(), "issued-access")
	assert.NotContains(t, rec.Body.String(), "issued-refresh")
}

func TestLogin_ForwardsRejectionStatus(t *testing.T) {
	srv := fakeAuthService(t)
	h := &SessionHTTP{Auth: authclient.NewClient(srv.URL)}

	rec := callSession(t, h.Login, "/auth/login", map[string]string{
		"username": "alice", "password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegister_ForwardsStatus(t *testing.T) {
	srv := fakeAuthService(t)
	h := &SessionHTTP{Auth: authclient.NewClient(srv.URL)}

	rec := callSession(t, h.Register, "/auth/register", map[string]string{
		"username": "alice", "password": "pw",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogout_ClearsCookies(t *testing.T) {
	srv := fakeAuthService(t)
	h := &SessionHTTP{Auth: authclient.NewClient(srv.URL)}

	rec := callSession(t, h.Logout, "/auth/logout", nil, []*http.Cookie{
		{Name: "accessToken", Value: "issued-access"},
		{Name: "refreshToken", Value: "issued-refresh"},
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "accessToken" || ck.Name == "refreshToken" {
			assert.Empty(t, ck.Value)
			assert.Equal(t, -1, ck.MaxAge)
		}
	}
}

package server_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/wash24-admin/api"
	"github.com/jrsteele09/wash24-admin/internal/config"
	"github.com/jrsteele09/wash24-admin/internal/devbackend"
	apperrors "github.com/jrsteele09/wash24-admin/internal/errors"
	"github.com/jrsteele09/wash24-admin/server"
	"github.com/jrsteele09/wash24-admin/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIProxy_ForwardsWithBearer(t *testing.T) {
	ts := newTestShell(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/admin/categories", r.URL.Path)
		assert.Equal(t, "active=true", r.URL.RawQuery)
		assert.Equal(t, "Bearer abc123", r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("Cookie"))
		w.Header().Set("ETag", `"v1"`)
		_, _ = io.WriteString(w, `{"success":true,"data":[]}`)
	})
	require.NoError(t, ts.storage.Save(context.Background(), "abc123", adminUser, time.Hour))

	req := withToken(httptest.NewRequest(http.MethodGet, "/api/admin/categories?active=true", nil), "abc123")
	req.Header.Set("Authorization", "Bearer forged")
	rec := ts.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success":true,"data":[]}`, rec.Body.String())
	require.Equal(t, `"v1"`, rec.Header().Get("ETag"))
	require.Empty(t, rec.Header().Get("HX-Redirect"))
}

func TestAPIProxy_PassesBodyForWrites(t *testing.T) {
	ts := newTestShell(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		b, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"Laundry"}`, string(b))
		_, _ = io.WriteString(w, `{"success":true,"data":{"id":"c1","name":"Laundry"}}`)
	})
	require.NoError(t, ts.storage.Save(context.Background(), "abc123", adminUser, time.Hour))

	req := withToken(httptest.NewRequest(http.MethodPatch, "/api/admin/categories/c1", strings.NewReader(`{"name":"Laundry"}`)), "abc123")
	rec := ts.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIProxy_401ForcesLogout(t *testing.T) {
	ts := newTestShell(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"success":false,"message":"Token expired"}`)
	})
	require.NoError(t, ts.storage.Save(context.Background(), "abc123", adminUser, time.Hour))

	req := withToken(httptest.NewRequest(http.MethodGet, "/api/admin/delivery-agents", nil), "abc123")
	req.Header.Set("X-Current-Path", "/agents")
	rec := ts.do(req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"success":false,"message":"Token expired"}`, rec.Body.String())
	require.Equal(t, "/auth/login?error=Session+expired", rec.Header().Get("HX-Redirect"))
	require.Equal(t, "/auth/login?error=Session+expired", rec.Header().Get("X-Redirect"))
	require.Less(t, findCookie(rec, "wash24").MaxAge, 0)

	_, err := ts.storage.Load(context.Background(), "abc123")
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestAPIProxy_401FromLoginPageDoesNotLoop(t *testing.T) {
	ts := newTestShell(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	require.NoError(t, ts.storage.Save(context.Background(), "abc123", adminUser, time.Hour))

	req := withToken(httptest.NewRequest(http.MethodGet, "/api/admin/categories", nil), "abc123")
	req.Header.Set("Referer", "http://admin.wash24.in/auth/login?error=x")
	rec := ts.do(req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, rec.Header().Get("X-Redirect"))
	require.Nil(t, findCookie(rec, "wash24"))

	_, err := ts.storage.Load(context.Background(), "abc123")
	require.NoError(t, err)
}

func TestAPIProxy_BackendDown(t *testing.T) {
	ts := newTestShell(t, func(w http.ResponseWriter, r *http.Request) {})
	ts.upstream.Close()

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/admin/categories", nil))
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

// TestFullFlowAgainstDevBackend logs in with real credentials, reads a page,
// then has the backend revoke the token and watches the shell log out.
func TestFullFlowAgainstDevBackend(t *testing.T) {
	ctx := context.Background()
	backend := devbackend.New("flow-secret")
	_, err := backend.Accounts().Add(adminUser, "secret")
	require.NoError(t, err)
	upstream := httptest.NewServer(backend.Handler())
	t.Cleanup(upstream.Close)

	t.Setenv("ENV", "TEST")
	t.Setenv("API_BASE_URL", upstream.URL+devbackend.DefaultBasePath)
	cfg := config.New()
	client, err := api.New(cfg.GetAPIBaseURL())
	require.NoError(t, err)
	storage := session.NewInMemoryStorage()
	srv, err := server.New(cfg, client, storage)
	require.NoError(t, err)

	do := func(req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		return rec
	}

	rec := do(loginForm("a@a.com", "secret"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	token := findCookie(rec, "wash24").Value
	require.NotEmpty(t, token)

	rec = do(withToken(httptest.NewRequest(http.MethodGet, "/services", nil), token))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Wash &amp; Fold")

	require.NoError(t, backend.Tokens().Revoke(token))

	rec = do(withToken(httptest.NewRequest(http.MethodGet, "/agents", nil), token))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "/auth/login", location.Path)

	_, err = storage.Load(ctx, token)
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	rec = do(loginForm("a@a.com", "wrong"))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid credentials")
}

package server_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/wash24-admin/api"
	"github.com/jrsteele09/wash24-admin/internal/config"
	apperrors "github.com/jrsteele09/wash24-admin/internal/errors"
	"github.com/jrsteele09/wash24-admin/server"
	"github.com/jrsteele09/wash24-admin/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var adminUser = session.User{ID: "1", Name: "A", Email: "a@a.com", Role: "admin"}

type testShell struct {
	srv      *server.Server
	storage  *session.InMemoryStorage
	upstream *httptest.Server
	calls    atomic.Int32
}

// newTestShell starts a fake backend and wires the shell to it with
// in-memory session storage.
func newTestShell(t *testing.T, backend http.HandlerFunc) *testShell {
	t.Helper()
	ts := &testShell{storage: session.NewInMemoryStorage()}
	ts.upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.calls.Add(1)
		backend(w, r)
	}))
	t.Cleanup(ts.upstream.Close)

	t.Setenv("ENV", "TEST")
	t.Setenv("API_BASE_URL", ts.upstream.URL+"/api/v1")
	cfg := config.New()

	client, err := api.New(cfg.GetAPIBaseURL(), api.WithTimeout(2*time.Second))
	require.NoError(t, err)

	ts.srv, err = server.New(cfg, client, ts.storage)
	require.NoError(t, err)
	return ts
}

func (ts *testShell) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.srv.ServeHTTP(rec, req)
	return rec
}

func withToken(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: "wash24", Value: token})
	return req
}

func loginForm(email, password string) *http.Request {
	form := url.Values{"email": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLogin_Success(t *testing.T) {
	ts := newTestShell(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/login/admin", r.URL.Path)
		_, _ = io.WriteString(w, `{"success":true,"loginData":{"user":{"id":"1","name":"A","email":"a@a.com","role":"admin"},"token":{"token":"abc123"}}}`)
	})

	rec := ts.do(loginForm("a@a.com", "secret"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))

	cookie := findCookie(rec, "wash24")
	require.NotNil(t, cookie)
	require.Equal(t, "abc123", cookie.Value)
	require.Equal(t, 86400, cookie.MaxAge)
	require.Equal(t, http.SameSiteStrictMode, cookie.SameSite)

	user, err := ts.storage.Load(context.Background(), "abc123")
	require.NoError(t, err)
	require.Equal(t, "1", user.ID)

	// The next navigation restores the same session from the cookie.
	page := ts.do(withToken(httptest.NewRequest(http.MethodGet, "/", nil), "abc123"))
	require.Equal(t, http.StatusOK, page.Code)
	require.Contains(t, page.Body.String(), "a@a.com")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ts := newTestShell(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"message":"Invalid credentials"}`)
	})

	rec := ts.do(loginForm("a@a.com", "wrong"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid credentials")
	require.Empty(t, rec.Header().Get("Location"))
	require.Nil(t, findCookie(rec, "wash24"))
}

func TestLogin_FailureMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"success false without message", http.StatusOK, `{"success":false}`, "Login failed. Please try again."},
		{"backend error with message", http.StatusBadRequest, `{"success":false,"message":"Account locked"}`, "Account locked"},
		{"backend error without message", http.StatusInternalServerError, ``, "Login failed. Please try again."},
		{"success without token", http.StatusOK, `{"success":true,"loginData":{"user":{"id":"1"},"token":{"token":""}}}`, "An error occurred. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestShell(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			rec := ts.do(loginForm("a@a.com", "pw"))
			require.Equal(t, http.StatusOK, rec.Code)
			require.Contains(t, rec.Body.String(), tt.wantMsg)
			require.Nil(t, findCookie(rec, "wash24"))
		})
	}
}

func TestLogin_MissingFieldsNeverReachBackend(t *testing.T) {
	ts := newTestShell(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called")
	})

	rec := ts.do(loginForm("a@a.com", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Email and password are required")
	require.Zero(t, ts.calls.Load())
}

func TestLogin_MissingFieldsJSON(t *testing.T) {
	ts := newTestShell(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called")
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := ts.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success":false,"message":"Email and password are required"}`, rec.Body.String())
	require.Nil(t, findCookie(rec, "wash24"))
	require.Zero(t, ts.calls.Load())
}

func TestLogin_JSON(t *testing.T) {
	ts := newTestShell(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"loginData":{"user":{"id":"1","name":"A","email":"a@a.com","role":"admin"},"token":{"token":"abc123"}}}`)
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@a.com","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := ts.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success":true,"redirect":"/"}`, rec.Body.String())
	require.Equal(t, "abc123", findCookie(rec, "wash24").Value)
}

func TestForcedLogoutOn401(t *testing.T) {
	ts := newTestShell(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/admin/delivery-agents", r.URL.Path)
		assert.Equal(t, "Bearer abc123", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"success":false,"message":"Token expired"}`)
	})
	require.NoError(t, ts.storage.Save(context.Background(), "abc123", adminUser, time.Hour))

	rec := ts.do(withToken(httptest.NewRequest(http.MethodGet, "/agents", nil), "abc123"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "/auth/login", location.Path)
	require.Equal(t, "Session expired", location.Query().Get("error"))

	cookie := findCookie(rec, "wash24")
	require.NotNil(t, cookie)
	require.Empty(t, cookie.Value)
	require.Less(t, cookie.MaxAge, 0)

	_, err = ts.storage.Load(context.Background(), "abc123")
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	// Following the redirect lands on the login page with the message.
	login := ts.do(httptest.NewRequest(http.MethodGet, location.String(), nil))
	require.Equal(t, http.StatusOK, login.Code)
	require.Contains(t, login.Body.String(), "Session expired")
}

func TestCookieTokenAttachedWithoutStoredSession(t *testing.T) {
	for _, path := range []string{"/agents", "/api/admin/delivery-agents"} {
		t.Run(path, func(t *testing.T) {
			var gotAuth atomic.Value
			ts := newTestShell(t, func(w http.ResponseWriter, r *http.Request) {
				gotAuth.Store(r.Header.Get("Authorization"))
				_, _ = io.WriteString(w, `{"success":true,"data":[]}`)
			})

			rec := ts.do(withToken(httptest.NewRequest(http.MethodGet, path, nil), "abc123"))

			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, "Bearer abc123", gotAuth.Load())
			require.Nil(t, findCookie(rec, "wash24"))
		})
	}
}

func TestForcedLogoutOn401WithoutStoredSession(t *testing.T) {
	ts := newTestShell(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer abc123", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	})

	rec := ts.do(withToken(httptest.NewRequest(http.MethodGet, "/services", nil), "abc123"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/auth/login?error=Session+expired", rec.Header().Get("Location"))
	require.Less(t, findCookie(rec, "wash24").MaxAge, 0)
	require.Equal(t, int32(1), ts.calls.Load())
}

func TestGuardRedirectsBeforePageCode(t *testing.T) {
	ts := newTestShell(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called")
	})

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/orders", nil))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/auth/login", rec.Header().Get("Location"))
	require.Zero(t, ts.calls.Load())
}

func TestAuthenticatedUserOnLoginPageGoesHome(t *testing.T) {
	ts := newTestShell(t, func(w http.ResponseWriter, r *http.Request) {})

	rec := ts.do(withToken(httptest.NewRequest(http.MethodGet, "/auth/login", nil), "abc123"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
}

func TestAgentsPage(t *testing.T) {
	ts := newTestShell(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"data":[{"id":"a1","fullName":"Ravi Kumar","email":"ravi@wash24.in","phone":"98","orderCount":3,"status":"ACTIVE"}]}`)
	})
	require.NoError(t, ts.storage.Save(context.Background(), "abc123", adminUser, time.Hour))

	rec := ts.do(withToken(httptest.NewRequest(http.MethodGet, "/agents", nil), "abc123"))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Ravi Kumar")
	require.Nil(t, findCookie(rec, "wash24"))
}

func TestServicesPage_BackendError(t *testing.T) {
	ts := newTestShell(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	require.NoError(t, ts.storage.Save(context.Background(), "abc123", adminUser, time.Hour))

	rec := ts.do(withToken(httptest.NewRequest(http.MethodGet, "/services", nil), "abc123"))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Failed to fetch categories.")
	require.Nil(t, findCookie(rec, "wash24"), "only a 401 ends the session")
}

func TestServicesPage_BackendDown(t *testing.T) {
	ts := newTestShell(t, func(w http.ResponseWriter, r *http.Request) {})
	ts.upstream.Close()
	require.NoError(t, ts.storage.Save(context.Background(), "abc123", adminUser, time.Hour))

	rec := ts.do(withToken(httptest.NewRequest(http.MethodGet, "/services", nil), "abc123"))
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), "Failed to fetch categories.")
}

func TestLogout(t *testing.T) {
	ts := newTestShell(t, func(w http.ResponseWriter, r *http.Request) {})
	require.NoError(t, ts.storage.Save(context.Background(), "abc123", adminUser, time.Hour))

	rec := ts.do(withToken(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), "abc123"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/auth/login", rec.Header().Get("Location"))
	require.Less(t, findCookie(rec, "wash24").MaxAge, 0)
	_, err := ts.storage.Load(context.Background(), "abc123")
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestOperationalEndpointsSkipGuard(t *testing.T) {
	ts := newTestShell(t, func(w http.ResponseWriter, r *http.Request) {})

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok","app":"Wash24 Admin","durableStorage":false}`, rec.Body.String())

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "wash24_admin_")

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "javascript")

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/static/missing.css", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCorrelationID(t *testing.T) {
	ts := newTestShell(t, func(w http.ResponseWriter, r *http.Request) {})

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NotEmpty(t, rec.Header().Get(server.HeaderCorrelationID))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(server.HeaderCorrelationID, "req-42")
	rec = ts.do(req)
	require.Equal(t, "req-42", rec.Header().Get(server.HeaderCorrelationID))
}

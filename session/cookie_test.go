package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/wash24-admin/session"
	"github.com/stretchr/testify/require"
)

func TestTokenCookie_WriteAttributes(t *testing.T) {
	rec := httptest.NewRecorder()
	session.DefaultTokenCookie().Write(rec, "abc123")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	require.Equal(t, "wash24", c.Name)
	require.Equal(t, "abc123", c.Value)
	require.Equal(t, "/", c.Path)
	require.Equal(t, 86400, c.MaxAge)
	require.True(t, c.Secure)
	require.True(t, c.HttpOnly)
	require.Equal(t, http.SameSiteStrictMode, c.SameSite)
}

func TestTokenCookie_Expire(t *testing.T) {
	rec := httptest.NewRecorder()
	session.DefaultTokenCookie().Expire(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "wash24", cookies[0].Name)
	require.Empty(t, cookies[0].Value)
	require.Less(t, cookies[0].MaxAge, 0)
}

func TestTokenCookie_Read(t *testing.T) {
	c := session.DefaultTokenCookie()

	r := httptest.NewRequest(http.MethodGet, "/orders", nil)
	_, ok := c.Read(r)
	require.False(t, ok)

	r.AddCookie(&http.Cookie{Name: "wash24", Value: ""})
	_, ok = c.Read(r)
	require.False(t, ok)

	r = httptest.NewRequest(http.MethodGet, "/orders", nil)
	r.AddCookie(&http.Cookie{Name: "wash24", Value: "abc123"})
	token, ok := c.Read(r)
	require.True(t, ok)
	require.Equal(t, "abc123", token)
}

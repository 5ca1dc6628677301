package session

import (
	"context"
	"net/http"
	"time"
)

// TokenCookie describes the cookie carrying the bearer token. The route
// guard reads it before anything else runs, so it is the first copy of the
// token the browser presents.
type TokenCookie struct {
	Name   string
	Path   string
	MaxAge time.Duration
	Secure bool
}

// DefaultTokenCookie is the wash24 cookie: path-wide, one day, secure only,
// strict same-site.
func DefaultTokenCookie() TokenCookie {
	return TokenCookie{
		Name:   "wash24",
		Path:   "/",
		MaxAge: 24 * time.Hour,
		Secure: true,
	}
}

// Read returns the token from the request, if any.
func (c TokenCookie) Read(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(c.Name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// Write sets the token cookie on the response.
func (c TokenCookie) Write(w http.ResponseWriter, token string) {
	http.SetCookie(w, c.cookie(token, int(c.MaxAge.Seconds())))
}

// Expire tells the browser to drop the cookie.
func (c TokenCookie) Expire(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie("", -1))
}

func (c TokenCookie) cookie(value string, maxAge int) *http.Cookie {
	path := c.Path
	if path == "" {
		path = "/"
	}
	ck := &http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     path,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   maxAge,
	}
	if maxAge > 0 {
		ck.Expires = time.Now().Add(time.Duration(maxAge) * time.Second).UTC()
	}
	return ck
}

type cookieMirror struct {
	w      http.ResponseWriter
	cookie TokenCookie
}

// CookieMirror writes the session token to the response as the token cookie.
func CookieMirror(w http.ResponseWriter, cookie TokenCookie) Mirror {
	return cookieMirror{w: w, cookie: cookie}
}

func (m cookieMirror) Write(_ context.Context, s Session) error {
	m.cookie.Write(m.w, s.Token)
	return nil
}

func (m cookieMirror) Erase(_ context.Context, _ Session) error {
	m.cookie.Expire(m.w)
	return nil
}

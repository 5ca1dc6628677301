package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/jrsteele09/wash24-admin/api"
	"github.com/jrsteele09/wash24-admin/session"
	"github.com/rs/zerolog/log"
)

// pageNavigator is the browser seen from a handler: the page it is on and
// the page the api client asked it to move to.
type pageNavigator struct {
	current string
	target  string
}

func (n *pageNavigator) CurrentPath() string  { return n.current }
func (n *pageNavigator) Navigate(path string) { n.target = path }

// Redirected reports whether a forced logout asked for navigation.
func (n *pageNavigator) Redirected() bool { return n.target != "" }

// requestSession is the per-request view of the credential store: a Store
// mirrored to durable storage and the response cookie, restored from the
// request cookie, and an api client bound to it.
//
// The cookie is the token record. Storage only supplies the user, so a
// cookie without a stored record still authenticates backend calls.
type requestSession struct {
	store   *session.Store
	storage session.Storage
	nav     *pageNavigator
	client  *api.Client

	mu          sync.Mutex
	cookieToken string
}

// Token prefers the store and falls back to the request cookie until the
// session is cleared.
func (rs *requestSession) Token() (string, bool) {
	if token := rs.store.Get().Token; token != "" {
		return token, true
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.cookieToken, rs.cookieToken != ""
}

func (rs *requestSession) Get() session.Session {
	return rs.store.Get()
}

func (rs *requestSession) Set(ctx context.Context, user session.User, token string) error {
	return rs.store.Set(ctx, user, token)
}

// Clear ends the session, including a token known only from the cookie.
func (rs *requestSession) Clear(ctx context.Context) error {
	rs.mu.Lock()
	cookieToken := rs.cookieToken
	rs.cookieToken = ""
	rs.mu.Unlock()

	err := rs.store.Clear(ctx)
	if cookieToken != "" {
		if rmErr := rs.storage.Remove(ctx, cookieToken); rmErr != nil {
			log.Warn().Err(rmErr).Msg("Failed to remove stored session for cookie token")
		}
	}
	return err
}

func (rs *requestSession) OnChange(listener session.Listener) func() {
	return rs.store.OnChange(listener)
}

// bindSession builds the request's credential store. currentPath is the page
// the browser is on, which for proxied calls is not the request path.
func (s *Server) bindSession(w http.ResponseWriter, r *http.Request, currentPath string) *requestSession {
	store := session.NewStore(
		session.StorageMirror(s.storage, s.sessionTTL),
		session.CookieMirror(w, s.cookie),
	)
	rs := &requestSession{store: store, storage: s.storage, nav: &pageNavigator{current: currentPath}}

	if token, ok := s.cookie.Read(r); ok {
		rs.cookieToken = token
		if err := store.Restore(r.Context(), token, s.storage); err != nil {
			log.Warn().Err(err).Str("path", r.URL.Path).Msg("Failed to restore session")
		}
	}

	store.OnChange(func(sess session.Session) {
		if sess.IsAuthenticated() {
			log.Info().Str("user", sess.User.Email).Str("correlation_id", CorrelationID(r.Context())).Msg("Session started")
			return
		}
		log.Info().Str("path", currentPath).Str("correlation_id", CorrelationID(r.Context())).Msg("Session ended")
	})

	rs.client = s.client.Bind(rs, rs, rs.nav)
	return rs
}

// finishForcedLogout sends the browser where the api client navigated it.
// It reports false when no forced logout happened.
func (rs *requestSession) finishForcedLogout(w http.ResponseWriter, r *http.Request) bool {
	if !rs.nav.Redirected() {
		return false
	}
	redirectSuccess(w, r, rs.nav.target)
	return true
}

func (s *Server) logout(ctx context.Context, rs *requestSession) {
	if err := rs.Clear(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to fully clear session on logout")
	}
}

package server

import (
	"io"
	"net/http"

	"github.com/jrsteele09/wash24-admin/api"
	"github.com/rs/zerolog/log"
)

// Request headers passed from the browser to the backend. Cookies and any
// browser supplied Authorization never leave the shell.
var forwardedRequestHeaders = []string{
	"Accept",
	"Accept-Language",
	"If-None-Match",
	"If-Modified-Since",
	HeaderCorrelationID,
}

var hopByHopHeaders = map[string]bool{
	"Connection":          true,
	"Keep-Alive":          true,
	"Proxy-Authenticate":  true,
	"Proxy-Authorization": true,
	"Te":                  true,
	"Trailer":             true,
	"Transfer-Encoding":   true,
	"Upgrade":             true,
	"Set-Cookie":          true,
	"Content-Length":      true,
}

// APIProxyHandler forwards browser fetches under /api/ to the backend with
// the session's bearer token. A 401 ends the session; the upstream body is
// still returned, with HX-Redirect and X-Redirect naming the login page.
func (s *Server) APIProxyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rs := s.bindSession(w, r, currentPathFromHeaders(r))

		header := http.Header{}
		for _, h := range forwardedRequestHeaders {
			if v := r.Header.Get(h); v != "" {
				header.Set(h, v)
			}
		}

		resp, err := rs.client.Forward(r.Context(), r.Method, r.PathValue("path"), r.URL.RawQuery, header, r.Body)
		if err != nil {
			log.Err(err).Str("path", r.URL.Path).Msg("Proxy request failed")
			writeJSON(w, http.StatusBadGateway, api.Envelope[any]{Message: "Upstream unavailable"})
			return
		}
		defer resp.Body.Close()

		for k, vals := range resp.Header {
			if hopByHopHeaders[http.CanonicalHeaderKey(k)] {
				continue
			}
			for _, v := range vals {
				w.Header().Add(k, v)
			}
		}
		if rs.nav.Redirected() {
			announceRedirect(w, rs.nav.target)
		}

		w.WriteHeader(resp.StatusCode)
		if _, err := io.Copy(w, resp.Body); err != nil {
			log.Warn().Err(err).Str("path", r.URL.Path).Msg("Proxy response copy interrupted")
		}
	}
}

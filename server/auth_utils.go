package server

import (
	"net/http"
	"net/url"
)

const (
	headerHXRequest   = "HX-Request"
	headerHXRedirect  = "HX-Redirect"
	headerRedirect    = "X-Redirect"
	headerCurrentPath = "X-Current-Path"
)

// redirectSuccess sends the browser to path. htmx requests get an
// HX-Redirect with an empty 204 so htmx performs a full navigation.
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set(headerHXRedirect, path)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// announceRedirect tells a script-driven caller where to navigate while the
// response itself is still delivered.
func announceRedirect(w http.ResponseWriter, path string) {
	w.Header().Set(headerHXRedirect, path)
	w.Header().Set(headerRedirect, path)
}

func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get(headerHXRequest) == "true"
}

// currentPathFromHeaders resolves the page a browser fetch was made from.
// X-Current-Path wins over the Referer.
func currentPathFromHeaders(r *http.Request) string {
	if p := r.Header.Get(headerCurrentPath); p != "" {
		return p
	}
	if ref := r.Header.Get("Referer"); ref != "" {
		if u, err := url.Parse(ref); err == nil && u.Path != "" {
			return u.Path
		}
	}
	return ""
}

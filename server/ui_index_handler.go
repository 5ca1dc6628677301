package server

import (
	"net/http"
)

// IndexHandler renders the dashboard.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rs := s.bindSession(w, r, r.URL.Path)
		data := s.pageData(r, rs, "Dashboard")
		data.Summary = "Orders, agents and services at a glance."
		render(w, s.pages.page, http.StatusOK, data)
	}
}

// StaticPageHandler renders a shell page with a title and a summary line
// and no backend data.
func (s *Server) StaticPageHandler(title, summary string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rs := s.bindSession(w, r, r.URL.Path)
		data := s.pageData(r, rs, title)
		data.Summary = summary
		render(w, s.pages.page, http.StatusOK, data)
	}
}

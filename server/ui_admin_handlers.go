package server

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/jrsteele09/wash24-admin/api"
	"github.com/jrsteele09/wash24-admin/session"
	"github.com/rs/zerolog/log"
)

// NavItem is one sidebar link.
type NavItem struct {
	Label string
	Href  string
}

var sidebar = []NavItem{
	{Label: "Dashboard", Href: RouteHome},
	{Label: "Order", Href: RouteOrders},
	{Label: "Delivery Agent", Href: RouteAgents},
	{Label: "Users", Href: RouteUsers},
	{Label: "Service & Pricing", Href: RouteServices},
	{Label: "Settings", Href: RouteSettings},
	{Label: "Help", Href: RouteHelp},
	{Label: "Support", Href: RouteSupport},
}

// PageData is what every shell page template receives.
type PageData struct {
	AppName    string
	Title      string
	ActivePage string
	Nav        []NavItem
	User       *session.User
	Error      string
	Summary    string

	Agents     []api.DeliveryAgent
	Categories []api.Category
}

func (s *Server) pageData(r *http.Request, rs *requestSession, title string) PageData {
	return PageData{
		AppName:    s.appName,
		Title:      title,
		ActivePage: r.URL.Path,
		Nav:        sidebar,
		User:       rs.store.Get().User,
	}
}

// AgentsHandler lists delivery agents from the backend.
func (s *Server) AgentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rs := s.bindSession(w, r, r.URL.Path)
		agents, err := rs.client.DeliveryAgents(r.Context())
		if rs.finishForcedLogout(w, r) {
			return
		}

		data := s.pageData(r, rs, "Delivery Agents")
		data.Agents = agents
		s.renderShell(w, s.pages.agents, data, err, "Failed to fetch agents")
	}
}

// ServicesHandler lists categories with their services.
func (s *Server) ServicesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rs := s.bindSession(w, r, r.URL.Path)
		categories, err := rs.client.Categories(r.Context())
		if rs.finishForcedLogout(w, r) {
			return
		}

		data := s.pageData(r, rs, "Service & Pricing")
		data.Categories = categories
		s.renderShell(w, s.pages.services, data, err, "Failed to fetch categories.")
	}
}

// renderShell renders a page, turning a backend error into an inline
// message. Backend answers keep the page at 200; transport failures are 502.
func (s *Server) renderShell(w http.ResponseWriter, tmpl *template.Template, data PageData, err error, failMsg string) {
	status := http.StatusOK
	if err != nil {
		log.Err(err).Str("page", data.ActivePage).Msg("Backend request failed")
		data.Error = failMsg
		var statusErr *api.StatusError
		if !errors.As(err, &statusErr) {
			status = http.StatusBadGateway
		}
	}
	render(w, tmpl, status, data)
}

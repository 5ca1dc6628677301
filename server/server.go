package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/wash24-admin/api"
	"github.com/jrsteele09/wash24-admin/internal/config"
	"github.com/jrsteele09/wash24-admin/session"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env     string // Environment (e.g., "DEV", "PROD")
	appName string
	mux     *http.ServeMux
	handler http.Handler
	routes  []string
	config  config.Config

	client     *api.Client
	storage    session.Storage
	cookie     session.TokenCookie
	sessionTTL time.Duration
	loginRole  string
	guard      *RouteGuard
	pages      *pageTemplates
}

// New wires the admin shell: every request passes the route guard before
// reaching the mux.
func New(cfg config.Config, client *api.Client, storage session.Storage) (*Server, error) {
	if client == nil {
		return nil, fmt.Errorf("[Server New] api client is required")
	}
	if storage == nil {
		return nil, fmt.Errorf("[Server New] session storage is required")
	}

	pages, err := parsePageTemplates()
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse templates: %w", err)
	}

	cookie := session.TokenCookie{
		Name:   cfg.GetCookieName(),
		Path:   "/",
		MaxAge: cfg.GetCookieMaxAge(),
		Secure: cfg.GetCookieSecure(),
	}

	s := &Server{
		env:        cfg.GetEnv(),
		appName:    cfg.GetAppName(),
		mux:        http.NewServeMux(),
		config:     cfg,
		client:     client,
		storage:    storage,
		cookie:     cookie,
		sessionTTL: cfg.GetSessionTTL(),
		loginRole:  cfg.GetLoginRole(),
		guard:      NewRouteGuard(cookie),
		pages:      pages,
	}

	s.initRoutes()
	s.logRoutes()
	s.handler = ChainMiddleware(s.guard.Middleware(s.mux).ServeHTTP, s.HTMLMiddleWare()...)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colourMethod(method), path)
}

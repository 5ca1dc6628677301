package server

import (
	"github.com/jrsteele09/wash24-admin/internal/metrics"
)

func (s *Server) initRoutes() {
	// LOGIN
	s.RegisterRouteFunc("GET "+RouteAuthLogin, s.LoginPageHandler())
	s.RegisterRouteFunc("POST "+RouteAuthLogin, s.LoginSubmissionHandler())
	s.RegisterRouteFunc("GET "+RouteAuthLogout, s.LogoutHandler())
	s.RegisterRouteFunc("POST "+RouteAuthLogout, s.LogoutHandler())

	// Shell pages
	s.RegisterRouteFunc("GET "+RouteHome+"{$}", s.IndexHandler())
	s.RegisterRouteFunc("GET "+RouteOrders, s.StaticPageHandler("Orders", "Track and manage customer orders."))
	s.RegisterRouteFunc("GET "+RouteAgents, s.AgentsHandler())
	s.RegisterRouteFunc("GET "+RouteUsers, s.StaticPageHandler("Users", "Customer accounts."))
	s.RegisterRouteFunc("GET "+RouteServices, s.ServicesHandler())
	s.RegisterRouteFunc("GET "+RouteSettings, s.StaticPageHandler("Settings", "Shop and account settings."))
	s.RegisterRouteFunc("GET "+RouteHelp, s.StaticPageHandler("Help", "Guides for running the Wash24 admin."))
	s.RegisterRouteFunc("GET "+RouteSupport, s.StaticPageHandler("Support", "Contact the Wash24 team."))

	// Browser API proxy
	s.RegisterRouteFunc(RouteAPIProxy, s.APIProxyHandler())

	// Static assets
	s.RegisterRouteFunc("GET "+RouteStatic, ChainMiddleware(s.serveFileHandler(""), s.CacheMiddleware))
	s.RegisterRouteFunc("GET "+RouteFavicon, ChainMiddleware(s.serveFileHandler("favicon.ico"), s.CacheMiddleware))

	// Operational
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, metrics.Handler())
}

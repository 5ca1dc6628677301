package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes - Login & Logout
	RouteAuthLogin  = "/auth/login"
	RouteAuthLogout = "/auth/logout"

	// Shell pages
	RouteHome     = "/"
	RouteOrders   = "/orders"
	RouteAgents   = "/agents"
	RouteUsers    = "/users"
	RouteServices = "/services"
	RouteSettings = "/settings"
	RouteHelp     = "/help"
	RouteSupport  = "/support"

	// Browser API proxy
	RouteAPIPrefix = "/api/"
	RouteAPIProxy  = "/api/{path...}"

	// Static Asset Routes (patterns)
	RouteStaticPrefix = "/static/"
	RouteStatic       = "/static/{file...}"
	RouteFavicon      = "/favicon.ico"

	// Operational
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"
)

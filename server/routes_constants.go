package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteIndex    = "/"
	RouteCallback = "/oauth2/callback"
	RouteHealthz  = "/healthz"
)

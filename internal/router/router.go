package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movieclub/internal/handler"
)

// RegisterRoutes registers the unauthenticated service routes: the health
// check and the SPACE rubric.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", h.Health)
	e.GET("/v1/space", handler.Space)
}

// RegisterAuth registers the owner login endpoint.  Tokens it issues are
// checked by the protected review routes.
func RegisterAuth(g *echo.Group, a *handler.AuthHandler) {
	g.POST("/auth/login", a.Login)
}

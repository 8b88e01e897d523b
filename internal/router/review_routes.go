package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movieclub/internal/handler"
	"github.com/iliyamo/movieclub/internal/middleware"
	"github.com/iliyamo/movieclub/internal/utils"
)

// RegisterReviews registers the review, calibration, benchmark and
// dimension routes on the /v1 group.  Reads are public; anything that
// changes the collection requires an OWNER token.
func RegisterReviews(g *echo.Group, h *handler.ReviewHandler, jwtSecret string) {
	owner := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleOwner),
	}

	g.GET("/reviews", h.List)
	g.GET("/reviews/filter", h.Filter)
	g.POST("/reviews/seed", h.Seed, owner...)
	g.GET("/reviews/:filmId", h.Get)
	g.PUT("/reviews/:filmId", h.Save, owner...)
	g.DELETE("/reviews/:filmId", h.Delete, owner...)

	g.GET("/calibration", h.Calibration)
	g.POST("/benchmarks", h.BenchmarkFor)
	g.GET("/benchmarks/:filmId", h.BenchmarkReviewed)
	g.GET("/dimensions/:dim", h.Dimension)
}

package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movieclub/internal/handler"
)

// RegisterFilms registers the catalog proxy routes.  cache wraps only these
// routes; review data is never served from cache.
func RegisterFilms(g *echo.Group, h *handler.FilmHandler, cache echo.MiddlewareFunc) {
	films := g.Group("/films", cache)
	films.GET("/search", h.Search)
	films.GET("/popular", h.Popular)
	films.GET("/:id", h.Details)
}

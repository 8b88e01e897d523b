package handler

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movieclub/internal/catalog"
	"github.com/iliyamo/movieclub/internal/model"
)

// Catalog is the film lookup the film routes proxy.  *catalog.Client
// implements it.
type Catalog interface {
	Search(ctx context.Context, query string) iter.Seq2[catalog.FilmSummary, error]
	Popular(ctx context.Context) ([]catalog.FilmSummary, error)
	Details(ctx context.Context, id model.FilmID) (*model.Film, error)
}

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// FilmHandler proxies the film catalog.
type FilmHandler struct {
	Catalog Catalog
	Log     *slog.Logger
}

type filmList struct {
	Results []catalog.FilmSummary `json:"results"`
	Count   int                   `json:"count"`
}

// Search returns up to ?limit= films matching ?q=.  Queries shorter than
// two characters return an empty list.
func (h *FilmHandler) Search(c echo.Context) error {
	limit := defaultSearchLimit
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return errorJSON(c, http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = min(n, maxSearchLimit)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	results := make([]catalog.FilmSummary, 0, limit)
	for f, err := range h.Catalog.Search(ctx, c.QueryParam("q")) {
		if err != nil {
			h.Log.Warn("catalog search failed", "err", err)
			return errorJSON(c, http.StatusBadGateway, "catalog unavailable")
		}
		results = append(results, f)
		if len(results) == limit {
			break
		}
	}
	return c.JSON(http.StatusOK, filmList{Results: results, Count: len(results)})
}

// Popular returns the catalog's current popular list.
func (h *FilmHandler) Popular(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	films, err := h.Catalog.Popular(ctx)
	if err != nil {
		h.Log.Warn("catalog popular failed", "err", err)
		return errorJSON(c, http.StatusBadGateway, "catalog unavailable")
	}
	return c.JSON(http.StatusOK, filmList{Results: films, Count: len(films)})
}

// Details returns one film with credits, language name and the processed
// credit summary, ready to attach to a review.
func (h *FilmHandler) Details(c echo.Context) error {
	id, ok := filmIDParam(c, "id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "film id required")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	film, err := h.Catalog.Details(ctx, id)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, "film not found")
	case err != nil:
		h.Log.Warn("catalog details failed", "film", id, "err", err)
		return errorJSON(c, http.StatusBadGateway, "catalog unavailable")
	}
	return c.JSON(http.StatusOK, film)
}

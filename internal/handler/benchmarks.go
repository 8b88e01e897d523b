package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movieclub/internal/model"
)

// BenchmarkFor computes peer-group modes for the film described in the
// request body.  Only original_language, languageName and genres are read.
func (h *ReviewHandler) BenchmarkFor(c echo.Context) error {
	var film model.Film
	if err := c.Bind(&film); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	return c.JSON(http.StatusOK, h.Store.Benchmarks(&film))
}

// BenchmarkReviewed computes peer-group modes for a film that already has
// a review, using the metadata stored with it.
func (h *ReviewHandler) BenchmarkReviewed(c echo.Context) error {
	id, ok := filmIDParam(c, "filmId")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "film id required")
	}
	r, found := h.Store.GetReview(id)
	if !found {
		return errorJSON(c, http.StatusNotFound, "review not found")
	}
	return c.JSON(http.StatusOK, h.Store.Benchmarks(r.Film))
}

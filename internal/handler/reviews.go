package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movieclub/internal/calibration"
	"github.com/iliyamo/movieclub/internal/model"
	"github.com/iliyamo/movieclub/internal/seed"
	"github.com/iliyamo/movieclub/internal/service"
)

// ReviewHandler serves the review collection and the views derived from it.
type ReviewHandler struct {
	Store    *service.ReviewStore
	SeedFile string // empty uses the built-in seed set
	Log      *slog.Logger
}

type saveReviewReq struct {
	MovieData *model.Film    `json:"movieData"`
	Scores    map[string]int `json:"scores"`
	Text      string         `json:"text"`
}

type saveReviewResp struct {
	Review   model.Review         `json:"review"`
	Advisory calibration.Advisory `json:"advisory"`
}

// parseScores maps client keys (any case) onto dimensions and validates
// the full set.  Two keys naming the same dimension are rejected.
func parseScores(in map[string]int) (model.Scores, error) {
	out := make(model.Scores, len(in))
	for k, v := range in {
		d, ok := model.ParseDimension(k)
		if !ok {
			return nil, fmt.Errorf("%w: unknown dimension %q", model.ErrInvalidScores, k)
		}
		if _, dup := out[d]; dup {
			return nil, fmt.Errorf("%w: dimension %s given twice", model.ErrInvalidScores, d)
		}
		out[d] = v
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns every review, most recent first.
func (h *ReviewHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, newReviewList(h.Store.AllReviews()))
}

// Get returns the review for one film.
func (h *ReviewHandler) Get(c echo.Context) error {
	id, ok := filmIDParam(c, "filmId")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "film id required")
	}
	r, found := h.Store.GetReview(id)
	if !found {
		return errorJSON(c, http.StatusNotFound, "review not found")
	}
	return c.JSON(http.StatusOK, r)
}

// Save creates or replaces the review for a film.
func (h *ReviewHandler) Save(c echo.Context) error {
	id, ok := filmIDParam(c, "filmId")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "film id required")
	}
	var req saveReviewReq
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	scores, err := parseScores(req.Scores)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	text := strings.TrimSpace(req.Text)
	if err := model.ValidateText(text); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	if req.MovieData != nil && req.MovieData.ID == "" {
		req.MovieData.ID = id
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	r, err := h.Store.SaveReview(ctx, id, req.MovieData, scores, text)
	if err != nil {
		h.Log.Error("save review failed", "film", id, "err", err)
		return errorJSON(c, http.StatusInternalServerError, "save review failed")
	}
	return c.JSON(http.StatusOK, saveReviewResp{Review: r, Advisory: h.Store.Advisory()})
}

// Delete removes a film's review.  Deleting a film with no review is not an
// error.
func (h *ReviewHandler) Delete(c echo.Context) error {
	id, ok := filmIDParam(c, "filmId")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "film id required")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if err := h.Store.DeleteReview(ctx, id); err != nil {
		h.Log.Error("delete review failed", "film", id, "err", err)
		return errorJSON(c, http.StatusInternalServerError, "delete review failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// Seed merges the starter reviews into the collection without touching
// films that already have a review.
func (h *ReviewHandler) Seed(c echo.Context) error {
	reviews, err := seed.Load(h.SeedFile)
	if err != nil {
		h.Log.Error("load seed data failed", "file", h.SeedFile, "err", err)
		return errorJSON(c, http.StatusInternalServerError, "seed data unavailable")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	added, err := h.Store.LoadSeedData(ctx, reviews)
	if err != nil {
		h.Log.Error("seed reviews failed", "err", err)
		return errorJSON(c, http.StatusInternalServerError, "seed failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"added":   added,
		"skipped": len(reviews) - added,
		"total":   h.Store.Len(),
	})
}

// Filter returns reviews matching ?language= and sharing any of ?genres=.
func (h *ReviewHandler) Filter(c echo.Context) error {
	genres, err := parseGenreIDs(c.QueryParam("genres"))
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "genres must be comma-separated integers")
	}
	lang := strings.ToLower(strings.TrimSpace(c.QueryParam("language")))
	return c.JSON(http.StatusOK, newReviewList(h.Store.FilterReviews(lang, genres)))
}

// Calibration returns the full calibration report.
func (h *ReviewHandler) Calibration(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Report())
}

// Dimension returns the deep-dive insight for one dimension, addressed by
// letter or name.
func (h *ReviewHandler) Dimension(c echo.Context) error {
	d, ok := model.ParseDimension(c.Param("dim"))
	if !ok {
		return errorJSON(c, http.StatusNotFound, "unknown dimension")
	}
	return c.JSON(http.StatusOK, h.Store.DimensionInsight(d))
}

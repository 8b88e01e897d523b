// Package handler holds the echo handlers for the review API.
package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movieclub/internal/model"
)

// requestTimeout bounds every backend call made while serving a request.
const requestTimeout = 5 * time.Second

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": msg})
}

// filmIDParam reads a film id path parameter.  Ids are opaque strings but
// must be non-empty.
func filmIDParam(c echo.Context, name string) (model.FilmID, bool) {
	id := strings.TrimSpace(c.Param(name))
	return model.FilmID(id), id != ""
}

// parseGenreIDs splits a comma-separated list such as "18,28".  Empty
// input gives nil.
func parseGenreIDs(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var ids []int
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		ids = append(ids, n)
	}
	return ids, nil
}

// reviewList is the response body for every endpoint returning reviews.
type reviewList struct {
	Reviews []model.Review `json:"reviews"`
	Count   int            `json:"count"`
}

func newReviewList(reviews []model.Review) reviewList {
	if reviews == nil {
		reviews = []model.Review{}
	}
	return reviewList{Reviews: reviews, Count: len(reviews)}
}

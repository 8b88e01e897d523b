package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movieclub/internal/calibration"
	"github.com/iliyamo/movieclub/internal/model"
)

type spaceResp struct {
	Dimensions     []model.DimensionInfo `json:"dimensions"`
	ScoreLabels    map[int]string        `json:"scoreLabels"`
	ReferenceShare map[int]float64       `json:"referenceShare"`
	MinScore       int                   `json:"minScore"`
	MaxScore       int                   `json:"maxScore"`
	MaxTextLength  int                   `json:"maxTextLength"`
}

// Space serves the rubric: dimension text in display order, score labels
// and the target share of each score.
func Space(c echo.Context) error {
	dims := make([]model.DimensionInfo, 0, len(model.AllDimensions))
	for _, d := range model.AllDimensions {
		dims = append(dims, model.Dimensions[d])
	}
	return c.JSON(http.StatusOK, spaceResp{
		Dimensions:     dims,
		ScoreLabels:    model.ScoreLabels,
		ReferenceShare: calibration.ReferenceShare,
		MinScore:       model.MinScore,
		MaxScore:       model.MaxScore,
		MaxTextLength:  model.MaxTextLen,
	})
}

// Package insight summarises how a rater uses a single SPACE dimension
// compared with the other four.
package insight

import (
	"github.com/montanaflynn/stats"

	"github.com/iliyamo/movieclub/internal/model"
)

// indexingMargin is how far a dimension's average must sit from the
// cross-dimension average to count as over- or under-indexing.
const indexingMargin = 0.3

// Indexing flags
const (
	IndexingOver  = "over"
	IndexingUnder = "under"
	IndexingEven  = "even"
)

// Insight is the deep-dive summary for one dimension.
type Insight struct {
	Dimension      model.DimensionInfo `json:"dimension"`
	Rated          int                 `json:"rated"`
	Average        float64             `json:"average"`
	OverallAverage float64             `json:"overallAverage"`
	Distribution   map[int]int         `json:"distribution"`
	Fives          int                 `json:"fives"`
	Fours          int                 `json:"fours"`
	FivePercent    float64             `json:"fivePercent"`
	PeakFilms      []model.FilmID      `json:"peakFilms"`
	Indexing       string              `json:"indexing"`
}

// ForDimension builds the insight for dim over reviews, which should be in
// display order since PeakFilms keeps it.
func ForDimension(reviews []model.Review, dim model.Dimension) Insight {
	in := Insight{
		Dimension:    model.Dimensions[dim],
		Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
		PeakFilms:    []model.FilmID{},
		Indexing:     IndexingEven,
	}

	scores := dimensionScores(reviews, dim)
	in.Rated = len(scores)
	in.Average = mean(scores)
	for _, s := range scores {
		if _, ok := in.Distribution[int(s)]; ok {
			in.Distribution[int(s)]++
		}
	}
	if in.Rated > 0 {
		in.FivePercent = float64(in.Distribution[5]) / float64(in.Rated) * 100
	}

	for _, r := range reviews {
		v := r.Scores[dim]
		switch v {
		case 5:
			in.Fives++
		case 4:
			in.Fours++
		}
		if peak := r.Scores.Max(); v == peak && peak >= 4 {
			in.PeakFilms = append(in.PeakFilms, r.FilmID)
		}
	}

	averages := make([]float64, 0, len(model.AllDimensions))
	for _, d := range model.AllDimensions {
		averages = append(averages, mean(dimensionScores(reviews, d)))
	}
	in.OverallAverage = mean(averages)

	switch {
	case in.Average > in.OverallAverage+indexingMargin:
		in.Indexing = IndexingOver
	case in.Average < in.OverallAverage-indexingMargin:
		in.Indexing = IndexingUnder
	}
	return in
}

// dimensionScores collects the positive scores given to dim.
func dimensionScores(reviews []model.Review, dim model.Dimension) stats.Float64Data {
	out := make(stats.Float64Data, 0, len(reviews))
	for _, r := range reviews {
		if v := r.Scores[dim]; v > 0 {
			out = append(out, float64(v))
		}
	}
	return out
}

// mean is stats.Mean with 0 for an empty sample.
func mean(data stats.Float64Data) float64 {
	m, err := stats.Mean(data)
	if err != nil {
		return 0
	}
	return m
}

// Package benchmark computes peer-group score norms: the per-dimension
// mode of reviews that share a film's language and/or primary genre.
package benchmark

import (
	"strings"

	"github.com/iliyamo/movieclub/internal/model"
)

// MinSamples is the smallest peer group that yields a mode.
const MinSamples = 3

// Result is the benchmark for one film.  GenreMode and OverallMode are nil
// when no group meets MinSamples.
type Result struct {
	GenreMode      model.Scores `json:"genreMode"`
	GenreModeLabel string       `json:"genreModeLabel,omitempty"`
	OverallMode    model.Scores `json:"overallMode"`
	OverallCount   int          `json:"overallCount"`
}

// Mode returns the most frequent score.  Ties go to the lowest score so
// the result does not depend on input order.  ok is false for an empty
// input.
func Mode(scores []int) (mode int, ok bool) {
	if len(scores) == 0 {
		return 0, false
	}
	freq := make(map[int]int, len(scores))
	for _, s := range scores {
		freq[s]++
	}
	best := 0
	for s, n := range freq {
		if n > best || (n == best && s < mode) {
			mode, best = s, n
		}
	}
	return mode, true
}

// DimensionModes computes Mode per SPACE dimension.  It is all-or-nothing:
// if any dimension has no scores the whole result is absent.
func DimensionModes(reviews []model.Review) (model.Scores, bool) {
	if len(reviews) == 0 {
		return nil, false
	}
	out := make(model.Scores, len(model.AllDimensions))
	for _, d := range model.AllDimensions {
		vals := make([]int, 0, len(reviews))
		for _, r := range reviews {
			if v, ok := r.Scores[d]; ok {
				vals = append(vals, v)
			}
		}
		m, ok := Mode(vals)
		if !ok {
			return nil, false
		}
		out[d] = m
	}
	return out, true
}

// Filter keeps reviews whose film matches language (when non-empty) and
// carries at least one of genreIDs (when non-empty).  A review without
// metadata never matches an active filter.
func Filter(reviews []model.Review, language string, genreIDs []int) []model.Review {
	out := make([]model.Review, 0, len(reviews))
	for _, r := range reviews {
		if language != "" && r.Film.Language() != language {
			continue
		}
		if len(genreIDs) > 0 && !sharesGenre(r.Film.GenreIDs(), genreIDs) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func sharesGenre(have, want []int) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

// For resolves the peer-group benchmark for film against reviews.  The
// first group with enough samples and a complete set of modes wins:
// language plus primary genre, then language alone, then primary genre
// alone.
func For(reviews []model.Review, film *model.Film) Result {
	res := Result{OverallCount: len(reviews)}
	if len(reviews) >= MinSamples {
		if m, ok := DimensionModes(reviews); ok {
			res.OverallMode = m
		}
	}

	lang := film.Language()
	var genreID int
	var genreName string
	hasGenre := film != nil && len(film.Genres) > 0
	if hasGenre {
		genreID, genreName = film.Genres[0].ID, film.Genres[0].Name
	}

	type group struct {
		language string
		genres   []int
		label    string
		enabled  bool
	}
	groups := []group{
		{lang, []int{genreID}, languageLabel(film) + " " + genreName, lang != "" && hasGenre},
		{lang, nil, languageLabel(film), lang != ""},
		{"", []int{genreID}, genreName, hasGenre},
	}
	for _, g := range groups {
		if !g.enabled {
			continue
		}
		peers := Filter(reviews, g.language, g.genres)
		if len(peers) < MinSamples {
			continue
		}
		if m, ok := DimensionModes(peers); ok {
			res.GenreMode = m
			res.GenreModeLabel = g.label
			break
		}
	}
	return res
}

func languageLabel(film *model.Film) string {
	if film == nil {
		return ""
	}
	if film.LanguageName != "" {
		return film.LanguageName
	}
	return strings.ToUpper(film.OriginalLanguage)
}

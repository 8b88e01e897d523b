// Package calibration judges whether a rater's pooled score distribution
// is well calibrated against the SPACE reference shape.
package calibration

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/iliyamo/movieclub/internal/model"
)

// Distribution counts every score assigned across all reviews and all
// five dimensions, pooled.  Total always equals the sum of Counts.
type Distribution struct {
	Counts [model.MaxScore]int
	Total  int
}

// Add records one score observation.  Values outside 1..5 are ignored so
// the Total invariant cannot drift.
func (d *Distribution) Add(score int) {
	if score < model.MinScore || score > model.MaxScore {
		return
	}
	d.Counts[score-1]++
	d.Total++
}

// Count returns the number of observations of score, or 0 when the score
// is out of range.
func (d Distribution) Count(score int) int {
	if score < model.MinScore || score > model.MaxScore {
		return 0
	}
	return d.Counts[score-1]
}

// FromCounts builds a distribution from a score→count mapping and derives
// Total from the counts.
func FromCounts(counts map[int]int) Distribution {
	var d Distribution
	for s := model.MinScore; s <= model.MaxScore; s++ {
		d.Counts[s-1] = counts[s]
		d.Total += counts[s]
	}
	return d
}

// Compute rescans every review and pools its scores.
func Compute(reviews []model.Review) Distribution {
	var d Distribution
	for _, r := range reviews {
		for _, v := range r.Scores {
			d.Add(v)
		}
	}
	return d
}

// MarshalJSON writes {"1":n,...,"5":n,"total":n}.
func (d Distribution) MarshalJSON() ([]byte, error) {
	m := make(map[string]int, model.MaxScore+1)
	for s := model.MinScore; s <= model.MaxScore; s++ {
		m[strconv.Itoa(s)] = d.Counts[s-1]
	}
	m["total"] = d.Total
	return json.Marshal(m)
}

// UnmarshalJSON reads the stored form.  Total is taken from the payload;
// callers that need the invariant should check Consistent.
func (d *Distribution) UnmarshalJSON(b []byte) error {
	var m map[string]int
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("distribution: %w", err)
	}
	var out Distribution
	for s := model.MinScore; s <= model.MaxScore; s++ {
		out.Counts[s-1] = m[strconv.Itoa(s)]
	}
	out.Total = m["total"]
	*d = out
	return nil
}

// Consistent reports whether Total equals the sum of Counts.
func (d Distribution) Consistent() bool {
	sum := 0
	for _, c := range d.Counts {
		sum += c
	}
	return sum == d.Total
}

// Package seed provides the starter review set.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iliyamo/movieclub/internal/model"
)

//go:embed reviews.yaml
var defaultReviews []byte

// Default returns the embedded starter reviews.
func Default() ([]model.Review, error) {
	return Parse(defaultReviews)
}

// Load reads reviews from path, or the embedded set when path is empty.
func Load(path string) ([]model.Review, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML list of reviews and checks every score set.  Text
// length is not capped here; the cap applies to reviews users submit.
func Parse(data []byte) ([]model.Review, error) {
	var reviews []model.Review
	if err := yaml.Unmarshal(data, &reviews); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	for i, r := range reviews {
		if r.FilmID == "" {
			return nil, fmt.Errorf("seed review %d: missing movieId", i)
		}
		if err := r.Scores.Validate(); err != nil {
			return nil, fmt.Errorf("seed review %s: %w", r.FilmID, err)
		}
	}
	return reviews, nil
}

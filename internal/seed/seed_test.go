package seed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movieclub/internal/calibration"
	"github.com/iliyamo/movieclub/internal/model"
)

func TestDefault(t *testing.T) {
	reviews, err := Default()
	require.NoError(t, err)
	require.Len(t, reviews, 18)

	byID := map[model.FilmID]model.Review{}
	for _, r := range reviews {
		byID[r.FilmID] = r
	}
	goodfellas, ok := byID["769"]
	require.True(t, ok)
	assert.Equal(t, "GoodFellas", goodfellas.Title())
	assert.Equal(t, model.FilmID("769"), goodfellas.Film.ID)
	assert.Equal(t, model.Scores{"S": 5, "P": 4, "A": 5, "C": 5, "E": 3}, goodfellas.Scores)
	assert.Equal(t, time.Date(2024, 1, 12, 10, 0, 0, 0, time.UTC), goodfellas.CreatedAt.UTC())

	long := 0
	for _, r := range reviews {
		if len([]rune(r.Text)) > model.MaxTextLen {
			long++
		}
	}
	assert.Positive(t, long, "starter texts are kept at full length")

	d := calibration.Compute(reviews)
	assert.Equal(t, calibration.FromCounts(map[int]int{2: 6, 3: 37, 4: 24, 5: 23}), d)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- movieId: "1"
  scores: {S: 1, P: 2, A: 3, C: 4, E: 5}
  createdAt: 2025-02-03T04:05:06Z
`), 0o644))

	reviews, err := Load(path)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Nil(t, reviews[0].Film)
	assert.Equal(t, "1", reviews[0].Title())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParse_Rejects(t *testing.T) {
	_, err := Parse([]byte(`- movieId: "1"
  scores: {S: 1, P: 2, A: 3, C: 4}
`))
	assert.ErrorIs(t, err, model.ErrInvalidScores)

	_, err = Parse([]byte(`- scores: {S: 1, P: 2, A: 3, C: 4, E: 5}`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{not: a list`))
	assert.Error(t, err)
}

func TestParse_AcceptsLongText(t *testing.T) {
	reviews, err := Parse([]byte(`- movieId: "1"
  scores: {S: 1, P: 2, A: 3, C: 4, E: 5}
  text: "` + strings.Repeat("x", model.MaxTextLen+50) + `"
`))
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Len(t, reviews[0].Text, model.MaxTextLen+50)
}

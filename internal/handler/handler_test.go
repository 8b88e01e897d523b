package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/movieclub/internal/calibration"
	"github.com/iliyamo/movieclub/internal/catalog"
	"github.com/iliyamo/movieclub/internal/config"
	"github.com/iliyamo/movieclub/internal/model"
	"github.com/iliyamo/movieclub/internal/repository"
	"github.com/iliyamo/movieclub/internal/service"
	"github.com/iliyamo/movieclub/internal/utils"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newReviewHandler(t *testing.T) *ReviewHandler {
	t.Helper()
	store := service.NewReviewStore(repository.NewMemoryKV(), calibration.NewAnalyzer(""), nil, discard)
	require.NoError(t, store.Load(context.Background()))
	return &ReviewHandler{Store: store, Log: discard}
}

// call registers h under pattern and serves one request through the router,
// so path parameters are bound the way they are in production.
func call(t *testing.T, h echo.HandlerFunc, method, pattern, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Add(method, pattern, h)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

const matrixBody = `{
	"movieData": {"id": 603, "title": "The Matrix", "original_language": "en", "genres": [{"id": 878, "name": "Science Fiction"}]},
	"scores": {"s": 4, "P": 5, "A": 4, "C": 4, "E": 3},
	"text": "  whoa  "
}`

func TestSaveAndGetReview(t *testing.T) {
	h := newReviewHandler(t)

	rec := call(t, h.Save, http.MethodPut, "/v1/reviews/:filmId", "/v1/reviews/603", matrixBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[saveReviewResp](t, rec)
	assert.Equal(t, model.FilmID("603"), resp.Review.FilmID)
	assert.Equal(t, "whoa", resp.Review.Text)
	assert.Equal(t, 4, resp.Review.Scores[model.Story])
	// one 5 out of five scores trips the overuse warning
	assert.Equal(t, calibration.SeverityWarning, resp.Advisory.Severity)
	assert.Contains(t, resp.Advisory.Message, "Your 5s are 20%")

	rec = call(t, h.Get, http.MethodGet, "/v1/reviews/:filmId", "/v1/reviews/603", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[model.Review](t, rec)
	assert.Equal(t, "The Matrix", got.Title())

	rec = call(t, h.Get, http.MethodGet, "/v1/reviews/:filmId", "/v1/reviews/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveReview_Validation(t *testing.T) {
	h := newReviewHandler(t)
	cases := map[string]string{
		"missing dimension": `{"scores": {"S": 1, "P": 1, "A": 1, "C": 1}}`,
		"out of range":      `{"scores": {"S": 6, "P": 1, "A": 1, "C": 1, "E": 1}}`,
		"unknown key":       `{"scores": {"S": 1, "P": 1, "A": 1, "C": 1, "E": 1, "X": 1}}`,
		"text too long":     `{"scores": {"S": 1, "P": 1, "A": 1, "C": 1, "E": 1}, "text": "` + strings.Repeat("x", 281) + `"}`,
		"bad json":          `{"scores": `,
		"duplicate key":     `{"scores": {"s": 1, "S": 5, "P": 1, "A": 1, "C": 1, "E": 1}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := call(t, h.Save, http.MethodPut, "/v1/reviews/:filmId", "/v1/reviews/9", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Zero(t, h.Store.Len())
}

func TestParseScores_DuplicateDimension(t *testing.T) {
	_, err := parseScores(map[string]int{"s": 1, "S": 5, "P": 1, "A": 1, "C": 1, "E": 1})
	assert.ErrorIs(t, err, model.ErrInvalidScores)

	scores, err := parseScores(map[string]int{"s": 1, "p": 2, "A": 3, "c": 4, "E": 5})
	require.NoError(t, err)
	assert.Equal(t, 1, scores[model.Story])
	assert.Equal(t, 4, scores[model.Captivation])
}

func TestDeleteReview(t *testing.T) {
	h := newReviewHandler(t)
	call(t, h.Save, http.MethodPut, "/v1/reviews/:filmId", "/v1/reviews/603", matrixBody)

	rec := call(t, h.Delete, http.MethodDelete, "/v1/reviews/:filmId", "/v1/reviews/603", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = call(t, h.Delete, http.MethodDelete, "/v1/reviews/:filmId", "/v1/reviews/603", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, h.Store.Len())
}

func TestSeed_BuiltInSet(t *testing.T) {
	h := newReviewHandler(t)

	rec := call(t, h.Seed, http.MethodPost, "/v1/reviews/seed", "/v1/reviews/seed", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"added":18,"skipped":0,"total":18}`, rec.Body.String())

	rec = call(t, h.Seed, http.MethodPost, "/v1/reviews/seed", "/v1/reviews/seed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"added":0,"skipped":18,"total":18}`, rec.Body.String())
}

func TestSeedAndCalibration(t *testing.T) {
	h := newReviewHandler(t)
	call(t, h.Save, http.MethodPut, "/v1/reviews/:filmId", "/v1/reviews/769", `{"scores":{"S":1,"P":1,"A":1,"C":1,"E":1}}`)

	rec := call(t, h.Seed, http.MethodPost, "/v1/reviews/seed", "/v1/reviews/seed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"added":17,"skipped":1,"total":18}`, rec.Body.String())

	mine, _ := h.Store.GetReview("769")
	assert.Equal(t, 1, mine.Scores[model.Story])

	rec = call(t, h.Calibration, http.MethodGet, "/v1/calibration", "/v1/calibration", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rep := decode[calibration.Report](t, rec)
	assert.Equal(t, 90, rep.Distribution.Total)
	assert.Equal(t, 18, rep.Reviews)
	assert.Equal(t, calibration.SeverityWarning, rep.Advisory.Severity)
	assert.Contains(t, rep.Advisory.Message, "Your 5s are")

	rec = call(t, h.List, http.MethodGet, "/v1/reviews", "/v1/reviews", "")
	list := decode[reviewList](t, rec)
	assert.Equal(t, 18, list.Count)
	// the user's own review is newest
	assert.Equal(t, model.FilmID("769"), list.Reviews[0].FilmID)
}

func TestFilterAndBenchmarks(t *testing.T) {
	h := newReviewHandler(t)
	for _, id := range []string{"1", "2", "3"} {
		body := `{"movieData":{"original_language":"hi","languageName":"Hindi","genres":[{"id":18,"name":"Drama"}]},
			"scores":{"S":2,"P":2,"A":2,"C":2,"E":2}}`
		rec := call(t, h.Save, http.MethodPut, "/v1/reviews/:filmId", "/v1/reviews/"+id, body)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := call(t, h.Filter, http.MethodGet, "/v1/reviews/filter", "/v1/reviews/filter?language=HI&genres=18,99", "")
	assert.Equal(t, 3, decode[reviewList](t, rec).Count)

	rec = call(t, h.Filter, http.MethodGet, "/v1/reviews/filter", "/v1/reviews/filter?genres=x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, h.BenchmarkFor, http.MethodPost, "/v1/benchmarks", "/v1/benchmarks",
		`{"original_language":"hi","languageName":"Hindi","genres":[{"id":18,"name":"Drama"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Hindi Drama"`)

	rec = call(t, h.BenchmarkReviewed, http.MethodGet, "/v1/benchmarks/:filmId", "/v1/benchmarks/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = call(t, h.BenchmarkReviewed, http.MethodGet, "/v1/benchmarks/:filmId", "/v1/benchmarks/9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDimension(t *testing.T) {
	h := newReviewHandler(t)
	rec := call(t, h.Dimension, http.MethodGet, "/v1/dimensions/:dim", "/v1/dimensions/story", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Story"`)

	rec = call(t, h.Dimension, http.MethodGet, "/v1/dimensions/:dim", "/v1/dimensions/z", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSpace(t *testing.T) {
	rec := call(t, Space, http.MethodGet, "/v1/space", "/v1/space", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[spaceResp](t, rec)
	require.Len(t, resp.Dimensions, 5)
	assert.Equal(t, model.Story, resp.Dimensions[0].Key)
	assert.Equal(t, "Era-Defining", resp.ScoreLabels[5])
	assert.InDelta(t, 0.4, resp.ReferenceShare[1], 1e-9)
}

type fakeCatalog struct {
	films []catalog.FilmSummary
	err   error
}

func (f *fakeCatalog) Search(_ context.Context, q string) iter.Seq2[catalog.FilmSummary, error] {
	return func(yield func(catalog.FilmSummary, error) bool) {
		if f.err != nil {
			yield(catalog.FilmSummary{}, f.err)
			return
		}
		for _, film := range f.films {
			if !yield(film, nil) {
				return
			}
		}
	}
}

func (f *fakeCatalog) Popular(context.Context) ([]catalog.FilmSummary, error) {
	return f.films, f.err
}

func (f *fakeCatalog) Details(_ context.Context, id model.FilmID) (*model.Film, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, film := range f.films {
		if film.ID == id {
			return &model.Film{ID: id, Title: film.Title}, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func TestFilms(t *testing.T) {
	fc := &fakeCatalog{films: []catalog.FilmSummary{{ID: "1", Title: "A"}, {ID: "2", Title: "B"}, {ID: "3", Title: "C"}}}
	h := &FilmHandler{Catalog: fc, Log: discard}

	rec := call(t, h.Search, http.MethodGet, "/v1/films/search", "/v1/films/search?q=ab&limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[filmList](t, rec).Count)

	rec = call(t, h.Search, http.MethodGet, "/v1/films/search", "/v1/films/search?q=ab&limit=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, h.Popular, http.MethodGet, "/v1/films/popular", "/v1/films/popular", "")
	assert.Equal(t, 3, decode[filmList](t, rec).Count)

	rec = call(t, h.Details, http.MethodGet, "/v1/films/:id", "/v1/films/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "B", decode[model.Film](t, rec).Title)

	rec = call(t, h.Details, http.MethodGet, "/v1/films/:id", "/v1/films/9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	fc.err = errors.New("upstream down")
	for _, hf := range []echo.HandlerFunc{h.Search, h.Popular} {
		rec = call(t, hf, http.MethodGet, "/v1/films/search", "/v1/films/search?q=ab", "")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	}
	rec = call(t, h.Details, http.MethodGet, "/v1/films/:id", "/v1/films/2", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	h := &AuthHandler{Cfg: config.Config{JWTSecret: "s", AccessTTLMin: 5, OwnerPasswordHash: string(hash)}}

	rec := call(t, h.Login, http.MethodPost, "/v1/auth/login", "/v1/auth/login", `{"password":"hunter2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[loginResp](t, rec)
	claims, err := utils.ParseAccessToken("s", resp.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, utils.RoleOwner, claims.Role)

	rec = call(t, h.Login, http.MethodPost, "/v1/auth/login", "/v1/auth/login", `{"password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = call(t, h.Login, http.MethodPost, "/v1/auth/login", "/v1/auth/login", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	h := &HealthHandler{Store: newReviewHandler(t).Store}
	rec := call(t, h.Health, http.MethodGet, "/healthz", "/healthz", "")
	assert.JSONEq(t, `{"status":"ok","reviews":0,"redis":"disabled"}`, rec.Body.String())
}

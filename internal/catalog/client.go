// Package catalog is a thin client for the TMDB movie catalog.  Review
// logic never calls it; the HTTP layer proxies it so clients can look up
// the metadata they attach to a review.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iliyamo/movieclub/internal/model"
)

// DefaultBaseURL is the public TMDB v3 API root.
const DefaultBaseURL = "https://api.themoviedb.org/3"

// MinQueryLen is the shortest query Search sends upstream.
const MinQueryLen = 2

// maxSearchPages bounds how far Search will page.
const maxSearchPages = 10

// ErrNotFound is returned when the catalog has no film with the given id.
var ErrNotFound = errors.New("film not found in catalog")

// FilmSummary is one row of a search or popular listing.
type FilmSummary struct {
	ID               model.FilmID `json:"id"`
	Title            string       `json:"title"`
	ReleaseDate      string       `json:"release_date,omitempty"`
	PosterPath       string       `json:"poster_path,omitempty"`
	Overview         string       `json:"overview,omitempty"`
	OriginalLanguage string       `json:"original_language,omitempty"`
	GenreIDs         []int        `json:"genre_ids,omitempty"`
}

type page struct {
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	Results    []FilmSummary `json:"results"`
}

// Client talks to the catalog API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a reusable HTTP client.  An empty baseURL selects
// DefaultBaseURL.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Search yields matching films page by page, fetching the next page only
// when the caller keeps ranging.  Queries shorter than MinQueryLen yield
// nothing.  A failed page is yielded as an error and ends the sequence.
func (c *Client) Search(ctx context.Context, query string) iter.Seq2[FilmSummary, error] {
	query = strings.TrimSpace(query)
	return func(yield func(FilmSummary, error) bool) {
		if len([]rune(query)) < MinQueryLen {
			return
		}
		for n := 1; n <= maxSearchPages; n++ {
			var p page
			q := url.Values{
				"query":         {query},
				"include_adult": {"false"},
				"page":          {fmt.Sprint(n)},
			}
			if err := c.get(ctx, "/search/movie", q, &p); err != nil {
				yield(FilmSummary{}, err)
				return
			}
			for _, f := range p.Results {
				if !yield(f, nil) {
					return
				}
			}
			if n >= p.TotalPages || len(p.Results) == 0 {
				return
			}
		}
	}
}

// Popular returns the first page of currently popular films.
func (c *Client) Popular(ctx context.Context) ([]FilmSummary, error) {
	var p page
	if err := c.get(ctx, "/movie/popular", nil, &p); err != nil {
		return nil, err
	}
	if p.Results == nil {
		return []FilmSummary{}, nil
	}
	return p.Results, nil
}

// Details fetches a film with its credits, then fills in LanguageName and
// ProcessedCredits.
func (c *Client) Details(ctx context.Context, id model.FilmID) (*model.Film, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	var film model.Film
	q := url.Values{"append_to_response": {"credits"}}
	if err := c.get(ctx, "/movie/"+url.PathEscape(string(id)), q, &film); err != nil {
		return nil, err
	}
	film.LanguageName = LanguageName(film.OriginalLanguage)
	film.ProcessedCredits = ExtractCredits(film.Credits)
	return &film, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, v any) error {
	if q == nil {
		q = url.Values{}
	}
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

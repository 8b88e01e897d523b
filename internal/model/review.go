package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FilmID identifies a film.  Catalog ids are integers but older stored
// reviews key films by string, so both JSON forms are accepted and the
// value is always kept as its decimal string.
type FilmID string

// UnmarshalJSON accepts a JSON string or number.
func (id *FilmID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FilmID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("film id: %w", err)
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("film id %q is not an integer", n.String())
	}
	*id = FilmID(n.String())
	return nil
}

// Review is one user-authored rating of one film.
//
// Fields:
//  FilmID    – key of the review collection; one review per film.
//  Film      – catalog record at the time of review (may be nil).
//  Scores    – SPACE scores, one per dimension.
//  Text      – optional annotation, at most MaxTextLen characters.
//  CreatedAt – set on every save, including a replace.
type Review struct {
	FilmID    FilmID    `json:"movieId" yaml:"movieId"`
	Film      *Film     `json:"movieData" yaml:"movieData"`
	Scores    Scores    `json:"scores" yaml:"scores"`
	Text      string    `json:"text" yaml:"text"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// Title returns the film title or the id when no metadata is attached.
func (r Review) Title() string {
	if r.Film != nil && r.Film.Title != "" {
		return r.Film.Title
	}
	return string(r.FilmID)
}

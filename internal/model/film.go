package model

// Film is the movie record passed in by callers when a review is saved.
// It mirrors the catalog's detail payload.  The review core treats it as
// opaque: only OriginalLanguage, LanguageName and Genres are read, and
// only for benchmarking and filtering.  Every field is optional.
type Film struct {
	ID               FilmID            `json:"id,omitempty" yaml:"id,omitempty"`
	Title            string            `json:"title,omitempty" yaml:"title,omitempty"`
	ReleaseDate      string            `json:"release_date,omitempty" yaml:"release_date,omitempty"`
	PosterPath       string            `json:"poster_path,omitempty" yaml:"poster_path,omitempty"`
	Overview         string            `json:"overview,omitempty" yaml:"overview,omitempty"`
	Runtime          int               `json:"runtime,omitempty" yaml:"runtime,omitempty"`
	OriginalLanguage string            `json:"original_language,omitempty" yaml:"original_language,omitempty"`
	LanguageName     string            `json:"languageName,omitempty" yaml:"languageName,omitempty"`
	Genres           []Genre           `json:"genres,omitempty" yaml:"genres,omitempty"`
	Credits          *Credits          `json:"credits,omitempty" yaml:"credits,omitempty"`
	ProcessedCredits *ProcessedCredits `json:"processedCredits,omitempty" yaml:"processedCredits,omitempty"`
}

// Genre is a catalog genre reference.
type Genre struct {
	ID   int    `json:"id" yaml:"id,omitempty"`
	Name string `json:"name" yaml:"name,omitempty"`
}

// Credits holds the raw cast and crew lists from the catalog.
type Credits struct {
	Cast []CastMember `json:"cast,omitempty" yaml:"cast,omitempty"`
	Crew []CrewMember `json:"crew,omitempty" yaml:"crew,omitempty"`
}

type CastMember struct {
	Name      string `json:"name" yaml:"name,omitempty"`
	Character string `json:"character,omitempty" yaml:"character,omitempty"`
	Order     int    `json:"order" yaml:"order,omitempty"`
}

type CrewMember struct {
	Name       string `json:"name" yaml:"name,omitempty"`
	Job        string `json:"job" yaml:"job,omitempty"`
	Department string `json:"department,omitempty" yaml:"department,omitempty"`
}

// ProcessedCredits is the short credit summary shown next to a review.
type ProcessedCredits struct {
	Directors []string `json:"directors" yaml:"directors,omitempty"`
	TopCast   []string `json:"topCast" yaml:"topCast,omitempty"`
	Composers []string `json:"composers" yaml:"composers,omitempty"`
}

// GenreIDs returns the film's genre ids in catalog order.  A nil film
// has none.
func (f *Film) GenreIDs() []int {
	if f == nil {
		return nil
	}
	ids := make([]int, 0, len(f.Genres))
	for _, g := range f.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

// Language returns the original language code, or "" when unknown.
func (f *Film) Language() string {
	if f == nil {
		return ""
	}
	return f.OriginalLanguage
}

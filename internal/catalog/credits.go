package catalog

import (
	"strings"

	"github.com/iliyamo/movieclub/internal/model"
)

// ImageBaseURL serves poster and backdrop files.
const ImageBaseURL = "https://image.tmdb.org/t/p"

var languageNames = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"ta": "Tamil",
	"te": "Telugu",
	"ml": "Malayalam",
	"kn": "Kannada",
	"bn": "Bengali",
	"mr": "Marathi",
	"pa": "Punjabi",
	"gu": "Gujarati",
	"fr": "French",
	"es": "Spanish",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
	"ru": "Russian",
	"ar": "Arabic",
}

// LanguageName maps an ISO 639-1 code to a display name.  Unknown codes
// come back upper-cased; an empty code is "Unknown".
func LanguageName(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	if code == "" {
		return "Unknown"
	}
	return strings.ToUpper(code)
}

// ImageURL builds a full image URL.  size defaults to w500; an empty path
// gives "".
func ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = "w500"
	}
	return ImageBaseURL + "/" + size + path
}

const (
	maxDirectors = 2
	maxTopCast   = 3
	maxComposers = 1
)

var composerJobs = map[string]bool{
	"Original Music Composer": true,
	"Music":                   true,
	"Composer":                true,
	"Music Director":          true,
}

// ExtractCredits summarises raw credits: up to two directors, the first
// three billed cast members and one composer.  Nil credits give nil.
func ExtractCredits(c *model.Credits) *model.ProcessedCredits {
	if c == nil {
		return nil
	}
	pc := &model.ProcessedCredits{
		Directors: []string{},
		TopCast:   []string{},
		Composers: []string{},
	}
	for _, p := range c.Crew {
		if p.Job == "Director" && len(pc.Directors) < maxDirectors {
			pc.Directors = append(pc.Directors, p.Name)
		}
	}
	for _, p := range c.Cast {
		if len(pc.TopCast) == maxTopCast {
			break
		}
		pc.TopCast = append(pc.TopCast, p.Name)
	}
	for _, p := range c.Crew {
		if len(pc.Composers) == maxComposers {
			break
		}
		if p.Job == "Sound Designer" || p.Job == "Sound Mixer" {
			continue
		}
		if composerJobs[p.Job] || p.Department == "Sound" {
			pc.Composers = append(pc.Composers, p.Name)
		}
	}
	return pc
}

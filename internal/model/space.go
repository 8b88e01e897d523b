package model

import (
    "errors"
    "fmt"
    "strings"
)

// Dimension is one axis of the SPACE rubric.  Its value is the single
// letter used as the key in a review's scores object.
type Dimension string

const (
    Story       Dimension = "S"
    Pageantry   Dimension = "P"
    Amusement   Dimension = "A"
    Captivation Dimension = "C"
    Emotion     Dimension = "E"
)

// MinScore and MaxScore bound every dimension score.
const (
    MinScore = 1
    MaxScore = 5
)

// MaxTextLen caps the free-form annotation, counted in characters.
const MaxTextLen = 280

// AllDimensions lists the rubric in display order.  Anything that walks
// dimensions must use this order so results are stable.
var AllDimensions = []Dimension{Story, Pageantry, Amusement, Captivation, Emotion}

// DimensionInfo describes a SPACE dimension for clients that render the
// review form or a dimension deep dive.
//
// Fields:
//  Key             – single letter key (S, P, A, C, E).
//  Name            – display name.
//  Description     – one-line prompt shown next to the slider.
//  FullDescription – longer definition of what the dimension measures.
//  ExampleFive     – films that earn a 5 on this dimension.
//  ExampleTwo      – what a 2 looks like.
type DimensionInfo struct {
    Key             Dimension `json:"key"`
    Name            string    `json:"name"`
    Description     string    `json:"description"`
    FullDescription string    `json:"fullDescription"`
    ExampleFive     string    `json:"exampleFive"`
    ExampleTwo      string    `json:"exampleTwo"`
}

// Dimensions holds the rubric text keyed by dimension.
var Dimensions = map[Dimension]DimensionInfo{
    Story: {
        Key:             Story,
        Name:            "Story",
        Description:     "Is the narrative compelling? Pacing, stakes, payoff.",
        FullDescription: "Story measures narrative craft: structure, pacing, tension, resolution. A high Story score means the plot holds together, the stakes feel real, and the payoff is earned. A simple story well told scores higher than a convoluted mess.",
        ExampleFive:     "Goodfellas, Pulp Fiction, Memento, Parasite. Films that redefined narrative structure.",
        ExampleTwo:      "Generic action films where plot exists only to connect set pieces.",
    },
    Pageantry: {
        Key:             Pageantry,
        Name:            "Pageantry",
        Description:     "How good does it look? Spectacle, beauty, visual coherence.",
        FullDescription: "Pageantry measures visual impact: cinematography, production design, VFX, spectacle. A high Pageantry score means the film is visually memorable, whether through grand scale or intimate beauty. A well-shot indie can outscore a bloated blockbuster.",
        ExampleFive:     "Avatar, 300, Blade Runner 2049, Bahubali 2. Films that redefined visual possibility.",
        ExampleTwo:      "Competent but forgettable TV-movie aesthetics.",
    },
    Amusement: {
        Key:             Amusement,
        Name:            "Amusement",
        Description:     "Is it fun? Would you watch again? Pure enjoyment.",
        FullDescription: "Amusement measures entertainment value: pure enjoyment, rewatchability, the pleasure of the experience. A high Amusement score means you would happily watch it again. A guilty pleasure can score high here while scoring lower elsewhere.",
        ExampleFive:     "Goodfellas, Sholay, When Harry Met Sally, Raiders of the Lost Ark. Endlessly rewatchable.",
        ExampleTwo:      "Respectable but dull films you would never revisit.",
    },
    Captivation: {
        Key:             Captivation,
        Name:            "Captivation",
        Description:     "Do the performers hold your attention? Presence, magnetism.",
        FullDescription: "Captivation measures screen presence: the ability of performers to command your attention. A high Captivation score means you cannot look away when they are on screen, whether through intensity, charisma, or vulnerability.",
        ExampleFive:     "Heath Ledger in The Dark Knight, Rajesh Khanna in Aradhana, the Goodfellas trio.",
        ExampleTwo:      "Adequate performances that do not distract but do not compel.",
    },
    Emotion: {
        Key:             Emotion,
        Name:            "Emotion",
        Description:     "Does it make you feel something? Joy, dread, tears, warmth.",
        FullDescription: "Emotion measures affective impact. A high Emotion score means a genuine emotional response: tears, joy, dread, catharsis. Restrained films can be more devastating than overwrought ones.",
        ExampleFive:     "Schindler's List, The Return of the King, Titanic, Grave of the Fireflies. Films that leave you changed.",
        ExampleTwo:      "Films that aim for emotion but do not land, or do not try.",
    },
}

// ScoreLabels names each point on the 1..5 scale.
var ScoreLabels = map[int]string{
    1: "Below Par",
    2: "Average",
    3: "Above Average",
    4: "Superlative",
    5: "Era-Defining",
}

// ParseDimension accepts a dimension key or display name in any case,
// e.g. "s", "S" or "story".
func ParseDimension(s string) (Dimension, bool) {
    s = strings.TrimSpace(s)
    if len(s) == 1 {
        d := Dimension(strings.ToUpper(s))
        _, ok := Dimensions[d]
        return d, ok
    }
    for _, d := range AllDimensions {
        if strings.EqualFold(Dimensions[d].Name, s) {
            return d, true
        }
    }
    return "", false
}

// ErrInvalidScores is returned when a scores object is missing a
// dimension, carries an unknown key or holds a value outside 1..5.
var ErrInvalidScores = errors.New("invalid scores")

// ErrTextTooLong is returned when a review annotation exceeds MaxTextLen.
var ErrTextTooLong = errors.New("review text too long")

// Scores maps each SPACE dimension to an integer score.  A finalized
// review carries all five keys.
type Scores map[Dimension]int

// Validate checks that exactly the five dimensions are present and that
// every value lies in [MinScore, MaxScore].
func (s Scores) Validate() error {
    if len(s) != len(AllDimensions) {
        return fmt.Errorf("%w: want %d dimensions, got %d", ErrInvalidScores, len(AllDimensions), len(s))
    }
    for _, d := range AllDimensions {
        v, ok := s[d]
        if !ok {
            return fmt.Errorf("%w: missing %s", ErrInvalidScores, d)
        }
        if v < MinScore || v > MaxScore {
            return fmt.Errorf("%w: %s=%d out of range", ErrInvalidScores, d, v)
        }
    }
    return nil
}

// Max returns the highest score across all dimensions, or 0 when empty.
func (s Scores) Max() int {
    m := 0
    for _, v := range s {
        if v > m {
            m = v
        }
    }
    return m
}

// Clone returns an independent copy.
func (s Scores) Clone() Scores {
    if s == nil {
        return nil
    }
    out := make(Scores, len(s))
    for k, v := range s {
        out[k] = v
    }
    return out
}

// ValidateText enforces the annotation length cap in characters (runes).
func ValidateText(text string) error {
    if n := len([]rune(text)); n > MaxTextLen {
        return fmt.Errorf("%w: %d > %d", ErrTextTooLong, n, MaxTextLen)
    }
    return nil
}

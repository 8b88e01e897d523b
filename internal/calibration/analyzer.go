package calibration

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/iliyamo/movieclub/internal/model"
)

// ReferenceShare is the target share of each score for a calibrated rater.
var ReferenceShare = map[int]float64{
	1: 0.40, // Below Par
	2: 0.30, // Average
	3: 0.20, // Above Average
	4: 0.08, // Superlative
	5: 0.02, // Era-Defining
}

// DegreesOfFreedom for a five-bucket goodness-of-fit test.
const DegreesOfFreedom = 4

// Advisory thresholds.  These are literal cutoffs, not tunables.
const (
	minObservations    = 5
	minChiObservations = 10
	maxFivePercent     = 10.0
	maxFourPercent     = 25.0
	alphaStrict        = 0.05
	alphaLoose         = 0.10
)

// Percentages returns count/total×100 per score.  All zeros when the
// distribution is empty.
func Percentages(d Distribution) map[int]float64 {
	out := make(map[int]float64, model.MaxScore)
	for s := model.MinScore; s <= model.MaxScore; s++ {
		if d.Total == 0 {
			out[s] = 0
			continue
		}
		out[s] = float64(d.Count(s)) / float64(d.Total) * 100
	}
	return out
}

// Expected returns the reference count per score for total observations.
func Expected(total int) map[int]float64 {
	out := make(map[int]float64, model.MaxScore)
	for s := model.MinScore; s <= model.MaxScore; s++ {
		out[s] = ReferenceShare[s] * float64(total)
	}
	return out
}

// ChiSquared sums (O−E)²/E over the score buckets.  A bucket whose
// expected count is below 1 is left out.
func ChiSquared(d Distribution, total int) float64 {
	chi := 0.0
	for s := model.MinScore; s <= model.MaxScore; s++ {
		o := float64(d.Count(s))
		e := ReferenceShare[s] * float64(total)
		if e < 1 {
			continue
		}
		chi += (o - e) * (o - e) / e
	}
	return chi
}

// PValue approximates the chi-squared upper tail with the Wilson–Hilferty
// cube-root transform followed by the Abramowitz–Stegun 7.1.26 normal
// CDF (error below 1.5e-7).  Non-positive inputs give 1.
func PValue(chiSquared float64, df int) float64 {
	if chiSquared <= 0 || df <= 0 {
		return 1
	}
	k := float64(df)
	z := math.Pow(chiSquared/k, 1.0/3) - (1 - 2/(9*k))
	z /= math.Sqrt(2 / (9 * k))
	return 1 - normalCDF(z)
}

func normalCDF(x float64) float64 {
	const (
		a1 = 0.254829592
		a2 = -0.284496736
		a3 = 1.421413741
		a4 = -1.453152027
		a5 = 1.061405429
		p  = 0.3275911
	)
	sign := 1.0
	if x < 0 {
		sign = -1
	}
	x = math.Abs(x) / math.Sqrt2
	t := 1.0 / (1.0 + p*x)
	y := 1.0 - (((((a5*t+a4)*t)+a3)*t+a2)*t+a1)*t*math.Exp(-x*x)
	return 0.5 * (1.0 + sign*y)
}

// ExactPValue is the exact upper tail from the chi-squared CDF.
func ExactPValue(chiSquared float64, df int) float64 {
	if chiSquared <= 0 || df <= 0 {
		return 1
	}
	return 1 - distuv.ChiSquared{K: float64(df)}.CDF(chiSquared)
}

// Method selects how the analyzer turns a statistic into a p-value.
type Method string

const (
	WilsonHilferty Method = "wilson-hilferty"
	Exact          Method = "exact"
)

// ParseMethod maps a config string to a Method, defaulting to
// WilsonHilferty for anything unrecognised.
func ParseMethod(s string) Method {
	if Method(s) == Exact {
		return Exact
	}
	return WilsonHilferty
}

// Severity of an advisory, in the vocabulary clients style on.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

// Advisory is the single prioritized message shown to the rater.
type Advisory struct {
	Severity Severity `json:"type"`
	Message  string   `json:"message"`
}

// Report bundles every derived calibration figure for one distribution.
type Report struct {
	Distribution     Distribution    `json:"distribution"`
	Reviews          int             `json:"reviews"`
	Percentages      map[int]float64 `json:"percentages"`
	Expected         map[int]float64 `json:"expected"`
	ChiSquared       float64         `json:"chiSquared"`
	DegreesOfFreedom int             `json:"degreesOfFreedom"`
	PValue           float64         `json:"pValue"`
	Method           Method          `json:"method"`
	Advisory         Advisory        `json:"advisory"`
}

// Analyzer applies the advisory cascade using the configured p-value
// method.  The zero value uses WilsonHilferty.
type Analyzer struct {
	method Method
}

func NewAnalyzer(m Method) *Analyzer {
	return &Analyzer{method: ParseMethod(string(m))}
}

// Method reports the p-value method in use.
func (a *Analyzer) Method() Method {
	if a == nil || a.method == "" {
		return WilsonHilferty
	}
	return a.method
}

func (a *Analyzer) pValue(chi float64) float64 {
	if a.Method() == Exact {
		return ExactPValue(chi, DegreesOfFreedom)
	}
	return PValue(chi, DegreesOfFreedom)
}

// Advisory evaluates the rules in order; the first match wins.  The two
// overuse guardrails fire before the statistical test is consulted.
func (a *Analyzer) Advisory(d Distribution) Advisory {
	pct := Percentages(d)

	if d.Total < minObservations {
		return Advisory{SeverityInfo, "Keep reviewing to see your calibration stats."}
	}
	if pct[5] > maxFivePercent {
		return Advisory{SeverityWarning, fmt.Sprintf(
			"Your 5s are %s%% of scores. Era-defining should be ~2%%—reserve for truly exceptional films.", roundPercent(pct[5]))}
	}
	if pct[4] > maxFourPercent {
		return Advisory{SeverityWarning, fmt.Sprintf(
			"Your 4s are %s%% of scores. Superlative should be ~8%%—the top decile.", roundPercent(pct[4]))}
	}
	if d.Total >= minChiObservations {
		p := a.pValue(ChiSquared(d, d.Total))
		if p < alphaStrict {
			return Advisory{SeverityError,
				"Your rating distribution is highly unusual (p < 0.05). Consider whether you're applying the scale consistently."}
		}
		if p < alphaLoose {
			return Advisory{SeverityWarning,
				"Your rating distribution is somewhat unusual (p < 0.10). Most films should be 1s and 2s."}
		}
	}
	return Advisory{SeveritySuccess, "Your calibration looks healthy. Keep it up!"}
}

// Report computes the full set of figures behind the advisory.
func (a *Analyzer) Report(d Distribution) Report {
	chi := ChiSquared(d, d.Total)
	return Report{
		Distribution:     d,
		Reviews:          (d.Total + len(model.AllDimensions) - 1) / len(model.AllDimensions),
		Percentages:      Percentages(d),
		Expected:         Expected(d.Total),
		ChiSquared:       chi,
		DegreesOfFreedom: DegreesOfFreedom,
		PValue:           a.pValue(chi),
		Method:           a.Method(),
		Advisory:         a.Advisory(d),
	}
}

// roundPercent rounds half away from zero, matching how the figure is
// shown elsewhere in the UI.
func roundPercent(v float64) string {
	return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
}

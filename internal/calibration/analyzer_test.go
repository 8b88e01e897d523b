package calibration

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movieclub/internal/model"
)

func TestPercentages_EmptyIsAllZero(t *testing.T) {
	pct := Percentages(Distribution{})
	require.Len(t, pct, 5)
	for s := 1; s <= 5; s++ {
		assert.Equal(t, 0.0, pct[s])
	}
}

func TestPercentages_SumToHundred(t *testing.T) {
	d := FromCounts(map[int]int{1: 3, 2: 7, 3: 1, 4: 1, 5: 1})
	first := Percentages(d)
	second := Percentages(d)
	assert.Equal(t, first, second)

	sum := 0.0
	for _, v := range first {
		sum += v
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
	assert.InDelta(t, 7.0/13*100, first[2], 1e-9)
}

func TestChiSquared_ReferenceShapeIsZero(t *testing.T) {
	d := FromCounts(map[int]int{1: 40, 2: 30, 3: 20, 4: 8, 5: 2})
	require.Equal(t, 100, d.Total)
	assert.InDelta(t, 0.0, ChiSquared(d, d.Total), 1e-12)
}

func TestChiSquared_SkipsSmallExpectedBuckets(t *testing.T) {
	// expected for score 5 is 0.4 and must not contribute.
	d := FromCounts(map[int]int{1: 1, 2: 8, 3: 6, 4: 3, 5: 2})
	assert.InDelta(t, 9.016666666666667, ChiSquared(d, d.Total), 1e-9)

	d = FromCounts(map[int]int{1: 10})
	assert.InDelta(t, 14.0, ChiSquared(d, d.Total), 1e-9)
}

func TestPValue_ReferenceValues(t *testing.T) {
	cases := []struct {
		chi  float64
		want float64
	}{
		{0.5, 0.9703268451875493},
		{1, 0.9089377001618534},
		{4, 0.4068319058866542},
		{7.779, 0.09873885645466496},
		{9.488, 0.04934764247767509},
		{13.277, 0.010122185244184734},
		{20, 0.0005814130871988343},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, PValue(tc.chi, 4), 1e-12, "chi=%v", tc.chi)
	}
}

func TestPValue_DegenerateInputs(t *testing.T) {
	assert.Equal(t, 1.0, PValue(0, 4))
	assert.Equal(t, 1.0, PValue(-3, 4))
	assert.Equal(t, 1.0, PValue(5, 0))
	assert.Equal(t, 1.0, PValue(5, -1))
	assert.Equal(t, 1.0, ExactPValue(0, 4))
	assert.Equal(t, 1.0, ExactPValue(5, 0))
}

func TestExactPValue_TracksApproximation(t *testing.T) {
	// The 95th percentile of chi-squared with 4 df is 9.4877.
	assert.InDelta(t, 0.05, ExactPValue(9.4877, 4), 1e-4)
	for _, chi := range []float64{1, 4, 9.488, 13.277} {
		assert.InDelta(t, ExactPValue(chi, 4), PValue(chi, 4), 0.01, "chi=%v", chi)
	}
}

func TestAdvisory_Cascade(t *testing.T) {
	a := NewAnalyzer(WilsonHilferty)
	cases := []struct {
		name   string
		counts map[int]int
		want   Severity
		substr string
	}{
		{"empty", nil, SeverityInfo, "Keep reviewing"},
		{"below five", map[int]int{1: 4}, SeverityInfo, "Keep reviewing"},
		{"all fives", map[int]int{5: 10}, SeverityWarning, "Your 5s are 100%"},
		{"fives beat fours", map[int]int{4: 5, 5: 5}, SeverityWarning, "Your 5s are 50%"},
		{"too many fours", map[int]int{1: 3, 2: 1, 4: 3}, SeverityWarning, "Your 4s are 43%"},
		{"guardrail under ten observations", map[int]int{1: 2, 2: 1, 4: 2}, SeverityWarning, "Your 4s are 40%"},
		{"highly unusual", map[int]int{2: 10}, SeverityError, "p < 0.05"},
		{"somewhat unusual", map[int]int{1: 1, 2: 8, 3: 6, 4: 3, 5: 2}, SeverityWarning, "p < 0.10"},
		{"reference shape", map[int]int{1: 40, 2: 30, 3: 20, 4: 8, 5: 2}, SeveritySuccess, "healthy"},
		{"small sample skips test", map[int]int{2: 5}, SeveritySuccess, "healthy"},
		{"healthy mix", map[int]int{1: 4, 2: 3, 3: 3}, SeveritySuccess, "healthy"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := a.Advisory(FromCounts(tc.counts))
			assert.Equal(t, tc.want, got.Severity)
			assert.Contains(t, got.Message, tc.substr)
		})
	}
}

func TestAdvisory_FivePercentExactlyTenDoesNotTrip(t *testing.T) {
	// 2 of 20 is exactly 10% and falls through to the statistical test.
	got := NewAnalyzer("").Advisory(FromCounts(map[int]int{1: 1, 2: 8, 3: 6, 4: 3, 5: 2}))
	assert.NotContains(t, got.Message, "Your 5s")
}

func TestAnalyzer_ExactMethod(t *testing.T) {
	a := NewAnalyzer(Exact)
	assert.Equal(t, Exact, a.Method())
	assert.Equal(t, SeverityError, a.Advisory(FromCounts(map[int]int{2: 10})).Severity)
	assert.Equal(t, WilsonHilferty, NewAnalyzer("bogus").Method())
	var zero *Analyzer
	assert.Equal(t, WilsonHilferty, zero.Method())
}

func TestReport(t *testing.T) {
	d := FromCounts(map[int]int{1: 4, 2: 3, 3: 3})
	r := NewAnalyzer(WilsonHilferty).Report(d)

	assert.Equal(t, 2, r.Reviews)
	assert.Equal(t, DegreesOfFreedom, r.DegreesOfFreedom)
	assert.InDelta(t, 0.5, r.ChiSquared, 1e-9)
	assert.InDelta(t, 0.9703268451875493, r.PValue, 1e-12)
	assert.InDelta(t, 4.0, r.Expected[1], 1e-9)
	assert.Equal(t, SeveritySuccess, r.Advisory.Severity)
	assert.Equal(t, WilsonHilferty, r.Method)
}

func TestCompute_PoolsAllDimensions(t *testing.T) {
	reviews := []model.Review{
		{FilmID: "1", Scores: model.Scores{"S": 1, "P": 2, "A": 3, "C": 4, "E": 5}, CreatedAt: time.Now()},
		{FilmID: "2", Scores: model.Scores{"S": 1, "P": 1, "A": 1, "C": 2, "E": 9}},
	}
	d := Compute(reviews)
	assert.Equal(t, 9, d.Total, "out of range value is not counted")
	assert.Equal(t, 4, d.Count(1))
	assert.Equal(t, 2, d.Count(2))
	assert.Equal(t, 0, d.Count(9))
	assert.True(t, d.Consistent())
}

func TestDistribution_JSON(t *testing.T) {
	d := FromCounts(map[int]int{1: 2, 3: 1, 5: 2})
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"1":2,"2":0,"3":1,"4":0,"5":2,"total":5}`, string(b))

	var back Distribution
	require.NoError(t, json.Unmarshal([]byte(`{"1":1,"2":1,"3":0,"4":0,"5":0,"total":7}`), &back))
	assert.Equal(t, 7, back.Total)
	assert.False(t, back.Consistent())

	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &back))
}

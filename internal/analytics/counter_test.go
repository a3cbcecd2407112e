package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/survey-tracker/internal/domain"
)

func TestCountBy_GenderNormalizedWithUnknown(t *testing.T) {
	rows := []domain.Respondent{{Gender: "Female"}, {Gender: "female"}, {Gender: ""}}

	got := CountBy(rows, func(r domain.Respondent) string { return r.Gender })

	assert.ElementsMatch(t, []domain.ChartDatum{
		{Name: "Female", Value: 2},
		{Name: "Unknown", Value: 1},
	}, got.Data())
}

func TestCounter_DataKeepsFirstSeenOrder(t *testing.T) {
	c := NewCounter()
	c.Add("b")
	c.Add("a")
	c.Add("b")

	assert.Equal(t, []domain.ChartDatum{{Name: "b", Value: 2}, {Name: "a", Value: 1}}, c.Data())
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 3, c.Total())
}

func TestCounter_SortedIsStableOnTies(t *testing.T) {
	c := NewCounter()
	for _, n := range []string{"x", "y", "z", "z"} {
		c.Add(n)
	}

	assert.Equal(t, []domain.ChartDatum{
		{Name: "z", Value: 2},
		{Name: "x", Value: 1},
		{Name: "y", Value: 1},
	}, c.Sorted())
}

func TestCounter_TopTruncates(t *testing.T) {
	c := NewCounter()
	for i, n := range []string{"a", "b", "c", "d"} {
		c.AddN(n, i+1)
	}

	top := c.Top(2)
	require.Len(t, top, 2)
	assert.Equal(t, "d", top[0].Name)
	assert.Equal(t, "c", top[1].Name)
	assert.Len(t, c.Top(10), 4)
}

func TestNewCounter_SeedsZeroBuckets(t *testing.T) {
	c := NewCounter("Never", "Daily")
	c.Add("Daily")

	assert.Equal(t, []domain.ChartDatum{{Name: "Never", Value: 0}, {Name: "Daily", Value: 1}}, c.Data())
}

func TestTallyTags_CountsEveryTagAndSkipsBlanks(t *testing.T) {
	rows := []domain.Respondent{
		{TechnologyBarriers: []string{"cost", "Network", ""}},
		{TechnologyBarriers: []string{"COST"}},
		{},
	}

	got := TallyTags(rows, func(r domain.Respondent) []string { return r.TechnologyBarriers })

	assert.Equal(t, 2, got.Get("Cost"))
	assert.Equal(t, 1, got.Get("Network"))
	assert.Equal(t, 2, got.Len())
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(0, 0))
	assert.Equal(t, 0.0, Percentage(3, 0))
	assert.InDelta(t, 25.0, Percentage(1, 4), 1e-9)
}

func TestAverager_MeansAndRounding(t *testing.T) {
	a := NewAverager()
	a.Add("Alpha", 2)
	a.Add("Alpha", 3)
	a.Add("Beta", -1)
	a.Add("Beta", 0)
	a.AddPtr("Beta", nil)

	means := a.Means()
	require.Len(t, means, 2)
	assert.Equal(t, "Alpha", means[0].Name)
	assert.InDelta(t, 2.5, means[0].Avg, 1e-9)
	assert.Equal(t, 3, means[0].Rounded)
	assert.Equal(t, 2, means[0].Count)
	assert.InDelta(t, -0.5, means[1].Avg, 1e-9)
	assert.Equal(t, 0, means[1].Rounded)

	assert.Equal(t, []domain.ChartDatum{{Name: "Alpha", Value: 3}, {Name: "Beta", Value: 0}}, a.Rounded())
}

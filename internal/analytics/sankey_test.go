package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/survey-tracker/internal/domain"
)

func TestBuildSankey_TagIndicesFollowGroups(t *testing.T) {
	rows := []domain.Respondent{
		{GroupName: "alpha", BusinessChallenges: []string{"capital", "transport"}},
		{GroupName: "beta", FinancialChallenges: []string{"capital"}, MarketChallenges: []string{"prices"}},
		{GroupName: "alpha", MarketChallenges: []string{"Capital"}},
	}

	s := BuildSankey(rows)

	require.Len(t, s.Nodes, 5)
	assert.Equal(t, []domain.SankeyNode{
		{Name: "Alpha"}, {Name: "Beta"},
		{Name: "Capital"}, {Name: "Transport"}, {Name: "Prices"},
	}, s.Nodes)

	targets := map[int]bool{}
	for _, l := range s.Links {
		assert.Contains(t, []int{0, 1}, l.Source)
		assert.GreaterOrEqual(t, l.Target, 2)
		assert.LessOrEqual(t, l.Target, 4)
		targets[l.Target] = true
	}
	assert.Equal(t, map[int]bool{2: true, 3: true, 4: true}, targets)

	assert.Equal(t, []domain.SankeyLink{
		{Source: 0, Target: 2, Value: 2},
		{Source: 0, Target: 3, Value: 1},
		{Source: 1, Target: 2, Value: 1},
		{Source: 1, Target: 4, Value: 1},
	}, s.Links)
}

func TestBuildSankey_SkipsUngroupedOtherAndBlank(t *testing.T) {
	rows := []domain.Respondent{
		{GroupName: "", BusinessChallenges: []string{"capital"}},
		{GroupName: "  ", BusinessChallenges: []string{"capital"}},
		{GroupName: "gamma", BusinessChallenges: []string{"other", "", "OTHER"}},
	}

	s := BuildSankey(rows)

	assert.Empty(t, s.Nodes)
	assert.Empty(t, s.Links)
}

func TestChallengeFlow_TotalsOnlyCountGroupedRespondents(t *testing.T) {
	f := NewChallengeFlow()
	f.Add("alpha", []string{"capital", "capital"})
	f.Add("", []string{"capital"})

	assert.Equal(t, 2, f.Totals().Get("Capital"))
}

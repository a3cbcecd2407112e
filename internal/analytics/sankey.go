package analytics

import (
	"github.com/ignite/survey-tracker/internal/domain"
	"github.com/ignite/survey-tracker/internal/pkg/textnorm"
)

// otherChallenge is the catch-all option, too generic to chart.
const otherChallenge = "Other"

// ChallengeFlow tallies group -> challenge occurrences for respondents that
// belong to a group. The catch-all "Other" answer and blank tags are skipped.
type ChallengeFlow struct {
	groups     []string
	groupIndex map[string]int
	perGroup   []*Counter
	tags       []string
	tagIndex   map[string]int
	totals     *Counter
}

// NewChallengeFlow returns an empty flow.
func NewChallengeFlow() *ChallengeFlow {
	return &ChallengeFlow{
		groupIndex: make(map[string]int),
		tagIndex:   make(map[string]int),
		totals:     NewCounter(),
	}
}

// Add records every challenge a respondent reported against their group.
func (f *ChallengeFlow) Add(group string, challenges []string) {
	group = textnorm.TitleCase(group)
	if group == "" {
		return
	}
	for _, c := range challenges {
		name := textnorm.TitleCase(c)
		if name == "" || name == otherChallenge {
			continue
		}
		gi, ok := f.groupIndex[group]
		if !ok {
			gi = len(f.groups)
			f.groupIndex[group] = gi
			f.groups = append(f.groups, group)
			f.perGroup = append(f.perGroup, NewCounter())
		}
		if _, ok := f.tagIndex[name]; !ok {
			f.tagIndex[name] = len(f.tags)
			f.tags = append(f.tags, name)
		}
		f.perGroup[gi].Add(name)
		f.totals.Add(name)
	}
}

// Totals returns the per-challenge counts across all groups.
func (f *ChallengeFlow) Totals() *Counter { return f.totals }

// Sankey builds the node/link payload. Groups take indices [0, len(groups))
// and tags follow, so a link target is always len(groups)+tagIndex.
func (f *ChallengeFlow) Sankey() domain.Sankey {
	out := domain.Sankey{
		Nodes: make([]domain.SankeyNode, 0, len(f.groups)+len(f.tags)),
		Links: []domain.SankeyLink{},
	}
	for _, g := range f.groups {
		out.Nodes = append(out.Nodes, domain.SankeyNode{Name: g})
	}
	for _, t := range f.tags {
		out.Nodes = append(out.Nodes, domain.SankeyNode{Name: t})
	}
	for gi, c := range f.perGroup {
		for _, d := range c.Data() {
			out.Links = append(out.Links, domain.SankeyLink{
				Source: gi,
				Target: len(f.groups) + f.tagIndex[d.Name],
				Value:  d.Value,
			})
		}
	}
	return out
}

// BuildSankey is the group -> challenge flow over respondents' business,
// financial and market challenges.
func BuildSankey(respondents []domain.Respondent) domain.Sankey {
	return challengeFlow(respondents).Sankey()
}

func challengeFlow(respondents []domain.Respondent) *ChallengeFlow {
	f := NewChallengeFlow()
	for i := range respondents {
		f.Add(respondents[i].GroupName, respondents[i].AllChallenges())
	}
	return f
}

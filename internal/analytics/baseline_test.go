package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/survey-tracker/internal/domain"
)

func TestBaselineReport_DistrictScenario(t *testing.T) {
	rows := []domain.Respondent{
		{District: "kampala", Gender: "female", Age: "30", ValueChainRole: "coffee farmer", IndustryInvolvement: "Coffee", UsesTechnology: true},
		{District: "kampala", Gender: "male", Age: "52", ValueChainRole: "trader", IndustryInvolvement: "Coffee, Tea"},
		{District: "mukono", Gender: "female", Age: "", ValueChainRole: "Farmer", IndustryInvolvement: "tea", ValueChainStage: "processing"},
	}

	s := BaselineReport(rows)

	assert.Equal(t, 3, s.TotalRespondents)
	assert.Equal(t, 1, s.CoffeeFarmers)
	assert.Equal(t, 1, s.TeaFarmers)
	assert.Equal(t, []domain.ChartDatum{{Name: "Kampala", Value: 2}, {Name: "Mukono", Value: 1}}, s.Geography.Districts)
	assert.Equal(t, []domain.ChartDatum{{Name: "Female", Value: 2}, {Name: "Male", Value: 1}}, s.Demographics.Gender)
	assert.ElementsMatch(t, []domain.ChartDatum{
		{Name: "25-34", Value: 1}, {Name: "45-54", Value: 1}, {Name: "Unknown", Value: 1},
	}, s.Demographics.AgeGroups)
	assert.Equal(t, []domain.ChartDatum{{Name: "Coffee", Value: 2}, {Name: "Tea", Value: 2}}, s.Business.IndustrySummary)
	assert.ElementsMatch(t, []domain.ChartDatum{
		{Name: "Coffee", Value: 1}, {Name: "Coffee + Tea", Value: 1}, {Name: "Tea", Value: 1},
	}, s.Business.Industry)
	assert.Equal(t, 1, s.Business.ProcessingTea.Count)
	assert.InDelta(t, 100.0, s.Business.ProcessingTea.Percentage, 1e-9)
	assert.Equal(t, []domain.ChartDatum{{Name: LabelNoTechnology, Value: 2}, {Name: LabelUsesTechnology, Value: 1}}, s.Technology.Adoption)
}

func TestBaselineReport_NoProcessingGivesZeroPercentage(t *testing.T) {
	s := BaselineReport([]domain.Respondent{{ValueChainStage: "production"}})

	assert.Equal(t, 0, s.Business.ProcessingTea.Count)
	assert.Equal(t, 0.0, s.Business.ProcessingTea.Percentage)
}

func TestBaselineReport_Empty(t *testing.T) {
	s := BaselineReport(nil)

	assert.Zero(t, s.TotalRespondents)
	assert.Empty(t, s.Geography.Districts)
	assert.Empty(t, s.Business.ChallengeSankey.Nodes)
	assert.NotNil(t, s.Business.ChallengeSankey.Links)
}

func TestBaselineReport_TopLists(t *testing.T) {
	var rows []domain.Respondent
	for i := 0; i < 12; i++ {
		rows = append(rows, domain.Respondent{
			SubCounty:          string(rune('a' + i)),
			GroupName:          "alpha",
			BusinessChallenges: []string{string(rune('a' + i)), "other"},
			TechnologyBarriers: []string{string(rune('a' + i))},
		})
	}

	s := BaselineReport(rows)

	assert.Len(t, s.Geography.SubCounties, TopSubCounties)
	assert.Len(t, s.Business.Challenges, TopChallenges)
	assert.Len(t, s.Technology.Barriers, TopBarriers)
	for _, d := range s.Business.Challenges {
		assert.NotEqual(t, "Other", d.Name)
	}
	require.Len(t, s.Business.ChallengeSankey.Nodes, 13)
}

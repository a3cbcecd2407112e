package analytics

import (
	"strings"

	"github.com/ignite/survey-tracker/internal/domain"
	"github.com/ignite/survey-tracker/internal/pkg/textnorm"
)

// Chart list sizes on the baseline dashboard.
const (
	TopChallenges  = 10
	TopSubCounties = 10
	TopBarriers    = 8
)

const (
	LabelUsesTechnology = "Uses Technology"
	LabelNoTechnology   = "No Technology"
)

// BaselineSummary is the baseline dashboard payload. Every series is sorted
// by descending count.
type BaselineSummary struct {
	TotalRespondents int                `json:"total_respondents"`
	CoffeeFarmers    int                `json:"coffee_farmers"`
	TeaFarmers       int                `json:"tea_farmers"`
	Demographics     DemographicsCharts `json:"demographics"`
	Business         BusinessCharts     `json:"business"`
	Geography        GeographyCharts    `json:"geography"`
	Technology       TechnologyCharts   `json:"technology"`
}

type DemographicsCharts struct {
	Gender        []domain.ChartDatum `json:"gender"`
	Education     []domain.ChartDatum `json:"education"`
	AgeGroups     []domain.ChartDatum `json:"age_groups"`
	MaritalStatus []domain.ChartDatum `json:"marital_status"`
}

// BusinessCharts.ProcessingTea counts respondents at the processing stage and
// the share of them involved in tea.
type BusinessCharts struct {
	Occupation      []domain.ChartDatum `json:"occupation"`
	Industry        []domain.ChartDatum `json:"industry"`
	IndustrySummary []domain.ChartDatum `json:"industry_summary"`
	ValueChainStage []domain.ChartDatum `json:"value_chain_stage"`
	ProcessingTea   domain.Ratio        `json:"processing_tea"`
	Challenges      []domain.ChartDatum `json:"challenges"`
	ChallengeSankey domain.Sankey       `json:"challenge_sankey"`
}

type GeographyCharts struct {
	Districts   []domain.ChartDatum `json:"districts"`
	SubCounties []domain.ChartDatum `json:"sub_counties"`
}

type TechnologyCharts struct {
	Adoption []domain.ChartDatum `json:"adoption"`
	Barriers []domain.ChartDatum `json:"barriers"`
}

// BaselineReport aggregates baseline respondents into dashboard charts.
func BaselineReport(respondents []domain.Respondent) BaselineSummary {
	s := BaselineSummary{TotalRespondents: len(respondents)}

	gender := NewCounter()
	education := NewCounter()
	ages := NewCounter()
	marital := NewCounter()
	occupation := NewCounter()
	stage := NewCounter()
	districts := NewCounter()
	subCounties := NewCounter()
	adoption := NewCounter()
	industryDetail := NewCounter()
	industrySummary := NewCounter(IndustryCoffee, IndustryTea)
	processing, processingTea := 0, 0

	for i := range respondents {
		r := &respondents[i]
		industryLower := strings.ToLower(r.IndustryInvolvement)
		if r.IsFarmer() {
			if strings.Contains(industryLower, "coffee") {
				s.CoffeeFarmers++
			}
			if strings.Contains(industryLower, "tea") {
				s.TeaFarmers++
			}
		}

		gender.Add(textnorm.DisplayOrUnknown(r.Gender))
		education.Add(textnorm.DisplayOrUnknown(r.EducationLevel))
		ages.Add(AgeGroup(r.Age))
		marital.Add(textnorm.DisplayOrUnknown(r.MaritalStatus))
		occupation.Add(textnorm.DisplayOrUnknown(r.Occupation))
		stage.Add(textnorm.DisplayOrUnknown(r.ValueChainStage))
		districts.Add(textnorm.DisplayOrUnknown(r.District))
		subCounties.Add(textnorm.DisplayOrUnknown(r.SubCounty))
		if r.UsesTechnology {
			adoption.Add(LabelUsesTechnology)
		} else {
			adoption.Add(LabelNoTechnology)
		}

		ind := ParseIndustry(r.IndustryInvolvement)
		industryDetail.Add(ind.Label())
		if ind.Coffee {
			industrySummary.Add(IndustryCoffee)
		}
		if ind.Tea {
			industrySummary.Add(IndustryTea)
		}

		if textnorm.Normalize(r.ValueChainStage) == "processing" {
			processing++
			if ind.Tea {
				processingTea++
			}
		}
	}

	flow := challengeFlow(respondents)

	s.Demographics = DemographicsCharts{
		Gender:        gender.Sorted(),
		Education:     education.Sorted(),
		AgeGroups:     ages.Sorted(),
		MaritalStatus: marital.Sorted(),
	}
	s.Business = BusinessCharts{
		Occupation:      occupation.Sorted(),
		Industry:        industryDetail.Sorted(),
		IndustrySummary: industrySummary.Sorted(),
		ValueChainStage: stage.Sorted(),
		ProcessingTea:   domain.Ratio{Count: processing, Percentage: Percentage(processingTea, processing)},
		Challenges:      flow.Totals().Top(TopChallenges),
		ChallengeSankey: flow.Sankey(),
	}
	s.Geography = GeographyCharts{
		Districts:   districts.Sorted(),
		SubCounties: subCounties.Top(TopSubCounties),
	}
	s.Technology = TechnologyCharts{
		Adoption: adoption.Sorted(),
		Barriers: TallyTags(respondents, func(r domain.Respondent) []string { return r.TechnologyBarriers }).Top(TopBarriers),
	}
	return s
}

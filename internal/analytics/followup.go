package analytics

import (
	"github.com/ignite/survey-tracker/internal/domain"
	"github.com/ignite/survey-tracker/internal/pkg/textnorm"
)

// FollowupSummary is the follow-up dashboard payload.
type FollowupSummary struct {
	TotalRespondents int `json:"total_respondents"`
	TotalFollowups   int `json:"total_followups"`

	// NewMembers counts follow-ups where the respondent did not attend
	// training.
	NewMembers int `json:"new_members"`

	// NewRespondentPct is the share of respondents entered without a full
	// baseline.
	NewRespondentPct float64 `json:"new_respondent_pct"`

	Practices   []domain.ChartDatum `json:"practices"`
	Frequencies []domain.ChartDatum `json:"frequencies"`
	Results     []domain.ChartDatum `json:"results"`

	GroupProgress []domain.AverageDatum `json:"group_progress"`
	IncomeChanges []domain.AverageDatum `json:"income_changes"`
	GroupEarnings []domain.AverageDatum `json:"group_earnings"`

	LowInterestAreas  []domain.ChartDatum   `json:"low_interest_areas"`
	SupportGaps       []domain.ChartDatum   `json:"support_gaps"`
	Mentor            []domain.AverageDatum `json:"mentor"`
	CurrentChallenges []domain.ChartDatum   `json:"current_challenges"`
	FutureInterests   []domain.ChartDatum   `json:"future_interests"`
	GovernanceSteps   []domain.ChartDatum   `json:"governance_steps"`
	NewMarkets        []domain.ChartDatum   `json:"new_markets"`
	QualitySteps      []domain.ChartDatum   `json:"quality_steps"`
}

// FollowupReport aggregates follow-up visits. respondents is the filtered
// baseline population the follow-ups were drawn from.
func FollowupReport(respondents []domain.Respondent, followups []domain.Followup) FollowupSummary {
	s := FollowupSummary{
		TotalRespondents: len(respondents),
		TotalFollowups:   len(followups),
	}

	newRespondents := 0
	for i := range respondents {
		if respondents[i].IsNew() {
			newRespondents++
		}
	}
	s.NewRespondentPct = Percentage(newRespondents, len(respondents))

	frequency := NewCounter(domain.FrequencyBuckets()...)
	newMarkets := NewCounter(scaleLabels(domain.NewMarkets)...)
	quality := NewCounter(scaleLabels(domain.QualitySteps)...)
	progress := NewAverager()
	income := NewAverager()
	earnings := NewAverager()
	mentor := NewAverager()

	for i := range followups {
		f := &followups[i]
		if f.AttendedTraining != nil && !*f.AttendedTraining {
			s.NewMembers++
		}

		if f.PracticeFrequency == nil {
			frequency.Add(domain.NewMemberLabel)
		} else if domain.PracticeFrequency.Valid(*f.PracticeFrequency) {
			frequency.Add(domain.PracticeFrequency.Label(*f.PracticeFrequency))
		}

		group := textnorm.DisplayOrUnknown(f.GroupName())
		progress.AddPtr(group, f.GroupProgress)
		income.AddPtr(group, f.IncomeChange)
		earnings.AddPtr(group, f.GroupEarnings)

		for _, q := range domain.MentorQuestions {
			mentor.AddPtr(textnorm.TitleCase(string(q)), *f.Mentor.Score(q))
		}

		if f.NewMarkets != nil && domain.NewMarkets.Valid(*f.NewMarkets) {
			newMarkets.Add(domain.NewMarkets.Label(*f.NewMarkets))
		}
		if f.QualitySteps != nil && domain.QualitySteps.Valid(*f.QualitySteps) {
			quality.Add(domain.QualitySteps.Label(*f.QualitySteps))
		}
	}

	s.Practices = TallyTags(followups, func(f domain.Followup) []string { return f.PracticesApplied }).Data()
	s.Frequencies = frequency.Data()
	s.Results = TallyTags(followups, func(f domain.Followup) []string { return f.PracticeResults }).Data()

	s.GroupProgress = labelled(progress.Means(), domain.ScoreBand)
	s.IncomeChanges = labelled(income.Means(), domain.IncomeChange)
	s.GroupEarnings = labelled(earnings.Means(), domain.GroupEarnings)
	s.Mentor = labelled(mentor.Means(), domain.ScoreBand)

	s.LowInterestAreas = TallyTags(followups, func(f domain.Followup) []string { return f.LowInterestAreas }).Sorted()
	s.SupportGaps = TallyTags(followups, func(f domain.Followup) []string { return f.SupportGaps }).Sorted()
	s.CurrentChallenges = TallyTags(followups, func(f domain.Followup) []string { return f.CurrentChallenges }).Sorted()
	s.FutureInterests = TallyTags(followups, func(f domain.Followup) []string { return f.FutureInterests }).Sorted()
	s.GovernanceSteps = TallyTags(followups, func(f domain.Followup) []string { return f.GovernanceSteps }).Sorted()
	s.NewMarkets = newMarkets.Data()
	s.QualitySteps = quality.Data()
	return s
}

func scaleLabels(sc domain.Scale) []string {
	vals := sc.Values()
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		out = append(out, sc.Label(v))
	}
	return out
}

func labelled(means []domain.AverageDatum, sc domain.Scale) []domain.AverageDatum {
	for i := range means {
		if sc.Valid(means[i].Rounded) {
			means[i].Label = sc.Label(means[i].Rounded)
		}
	}
	return means
}

package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/ignite/survey-tracker/internal/domain"
	"github.com/ignite/survey-tracker/internal/pkg/textnorm"
)

// ComparisonSummary sets baseline answers against follow-up outcomes.
type ComparisonSummary struct {
	TotalRespondents         int                 `json:"total_respondents"`
	RespondentsWithFollowups int                 `json:"respondents_with_followups"`
	ProgressTrends           []domain.TrendDatum `json:"progress_trends"`
	TechnologyTrends         []domain.TrendDatum `json:"technology_trends"`
	TrainingTrends           []domain.TrendDatum `json:"training_trends"`
	IncomeTrends             []domain.TrendDatum `json:"income_trends"`
	Rows                     []ComparisonRow     `json:"rows"`
}

// ComparisonRow is one respondent's before/after line.
type ComparisonRow struct {
	RespondentID   string     `json:"respondent_id"`
	RespondentName string     `json:"respondent_name"`
	District       string     `json:"district"`
	Followups      int        `json:"followups"`
	LatestVisit    *time.Time `json:"latest_visit,omitempty"`
	HadTraining    bool       `json:"had_training"`
	Attended       bool       `json:"attended"`
	UsedTechnology bool       `json:"used_technology"`
	LatestProgress string     `json:"latest_progress"`
	LatestIncome   string     `json:"latest_income"`
}

// Trend names.
const (
	TrendBusinessTraining = "Business Training"
	TrendTechnologyUsers  = "Technology Users"
	TrendIncomeImproved   = "Income Improved"
)

// ComparisonReport compares each respondent's baseline with their follow-ups.
// followups maps respondent id to that respondent's visits in ascending visit
// order; the last entry is the latest visit.
func ComparisonReport(respondents []domain.Respondent, followups map[string][]domain.Followup) ComparisonSummary {
	s := ComparisonSummary{
		TotalRespondents: len(respondents),
		Rows:             make([]ComparisonRow, 0, len(respondents)),
	}

	progress := NewCounter()
	var baseTraining, baseTech, fuTraining, fuTech, fuIncome int

	for i := range respondents {
		r := &respondents[i]
		if r.HasBusinessTraining {
			baseTraining++
		}
		if r.UsesTechnology {
			baseTech++
		}

		row := ComparisonRow{
			RespondentID:   r.ID,
			RespondentName: textnorm.TitleCase(r.RespondentName),
			District:       textnorm.DisplayOrUnknown(r.District),
			HadTraining:    r.HasBusinessTraining,
			UsedTechnology: r.UsesTechnology,
		}

		visits := followups[r.ID]
		row.Followups = len(visits)
		if len(visits) == 0 {
			s.Rows = append(s.Rows, row)
			continue
		}
		s.RespondentsWithFollowups++

		latest := visits[len(visits)-1]
		visit := latest.VisitDate
		row.LatestVisit = &visit
		row.LatestProgress = scaleLabelOrUnknown(domain.ScoreBand, latest.GroupProgress)
		row.LatestIncome = scaleLabelOrUnknown(domain.IncomeChange, latest.IncomeChange)
		progress.Add(row.LatestProgress)

		for j := range visits {
			if visits[j].Attended() {
				row.Attended = true
				break
			}
		}
		if row.Attended {
			fuTraining++
		}
		if appliedTechnology(visits) {
			fuTech++
		}
		if latest.IncomeChange != nil && *latest.IncomeChange > 0 {
			fuIncome++
		}
		s.Rows = append(s.Rows, row)
	}

	for _, d := range progress.Sorted() {
		s.ProgressTrends = append(s.ProgressTrends, domain.TrendDatum{Name: d.Name, Followup: d.Value})
	}
	s.TechnologyTrends = []domain.TrendDatum{{Name: TrendTechnologyUsers, Original: baseTech, Followup: fuTech}}
	s.TrainingTrends = []domain.TrendDatum{{Name: TrendBusinessTraining, Original: baseTraining, Followup: fuTraining}}
	s.IncomeTrends = []domain.TrendDatum{{Name: TrendIncomeImproved, Followup: fuIncome}}
	return s
}

func scaleLabelOrUnknown(sc domain.Scale, v *int) string {
	if v == nil || !sc.Valid(*v) {
		return textnorm.Unknown
	}
	return sc.Label(*v)
}

// appliedTechnology reports whether any visit lists a technology or digital
// practice as applied.
func appliedTechnology(visits []domain.Followup) bool {
	for i := range visits {
		for _, p := range visits[i].PracticesApplied {
			p = textnorm.Normalize(p)
			if strings.Contains(p, "technolog") || strings.Contains(p, "digital") {
				return true
			}
		}
	}
	return false
}

// ByRespondent groups follow-ups by respondent id, each list in ascending
// visit order.
func ByRespondent(followups []domain.Followup) map[string][]domain.Followup {
	out := make(map[string][]domain.Followup)
	for _, f := range followups {
		out[f.OriginalRespondentID] = append(out[f.OriginalRespondentID], f)
	}
	for _, visits := range out {
		sort.SliceStable(visits, func(i, j int) bool { return visits[i].VisitDate.Before(visits[j].VisitDate) })
	}
	return out
}

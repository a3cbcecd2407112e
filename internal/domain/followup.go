package domain

import "time"

// Followup is one visit's questionnaire answers for a respondent.
//
// Training-dependent answers are nil when AttendedTraining is false.
// Follow-ups are immutable once inserted.
type Followup struct {
	ID                   string    `json:"id" db:"id"`
	OriginalRespondentID string    `json:"original_respondent_id" db:"original_respondent_id"`
	VisitDate            time.Time `json:"visit_date" db:"visit_date"`
	ConductedBy          string    `json:"conducted_by" db:"conducted_by"`

	AttendedTraining *bool `json:"attended_training" db:"attended_training"`

	PracticesApplied  []string `json:"practices_applied" db:"practices_applied"`
	PracticeFrequency *int     `json:"practice_frequency" db:"practice_frequency"`
	PracticeResults   []string `json:"practice_results" db:"practice_results"`
	GroupProgress     *int     `json:"group_progress" db:"group_progress"`
	IncomeChange      *int     `json:"income_change" db:"income_change"`
	GroupEarnings     *int     `json:"group_earnings" db:"group_earnings"`
	LowInterestAreas  []string `json:"low_interest_areas" db:"low_interest_areas"`
	SupportGaps       []string `json:"support_gaps" db:"support_gaps"`

	Mentor MentorScores `json:"mentor"`

	DoBetter          *string  `json:"do_better" db:"do_better"`
	ExampleUse        *string  `json:"example_use" db:"example_use"`
	CurrentChallenges []string `json:"current_challenges" db:"current_challenges"`
	FutureInterests   []string `json:"future_interests" db:"future_interests"`

	GeneralFeedback *string  `json:"general_feedback" db:"general_feedback"`
	GovernanceSteps []string `json:"governance_steps" db:"governance_steps"`
	NewMarkets      *int     `json:"new_markets" db:"new_markets"`
	QualitySteps    *int     `json:"quality_steps" db:"quality_steps"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Populated by joined reads; nil for orphaned follow-ups.
	Respondent *RespondentRef `json:"original_respondent,omitempty"`
}

// Attended reports whether the respondent attended training. A missing
// answer counts as not attended.
func (f *Followup) Attended() bool {
	return f.AttendedTraining != nil && *f.AttendedTraining
}

// GroupName returns the joined parent group name, or "" when unknown.
func (f *Followup) GroupName() string {
	if f.Respondent == nil {
		return ""
	}
	return f.Respondent.GroupName
}

// MentorScores are the six mentor-evaluation answers on the 1-5 scale.
type MentorScores struct {
	Preparedness *int `json:"preparedness" db:"mentor_preparedness"`
	Clarity      *int `json:"clarity" db:"mentor_clarity"`
	Relevance    *int `json:"relevance" db:"mentor_relevance"`
	Practicality *int `json:"practicality" db:"mentor_practicality"`
	Availability *int `json:"availability" db:"mentor_availability"`
	Overall      *int `json:"overall" db:"mentor_overall"`
}

// MentorQuestion names one of the six mentor-evaluation answers.
type MentorQuestion string

const (
	MentorPreparedness MentorQuestion = "preparedness"
	MentorClarity      MentorQuestion = "clarity"
	MentorRelevance    MentorQuestion = "relevance"
	MentorPracticality MentorQuestion = "practicality"
	MentorAvailability MentorQuestion = "availability"
	MentorOverall      MentorQuestion = "overall"
)

// MentorQuestions lists the mentor questions in questionnaire order.
var MentorQuestions = []MentorQuestion{
	MentorPreparedness, MentorClarity, MentorRelevance,
	MentorPracticality, MentorAvailability, MentorOverall,
}

// Score returns a pointer to the answer slot for q, or nil for an unknown q.
func (m *MentorScores) Score(q MentorQuestion) **int {
	switch q {
	case MentorPreparedness:
		return &m.Preparedness
	case MentorClarity:
		return &m.Clarity
	case MentorRelevance:
		return &m.Relevance
	case MentorPracticality:
		return &m.Practicality
	case MentorAvailability:
		return &m.Availability
	case MentorOverall:
		return &m.Overall
	}
	return nil
}

// FollowupFilter narrows follow-up history queries by attributes of the
// parent respondent.
type FollowupFilter struct {
	District     string `json:"district,omitempty"`
	Gender       string `json:"gender,omitempty"`
	Group        string `json:"group,omitempty"`
	RespondentID string `json:"respondent_id,omitempty"`
	Limit        int    `json:"limit,omitempty"`
	Offset       int    `json:"offset,omitempty"`
}

// FromRespondentFilter carries the shared dashboard filters over.
func FromRespondentFilter(f RespondentFilter) FollowupFilter {
	return FollowupFilter{District: f.District, Gender: f.Gender, Group: f.Group}
}

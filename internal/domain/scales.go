package domain

import "strconv"

// Scale is a fixed ordinal encoding used by follow-up answers. The integer
// values are what is stored; labels are what charts and forms show. Both must
// stay stable for existing rows.
type Scale struct {
	Name   string
	Min    int
	Max    int
	Labels map[int]string
}

// Valid reports whether v is inside the scale.
func (s Scale) Valid(v int) bool {
	return v >= s.Min && v <= s.Max
}

// Label returns the label for v, or the bare number for values outside the
// scale.
func (s Scale) Label(v int) string {
	if l, ok := s.Labels[v]; ok {
		return l
	}
	return strconv.Itoa(v)
}

// Values returns every scale value in ascending order.
func (s Scale) Values() []int {
	out := make([]int, 0, s.Max-s.Min+1)
	for v := s.Min; v <= s.Max; v++ {
		out = append(out, v)
	}
	return out
}

// NewMemberLabel is the frequency bucket for follow-ups without a frequency
// answer (respondents who did not attend training).
const NewMemberLabel = "New Member"

var (
	// PracticeFrequency: 1=Never .. 5=Daily.
	PracticeFrequency = Scale{Name: "practice_frequency", Min: 1, Max: 5, Labels: map[int]string{
		1: "Never",
		2: "Occasionally",
		3: "Monthly",
		4: "Weekly",
		5: "Daily",
	}}

	// GroupProgress is the 1-5 group-progress question.
	GroupProgress = Scale{Name: "group_progress", Min: 1, Max: 5, Labels: map[int]string{
		1: "Very poor",
		2: "Little progress",
		3: "Some progress",
		4: "Good progress",
		5: "Huge progress",
	}}

	// MentorScore is the 1-5 scale shared by the six mentor questions.
	MentorScore = Scale{Name: "mentor_score", Min: 1, Max: 5, Labels: map[int]string{
		1: "Very poor",
		2: "Poor",
		3: "Average",
		4: "Good",
		5: "Excellent",
	}}

	// ScoreBand is the chart label set for averaged 1-5 scores.
	ScoreBand = Scale{Name: "score_band", Min: 1, Max: 5, Labels: map[int]string{
		1: "Very Poor",
		2: "Poor",
		3: "Average",
		4: "Good",
		5: "Very Good",
	}}

	// IncomeChange is the personal income-change bucket; -1 means debt.
	IncomeChange = Scale{Name: "income_change", Min: -1, Max: 5, Labels: map[int]string{
		-1: "I’m in debt",
		0:  "UGX 0 (no change)",
		1:  "UGX 50k–100k",
		2:  "UGX 110k–250k",
		3:  "UGX 260k–350k",
		4:  "UGX 360k–500k",
		5:  "UGX 510k+",
	}}

	// GroupEarnings is the group-earnings bucket; -1 means a loss.
	GroupEarnings = Scale{Name: "group_earnings", Min: -1, Max: 5, Labels: map[int]string{
		-1: "Operated at a loss / group debt",
		0:  "UGX 0 (no earnings)",
		1:  "UGX 1–350k",
		2:  "UGX 360k–700k",
		3:  "UGX 710k–1,500k",
		4:  "UGX 1,510k–3,000k",
		5:  "UGX 3,010k+",
	}}

	// NewMarkets counts markets reached since training.
	NewMarkets = Scale{Name: "new_markets", Min: 0, Max: 3, Labels: map[int]string{
		0: "No new markets",
		1: "One new market",
		2: "Two to three new markets",
		3: "Four or more new markets",
	}}

	// QualitySteps counts quality-improvement steps taken.
	QualitySteps = Scale{Name: "quality_steps", Min: 0, Max: 3, Labels: map[int]string{
		0: "No quality steps",
		1: "One quality step",
		2: "Two to three quality steps",
		3: "Four or more quality steps",
	}}
)

// FrequencyBuckets is the fixed chart order for practice frequency.
func FrequencyBuckets() []string {
	out := make([]string, 0, 6)
	for _, v := range PracticeFrequency.Values() {
		out = append(out, PracticeFrequency.Label(v))
	}
	return append(out, NewMemberLabel)
}

package questionnaire

import (
	"strconv"

	"github.com/ignite/survey-tracker/internal/domain"
)

// StepID identifies one question.
type StepID string

const (
	StepAttendance        StepID = "attendance"
	StepPracticesApplied  StepID = "practices_applied"
	StepPracticeFrequency StepID = "practice_frequency"
	StepPracticeResults   StepID = "practice_results"
	StepGroupProgress     StepID = "group_progress"
	StepIncomeChange      StepID = "income_change"
	StepGroupEarnings     StepID = "group_earnings"
	StepLowInterestAreas  StepID = "low_interest_areas"
	StepSupportGaps       StepID = "support_gaps"

	StepMentorPreparedness StepID = "mentor_preparedness"
	StepMentorClarity      StepID = "mentor_clarity"
	StepMentorRelevance    StepID = "mentor_relevance"
	StepMentorPracticality StepID = "mentor_practicality"
	StepMentorAvailability StepID = "mentor_availability"
	StepMentorOverall      StepID = "mentor_overall"

	StepDoBetter          StepID = "do_better"
	StepExampleUse        StepID = "example_use"
	StepCurrentChallenges StepID = "current_challenges"
	StepFutureInterests   StepID = "future_interests"
	StepGeneralFeedback   StepID = "general_feedback"
	StepGovernanceSteps   StepID = "governance_steps"
	StepNewMarkets        StepID = "new_markets"
	StepQualitySteps      StepID = "quality_steps"
)

// Kind is the input widget a step needs.
type Kind string

const (
	SingleChoice Kind = "single_choice"
	MultiChoice  Kind = "multi_choice"
	FreeText     Kind = "free_text"
)

// Advance says whether answering a step moves the cursor by itself.
type Advance string

const (
	Auto   Advance = "auto"
	Manual Advance = "manual"
)

// OtherPrefix marks a free-text entry on a multi-choice step,
// e.g. "Other: bee keeping".
const OtherPrefix = "Other:"

// Option is one selectable answer. Value is what is submitted and stored.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Step is one question in the flow.
type Step struct {
	ID      StepID   `json:"id"`
	Kind    Kind     `json:"kind"`
	Advance Advance  `json:"advance"`
	Prompt  string   `json:"prompt"`
	Options []Option `json:"options,omitempty"`

	scale *domain.Scale
}

// Scale returns the numeric scale behind a scored single-choice step.
func (s Step) Scale() (domain.Scale, bool) {
	if s.scale == nil {
		return domain.Scale{}, false
	}
	return *s.scale, true
}

func single(id StepID, prompt string, opts ...Option) Step {
	return Step{ID: id, Kind: SingleChoice, Advance: Auto, Prompt: prompt, Options: opts}
}

func scored(id StepID, prompt string, sc domain.Scale) Step {
	opts := make([]Option, 0, len(sc.Labels))
	for _, v := range sc.Values() {
		opts = append(opts, Option{Value: strconv.Itoa(v), Label: sc.Label(v)})
	}
	s := single(id, prompt, opts...)
	s.scale = &sc
	return s
}

func multi(id StepID, prompt string, labels ...string) Step {
	opts := make([]Option, 0, len(labels))
	for _, l := range labels {
		opts = append(opts, Option{Value: l, Label: l})
	}
	return Step{ID: id, Kind: MultiChoice, Advance: Manual, Prompt: prompt, Options: opts}
}

func text(id StepID, prompt string) Step {
	return Step{ID: id, Kind: FreeText, Advance: Manual, Prompt: prompt}
}

var (
	attendanceStep = single(StepAttendance, "Did you attend the training?",
		Option{Value: "yes", Label: "Yes"},
		Option{Value: "no", Label: "No"},
	)

	generalFeedbackStep = text(StepGeneralFeedback, "Any other feedback about the programme?")

	mentorPrompts = map[domain.MentorQuestion]string{
		domain.MentorPreparedness: "How prepared was your mentor?",
		domain.MentorClarity:      "How clearly did your mentor explain things?",
		domain.MentorRelevance:    "How relevant was the mentoring to your work?",
		domain.MentorPracticality: "How practical was the advice?",
		domain.MentorAvailability: "How available was your mentor when needed?",
		domain.MentorOverall:      "Overall, how would you rate your mentor?",
	}
)

// MentorStep maps a mentor question to its step id.
func MentorStep(q domain.MentorQuestion) StepID {
	return StepID("mentor_" + string(q))
}

// BuildSteps returns the ordered step list for an attendance answer.
// Respondents who did not attend skip every training-dependent question.
func BuildSteps(attended bool) []Step {
	if !attended {
		return []Step{attendanceStep, generalFeedbackStep}
	}

	steps := []Step{
		attendanceStep,
		multi(StepPracticesApplied, "Which practices from the training have you applied?",
			"Record keeping", "Good agricultural practices", "Post-harvest handling",
			"Group savings", "Collective marketing", "Value addition", "Digital tools"),
		scored(StepPracticeFrequency, "How often do you apply these practices?", domain.PracticeFrequency),
		multi(StepPracticeResults, "What results have you seen?",
			"Higher yield", "Better quality", "More income", "New buyers", "Reduced losses", "No change yet"),
		scored(StepGroupProgress, "How much progress has your group made?", domain.GroupProgress),
		scored(StepIncomeChange, "How has your personal income changed?", domain.IncomeChange),
		scored(StepGroupEarnings, "What did your group earn?", domain.GroupEarnings),
		multi(StepLowInterestAreas, "Which training areas interested you least?",
			"Record keeping", "Group governance", "Marketing", "Financial literacy", "Value addition"),
		multi(StepSupportGaps, "What support is still missing?",
			"Inputs", "Finance", "Equipment", "Market access", "Extension visits"),
	}
	for _, q := range domain.MentorQuestions {
		steps = append(steps, scored(MentorStep(q), mentorPrompts[q], domain.MentorScore))
	}
	return append(steps,
		text(StepDoBetter, "What could the mentors do better?"),
		text(StepExampleUse, "Give an example of how you used what you learned."),
		multi(StepCurrentChallenges, "What challenges are you facing now?",
			"Low prices", "Pests and diseases", "Weather", "Access to credit", "Transport"),
		multi(StepFutureInterests, "What would you like to learn next?",
			"Value addition", "Export markets", "Digital marketing", "Financial services", "Certification"),
		generalFeedbackStep,
		multi(StepGovernanceSteps, "Which governance steps has your group taken?",
			"Held elections", "Adopted a constitution", "Registered the group", "Opened a bank account", "Keeps meeting minutes"),
		scored(StepNewMarkets, "How many new markets have you reached?", domain.NewMarkets),
		scored(StepQualitySteps, "How many quality-improvement steps have you taken?", domain.QualitySteps),
	)
}

// StepsBeforeAttendance is the list exposed until attendance is answered.
func StepsBeforeAttendance() []Step {
	return []Step{attendanceStep}
}

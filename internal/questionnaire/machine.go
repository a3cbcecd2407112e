package questionnaire

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ignite/survey-tracker/internal/domain"
)

// Outcome is the result of a forward action.
type Outcome string

const (
	OutcomeAdvanced Outcome = "advanced"

	// OutcomeSubmit means the last step was confirmed and the answers are
	// ready for Record. The machine stays in place until Finish is called.
	OutcomeSubmit Outcome = "submit"
)

// Machine is an index cursor over the current step list.
type Machine struct {
	steps    []Step
	pos      int
	answers  Answers
	finished bool
}

// New returns a machine positioned on the attendance question.
func New() *Machine {
	return &Machine{steps: StepsBeforeAttendance(), answers: Answers{}}
}

// Steps returns the current step list.
func (m *Machine) Steps() []Step { return m.steps }

// Current returns the step under the cursor.
func (m *Machine) Current() Step { return m.steps[m.pos] }

// Position is the zero-based cursor index.
func (m *Machine) Position() int { return m.pos }

// Len is the length of the current step list.
func (m *Machine) Len() int { return len(m.steps) }

// Done reports whether the answers have been submitted.
func (m *Machine) Done() bool { return m.finished }

// Answers returns a copy of the collected answers.
func (m *Machine) Answers() Answers {
	out := make(Answers, len(m.answers))
	for k, v := range m.answers {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Attended returns the attendance answer, if given.
func (m *Machine) Attended() (attended, answered bool) {
	v, ok := m.answers.first(StepAttendance)
	if !ok {
		return false, false
	}
	return v == "yes", true
}

// Answer records values for the current step. Auto-advance steps move to
// the next step, except on the last step where submission needs Next.
func (m *Machine) Answer(values ...string) (advanced bool, err error) {
	if m.finished {
		return false, ErrFinished
	}
	step := m.Current()
	stored, err := validate(step, values)
	if err != nil {
		return false, err
	}
	m.answers[step.ID] = stored

	if step.ID == StepAttendance {
		attended, _ := m.Attended()
		m.steps = BuildSteps(attended)
	}

	if step.Advance == Auto && m.pos < len(m.steps)-1 {
		m.pos++
		return true, nil
	}
	return false, nil
}

// Next moves forward from a manual step, or skips an optional question.
// On the last step it returns OutcomeSubmit without moving.
func (m *Machine) Next() (Outcome, error) {
	if m.finished {
		return "", ErrFinished
	}
	if m.Current().ID == StepAttendance && !m.answers.has(StepAttendance) {
		return "", fmt.Errorf("%w: %s", ErrNotAnswered, StepAttendance)
	}
	if m.pos == len(m.steps)-1 {
		return OutcomeSubmit, nil
	}
	m.pos++
	return OutcomeAdvanced, nil
}

// Back moves to the previous step. Answers are kept.
func (m *Machine) Back() error {
	if m.finished {
		return ErrFinished
	}
	if m.pos == 0 {
		return ErrAtStart
	}
	m.pos--
	return nil
}

// Finish marks the answers as submitted. Call it only after the insert
// succeeded, so a failed submission can be retried.
func (m *Machine) Finish() { m.finished = true }

// Record builds the composite follow-up. When the respondent did not attend,
// every training-dependent field stays nil even if it was answered before the
// attendance answer changed.
func (m *Machine) Record(respondentID, conductedBy string, visitDate time.Time) (*domain.Followup, error) {
	attended, ok := m.Attended()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotAnswered, StepAttendance)
	}

	f := &domain.Followup{
		OriginalRespondentID: respondentID,
		ConductedBy:          conductedBy,
		VisitDate:            visitDate,
		AttendedTraining:     &attended,
		GeneralFeedback:      m.text(StepGeneralFeedback),
	}
	if !attended {
		return f, nil
	}

	f.PracticesApplied = m.list(StepPracticesApplied)
	f.PracticeFrequency = m.number(StepPracticeFrequency)
	f.PracticeResults = m.list(StepPracticeResults)
	f.GroupProgress = m.number(StepGroupProgress)
	f.IncomeChange = m.number(StepIncomeChange)
	f.GroupEarnings = m.number(StepGroupEarnings)
	f.LowInterestAreas = m.list(StepLowInterestAreas)
	f.SupportGaps = m.list(StepSupportGaps)
	for _, q := range domain.MentorQuestions {
		*f.Mentor.Score(q) = m.number(MentorStep(q))
	}
	f.DoBetter = m.text(StepDoBetter)
	f.ExampleUse = m.text(StepExampleUse)
	f.CurrentChallenges = m.list(StepCurrentChallenges)
	f.FutureInterests = m.list(StepFutureInterests)
	f.GovernanceSteps = m.list(StepGovernanceSteps)
	f.NewMarkets = m.number(StepNewMarkets)
	f.QualitySteps = m.number(StepQualitySteps)
	return f, nil
}

func (m *Machine) number(id StepID) *int {
	v, ok := m.answers.first(id)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

func (m *Machine) text(id StepID) *string {
	v, ok := m.answers.first(id)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

func (m *Machine) list(id StepID) []string {
	v := m.answers[id]
	if len(v) == 0 {
		return nil
	}
	return append([]string(nil), v...)
}

// Snapshot is the persisted form of a machine.
type Snapshot struct {
	Position int     `json:"position"`
	Answers  Answers `json:"answers"`
	Finished bool    `json:"finished"`
}

// Snapshot captures the machine state.
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{Position: m.pos, Answers: m.Answers(), Finished: m.finished}
}

// Restore rebuilds a machine from a snapshot. The step list is derived from
// the stored attendance answer.
func Restore(s Snapshot) (*Machine, error) {
	m := New()
	if s.Answers != nil {
		m.answers = s.Answers
	}
	if attended, ok := m.Attended(); ok {
		m.steps = BuildSteps(attended)
	}
	if s.Position < 0 || s.Position >= len(m.steps) {
		return nil, fmt.Errorf("restore questionnaire: position %d out of range", s.Position)
	}
	m.pos = s.Position
	m.finished = s.Finished
	return m, nil
}

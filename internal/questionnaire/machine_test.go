package questionnaire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/survey-tracker/internal/domain"
)

func stepIDs(steps []Step) []StepID {
	out := make([]StepID, len(steps))
	for i, s := range steps {
		out[i] = s.ID
	}
	return out
}

func TestBuildSteps_NotAttendedIsCondensed(t *testing.T) {
	assert.Equal(t, []StepID{StepAttendance, StepGeneralFeedback}, stepIDs(BuildSteps(false)))
}

func TestBuildSteps_AttendedFullOrder(t *testing.T) {
	want := []StepID{
		StepAttendance,
		StepPracticesApplied,
		StepPracticeFrequency,
		StepPracticeResults,
		StepGroupProgress,
		StepIncomeChange,
		StepGroupEarnings,
		StepLowInterestAreas,
		StepSupportGaps,
		StepMentorPreparedness,
		StepMentorClarity,
		StepMentorRelevance,
		StepMentorPracticality,
		StepMentorAvailability,
		StepMentorOverall,
		StepDoBetter,
		StepExampleUse,
		StepCurrentChallenges,
		StepFutureInterests,
		StepGeneralFeedback,
		StepGovernanceSteps,
		StepNewMarkets,
		StepQualitySteps,
	}
	assert.Equal(t, want, stepIDs(BuildSteps(true)))
}

func TestBuildSteps_AdvanceModes(t *testing.T) {
	for _, s := range BuildSteps(true) {
		switch s.Kind {
		case SingleChoice:
			assert.Equal(t, Auto, s.Advance, s.ID)
			assert.NotEmpty(t, s.Options, s.ID)
		default:
			assert.Equal(t, Manual, s.Advance, s.ID)
		}
	}
}

func TestMachine_OnlyAttendanceBeforeAnswer(t *testing.T) {
	m := New()

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, StepAttendance, m.Current().ID)

	_, err := m.Next()
	assert.ErrorIs(t, err, ErrNotAnswered)
	assert.ErrorIs(t, m.Back(), ErrAtStart)
}

func TestMachine_NotAttendedFlow(t *testing.T) {
	m := New()

	advanced, err := m.Answer("no")
	require.NoError(t, err)
	assert.True(t, advanced)
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, StepGeneralFeedback, m.Current().ID)

	advanced, err = m.Answer("  great visit ")
	require.NoError(t, err)
	assert.False(t, advanced)

	out, err := m.Next()
	require.NoError(t, err)
	assert.Equal(t, OutcomeSubmit, out)
	assert.False(t, m.Done())

	f, err := m.Record("resp-1", "staff-1", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, f.AttendedTraining)
	assert.False(t, *f.AttendedTraining)
	require.NotNil(t, f.GeneralFeedback)
	assert.Equal(t, "great visit", *f.GeneralFeedback)
	assert.Equal(t, "resp-1", f.OriginalRespondentID)
	assert.Equal(t, "staff-1", f.ConductedBy)
	assert.Nil(t, f.PracticeFrequency)
	assert.Nil(t, f.PracticesApplied)
	assert.Nil(t, f.Mentor.Overall)
	assert.Nil(t, f.NewMarkets)

	m.Finish()
	assert.True(t, m.Done())
	_, err = m.Next()
	assert.ErrorIs(t, err, ErrFinished)
}

func TestMachine_AutoAndManualAdvance(t *testing.T) {
	m := New()
	_, err := m.Answer("yes")
	require.NoError(t, err)
	assert.Equal(t, StepPracticesApplied, m.Current().ID)
	assert.Equal(t, 23, m.Len())

	advanced, err := m.Answer("Record keeping", "Other: bee keeping")
	require.NoError(t, err)
	assert.False(t, advanced, "multi-choice waits for Next")
	assert.Equal(t, StepPracticesApplied, m.Current().ID)

	out, err := m.Next()
	require.NoError(t, err)
	assert.Equal(t, OutcomeAdvanced, out)
	assert.Equal(t, StepPracticeFrequency, m.Current().ID)

	advanced, err = m.Answer("4")
	require.NoError(t, err)
	assert.True(t, advanced)
	assert.Equal(t, StepPracticeResults, m.Current().ID)
}

func TestMachine_BackKeepsAnswers(t *testing.T) {
	m := New()
	_, _ = m.Answer("yes")
	_, _ = m.Answer("pruning", "record keeping")
	_, err := m.Answer("pruning")
	require.Error(t, err, "pruning is not an option")

	_, _ = m.Answer("group savings", "record keeping")
	_, _ = m.Next()
	require.NoError(t, m.Back())

	assert.Equal(t, StepPracticesApplied, m.Current().ID)
	assert.Equal(t, []string{"group savings", "record keeping"}, m.Answers()[StepPracticesApplied])
}

func TestMachine_ValidationRanges(t *testing.T) {
	m := New()
	_, _ = m.Answer("yes")
	_, _ = m.Next()

	_, err := m.Answer("6")
	assert.ErrorIs(t, err, ErrInvalidAnswer)
	_, err = m.Answer("0")
	assert.ErrorIs(t, err, ErrInvalidAnswer)
	_, err = m.Answer("often")
	assert.ErrorIs(t, err, ErrInvalidAnswer)
	_, err = m.Answer("1", "2")
	assert.ErrorIs(t, err, ErrInvalidAnswer)

	_, err = m.Answer("5")
	require.NoError(t, err)
	_, _ = m.Next()
	_, _ = m.Next()
	require.Equal(t, StepIncomeChange, m.Current().ID)
	_, err = m.Answer("-1")
	require.NoError(t, err)
	_, err = m.Answer("-2")
	assert.ErrorIs(t, err, ErrInvalidAnswer)
}

func TestMachine_OtherNeedsText(t *testing.T) {
	m := New()
	_, _ = m.Answer("yes")

	_, err := m.Answer("Other:  ")
	assert.ErrorIs(t, err, ErrInvalidAnswer)
}

func TestMachine_SwitchingToNotAttendedDropsTrainingFields(t *testing.T) {
	m := New()
	_, _ = m.Answer("yes")
	_, _ = m.Answer("record keeping")
	_, _ = m.Next()
	_, _ = m.Answer("3")

	for m.Position() > 0 {
		require.NoError(t, m.Back())
	}
	_, err := m.Answer("no")
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())

	f, err := m.Record("r", "s", time.Now())
	require.NoError(t, err)
	assert.Nil(t, f.PracticesApplied)
	assert.Nil(t, f.PracticeFrequency)
}

func TestMachine_FullAttendedRecord(t *testing.T) {
	m := New()
	answers := map[StepID][]string{
		StepAttendance:        {"yes"},
		StepPracticesApplied:  {"Value addition"},
		StepPracticeFrequency: {"5"},
		StepGroupProgress:     {"4"},
		StepIncomeChange:      {"2"},
		StepGroupEarnings:     {"-1"},
		StepMentorOverall:     {"5"},
		StepDoBetter:          {"more visits"},
		StepNewMarkets:        {"1"},
		StepQualitySteps:      {"2"},
	}

	for {
		step := m.Current()
		if v, ok := answers[step.ID]; ok {
			advanced, err := m.Answer(v...)
			require.NoError(t, err, step.ID)
			if advanced {
				continue
			}
		}
		out, err := m.Next()
		require.NoError(t, err)
		if out == OutcomeSubmit {
			break
		}
	}
	assert.Equal(t, StepQualitySteps, m.Current().ID)

	f, err := m.Record("r1", "s1", time.Now())
	require.NoError(t, err)
	assert.True(t, f.Attended())
	assert.Equal(t, []string{"value addition"}, f.PracticesApplied)
	assert.Equal(t, 5, *f.PracticeFrequency)
	assert.Equal(t, 4, *f.GroupProgress)
	assert.Equal(t, 2, *f.IncomeChange)
	assert.Equal(t, -1, *f.GroupEarnings)
	assert.Equal(t, 5, *f.Mentor.Overall)
	assert.Nil(t, f.Mentor.Clarity)
	assert.Equal(t, "more visits", *f.DoBetter)
	assert.Nil(t, f.ExampleUse)
	assert.Nil(t, f.GeneralFeedback)
	assert.Equal(t, 1, *f.NewMarkets)
	assert.Equal(t, 2, *f.QualitySteps)
}

func TestSnapshotRestore(t *testing.T) {
	m := New()
	_, _ = m.Answer("yes")
	_, _ = m.Answer("digital tools")
	_, _ = m.Next()

	restored, err := Restore(m.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, m.Position(), restored.Position())
	assert.Equal(t, m.Len(), restored.Len())
	assert.Equal(t, m.Answers(), restored.Answers())

	_, err = Restore(Snapshot{Position: 5})
	assert.Error(t, err)
}

func TestMentorStepsMatchQuestions(t *testing.T) {
	for _, q := range domain.MentorQuestions {
		assert.Contains(t, stepIDs(BuildSteps(true)), MentorStep(q))
	}
}

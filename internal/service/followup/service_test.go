package followup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ignite/survey-tracker/internal/domain"
	"github.com/ignite/survey-tracker/internal/questionnaire"
	"github.com/ignite/survey-tracker/internal/service/respondent"
)

type mockRepo struct {
	mu        sync.Mutex
	rows      []domain.Followup
	failNext  bool
	lastQuery domain.FollowupFilter
}

func (m *mockRepo) Insert(_ context.Context, f *domain.Followup) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return "", fmt.Errorf("insert follow-up: connection reset")
	}
	id := fmt.Sprintf("f-%d", len(m.rows)+1)
	cp := *f
	cp.ID = id
	m.rows = append(m.rows, cp)
	return id, nil
}

func (m *mockRepo) List(_ context.Context, f domain.FollowupFilter) ([]domain.Followup, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastQuery = f
	return m.rows, len(m.rows), nil
}

func (m *mockRepo) ListForRespondent(_ context.Context, id string) ([]domain.Followup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Followup
	for _, f := range m.rows {
		if f.OriginalRespondentID == id {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *mockRepo) CountOrphans(context.Context) (int, error) { return 0, nil }

type respondentsStub map[string]bool

func (s respondentsStub) Get(_ context.Context, id string) (*domain.Respondent, error) {
	if !s[id] {
		return nil, respondent.ErrNotFound
	}
	return &domain.Respondent{ID: id}, nil
}

func answeredSession(t *testing.T, respondentID string, answers ...string) *questionnaire.Session {
	t.Helper()
	sess := questionnaire.NewSession(respondentID, "staff-1", time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC))
	m, err := sess.Machine()
	if err != nil {
		t.Fatalf("Machine: %v", err)
	}
	for _, a := range answers {
		if _, err := m.Answer(a); err != nil {
			t.Fatalf("Answer(%q): %v", a, err)
		}
	}
	sess.State = m.Snapshot()
	return sess
}

func TestSubmit_NotAttendedStoresNullTrainingFields(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, respondentsStub{"r1": true})
	changed := false
	svc.OnChange(func(context.Context) { changed = true })

	f, err := svc.Submit(context.Background(), answeredSession(t, "r1", "no", "thanks"))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if f.ID == "" {
		t.Error("expected id to be set")
	}
	if f.Attended() {
		t.Error("expected attended=false")
	}
	if f.PracticeFrequency != nil || f.GroupProgress != nil || f.PracticesApplied != nil || f.Mentor.Overall != nil {
		t.Errorf("training fields should be nil: %+v", f)
	}
	if f.GeneralFeedback == nil || *f.GeneralFeedback != "thanks" {
		t.Errorf("general feedback = %v", f.GeneralFeedback)
	}
	if len(repo.rows) != 1 || !changed {
		t.Errorf("expected one insert and a change notification")
	}
}

func TestSubmit_UnknownRespondent(t *testing.T) {
	svc := NewService(&mockRepo{}, respondentsStub{})

	_, err := svc.Submit(context.Background(), answeredSession(t, "ghost", "no"))
	if !errors.Is(err, ErrRespondentNotFound) {
		t.Errorf("expected ErrRespondentNotFound, got %v", err)
	}
}

func TestSubmit_WithoutAttendance(t *testing.T) {
	svc := NewService(&mockRepo{}, respondentsStub{"r1": true})

	_, err := svc.Submit(context.Background(), answeredSession(t, "r1"))
	if !errors.Is(err, questionnaire.ErrNotAnswered) {
		t.Errorf("expected ErrNotAnswered, got %v", err)
	}
}

func TestSubmit_FailureCanBeRetried(t *testing.T) {
	repo := &mockRepo{failNext: true}
	svc := NewService(repo, respondentsStub{"r1": true})
	sess := answeredSession(t, "r1", "no")

	if _, err := svc.Submit(context.Background(), sess); err == nil {
		t.Fatal("expected first submit to fail")
	}
	if _, err := svc.Submit(context.Background(), sess); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if len(repo.rows) != 1 {
		t.Errorf("expected one stored follow-up, got %d", len(repo.rows))
	}
}

func TestSubmit_RequiresConductor(t *testing.T) {
	svc := NewService(&mockRepo{}, respondentsStub{"r1": true})
	sess := answeredSession(t, "r1", "no")
	sess.ConductedBy = " "

	if _, err := svc.Submit(context.Background(), sess); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestHistory_NormalizesFilter(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, respondentsStub{})

	_, _, _ = svc.History(context.Background(), domain.FollowupFilter{District: " Mbale", Gender: "ALL", Limit: -1})
	if repo.lastQuery.District != "mbale" || repo.lastQuery.Gender != "" || repo.lastQuery.Limit != 0 {
		t.Errorf("filter = %+v", repo.lastQuery)
	}
}

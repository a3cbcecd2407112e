package respondent

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/ignite/survey-tracker/internal/domain"
)

// mockRepo is an in-memory repository for testing.
type mockRepo struct {
	mu         sync.RWMutex
	store      map[string]*domain.Respondent
	industries map[string][]string
	lastFilter domain.RespondentFilter
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		store:      make(map[string]*domain.Respondent),
		industries: make(map[string][]string),
	}
}

func (m *mockRepo) List(_ context.Context, f domain.RespondentFilter) ([]domain.Respondent, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = f
	var out []domain.Respondent
	for _, r := range m.store {
		if f.District != "" && r.District != f.District {
			continue
		}
		if f.Gender != "" && r.Gender != f.Gender {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(r.RespondentName), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RespondentName < out[j].RespondentName })
	return out, len(out), nil
}

func (m *mockRepo) Get(_ context.Context, id string) (*domain.Respondent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockRepo) Create(_ context.Context, r *domain.Respondent) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	cp := *r
	m.store[r.ID] = &cp
	return r.ID, nil
}

func (m *mockRepo) Update(_ context.Context, id string, r *domain.Respondent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	cp := *r
	cp.ID = id
	m.store[id] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *mockRepo) SetIndustries(_ context.Context, id string, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.industries[id] = ids
	return nil
}

func (m *mockRepo) Industries(_ context.Context, id string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.industries[id], nil
}

func TestCreate_NormalizesCategoryFields(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	id, err := svc.Create(ctx, &domain.Respondent{
		RespondentName:      "  Jane Nakato ",
		District:            " MBALE",
		Gender:              "Female ",
		GroupName:           "Bugisu Growers",
		IndustryInvolvement: "Coffee, Tea",
		BusinessChallenges:  []string{" Capital", ""},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.RespondentName != "Jane Nakato" {
		t.Errorf("name = %q", got.RespondentName)
	}
	if got.District != "mbale" || got.Gender != "female" || got.GroupName != "bugisu growers" {
		t.Errorf("category fields not normalized: %+v", got)
	}
	if got.IndustryInvolvement != "Coffee, Tea" {
		t.Errorf("industry answer should keep its case, got %q", got.IndustryInvolvement)
	}
	if len(got.BusinessChallenges) != 1 || got.BusinessChallenges[0] != "capital" {
		t.Errorf("challenges = %v", got.BusinessChallenges)
	}
}

func TestCreate_RequiresNameAndDistrict(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	for _, r := range []*domain.Respondent{
		nil,
		{District: "mbale"},
		{RespondentName: "Jane"},
	} {
		if _, err := svc.Create(ctx, r); !errors.Is(err, ErrInvalid) {
			t.Errorf("expected ErrInvalid for %+v, got %v", r, err)
		}
	}
}

func TestList_NormalizesFilter(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, _ = svc.Create(ctx, &domain.Respondent{RespondentName: "A", District: "Kampala", Gender: "male"})
	_, _ = svc.Create(ctx, &domain.Respondent{RespondentName: "B", District: "Mukono", Gender: "female"})

	out, total, err := svc.List(ctx, domain.RespondentFilter{District: " KAMPALA ", Gender: "all", Limit: -5})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(out) != 1 || out[0].RespondentName != "A" {
		t.Errorf("unexpected result: %d %+v", total, out)
	}
	if repo.lastFilter.Gender != "" || repo.lastFilter.Limit != 0 {
		t.Errorf("filter not normalized: %+v", repo.lastFilter)
	}
}

func TestAll_IgnoresPagination(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, _ = svc.All(ctx, domain.RespondentFilter{Limit: 10, Offset: 20})
	if repo.lastFilter.Limit != 0 || repo.lastFilter.Offset != 0 {
		t.Errorf("All should clear pagination, got %+v", repo.lastFilter)
	}
}

func TestWrites_FireOnChange(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	calls := 0
	svc.OnChange(func(context.Context) { calls++ })

	id, _ := svc.Create(ctx, &domain.Respondent{RespondentName: "A", District: "x"})
	_ = svc.Update(ctx, id, &domain.Respondent{RespondentName: "B", District: "x"})
	_ = svc.SetIndustries(ctx, id, []string{"i1"})
	_ = svc.Delete(ctx, id)
	_ = svc.Delete(ctx, id)

	if calls != 4 {
		t.Errorf("expected 4 change notifications, got %d", calls)
	}
}

func TestSetIndustries_DedupesAndChecksRespondent(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if err := svc.SetIndustries(ctx, "missing", []string{"a"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	id, _ := svc.Create(ctx, &domain.Respondent{RespondentName: "A", District: "x"})
	if err := svc.SetIndustries(ctx, id, []string{"a", " a", "", "b"}); err != nil {
		t.Fatalf("SetIndustries: %v", err)
	}
	got, _ := svc.Industries(ctx, id)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("industries = %v", got)
	}
}

func TestGet_EmptyID(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.Get(context.Background(), " "); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateBatch_ReportsPerRowAndFiresOnce(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	fired := 0
	svc.OnChange(func(context.Context) { fired++ })

	errs := svc.CreateBatch(context.Background(), []*domain.Respondent{
		{RespondentName: "Jane", District: " Kampala"},
		{RespondentName: "", District: "Mukono"},
		{RespondentName: "Paul", District: "Mbale"},
	})

	if len(errs) != 3 {
		t.Fatalf("expected 3 error slots, got %d", len(errs))
	}
	if errs[0] != nil || errs[2] != nil {
		t.Errorf("unexpected errors: %v", errs)
	}
	if !errors.Is(errs[1], ErrInvalid) {
		t.Errorf("expected ErrInvalid for row 2, got %v", errs[1])
	}
	if len(repo.store) != 2 {
		t.Errorf("expected 2 stored, got %d", len(repo.store))
	}
	if fired != 1 {
		t.Errorf("expected one change notification, got %d", fired)
	}
}

func TestCreateBatch_NothingStoredNoHook(t *testing.T) {
	svc := NewService(newMockRepo())
	fired := false
	svc.OnChange(func(context.Context) { fired = true })

	errs := svc.CreateBatch(context.Background(), []*domain.Respondent{{District: "x"}})
	if errs[0] == nil {
		t.Fatal("expected validation error")
	}
	if fired {
		t.Error("hook should not run when nothing was stored")
	}
}

package reference

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/ignite/survey-tracker/internal/domain"
)

type mockRepo struct {
	mu        sync.Mutex
	seq       int
	refs      map[string]domain.Reference
	locations map[string]domain.Location
}

func newMockRepo() *mockRepo {
	return &mockRepo{refs: make(map[string]domain.Reference), locations: make(map[string]domain.Location)}
}

func (m *mockRepo) nextID() string {
	m.seq++
	return fmt.Sprintf("id-%d", m.seq)
}

func (m *mockRepo) List(_ context.Context, kind domain.ReferenceKind) ([]domain.Reference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Reference
	for _, r := range m.refs {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockRepo) FindByName(_ context.Context, kind domain.ReferenceKind, name string) (*domain.Reference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.refs {
		if r.Kind == kind && r.Name == name {
			cp := r
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Create(_ context.Context, ref *domain.Reference) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID()
	cp := *ref
	cp.ID = id
	m.refs[id] = cp
	return id, nil
}

func (m *mockRepo) Update(_ context.Context, ref *domain.Reference) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.refs[ref.ID]; !ok {
		return ErrNotFound
	}
	m.refs[ref.ID] = *ref
	return nil
}

func (m *mockRepo) Delete(_ context.Context, _ domain.ReferenceKind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.refs[id]; !ok {
		return ErrNotFound
	}
	delete(m.refs, id)
	return nil
}

func (m *mockRepo) ListLocations(_ context.Context, districtID string) ([]domain.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Location
	for _, l := range m.locations {
		if districtID == "" || (l.DistrictID != nil && *l.DistrictID == districtID) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockRepo) FindLocation(_ context.Context, districtID *string, subCounty, parish string) (*domain.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.locations {
		sameDistrict := (l.DistrictID == nil && districtID == nil) ||
			(l.DistrictID != nil && districtID != nil && *l.DistrictID == *districtID)
		if sameDistrict && l.SubCounty == subCounty && l.Parish == parish {
			cp := l
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) CreateLocation(_ context.Context, loc *domain.Location) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID()
	cp := *loc
	cp.ID = id
	m.locations[id] = cp
	return id, nil
}

func (m *mockRepo) UpdateLocation(_ context.Context, loc *domain.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.locations[loc.ID]; !ok {
		return ErrNotFound
	}
	m.locations[loc.ID] = *loc
	return nil
}

func (m *mockRepo) DeleteLocation(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locations, id)
	return nil
}

func TestCreate_NormalizesAndDisplays(t *testing.T) {
	svc := NewService(newMockRepo())

	ref, err := svc.Create(context.Background(), &domain.Reference{Kind: domain.KindDistrict, Name: "  MBALE "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ref.Name != "mbale" || ref.Display != "Mbale" || ref.ID == "" {
		t.Errorf("unexpected ref: %+v", ref)
	}
}

func TestCreate_RejectsDuplicateNames(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, &domain.Reference{Kind: domain.KindGroup, Name: "Bugisu Growers"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := svc.Create(ctx, &domain.Reference{Kind: domain.KindGroup, Name: "bugisu growers "})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	// Same name in another table is fine.
	if _, err := svc.Create(ctx, &domain.Reference{Kind: domain.KindIndustry, Name: "Bugisu Growers"}); err != nil {
		t.Errorf("other table: %v", err)
	}
}

func TestUpdate_RenameOntoOtherRowIsDuplicate(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	a, _ := svc.Create(ctx, &domain.Reference{Kind: domain.KindIndustry, Name: "coffee"})
	b, _ := svc.Create(ctx, &domain.Reference{Kind: domain.KindIndustry, Name: "tea"})

	_, err := svc.Update(ctx, &domain.Reference{ID: b.ID, Kind: domain.KindIndustry, Name: "Coffee"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
	if _, err := svc.Update(ctx, &domain.Reference{ID: a.ID, Kind: domain.KindIndustry, Name: "COFFEE"}); err != nil {
		t.Errorf("renaming to own name: %v", err)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	cases := []*domain.Reference{
		nil,
		{Kind: domain.KindDistrict, Name: "  "},
		{Kind: "parishes", Name: "x"},
	}
	for _, c := range cases {
		if _, err := svc.Create(ctx, c); !errors.Is(err, ErrInvalid) {
			t.Errorf("expected ErrInvalid for %+v, got %v", c, err)
		}
	}
}

func TestCreate_DistrictIDOnlyForGroups(t *testing.T) {
	svc := NewService(newMockRepo())
	did := "d-1"

	ref, err := svc.Create(context.Background(), &domain.Reference{Kind: domain.KindIndustry, Name: "coffee", DistrictID: &did})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ref.DistrictID != nil {
		t.Error("industry should not carry a district id")
	}
}

func TestList_SortedWithDisplay(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	_, _ = svc.Create(ctx, &domain.Reference{Kind: domain.KindDistrict, Name: "mukono"})
	_, _ = svc.Create(ctx, &domain.Reference{Kind: domain.KindDistrict, Name: "kampala"})

	refs, err := svc.List(ctx, domain.KindDistrict)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(refs) != 2 || refs[0].Display != "Kampala" || refs[1].Display != "Mukono" {
		t.Errorf("unexpected list: %+v", refs)
	}
}

func TestLocations_UniquePerDistrict(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	d1, d2 := "d-1", "d-2"

	if _, err := svc.CreateLocation(ctx, &domain.Location{DistrictID: &d1, SubCounty: "Bungokho", Parish: "Bumageni"}); err != nil {
		t.Fatalf("CreateLocation: %v", err)
	}
	_, err := svc.CreateLocation(ctx, &domain.Location{DistrictID: &d1, SubCounty: "bungokho", Parish: "BUMAGENI"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
	if _, err := svc.CreateLocation(ctx, &domain.Location{DistrictID: &d2, SubCounty: "bungokho", Parish: "bumageni"}); err != nil {
		t.Errorf("other district: %v", err)
	}
	if _, err := svc.CreateLocation(ctx, &domain.Location{SubCounty: " "}); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}

	locs, _ := svc.Locations(ctx, d1)
	if len(locs) != 1 {
		t.Errorf("expected 1 location in d-1, got %d", len(locs))
	}
}

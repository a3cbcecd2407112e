package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/ignite/survey-tracker/internal/domain"
	"github.com/ignite/survey-tracker/internal/service/followup"
	"github.com/ignite/survey-tracker/internal/service/reference"
	"github.com/ignite/survey-tracker/internal/service/respondent"
)

// fakeRespondents is an in-memory RespondentService that also serves as the
// import sink and the follow-up service's respondent lookup.
type fakeRespondents struct {
	mu         sync.Mutex
	rows       map[string]domain.Respondent
	industries map[string][]string
	seq        int
	err        error
}

func newFakeRespondents() *fakeRespondents {
	return &fakeRespondents{rows: map[string]domain.Respondent{}, industries: map[string][]string{}}
}

func (f *fakeRespondents) add(r domain.Respondent) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	r.ID = fmt.Sprintf("r%d", f.seq)
	f.rows[r.ID] = r
	return r.ID
}

func (f *fakeRespondents) List(_ context.Context, flt domain.RespondentFilter) ([]domain.Respondent, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	flt = respondent.NormalizeFilter(flt)
	out := []domain.Respondent{}
	for _, r := range f.rows {
		if flt.District != "" && r.District != flt.District {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := len(out)
	if flt.Limit > 0 {
		end := flt.Offset + flt.Limit
		if end > total {
			end = total
		}
		if flt.Offset > total {
			flt.Offset = total
		}
		out = out[flt.Offset:end]
	}
	return out, total, nil
}

func (f *fakeRespondents) All(ctx context.Context, flt domain.RespondentFilter) ([]domain.Respondent, error) {
	flt.Limit, flt.Offset = 0, 0
	out, _, err := f.List(ctx, flt)
	return out, err
}

func (f *fakeRespondents) Get(_ context.Context, id string) (*domain.Respondent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return nil, respondent.ErrNotFound
	}
	return &r, nil
}

func (f *fakeRespondents) Create(_ context.Context, r *domain.Respondent) (string, error) {
	if err := respondent.Validate(r); err != nil {
		return "", err
	}
	respondent.Normalize(r)
	return f.add(*r), nil
}

func (f *fakeRespondents) CreateBatch(ctx context.Context, rs []*domain.Respondent) []error {
	errs := make([]error, len(rs))
	for i, r := range rs {
		_, errs[i] = f.Create(ctx, r)
	}
	return errs
}

func (f *fakeRespondents) Update(_ context.Context, id string, r *domain.Respondent) error {
	if err := respondent.Validate(r); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return respondent.ErrNotFound
	}
	respondent.Normalize(r)
	r.ID = id
	f.rows[id] = *r
	return nil
}

func (f *fakeRespondents) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return respondent.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeRespondents) SetIndustries(_ context.Context, id string, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return respondent.ErrNotFound
	}
	f.industries[id] = ids
	return nil
}

func (f *fakeRespondents) Industries(_ context.Context, id string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.industries[id], nil
}

// memFollowups backs a real follow-up service.
type memFollowups struct {
	mu        sync.Mutex
	rows      []domain.Followup
	insertErr error
}

func (m *memFollowups) Insert(_ context.Context, f *domain.Followup) (string, error) {
	if m.insertErr != nil {
		return "", m.insertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := fmt.Sprintf("f%d", len(m.rows)+1)
	cp := *f
	cp.ID = id
	m.rows = append(m.rows, cp)
	return id, nil
}

func (m *memFollowups) List(_ context.Context, _ domain.FollowupFilter) ([]domain.Followup, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]domain.Followup{}, m.rows...)
	return out, len(out), nil
}

func (m *memFollowups) ListForRespondent(_ context.Context, id string) ([]domain.Followup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Followup{}
	for _, f := range m.rows {
		if f.OriginalRespondentID == id {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memFollowups) CountOrphans(context.Context) (int, error) { return 0, nil }

var _ followup.Repository = (*memFollowups)(nil)

// fakeReferences keeps lookup rows per kind and rejects duplicate names.
type fakeReferences struct {
	rows map[domain.ReferenceKind][]domain.Reference
	locs []domain.Location
}

func newFakeReferences() *fakeReferences {
	return &fakeReferences{rows: map[domain.ReferenceKind][]domain.Reference{}}
}

func (f *fakeReferences) List(_ context.Context, kind domain.ReferenceKind) ([]domain.Reference, error) {
	if !kind.Valid() {
		return nil, reference.ErrInvalid
	}
	return append([]domain.Reference{}, f.rows[kind]...), nil
}

func (f *fakeReferences) Create(_ context.Context, ref *domain.Reference) (*domain.Reference, error) {
	name := strings.ToLower(strings.TrimSpace(ref.Name))
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", reference.ErrInvalid)
	}
	for _, existing := range f.rows[ref.Kind] {
		if existing.Name == name {
			return nil, reference.ErrDuplicate
		}
	}
	ref.Name = name
	ref.ID = fmt.Sprintf("%s-%d", ref.Kind, len(f.rows[ref.Kind])+1)
	f.rows[ref.Kind] = append(f.rows[ref.Kind], *ref)
	return ref, nil
}

func (f *fakeReferences) Update(_ context.Context, ref *domain.Reference) (*domain.Reference, error) {
	for i, existing := range f.rows[ref.Kind] {
		if existing.ID == ref.ID {
			f.rows[ref.Kind][i].Name = strings.ToLower(ref.Name)
			return &f.rows[ref.Kind][i], nil
		}
	}
	return nil, reference.ErrNotFound
}

func (f *fakeReferences) Delete(_ context.Context, kind domain.ReferenceKind, id string) error {
	for i, existing := range f.rows[kind] {
		if existing.ID == id {
			f.rows[kind] = append(f.rows[kind][:i], f.rows[kind][i+1:]...)
			return nil
		}
	}
	return reference.ErrNotFound
}

func (f *fakeReferences) Locations(context.Context, string) ([]domain.Location, error) {
	return append([]domain.Location{}, f.locs...), nil
}

func (f *fakeReferences) CreateLocation(_ context.Context, loc *domain.Location) (*domain.Location, error) {
	if loc.SubCounty == "" {
		return nil, fmt.Errorf("%w: sub_county is required", reference.ErrInvalid)
	}
	loc.ID = fmt.Sprintf("loc-%d", len(f.locs)+1)
	f.locs = append(f.locs, *loc)
	return loc, nil
}

func (f *fakeReferences) UpdateLocation(_ context.Context, loc *domain.Location) (*domain.Location, error) {
	return nil, reference.ErrNotFound
}

func (f *fakeReferences) DeleteLocation(context.Context, string) error {
	return reference.ErrNotFound
}

// fakeOpener serves import sources from memory.
type fakeOpener map[string]string

func (o fakeOpener) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	body, ok := o[ref]
	if !ok {
		return nil, errors.New("s3: NoSuchKey")
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

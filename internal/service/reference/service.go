package reference

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ignite/survey-tracker/internal/domain"
	"github.com/ignite/survey-tracker/internal/pkg/textnorm"
)

// Service implements the lookup-table rules.
type Service struct {
	repo Repository
}

// NewService creates a reference service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns a table ordered by name with display names filled in.
func (s *Service) List(ctx context.Context, kind domain.ReferenceKind) ([]domain.Reference, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown table %q", ErrInvalid, kind)
	}
	refs, err := s.repo.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	for i := range refs {
		refs[i].Kind = kind
		refs[i].Display = textnorm.TitleCase(refs[i].Name)
	}
	return refs, nil
}

// Create adds a named row. Names that normalize to an existing name are
// rejected with ErrDuplicate.
func (s *Service) Create(ctx context.Context, ref *domain.Reference) (*domain.Reference, error) {
	if err := s.prepare(ref); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, ref); err != nil {
		return nil, err
	}
	id, err := s.repo.Create(ctx, ref)
	if err != nil {
		return nil, err
	}
	ref.ID = id
	return ref, nil
}

// Update renames a row. Renaming onto another row's name is ErrDuplicate.
func (s *Service) Update(ctx context.Context, ref *domain.Reference) (*domain.Reference, error) {
	if strings.TrimSpace(ref.ID) == "" {
		return nil, ErrNotFound
	}
	if err := s.prepare(ref); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, ref); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, ref); err != nil {
		return nil, err
	}
	return ref, nil
}

// Delete removes a row.
func (s *Service) Delete(ctx context.Context, kind domain.ReferenceKind, id string) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown table %q", ErrInvalid, kind)
	}
	return s.repo.Delete(ctx, kind, id)
}

func (s *Service) prepare(ref *domain.Reference) error {
	if ref == nil {
		return fmt.Errorf("%w: body is required", ErrInvalid)
	}
	if !ref.Kind.Valid() {
		return fmt.Errorf("%w: unknown table %q", ErrInvalid, ref.Kind)
	}
	ref.Name = textnorm.Normalize(ref.Name)
	if ref.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if ref.Kind != domain.KindGroup {
		ref.DistrictID = nil
	} else if ref.DistrictID != nil && strings.TrimSpace(*ref.DistrictID) == "" {
		ref.DistrictID = nil
	}
	ref.Display = textnorm.TitleCase(ref.Name)
	return nil
}

func (s *Service) checkUnique(ctx context.Context, ref *domain.Reference) error {
	existing, err := s.repo.FindByName(ctx, ref.Kind, ref.Name)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != ref.ID {
		return fmt.Errorf("%w: %s %q", ErrDuplicate, ref.Kind, ref.Display)
	}
	return nil
}

// Locations returns locations, optionally limited to one district.
func (s *Service) Locations(ctx context.Context, districtID string) ([]domain.Location, error) {
	return s.repo.ListLocations(ctx, strings.TrimSpace(districtID))
}

// CreateLocation adds a sub-county/parish pair. The same pair may not be
// stored twice for a district.
func (s *Service) CreateLocation(ctx context.Context, loc *domain.Location) (*domain.Location, error) {
	if err := prepareLocation(loc); err != nil {
		return nil, err
	}
	if err := s.checkLocation(ctx, loc); err != nil {
		return nil, err
	}
	id, err := s.repo.CreateLocation(ctx, loc)
	if err != nil {
		return nil, err
	}
	loc.ID = id
	return loc, nil
}

// UpdateLocation edits a location.
func (s *Service) UpdateLocation(ctx context.Context, loc *domain.Location) (*domain.Location, error) {
	if strings.TrimSpace(loc.ID) == "" {
		return nil, ErrNotFound
	}
	if err := prepareLocation(loc); err != nil {
		return nil, err
	}
	if err := s.checkLocation(ctx, loc); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateLocation(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

// DeleteLocation removes a location.
func (s *Service) DeleteLocation(ctx context.Context, id string) error {
	return s.repo.DeleteLocation(ctx, id)
}

func prepareLocation(loc *domain.Location) error {
	if loc == nil {
		return fmt.Errorf("%w: body is required", ErrInvalid)
	}
	loc.SubCounty = textnorm.Normalize(loc.SubCounty)
	loc.Parish = textnorm.Normalize(loc.Parish)
	if loc.SubCounty == "" {
		return fmt.Errorf("%w: sub_county is required", ErrInvalid)
	}
	if loc.DistrictID != nil && strings.TrimSpace(*loc.DistrictID) == "" {
		loc.DistrictID = nil
	}
	return nil
}

func (s *Service) checkLocation(ctx context.Context, loc *domain.Location) error {
	existing, err := s.repo.FindLocation(ctx, loc.DistrictID, loc.SubCounty, loc.Parish)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != loc.ID {
		return fmt.Errorf("%w: location %s / %s", ErrDuplicate, loc.SubCounty, loc.Parish)
	}
	return nil
}

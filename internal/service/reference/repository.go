package reference

import (
	"context"

	"github.com/ignite/survey-tracker/internal/domain"
)

// Repository defines the data access contract for the lookup tables.
type Repository interface {
	// List returns every row of a table ordered by name.
	List(ctx context.Context, kind domain.ReferenceKind) ([]domain.Reference, error)

	// FindByName returns the row with the normalized name, or ErrNotFound.
	FindByName(ctx context.Context, kind domain.ReferenceKind, name string) (*domain.Reference, error)

	// Create inserts a row and returns its id. A unique violation is
	// ErrDuplicate.
	Create(ctx context.Context, ref *domain.Reference) (string, error)

	// Update renames a row (and moves a group). Returns ErrNotFound if missing.
	Update(ctx context.Context, ref *domain.Reference) error

	// Delete removes a row. Returns ErrNotFound if missing.
	Delete(ctx context.Context, kind domain.ReferenceKind, id string) error

	ListLocations(ctx context.Context, districtID string) ([]domain.Location, error)
	FindLocation(ctx context.Context, districtID *string, subCounty, parish string) (*domain.Location, error)
	CreateLocation(ctx context.Context, loc *domain.Location) (string, error)
	UpdateLocation(ctx context.Context, loc *domain.Location) error
	DeleteLocation(ctx context.Context, id string) error
}

package respondent

import (
	"context"

	"github.com/ignite/survey-tracker/internal/domain"
)

// Repository defines the data access contract for respondents.
type Repository interface {
	// List returns respondents matching the filter, newest first, and the
	// total match count. A zero Limit returns every match.
	List(ctx context.Context, f domain.RespondentFilter) ([]domain.Respondent, int, error)

	// Get returns one respondent or ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Respondent, error)

	// Create inserts a respondent and returns its id.
	Create(ctx context.Context, r *domain.Respondent) (string, error)

	// Update replaces the editable fields. Returns ErrNotFound if missing.
	Update(ctx context.Context, id string, r *domain.Respondent) error

	// Delete removes a respondent. Returns ErrNotFound if missing.
	Delete(ctx context.Context, id string) error

	// SetIndustries replaces the respondent's industry links.
	SetIndustries(ctx context.Context, respondentID string, industryIDs []string) error

	// Industries returns the linked industry ids.
	Industries(ctx context.Context, respondentID string) ([]string, error)
}

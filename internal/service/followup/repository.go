package followup

import (
	"context"

	"github.com/ignite/survey-tracker/internal/domain"
)

// Repository defines the data access contract for follow-up visits.
type Repository interface {
	// Insert stores one composite follow-up and returns its id.
	Insert(ctx context.Context, f *domain.Followup) (string, error)

	// List returns follow-ups with their parent respondent joined, latest
	// visit first, and the total match count. A zero Limit returns every match.
	List(ctx context.Context, f domain.FollowupFilter) ([]domain.Followup, int, error)

	// ListForRespondent returns one respondent's visits, oldest first.
	ListForRespondent(ctx context.Context, respondentID string) ([]domain.Followup, error)

	// CountOrphans counts follow-ups whose respondent no longer exists.
	CountOrphans(ctx context.Context) (int, error)
}

// Respondents is the respondent lookup used to validate submissions.
type Respondents interface {
	Get(ctx context.Context, id string) (*domain.Respondent, error)
}

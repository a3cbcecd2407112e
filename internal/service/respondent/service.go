package respondent

import (
	"context"
	"fmt"
	"strings"

	"github.com/ignite/survey-tracker/internal/domain"
	"github.com/ignite/survey-tracker/internal/pkg/textnorm"
)

// Service implements respondent business logic. It is safe for concurrent use.
type Service struct {
	repo     Repository
	onChange func(ctx context.Context)
}

// NewService creates a respondent service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// OnChange registers a hook run after every successful write. The dashboard
// uses it to drop cached analytics.
func (s *Service) OnChange(fn func(ctx context.Context)) {
	s.onChange = fn
}

func (s *Service) changed(ctx context.Context) {
	if s.onChange != nil {
		s.onChange(ctx)
	}
}

// List returns respondents matching the filter.
func (s *Service) List(ctx context.Context, f domain.RespondentFilter) ([]domain.Respondent, int, error) {
	return s.repo.List(ctx, NormalizeFilter(f))
}

// All returns every respondent matching the filter, ignoring pagination.
func (s *Service) All(ctx context.Context, f domain.RespondentFilter) ([]domain.Respondent, error) {
	f.Limit, f.Offset = 0, 0
	out, _, err := s.repo.List(ctx, NormalizeFilter(f))
	return out, err
}

// Get returns one respondent.
func (s *Service) Get(ctx context.Context, id string) (*domain.Respondent, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// Create validates, normalizes and stores a new respondent.
func (s *Service) Create(ctx context.Context, r *domain.Respondent) (string, error) {
	if err := Validate(r); err != nil {
		return "", err
	}
	Normalize(r)
	id, err := s.repo.Create(ctx, r)
	if err != nil {
		return "", err
	}
	s.changed(ctx)
	return id, nil
}

// CreateBatch stores each respondent like Create and returns one error slot
// per input, nil on success. The change hook runs once when any row was
// stored.
func (s *Service) CreateBatch(ctx context.Context, rs []*domain.Respondent) []error {
	errs := make([]error, len(rs))
	created := 0
	for i, r := range rs {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			continue
		}
		if err := Validate(r); err != nil {
			errs[i] = err
			continue
		}
		Normalize(r)
		if _, err := s.repo.Create(ctx, r); err != nil {
			errs[i] = err
			continue
		}
		created++
	}
	if created > 0 {
		s.changed(ctx)
	}
	return errs
}

// Update validates, normalizes and replaces a respondent.
func (s *Service) Update(ctx context.Context, id string, r *domain.Respondent) error {
	if err := Validate(r); err != nil {
		return err
	}
	Normalize(r)
	if err := s.repo.Update(ctx, id, r); err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

// Delete removes a respondent. Its follow-ups are kept.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

// SetIndustries replaces the respondent's industry links. Duplicate and
// blank ids are dropped.
func (s *Service) SetIndustries(ctx context.Context, id string, industryIDs []string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	seen := make(map[string]bool, len(industryIDs))
	ids := make([]string, 0, len(industryIDs))
	for _, in := range industryIDs {
		in = strings.TrimSpace(in)
		if in == "" || seen[in] {
			continue
		}
		seen[in] = true
		ids = append(ids, in)
	}
	if err := s.repo.SetIndustries(ctx, id, ids); err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

// Industries returns the linked industry ids.
func (s *Service) Industries(ctx context.Context, id string) ([]string, error) {
	return s.repo.Industries(ctx, id)
}

// Validate checks the fields a respondent cannot be stored without.
func Validate(r *domain.Respondent) error {
	if r == nil {
		return fmt.Errorf("%w: body is required", ErrInvalid)
	}
	if strings.TrimSpace(r.RespondentName) == "" {
		return fmt.Errorf("%w: respondent_name is required", ErrInvalid)
	}
	if strings.TrimSpace(r.District) == "" {
		return fmt.Errorf("%w: district is required", ErrInvalid)
	}
	return nil
}

// Normalize puts category fields in storage form. The name and the industry
// answer keep their case.
func Normalize(r *domain.Respondent) {
	r.RespondentName = strings.TrimSpace(r.RespondentName)
	r.District = textnorm.Normalize(r.District)
	r.SubCounty = textnorm.Normalize(r.SubCounty)
	r.Parish = textnorm.Normalize(r.Parish)
	r.Age = strings.TrimSpace(r.Age)
	r.Gender = textnorm.Normalize(r.Gender)
	r.EducationLevel = textnorm.Normalize(r.EducationLevel)
	r.MaritalStatus = textnorm.Normalize(r.MaritalStatus)
	r.Occupation = textnorm.Normalize(r.Occupation)
	r.HouseholdSize = strings.TrimSpace(r.HouseholdSize)
	r.IndustryInvolvement = strings.TrimSpace(r.IndustryInvolvement)
	r.ValueChainRole = textnorm.Normalize(r.ValueChainRole)
	r.ValueChainStage = textnorm.Normalize(r.ValueChainStage)
	r.OtherEconomicActivities = strings.TrimSpace(r.OtherEconomicActivities)
	r.BusinessChallenges = textnorm.NormalizeAll(r.BusinessChallenges)
	r.FinancialChallenges = textnorm.NormalizeAll(r.FinancialChallenges)
	r.MarketChallenges = textnorm.NormalizeAll(r.MarketChallenges)
	r.TechnologyBarriers = textnorm.NormalizeAll(r.TechnologyBarriers)
	r.BusinessFuturePlans = textnorm.NormalizeAll(r.BusinessFuturePlans)
	r.SupportNeeded = strings.TrimSpace(r.SupportNeeded)
	r.GroupName = textnorm.Normalize(r.GroupName)
}

// NormalizeFilter normalizes the text criteria. "all" means no filter, the
// value the dashboard selectors send.
func NormalizeFilter(f domain.RespondentFilter) domain.RespondentFilter {
	f.District = filterValue(f.District)
	f.Gender = filterValue(f.Gender)
	f.Group = filterValue(f.Group)
	f.SubCounty = filterValue(f.SubCounty)
	f.Search = strings.TrimSpace(f.Search)
	if f.Limit < 0 {
		f.Limit = 0
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

func filterValue(v string) string {
	v = textnorm.Normalize(v)
	if v == "all" {
		return ""
	}
	return v
}

package followup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ignite/survey-tracker/internal/domain"
	"github.com/ignite/survey-tracker/internal/questionnaire"
	"github.com/ignite/survey-tracker/internal/service/respondent"
)

// Service implements follow-up business logic.
type Service struct {
	repo        Repository
	respondents Respondents
	onChange    func(ctx context.Context)
}

// NewService creates a follow-up service.
func NewService(repo Repository, respondents Respondents) *Service {
	return &Service{repo: repo, respondents: respondents}
}

// OnChange registers a hook run after every successful insert.
func (s *Service) OnChange(fn func(ctx context.Context)) {
	s.onChange = fn
}

// Submit turns a completed questionnaire session into a stored follow-up.
// The session is left untouched; callers finish and delete it only after
// Submit succeeds, so a failed insert can be resubmitted.
func (s *Service) Submit(ctx context.Context, sess *questionnaire.Session) (*domain.Followup, error) {
	if sess == nil || strings.TrimSpace(sess.RespondentID) == "" {
		return nil, fmt.Errorf("%w: respondent is required", ErrInvalid)
	}
	if strings.TrimSpace(sess.ConductedBy) == "" {
		return nil, fmt.Errorf("%w: conducted_by is required", ErrInvalid)
	}
	if _, err := s.respondents.Get(ctx, sess.RespondentID); err != nil {
		if errors.Is(err, respondent.ErrNotFound) {
			return nil, ErrRespondentNotFound
		}
		return nil, fmt.Errorf("check respondent: %w", err)
	}

	m, err := sess.Machine()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if m.Done() {
		return nil, questionnaire.ErrFinished
	}
	f, err := m.Record(sess.RespondentID, sess.ConductedBy, sess.VisitDate)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.Insert(ctx, f)
	if err != nil {
		return nil, err
	}
	f.ID = id
	if s.onChange != nil {
		s.onChange(ctx)
	}
	return f, nil
}

// History returns follow-ups matching the filter, latest first.
func (s *Service) History(ctx context.Context, f domain.FollowupFilter) ([]domain.Followup, int, error) {
	return s.repo.List(ctx, normalizeFilter(f))
}

// All returns every follow-up matching the filter, ignoring pagination.
func (s *Service) All(ctx context.Context, f domain.FollowupFilter) ([]domain.Followup, error) {
	f.Limit, f.Offset = 0, 0
	out, _, err := s.repo.List(ctx, normalizeFilter(f))
	return out, err
}

// ForRespondent returns one respondent's visits, oldest first.
func (s *Service) ForRespondent(ctx context.Context, respondentID string) ([]domain.Followup, error) {
	return s.repo.ListForRespondent(ctx, respondentID)
}

// CountOrphans counts follow-ups whose respondent was deleted.
func (s *Service) CountOrphans(ctx context.Context) (int, error) {
	return s.repo.CountOrphans(ctx)
}

func normalizeFilter(f domain.FollowupFilter) domain.FollowupFilter {
	rf := respondent.NormalizeFilter(domain.RespondentFilter{
		District: f.District,
		Gender:   f.Gender,
		Group:    f.Group,
		Limit:    f.Limit,
		Offset:   f.Offset,
	})
	f.District, f.Gender, f.Group = rf.District, rf.Gender, rf.Group
	f.Limit, f.Offset = rf.Limit, rf.Offset
	f.RespondentID = strings.TrimSpace(f.RespondentID)
	return f
}

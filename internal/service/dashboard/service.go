package dashboard

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ignite/survey-tracker/internal/analytics"
	"github.com/ignite/survey-tracker/internal/domain"
	"github.com/ignite/survey-tracker/internal/pkg/logger"
	"github.com/ignite/survey-tracker/internal/pkg/reqseq"
	"github.com/ignite/survey-tracker/internal/service/respondent"
)

// View names one analytics payload.
type View string

const (
	ViewBaseline   View = "baseline"
	ViewFollowups  View = "followups"
	ViewComparison View = "comparison"
)

// ParseView validates a view name.
func ParseView(s string) (View, error) {
	switch v := View(strings.ToLower(strings.TrimSpace(s))); v {
	case ViewBaseline, ViewFollowups, ViewComparison:
		return v, nil
	}
	return "", ErrUnknownView
}

// RespondentSource fetches the filtered respondent population.
type RespondentSource interface {
	All(ctx context.Context, f domain.RespondentFilter) ([]domain.Respondent, error)
}

// FollowupSource fetches follow-ups filtered by parent respondent.
type FollowupSource interface {
	All(ctx context.Context, f domain.FollowupFilter) ([]domain.Followup, error)
}

// Service aggregates dashboard views.
type Service struct {
	respondents RespondentSource
	followups   FollowupSource
	cache       Cache
	seq         reqseq.Sequencer
}

// NewService creates a dashboard service. A nil cache disables caching and a
// nil sequencer disables stale-response detection.
func NewService(respondents RespondentSource, followups FollowupSource, cache Cache, seq reqseq.Sequencer) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	return &Service{respondents: respondents, followups: followups, cache: cache, seq: seq}
}

// Invalidate drops cached views. It is registered as the write hook of the
// respondent and follow-up services.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Warn("analytics cache invalidation failed", "error", err)
	}
}

// Baseline returns the baseline dashboard for the filter.
func (s *Service) Baseline(ctx context.Context, f domain.RespondentFilter) (*analytics.BaselineSummary, error) {
	f = dashboardFilter(f)
	out := &analytics.BaselineSummary{}
	if s.cached(ctx, ViewBaseline, f, out) {
		return out, nil
	}
	gen, genOK := s.generation(ctx)
	rs, _, err := s.fetch(ctx, "load baseline analytics", f, false)
	if err != nil {
		return nil, err
	}
	*out = analytics.BaselineReport(rs)
	if genOK {
		s.store(ctx, ViewBaseline, f, gen, out)
	}
	return out, nil
}

// Followups returns the follow-up dashboard for the filter.
func (s *Service) Followups(ctx context.Context, f domain.RespondentFilter) (*analytics.FollowupSummary, error) {
	f = dashboardFilter(f)
	out := &analytics.FollowupSummary{}
	if s.cached(ctx, ViewFollowups, f, out) {
		return out, nil
	}
	gen, genOK := s.generation(ctx)
	rs, fs, err := s.fetch(ctx, "load follow-up analytics", f, true)
	if err != nil {
		return nil, err
	}
	*out = analytics.FollowupReport(rs, fs)
	if genOK {
		s.store(ctx, ViewFollowups, f, gen, out)
	}
	return out, nil
}

// Comparison returns the baseline/follow-up comparison for the filter.
func (s *Service) Comparison(ctx context.Context, f domain.RespondentFilter) (*analytics.ComparisonSummary, error) {
	f = dashboardFilter(f)
	out := &analytics.ComparisonSummary{}
	if s.cached(ctx, ViewComparison, f, out) {
		return out, nil
	}
	gen, genOK := s.generation(ctx)
	rs, fs, err := s.fetch(ctx, "load comparison", f, true)
	if err != nil {
		return nil, err
	}
	*out = analytics.ComparisonReport(rs, analytics.ByRespondent(fs))
	if genOK {
		s.store(ctx, ViewComparison, f, gen, out)
	}
	return out, nil
}

// View dispatches by view name.
func (s *Service) View(ctx context.Context, v View, f domain.RespondentFilter) (interface{}, error) {
	switch v {
	case ViewBaseline:
		return s.Baseline(ctx, f)
	case ViewFollowups:
		return s.Followups(ctx, f)
	case ViewComparison:
		return s.Comparison(ctx, f)
	}
	return nil, ErrUnknownView
}

// fetch loads respondents and, when asked, follow-ups concurrently. Either
// failure cancels the other and is returned as one OperationError.
func (s *Service) fetch(ctx context.Context, op string, f domain.RespondentFilter, withFollowups bool) ([]domain.Respondent, []domain.Followup, error) {
	var (
		rs []domain.Respondent
		fs []domain.Followup
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rs, err = s.respondents.All(gctx, f)
		return err
	})
	if withFollowups {
		g.Go(func() error {
			var err error
			fs, err = s.followups.All(gctx, domain.FromRespondentFilter(f))
			return err
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("analytics fetch failed", "op", op, "error", err)
		return nil, nil, opError(op, err)
	}
	return rs, fs, nil
}

// dashboardFilter keeps the three dashboard filters, normalized.
func dashboardFilter(f domain.RespondentFilter) domain.RespondentFilter {
	f = respondent.NormalizeFilter(f)
	return domain.RespondentFilter{District: f.District, Gender: f.Gender, Group: f.Group}
}

func (s *Service) cached(ctx context.Context, v View, f domain.RespondentFilter, dst interface{}) bool {
	ok, err := s.cache.Get(ctx, CacheKey(v, f), dst)
	if err != nil {
		logger.Warn("analytics cache read failed", "view", v, "error", err)
		return false
	}
	return ok
}

// generation is read before fetching; a view is only stored under the
// generation it was computed in.
func (s *Service) generation(ctx context.Context) (int64, bool) {
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		logger.Warn("analytics cache generation read failed", "error", err)
		return 0, false
	}
	return gen, true
}

func (s *Service) store(ctx context.Context, v View, f domain.RespondentFilter, gen int64, val interface{}) {
	if err := s.cache.Set(ctx, CacheKey(v, f), gen, val); err != nil {
		logger.Warn("analytics cache write failed", "view", v, "error", err)
	}
}

// Ticket identifies one analytics request in its client's sequence.
type Ticket struct {
	Scope string
	Token int64
}

// Begin registers a request from clientID. It returns nil when the client
// did not identify itself or sequencing is disabled.
func (s *Service) Begin(ctx context.Context, clientID string, v View, token int64) (*Ticket, error) {
	clientID = strings.TrimSpace(clientID)
	if s.seq == nil || clientID == "" {
		return nil, nil
	}
	scope := reqseq.Scope(clientID, string(v))
	tok, err := s.seq.Begin(ctx, scope, token)
	if err != nil {
		return nil, opError("sequence request", err)
	}
	return &Ticket{Scope: scope, Token: tok}, nil
}

// Stale reports whether a newer request from the same client started after
// t. Sequencer errors are logged and treated as not stale.
func (s *Service) Stale(ctx context.Context, t *Ticket) bool {
	if t == nil || s.seq == nil {
		return false
	}
	ok, err := s.seq.Current(ctx, t.Scope, t.Token)
	if err != nil {
		logger.Warn("request sequence check failed", "scope", t.Scope, "error", err)
		return false
	}
	return !ok
}

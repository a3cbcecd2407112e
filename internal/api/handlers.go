package api

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ignite/survey-tracker/internal/analytics"
	"github.com/ignite/survey-tracker/internal/domain"
	"github.com/ignite/survey-tracker/internal/export"
	"github.com/ignite/survey-tracker/internal/questionnaire"
	"github.com/ignite/survey-tracker/internal/service/dashboard"
	"github.com/ignite/survey-tracker/internal/surveyimport"
)

// RespondentService is the respondent surface the handlers need.
type RespondentService interface {
	List(ctx context.Context, f domain.RespondentFilter) ([]domain.Respondent, int, error)
	All(ctx context.Context, f domain.RespondentFilter) ([]domain.Respondent, error)
	Get(ctx context.Context, id string) (*domain.Respondent, error)
	Create(ctx context.Context, r *domain.Respondent) (string, error)
	Update(ctx context.Context, id string, r *domain.Respondent) error
	Delete(ctx context.Context, id string) error
	SetIndustries(ctx context.Context, id string, industryIDs []string) error
	Industries(ctx context.Context, id string) ([]string, error)
}

// FollowupService is the follow-up surface the handlers need.
type FollowupService interface {
	Submit(ctx context.Context, sess *questionnaire.Session) (*domain.Followup, error)
	History(ctx context.Context, f domain.FollowupFilter) ([]domain.Followup, int, error)
	All(ctx context.Context, f domain.FollowupFilter) ([]domain.Followup, error)
	ForRespondent(ctx context.Context, respondentID string) ([]domain.Followup, error)
	CountOrphans(ctx context.Context) (int, error)
}

// ReferenceService is the lookup-table surface the handlers need.
type ReferenceService interface {
	List(ctx context.Context, kind domain.ReferenceKind) ([]domain.Reference, error)
	Create(ctx context.Context, ref *domain.Reference) (*domain.Reference, error)
	Update(ctx context.Context, ref *domain.Reference) (*domain.Reference, error)
	Delete(ctx context.Context, kind domain.ReferenceKind, id string) error
	Locations(ctx context.Context, districtID string) ([]domain.Location, error)
	CreateLocation(ctx context.Context, loc *domain.Location) (*domain.Location, error)
	UpdateLocation(ctx context.Context, loc *domain.Location) (*domain.Location, error)
	DeleteLocation(ctx context.Context, id string) error
}

// DashboardService serves the analytics views.
type DashboardService interface {
	View(ctx context.Context, v dashboard.View, f domain.RespondentFilter) (interface{}, error)
	Baseline(ctx context.Context, f domain.RespondentFilter) (*analytics.BaselineSummary, error)
	Followups(ctx context.Context, f domain.RespondentFilter) (*analytics.FollowupSummary, error)
	Begin(ctx context.Context, clientID string, v dashboard.View, token int64) (*dashboard.Ticket, error)
	Stale(ctx context.Context, t *dashboard.Ticket) bool
}

// Importer loads a survey CSV export.
type Importer interface {
	Import(ctx context.Context, r io.Reader, source string) (*surveyimport.ImportResult, error)
}

// SourceOpener resolves an import source reference.
type SourceOpener interface {
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}

// Handlers contains all HTTP handlers
type Handlers struct {
	respondents RespondentService
	followups   FollowupService
	references  ReferenceService
	dashboard   DashboardService
	sessions    questionnaire.SessionStore
	importer    Importer
	opener      SourceOpener
	reports     *export.Renderer

	maxUploadBytes int64
	now            func() time.Time
}

// NewHandlers creates a new Handlers instance. Sessions default to an
// in-memory store until SetSessionStore is called.
func NewHandlers(respondents RespondentService, followups FollowupService, references ReferenceService, dash DashboardService) *Handlers {
	return &Handlers{
		respondents:    respondents,
		followups:      followups,
		references:     references,
		dashboard:      dash,
		sessions:       questionnaire.NewMemorySessionStore(questionnaire.DefaultSessionTTL),
		maxUploadBytes: 32 << 20,
		now:            time.Now,
	}
}

// SetSessionStore sets where questionnaire sessions are kept
func (h *Handlers) SetSessionStore(store questionnaire.SessionStore) {
	h.sessions = store
}

// SetImporter enables the import endpoint. opener may be nil, in which case
// only uploads are accepted.
func (h *Handlers) SetImporter(imp Importer, opener SourceOpener) {
	h.importer = imp
	h.opener = opener
}

// SetMaxUploadBytes caps multipart import uploads
func (h *Handlers) SetMaxUploadBytes(n int64) {
	if n > 0 {
		h.maxUploadBytes = n
	}
}

// SetReportRenderer enables the report endpoint
func (h *Handlers) SetReportRenderer(r *export.Renderer) {
	h.reports = r
}

// respondentFilter reads the shared dashboard and list filters.
func respondentFilter(r *http.Request) domain.RespondentFilter {
	q := r.URL.Query()
	return domain.RespondentFilter{
		District:  q.Get("district"),
		Gender:    q.Get("gender"),
		Group:     q.Get("group"),
		SubCounty: q.Get("sub_county"),
		Search:    strings.TrimSpace(q.Get("search")),
	}
}

func followupFilter(r *http.Request) domain.FollowupFilter {
	q := r.URL.Query()
	return domain.FollowupFilter{
		District:     q.Get("district"),
		Gender:       q.Get("gender"),
		Group:        q.Get("group"),
		RespondentID: q.Get("respondent_id"),
	}
}

package api

import (
	"net/http"

	"github.com/ignite/survey-tracker/internal/export"
	"github.com/ignite/survey-tracker/internal/pkg/httputil"
	"github.com/ignite/survey-tracker/internal/pkg/logger"
)

// ListFollowups returns a page of follow-up history, latest visit first.
//
//	GET /api/followups?district=&gender=&group=&respondent_id=&page=&limit=
func (h *Handlers) ListFollowups(w http.ResponseWriter, r *http.Request) {
	params := ParsePagination(r, 50, 500)
	f := followupFilter(r)
	f.Limit, f.Offset = params.Limit, params.Offset

	rows, total, err := h.followups.History(r.Context(), f)
	if err != nil {
		respondServiceError(w, err, "failed to list follow-ups")
		return
	}
	httputil.OK(w, NewPaginatedResponse(rows, params, int64(total)))
}

// FollowupStats reports history totals, including follow-ups whose
// respondent was deleted.
func (h *Handlers) FollowupStats(w http.ResponseWriter, r *http.Request) {
	f := followupFilter(r)
	f.Limit = 1
	_, total, err := h.followups.History(r.Context(), f)
	if err != nil {
		respondServiceError(w, err, "failed to load follow-up stats")
		return
	}
	orphans, err := h.followups.CountOrphans(r.Context())
	if err != nil {
		respondServiceError(w, err, "failed to load follow-up stats")
		return
	}
	httputil.OK(w, map[string]int{"total": total, "orphaned": orphans})
}

// ExportFollowups streams the matching follow-up history as CSV.
//
//	GET /api/followups/export.csv
func (h *Handlers) ExportFollowups(w http.ResponseWriter, r *http.Request) {
	rows, err := h.followups.All(r.Context(), followupFilter(r))
	if err != nil {
		respondServiceError(w, err, "failed to export follow-ups")
		return
	}
	httputil.Attachment(w, "text/csv; charset=utf-8", export.FollowupsFilename(h.now()))
	if err := export.WriteFollowupsCSV(w, rows); err != nil {
		logger.Error("follow-up export interrupted", "rows", len(rows), "error", err)
	}
}

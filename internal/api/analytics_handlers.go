package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/survey-tracker/internal/export"
	"github.com/ignite/survey-tracker/internal/pkg/httputil"
	"github.com/ignite/survey-tracker/internal/service/dashboard"
)

// Request sequencing headers. A client that sends X-Client-ID gets its
// response flagged stale (409 {"stale": true}) when a newer request for the
// same view started while this one was running.
const (
	headerClientID   = "X-Client-ID"
	headerRequestSeq = "X-Request-Seq"
)

// Analytics serves one dashboard view.
//
//	GET /api/analytics/{baseline|followups|comparison}?district=&gender=&group=
func (h *Handlers) Analytics(view dashboard.View) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var token int64
		if raw := strings.TrimSpace(r.Header.Get(headerRequestSeq)); raw != "" {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || n < 0 {
				httputil.BadRequest(w, headerRequestSeq+" must be a non-negative integer")
				return
			}
			token = n
		}
		ticket, err := h.dashboard.Begin(ctx, r.Header.Get(headerClientID), view, token)
		if err != nil {
			respondServiceError(w, err, "failed to sequence request")
			return
		}

		data, err := h.dashboard.View(ctx, view, respondentFilter(r))
		if err != nil {
			respondServiceError(w, err, "failed to load analytics")
			return
		}
		if ticket != nil {
			w.Header().Set(headerRequestSeq, strconv.FormatInt(ticket.Token, 10))
			if h.dashboard.Stale(ctx, ticket) {
				httputil.JSON(w, http.StatusConflict, map[string]bool{"stale": true})
				return
			}
		}
		httputil.OK(w, data)
	}
}

// Report renders a Markdown report for the filtered population.
//
//	GET /api/reports/{kind}?district=&gender=&group=&download=1
func (h *Handlers) Report(w http.ResponseWriter, r *http.Request) {
	if h.reports == nil {
		httputil.Error(w, http.StatusServiceUnavailable, "reports are not configured")
		return
	}
	kind, err := export.ParseReportKind(chi.URLParam(r, "kind"))
	if err != nil {
		respondServiceError(w, err, "failed to render report")
		return
	}

	ctx := r.Context()
	f := respondentFilter(r)
	baseline, err := h.dashboard.Baseline(ctx, f)
	if err != nil {
		respondServiceError(w, err, "failed to render report")
		return
	}
	data := export.ReportData{GeneratedAt: h.now(), Filter: f, Baseline: *baseline}
	if kind == export.ReportComprehensive {
		followups, err := h.dashboard.Followups(ctx, f)
		if err != nil {
			respondServiceError(w, err, "failed to render report")
			return
		}
		data.Followups = followups
	}

	out, err := h.reports.Render(kind, data)
	if err != nil {
		respondServiceError(w, err, "failed to render report")
		return
	}
	if r.URL.Query().Get("download") != "" {
		httputil.Attachment(w, "text/markdown; charset=utf-8", kind.Filename(h.now()))
	} else {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(out))
}

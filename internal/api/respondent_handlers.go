package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/survey-tracker/internal/domain"
	"github.com/ignite/survey-tracker/internal/export"
	"github.com/ignite/survey-tracker/internal/pkg/httputil"
	"github.com/ignite/survey-tracker/internal/pkg/logger"
)

// ListRespondents returns a page of respondents, newest first.
//
//	GET /api/respondents?district=&gender=&group=&sub_county=&search=&page=&limit=
func (h *Handlers) ListRespondents(w http.ResponseWriter, r *http.Request) {
	params := ParsePagination(r, 50, 500)
	f := respondentFilter(r)
	f.Limit, f.Offset = params.Limit, params.Offset

	rows, total, err := h.respondents.List(r.Context(), f)
	if err != nil {
		respondServiceError(w, err, "failed to list respondents")
		return
	}
	httputil.OK(w, NewPaginatedResponse(rows, params, int64(total)))
}

// GetRespondent returns one respondent.
func (h *Handlers) GetRespondent(w http.ResponseWriter, r *http.Request) {
	rec, err := h.respondents.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "failed to load respondent")
		return
	}
	httputil.OK(w, rec)
}

// CreateRespondent stores a new baseline record.
func (h *Handlers) CreateRespondent(w http.ResponseWriter, r *http.Request) {
	var rec domain.Respondent
	if !httputil.Decode(w, r, &rec) {
		return
	}
	id, err := h.respondents.Create(r.Context(), &rec)
	if err != nil {
		respondServiceError(w, err, "failed to create respondent")
		return
	}
	rec.ID = id
	httputil.Created(w, rec)
}

// UpdateRespondent replaces a respondent's editable fields.
func (h *Handlers) UpdateRespondent(w http.ResponseWriter, r *http.Request) {
	var rec domain.Respondent
	if !httputil.Decode(w, r, &rec) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.respondents.Update(r.Context(), id, &rec); err != nil {
		respondServiceError(w, err, "failed to update respondent")
		return
	}
	rec.ID = id
	httputil.OK(w, rec)
}

// DeleteRespondent removes a respondent. Follow-ups are kept.
func (h *Handlers) DeleteRespondent(w http.ResponseWriter, r *http.Request) {
	if err := h.respondents.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err, "failed to delete respondent")
		return
	}
	httputil.NoContent(w)
}

// GetRespondentIndustries lists the industry ids linked to a respondent.
func (h *Handlers) GetRespondentIndustries(w http.ResponseWriter, r *http.Request) {
	ids, err := h.respondents.Industries(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "failed to load industries")
		return
	}
	httputil.OK(w, map[string]interface{}{"industry_ids": ids})
}

// SetRespondentIndustries replaces the respondent's industry links.
//
//	PUT /api/respondents/{id}/industries {"industry_ids": [...]}
func (h *Handlers) SetRespondentIndustries(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IndustryIDs []string `json:"industry_ids"`
	}
	if !httputil.Decode(w, r, &body) {
		return
	}
	if err := h.respondents.SetIndustries(r.Context(), chi.URLParam(r, "id"), body.IndustryIDs); err != nil {
		respondServiceError(w, err, "failed to update industries")
		return
	}
	httputil.NoContent(w)
}

// RespondentFollowups returns a respondent's visits, oldest first.
func (h *Handlers) RespondentFollowups(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.respondents.Get(r.Context(), id); err != nil {
		respondServiceError(w, err, "failed to load respondent")
		return
	}
	visits, err := h.followups.ForRespondent(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "failed to load follow-ups")
		return
	}
	httputil.OK(w, visits)
}

// ExportRespondents streams every matching respondent as CSV.
//
//	GET /api/respondents/export.csv
func (h *Handlers) ExportRespondents(w http.ResponseWriter, r *http.Request) {
	rows, err := h.respondents.All(r.Context(), respondentFilter(r))
	if err != nil {
		respondServiceError(w, err, "failed to export respondents")
		return
	}
	httputil.Attachment(w, "text/csv; charset=utf-8", export.RespondentsFilename(h.now()))
	if err := export.WriteRespondentsCSV(w, rows); err != nil {
		logger.Error("respondent export interrupted", "rows", len(rows), "error", err)
	}
}

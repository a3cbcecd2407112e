package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/survey-tracker/internal/pkg/httputil"
	"github.com/ignite/survey-tracker/internal/pkg/logger"
	"github.com/ignite/survey-tracker/internal/questionnaire"
)

// sessionView is what the questionnaire UI renders for a session.
type sessionView struct {
	ID           string                `json:"id"`
	RespondentID string                `json:"respondent_id"`
	ConductedBy  string                `json:"conducted_by"`
	Position     int                   `json:"position"`
	Total        int                   `json:"total"`
	Step         questionnaire.Step    `json:"step"`
	Answers      questionnaire.Answers `json:"answers"`
	Advanced     bool                  `json:"advanced,omitempty"`
}

func newSessionView(s *questionnaire.Session, m *questionnaire.Machine) sessionView {
	return sessionView{
		ID:           s.ID,
		RespondentID: s.RespondentID,
		ConductedBy:  s.ConductedBy,
		Position:     m.Position(),
		Total:        m.Len(),
		Step:         m.Current(),
		Answers:      m.Answers(),
	}
}

// QuestionnaireSteps lists the question order for a training answer.
//
//	GET /api/questionnaire/steps?attended=true
func (h *Handlers) QuestionnaireSteps(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("attended")
	if raw == "" {
		httputil.OK(w, questionnaire.StepsBeforeAttendance())
		return
	}
	attended, err := strconv.ParseBool(raw)
	if err != nil {
		httputil.BadRequest(w, "attended must be true or false")
		return
	}
	httputil.OK(w, questionnaire.BuildSteps(attended))
}

// CreateSession starts a follow-up questionnaire for a respondent.
//
//	POST /api/questionnaire/sessions {"respondent_id": "...", "conducted_by": "..."}
func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RespondentID string `json:"respondent_id"`
		ConductedBy  string `json:"conducted_by"`
	}
	if !httputil.Decode(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.ConductedBy) == "" {
		httputil.BadRequest(w, "conducted_by is required")
		return
	}
	if _, err := h.respondents.Get(r.Context(), body.RespondentID); err != nil {
		respondServiceError(w, err, "failed to load respondent")
		return
	}

	sess := questionnaire.NewSession(body.RespondentID, strings.TrimSpace(body.ConductedBy), h.now().UTC())
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		respondServiceError(w, err, "failed to start questionnaire")
		return
	}
	m, err := sess.Machine()
	if err != nil {
		respondServiceError(w, err, "failed to start questionnaire")
		return
	}
	httputil.Created(w, newSessionView(sess, m))
}

// GetSession returns the session's current question.
func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, m, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	httputil.OK(w, newSessionView(sess, m))
}

// DeleteSession abandons a questionnaire.
func (h *Handlers) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err, "failed to discard questionnaire")
		return
	}
	httputil.NoContent(w)
}

// AnswerSession records the answer to the current question.
//
//	POST /api/questionnaire/sessions/{id}/answer {"value": "..."} or {"values": [...]}
func (h *Handlers) AnswerSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Value  string   `json:"value"`
		Values []string `json:"values"`
	}
	if !httputil.Decode(w, r, &body) {
		return
	}
	values := body.Values
	if len(values) == 0 && body.Value != "" {
		values = []string{body.Value}
	}

	sess, m, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	advanced, err := m.Answer(values...)
	if err != nil {
		respondServiceError(w, err, "failed to record answer")
		return
	}
	if !h.saveSession(w, r, sess, m) {
		return
	}
	view := newSessionView(sess, m)
	view.Advanced = advanced
	httputil.OK(w, view)
}

// NextSession moves forward. On the last question it submits the follow-up;
// success deletes the session and answers 201 with the stored record. A
// failed submission leaves the session in place so it can be resubmitted.
func (h *Handlers) NextSession(w http.ResponseWriter, r *http.Request) {
	sess, m, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	outcome, err := m.Next()
	if err != nil {
		respondServiceError(w, err, "failed to advance questionnaire")
		return
	}
	if outcome == questionnaire.OutcomeSubmit {
		h.submit(w, r, sess, m)
		return
	}
	if !h.saveSession(w, r, sess, m) {
		return
	}
	view := newSessionView(sess, m)
	view.Advanced = true
	httputil.OK(w, view)
}

// BackSession returns to the previous question, keeping answers.
func (h *Handlers) BackSession(w http.ResponseWriter, r *http.Request) {
	sess, m, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	if err := m.Back(); err != nil {
		respondServiceError(w, err, "failed to go back")
		return
	}
	if !h.saveSession(w, r, sess, m) {
		return
	}
	httputil.OK(w, newSessionView(sess, m))
}

// submit stores the follow-up, then marks the session finished before
// removing it so a session that outlives a failed delete cannot be
// submitted twice.
func (h *Handlers) submit(w http.ResponseWriter, r *http.Request, sess *questionnaire.Session, m *questionnaire.Machine) {
	ctx := r.Context()
	rec, err := h.followups.Submit(ctx, sess)
	if err != nil {
		respondServiceError(w, err, "failed to submit follow-up")
		return
	}

	m.Finish()
	sess.State = m.Snapshot()
	if err := h.sessions.Save(ctx, sess); err != nil {
		logger.Warn("questionnaire session not marked finished", "session_id", sess.ID, "error", err)
	}
	if err := h.sessions.Delete(ctx, sess.ID); err != nil {
		logger.Warn("questionnaire session not removed after submit", "session_id", sess.ID, "error", err)
	}
	httputil.Created(w, rec)
}

func (h *Handlers) loadSession(w http.ResponseWriter, r *http.Request) (*questionnaire.Session, *questionnaire.Machine, bool) {
	sess, err := h.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "failed to load questionnaire")
		return nil, nil, false
	}
	m, err := sess.Machine()
	if err != nil {
		respondServiceError(w, err, "failed to load questionnaire")
		return nil, nil, false
	}
	return sess, m, true
}

func (h *Handlers) saveSession(w http.ResponseWriter, r *http.Request, sess *questionnaire.Session, m *questionnaire.Machine) bool {
	sess.State = m.Snapshot()
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		respondServiceError(w, err, "failed to save questionnaire")
		return false
	}
	return true
}

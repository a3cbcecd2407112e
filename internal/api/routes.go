package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignite/survey-tracker/internal/config"
	"github.com/ignite/survey-tracker/internal/domain"
	"github.com/ignite/survey-tracker/internal/service/dashboard"
)

// SetupRoutes configures all API routes. hc may be nil, in which case only
// the plain liveness route is served under /health.
func SetupRoutes(h *Handlers, hc *HealthChecker, corsCfg config.CORSConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsCfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", headerClientID, headerRequestSeq},
		ExposedHeaders:   []string{"Content-Disposition", headerRequestSeq},
		AllowCredentials: false,
		MaxAge:           corsCfg.MaxAge,
	}))

	if hc != nil {
		r.Get("/health", hc.HandleHealth)
		r.Get("/health/live", hc.HandleLiveness)
		r.Get("/health/ready", hc.HandleReadiness)
	} else {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	}

	r.Route("/api", func(r chi.Router) {
		// Respondents
		r.Route("/respondents", func(r chi.Router) {
			r.Get("/", h.ListRespondents)
			r.Post("/", h.CreateRespondent)
			r.Get("/export.csv", h.ExportRespondents)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetRespondent)
				r.Put("/", h.UpdateRespondent)
				r.Delete("/", h.DeleteRespondent)
				r.Get("/industries", h.GetRespondentIndustries)
				r.Put("/industries", h.SetRespondentIndustries)
				r.Get("/followups", h.RespondentFollowups)
			})
		})

		// Follow-up history (records are immutable)
		r.Route("/followups", func(r chi.Router) {
			r.Get("/", h.ListFollowups)
			r.Get("/stats", h.FollowupStats)
			r.Get("/export.csv", h.ExportFollowups)
		})

		// Follow-up questionnaire
		r.Route("/questionnaire", func(r chi.Router) {
			r.Get("/steps", h.QuestionnaireSteps)
			r.Post("/sessions", h.CreateSession)
			r.Route("/sessions/{id}", func(r chi.Router) {
				r.Get("/", h.GetSession)
				r.Delete("/", h.DeleteSession)
				r.Post("/answer", h.AnswerSession)
				r.Post("/next", h.NextSession)
				r.Post("/back", h.BackSession)
			})
		})

		// Lookup tables
		for _, kind := range []domain.ReferenceKind{domain.KindDistrict, domain.KindGroup, domain.KindIndustry} {
			r.Route("/"+string(kind), func(r chi.Router) {
				r.Get("/", h.ListReferences(kind))
				r.Post("/", h.CreateReference(kind))
				r.Put("/{id}", h.UpdateReference(kind))
				r.Delete("/{id}", h.DeleteReference(kind))
			})
		}
		r.Route("/locations", func(r chi.Router) {
			r.Get("/", h.ListLocations)
			r.Post("/", h.CreateLocation)
			r.Put("/{id}", h.UpdateLocation)
			r.Delete("/{id}", h.DeleteLocation)
		})

		// Dashboard
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/baseline", h.Analytics(dashboard.ViewBaseline))
			r.Get("/followups", h.Analytics(dashboard.ViewFollowups))
			r.Get("/comparison", h.Analytics(dashboard.ViewComparison))
		})
		r.Get("/reports/{kind}", h.Report)

		r.Post("/import", h.ImportRespondents)
	})

	return r
}

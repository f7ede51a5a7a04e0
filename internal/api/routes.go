package api

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/quantumreach/outreach-server/internal/auth"
)

// SetupRoutes configures all API routes.
func SetupRoutes(h *Handlers, authManager *auth.Manager) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	// CORS - allow credentials for the session cookie
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://app.quantumreach.io", "http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Organization-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health checks (no auth required)
	r.Get("/health", h.HealthCheck)
	r.Get("/health/ready", h.HandleReadiness)

	// Auth routes (no auth required)
	if authManager != nil {
		r.Get("/auth/login", authManager.HandleLogin)
		r.Get("/auth/callback", authManager.HandleCallback)
		r.Get("/auth/logout", authManager.HandleLogout)
		r.Get("/auth/user", authManager.HandleUserInfo)
	}

	devMode := os.Getenv("DEV_MODE") == "true" || os.Getenv("ENVIRONMENT") == "development"

	r.Route("/api", func(r chi.Router) {
		if authManager != nil && !devMode {
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					if !authManager.IsAuthenticated(req) {
						w.Header().Set("Content-Type", "application/json")
						w.WriteHeader(http.StatusUnauthorized)
						w.Write([]byte(`{"error":"unauthorized"}`))
						return
					}
					next.ServeHTTP(w, req)
				})
			})
		}

		// Client dashboard analytics
		r.Get("/analytics/overview", h.GetOverview)
		r.Get("/analytics/trend", h.GetTrend)
		r.Get("/analytics/top-campaigns", h.GetTopCampaigns)

		// ROI calculator
		r.Post("/roi/project", h.ProjectROI)

		// External automation engines
		r.Get("/engines", h.GetEngines)
		r.Post("/engines/refresh", h.RefreshEngines)
		r.Post("/engines/{name}/trigger", h.TriggerEngine)

		// Campaign builder wizard
		r.Route("/campaigns/drafts", func(r chi.Router) {
			r.Post("/", h.CreateDraft)
			r.Get("/{draftID}", h.GetDraft)
			r.Put("/{draftID}/details", h.UpdateDraftDetails)
			r.Put("/{draftID}/leads", h.SetDraftLeads)
			r.Post("/{draftID}/generated", h.MarkDraftGenerated)
			r.Post("/{draftID}/advance", h.AdvanceDraft)
			r.Post("/{draftID}/back", h.BackDraft)
		})

		// Admin console
		r.Route("/admin", func(r chi.Router) {
			r.Get("/client-performance", h.GetClientPerformance)
			r.Get("/organizations", h.GetOrganizations)
			r.Get("/organizations/{orgID}", h.GetOrganization)
			r.Get("/permissions/{userID}", h.GetPermissions)
			r.Put("/permissions/{userID}", h.UpdatePermissions)
		})
	})

	return r
}

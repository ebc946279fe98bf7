package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/botmitra/whatsbiz-platform/internal/business"
	"github.com/botmitra/whatsbiz-platform/internal/dashboard"
	httpmiddleware "github.com/botmitra/whatsbiz-platform/internal/http/middleware"
	"github.com/botmitra/whatsbiz-platform/internal/leads"
	"github.com/botmitra/whatsbiz-platform/internal/payments"
	"github.com/botmitra/whatsbiz-platform/internal/sheets"
	"github.com/botmitra/whatsbiz-platform/internal/webchat"
	"github.com/botmitra/whatsbiz-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	BusinessHandler    *business.Handler
	LeadsHandler       *leads.Handler
	DashboardHandler   *dashboard.Handler
	SheetsHandler      *sheets.Handler
	PaymentsHandler    *payments.Handler
	WebchatHandler     *webchat.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", handleHealth)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.WebchatHandler != nil {
		r.Get("/ws/chat", cfg.WebchatHandler.HandleWebSocket)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.BusinessHandler != nil {
			api.Route("/business", func(r chi.Router) {
				r.Get("/profile", cfg.BusinessHandler.GetProfile)
				r.Put("/profile", cfg.BusinessHandler.UpdateProfile)
				r.Post("/faqs/suggest", cfg.BusinessHandler.SuggestFAQs)
			})
		}

		if cfg.LeadsHandler != nil {
			api.Route("/leads", func(r chi.Router) {
				r.Get("/", cfg.LeadsHandler.ListLeads)
				r.Post("/", cfg.LeadsHandler.CreateLead)
				r.Get("/export", cfg.LeadsHandler.ExportCSV)
				r.Patch("/{leadID}/status", cfg.LeadsHandler.UpdateStatus)
			})
		}

		if cfg.DashboardHandler != nil {
			api.Get("/dashboard/stats", cfg.DashboardHandler.GetStats)
		}

		if cfg.SheetsHandler != nil {
			api.Route("/sheets/sync", func(r chi.Router) {
				r.Post("/", cfg.SheetsHandler.StartSync)
				r.Get("/", cfg.SheetsHandler.GetStatus)
			})
		}

		if cfg.PaymentsHandler != nil {
			api.Route("/payments", func(r chi.Router) {
				r.Get("/plans", cfg.PaymentsHandler.ListPlans)
				r.Post("/checkout", cfg.PaymentsHandler.CreateOrder)
				r.Get("/orders/{orderID}", cfg.PaymentsHandler.GetOrder)
				r.Post("/orders/{orderID}/complete", cfg.PaymentsHandler.CompleteOrder)
			})
		}

		if cfg.WebchatHandler != nil {
			api.Route("/chat", func(r chi.Router) {
				r.Post("/messages", cfg.WebchatHandler.HandleMessage)
				r.Get("/history", cfg.WebchatHandler.HandleHistory)
				r.Get("/sessions", cfg.WebchatHandler.HandleSessions)
			})
		}
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

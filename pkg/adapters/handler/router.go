package handler

import (
	"encoding/json"
	"net/http"

	"github.com/wadjakorntonsri/go-job-board/pkg/config"
	"github.com/wadjakorntonsri/go-job-board/pkg/ports"
)

// Deps are the services the router dispatches to
type Deps struct {
	Jobs       ports.JobService
	Admin      ports.AdminService
	Import     ports.ImportService
	Newsletter ports.NewsletterService
	Sheets     ports.SheetCodec
	Auth       ports.Authenticator
	Sessions   Sessions
}

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, deps Deps) http.Handler {
	// Initialize Handlers
	h := NewHTTPHandler(deps.Jobs, deps.Newsletter, cfg.BaseURL)
	ah := NewAdminHandler(deps.Admin, deps.Import, deps.Sheets)
	authHandler := NewAuthHandler(cfg, deps.Sessions)

	// Initialize Middleware
	mw := NewMiddleware(deps.Auth)

	// Setup Router
	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	})
	mux.HandleFunc("GET /jobs", h.List)
	mux.HandleFunc("POST /jobs", h.Submit)
	mux.HandleFunc("GET /jobs/{slug}", h.Get)
	mux.HandleFunc("POST /analytics/view", h.TrackView)
	mux.HandleFunc("POST /analytics/click", h.TrackClick)
	mux.HandleFunc("POST /newsletter", h.Subscribe)
	mux.HandleFunc("GET /sitemap.xml", h.Sitemap)

	// Admin session
	mux.HandleFunc("POST /admin/auth", authHandler.Login)
	mux.HandleFunc("DELETE /admin/auth", authHandler.Logout)
	mux.HandleFunc("GET /admin/auth/google/login", authHandler.GoogleLogin)
	mux.HandleFunc("GET /admin/auth/google/callback", authHandler.GoogleCallback)

	// Protected Routes
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("GET /admin/jobs", ah.List)
	protectedMux.HandleFunc("POST /admin/jobs", ah.Create)
	protectedMux.HandleFunc("PATCH /admin/jobs", ah.Moderate)
	protectedMux.HandleFunc("DELETE /admin/jobs", ah.Delete)
	protectedMux.HandleFunc("GET /admin/jobs/template", ah.Template)
	protectedMux.HandleFunc("POST /admin/jobs/upload", ah.Upload)

	// protectedMux holds the full paths, so one prefix dispatches them all
	mux.Handle("/admin/jobs", mw.AuthMiddleware(protectedMux))
	mux.Handle("/admin/jobs/", mw.AuthMiddleware(protectedMux))

	return RequestID(Logging(mux))
}

// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"

	"hydration/internal/app"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// OIDCConfig carries the SSO collaborators. Enabled is false when no issuer
// is configured, which disables the SSO routes.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config *oauth2.Config
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	intake     *app.IntakeService
	authSvc    *app.AuthService
	oidcConfig OIDCConfig
	logger     *zap.Logger
	validate   *validator.Validate
}

// New creates a Server wired to the given application services.
func New(intake *app.IntakeService, authSvc *app.AuthService, oidcConfig OIDCConfig, logger *zap.Logger) *Server {
	return &Server{
		intake:     intake,
		authSvc:    authSvc,
		oidcConfig: oidcConfig,
		logger:     logger,
		validate:   validator.New(),
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.loggingMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		})

		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)
		r.Get("/auth/config", s.handleAuthConfig)
		r.Get("/auth/sso/login", s.handleSSOLogin)
		r.Get("/auth/sso/callback", s.handleSSOCallback)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/auth/me", s.handleMe)

			r.Post("/records", s.handleCreateRecord)
			r.Get("/records", s.handleListRecords)
			r.Get("/records/{id}", s.handleGetRecord)
			r.Put("/records/{id}", s.handleUpdateRecord)
			r.Delete("/records/{id}", s.handleDeleteRecord)
		})
	})

	return r
}

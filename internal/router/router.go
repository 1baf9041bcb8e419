// Package router sets up all HTTP routes and middleware chains for the
// API server. It organizes routes into public and authenticated groups
// with appropriate middleware stacks.
package router

import (
	"github.com/go-chi/chi/v5"

	"postpilot/internal/handlers"
	"postpilot/internal/middleware"
	"postpilot/internal/session"
)

// Deps carries the handler groups and shared middleware the router wires up.
type Deps struct {
	Sessions   *session.Store
	AILimiter  *middleware.RateLimiter
	Auth       *handlers.Auth
	Write      *handlers.Write
	Thumbnails *handlers.Thumbnails
	Keywords   *handlers.Keywords
	Contents   *handlers.Contents
	Settings   *handlers.Settings
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.LoadSession(d.Sessions))

	r.Route("/api", func(r chi.Router) {
		// Health — no auth.
		r.Get("/health", d.Write.Health)
		r.Get("/write/health", d.Write.Health)

		// Auth — accessible without a session.
		r.Post("/auth/signup", d.Auth.Signup)
		r.Post("/auth/login", d.Auth.Login)
		r.Post("/auth/reset-password", d.Auth.ResetPassword)

		// Session-holding routes that must work before 2FA completes.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/auth/logout", d.Auth.Logout)
			r.Post("/auth/2fa/setup", d.Auth.TwoFASetup)
			r.Post("/auth/2fa/verify", d.Auth.TwoFAVerify)
		})

		// Fully authenticated area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/auth/me", d.Auth.Me)
			r.Put("/auth/password", d.Auth.ChangePassword)
			r.Put("/auth/profile", d.Auth.UpdateProfile)
			r.Get("/keywords/history", d.Keywords.History)

			// AI routes — rate-limited, they burn gateway quota.
			r.Group(func(r chi.Router) {
				r.Use(d.AILimiter.Middleware)

				r.Post("/write", d.Write.Run)
				r.Post("/write/refine", d.Write.Refine)
				r.Post("/write/validate", d.Write.Validate)
				r.Post("/write/fix", d.Write.Fix)
				r.Post("/thumbnails", d.Thumbnails.Generate)
				r.Post("/keywords/analyze", d.Keywords.Analyze)
				r.Post("/keywords/top", d.Keywords.Top)
			})

			// Content history and publishing.
			r.Route("/contents", func(r chi.Router) {
				r.Get("/", d.Contents.List)
				r.Post("/", d.Contents.Create)
				r.Get("/{id}", d.Contents.Get)
				r.Delete("/{id}", d.Contents.Delete)
				r.Post("/{id}/thumbnail", d.Contents.SetThumbnail)
				r.Post("/{id}/publish", d.Contents.Publish)
			})

			// WordPress connection settings.
			r.Get("/settings/wordpress", d.Settings.GetWordPress)
			r.Put("/settings/wordpress", d.Settings.PutWordPress)
			r.Delete("/settings/wordpress", d.Settings.DeleteWordPress)
		})
	})

	return r
}

// Package router sets up all HTTP routes and middleware chains for the
// InkPress API. Reads are public; writes sit behind authentication, 2FA,
// and the role policy.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"inkpress/internal/handlers"
	"inkpress/internal/middleware"
	"inkpress/internal/session"
)

const (
	// loginLimit bounds login attempts per IP per window.
	loginLimit  = 10
	loginWindow = time.Minute

	// commentLimit bounds anonymous comment submissions per IP per window.
	commentLimit  = 5
	commentWindow = time.Minute
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, auth *handlers.Auth, categories *handlers.Categories, tags *handlers.Tags, articles *handlers.Articles, comments *handlers.Comments, images *handlers.Images) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.LoadSession(sessionStore))

	loginLimiter := middleware.NewRateLimiter(loginLimit, loginWindow)
	commentLimiter := middleware.NewRateLimiter(commentLimit, commentWindow)

	// Health check.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Authentication.
		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimiter.Middleware).Post("/login", auth.Login)
			r.Post("/logout", auth.Logout)

			// TOTP flow needs a session but not completed 2FA.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/2fa/setup", auth.TwoFASetup)
				r.Post("/2fa/verify", auth.TwoFAVerify)
				r.Get("/me", auth.Me)
			})
		})

		// staff wraps write endpoints: authenticated, 2FA-verified,
		// role-gated.
		staff := func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)
			r.Use(middleware.RequireStaff)
		}

		// Categories.
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categories.List)
			r.Get("/{id}", categories.Get)
			r.Get("/{id}/subcategories", categories.Subcategories)
			r.Get("/{id}/articles", categories.Articles)

			r.Group(func(r chi.Router) {
				staff(r)
				r.Post("/", categories.Create)
				r.Put("/{id}", categories.Update)
				r.Delete("/{id}", categories.Delete)
			})
		})

		// Tags.
		r.Route("/tags", func(r chi.Router) {
			r.Get("/", tags.List)
			r.Get("/{id}", tags.Get)

			r.Group(func(r chi.Router) {
				staff(r)
				r.Post("/", tags.Create)
				r.Put("/{id}", tags.Update)
				r.Delete("/{id}", tags.Delete)
			})
		})

		// Articles.
		r.Route("/articles", func(r chi.Router) {
			r.Get("/", articles.List)
			r.Get("/slug/{slug}", articles.GetBySlug)
			r.Get("/{id}", articles.Get)
			r.Get("/{id}/comments", comments.ListByArticle)
			r.Post("/{id}/view", articles.View)
			r.Post("/{id}/like", articles.Like)

			r.Group(func(r chi.Router) {
				staff(r)
				r.Post("/", articles.Create)
				r.Put("/{id}", articles.Update)
				r.Delete("/{id}", articles.Delete)
				r.Post("/{id}/images", images.Upload)
			})
		})

		// Curated strips.
		r.Get("/top-stories", articles.TopStories)
		r.Get("/recommended", articles.Recommended)

		// Comments.
		r.Route("/comments", func(r chi.Router) {
			r.Get("/", comments.List)
			r.With(commentLimiter.Middleware).Post("/", comments.Create)
			r.Get("/{id}", comments.Get)

			r.Group(func(r chi.Router) {
				staff(r)
				r.Get("/pending", comments.Pending)
				r.Post("/approve", comments.Approve)
				r.Delete("/{id}", comments.Delete)
			})
		})

		// Images.
		r.Route("/images", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				staff(r)
				r.Post("/{id}/thumbnail", images.RebuildThumb)
				r.Delete("/{id}", images.Delete)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

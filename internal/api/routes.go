package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all API routes. Public content and lead-capture
// endpoints sit under /api; everything under /api/admin requires a valid
// admin session.
func SetupRoutes(h *Handlers, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	// CORS - allow credentials for the admin session cookie
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (no auth required)
	r.Get("/health", h.HealthCheck)

	// Auth routes (no auth required)
	r.Post("/auth/login", h.HandleLogin)
	r.Post("/auth/logout", h.HandleLogout)

	r.Route("/api", func(r chi.Router) {
		// Lead capture
		r.Post("/leads/contact", h.SubmitContact)
		r.Post("/leads/resource", h.SubmitResourceRequest)

		// Published content for the public site
		r.Route("/content", func(r chi.Router) {
			r.Get("/pages/{slug}", h.GetPublishedPage)
			r.Get("/posts", h.ListPublishedPosts)
			r.Get("/posts/{slug}", h.GetPublishedPost)
			r.Get("/menus/{name}", h.GetMenu)
			r.Get("/testimonials", h.ListPublishedTestimonials)
			r.Get("/resources", h.ListPublishedResources)
			r.Get("/settings", h.GetSettings)
		})

		// Admin routes (protected by session middleware)
		r.Route("/admin", func(r chi.Router) {
			r.Use(h.RequireAdmin)

			r.Get("/me", h.HandleMe)

			r.Get("/leads", h.ListLeads)
			r.Get("/leads/{id}", h.GetLead)

			r.Route("/pages", func(r chi.Router) {
				r.Get("/", h.ListPages)
				r.Post("/", h.CreatePage)
				r.Get("/{id}", h.GetPage)
				r.Put("/{id}", h.UpdatePage)
				r.Delete("/{id}", h.DeletePage)
			})

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", h.ListPosts)
				r.Post("/", h.CreatePost)
				r.Post("/import-rss", h.ImportRSS)
				r.Get("/{id}", h.GetPost)
				r.Put("/{id}", h.UpdatePost)
				r.Delete("/{id}", h.DeletePost)
			})

			r.Route("/testimonials", func(r chi.Router) {
				r.Get("/", h.ListTestimonials)
				r.Post("/", h.CreateTestimonial)
				r.Get("/{id}", h.GetTestimonial)
				r.Put("/{id}", h.UpdateTestimonial)
				r.Delete("/{id}", h.DeleteTestimonial)
			})

			r.Route("/resources", func(r chi.Router) {
				r.Get("/", h.ListResources)
				r.Post("/", h.CreateResource)
				r.Get("/{id}", h.GetResource)
				r.Put("/{id}", h.UpdateResource)
				r.Delete("/{id}", h.DeleteResource)
				r.Post("/{id}/file", h.UploadResourceFile)
			})

			r.Route("/menus", func(r chi.Router) {
				r.Get("/", h.ListMenus)
				r.Put("/{name}", h.UpsertMenu)
				r.Delete("/{name}", h.DeleteMenu)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", h.GetAllSettings)
				r.Put("/", h.UpdateSettings)
				r.Delete("/{key}", h.DeleteSetting)
			})
		})
	})

	return r
}

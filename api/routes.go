package api

import (
	"github.com/go-chi/chi/v5"
)

// setupPublicRoutes registers endpoints reachable without a token
func setupPublicRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/health", handlers.healthHandler.getHealth())

	r.Post("/auth/signup", handlers.authHandler.signup())
	r.Post("/auth/login", handlers.authHandler.login())

	r.Get("/tags", handlers.projectHandler.getAllTags())
	r.Post("/contact", handlers.contactHandler.submitContact())

	r.Get("/chatbot", handlers.chatbotHandler.getOverview())
	r.Post("/chatbot/ask", handlers.chatbotHandler.ask())
	r.Get("/chatbot/{category}", handlers.chatbotHandler.getCategory())
}

// setupAdminRoutes registers endpoints that require a bearer token
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)

		r.Post("/auth/validate", handlers.authHandler.validate())

		// Admin Handler endpoints
		r.Get("/auth/admins", handlers.adminHandler.getAllAdmins())
		r.Post("/auth/admins", handlers.adminHandler.createAdmin())
		r.Patch("/auth/admins/{adminID}", handlers.adminHandler.updateAdmin())
		r.Delete("/auth/admins/{adminID}", handlers.adminHandler.deleteAdmin())

		// Project Handler endpoints
		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
		r.Post("/projects", handlers.projectHandler.createProject())
		r.Patch("/projects/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/projects/{projectID}", handlers.projectHandler.deleteProject())
	})
}

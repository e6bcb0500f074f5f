package api

import (
	"time"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, tokens tokenManager, hasher passwordHasher, allowSignup bool, startupTime time.Time) *routeHandlers {
	db := deps.Database
	return &routeHandlers{
		authHandler:    newAuthHandler(db.AdminRepo(), tokens, hasher, allowSignup),
		adminHandler:   newAdminHandler(db.AdminRepo(), hasher),
		projectHandler: newProjectHandler(db.ProjectRepo(), db.ProjectTagRepo(), deps.Images),
		contactHandler: newContactHandler(deps.Contact),
		chatbotHandler: newChatbotHandler(deps.Chatbot),
		healthHandler:  newHealthHandler(startupTime),
	}
}

package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler    authHandler
	adminHandler   adminHandler
	projectHandler projectHandler
	contactHandler contactHandler
	chatbotHandler chatbotHandler
	healthHandler  healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"title is required"`
	Message string `json:"message" example:"title is required"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// Credentials is the body of signup, login and admin creation
type Credentials struct {
	Email    string `json:"email" example:"me@example.com"`
	Password string `json:"password" example:"correct horse battery staple"`
}

// TokenResponse carries a freshly issued bearer token
type TokenResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

// AdminUpdateRequest changes an admin's email, password or both
type AdminUpdateRequest struct {
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// StatusResponse is returned by endpoints without a resource body
type StatusResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"project deleted successfully"`
}

// HealthResponse is returned by GET /api/health
type HealthResponse struct {
	Status    string `json:"status" example:"ok"`
	Uptime    string `json:"uptime" example:"1h2m3s"`
	StartedAt string `json:"startedAt"`
}

// ChatbotOverview lists the greeting and category names
type ChatbotOverview struct {
	Greeting   string   `json:"greeting"`
	Categories []string `json:"categories"`
}

// AskRequest is the body of POST /api/chatbot/ask
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse answers an AskRequest
type AskResponse struct {
	Answer string `json:"answer"`
}

package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio/database"
	"github.com/rpupo63/portfolio/errs"
	"github.com/rpupo63/portfolio/models"
)

type authHandler struct {
	responder   Responder
	logger      zerolog.Logger
	adminRepo   *database.AdminRepo
	tokens      tokenManager
	hasher      passwordHasher
	allowSignup bool
}

func newAuthHandler(adminRepo *database.AdminRepo, tokens tokenManager, hasher passwordHasher, allowSignup bool) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		adminRepo:   adminRepo,
		tokens:      tokens,
		hasher:      hasher,
		allowSignup: allowSignup,
	}
}

// signup creates an admin account and returns a token
// @Summary Sign up
// @Description Creates the first admin account. Later signups require ALLOW_SIGNUP=true.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body Credentials true "Email and password"
// @Success 201 {object} TokenResponse "Token for the new admin"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid email or password"
// @Failure 403 {object} ErrorResponse "Forbidden - Signup is closed"
// @Failure 409 {object} ErrorResponse "Conflict - Email already registered"
// @Router /api/auth/signup [post]
func (h authHandler) signup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		if err := h.responder.DecodeJSON(w, r, &creds); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := normalizeCredentials(&creds); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if !h.allowSignup {
			count, err := h.adminRepo.Count()
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			if count > 0 {
				h.responder.WriteError(w, errs.NewSignupClosedError())
				return
			}
		}

		hash, err := h.hasher.hash(creds.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		admin := models.Admin{Email: creds.Email, PasswordHash: hash}
		if err := h.adminRepo.Add(&admin); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		token, err := h.tokens.issue(admin.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("adminId", admin.ID.String()).Msg("Admin signed up")
		h.responder.WriteJSONStatus(w, http.StatusCreated, TokenResponse{Token: token, Message: "signup successful"})
	}
}

// login exchanges credentials for a token
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body Credentials true "Email and password"
// @Success 200 {object} TokenResponse "Bearer token"
// @Failure 401 {object} ErrorResponse "Unauthorized - Invalid email or password"
// @Router /api/auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		if err := h.responder.DecodeJSON(w, r, &creds); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		admin, err := h.adminRepo.FindByEmail(creds.Email)
		if err != nil {
			if errs.IsNotFound(err) {
				h.responder.WriteError(w, errs.NewInvalidCredentialsError())
				return
			}
			h.responder.WriteError(w, err)
			return
		}

		if !h.hasher.matches(admin.PasswordHash, creds.Password) {
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}

		token, err := h.tokens.issue(admin.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, TokenResponse{Token: token})
	}
}

// validate reports whether the bearer token is still usable
// @Summary Validate token
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]any "Token is valid"
// @Failure 401 {object} ErrorResponse "Unauthorized - Token missing, expired or invalid"
// @Router /api/auth/validate [post]
func (h authHandler) validate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Authentication handled by middleware
		adminID, err := ctxGetAdminID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"valid":   true,
			"adminId": adminID,
		})
	}
}

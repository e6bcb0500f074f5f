package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio/database"
	"github.com/rpupo63/portfolio/errs"
	"github.com/rpupo63/portfolio/models"
)

type adminHandler struct {
	responder Responder
	logger    zerolog.Logger
	adminRepo *database.AdminRepo
	hasher    passwordHasher
}

func newAdminHandler(adminRepo *database.AdminRepo, hasher passwordHasher) adminHandler {
	logger := log.With().Str("handlerName", "adminHandler").Logger()

	return adminHandler{
		responder: NewResponder(logger),
		logger:    logger,
		adminRepo: adminRepo,
		hasher:    hasher,
	}
}

func (h adminHandler) adminIDParam(r *http.Request) (uuid.UUID, error) {
	adminIDStr := chi.URLParam(r, "adminID")
	if adminIDStr == "" {
		return uuid.Nil, errs.NewBadRequestError("missing adminID")
	}
	adminID, err := uuid.Parse(adminIDStr)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid adminID")
	}
	return adminID, nil
}

// @Summary List admins
// @Tags Admins
// @Produce json
// @Success 200 {array} models.Admin "All admins"
// @Router /api/auth/admins [get]
func (h adminHandler) getAllAdmins() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admins, err := h.adminRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if admins == nil {
			admins = []*models.Admin{}
		}
		h.responder.WriteJSON(w, admins)
	}
}

// @Summary Create admin
// @Tags Admins
// @Accept json
// @Produce json
// @Param credentials body Credentials true "Email and password"
// @Success 201 {object} models.Admin "Created admin"
// @Failure 409 {object} ErrorResponse "Conflict - Email already registered"
// @Router /api/auth/admins [post]
func (h adminHandler) createAdmin() http.HandlerFunc {
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

		h.responder.WriteJSONStatus(w, http.StatusCreated, admin)
	}
}

// @Summary Update admin
// @Tags Admins
// @Accept json
// @Produce json
// @Param adminID path string true "Admin ID" format(uuid)
// @Param update body AdminUpdateRequest true "Fields to change"
// @Success 200 {object} models.Admin "Updated admin"
// @Failure 404 {object} ErrorResponse "Not Found - Admin not found"
// @Router /api/auth/admins/{adminID} [patch]
func (h adminHandler) updateAdmin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := h.adminIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var update AdminUpdateRequest
		if err := h.responder.DecodeJSON(w, r, &update); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		admin, err := h.adminRepo.FindByID(adminID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if update.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*update.Email))
			if err := validateEmail(email); err != nil {
				h.responder.WriteError(w, err)
				return
			}
			admin.Email = email
		}
		if update.Password != nil {
			if err := validatePassword(*update.Password); err != nil {
				h.responder.WriteError(w, err)
				return
			}
			hash, err := h.hasher.hash(*update.Password)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			admin.PasswordHash = hash
		}

		if err := h.adminRepo.Update(admin); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		updated, err := h.adminRepo.FindByID(adminID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, updated)
	}
}

// @Summary Delete admin
// @Description Deletes an admin. The last remaining admin cannot be deleted.
// @Tags Admins
// @Param adminID path string true "Admin ID" format(uuid)
// @Success 200 {object} StatusResponse "Success message"
// @Failure 404 {object} ErrorResponse "Not Found - Admin not found"
// @Failure 409 {object} ErrorResponse "Conflict - Last admin"
// @Router /api/auth/admins/{adminID} [delete]
func (h adminHandler) deleteAdmin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := h.adminIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.adminRepo.FindByID(adminID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		count, err := h.adminRepo.Count()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if count <= 1 {
			h.responder.WriteError(w, errs.NewConflictError("cannot delete the last admin"))
			return
		}

		if err := h.adminRepo.Delete(adminID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("adminId", adminID.String()).Msg("Admin deleted")
		h.responder.WriteJSON(w, StatusResponse{Status: "success", Message: "admin deleted successfully"})
	}
}

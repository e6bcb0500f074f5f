package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio/errs"
	"github.com/rpupo63/portfolio/services"
)

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	contact   *services.ContactService
}

func newContactHandler(contact *services.ContactService) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		contact:   contact,
	}
}

// submitContact forwards a contact form submission to the site owner
// @Summary Send contact message
// @Tags Contact
// @Accept json
// @Produce json
// @Param message body services.ContactMessage true "Contact form"
// @Success 200 {object} StatusResponse "Message sent"
// @Failure 400 {object} ErrorResponse "Bad Request - Missing or invalid field"
// @Failure 503 {object} ErrorResponse "Service Unavailable - No notifier delivered the message"
// @Router /api/contact [post]
func (h contactHandler) submitContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.contact == nil {
			h.responder.WriteError(w, errs.NewServiceUnavailableError("contact", errors.New("contact delivery is not configured")))
			return
		}

		var msg services.ContactMessage
		if err := h.responder.DecodeJSON(w, r, &msg); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.contact.Submit(r.Context(), msg); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("from", msg.Email).Msg("Contact message delivered")
		h.responder.WriteJSON(w, StatusResponse{Status: "success", Message: "message sent"})
	}
}

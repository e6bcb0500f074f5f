package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio/errs"
)

const maxContactMessageLength = 5000

// ContactMessage is one submission of the public contact form.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ContactNotifier delivers a contact message to the site owner.
type ContactNotifier interface {
	Notify(ctx context.Context, msg ContactMessage) error
	Name() string
}

type ContactService struct {
	notifiers []ContactNotifier
}

func NewContactService(notifiers ...ContactNotifier) *ContactService {
	return &ContactService{notifiers: notifiers}
}

// Validate trims msg in place and reports the first invalid field.
func (msg *ContactMessage) Validate() error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Message = strings.TrimSpace(msg.Message)

	switch {
	case msg.Name == "":
		return errs.NewMissingRequiredFieldError("name")
	case msg.Email == "":
		return errs.NewMissingRequiredFieldError("email")
	case msg.Message == "":
		return errs.NewMissingRequiredFieldError("message")
	}
	if _, err := mail.ParseAddress(msg.Email); err != nil {
		return errs.NewInvalidFieldError("email", "must be a valid email address")
	}
	if len(msg.Message) > maxContactMessageLength {
		return errs.NewInvalidFieldError("message", "is too long")
	}
	return nil
}

// Submit validates msg and hands it to every notifier. It fails only when
// no notifier delivered the message.
func (s *ContactService) Submit(ctx context.Context, msg ContactMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if len(s.notifiers) == 0 {
		return errs.NewServiceUnavailableError("contact", errors.New("no notifier configured"))
	}

	var failures []error
	for _, notifier := range s.notifiers {
		if err := notifier.Notify(ctx, msg); err != nil {
			log.Error().Err(err).Str("notifier", notifier.Name()).Msg("Failed to deliver contact message")
			failures = append(failures, err)
		}
	}
	if len(failures) == len(s.notifiers) {
		return errs.NewServiceUnavailableError("contact", errors.Join(failures...))
	}
	return nil
}

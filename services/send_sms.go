package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/rpupo63/portfolio/config"
	"github.com/rpupo63/portfolio/errs"
)

const maxSMSLength = 320

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSNotifier texts contact form submissions through Twilio.
type SMSNotifier struct {
	api  messageCreator
	from string
	to   string
}

// NewSMSNotifierFromConfig reads TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN,
// TWILIO_FROM_NUMBER and TWILIO_TO_NUMBER.
func NewSMSNotifierFromConfig(c map[string]string) (*SMSNotifier, error) {
	for _, key := range []string{"TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_FROM_NUMBER", "TWILIO_TO_NUMBER"} {
		if config.GetString(c, key, "") == "" {
			return nil, errs.NewEnvironmentVariableError(key)
		}
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: config.GetString(c, "TWILIO_ACCOUNT_SID", ""),
		Password: config.GetString(c, "TWILIO_AUTH_TOKEN", ""),
	})
	return &SMSNotifier{
		api:  client.Api,
		from: config.GetString(c, "TWILIO_FROM_NUMBER", ""),
		to:   config.GetString(c, "TWILIO_TO_NUMBER", ""),
	}, nil
}

func (s *SMSNotifier) Notify(ctx context.Context, msg ContactMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body := fmt.Sprintf("Portfolio contact from %s (%s): %s", msg.Name, msg.Email, msg.Message)
	if runes := []rune(body); len(runes) > maxSMSLength {
		body = string(runes[:maxSMSLength-1]) + "…"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(s.to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return errs.NewServiceUnavailableError("twilio", err)
	}
	if resp.Sid != nil {
		log.Info().Str("messageSid", *resp.Sid).Msg("Successfully sent SMS via Twilio")
	}
	return nil
}

func (s *SMSNotifier) Name() string {
	return "sms"
}

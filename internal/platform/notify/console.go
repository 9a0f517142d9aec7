package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// ConsoleEmailSender logs email instead of sending it. Used when the email
// channel is disabled in development.
type ConsoleEmailSender struct {
	Logger zerolog.Logger
}

func (s *ConsoleEmailSender) SendEmail(ctx context.Context, msg EmailMessage) error {
	s.Logger.Info().
		Str("to", msg.To).
		Strs("cc", msg.CC).
		Str("subject", msg.Subject).
		Msg("email (console mode)")
	return nil
}

// ConsoleSMSSender logs SMS instead of sending it.
type ConsoleSMSSender struct {
	Logger zerolog.Logger
}

func (s *ConsoleSMSSender) SendSMS(ctx context.Context, to, body string) error {
	s.Logger.Info().
		Str("to", to).
		Str("body", body).
		Msg("sms (console mode)")
	return nil
}

// Package notify provides the outbound email and SMS channels used by the
// enquiry pipeline, plus the retry executor shared by both.
package notify

import "context"

// EmailMessage is a single outbound email. HTMLBody is optional; when set the
// message is sent as multipart/alternative with the text body as fallback.
type EmailMessage struct {
	To       string
	CC       []string
	Subject  string
	TextBody string
	HTMLBody string
}

type EmailSender interface {
	SendEmail(ctx context.Context, msg EmailMessage) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

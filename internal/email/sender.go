// Package email delivers the transactional messages of the blog: password
// reset links and subscription thank-you notes.
package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"

	"github.com/blogify-press/backend-go/internal/config"
)

var (
	ErrFailedToSendEmail = errors.New("failed to send email")
	ErrInvalidConfig     = errors.New("invalid email configuration")
	ErrInvalidParams     = errors.New("invalid email parameters")
)

// Sender sends a single message.
type Sender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// SendEmailParams describes one outgoing message.
type SendEmailParams struct {
	SendTo   string
	Subject  string
	BodyHTML string
	Tag      string
}

// Validate checks that the message is deliverable.
func (p SendEmailParams) Validate() error {
	if _, err := mail.ParseAddress(p.SendTo); err != nil {
		return fmt.Errorf("%w: recipient %q", ErrInvalidParams, p.SendTo)
	}
	if p.Subject == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidParams)
	}
	if p.BodyHTML == "" {
		return fmt.Errorf("%w: body is required", ErrInvalidParams)
	}
	return nil
}

// New picks the sender named by EMAIL_PROVIDER.
func New(cfg *config.Config, logger *slog.Logger) (Sender, error) {
	switch cfg.EmailProvider {
	case "", "log":
		return NewLogSender(logger), nil
	case "smtp":
		return NewSMTPSender(cfg)
	case "postmark":
		return NewPostmarkSender(cfg)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.EmailProvider)
	}
}

func fromAddress(cfg *config.Config) string {
	if cfg.SenderName == "" {
		return cfg.SenderEmail
	}
	return (&mail.Address{Name: cfg.SenderName, Address: cfg.SenderEmail}).String()
}

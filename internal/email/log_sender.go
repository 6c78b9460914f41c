package email

import (
	"context"
	"log/slog"
)

// LogSender writes messages to the logger instead of delivering them. It is
// the development default.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a sender that only logs
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	s.logger.Info("📧 [Email] Message captured (log provider)",
		"to", params.SendTo,
		"subject", params.Subject,
		"tag", params.Tag,
		"body", params.BodyHTML,
	)
	return nil
}

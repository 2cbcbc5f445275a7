package credstore

import (
	"context"

	"go.uber.org/zap"
)

// Mailer delivers verification and reset tokens to a user. Delivery failures
// are the implementation's concern; the Engine does not retry or report them.
type Mailer interface {
	SendVerification(ctx context.Context, email, token string)
	SendPasswordReset(ctx context.Context, email, token string)
}

// LogMailer simulates delivery by logging the token.
type LogMailer struct {
	log *zap.Logger
}

// NewLogMailer returns a Mailer that writes each message to logger at Info.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{log: logger.Named("mailer")}
}

func (m *LogMailer) SendVerification(_ context.Context, email, token string) {
	m.log.Info("verification email sent", zap.String("email", email), zap.String("token", token))
}

func (m *LogMailer) SendPasswordReset(_ context.Context, email, token string) {
	m.log.Info("password reset email sent", zap.String("email", email), zap.String("token", token))
}

package relayconsole

import (
	"context"

	"github.com/google/uuid"

	"github.com/scriven-ai/scriven/pkg/logx"
	"github.com/scriven-ai/scriven/pkg/relay"
)

// ConsoleRelay logs deliveries instead of sending them. Intended for
// development and testing.
type ConsoleRelay struct{}

// NewConsoleRelay creates a new console relay.
func NewConsoleRelay() *ConsoleRelay {
	return &ConsoleRelay{}
}

// Probe always succeeds.
func (r *ConsoleRelay) Probe(_ context.Context) error {
	return nil
}

// Send logs the envelope and returns a generated message ID.
func (r *ConsoleRelay) Send(_ context.Context, env relay.Envelope) (string, error) {
	messageID := uuid.NewString()

	logx.WithFields(logx.Fields{
		"message_id": messageID,
		"from":       env.From,
		"to":         env.To,
		"subject":    env.Subject,
	}).Info("relay/console: email sent (dev mode)")

	if env.TextBody != "" {
		logx.Debugf("relay/console: text body:\n%s", env.TextBody)
	}
	if env.HTMLBody != "" {
		logx.Debugf("relay/console: html body:\n%s", env.HTMLBody)
	}

	return messageID, nil
}

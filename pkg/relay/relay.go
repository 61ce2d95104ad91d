package relay

import "context"

// Envelope is a single outbound email addressed to one recipient.
type Envelope struct {
	From     string `json:"from"`
	FromName string `json:"from_name,omitempty"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	TextBody string `json:"text_body,omitempty"`
	HTMLBody string `json:"html_body,omitempty"`
}

// Relay delivers envelopes through an outbound mail provider.
//
// Probe verifies the relay connection before a batch of sends; a failed
// probe means no send should be attempted. Send delivers one envelope and
// returns the provider message ID on success.
type Relay interface {
	Probe(ctx context.Context) error
	Send(ctx context.Context, env Envelope) (string, error)
}

// SendResult is the outcome of one envelope delivery.
type SendResult struct {
	MessageID string `json:"message_id,omitempty"`
	To        string `json:"to"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/scriven-ai/scriven/pkg/addrx"
	"github.com/scriven-ai/scriven/pkg/asyncx"
	"github.com/scriven-ai/scriven/pkg/errx"
	"github.com/scriven-ai/scriven/pkg/logx"
	"github.com/scriven-ai/scriven/pkg/relay"
	"github.com/scriven-ai/scriven/pkg/sanitx"
)

// Outcome is the aggregated result of one dispatch call. The invariant
// SentCount + len(FailedRecipients) == batch size holds whenever validation
// passed. OverallSuccess is true iff at least one send succeeded.
type Outcome struct {
	SentCount        int                `json:"sentCount"`
	FailedRecipients []string           `json:"failedRecipients,omitempty"`
	Results          []relay.SendResult `json:"-"`
	OverallSuccess   bool               `json:"-"`
}

// Service validates, sanitizes, and relays a message to a recipient batch.
type Service struct {
	relay        relay.Relay
	fromAddress  string
	fromName     string
	parallelism  int
	relayTimeout time.Duration
}

// NewService creates a dispatch service. parallelism bounds the number of
// concurrent sends; 1 means strictly sequential.
func NewService(r relay.Relay, fromAddress, fromName string, parallelism int, relayTimeout time.Duration) *Service {
	if parallelism <= 0 {
		parallelism = 1
	}
	return &Service{
		relay:        r,
		fromAddress:  fromAddress,
		fromName:     fromName,
		parallelism:  parallelism,
		relayTimeout: relayTimeout,
	}
}

// Dispatch sends one message per recipient and aggregates the per-recipient
// outcomes. A recipient's failure never aborts the remaining sends.
//
// On a validation or relay-probe failure no send is attempted and the
// returned error carries the offending detail. After validation passes, a
// partially failed batch is still a success; only a fully failed batch
// returns ErrAllSendsFailed.
func (s *Service) Dispatch(ctx context.Context, recipients []string, subject, content string) (Outcome, error) {
	if len(recipients) == 0 {
		return Outcome{}, dispatchErrors.NewWithMessage(ErrMissingField, "At least one recipient is required").
			WithDetail("field", "recipients")
	}
	if strings.TrimSpace(subject) == "" {
		return Outcome{}, dispatchErrors.NewWithMessage(ErrMissingField, "Subject is required").
			WithDetail("field", "subject")
	}
	if strings.TrimSpace(content) == "" {
		return Outcome{}, dispatchErrors.NewWithMessage(ErrMissingField, "Content is required").
			WithDetail("field", "content")
	}

	invalid, err := addrx.ValidateBatch(recipients)
	if err != nil {
		e := dispatchErrors.NewWithCause(ErrInvalidRecipients, err)
		var batchErr *errx.Error
		if errx.As(err, &batchErr) {
			e.Message = batchErr.Message
		}
		return Outcome{}, e
	}
	if len(invalid) > 0 {
		return Outcome{}, dispatchErrors.NewWithMessage(ErrInvalidRecipients,
			fmt.Sprintf("Invalid email address(es): %s", strings.Join(invalid, ", "))).
			WithDetail("failedRecipients", invalid)
	}

	cleanSubject := sanitx.StripDangerousHTML(sanitx.BodyOrSubject(subject))
	cleanBody := sanitx.StripDangerousHTML(sanitx.BodyOrSubject(content))
	if cleanSubject == "" {
		return Outcome{}, dispatchErrors.NewWithMessage(ErrMissingField, "Subject was entirely unsafe markup").
			WithDetail("field", "subject")
	}
	if cleanBody == "" {
		return Outcome{}, dispatchErrors.NewWithMessage(ErrMissingField, "Content was entirely unsafe markup").
			WithDetail("field", "content")
	}

	probeCtx, cancel := context.WithTimeout(ctx, s.relayTimeout)
	err = s.relay.Probe(probeCtx)
	cancel()
	if err != nil {
		return Outcome{}, dispatchErrors.NewWithCause(ErrRelayUnavailable, err)
	}

	htmlBody := strings.ReplaceAll(cleanBody, "\n", "<br>")

	results := asyncx.PoolSettled(ctx, s.parallelism, recipients,
		func(ctx context.Context, addr string) (string, error) {
			// Already validated; only case and surrounding whitespace may
			// change, never the characters of the address itself.
			to := strings.ToLower(strings.TrimSpace(addr))
			env := relay.Envelope{
				From:     s.fromAddress,
				FromName: s.fromName,
				To:       to,
				Subject:  cleanSubject,
				TextBody: cleanBody,
				HTMLBody: htmlBody,
			}
			return asyncx.WithTimeout(ctx, s.relayTimeout,
				func(ctx context.Context) (string, error) {
					return s.relay.Send(ctx, env)
				})
		})

	sendResults := make([]relay.SendResult, len(results))
	var failed []string
	for i, res := range results {
		to := strings.TrimSpace(recipients[i])
		sendResults[i] = relay.SendResult{
			MessageID: res.Value,
			To:        to,
			Success:   res.Err == nil,
		}
		if res.Err != nil {
			sendResults[i].Error = res.Err.Error()
			failed = append(failed, to)
			logx.WithError(res.Err).
				WithField("to", to).
				Warn("dispatch: send failed")
		}
	}

	sent := len(recipients) - len(failed)
	outcome := Outcome{
		SentCount:        sent,
		FailedRecipients: failed,
		Results:          sendResults,
		OverallSuccess:   sent > 0,
	}

	if sent == 0 {
		return outcome, dispatchErrors.New(ErrAllSendsFailed).
			WithDetail("failedRecipients", failed)
	}

	logx.WithFields(logx.Fields{
		"sent":   sent,
		"failed": len(failed),
	}).Info("dispatch: batch completed")

	return outcome, nil
}

package relayses

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/scriven-ai/scriven/pkg/relay"
)

// SESRelay implements relay.Relay using AWS SES.
type SESRelay struct {
	client      *ses.Client
	fromAddress string
	fromName    string
}

// NewSESRelay creates a new SES-backed relay.
func NewSESRelay(client *ses.Client, fromAddress, fromName string) *SESRelay {
	return &SESRelay{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}
}

// Probe verifies SES is reachable with the configured credentials.
func (r *SESRelay) Probe(ctx context.Context) error {
	_, err := r.client.GetSendQuota(ctx, &ses.GetSendQuotaInput{})
	if err != nil {
		return sesErrors.NewWithCause(ErrProbeFailed, err)
	}
	return nil
}

// Send delivers one envelope via SES and returns the SES message ID.
func (r *SESRelay) Send(ctx context.Context, env relay.Envelope) (string, error) {
	from := env.From
	if from == "" {
		from = r.fromAddress
	}
	name := env.FromName
	if name == "" {
		name = r.fromName
	}
	if name != "" {
		from = fmt.Sprintf("%s <%s>", name, from)
	}

	body := &types.Body{}
	if env.TextBody != "" {
		body.Text = &types.Content{
			Data:    aws.String(env.TextBody),
			Charset: aws.String("UTF-8"),
		}
	}
	if env.HTMLBody != "" {
		body.Html = &types.Content{
			Data:    aws.String(env.HTMLBody),
			Charset: aws.String("UTF-8"),
		}
	}

	input := &ses.SendEmailInput{
		Source: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{env.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(env.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: body,
		},
	}

	out, err := r.client.SendEmail(ctx, input)
	if err != nil {
		return "", sesErrors.NewWithCause(ErrSendFailed, err).
			WithDetail("to", env.To).
			WithDetail("subject", env.Subject)
	}

	return aws.ToString(out.MessageId), nil
}

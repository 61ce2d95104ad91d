package relaysmtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scriven-ai/scriven/pkg/relay"
)

// SMTPRelay implements relay.Relay over a plain SMTP submission endpoint
// with STARTTLS and optional PLAIN auth.
type SMTPRelay struct {
	host        string
	port        string
	username    string
	password    string
	fromAddress string
	fromName    string
}

// NewSMTPRelay creates a new SMTP-backed relay.
func NewSMTPRelay(host, port, username, password, fromAddress, fromName string) *SMTPRelay {
	return &SMTPRelay{
		host:        host,
		port:        port,
		username:    username,
		password:    password,
		fromAddress: fromAddress,
		fromName:    fromName,
	}
}

func (r *SMTPRelay) addr() string {
	return net.JoinHostPort(r.host, r.port)
}

func (r *SMTPRelay) dial(ctx context.Context) (*smtp.Client, error) {
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", r.addr())
	if err != nil {
		return nil, smtpErrors.NewWithCause(ErrConnectionFailed, err).
			WithDetail("addr", r.addr())
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, r.host)
	if err != nil {
		conn.Close()
		return nil, smtpErrors.NewWithCause(ErrConnectionFailed, err).
			WithDetail("addr", r.addr())
	}

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: r.host}); err != nil {
			client.Close()
			return nil, smtpErrors.NewWithCause(ErrConnectionFailed, err).
				WithDetail("stage", "starttls")
		}
	}

	if r.username != "" {
		auth := smtp.PlainAuth("", r.username, r.password, r.host)
		if err := client.Auth(auth); err != nil {
			client.Close()
			return nil, smtpErrors.NewWithCause(ErrAuthFailed, err)
		}
	}

	return client, nil
}

// Probe dials the relay, confirms it answers a NOOP, and disconnects.
func (r *SMTPRelay) Probe(ctx context.Context) error {
	client, err := r.dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Noop(); err != nil {
		return smtpErrors.NewWithCause(ErrConnectionFailed, err).
			WithDetail("stage", "noop")
	}
	return client.Quit()
}

// Send delivers one envelope over a fresh SMTP session.
func (r *SMTPRelay) Send(ctx context.Context, env relay.Envelope) (string, error) {
	client, err := r.dial(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	from := env.From
	if from == "" {
		from = r.fromAddress
	}
	name := env.FromName
	if name == "" {
		name = r.fromName
	}

	if err := client.Mail(from); err != nil {
		return "", smtpErrors.NewWithCause(ErrSendFailed, err).WithDetail("stage", "mail")
	}
	if err := client.Rcpt(env.To); err != nil {
		return "", smtpErrors.NewWithCause(ErrSendFailed, err).
			WithDetail("stage", "rcpt").
			WithDetail("to", env.To)
	}

	w, err := client.Data()
	if err != nil {
		return "", smtpErrors.NewWithCause(ErrSendFailed, err).WithDetail("stage", "data")
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), r.host)
	msg := buildMessage(messageID, from, name, env)
	if _, err := w.Write([]byte(msg)); err != nil {
		w.Close()
		return "", smtpErrors.NewWithCause(ErrSendFailed, err).WithDetail("stage", "write")
	}
	if err := w.Close(); err != nil {
		return "", smtpErrors.NewWithCause(ErrSendFailed, err).WithDetail("stage", "close")
	}

	if err := client.Quit(); err != nil {
		// Delivery was accepted at DATA; a failed QUIT does not undo it.
		client.Close()
	}

	return messageID, nil
}

func buildMessage(messageID, from, fromName string, env relay.Envelope) string {
	fromHeader := from
	if fromName != "" {
		fromHeader = fmt.Sprintf("%s <%s>", fromName, from)
	}

	var b strings.Builder
	b.WriteString("Message-ID: " + messageID + "\r\n")
	b.WriteString("Date: " + time.Now().UTC().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("From: " + fromHeader + "\r\n")
	b.WriteString("To: " + env.To + "\r\n")
	b.WriteString("Subject: " + env.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	if env.HTMLBody != "" {
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		b.WriteString("\r\n")
		b.WriteString(env.HTMLBody)
	} else {
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		b.WriteString("\r\n")
		b.WriteString(env.TextBody)
	}
	b.WriteString("\r\n")

	return b.String()
}

package relaysmtp

import "github.com/scriven-ai/scriven/pkg/errx"

var smtpErrors = errx.NewRegistry("RELAY_SMTP")

var (
	ErrConnectionFailed = smtpErrors.Register("CONNECTION_FAILED", errx.TypeExternal, 500, "SMTP connection failed")
	ErrAuthFailed       = smtpErrors.Register("AUTH_FAILED", errx.TypeExternal, 500, "SMTP authentication failed")
	ErrSendFailed       = smtpErrors.Register("SEND_FAILED", errx.TypeExternal, 500, "SMTP send failed")
)

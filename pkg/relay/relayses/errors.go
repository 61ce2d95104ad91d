package relayses

import "github.com/scriven-ai/scriven/pkg/errx"

var sesErrors = errx.NewRegistry("RELAY_SES")

var (
	ErrProbeFailed = sesErrors.Register("PROBE_FAILED", errx.TypeExternal, 500, "SES connection check failed")
	ErrSendFailed  = sesErrors.Register("SEND_FAILED", errx.TypeExternal, 500, "SES send email failed")
)

package dispatch

import (
	"net/http"

	"github.com/scriven-ai/scriven/pkg/errx"
)

var dispatchErrors = errx.NewRegistry("DISPATCH")

var (
	ErrMissingField = dispatchErrors.Register(
		"MISSING_FIELD",
		errx.TypeValidation,
		http.StatusBadRequest,
		"A required field is missing or empty",
	)

	ErrInvalidRecipients = dispatchErrors.Register(
		"INVALID_RECIPIENTS",
		errx.TypeValidation,
		http.StatusBadRequest,
		"The recipient list is invalid",
	)

	ErrRelayUnavailable = dispatchErrors.Register(
		"RELAY_UNAVAILABLE",
		errx.TypeExternal,
		http.StatusInternalServerError,
		"The mail relay is unreachable",
	)

	ErrAllSendsFailed = dispatchErrors.Register(
		"ALL_SENDS_FAILED",
		errx.TypeExternal,
		http.StatusInternalServerError,
		"Every recipient send failed",
	)
)

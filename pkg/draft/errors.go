package draft

import (
	"net/http"

	"github.com/scriven-ai/scriven/pkg/errx"
)

var draftErrors = errx.NewRegistry("DRAFT")

var (
	ErrInvalidInput = draftErrors.Register(
		"INVALID_INPUT",
		errx.TypeValidation,
		http.StatusBadRequest,
		"Prompt must be a non-empty string of at most 2000 characters",
	)

	ErrEmptyCompletion = draftErrors.Register(
		"EMPTY_COMPLETION",
		errx.TypeExternal,
		http.StatusInternalServerError,
		"The completion service returned no usable text",
	)

	ErrAuthFailure = draftErrors.Register(
		"UPSTREAM_AUTH_FAILURE",
		errx.TypeAuthorization,
		http.StatusUnauthorized,
		"The completion service rejected the configured credentials",
	)

	ErrThrottled = draftErrors.Register(
		"UPSTREAM_THROTTLED",
		errx.TypeThrottled,
		http.StatusTooManyRequests,
		"The completion service is throttling requests, retry later",
	)

	ErrUpstreamUnavailable = draftErrors.Register(
		"UPSTREAM_UNAVAILABLE",
		errx.TypeExternal,
		http.StatusInternalServerError,
		"The completion service is unavailable",
	)
)

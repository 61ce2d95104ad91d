package addrx

import (
	"net/http"

	"github.com/scriven-ai/scriven/pkg/errx"
)

var addrErrors = errx.NewRegistry("ADDR")

var (
	ErrEmptyAddress = addrErrors.Register(
		"EMPTY",
		errx.TypeValidation,
		http.StatusBadRequest,
		"Email address is required",
	)

	ErrAddressTooLong = addrErrors.Register(
		"TOO_LONG",
		errx.TypeValidation,
		http.StatusBadRequest,
		"Email address exceeds 254 characters",
	)

	ErrMalformedAddress = addrErrors.Register(
		"MALFORMED",
		errx.TypeValidation,
		http.StatusBadRequest,
		"Email address is malformed",
	)

	ErrEmptyBatch = addrErrors.Register(
		"EMPTY_BATCH",
		errx.TypeValidation,
		http.StatusBadRequest,
		"At least one recipient is required",
	)

	ErrBatchTooLarge = addrErrors.Register(
		"BATCH_TOO_LARGE",
		errx.TypeValidation,
		http.StatusBadRequest,
		"Maximum 50 recipients per dispatch",
	)

	ErrDuplicateRecipients = addrErrors.Register(
		"DUPLICATE_RECIPIENTS",
		errx.TypeValidation,
		http.StatusBadRequest,
		"Duplicate recipients in batch",
	)
)

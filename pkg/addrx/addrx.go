// Package addrx classifies email addresses and recipient batches as
// structurally valid. Validation is purely structural: a passing address is
// well-formed per the grammar below, which says nothing about whether the
// mailbox exists or accepts mail.
package addrx

import (
	"regexp"
	"strings"
)

const (
	// MaxAddressLength is the longest accepted address, per RFC 5321's
	// overall path limit.
	MaxAddressLength = 254

	// MaxBatchSize is the largest accepted recipient batch.
	MaxBatchSize = 50
)

// Local part allows the RFC 5322 atom specials with dots only between other
// characters; the domain is dot-separated DNS labels, each starting and
// ending alphanumeric with interior hyphens, at least two labels total.
var addressRe = regexp.MustCompile(
	`^[A-Za-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+(\.[A-Za-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+)*` +
		`@([A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?\.)+[A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?$`)

// ValidateAddress reports whether s is a structurally valid email address.
// A nil return means valid; otherwise the error is one of the registered
// ADDR codes (empty, too long, malformed).
func ValidateAddress(s string) error {
	if s == "" {
		return addrErrors.New(ErrEmptyAddress)
	}
	if len(s) > MaxAddressLength {
		return addrErrors.New(ErrAddressTooLong).WithDetail("length", len(s))
	}
	if !addressRe.MatchString(s) {
		return addrErrors.New(ErrMalformedAddress).WithDetail("address", s)
	}
	return nil
}

// ValidateBatch applies the batch-level rules (1..MaxBatchSize entries, no
// case-insensitive duplicates after trimming) and, when those pass, checks
// each entry with ValidateAddress on its trimmed form.
//
// A non-nil error is a batch-level failure and pre-empts per-item results:
// a duplicate or size violation makes the request meaningless regardless of
// individual address validity. On a nil error, invalid lists the original
// entries that failed the structural check, in input order; an empty list
// means every entry is valid.
func ValidateBatch(recipients []string) (invalid []string, err error) {
	if len(recipients) == 0 {
		return nil, addrErrors.New(ErrEmptyBatch)
	}
	if len(recipients) > MaxBatchSize {
		return nil, addrErrors.New(ErrBatchTooLarge).WithDetail("count", len(recipients))
	}

	seen := make(map[string]struct{}, len(recipients))
	for _, r := range recipients {
		key := strings.ToLower(strings.TrimSpace(r))
		if _, dup := seen[key]; dup {
			return nil, addrErrors.New(ErrDuplicateRecipients).WithDetail("address", key)
		}
		seen[key] = struct{}{}
	}

	for _, r := range recipients {
		if ValidateAddress(strings.TrimSpace(r)) != nil {
			invalid = append(invalid, r)
		}
	}
	return invalid, nil
}

// Package sanitx provides pure text transforms that normalize untrusted
// input before it reaches the draft generator or the mail relay. Every
// function is total (invalid input degrades to the empty string, never an
// error) and idempotent.
package sanitx

import (
	"regexp"
	"strings"
)

const (
	// MaxPromptLength is the hard cap applied by Prompt, distinct from the
	// 2000-character precheck the draft generator performs on raw input.
	MaxPromptLength = 1000

	// MaxContentLength is the hard cap applied by BodyOrSubject.
	MaxContentLength = 10000
)

var (
	// C0 controls and DEL, except newline and tab
	controlRe = regexp.MustCompile("[\x01-\x08\x0b-\x1f\x7f]")

	// carriage returns handled separately so \r\n collapses to \n, not ""
	newlineRe = regexp.MustCompile("\r\n?")

	spaceRunRe = regexp.MustCompile(" {2,}")

	emailCharRe = regexp.MustCompile(`[^a-z0-9_@.\-]`)
	dotRunRe    = regexp.MustCompile(`\.{2,}`)

	punctRunRe = regexp.MustCompile(`[!?]{3,}`)

	scriptRe = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	iframeRe = regexp.MustCompile(`(?is)<iframe\b[^>]*>.*?</iframe>`)
)

// Generic normalizes free-form text: NUL bytes become spaces, control
// characters other than newline and tab are stripped, runs of plain spaces
// collapse to one, and surrounding whitespace is trimmed. Newlines and tabs
// survive untouched.
func Generic(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ReplaceAll(s, "\x00", " ")
	s = controlRe.ReplaceAllString(s, "")
	s = spaceRunRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// EmailToken lower-cases and trims a raw address token and drops every
// character outside [a-z0-9_@.-], collapsing and trimming dots. This is
// best-effort cosmetic cleanup, not a validity guarantee; run the result
// through addrx afterward.
func EmailToken(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToLower(strings.TrimSpace(s))
	s = emailCharRe.ReplaceAllString(s, "")
	s = dotRunRe.ReplaceAllString(s, ".")
	return strings.Trim(s, ".")
}

// Prompt prepares user prompt text for the completion collaborator: Generic
// normalization, runs of three or more !/? (in any mixture) collapse to
// exactly "!!", and the result is capped at MaxPromptLength characters.
func Prompt(s string) string {
	s = Generic(s)
	s = punctRunRe.ReplaceAllString(s, "!!")
	return truncate(s, MaxPromptLength)
}

// BodyOrSubject normalizes email content: all line-ending variants become
// \n, control characters are stripped and plain-space runs collapsed as in
// Generic, and the result is capped at MaxContentLength characters.
func BodyOrSubject(s string) string {
	if s == "" {
		return ""
	}

	s = newlineRe.ReplaceAllString(s, "\n")
	s = strings.ReplaceAll(s, "\x00", " ")
	s = controlRe.ReplaceAllString(s, "")
	s = spaceRunRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	return truncate(s, MaxContentLength)
}

// StripDangerousHTML removes <script> and <iframe> blocks (case-insensitive,
// non-greedy across the tag pair) and trims the result. Applied to subject
// and body before relay so downstream HTML-rendering mail clients never see
// active content.
func StripDangerousHTML(s string) string {
	if s == "" {
		return ""
	}

	s = scriptRe.ReplaceAllString(s, "")
	s = iframeRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

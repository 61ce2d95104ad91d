package draft

import (
	"context"
	"strings"

	"github.com/scriven-ai/scriven/pkg/ai/llm"
	"github.com/scriven-ai/scriven/pkg/errx"
	"github.com/scriven-ai/scriven/pkg/logx"
	"github.com/scriven-ai/scriven/pkg/sanitx"
)

// MaxPromptChars bounds the raw prompt before any upstream call is made.
// Distinct from the sanitizer's own cap, which applies after the pre-check.
const MaxPromptChars = 2000

const systemInstruction = "You are an assistant that writes professional, well-structured emails. " +
	"Begin your reply with a line of the form \"Subject: <subject>\" followed by the email body. " +
	"Keep the tone professional but friendly."

const subjectPrefix = "Subject:"

// Draft is a generated email split per the subject-line convention.
type Draft struct {
	Raw     string
	Subject string
	Body    string
}

// Service generates email drafts through a completion provider.
type Service struct {
	provider    llm.LLM
	model       string
	temperature float32
	maxTokens   int
}

// NewService creates a draft generation service. model may be empty to use
// the provider's default.
func NewService(provider llm.LLM, model string, temperature float32, maxTokens int) *Service {
	return &Service{
		provider:    provider,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// Generate turns a natural-language prompt into an email draft.
//
// The prompt is bound-checked before any upstream call; unusable input never
// costs a network round trip.
func (s *Service) Generate(ctx context.Context, prompt string) (Draft, error) {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return Draft{}, draftErrors.NewWithMessage(ErrInvalidInput, "Prompt is required")
	}
	if len([]rune(trimmed)) > MaxPromptChars {
		return Draft{}, draftErrors.NewWithMessage(ErrInvalidInput, "Prompt exceeds 2000 characters")
	}

	cleaned := sanitx.Prompt(trimmed)
	if cleaned == "" {
		return Draft{}, draftErrors.NewWithMessage(ErrInvalidInput, "Prompt is empty after sanitization")
	}

	opts := []llm.Option{
		llm.WithTemperature(s.temperature),
		llm.WithMaxTokens(s.maxTokens),
	}
	if s.model != "" {
		opts = append(opts, llm.WithModel(s.model))
	}

	resp, err := s.provider.Chat(ctx, []llm.Message{
		llm.NewSystemMessage(systemInstruction),
		llm.NewUserMessage(cleaned),
	}, opts...)
	if err != nil {
		return Draft{}, classifyUpstreamError(err)
	}

	raw := strings.TrimSpace(resp.Content())
	if raw == "" {
		return Draft{}, draftErrors.New(ErrEmptyCompletion)
	}

	logx.WithFields(logx.Fields{
		"prompt_chars":      len([]rune(cleaned)),
		"completion_tokens": resp.Usage.CompletionTokens,
	}).Debug("draft: completion received")

	subject, body := splitSubjectLine(raw)
	return Draft{Raw: raw, Subject: subject, Body: body}, nil
}

// splitSubjectLine extracts the subject when the first line follows the
// "Subject: <text>" convention; otherwise the whole text is the body.
func splitSubjectLine(raw string) (subject, body string) {
	firstLine := raw
	rest := ""
	if idx := strings.IndexByte(raw, '\n'); idx >= 0 {
		firstLine = raw[:idx]
		rest = raw[idx+1:]
	}

	trimmedFirst := strings.TrimSpace(firstLine)
	if len(trimmedFirst) >= len(subjectPrefix) &&
		strings.EqualFold(trimmedFirst[:len(subjectPrefix)], subjectPrefix) {
		subject = strings.TrimSpace(trimmedFirst[len(subjectPrefix):])
		body = strings.TrimSpace(rest)
		return subject, body
	}

	return "", strings.TrimSpace(raw)
}

func classifyUpstreamError(err error) *errx.Error {
	var upstream *errx.Error
	if errx.As(err, &upstream) {
		switch upstream.Type {
		case errx.TypeAuthorization:
			return draftErrors.NewWithCause(ErrAuthFailure, err)
		case errx.TypeThrottled:
			return draftErrors.NewWithCause(ErrThrottled, err)
		}
	}
	return draftErrors.NewWithCause(ErrUpstreamUnavailable, err)
}

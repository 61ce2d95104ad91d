package compose

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/scriven-ai/scriven/pkg/addrx"
	"github.com/scriven-ai/scriven/pkg/dispatch"
	"github.com/scriven-ai/scriven/pkg/draft"
	"github.com/scriven-ai/scriven/pkg/errx"
	"github.com/scriven-ai/scriven/pkg/sanitx"
)

// Drafter generates an email draft from a prompt.
type Drafter interface {
	Generate(ctx context.Context, prompt string) (draft.Draft, error)
}

// Dispatcher relays a message to a recipient batch.
type Dispatcher interface {
	Dispatch(ctx context.Context, recipients []string, subject, content string) (dispatch.Outcome, error)
}

// Handlers exposes the compose REST endpoints.
type Handlers struct {
	drafts     Drafter
	dispatcher Dispatcher
	aiTimeout  time.Duration
}

// NewHandlers creates the compose HTTP handlers.
func NewHandlers(drafts Drafter, dispatcher Dispatcher, aiTimeout time.Duration) *Handlers {
	return &Handlers{
		drafts:     drafts,
		dispatcher: dispatcher,
		aiTimeout:  aiTimeout,
	}
}

// RegisterRoutes mounts the compose endpoints under /api/v1.
func (h *Handlers) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/v1")
	api.Post("/draft", h.handleDraft)
	api.Post("/dispatch", h.handleDispatch)
	api.Post("/compose/mailto", h.handleMailto)
}

func (h *Handlers) handleDraft(c *fiber.Ctx) error {
	var req DraftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid JSON body",
		})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.aiTimeout)
	defer cancel()

	d, err := h.drafts.Generate(ctx, req.Prompt)
	if err != nil {
		status, msg := errorStatus(err)
		return c.Status(status).JSON(ErrorResponse{Error: msg})
	}

	return c.JSON(DraftResponse{
		Success: true,
		Email:   d.Raw,
		Subject: d.Subject,
		Body:    d.Body,
	})
}

func (h *Handlers) handleDispatch(c *fiber.Ctx) error {
	var req DispatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid JSON body",
		})
	}

	out, err := h.dispatcher.Dispatch(c.UserContext(), req.Recipients, req.Subject, req.Content)
	if err != nil {
		return h.dispatchError(c, req.Recipients, err)
	}

	if len(out.FailedRecipients) > 0 {
		return c.Status(fiber.StatusMultiStatus).JSON(DispatchResponse{
			Success:          true,
			SentCount:        out.SentCount,
			FailedRecipients: out.FailedRecipients,
			Error:            "Some recipients could not be reached",
		})
	}

	return c.JSON(DispatchResponse{
		Success:   true,
		SentCount: out.SentCount,
	})
}

func (h *Handlers) dispatchError(c *fiber.Ctx, recipients []string, err error) error {
	var e *errx.Error
	if !errx.As(err, &e) {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Internal server error",
		})
	}

	switch e.Type {
	case errx.TypeValidation:
		return c.Status(e.HTTPStatus).JSON(ErrorResponse{
			Error:            e.Message,
			FailedRecipients: detailRecipients(e),
		})
	default:
		failed := detailRecipients(e)
		if failed == nil {
			// Relay probe failed before any send; nobody was reached.
			failed = trimmedRecipients(recipients)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(DispatchResponse{
			Success:          false,
			SentCount:        0,
			FailedRecipients: failed,
			Error:            e.Message,
		})
	}
}

func (h *Handlers) handleMailto(c *fiber.Ctx) error {
	var req MailtoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid JSON body",
		})
	}

	if len(req.Recipients) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "At least one recipient is required",
		})
	}

	invalid, err := addrx.ValidateBatch(req.Recipients)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: errorMessage(err),
		})
	}
	if len(invalid) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:            "Invalid email address(es)",
			FailedRecipients: invalid,
		})
	}

	// Already validated; normalize case and whitespace only so the link
	// targets exactly the addresses the user typed.
	addrs := make([]string, len(req.Recipients))
	for i, r := range req.Recipients {
		addrs[i] = strings.ToLower(strings.TrimSpace(r))
	}

	subject := sanitx.StripDangerousHTML(sanitx.BodyOrSubject(req.Subject))
	body := sanitx.StripDangerousHTML(sanitx.BodyOrSubject(req.Content))

	link := "mailto:" + strings.Join(addrs, ",") +
		"?subject=" + mailtoEscape(subject) +
		"&body=" + mailtoEscape(body)

	return c.JSON(MailtoResponse{Success: true, Mailto: link})
}

// mailtoEscape percent-encodes a mailto query value. Mail clients expect
// %20 for spaces, not the form-encoding plus sign.
func mailtoEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func errorStatus(err error) (int, string) {
	var e *errx.Error
	if errx.As(err, &e) {
		return e.HTTPStatus, e.Message
	}
	return fiber.StatusInternalServerError, "The completion service is unavailable"
}

func errorMessage(err error) string {
	var e *errx.Error
	if errx.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func detailRecipients(e *errx.Error) []string {
	if v, ok := e.Details["failedRecipients"].([]string); ok {
		return v
	}
	return nil
}

func trimmedRecipients(recipients []string) []string {
	out := make([]string, len(recipients))
	for i, r := range recipients {
		out[i] = strings.TrimSpace(r)
	}
	return out
}

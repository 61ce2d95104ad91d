package compose_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/scriven-ai/scriven/pkg/compose"
	"github.com/scriven-ai/scriven/pkg/dispatch"
	"github.com/scriven-ai/scriven/pkg/draft"
	"github.com/scriven-ai/scriven/pkg/errx"
)

type fakeDrafter struct {
	draft draft.Draft
	err   error
}

func (f *fakeDrafter) Generate(_ context.Context, _ string) (draft.Draft, error) {
	return f.draft, f.err
}

type fakeDispatcher struct {
	outcome dispatch.Outcome
	err     error
}

func (f *fakeDispatcher) Dispatch(_ context.Context, _ []string, _, _ string) (dispatch.Outcome, error) {
	return f.outcome, f.err
}

func newApp(d compose.Drafter, s compose.Dispatcher) *fiber.App {
	app := fiber.New()
	compose.NewHandlers(d, s, time.Second).RegisterRoutes(app)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	resp.Body.Close()

	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal response %q: %v", data, err)
	}
	return resp, parsed
}

func TestDraftEndpointSuccess(t *testing.T) {
	t.Parallel()

	app := newApp(&fakeDrafter{draft: draft.Draft{
		Raw:     "Subject: Hi\n\nHello.",
		Subject: "Hi",
		Body:    "Hello.",
	}}, &fakeDispatcher{})

	resp, body := postJSON(t, app, "/api/v1/draft", map[string]any{"prompt": "say hi"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["success"] != true {
		t.Error("success should be true")
	}
	if body["email"] != "Subject: Hi\n\nHello." {
		t.Errorf("email = %q", body["email"])
	}
	if body["subject"] != "Hi" || body["body"] != "Hello." {
		t.Errorf("split = %q / %q", body["subject"], body["body"])
	}
}

func TestDraftEndpointErrorStatuses(t *testing.T) {
	t.Parallel()

	reg := errx.NewRegistry("TEST")
	invalid := reg.Register("INVALID", errx.TypeValidation, 400, "Prompt is required")
	auth := reg.Register("AUTH", errx.TypeAuthorization, 401, "bad credentials")
	throttle := reg.Register("THROTTLE", errx.TypeThrottled, 429, "slow down")
	boom := reg.Register("BOOM", errx.TypeExternal, 500, "upstream down")

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid input", reg.New(invalid), 400},
		{"auth failure", reg.New(auth), 401},
		{"throttled", reg.New(throttle), 429},
		{"upstream", reg.New(boom), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := newApp(&fakeDrafter{err: tt.err}, &fakeDispatcher{})
			resp, body := postJSON(t, app, "/api/v1/draft", map[string]any{"prompt": "x"})
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if body["success"] != false {
				t.Error("success should be false")
			}
			if body["error"] == "" {
				t.Error("error message should be present")
			}
		})
	}
}

func TestDispatchEndpointAllSent(t *testing.T) {
	t.Parallel()

	app := newApp(&fakeDrafter{}, &fakeDispatcher{outcome: dispatch.Outcome{
		SentCount:      2,
		OverallSuccess: true,
	}})

	resp, body := postJSON(t, app, "/api/v1/dispatch", map[string]any{
		"recipients": []string{"a@example.com", "b@example.com"},
		"subject":    "Hi",
		"content":    "Hello",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["success"] != true {
		t.Error("success should be true")
	}
	if body["sentCount"] != float64(2) {
		t.Errorf("sentCount = %v, want 2", body["sentCount"])
	}
	if _, ok := body["failedRecipients"]; ok {
		t.Error("failedRecipients should be omitted when everyone succeeded")
	}
}

func TestDispatchEndpointPartialIsMultiStatus(t *testing.T) {
	t.Parallel()

	app := newApp(&fakeDrafter{}, &fakeDispatcher{outcome: dispatch.Outcome{
		SentCount:        1,
		FailedRecipients: []string{"b@example.com"},
		OverallSuccess:   true,
	}})

	resp, body := postJSON(t, app, "/api/v1/dispatch", map[string]any{
		"recipients": []string{"a@example.com", "b@example.com"},
		"subject":    "Hi",
		"content":    "Hello",
	})
	if resp.StatusCode != http.StatusMultiStatus {
		t.Fatalf("status = %d, want 207", resp.StatusCode)
	}
	if body["success"] != true {
		t.Error("success should remain true on partial failure")
	}
	if body["sentCount"] != float64(1) {
		t.Errorf("sentCount = %v, want 1", body["sentCount"])
	}
	failed, _ := body["failedRecipients"].([]any)
	if len(failed) != 1 || failed[0] != "b@example.com" {
		t.Errorf("failedRecipients = %v", body["failedRecipients"])
	}
	if body["error"] == "" {
		t.Error("207 response should carry an error message")
	}
}

func TestDispatchEndpointValidationError(t *testing.T) {
	t.Parallel()

	reg := errx.NewRegistry("TEST2")
	code := reg.Register("INVALID_RECIPIENTS", errx.TypeValidation, 400, "Invalid email address(es)")
	err := reg.New(code).WithDetail("failedRecipients", []string{"bad"})

	app := newApp(&fakeDrafter{}, &fakeDispatcher{err: err})

	resp, body := postJSON(t, app, "/api/v1/dispatch", map[string]any{
		"recipients": []string{"bad"},
		"subject":    "Hi",
		"content":    "Hello",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body["success"] != false {
		t.Error("success should be false")
	}
	failed, _ := body["failedRecipients"].([]any)
	if len(failed) != 1 || failed[0] != "bad" {
		t.Errorf("failedRecipients = %v", body["failedRecipients"])
	}
}

func TestDispatchEndpointRelayUnavailable(t *testing.T) {
	t.Parallel()

	reg := errx.NewRegistry("TEST3")
	code := reg.Register("RELAY_UNAVAILABLE", errx.TypeExternal, 500, "The mail relay is unreachable")

	app := newApp(&fakeDrafter{}, &fakeDispatcher{err: reg.New(code)})

	resp, body := postJSON(t, app, "/api/v1/dispatch", map[string]any{
		"recipients": []string{" a@example.com ", "b@example.com"},
		"subject":    "Hi",
		"content":    "Hello",
	})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	if body["success"] != false {
		t.Error("success should be false")
	}
	if body["sentCount"] != float64(0) {
		t.Errorf("sentCount = %v, want 0", body["sentCount"])
	}
	failed, _ := body["failedRecipients"].([]any)
	if len(failed) != 2 || failed[0] != "a@example.com" {
		t.Errorf("failedRecipients = %v, want every trimmed recipient", body["failedRecipients"])
	}
}

func TestMailtoEndpoint(t *testing.T) {
	t.Parallel()

	app := newApp(&fakeDrafter{}, &fakeDispatcher{})

	resp, body := postJSON(t, app, "/api/v1/compose/mailto", map[string]any{
		"recipients": []string{"A@Example.com"},
		"subject":    "Team Sync",
		"content":    "See you Friday",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	link, _ := body["mailto"].(string)
	want := "mailto:a@example.com?subject=Team%20Sync&body=See%20you%20Friday"
	if link != want {
		t.Errorf("mailto = %q, want %q", link, want)
	}
}

func TestMailtoEndpointPreservesPlusAddress(t *testing.T) {
	t.Parallel()

	app := newApp(&fakeDrafter{}, &fakeDispatcher{})

	resp, body := postJSON(t, app, "/api/v1/compose/mailto", map[string]any{
		"recipients": []string{" John+News@Example.com "},
		"subject":    "Hi",
		"content":    "Hello",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	link, _ := body["mailto"].(string)
	if !strings.HasPrefix(link, "mailto:john+news@example.com?") {
		t.Errorf("mailto = %q, want the plus tag kept in the recipient", link)
	}
}

func TestMailtoEndpointRejectsInvalidRecipient(t *testing.T) {
	t.Parallel()

	app := newApp(&fakeDrafter{}, &fakeDispatcher{})

	resp, body := postJSON(t, app, "/api/v1/compose/mailto", map[string]any{
		"recipients": []string{"not-an-address"},
		"subject":    "Hi",
		"content":    "Hello",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body["success"] != false {
		t.Error("success should be false")
	}
	failed, _ := body["failedRecipients"].([]any)
	if len(failed) != 1 || failed[0] != "not-an-address" {
		t.Errorf("failedRecipients = %v", body["failedRecipients"])
	}
}

func TestDraftEndpointRejectsMalformedJSON(t *testing.T) {
	t.Parallel()

	app := newApp(&fakeDrafter{}, &fakeDispatcher{})

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/draft", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

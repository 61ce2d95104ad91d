package draft

import (
	"context"
	"strings"
	"testing"

	"github.com/scriven-ai/scriven/pkg/ai/llm"
	"github.com/scriven-ai/scriven/pkg/errx"
)

type fakeLLM struct {
	calls    int
	messages []llm.Message
	response llm.Response
	err      error
}

func (f *fakeLLM) Chat(_ context.Context, messages []llm.Message, _ ...llm.Option) (llm.Response, error) {
	f.calls++
	f.messages = messages
	return f.response, f.err
}

func textResponse(content string) llm.Response {
	return llm.Response{
		Message: llm.NewAssistantMessage(content),
	}
}

func TestGenerateSplitsSubjectLine(t *testing.T) {
	t.Parallel()

	fake := &fakeLLM{response: textResponse("Subject: Team Sync\n\nLet's meet Friday.")}
	svc := NewService(fake, "", 0.7, 1000)

	d, err := svc.Generate(context.Background(), "invite the team to a sync")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if d.Subject != "Team Sync" {
		t.Errorf("subject = %q, want %q", d.Subject, "Team Sync")
	}
	if d.Body != "Let's meet Friday." {
		t.Errorf("body = %q, want %q", d.Body, "Let's meet Friday.")
	}
	if d.Raw == "" {
		t.Error("raw completion should be preserved")
	}
}

func TestGenerateWithoutSubjectLine(t *testing.T) {
	t.Parallel()

	fake := &fakeLLM{response: textResponse("Hello team, see you Friday.")}
	svc := NewService(fake, "", 0.7, 1000)

	d, err := svc.Generate(context.Background(), "say hi")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if d.Subject != "" {
		t.Errorf("subject = %q, want empty", d.Subject)
	}
	if d.Body != "Hello team, see you Friday." {
		t.Errorf("body = %q", d.Body)
	}
}

func TestGenerateSendsSystemInstruction(t *testing.T) {
	t.Parallel()

	fake := &fakeLLM{response: textResponse("Subject: Hi\n\nHello.")}
	svc := NewService(fake, "", 0.7, 1000)

	if _, err := svc.Generate(context.Background(), "write an email"); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(fake.messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(fake.messages))
	}
	if fake.messages[0].Role != llm.RoleSystem {
		t.Errorf("first message role = %q, want system", fake.messages[0].Role)
	}
	if !strings.Contains(fake.messages[0].Content, "Subject:") {
		t.Error("system instruction should require the subject-line convention")
	}
	if fake.messages[1].Role != llm.RoleUser {
		t.Errorf("second message role = %q, want user", fake.messages[1].Role)
	}
}

func TestGenerateRejectsEmptyPromptWithoutUpstreamCall(t *testing.T) {
	t.Parallel()

	fake := &fakeLLM{}
	svc := NewService(fake, "", 0.7, 1000)

	_, err := svc.Generate(context.Background(), "   \n\t ")
	assertCode(t, err, ErrInvalidInput.Code)
	if fake.calls != 0 {
		t.Errorf("upstream called %d times on invalid input, want 0", fake.calls)
	}
}

func TestGenerateRejectsOversizedPromptWithoutUpstreamCall(t *testing.T) {
	t.Parallel()

	fake := &fakeLLM{}
	svc := NewService(fake, "", 0.7, 1000)

	_, err := svc.Generate(context.Background(), strings.Repeat("a", MaxPromptChars+1))
	assertCode(t, err, ErrInvalidInput.Code)
	if fake.calls != 0 {
		t.Errorf("upstream called %d times on oversized input, want 0", fake.calls)
	}
}

func TestGenerateAcceptsPromptAtLimit(t *testing.T) {
	t.Parallel()

	fake := &fakeLLM{response: textResponse("Subject: Ok\n\nFine.")}
	svc := NewService(fake, "", 0.7, 1000)

	if _, err := svc.Generate(context.Background(), strings.Repeat("a", MaxPromptChars)); err != nil {
		t.Fatalf("prompt at the limit should be accepted: %v", err)
	}
	if fake.calls != 1 {
		t.Errorf("upstream called %d times, want 1", fake.calls)
	}
}

func TestGenerateEmptyCompletion(t *testing.T) {
	t.Parallel()

	fake := &fakeLLM{response: textResponse("   \n ")}
	svc := NewService(fake, "", 0.7, 1000)

	_, err := svc.Generate(context.Background(), "write something")
	assertCode(t, err, ErrEmptyCompletion.Code)
}

func TestGenerateClassifiesUpstreamErrors(t *testing.T) {
	t.Parallel()

	upstream := errx.NewRegistry("FAKE")
	authCode := upstream.Register("AUTH", errx.TypeAuthorization, 401, "bad key")
	throttleCode := upstream.Register("THROTTLE", errx.TypeThrottled, 429, "slow down")
	otherCode := upstream.Register("BOOM", errx.TypeExternal, 502, "boom")

	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"auth failure", upstream.New(authCode), ErrAuthFailure.Code},
		{"throttled", upstream.New(throttleCode), ErrThrottled.Code},
		{"other upstream", upstream.New(otherCode), ErrUpstreamUnavailable.Code},
		{"plain error", context.DeadlineExceeded, ErrUpstreamUnavailable.Code},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := &fakeLLM{err: tt.err}
			svc := NewService(fake, "", 0.7, 1000)

			_, err := svc.Generate(context.Background(), "prompt")
			assertCode(t, err, tt.wantCode)
		})
	}
}

func TestSplitSubjectLineCaseInsensitive(t *testing.T) {
	t.Parallel()

	subject, body := splitSubjectLine("subject: hello\nworld")
	if subject != "hello" {
		t.Errorf("subject = %q, want %q", subject, "hello")
	}
	if body != "world" {
		t.Errorf("body = %q, want %q", body, "world")
	}
}

func assertCode(t *testing.T, err error, wantCode string) {
	t.Helper()

	if err == nil {
		t.Fatal("expected an error")
	}
	var e *errx.Error
	if !errx.As(err, &e) {
		t.Fatalf("error is not an errx.Error: %v", err)
	}
	if e.Code != wantCode {
		t.Fatalf("error code = %q, want %q", e.Code, wantCode)
	}
}

package dispatch

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/scriven-ai/scriven/pkg/errx"
	"github.com/scriven-ai/scriven/pkg/relay"
)

type fakeRelay struct {
	mu        sync.Mutex
	probeErr  error
	failFor   map[string]error
	probes    int
	envelopes []relay.Envelope
}

func (f *fakeRelay) Probe(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes++
	return f.probeErr
}

func (f *fakeRelay) Send(_ context.Context, env relay.Envelope) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.envelopes = append(f.envelopes, env)
	if err, ok := f.failFor[env.To]; ok {
		return "", err
	}
	return "msg-" + env.To, nil
}

func (f *fakeRelay) sendCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.envelopes)
}

func newService(r relay.Relay, parallelism int) *Service {
	return NewService(r, "noreply@scriven.dev", "Scriven", parallelism, time.Second)
}

func TestDispatchAllSucceed(t *testing.T) {
	t.Parallel()

	fake := &fakeRelay{}
	svc := newService(fake, 1)

	out, err := svc.Dispatch(context.Background(),
		[]string{"a@example.com", "b@example.com", "c@example.com"},
		"Hello", "World")
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if out.SentCount != 3 {
		t.Errorf("sentCount = %d, want 3", out.SentCount)
	}
	if len(out.FailedRecipients) != 0 {
		t.Errorf("failedRecipients = %v, want empty", out.FailedRecipients)
	}
	if !out.OverallSuccess {
		t.Error("overallSuccess should be true")
	}
	if len(out.Results) != 3 {
		t.Fatalf("results = %d, want one per recipient", len(out.Results))
	}
	for _, res := range out.Results {
		if !res.Success {
			t.Errorf("result for %q should be a success", res.To)
		}
		if res.MessageID != "msg-"+res.To {
			t.Errorf("messageID = %q, want the relay's ID for %q", res.MessageID, res.To)
		}
	}
}

func TestDispatchPreservesPlusAddress(t *testing.T) {
	t.Parallel()

	fake := &fakeRelay{}
	svc := newService(fake, 1)

	_, err := svc.Dispatch(context.Background(),
		[]string{" John+News@Example.com "}, "Hello", "World")
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if fake.sendCount() != 1 {
		t.Fatalf("sends = %d, want 1", fake.sendCount())
	}
	if got := fake.envelopes[0].To; got != "john+news@example.com" {
		t.Errorf("to = %q, want the plus tag kept with only case and whitespace normalized", got)
	}
}

func TestDispatchPartialFailureIsSuccess(t *testing.T) {
	t.Parallel()

	fake := &fakeRelay{failFor: map[string]error{
		"b@example.com": errors.New("mailbox full"),
	}}
	svc := newService(fake, 1)

	out, err := svc.Dispatch(context.Background(),
		[]string{"a@example.com", "b@example.com", "c@example.com"},
		"Hello", "World")
	if err != nil {
		t.Fatalf("partial failure must not be an error: %v", err)
	}
	if out.SentCount != 2 {
		t.Errorf("sentCount = %d, want 2", out.SentCount)
	}
	if len(out.FailedRecipients) != 1 || out.FailedRecipients[0] != "b@example.com" {
		t.Errorf("failedRecipients = %v, want [b@example.com]", out.FailedRecipients)
	}
	if !out.OverallSuccess {
		t.Error("overallSuccess should be true on partial failure")
	}
	if len(out.Results) != 3 {
		t.Fatalf("results = %d, want one per recipient", len(out.Results))
	}
	if out.Results[1].Success || out.Results[1].Error == "" {
		t.Errorf("result for %q should carry the send failure", out.Results[1].To)
	}
	if !out.Results[0].Success || out.Results[0].MessageID == "" {
		t.Errorf("result for %q should carry a message ID", out.Results[0].To)
	}
}

func TestDispatchAllSendsFailed(t *testing.T) {
	t.Parallel()

	fake := &fakeRelay{failFor: map[string]error{
		"a@example.com": errors.New("bounced"),
		"b@example.com": errors.New("bounced"),
	}}
	svc := newService(fake, 1)

	out, err := svc.Dispatch(context.Background(),
		[]string{"a@example.com", "b@example.com"},
		"Hello", "World")
	assertCode(t, err, ErrAllSendsFailed.Code)
	if out.SentCount != 0 {
		t.Errorf("sentCount = %d, want 0", out.SentCount)
	}
	if len(out.FailedRecipients) != 2 {
		t.Errorf("failedRecipients = %v, want both", out.FailedRecipients)
	}
	if out.OverallSuccess {
		t.Error("overallSuccess should be false when nothing was sent")
	}
}

func TestDispatchProbeFailureAbortsBeforeSends(t *testing.T) {
	t.Parallel()

	fake := &fakeRelay{probeErr: errors.New("connection refused")}
	svc := newService(fake, 1)

	_, err := svc.Dispatch(context.Background(),
		[]string{"a@example.com"}, "Hello", "World")
	assertCode(t, err, ErrRelayUnavailable.Code)
	if fake.sendCount() != 0 {
		t.Errorf("sends attempted after failed probe: %d", fake.sendCount())
	}
}

func TestDispatchMissingFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		recipients []string
		subject    string
		content    string
	}{
		{"no recipients", nil, "Hello", "World"},
		{"blank subject", []string{"a@example.com"}, "   ", "World"},
		{"blank content", []string{"a@example.com"}, "Hello", "\n\t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := &fakeRelay{}
			svc := newService(fake, 1)

			_, err := svc.Dispatch(context.Background(), tt.recipients, tt.subject, tt.content)
			assertCode(t, err, ErrMissingField.Code)
			if fake.probes != 0 || fake.sendCount() != 0 {
				t.Error("relay must not be touched on a missing field")
			}
		})
	}
}

func TestDispatchInvalidRecipientsListsAllOffenders(t *testing.T) {
	t.Parallel()

	fake := &fakeRelay{}
	svc := newService(fake, 1)

	_, err := svc.Dispatch(context.Background(),
		[]string{"good@example.com", "bad", "also-bad@", "fine@example.org"},
		"Hello", "World")
	assertCode(t, err, ErrInvalidRecipients.Code)

	var e *errx.Error
	errx.As(err, &e)
	got, _ := e.Details["failedRecipients"].([]string)
	want := []string{"bad", "also-bad@"}
	if len(got) != len(want) {
		t.Fatalf("failedRecipients = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("failedRecipients[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if fake.sendCount() != 0 {
		t.Error("no send may happen when validation fails")
	}
}

func TestDispatchDuplicateBatchRejected(t *testing.T) {
	t.Parallel()

	fake := &fakeRelay{}
	svc := newService(fake, 1)

	_, err := svc.Dispatch(context.Background(),
		[]string{"a@example.com", " A@EXAMPLE.COM "}, "Hello", "World")
	assertCode(t, err, ErrInvalidRecipients.Code)
}

func TestDispatchUnsafeMarkupOnlyContent(t *testing.T) {
	t.Parallel()

	fake := &fakeRelay{}
	svc := newService(fake, 1)

	_, err := svc.Dispatch(context.Background(),
		[]string{"a@example.com"}, "Hello",
		"<script>alert(1)</script>")
	assertCode(t, err, ErrMissingField.Code)
	if fake.probes != 0 {
		t.Error("relay must not be probed when content sanitizes to empty")
	}
}

func TestDispatchEnvelopeShape(t *testing.T) {
	t.Parallel()

	fake := &fakeRelay{}
	svc := newService(fake, 1)

	_, err := svc.Dispatch(context.Background(),
		[]string{" User@Example.COM "}, "Greetings", "line one\nline two")
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if fake.sendCount() != 1 {
		t.Fatalf("sends = %d, want 1", fake.sendCount())
	}

	env := fake.envelopes[0]
	if env.To != "user@example.com" {
		t.Errorf("to = %q, want sanitized lower-case address", env.To)
	}
	if env.From != "noreply@scriven.dev" {
		t.Errorf("from = %q", env.From)
	}
	if env.TextBody != "line one\nline two" {
		t.Errorf("text body = %q", env.TextBody)
	}
	if env.HTMLBody != "line one<br>line two" {
		t.Errorf("html body = %q, want <br> line breaks", env.HTMLBody)
	}
}

func TestDispatchParallelSettlesEveryRecipient(t *testing.T) {
	t.Parallel()

	fake := &fakeRelay{failFor: map[string]error{
		"fail1@example.com": errors.New("boom"),
		"fail2@example.com": errors.New("boom"),
	}}
	svc := newService(fake, 4)

	recipients := []string{
		"ok1@example.com", "fail1@example.com", "ok2@example.com",
		"fail2@example.com", "ok3@example.com",
	}
	out, err := svc.Dispatch(context.Background(), recipients, "Hello", "World")
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if out.SentCount != 3 {
		t.Errorf("sentCount = %d, want 3", out.SentCount)
	}

	failed := append([]string(nil), out.FailedRecipients...)
	sort.Strings(failed)
	want := []string{"fail1@example.com", "fail2@example.com"}
	if len(failed) != 2 || failed[0] != want[0] || failed[1] != want[1] {
		t.Errorf("failedRecipients = %v, want %v", failed, want)
	}
	if fake.sendCount() != len(recipients) {
		t.Errorf("sends = %d, want %d", fake.sendCount(), len(recipients))
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

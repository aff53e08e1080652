package checkin

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"
	"time"

	"github.com/julianstephens/moodcheck/internal/remote"
)

func dialError() error {
	return &url.Error{
		Op:  "Post",
		URL: "http://127.0.0.1:1/mood-checkins",
		Err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantKind    Kind
		wantTimeout bool
		wantStatus  int
	}{
		{"client rate limit", remote.ErrRateLimited, KindRateLimited, false, 0},
		{"429", &remote.StatusError{StatusCode: 429}, KindRateLimited, false, 429},
		{"zero status", &remote.StatusError{StatusCode: 0}, KindNetworkUnavailable, false, 0},
		{"500", &remote.StatusError{StatusCode: 500}, KindServerError, false, 500},
		{"503 wrapped", fmt.Errorf("submit: %w", &remote.StatusError{StatusCode: 503}), KindServerError, false, 503},
		{"400", &remote.StatusError{StatusCode: 400}, KindValidationError, false, 400},
		{"422", &remote.StatusError{StatusCode: 422, Body: "mood_level is required"}, KindValidationError, false, 422},
		{"499", &remote.StatusError{StatusCode: 499}, KindValidationError, false, 499},
		{"302", &remote.StatusError{StatusCode: 302}, KindUnknown, false, 302},
		{"deadline", fmt.Errorf("failed to execute request: %w", &url.Error{Op: "Post", URL: "x", Err: context.DeadlineExceeded}), KindNetworkUnavailable, true, 0},
		{"dial failure", dialError(), KindNetworkUnavailable, false, 0},
		{"canceled", context.Canceled, KindUnknown, false, 0},
		{"decode failure", errors.New("failed to decode response: unexpected EOF"), KindUnknown, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got == nil {
				t.Fatal("expected a classification")
			}
			if got.Kind != tt.wantKind {
				t.Errorf("expected kind %s, got %s", tt.wantKind, got.Kind)
			}
			if got.Timeout != tt.wantTimeout {
				t.Errorf("expected timeout=%v, got %v", tt.wantTimeout, got.Timeout)
			}
			if got.StatusCode != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, got.StatusCode)
			}
			if got.Message == "" {
				t.Error("every classification needs a user-facing message")
			}
			if !errors.Is(got, tt.err) {
				t.Error("classification should wrap the original error")
			}
		})
	}
}

func TestClassifyNil(t *testing.T) {
	if Classify(nil) != nil {
		t.Error("expected nil for nil error")
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	first := Classify(&remote.StatusError{StatusCode: 500})
	if again := Classify(fmt.Errorf("wrapped: %w", first)); again != first {
		t.Error("classifying a SubmissionError should return it unchanged")
	}
}

func TestTimeoutMessageDiffers(t *testing.T) {
	timeout := Classify(context.DeadlineExceeded)
	offline := Classify(dialError())
	if timeout.Message == offline.Message {
		t.Error("timeouts should carry a distinct message")
	}
}

func TestRateLimitedRetryAfterMessage(t *testing.T) {
	got := Classify(&remote.StatusError{StatusCode: 429, RetryAfter: 30 * time.Second})
	if got.Message != "Sending too fast. Wait 30s and try again." {
		t.Errorf("unexpected message %q", got.Message)
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		err  *SubmissionError
		want bool
	}{
		{&SubmissionError{Kind: KindServerError}, true},
		{&SubmissionError{Kind: KindNetworkUnavailable}, true},
		{&SubmissionError{Kind: KindNetworkUnavailable, Timeout: true}, false},
		{&SubmissionError{Kind: KindValidationError}, false},
		{&SubmissionError{Kind: KindRateLimited}, false},
		{&SubmissionError{Kind: KindUnknown}, false},
	}
	for _, tt := range tests {
		if got := tt.err.Retryable(); got != tt.want {
			t.Errorf("%s (timeout=%v): expected %v, got %v", tt.err.Kind, tt.err.Timeout, tt.want, got)
		}
	}
}

func TestKindCategory(t *testing.T) {
	tests := map[Kind]Category{
		KindRateLimited:        CategoryGeneral,
		KindUnknown:            CategoryGeneral,
		KindNetworkUnavailable: CategoryNetwork,
		KindValidationError:    CategoryValidation,
		KindServerError:        CategoryServer,
	}
	for kind, want := range tests {
		if got := kind.Category(); got != want {
			t.Errorf("%s: expected %s, got %s", kind, want, got)
		}
	}
}

func TestErrorStateMessage(t *testing.T) {
	var s ErrorState
	if s.Any() {
		t.Error("zero ErrorState should be empty")
	}
	if c, msg := s.Message(); c != "" || msg != "" {
		t.Errorf("expected no message, got %s %q", c, msg)
	}

	s = s.with(CategoryServer, "boom")
	if !s.Any() {
		t.Error("expected Any after setting server error")
	}
	if c, msg := s.Message(); c != CategoryServer || msg != "boom" {
		t.Errorf("unexpected message %s %q", c, msg)
	}
}

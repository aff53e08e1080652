package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julianstephens/moodcheck/internal/models"
)

func testRequest() MoodRequest {
	return MoodRequest{
		ID:        models.EntryID("2024-05-01", models.PeriodManha),
		MoodLevel: models.MoodBem,
		Period:    models.PeriodManha,
		Timestamp: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestSubmitMoodSendsRequest(t *testing.T) {
	var gotBody MoodRequest
	var gotHeaders http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/mood-checkins" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotHeaders = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"abc","status":{"date":"2024-05-01","manha":true}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/api/", "secret", 0)
	req := testRequest()
	ack, err := client.SubmitMood(context.Background(), req, CallOptions{
		Priority:       "high",
		Tag:            "mood-checkin",
		IdempotencyKey: req.ID,
	})
	if err != nil {
		t.Fatalf("SubmitMood failed: %v", err)
	}

	if gotBody.MoodLevel != models.MoodBem || gotBody.Period != models.PeriodManha || gotBody.ID != req.ID {
		t.Errorf("unexpected body %+v", gotBody)
	}
	for header, want := range map[string]string{
		"Authorization":      "Bearer secret",
		"Idempotency-Key":    req.ID,
		"X-Request-Priority": "high",
		"X-Request-Tag":      "mood-checkin",
		"Content-Type":       "application/json",
	} {
		if got := gotHeaders.Get(header); got != want {
			t.Errorf("header %s: expected %q, got %q", header, want, got)
		}
	}
	if gotHeaders.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}

	if ack.ID != "abc" || ack.Status == nil || !ack.Status.Manha {
		t.Errorf("unexpected ack %+v", ack)
	}
}

func TestSubmitMoodEmptyAck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("no Authorization header expected without a token")
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	ack, err := NewClient(server.URL, "", 0).SubmitMood(context.Background(), testRequest(), CallOptions{})
	if err != nil {
		t.Fatalf("SubmitMood failed: %v", err)
	}
	if ack.Status != nil {
		t.Errorf("expected no snapshot, got %+v", ack.Status)
	}
}

func TestSubmitMoodStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down\n"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "", 0).SubmitMood(context.Background(), testRequest(), CallOptions{})

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T: %v", err, err)
	}
	if statusErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", statusErr.StatusCode)
	}
	if statusErr.Body != "slow down" {
		t.Errorf("unexpected body %q", statusErr.Body)
	}
	if statusErr.RetryAfter != 30*time.Second {
		t.Errorf("expected Retry-After 30s, got %v", statusErr.RetryAfter)
	}
}

func TestSubmitMoodDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(server.URL, "", 0).SubmitMood(ctx, testRequest(), CallOptions{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestSubmitMoodClientRateLimit(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 1)
	if _, err := client.SubmitMood(context.Background(), testRequest(), CallOptions{}); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if _, err := client.SubmitMood(context.Background(), testRequest(), CallOptions{}); !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
	if calls != 1 {
		t.Errorf("rate-limited call should not reach the server, got %d calls", calls)
	}
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	if err := NewClient(server.URL, "", 0).Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
	if err := NewClient(server.URL+"/missing", "", 0).Ping(context.Background()); err == nil {
		t.Error("expected Ping error for 404")
	}
}

package remote

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/moodcheck/internal/models"
)

// ErrRateLimited is returned without contacting the server when the client
// side submission budget is exhausted.
var ErrRateLimited = errors.New("submission rate limit exceeded")

// MoodRequest is the body of a check-in submission.
type MoodRequest struct {
	ID        string            `json:"id"`
	MoodLevel models.MoodLevel  `json:"mood_level"`
	Period    models.MoodPeriod `json:"period"`
	Notes     string            `json:"notes,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// CallOptions carries transport annotations that do not change the payload.
type CallOptions struct {
	Priority       string
	Tag            string
	IdempotencyKey string
}

// StatusSnapshot is the server's view of which periods of a day are answered.
type StatusSnapshot struct {
	Date  string `json:"date"`
	Manha bool   `json:"manha"`
	Tarde bool   `json:"tarde"`
	Noite bool   `json:"noite"`
}

func (s StatusSnapshot) MoodStatus() models.MoodStatus {
	return models.MoodStatus{
		Date:  s.Date,
		Manha: s.Manha,
		Tarde: s.Tarde,
		Noite: s.Noite,
	}
}

// Ack is a successful submission response. Status is nil when the server
// does not return a snapshot.
type Ack struct {
	ID     string          `json:"id,omitempty"`
	Status *StatusSnapshot `json:"status,omitempty"`
}

// StatusError is a non-2xx response from the server.
type StatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Body)
}

package checkin

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/julianstephens/moodcheck/internal/remote"
)

// ErrSubmissionInFlight is returned when a different mood is submitted for a
// period that already has a submission outstanding.
var ErrSubmissionInFlight = errors.New("a different mood is already being submitted for this period")

// Kind classifies a failed submission.
type Kind string

const (
	KindRateLimited        Kind = "rate_limited"
	KindNetworkUnavailable Kind = "network_unavailable"
	KindServerError        Kind = "server_error"
	KindValidationError    Kind = "validation_error"
	KindUnknown            Kind = "unknown"
)

// Category returns the ErrorState slot a failure of this kind is shown in.
func (k Kind) Category() Category {
	switch k {
	case KindNetworkUnavailable:
		return CategoryNetwork
	case KindValidationError:
		return CategoryValidation
	case KindServerError:
		return CategoryServer
	default:
		return CategoryGeneral
	}
}

// SubmissionError is the classified result of a failed submission. Message
// is suitable for showing to the user; Err carries the underlying cause.
type SubmissionError struct {
	Kind       Kind
	Message    string
	Timeout    bool
	StatusCode int
	Err        error
}

func (e *SubmissionError) Error() string {
	return e.Message
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the pipeline may retry the call automatically.
// Timeouts are not retried.
func (e *SubmissionError) Retryable() bool {
	switch e.Kind {
	case KindServerError:
		return true
	case KindNetworkUnavailable:
		return !e.Timeout
	}
	return false
}

const (
	msgRateLimited = "Sending too fast. Wait a moment and try again."
	msgNetwork     = "No connection. Check your network and try again."
	msgTimeout     = "The server took too long to respond. Try again."
	msgServer      = "The server had a problem. Try again later."
	msgValidation  = "The check-in was rejected by the server."
	msgUnknown     = "Something went wrong while saving your check-in."
)

// Classify maps any error from the remote call to exactly one
// SubmissionError. It returns nil only for a nil error.
func Classify(err error) *SubmissionError {
	if err == nil {
		return nil
	}

	var serr *SubmissionError
	if errors.As(err, &serr) {
		return serr
	}

	if errors.Is(err, remote.ErrRateLimited) {
		return &SubmissionError{Kind: KindRateLimited, Message: msgRateLimited, Err: err}
	}

	var statusErr *remote.StatusError
	if errors.As(err, &statusErr) {
		return classifyStatus(statusErr)
	}

	if isTimeout(err) {
		return &SubmissionError{Kind: KindNetworkUnavailable, Message: msgTimeout, Timeout: true, Err: err}
	}

	if errors.Is(err, context.Canceled) {
		return &SubmissionError{Kind: KindUnknown, Message: msgUnknown, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &SubmissionError{Kind: KindNetworkUnavailable, Message: msgNetwork, Err: err}
	}

	return &SubmissionError{Kind: KindUnknown, Message: msgUnknown, Err: err}
}

func classifyStatus(e *remote.StatusError) *SubmissionError {
	out := &SubmissionError{StatusCode: e.StatusCode, Err: e}

	switch {
	case e.StatusCode == http.StatusTooManyRequests:
		out.Kind = KindRateLimited
		out.Message = msgRateLimited
		if e.RetryAfter > 0 {
			out.Message = fmt.Sprintf("Sending too fast. Wait %s and try again.", e.RetryAfter.Round(time.Second))
		}
	case e.StatusCode == 0:
		out.Kind = KindNetworkUnavailable
		out.Message = msgNetwork
	case e.StatusCode >= 500:
		out.Kind = KindServerError
		out.Message = msgServer
	case e.StatusCode >= 400:
		out.Kind = KindValidationError
		out.Message = msgValidation
		if e.Body != "" {
			out.Message = msgValidation + " " + e.Body
		}
	default:
		out.Kind = KindUnknown
		out.Message = msgUnknown
	}
	return out
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Category names a slot of ErrorState.
type Category string

const (
	CategoryGeneral    Category = "general"
	CategoryNetwork    Category = "network"
	CategoryValidation Category = "validation"
	CategoryServer     Category = "server"
)

// ErrorState holds the user-facing failure message per category. An empty
// string means no error in that category.
type ErrorState struct {
	General    string
	Network    string
	Validation string
	Server     string
}

// Any reports whether any category holds an error.
func (s ErrorState) Any() bool {
	return s.General != "" || s.Network != "" || s.Validation != "" || s.Server != ""
}

// Message returns the first non-empty message, checked in a fixed order.
func (s ErrorState) Message() (Category, string) {
	switch {
	case s.Network != "":
		return CategoryNetwork, s.Network
	case s.Server != "":
		return CategoryServer, s.Server
	case s.Validation != "":
		return CategoryValidation, s.Validation
	case s.General != "":
		return CategoryGeneral, s.General
	}
	return "", ""
}

func (s ErrorState) with(c Category, msg string) ErrorState {
	switch c {
	case CategoryNetwork:
		s.Network = msg
	case CategoryValidation:
		s.Validation = msg
	case CategoryServer:
		s.Server = msg
	default:
		s.General = msg
	}
	return s
}

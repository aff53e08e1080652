// Package checkin records a mood for the current period, writing it locally
// first and then confirming it with the remote API.
package checkin

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/julianstephens/moodcheck/internal/clock"
	"github.com/julianstephens/moodcheck/internal/constants"
	"github.com/julianstephens/moodcheck/internal/entries"
	"github.com/julianstephens/moodcheck/internal/gating"
	"github.com/julianstephens/moodcheck/internal/logger"
	"github.com/julianstephens/moodcheck/internal/metrics"
	"github.com/julianstephens/moodcheck/internal/models"
	"github.com/julianstephens/moodcheck/internal/remote"
	"github.com/julianstephens/moodcheck/internal/statuscache"
)

// Remote is the network call that records a check-in.
type Remote interface {
	SubmitMood(ctx context.Context, req remote.MoodRequest, opts remote.CallOptions) (remote.Ack, error)
}

// Notifier receives a short message when a check-in is saved.
type Notifier interface {
	Notify(msg string) error
}

// Config bounds the remote call.
type Config struct {
	// Timeout applies to each attempt.
	Timeout time.Duration
	// MaxRetries is the number of extra attempts after the first.
	MaxRetries      int
	RetryBackoff    time.Duration
	MaxRetryBackoff time.Duration
	// OfflineTolerant marks the period answered when the network is
	// unavailable. The error is still returned.
	OfflineTolerant bool
	Priority        string
	Tag             string
}

func DefaultConfig() Config {
	return Config{
		Timeout:         constants.DefaultSubmitTimeout,
		MaxRetries:      constants.DefaultMaxRetries,
		RetryBackoff:    constants.DefaultRetryBackoff,
		MaxRetryBackoff: constants.DefaultMaxRetryBackoff,
		Priority:        constants.SubmitPriority,
		Tag:             constants.SubmitTag,
	}
}

const jitterFactor = 0.2

type Option func(*Pipeline)

func WithMetrics(m *metrics.CheckinMetrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

func WithNotifier(n Notifier) Option {
	return func(p *Pipeline) { p.notifier = n }
}

type SubmitOption func(*submitParams)

type submitParams struct {
	notes string
}

// WithNotes attaches free text to the check-in.
func WithNotes(notes string) SubmitOption {
	return func(p *submitParams) { p.notes = notes }
}

type pending struct {
	mood    models.MoodLevel
	waiters int
}

type Pipeline struct {
	clock    clock.Clock
	entries  *entries.Repository
	cache    *statuscache.Cache
	remote   Remote
	cfg      Config
	metrics  *metrics.CheckinMetrics
	notifier Notifier

	group singleflight.Group
	sleep func(ctx context.Context, d time.Duration) error

	mu       sync.Mutex
	inFlight map[string]*pending
	errs     ErrorState
}

func New(c clock.Clock, repo *entries.Repository, cache *statuscache.Cache, r Remote, cfg Config, opts ...Option) *Pipeline {
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.DefaultSubmitTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = constants.DefaultRetryBackoff
	}
	if cfg.MaxRetryBackoff < cfg.RetryBackoff {
		cfg.MaxRetryBackoff = cfg.RetryBackoff
	}

	p := &Pipeline{
		clock:    c,
		entries:  repo,
		cache:    cache,
		remote:   r,
		cfg:      cfg,
		sleep:    sleepContext,
		inFlight: make(map[string]*pending),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Submit records mood for the current period. On failure the returned error
// is a *SubmissionError, except for ErrSubmissionInFlight.
func (p *Pipeline) Submit(ctx context.Context, mood models.MoodLevel, opts ...SubmitOption) (remote.Ack, error) {
	var params submitParams
	for _, opt := range opts {
		opt(&params)
	}

	if !mood.Valid() {
		serr := &SubmissionError{
			Kind:    KindValidationError,
			Message: fmt.Sprintf("Unknown mood %q.", mood),
		}
		p.recordError(serr)
		return remote.Ack{}, serr
	}

	now := p.clock.Now()
	period := gating.CurrentPeriod(now)
	date := now.Format(constants.DateFormat)
	entry := models.MoodEntry{
		ID:        models.EntryID(date, period),
		Mood:      mood,
		Period:    period,
		Date:      date,
		Timestamp: now,
		Notes:     params.notes,
	}

	if err := p.acquire(entry.ID, mood); err != nil {
		return remote.Ack{}, err
	}
	defer p.release(entry.ID)

	v, err, shared := p.group.Do(entry.ID, func() (interface{}, error) {
		return p.run(ctx, entry)
	})
	if shared {
		logger.Debug("Coalesced duplicate submission", "id", entry.ID)
	}

	ack, _ := v.(remote.Ack)
	return ack, err
}

func (p *Pipeline) acquire(id string, mood models.MoodLevel) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cur, ok := p.inFlight[id]; ok {
		if cur.mood != mood {
			return ErrSubmissionInFlight
		}
		cur.waiters++
		return nil
	}
	p.inFlight[id] = &pending{mood: mood, waiters: 1}
	p.metrics.SetInFlight(true)
	return nil
}

func (p *Pipeline) release(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cur, ok := p.inFlight[id]
	if !ok {
		return
	}
	cur.waiters--
	if cur.waiters <= 0 {
		delete(p.inFlight, id)
	}
	if len(p.inFlight) == 0 {
		p.metrics.SetInFlight(false)
	}
}

func (p *Pipeline) run(ctx context.Context, entry models.MoodEntry) (remote.Ack, error) {
	start := time.Now()
	sub := &submission{}

	if err := sub.advance(StateWriting); err != nil {
		return remote.Ack{}, err
	}
	if err := p.entries.Append(entry); err != nil {
		// The remote call still goes ahead; the entry is rewritten next time.
		logger.Error("Failed to write mood entry locally", "id", entry.ID, "error", err)
	}

	if err := sub.advance(StateAwaitingAck); err != nil {
		return remote.Ack{}, err
	}
	ack, err := p.send(ctx, entry)

	if err == nil {
		if err := sub.advance(StateCommitted); err != nil {
			return remote.Ack{}, err
		}
		p.reconcile(sub, entry, ack.Status)
		p.metrics.RecordSubmission(string(entry.Period), metrics.OutcomeCommitted, time.Since(start))
		logger.Info("Mood check-in saved", "date", entry.Date, "period", entry.Period, "mood", entry.Mood)
		p.notify(fmt.Sprintf("Mood check-in saved (%s)", entry.Period))
		return ack, nil
	}

	serr := Classify(err)
	outcome := metrics.OutcomeFailed
	if serr.Kind == KindNetworkUnavailable && p.cfg.OfflineTolerant {
		if err := sub.advance(StateDeferred); err != nil {
			return remote.Ack{}, err
		}
		p.reconcile(sub, entry, nil)
		outcome = metrics.OutcomeDeferred
		p.notify(fmt.Sprintf("Mood check-in saved offline (%s)", entry.Period))
	} else if err := sub.advance(StateFailed); err != nil {
		return remote.Ack{}, err
	}

	p.recordError(serr)
	p.metrics.RecordSubmission(string(entry.Period), outcome, time.Since(start))
	logger.Warn("Mood check-in failed", "period", entry.Period, "kind", serr.Kind, "state", sub.state, "error", serr.Err)
	return remote.Ack{}, serr
}

// send performs the remote call with per-attempt timeouts and bounded
// retries for transient failures.
func (p *Pipeline) send(ctx context.Context, entry models.MoodEntry) (remote.Ack, error) {
	req := remote.MoodRequest{
		ID:        entry.ID,
		MoodLevel: entry.Mood,
		Period:    entry.Period,
		Notes:     entry.Notes,
		Timestamp: entry.Timestamp,
	}
	callOpts := remote.CallOptions{
		Priority:       p.cfg.Priority,
		Tag:            p.cfg.Tag,
		IdempotencyKey: entry.ID,
	}

	backoff := p.cfg.RetryBackoff
	for attempt := 0; ; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
		p.metrics.RecordAttempt()
		ack, err := p.remote.SubmitMood(attemptCtx, req, callOpts)
		cancel()
		if err == nil {
			return ack, nil
		}

		serr := Classify(err)
		if attempt >= p.cfg.MaxRetries || !serr.Retryable() || ctx.Err() != nil {
			return remote.Ack{}, serr
		}

		wait := withJitter(backoff)
		logger.Debug("Retrying mood submission", "attempt", attempt+1, "kind", serr.Kind, "wait", wait)
		if err := p.sleep(ctx, wait); err != nil {
			return remote.Ack{}, serr
		}

		backoff *= 2
		if backoff > p.cfg.MaxRetryBackoff {
			backoff = p.cfg.MaxRetryBackoff
		}
	}
}

// reconcile updates the status cache after an ack or a deferred write. The
// server snapshot replaces the local status when it describes the same day.
func (p *Pipeline) reconcile(sub *submission, entry models.MoodEntry, snapshot *remote.StatusSnapshot) {
	if !sub.state.MarksAnswered() {
		logger.Error("Refusing to mark period answered", "state", sub.state)
		return
	}

	if snapshot != nil {
		status := snapshot.MoodStatus()
		if status.Date == "" {
			status.Date = entry.Date
		}
		if status.Date == entry.Date {
			p.cache.Set(status)
			return
		}
		logger.Debug("Ignoring status snapshot for another day", "snapshot", status.Date, "entry", entry.Date)
	}
	p.cache.UpdatePeriodFor(entry.Date, entry.Period, true)
}

func (p *Pipeline) notify(msg string) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.Notify(msg); err != nil {
		logger.Debug("Notification failed", "error", err)
	}
}

func (p *Pipeline) recordError(serr *SubmissionError) {
	p.metrics.RecordFailure(string(serr.Kind))

	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs = ErrorState{}.with(serr.Kind.Category(), serr.Message)
}

// Deferred reports whether err is a network failure that was recorded
// locally because offline-tolerant mode is on.
func (p *Pipeline) Deferred(err error) bool {
	var serr *SubmissionError
	return p.cfg.OfflineTolerant && errors.As(err, &serr) && serr.Kind == KindNetworkUnavailable
}

// InFlight reports whether any submission is outstanding.
func (p *Pipeline) InFlight() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.inFlight) > 0
}

// Errors returns the currently surfaced failure state.
func (p *Pipeline) Errors() ErrorState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errs
}

// ClearErrors dismisses every surfaced failure without retrying.
func (p *Pipeline) ClearErrors() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs = ErrorState{}
}

func (p *Pipeline) ClearError(c Category) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs = p.errs.with(c, "")
}

// Decision evaluates the gating decision for the current instant.
func (p *Pipeline) Decision() gating.Decision {
	return gating.Evaluate(p.clock.Now(), p.cache.Get(), p.InFlight())
}

func withJitter(base time.Duration) time.Duration {
	jitter := (rand.Float64()*2 - 1) * jitterFactor
	return time.Duration(float64(base) * (1 + jitter))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Package ingestion submits receipt photos to the remote OCR service and polls
// for the processed line items.
//
// A Poller owns at most one active Job. Starting a new job cancels the previous
// one, and a cancelled job never reports an outcome.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rlee603166/sharify/internal/metrics"
	"github.com/rlee603166/sharify/internal/models"
)

const (
	// DefaultPollInterval is the wait before each status request.
	DefaultPollInterval = 2000 * time.Millisecond

	// DefaultMaxPollAttempts is the poll budget for one job.
	DefaultMaxPollAttempts = 10
)

var (
	ErrUploadFailed    = errors.New("upload failed")
	ErrPollingFailed   = errors.New("polling failed")
	ErrPollingTimedOut = errors.New("polling timed out")
)

// State is the lifecycle state of a Job.
type State int

const (
	Idle State = iota
	Uploading
	Polling
	Completed
	Failed
	TimedOut
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Uploading:
		return "uploading"
	case Polling:
		return "polling"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case TimedOut:
		return "timed_out"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further transitions can occur from s.
func (s State) Terminal() bool {
	return s == Completed || s == Failed || s == TimedOut
}

// Outcome is the terminal result of a Job.
type Outcome struct {
	State     State
	ReceiptID string

	// Receipt holds the processed items when State is Completed.
	Receipt *models.Receipt

	// Err wraps ErrUploadFailed, ErrPollingFailed or ErrPollingTimedOut
	// when State is not Completed.
	Err error

	// Attempts is the number of status requests issued.
	Attempts int
}

// Option configures a Poller.
type Option func(*Poller)

// WithInterval overrides DefaultPollInterval.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithMaxAttempts overrides DefaultMaxPollAttempts.
func WithMaxAttempts(n int) Option {
	return func(p *Poller) {
		if n > 0 {
			p.maxAttempts = n
		}
	}
}

// WithMetrics records poll attempts and outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Poller) {
		p.metrics = m
	}
}

// Poller drives the upload-then-poll protocol for one session.
type Poller struct {
	transport   Transport
	interval    time.Duration
	maxAttempts int
	metrics     *metrics.Metrics

	mu     sync.Mutex
	active *Job
}

// NewPoller creates a poller over the given transport.
func NewPoller(transport Transport, opts ...Option) *Poller {
	p := &Poller{
		transport:   transport,
		interval:    DefaultPollInterval,
		maxAttempts: DefaultMaxPollAttempts,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start uploads img and begins polling in the background. Any job previously
// started by this poller is cancelled first. The job's lifetime is bounded by
// ctx as well as by Cancel.
func (p *Poller) Start(ctx context.Context, img Image, userID string) *Job {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active != nil {
		p.active.Cancel()
	}

	jobCtx, cancel := context.WithCancel(ctx)
	job := &Job{
		cancel: cancel,
		done:   make(chan struct{}),
		state:  Uploading,
	}
	p.active = job

	go p.run(jobCtx, job, img, userID)
	return job
}

// Active returns the most recently started job, or nil.
func (p *Poller) Active() *Job {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Stop cancels the active job, if any.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active != nil {
		p.active.Cancel()
	}
}

func (p *Poller) run(ctx context.Context, job *Job, img Image, userID string) {
	defer close(job.done)

	receiptID, err := p.transport.Upload(ctx, img, userID)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.finish(job, Outcome{State: Failed, Err: fmt.Errorf("%w: %w", ErrUploadFailed, err)})
		return
	}
	job.startPolling(receiptID)
	slog.Debug("Polling receipt", "receipt_id", receiptID, "interval", p.interval, "max_attempts", p.maxAttempts)

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if !sleep(ctx, p.interval) {
			return
		}

		job.recordAttempt(attempt)
		p.metrics.PollAttempt()
		status, err := p.transport.Status(ctx, receiptID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.finish(job, Outcome{
				State:     Failed,
				ReceiptID: receiptID,
				Err:       fmt.Errorf("%w: %w", ErrPollingFailed, err),
				Attempts:  attempt,
			})
			return
		}

		slog.Debug("Poll response", "receipt_id", receiptID, "attempt", attempt, "status", status.Status)
		switch status.Status {
		case models.JobPending:
			continue
		case models.JobCompleted:
			if status.ProcessedData == nil {
				p.finish(job, Outcome{
					State:     Failed,
					ReceiptID: receiptID,
					Err:       fmt.Errorf("%w: completed without processed_data", ErrPollingFailed),
					Attempts:  attempt,
				})
				return
			}
			p.finish(job, Outcome{
				State:     Completed,
				ReceiptID: receiptID,
				Receipt:   status.ProcessedData,
				Attempts:  attempt,
			})
			return
		default:
			p.finish(job, Outcome{
				State:     Failed,
				ReceiptID: receiptID,
				Err:       fmt.Errorf("%w: service reported status %q", ErrPollingFailed, status.Status),
				Attempts:  attempt,
			})
			return
		}
	}

	p.finish(job, Outcome{
		State:     TimedOut,
		ReceiptID: receiptID,
		Err:       fmt.Errorf("%w: still pending after %d attempts", ErrPollingTimedOut, p.maxAttempts),
		Attempts:  p.maxAttempts,
	})
}

func (p *Poller) finish(job *Job, o Outcome) {
	if !job.finish(o) {
		return
	}
	p.metrics.IngestionOutcome(o.State.String())
	if o.Err != nil {
		slog.Warn("Ingestion ended", "receipt_id", o.ReceiptID, "state", o.State.String(), "attempts", o.Attempts, "error", o.Err)
	} else {
		slog.Info("Ingestion completed", "receipt_id", o.ReceiptID, "attempts", o.Attempts, "items", len(o.Receipt.Items))
	}
}

// sleep waits for d or until ctx is done. It reports whether the full
// duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// Job is the handle of one ingestion attempt.
type Job struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu        sync.Mutex
	state     State
	receiptID string
	attempts  int
	cancelled bool
	outcome   *Outcome
	callbacks []func(Outcome)
}

// Status is a point-in-time view of a Job.
type Status struct {
	State     State
	ReceiptID string
	Attempts  int
	Cancelled bool
	Outcome   *Outcome
}

// OnOutcome registers cb to run once with the terminal outcome. If the job has
// already finished, cb runs immediately. Callbacks never run for a cancelled
// job. They run on the polling goroutine and must not block.
func (j *Job) OnOutcome(cb func(Outcome)) {
	j.mu.Lock()
	if j.cancelled {
		j.mu.Unlock()
		return
	}
	if j.outcome != nil {
		o := *j.outcome
		j.mu.Unlock()
		cb(o)
		return
	}
	j.callbacks = append(j.callbacks, cb)
	j.mu.Unlock()
}

// Cancel stops the job. No outcome is reported after Cancel returns unless one
// was already reported.
func (j *Job) Cancel() {
	j.mu.Lock()
	if j.outcome == nil {
		j.cancelled = true
		j.callbacks = nil
	}
	j.mu.Unlock()
	j.cancel()
}

// Done is closed when the polling goroutine exits.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job reaches a terminal outcome, is cancelled, or ctx
// is done.
func (j *Job) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-j.done:
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.outcome == nil {
		return Outcome{}, context.Canceled
	}
	return *j.outcome, nil
}

// Status returns a snapshot of the job.
func (j *Job) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	s := Status{
		State:     j.state,
		ReceiptID: j.receiptID,
		Attempts:  j.attempts,
		Cancelled: j.cancelled,
	}
	if j.outcome != nil && j.state.Terminal() {
		o := *j.outcome
		s.Outcome = &o
	}
	return s
}

func (j *Job) startPolling(receiptID string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.receiptID = receiptID
	j.state = Polling
}

func (j *Job) recordAttempt(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.attempts = n
}

// finish records the outcome and runs callbacks. It returns false if the job
// was cancelled or already finished.
func (j *Job) finish(o Outcome) bool {
	j.mu.Lock()
	if j.cancelled || j.outcome != nil {
		j.mu.Unlock()
		return false
	}
	j.outcome = &o
	callbacks := j.callbacks
	j.callbacks = nil
	j.mu.Unlock()

	for _, cb := range callbacks {
		cb(o)
	}

	// Status reports the terminal state only once callbacks have applied it.
	j.mu.Lock()
	j.state = o.State
	if o.ReceiptID != "" {
		j.receiptID = o.ReceiptID
	}
	j.mu.Unlock()
	return true
}

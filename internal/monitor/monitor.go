package monitor

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/s22625/planwatch/internal/client"
	"github.com/s22625/planwatch/internal/model"
	"github.com/s22625/planwatch/internal/timeline"
)

// Fetcher retrieves execution snapshots. The HTTP client satisfies
// this; tests substitute a scripted fake.
type Fetcher interface {
	FetchSnapshot(ctx context.Context, planID string) (*model.Snapshot, error)
}

// State is the terminal (or in-flight) state of a monitoring session.
type State string

const (
	StatePolling   State = "polling"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateTimedOut  State = "timed_out"
	StateCancelled State = "cancelled"
)

// minStepEstimate is the floor for the total-step estimate. The true
// step count is unknown until completion, so progress is reported
// against at least this many steps to avoid showing 100% early.
const minStepEstimate = 3

// Progress is a point-in-time view of a running monitor, handed to
// the OnProgress callback once per successful poll.
type Progress struct {
	Steps       int
	Estimate    int
	Percent     int
	Elapsed     time.Duration
	CurrentStep string
	Completed   bool
	Stats       timeline.Stats
}

// Result carries whatever a monitoring session accumulated before it
// ended. Terminal failure states still include the partial event
// list; nothing observed is discarded.
type Result struct {
	State    State
	Snapshot *model.Snapshot
	Events   []timeline.Event
	Stats    timeline.Stats
	Elapsed  time.Duration
	Err      error
}

// Options configures a Monitor.
type Options struct {
	// Interval between polls. Defaults to 2s.
	Interval time.Duration
	// Deadline is the maximum wall-clock duration before the session
	// times out. Defaults to 5m.
	Deadline time.Duration
	// OnEvent receives each newly observed event, in order, at most
	// once. Called from the monitor's own goroutine.
	OnEvent func(timeline.Event)
	// OnProgress receives a progress estimate after every successful
	// poll.
	OnProgress func(Progress)
	// Logger receives transient fetch failures. Defaults to discard.
	Logger *log.Logger
}

// Monitor polls a plan's execution record and emits the growing
// event timeline as a live feed. A Monitor is owned by the goroutine
// that calls Run; its accumulators are not safe for concurrent use.
type Monitor struct {
	fetcher Fetcher
	opts    Options

	events   []timeline.Event
	stats    timeline.Stats
	reported int
	estimate int
}

// New creates a monitor using the given fetcher.
func New(fetcher Fetcher, opts Options) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}
	if opts.Deadline <= 0 {
		opts.Deadline = 5 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	return &Monitor{fetcher: fetcher, opts: opts}
}

// Run polls until the plan completes, the deadline passes, the
// context is cancelled, or the backend reports the plan missing.
// The returned Result always carries the accumulated events; Err is
// non-nil only for the failed state.
//
// Each poll re-normalizes the full snapshot and emits the suffix
// beyond what was already reported. That is sound because the
// backend's record is append-only at the step level: content only
// grows or gets filled in, never removed or reordered.
func (m *Monitor) Run(ctx context.Context, planID string) *Result {
	start := time.Now()
	var last *model.Snapshot

	for {
		// Cancellation is cooperative, checked between polls only;
		// a normalization pass always runs to completion.
		if ctx.Err() != nil {
			return m.result(StateCancelled, last, start, nil)
		}

		snap, err := m.fetcher.FetchSnapshot(ctx, planID)
		switch {
		case errors.Is(err, client.ErrPlanNotFound):
			return m.result(StateFailed, last, start, err)
		case err != nil && ctx.Err() != nil:
			return m.result(StateCancelled, last, start, nil)
		case err != nil:
			// Transient: a network hiccup must not kill monitoring.
			// This includes the HTTP client's own request timeout,
			// which reports as context.DeadlineExceeded; only the
			// monitor's context decides cancellation.
			m.opts.Logger.Printf("%s: fetch failed, will retry: %v", planID, err)
		default:
			last = snap
			m.fold(snap, start)
			if snap.Completed {
				return m.result(StateCompleted, snap, start, nil)
			}
		}

		if time.Since(start) >= m.opts.Deadline {
			return m.result(StateTimedOut, last, start, nil)
		}

		select {
		case <-ctx.Done():
			return m.result(StateCancelled, last, start, nil)
		case <-time.After(m.opts.Interval):
		}
	}
}

// fold absorbs one snapshot: normalize, emit the new suffix, and
// refresh the progress estimate.
func (m *Monitor) fold(snap *model.Snapshot, start time.Time) {
	events, stats := timeline.Normalize(snap)
	m.events = events
	m.stats = stats

	if m.reported > len(events) {
		// Clamp so a misbehaving backend cannot panic the slice
		// below; with an append-only record this does not happen.
		m.reported = len(events)
	}
	if m.opts.OnEvent != nil {
		for _, e := range events[m.reported:] {
			m.opts.OnEvent(e)
		}
	}
	m.reported = len(events)

	if n := len(snap.Steps); n > m.estimate {
		m.estimate = n
	}

	if m.opts.OnProgress != nil {
		m.opts.OnProgress(m.progress(snap, time.Since(start)))
	}
}

func (m *Monitor) progress(snap *model.Snapshot, elapsed time.Duration) Progress {
	observed := len(snap.Steps)
	total := observed
	if m.estimate > total {
		total = m.estimate
	}
	if total < minStepEstimate {
		total = minStepEstimate
	}

	percent := 0
	if snap.Completed {
		percent = 100
	} else {
		percent = observed * 100 / total
		if percent > 100 {
			percent = 100
		}
	}

	current := ""
	if observed > 0 {
		current = timeline.StepDisplayName(snap.Steps[observed-1])
	}

	return Progress{
		Steps:       observed,
		Estimate:    total,
		Percent:     percent,
		Elapsed:     elapsed,
		CurrentStep: current,
		Completed:   snap.Completed,
		Stats:       m.stats,
	}
}

func (m *Monitor) result(state State, snap *model.Snapshot, start time.Time, err error) *Result {
	return &Result{
		State:    state,
		Snapshot: snap,
		Events:   m.events,
		Stats:    m.stats,
		Elapsed:  time.Since(start),
		Err:      err,
	}
}

// FetchOnce bypasses the poll loop entirely: one snapshot, one
// normalization pass.
func FetchOnce(ctx context.Context, fetcher Fetcher, planID string) (*model.Snapshot, []timeline.Event, timeline.Stats, error) {
	snap, err := fetcher.FetchSnapshot(ctx, planID)
	if err != nil {
		return nil, nil, timeline.Stats{}, err
	}
	events, stats := timeline.Normalize(snap)
	return snap, events, stats, nil
}

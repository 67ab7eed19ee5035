package stopwatch

import (
	"errors"
	"fmt"
	"time"

	"github.com/psantana5/lapse/pkg/durfmt"
)

var (
	// ErrAlreadyRunning is returned by Start on a running timer.
	ErrAlreadyRunning = errors.New("already running")

	// ErrAlreadyStopped is returned by Stop on a stopped timer.
	ErrAlreadyStopped = errors.New("already stopped")

	// ErrNilFunc is returned by RunTimed when no function is given.
	ErrNilFunc = errors.New("no function given")
)

// Timer measures elapsed wall time across one or more run intervals.
// Stopping pauses accumulation, starting again resumes it, so the total
// covers only the time spent running. Readings come from the monotonic
// clock carried by time.Now, immune to wall-clock adjustments.
//
// A Timer is a plain mutable value and is not safe for concurrent use;
// callers sharing one across goroutines must synchronize externally.
type Timer struct {
	// name is an optional label, fixed at construction.
	name string

	// running reports whether an interval is currently open.
	running bool

	// accumulated is the total of all closed intervals plus any seed.
	accumulated time.Duration

	// startedAt is when the open interval began; meaningful only
	// while running is true.
	startedAt time.Time

	// now is the instant source, replaced in tests.
	now func() time.Time
}

// NewUnstarted returns a stopped timer. The name may be empty; seed
// preloads the accumulated total, as when restoring a prior
// measurement. Negative seeds clamp to zero.
func NewUnstarted(name string, seed time.Duration) *Timer {
	if seed < 0 {
		seed = 0
	}
	return &Timer{
		name:        name,
		accumulated: seed,
		now:         time.Now,
	}
}

// NewStarted returns a timer that is already running.
func NewStarted(name string, seed time.Duration) *Timer {
	t := NewUnstarted(name, seed)
	t.running = true
	t.startedAt = t.now()
	return t
}

// Start opens a new run interval. It fails with ErrAlreadyRunning,
// leaving the timer untouched, if one is already open.
func (t *Timer) Start() error {
	if t.running {
		return ErrAlreadyRunning
	}
	t.startedAt = t.now()
	t.running = true
	return nil
}

// Stop closes the open interval and folds its length into the
// accumulated total. It fails with ErrAlreadyStopped, leaving the
// timer untouched, if no interval is open.
func (t *Timer) Stop() error {
	if !t.running {
		return ErrAlreadyStopped
	}
	t.accumulated += t.now().Sub(t.startedAt)
	t.running = false
	t.startedAt = time.Time{}
	return nil
}

// Reset returns the timer to its pristine state: stopped with nothing
// accumulated. An open interval is discarded, not folded in. It returns
// the receiver so a reused timer restarts in one expression:
//
//	t.Reset().Start()
func (t *Timer) Reset() *Timer {
	t.running = false
	t.accumulated = 0
	t.startedAt = time.Time{}
	return t
}

// Running reports whether an interval is open.
func (t *Timer) Running() bool {
	return t.running
}

// Name returns the label given at construction, possibly empty.
func (t *Timer) Name() string {
	return t.name
}

// Elapsed returns the accumulated total. While running it includes the
// open interval, so successive reads grow; while stopped the value is
// frozen. Reading never mutates the timer.
func (t *Timer) Elapsed() time.Duration {
	if t.running {
		return t.accumulated + t.now().Sub(t.startedAt)
	}
	return t.accumulated
}

// ElapsedMillis returns Elapsed in whole milliseconds, truncated
// toward zero.
func (t *Timer) ElapsedMillis() int64 {
	return t.Elapsed().Milliseconds()
}

// String renders the elapsed total in its largest reachable unit,
// prefixed with the timer's name when one was given:
//
//	'encode' elapsed: 1.5 min
func (t *Timer) String() string {
	scaled := durfmt.Duration(t.Elapsed())
	if t.name != "" {
		return fmt.Sprintf("'%s' elapsed: %s", t.name, scaled)
	}
	return scaled
}

// RunTimed measures one synchronous invocation of fn: it starts a
// fresh timer, runs fn, and returns the stopped timer. It fails with
// ErrNilFunc when fn is nil. If fn panics the panic propagates, but
// the timer is stopped first so no interval is left open.
func RunTimed(fn func()) (*Timer, error) {
	return RunTimedNamed("", fn)
}

// RunTimedNamed is RunTimed with a label on the returned timer.
func RunTimedNamed(name string, fn func()) (*Timer, error) {
	if fn == nil {
		return nil, ErrNilFunc
	}
	t := NewStarted(name, 0)
	defer t.Stop()
	fn()
	return t, nil
}

package registry

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/psantana5/lapse/pkg/stopwatch"
)

var (
	ErrTimerExists   = errors.New("timer already exists")
	ErrTimerNotFound = errors.New("timer not found")
)

// View is a point-in-time reading of one timer, captured atomically
// under the registry lock.
type View struct {
	Name    string
	Running bool
	Elapsed time.Duration
}

// Registry is the synchronized collection of named timers behind the
// control API. A stopwatch.Timer is not safe for concurrent use, so it
// never leaves the registry: callers get View values and drive state
// changes by name.
type Registry struct {
	timers map[string]*stopwatch.Timer
	mu     sync.RWMutex
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		timers: make(map[string]*stopwatch.Timer),
	}
}

// Create adds a timer under the given name, started or stopped, with
// seed preloading the accumulated total. An empty name gets a generated
// UUID so anonymous timers remain addressable.
func (r *Registry) Create(name string, started bool, seed time.Duration) (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		name = uuid.New().String()
	}
	if _, ok := r.timers[name]; ok {
		return View{}, ErrTimerExists
	}

	var t *stopwatch.Timer
	if started {
		t = stopwatch.NewStarted(name, seed)
	} else {
		t = stopwatch.NewUnstarted(name, seed)
	}
	r.timers[name] = t

	return view(t), nil
}

// Snapshot returns a reading of the named timer
func (r *Registry) Snapshot(name string) (View, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.timers[name]
	if !ok {
		return View{}, ErrTimerNotFound
	}
	return view(t), nil
}

// Snapshots returns readings of all timers, sorted by name
func (r *Registry) Snapshots() []View {
	r.mu.RLock()
	defer r.mu.RUnlock()

	views := make([]View, 0, len(r.timers))
	for _, t := range r.timers {
		views = append(views, view(t))
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].Name < views[j].Name
	})
	return views
}

// Start opens a run interval on the named timer
func (r *Registry) Start(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.timers[name]
	if !ok {
		return ErrTimerNotFound
	}
	return t.Start()
}

// Stop closes the open interval on the named timer
func (r *Registry) Stop(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.timers[name]
	if !ok {
		return ErrTimerNotFound
	}
	return t.Stop()
}

// Reset returns the named timer to zero, stopped
func (r *Registry) Reset(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.timers[name]
	if !ok {
		return ErrTimerNotFound
	}
	t.Reset()
	return nil
}

// Remove deletes the named timer
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.timers[name]; !ok {
		return ErrTimerNotFound
	}
	delete(r.timers, name)
	return nil
}

// Stats reports how many timers exist and how many are running
func (r *Registry) Stats() (active, running int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.timers {
		if t.Running() {
			running++
		}
	}
	return len(r.timers), running
}

func view(t *stopwatch.Timer) View {
	return View{
		Name:    t.Name(),
		Running: t.Running(),
		Elapsed: t.Elapsed(),
	}
}

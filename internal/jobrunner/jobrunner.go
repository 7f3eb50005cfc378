// Package jobrunner runs named periodic jobs inside the current process.
//
// Registrations live in memory only; whoever owns the schedule re-registers
// them after a restart. A named job never runs concurrently with itself: a
// tick that arrives while the previous run is still going is dropped.
package jobrunner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/dailyboost/internal/logger"
)

// Policy decides what RegisterPeriodic does when the name is taken.
type Policy int

const (
	// Replace cancels the existing registration and starts a new one.
	Replace Policy = iota
	// KeepIfExists leaves an existing registration untouched.
	KeepIfExists
)

func (p Policy) String() string {
	switch p {
	case Replace:
		return "replace"
	case KeepIfExists:
		return "keep"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

var (
	ErrNoHandler       = errors.New("jobrunner: no handler for job")
	ErrInvalidInterval = errors.New("jobrunner: interval must be positive")
)

// Job is invoked on every tick. Its context is cancelled when the job is
// cancelled, replaced or the runner stops.
type Job func(ctx context.Context) error

// TickerFunc starts a ticker and returns its channel and stop function.
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

type registration struct {
	name     string
	interval time.Duration
	cancel   context.CancelFunc
}

// Stats counts invocations of one job name.
type Stats struct {
	Runs    int
	Skipped int
	Failed  int
}

type Runner struct {
	mu       sync.Mutex
	base     context.Context
	stop     context.CancelFunc
	tick     TickerFunc
	handlers map[string]Job
	jobs     map[string]*registration
	busy     map[string]bool
	stats    map[string]*Stats
	wg       sync.WaitGroup
}

type Option func(*Runner)

// WithTicker replaces time.NewTicker.
func WithTicker(f TickerFunc) Option {
	return func(r *Runner) { r.tick = f }
}

func New(opts ...Option) *Runner {
	r := &Runner{
		tick:     realTicker,
		handlers: make(map[string]Job),
		jobs:     make(map[string]*registration),
		busy:     make(map[string]bool),
		stats:    make(map[string]*Stats),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle binds the function that runs for name.
func (r *Runner) Handle(name string, job Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = job
}

// Start begins ticking every registered job. Registrations made before
// Start are held until then.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.base != nil {
		return
	}
	r.base, r.stop = context.WithCancel(ctx)
	for _, reg := range r.jobs {
		r.launchLocked(reg)
	}
	logger.Debug("Job runner started", "jobs", len(r.jobs))
}

// Stop cancels every job and waits for in-flight runs to return.
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.stop != nil {
		r.stop()
	}
	r.mu.Unlock()
	r.wg.Wait()
}

// RegisterPeriodic schedules name every interval, first firing one interval
// from now. It reports whether a new registration was made.
func (r *Runner) RegisterPeriodic(name string, interval time.Duration, policy Policy) (bool, error) {
	if interval <= 0 {
		return false, ErrInvalidInterval
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.handlers[name]; !ok {
		return false, fmt.Errorf("%w: %s", ErrNoHandler, name)
	}
	if existing, ok := r.jobs[name]; ok {
		if policy == KeepIfExists {
			return false, nil
		}
		r.cancelLocked(existing)
	}

	reg := &registration{name: name, interval: interval}
	r.jobs[name] = reg
	if r.base != nil {
		r.launchLocked(reg)
	}
	logger.Debug("Job registered", "name", name, "interval", interval, "policy", policy)
	return true, nil
}

// Cancel removes the registration for name. Unknown names are ignored.
func (r *Runner) Cancel(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reg, ok := r.jobs[name]; ok {
		r.cancelLocked(reg)
		delete(r.jobs, name)
		logger.Debug("Job cancelled", "name", name)
	}
	return nil
}

// Registered returns the interval name is scheduled at.
func (r *Runner) Registered(name string) (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.jobs[name]
	if !ok {
		return 0, false
	}
	return reg.interval, true
}

func (r *Runner) Stats(name string) Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stats[name]; ok {
		return *s
	}
	return Stats{}
}

func (r *Runner) cancelLocked(reg *registration) {
	if reg.cancel != nil {
		reg.cancel()
	}
}

func (r *Runner) launchLocked(reg *registration) {
	ctx, cancel := context.WithCancel(r.base)
	reg.cancel = cancel
	c, stop := r.tick(reg.interval)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-c:
				r.run(ctx, reg.name)
			}
		}
	}()
}

func (r *Runner) run(ctx context.Context, name string) {
	r.mu.Lock()
	stats, ok := r.stats[name]
	if !ok {
		stats = &Stats{}
		r.stats[name] = stats
	}
	job := r.handlers[name]
	if r.busy[name] || job == nil {
		stats.Skipped++
		r.mu.Unlock()
		logger.Debug("Skipping overlapping run", "name", name)
		return
	}
	r.busy[name] = true
	stats.Runs++
	r.mu.Unlock()

	err := job(ctx)

	r.mu.Lock()
	r.busy[name] = false
	if err != nil {
		stats.Failed++
	}
	r.mu.Unlock()
	if err != nil {
		logger.Warn("Job failed", "name", name, "error", err)
	}
}

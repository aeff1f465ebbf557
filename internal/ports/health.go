package ports

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// ErrDuplicateChecker rejects a second checker under a name already in use.
var ErrDuplicateChecker = errors.New("duplicate health checker")

// DefaultCheckTimeout bounds a single check when the caller's context does not
// already expire sooner.
const DefaultCheckTimeout = 3 * time.Second

// HealthChecker reports whether a dependency can serve documents right now.
// The logo sources implement it so readiness shows a dead logo host or bucket.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// NonCritical marks a checker whose failure degrades the service without
// taking it out of rotation. Documents still render without a logo.
type NonCritical interface {
	NonCritical() bool
}

// HealthRegistry collects checkers at startup and runs them on demand.
type HealthRegistry interface {
	Register(checker HealthChecker) error
	CheckAll(ctx context.Context) *HealthResult
}

// HealthStatus is healthy, degraded or unhealthy.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// severity orders statuses so the worst one wins.
func (s HealthStatus) severity() int {
	switch s {
	case HealthStatusUnhealthy:
		return 2
	case HealthStatusDegraded:
		return 1
	default:
		return 0
	}
}

// HealthResult is the outcome of one readiness pass.
type HealthResult struct {
	Status    HealthStatus            `json:"status"`
	Checks    map[string]*CheckResult `json:"checks"`
	Timestamp time.Time               `json:"timestamp"`
}

// CheckResult is the outcome of a single checker. Message holds the error
// text of a failed check.
type CheckResult struct {
	Status   HealthStatus  `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Registry runs its checkers concurrently, each under its own timeout.
type Registry struct {
	timeout time.Duration
	now     func() time.Time

	mu       sync.RWMutex
	checkers []HealthChecker
}

// NewHealthRegistry returns an empty registry. A non-positive timeout uses
// DefaultCheckTimeout.
func NewHealthRegistry(timeout time.Duration) *Registry {
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}

	return &Registry{timeout: timeout, now: time.Now}
}

// Register adds checker. Names must be unique.
func (r *Registry) Register(checker HealthChecker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := checker.Name()
	if slices.ContainsFunc(r.checkers, func(c HealthChecker) bool { return c.Name() == name }) {
		return fmt.Errorf("%w: %s", ErrDuplicateChecker, name)
	}

	r.checkers = append(r.checkers, checker)

	return nil
}

// CheckAll runs every checker and folds the results into one status: any
// critical failure is unhealthy, a non-critical one only degraded.
func (r *Registry) CheckAll(ctx context.Context) *HealthResult {
	r.mu.RLock()
	checkers := slices.Clone(r.checkers)
	r.mu.RUnlock()

	results := make([]*CheckResult, len(checkers))

	var wg sync.WaitGroup
	for i, c := range checkers {
		wg.Go(func() { results[i] = r.run(ctx, c) })
	}

	wg.Wait()

	out := &HealthResult{
		Status:    HealthStatusHealthy,
		Checks:    make(map[string]*CheckResult, len(checkers)),
		Timestamp: r.now(),
	}

	for i, c := range checkers {
		out.Checks[c.Name()] = results[i]
		if results[i].Status.severity() > out.Status.severity() {
			out.Status = results[i].Status
		}
	}

	return out
}

func (r *Registry) run(ctx context.Context, c HealthChecker) *CheckResult {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := r.now()
	err := c.Check(ctx)
	res := &CheckResult{Status: HealthStatusHealthy, Duration: r.now().Sub(start)}

	if err == nil {
		return res
	}

	res.Message = err.Error()
	res.Status = HealthStatusUnhealthy

	if nc, ok := c.(NonCritical); ok && nc.NonCritical() {
		res.Status = HealthStatusDegraded
	}

	return res
}

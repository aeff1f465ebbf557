package clients

import (
	"sync"
	"time"
)

// State is a circuit breaker state.
type State int

// Breaker states. Closed lets every fetch through, Open rejects them all and
// HalfOpen admits a few trial fetches after the cool-down.
const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

var stateNames = [...]string{
	StateClosed:   "closed",
	StateOpen:     "open",
	StateHalfOpen: "half-open",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}

	return stateNames[s]
}

// CircuitBreakerConfig tunes a CircuitBreaker. Zero fields use defaults.
type CircuitBreakerConfig struct {
	// MaxFailures consecutive failures open the circuit.
	MaxFailures int
	// Timeout is the cool-down before an open circuit admits trial fetches.
	Timeout time.Duration
	// HalfOpenLimit trial fetches may run at once, and that many must
	// succeed in a row to close the circuit again.
	HalfOpenLimit int
}

const (
	defaultMaxFailures   = 5
	defaultOpenTimeout   = 30 * time.Second
	defaultHalfOpenLimit = 1
)

// CircuitBreaker tracks the health of one remote host. A failure during the
// half-open trial reopens the circuit and restarts the cool-down.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	now func() time.Time

	mu        sync.Mutex
	state     State
	failures  int
	successes int
	trials    int
	openedAt  time.Time
	listener  func(from, to State)
}

// NewCircuitBreaker returns a closed breaker.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.MaxFailures < 1 {
		cfg.MaxFailures = defaultMaxFailures
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultOpenTimeout
	}

	if cfg.HalfOpenLimit < 1 {
		cfg.HalfOpenLimit = defaultHalfOpenLimit
	}

	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// OnStateChange registers fn to run after every transition. fn runs on the
// goroutine that caused the transition, outside the breaker's lock.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	cb.listener = fn
	cb.mu.Unlock()
}

// Allow reports whether a fetch may go ahead. Once the cool-down has passed
// an open circuit turns half-open and admits up to HalfOpenLimit fetches.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()

	var notify func()
	allowed := false

	switch cb.state {
	case StateClosed:
		allowed = true
	case StateOpen:
		if cb.now().Sub(cb.openedAt) >= cb.cfg.Timeout {
			notify = cb.moveTo(StateHalfOpen)
			cb.trials = 1
			allowed = true
		}
	case StateHalfOpen:
		if cb.trials < cb.cfg.HalfOpenLimit {
			cb.trials++
			allowed = true
		}
	}

	cb.mu.Unlock()
	run(notify)

	return allowed
}

// RecordSuccess reports a fetch that reached the host and got an answer.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()

	var notify func()

	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.trials--
		cb.successes++

		if cb.successes >= cb.cfg.HalfOpenLimit {
			notify = cb.moveTo(StateClosed)
		}
	}

	cb.mu.Unlock()
	run(notify)
}

// RecordFailure reports a fetch that could not reach the host or kept
// failing after every retry.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()

	var notify func()

	switch cb.state {
	case StateClosed:
		cb.failures++

		if cb.failures >= cb.cfg.MaxFailures {
			notify = cb.moveTo(StateOpen)
		}
	case StateHalfOpen:
		cb.trials--
		notify = cb.moveTo(StateOpen)
	case StateOpen:
		cb.openedAt = cb.now()
	}

	cb.mu.Unlock()
	run(notify)
}

// State returns the current state without triggering a transition.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

// moveTo switches state with cb.mu held and returns the listener call to
// make once the lock is released.
func (cb *CircuitBreaker) moveTo(to State) func() {
	from := cb.state
	cb.state = to
	cb.failures = 0
	cb.successes = 0

	if to == StateOpen {
		cb.openedAt = cb.now()
		cb.trials = 0
	}

	if cb.listener == nil {
		return nil
	}

	listener := cb.listener

	return func() { listener(from, to) }
}

func run(fn func()) {
	if fn != nil {
		fn()
	}
}

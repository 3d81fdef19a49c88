package bootstrap

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	enginebootstrap "github.com/wippyai/engine-bootstrap"
	"github.com/wippyai/engine-bootstrap/errors"
	"github.com/wippyai/engine-bootstrap/gate"
	"github.com/wippyai/engine-bootstrap/loader"
)

// State is the coordinator's position in the bootstrap sequence.
type State int

const (
	StateNotStarted State = iota
	StateGated
	StateLoading
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateGated:
		return "gated"
	case StateLoading:
		return "loading"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is a final state.
func (s State) Terminal() bool {
	return s == StateGated || s == StateDone || s == StateFailed
}

// Outcome is the result of a bootstrap that did not fail.
type Outcome int

const (
	// OutcomeNone is returned alongside an error.
	OutcomeNone Outcome = iota
	// OutcomeGateSkipped means the platform gate rejected the host version.
	OutcomeGateSkipped
	// OutcomeInitialized means the engine received its storage path.
	OutcomeInitialized
)

func (o Outcome) String() string {
	switch o {
	case OutcomeGateSkipped:
		return "gate-skipped"
	case OutcomeInitialized:
		return "initialized"
	default:
		return "none"
	}
}

// Library is the load-once cell the coordinator depends on.
// *loader.Loader implements it.
type Library interface {
	LoadOnce(ctx context.Context) (*loader.Handle, error)
}

// Coordinator runs the bootstrap sequence at most once.
type Coordinator struct {
	library Library
	metrics *Metrics
	err     error
	gate    gate.Gate
	mu      sync.Mutex
	state   State
	outcome Outcome
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithMetrics records outcomes and durations in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// NewCoordinator creates a coordinator gating on g and loading through lib.
func NewCoordinator(g gate.Gate, lib Library, opts ...Option) *Coordinator {
	c := &Coordinator{gate: g, library: lib}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// EvaluateAndRun performs the bootstrap sequence on the first call and
// returns the recorded result on every later call.
func (c *Coordinator) EvaluateAndRun(ctx context.Context, host enginebootstrap.Host) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Terminal() {
		Logger().Debug("bootstrap already completed",
			zap.Stringer("state", c.state),
			zap.Stringer("outcome", c.outcome))
		return c.outcome, c.err
	}

	start := time.Now()
	outcome, err := c.run(ctx, host)
	c.outcome, c.err = outcome, err

	switch {
	case err != nil:
		c.state = StateFailed
	case outcome == OutcomeGateSkipped:
		c.state = StateGated
	default:
		c.state = StateDone
	}
	c.metrics.observe(outcome, err, time.Since(start))
	return outcome, err
}

func (c *Coordinator) run(ctx context.Context, host enginebootstrap.Host) (Outcome, error) {
	if host == nil {
		return OutcomeNone, errors.InvalidInput(errors.PhaseBootstrap, "nil host")
	}

	version := host.PlatformVersion()
	log := Logger().With(zap.String("platform_version", version))

	eligible, err := c.gate.AllowsString(version)
	if err != nil {
		return OutcomeNone, err
	}
	if !eligible {
		min, _ := c.gate.Min()
		log.Info("bootstrap skipped by platform gate", zap.Stringer("min_version", min))
		return OutcomeGateSkipped, nil
	}

	c.state = StateLoading

	if c.library == nil {
		return OutcomeNone, errors.InvalidInput(errors.PhaseBootstrap, "no library configured")
	}
	handle, err := c.library.LoadOnce(ctx)
	if err != nil {
		return OutcomeNone, errors.New(errors.PhaseBootstrap, kindOr(err, errors.KindLinkFailure)).
			Detail("load engine").
			Cause(err).
			Build()
	}

	dir, err := host.StorageDir()
	if err != nil {
		return OutcomeNone, errors.Wrap(errors.PhaseBootstrap, errors.KindHost, err, "storage dir")
	}

	if err := handle.InitializePath(dir); err != nil {
		return OutcomeNone, errors.New(errors.PhaseBootstrap, kindOr(err, errors.KindInvalidInput)).
			Library(handle.File()).
			Path(dir).
			Detail("initialize engine").
			Cause(err).
			Build()
	}

	log.Info("bootstrap complete",
		zap.String("library", handle.File()),
		zap.String("storage_dir", dir))
	return OutcomeInitialized, nil
}

// kindOr returns err's kind, or fallback for errors from outside this module.
func kindOr(err error, fallback errors.Kind) errors.Kind {
	if k := errors.KindOf(err); k != "" {
		return k
	}
	return fallback
}

package bootstrap

import (
	"context"
	"sync"

	enginebootstrap "github.com/wippyai/engine-bootstrap"
	"github.com/wippyai/engine-bootstrap/config"
	"github.com/wippyai/engine-bootstrap/loader"
)

var (
	processMu    sync.Mutex
	processCoord *Coordinator
)

// FromConfig builds a coordinator for cfg. The library is loaded through the
// process-wide loader for cfg.Library and cfg.Backend, so coordinators built
// for the same library share one load.
func FromConfig(cfg config.Config, opts ...Option) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g, err := cfg.Gate()
	if err != nil {
		return nil, err
	}
	return NewCoordinator(g, loader.Shared(cfg.Library, cfg.Backend, cfg.Opener()), opts...), nil
}

// Process returns the process-wide coordinator, building it from cfg on the
// first call. Later calls ignore cfg.
func Process(cfg config.Config, opts ...Option) (*Coordinator, error) {
	processMu.Lock()
	defer processMu.Unlock()

	if processCoord != nil {
		return processCoord, nil
	}
	c, err := FromConfig(cfg, opts...)
	if err != nil {
		return nil, err
	}
	processCoord = c
	return c, nil
}

// Run bootstraps the engine through the process-wide coordinator.
func Run(ctx context.Context, host enginebootstrap.Host, cfg config.Config, opts ...Option) (Outcome, error) {
	c, err := Process(cfg, opts...)
	if err != nil {
		return OutcomeNone, err
	}
	return c.EvaluateAndRun(ctx, host)
}

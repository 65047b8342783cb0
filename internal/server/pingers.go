package server

import (
	"context"
	"fmt"
)

// pingable is any dependency exposing a Ping method. Both embedder backends
// and the Redis corpus store satisfy it.
type pingable interface {
	Ping(ctx context.Context) error
}

// DependencyPinger adapts any pingable dependency to the Pinger interface
// used by GET /api/ready.
type DependencyPinger struct {
	// name identifies the dependency in readiness responses (e.g. "ollama",
	// "redis").
	name string
	// dep is the dependency to probe.
	dep pingable
}

// NewDependencyPinger constructs a DependencyPinger for the given dependency
// and label.
func NewDependencyPinger(name string, dep pingable) *DependencyPinger {
	return &DependencyPinger{name: name, dep: dep}
}

// Name returns the dependency label used in readiness responses.
func (p *DependencyPinger) Name() string { return p.name }

// Ping probes the dependency.
func (p *DependencyPinger) Ping(ctx context.Context) error {
	if err := p.dep.Ping(ctx); err != nil {
		return fmt.Errorf("%s: %w", p.name, err)
	}
	return nil
}

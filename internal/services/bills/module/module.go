// Package module provides the bills module wiring
package module

import (
	"context"
	"time"

	"hansard/internal/modkit"
	"hansard/internal/modkit/repokit"
	"hansard/internal/services/bills/domain"
	"hansard/internal/services/bills/repo"
	"hansard/internal/services/bills/service"
)

// Ports defines the bills module ports
type Ports struct {
	Sync domain.SyncPort
}

// Module implements the bills module
type Module struct {
	deps  modkit.Deps
	name  string
	ports Ports
	svc   *service.Service
}

// New constructs the bills module. Collaborators arrive through
// modkit.WithPorts so the orchestrator decides the wiring
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("bills"),
	}, opts...)...)

	wired, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("bills module: expected WithPorts(bills/domain.Ports)")
	}
	if wired.Client == nil || wired.Res == nil || wired.Sessions == nil {
		panic("bills module: Ports missing Client, Res or Sessions")
	}

	ensure := func(ctx context.Context, name string, start time.Time) error {
		_, err := wired.Sessions.EnsureSession(ctx, name, start)
		return err
	}
	svc := service.New(
		repokit.TxRunner(deps.PG), repo.NewPG(),
		wired.Client, wired.Cache, wired.Res, ensure,
		FromConfig(deps.Cfg),
	)
	return &Module{deps: deps, name: b.Name, svc: svc, ports: Ports{Sync: svc}}
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Service exposes the concrete service for purge wiring
func (m *Module) Service() *service.Service { return m.svc }

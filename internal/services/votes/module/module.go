// Package module provides the votes module wiring
package module

import (
	"hansard/internal/modkit"
	"hansard/internal/modkit/repokit"
	"hansard/internal/services/votes/domain"
	"hansard/internal/services/votes/repo"
	"hansard/internal/services/votes/service"
)

// Ports defines the votes module ports
type Ports struct {
	Sync domain.SyncPort
}

// Module implements the votes module
type Module struct {
	deps  modkit.Deps
	name  string
	ports Ports
	svc   *service.Service
}

// New constructs the votes module. Collaborators arrive through
// modkit.WithPorts so the orchestrator decides the wiring
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("votes"),
	}, opts...)...)

	wired, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("votes module: expected WithPorts(votes/domain.Ports)")
	}
	if wired.Client == nil || wired.Res == nil || wired.Sessions == nil {
		panic("votes module: Ports missing Client, Res or Sessions")
	}

	svc := service.New(
		repokit.TxRunner(deps.PG), repo.NewPG(),
		wired.Client, wired.Cache, wired.Res, wired.Sessions,
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

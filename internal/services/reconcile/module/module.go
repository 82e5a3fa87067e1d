// Package module provides the reconcile module wiring
package module

import (
	"hansard/internal/modkit"
	"hansard/internal/modkit/repokit"
	"hansard/internal/services/reconcile/domain"
	"hansard/internal/services/reconcile/repo"
	"hansard/internal/services/reconcile/service"
)

// Ports defines the reconcile module ports
type Ports struct {
	Resolver domain.ResolverPort
}

// Module implements the reconcile module
type Module struct {
	deps  modkit.Deps
	ports Ports
	svc   *service.Service
}

// New constructs the reconcile module
func New(deps modkit.Deps) *Module {
	svc := service.New(repokit.TxRunner(deps.PG), repo.NewPG())
	return &Module{deps: deps, svc: svc, ports: Ports{Resolver: svc}}
}

// Name returns the module name
func (m *Module) Name() string { return "reconcile" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Service exposes the concrete service so the orchestrator can wire the
// optional membership fetch seams
func (m *Module) Service() *service.Service { return m.svc }

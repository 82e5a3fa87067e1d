// Package module provides the run ledger module wiring
package module

import (
	"hansard/internal/modkit"
	"hansard/internal/modkit/repokit"
	"hansard/internal/services/runs/domain"
	"hansard/internal/services/runs/repo"
	"hansard/internal/services/runs/service"
)

// Ports defines the runs module ports
type Ports struct {
	Ledger domain.LedgerPort
}

// Module implements the runs module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the runs module
func New(deps modkit.Deps) *Module {
	svc := service.New(repokit.TxRunner(deps.PG), repo.NewPG())
	return &Module{deps: deps, ports: Ports{Ledger: svc}}
}

// Name returns the module name
func (m *Module) Name() string { return "runs" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Package module provides the loyalty module wiring
package module

import (
	"hansard/internal/modkit"
	"hansard/internal/modkit/repokit"
	"hansard/internal/services/loyalty/domain"
	"hansard/internal/services/loyalty/repo"
	"hansard/internal/services/loyalty/service"
)

// Ports defines the loyalty module ports
type Ports struct {
	Calculator domain.CalculatorPort
}

// Module implements the loyalty module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the loyalty module
func New(deps modkit.Deps) *Module {
	svc := service.New(repokit.TxRunner(deps.PG), repo.NewPG(), FromConfig(deps.Cfg))
	return &Module{deps: deps, ports: Ports{Calculator: svc}}
}

// Name returns the module name
func (m *Module) Name() string { return "loyalty" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

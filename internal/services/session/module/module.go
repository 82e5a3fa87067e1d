// Package module provides the session module wiring
package module

import (
	"hansard/internal/modkit"
	"hansard/internal/modkit/repokit"
	"hansard/internal/services/session/domain"
	"hansard/internal/services/session/repo"
	"hansard/internal/services/session/service"
)

// Ports defines the session module ports
type Ports struct {
	Sessions domain.WriterPort
}

// Module implements the session module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the session module
func New(deps modkit.Deps) *Module {
	svc := service.New(repokit.TxRunner(deps.PG), repo.NewPG())
	return &Module{deps: deps, ports: Ports{Sessions: svc}}
}

// Name returns the module name
func (m *Module) Name() string { return "session" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

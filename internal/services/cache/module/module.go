// Package module provides the cache module wiring
package module

import (
	"hansard/internal/modkit"
	"hansard/internal/modkit/repokit"
	"hansard/internal/services/cache/domain"
	"hansard/internal/services/cache/repo"
	"hansard/internal/services/cache/service"
)

// Ports defines the cache module ports
type Ports struct {
	KV domain.KV
}

// Module implements the cache module
type Module struct {
	deps  modkit.Deps
	ports Ports
	svc   *service.Service
}

// New constructs the cache module
func New(deps modkit.Deps) *Module {
	svc := service.New(repokit.TxRunner(deps.PG), repo.NewPG())
	return &Module{deps: deps, svc: svc, ports: Ports{KV: svc}}
}

// Name returns the module name
func (m *Module) Name() string { return "cache" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Service exposes the concrete service for write-through composition
func (m *Module) Service() *service.Service { return m.svc }

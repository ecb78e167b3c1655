package service

import (
	"github.com/Ronniet1977/CamperShowBackup/internal/show/core"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/replicator"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/store"
	"github.com/Ronniet1977/CamperShowBackup/pkg/log"
)

// Service is the core domain service: every operation the UI surface
// exposes goes through here. It mutates only via the state store, which
// persists locally before any remote side effect is attempted.
type Service struct {
	store  *store.Store
	repl   *replicator.Replicator
	remote core.Storage
	logger log.Logger
}

// New wires the domain service. repl and remote may be nil; the service
// then runs fully offline, which is also how the tests exercise it.
func New(st *store.Store, repl *replicator.Replicator, remote core.Storage) *Service {
	return &Service{
		store:  st,
		repl:   repl,
		remote: remote,
		logger: log.WithName("service"),
	}
}

// Store exposes the underlying state store (server wiring and tests).
func (s *Service) Store() *store.Store {
	return s.store
}

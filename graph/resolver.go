package graph

import (
	"github.com/bookql/bookql/store"
	"go.uber.org/zap"
)

// Resolver resolves the public schema fields against an explicitly owned store.
type Resolver struct {
	store  *store.Store
	logger *zap.Logger
}

func NewResolver(s *store.Store, l *zap.Logger) *Resolver {
	return &Resolver{
		store:  s,
		logger: l,
	}
}

package mcp

import (
	"context"

	"github.com/claude/routinetimer/internal/routine"
)

// DataSource abstracts where routines come from. LocalSource reads the
// routines directory directly; HTTPClient talks to a running server.
type DataSource interface {
	ListRoutines(ctx context.Context) ([]string, error)
	GetRoutine(ctx context.Context, name string) (*routine.Routine, error)
}

// LocalSource serves routines from a local Store.
type LocalSource struct {
	store *routine.Store
}

// Compile-time check: LocalSource satisfies DataSource.
var _ DataSource = (*LocalSource)(nil)

// NewLocalSource wraps store as a DataSource.
func NewLocalSource(store *routine.Store) *LocalSource {
	return &LocalSource{store: store}
}

func (l *LocalSource) ListRoutines(_ context.Context) ([]string, error) {
	return l.store.List()
}

func (l *LocalSource) GetRoutine(_ context.Context, name string) (*routine.Routine, error) {
	return l.store.Open(name)
}

// Package state persists agent simulation state between runs.
package state

import (
	"context"

	"github.com/rustyeddy/equitysim/sim"
)

// Store loads and saves one agent's full simulation state. Load returns
// ok=false for an agent that has never been saved; the caller initializes a
// fresh state. Save replaces the previous record atomically: a failure
// mid-write must leave the last saved state intact.
type Store interface {
	Load(ctx context.Context, agentName string) (st *sim.AgentState, ok bool, err error)
	Save(ctx context.Context, st *sim.AgentState) error
	Close() error
}

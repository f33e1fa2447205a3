package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rustyeddy/equitysim/sim"
)

// Entrant is one competitor in a multi-agent run.
type Entrant struct {
	Name    string
	Capital float64
	Decider Decider
}

// RunAll runs every entrant's simulation concurrently over base's shared
// gateway, calendar, and store. Agents own disjoint state and the gateway
// is read-only, so a goroutine per agent is safe. One agent failing does
// not stop the others; all failures come back joined.
func RunAll(ctx context.Context, base Runner, entrants []Entrant) (map[string]*sim.AgentState, error) {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]*sim.AgentState, len(entrants))
		errs    []error
	)

	for _, e := range entrants {
		wg.Add(1)
		go func(e Entrant) {
			defer wg.Done()

			r := base
			r.Agent = e.Name
			r.Capital = e.Capital
			r.Decider = e.Decider

			st, err := r.Run(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("agent %s: %w", e.Name, err))
				return
			}
			results[e.Name] = st
		}(e)
	}

	wg.Wait()
	return results, errors.Join(errs...)
}

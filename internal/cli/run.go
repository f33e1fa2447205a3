package cli

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/equitysim/config"
	"github.com/rustyeddy/equitysim/market"
	"github.com/rustyeddy/equitysim/runner"
	"github.com/rustyeddy/equitysim/sim"
	"github.com/rustyeddy/equitysim/state"
)

// newRunCmd runs every configured agent over the dataset's trading dates.
// The CLI wires the hold decider; real decision layers embed the runner
// package and provide their own.
func newRunCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the configured simulation window for all agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			gw, cal, universe, err := buildData(cfg)
			if err != nil {
				return err
			}
			if len(cal) == 0 {
				return fmt.Errorf("no trading dates in window [%s, %s]", cfg.Window.Start, cfg.Window.End)
			}

			store, err := buildStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			eng := sim.Engine{Fees: cfg.FeeModel(), LotSize: cfg.Trading.LotSize}
			base := runner.Runner{
				Gateway:  gw,
				Calendar: cal,
				Universe: universe,
				Engine:   eng,
				Store:    store,
				Log:      slog.New(slog.NewTextHandler(os.Stderr, nil)),
			}

			entrants := make([]runner.Entrant, 0, len(cfg.Agents))
			for _, a := range cfg.Agents {
				entrants = append(entrants, runner.Entrant{
					Name:    a.Name,
					Capital: a.InitialCapital,
					Decider: runner.Hold{},
				})
			}

			results, err := runner.RunAll(cmd.Context(), base, entrants)
			for _, st := range sortedStates(results) {
				printSummary(cmd, st)
			}
			return err
		},
	}
}

func buildData(cfg *config.Config) (market.Gateway, market.Calendar, []market.Listing, error) {
	store, err := market.LoadCandlesCSV(cfg.Data.CandlesFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load candles: %w", err)
	}

	var universe []market.Listing
	if cfg.Data.ListingsFile != "" {
		universe, err = market.LoadListingsCSV(cfg.Data.ListingsFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load listings: %w", err)
		}
	}

	cal := store.TradingDates().Window(cfg.Window.Start, cfg.Window.End)

	var gw market.Gateway = store
	if cfg.Data.RedisAddr != "" {
		cache, err := market.NewCache(cfg.Data.RedisAddr, store)
		if err != nil {
			return nil, nil, nil, err
		}
		gw = cache
	}
	return gw, cal, universe, nil
}

func buildStore(cfg *config.Config) (state.Store, error) {
	switch cfg.Store.Type {
	case "sqlite":
		return state.NewSQLite(cfg.Store.DBPath)
	default:
		return state.NewFileStore(cfg.Store.Dir)
	}
}

func sortedStates(results map[string]*sim.AgentState) []*sim.AgentState {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*sim.AgentState, 0, len(names))
	for _, name := range names {
		out = append(out, results[name])
	}
	return out
}

func printSummary(cmd *cobra.Command, st *sim.AgentState) {
	total := st.Portfolio.Cash
	if snap, ok := st.Snapshots[st.CurrentDate]; ok {
		total = snap.TotalValue
	}

	cmd.Printf("%s: cash %.2f, total %.2f, return %.2f%%, trades %d, days %d\n",
		st.AgentName, st.Portfolio.Cash, total, st.ReturnPct(total),
		len(st.TradeHistory), len(st.Snapshots))
}

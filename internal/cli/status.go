package cli

import (
	"sort"

	"github.com/spf13/cobra"
)

// newStatusCmd prints the persisted summary for each configured agent
// without touching market data or advancing anything.
func newStatusCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print persisted state summaries for the configured agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			store, err := buildStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, a := range cfg.Agents {
				st, ok, err := store.Load(cmd.Context(), a.Name)
				if err != nil {
					return err
				}
				if !ok {
					cmd.Printf("%s: no saved state\n", a.Name)
					continue
				}

				printSummary(cmd, st)

				if len(st.Portfolio.Positions) > 0 {
					symbols := make([]string, 0, len(st.Portfolio.Positions))
					for sym := range st.Portfolio.Positions {
						symbols = append(symbols, sym)
					}
					sort.Strings(symbols)
					for _, sym := range symbols {
						pos := st.Portfolio.Positions[sym]
						cmd.Printf("  %s (%s): %d shares @ avg %.2f\n",
							pos.Name, sym, pos.Shares, pos.AvgCost)
					}
				}
				if !st.LastUpdate.IsZero() {
					cmd.Printf("  last update %s, cursor %s\n",
						st.LastUpdate.Format("2006-01-02 15:04:05"), st.CurrentDate)
				}
			}
			return nil
		},
	}
}

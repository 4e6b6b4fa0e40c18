package commands

import (
	"github.com/spf13/cobra"

	"github.com/ava12/svgrammar/systemverilog"
)

func newCheckCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Build and validate the grammar rule set",
		Long: `Build the SystemVerilog grammar and run all build time checks:
references, reachability, productivity, left recursion, precedence levels,
identifier roles and ambiguity coverage. The first failed check is reported
with every offending rule name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, e := systemverilog.Build()
			if e != nil {
				return e
			}

			for _, entry := range g.Ambiguities() {
				opts.log.Debug("ambiguity", "set", entry.Key(), "strategy", entry.Strategy.String())
			}
			opts.paint.ok(opts.stdout, "%s %s: %d productions, %d precedence levels, %d operators, %d roles, %d ambiguity entries",
				g.Name(), g.Version(), len(g.Productions()), len(g.Levels()), len(g.PrecedenceTable()),
				len(g.Roles()), len(g.Ambiguities()))
			return nil
		},
	}
}

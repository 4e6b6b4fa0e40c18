// Package commands implements the svparse command line.
package commands

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

type options struct {
	configFile string
	envFile    string
	verbose    bool

	cfg    Config
	log    *slog.Logger
	paint  *painter
	stdout io.Writer
	stderr io.Writer
}

// NewRootCommand creates the svparse command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "svparse",
		Short: "svparse parses SystemVerilog sources with the svgrammar engine",
		Long: `svparse parses SystemVerilog sources and prints syntax trees,
checks the grammar rule set and dumps its precedence, ambiguity and role tables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", DefaultConfigFile, "YAML config file")
	flags.StringVar(&opts.envFile, "env", DefaultEnvFile, "env file with SVPARSE_* variables")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug messages")
	flags.String("color", "auto", "colored output: auto, always or never")

	root.AddCommand(newParseCommand(opts), newCheckCommand(opts), newTablesCommand(opts))
	return root
}

func (o *options) setup(cmd *cobra.Command) error {
	o.stdout = cmd.OutOrStdout()
	o.stderr = cmd.ErrOrStderr()

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	o.log = slog.New(slog.NewTextHandler(o.stderr, &slog.HandlerOptions{Level: level}))

	cfg, e := LoadConfig(o.configFile, cmd.Flags().Changed("config"))
	if e != nil {
		return e
	}

	lookup, e := EnvLookup(o.envFile)
	if e != nil {
		return e
	}
	if e = cfg.ApplyEnv(lookup); e != nil {
		return e
	}

	flags := cmd.Flags()
	if flags.Changed("tolerant") {
		cfg.Tolerant, _ = flags.GetBool("tolerant")
	}
	for name, dst := range map[string]*int{"jobs": &cfg.Jobs, "width": &cfg.Width} {
		if flags.Changed(name) {
			*dst, _ = flags.GetInt(name)
		}
	}
	for name, dst := range map[string]*string{"format": &cfg.Format, "start": &cfg.Start, "color": &cfg.Color} {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}

	if e = cfg.Validate(); e != nil {
		return e
	}

	o.cfg = cfg
	o.paint = newPainter(cfg.Color)
	o.log.Debug("configuration", "config", o.configFile, "jobs", cfg.Jobs, "format", cfg.Format,
		"tolerant", cfg.Tolerant, "start", cfg.Start, "color", cfg.Color)
	return nil
}

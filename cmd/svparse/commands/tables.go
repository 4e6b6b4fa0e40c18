package commands

import (
	"fmt"
	"io"
	"slices"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ava12/svgrammar/grammar"
	"github.com/ava12/svgrammar/systemverilog"
)

var tableNames = []string{"precedence", "ambiguities", "roles", "productions", "all"}

type levelRow struct {
	Rank      int      `json:"rank" yaml:"rank"`
	Name      string   `json:"name" yaml:"name"`
	Assoc     string   `json:"assoc" yaml:"assoc"`
	Operators []string `json:"operators" yaml:"operators"`
}

type ambiguityRow struct {
	Set      []string `json:"set" yaml:"set"`
	Strategy string   `json:"strategy" yaml:"strategy"`
	Note     string   `json:"note" yaml:"note"`
}

type roleRow struct {
	Name       string   `json:"name" yaml:"name"`
	Of         string   `json:"of" yaml:"of"`
	Confusable []string `json:"confusable,omitempty" yaml:"confusable,omitempty"`
}

type productionRow struct {
	Name string `json:"name" yaml:"name"`
	Body string `json:"body" yaml:"body"`
}

type tables struct {
	Grammar     string          `json:"grammar" yaml:"grammar"`
	Version     string          `json:"version" yaml:"version"`
	Start       string          `json:"start" yaml:"start"`
	Precedence  []levelRow      `json:"precedence,omitempty" yaml:"precedence,omitempty"`
	Ambiguities []ambiguityRow  `json:"ambiguities,omitempty" yaml:"ambiguities,omitempty"`
	Roles       []roleRow       `json:"roles,omitempty" yaml:"roles,omitempty"`
	Productions []productionRow `json:"productions,omitempty" yaml:"productions,omitempty"`
}

func newTablesCommand(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:       "tables [precedence|ambiguities|roles|productions|all]",
		Short:     "Dump grammar tables",
		Long:      "Dump the precedence, ambiguity, role and production tables of the grammar as JSON or YAML.",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: tableNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			which := "all"
			if len(args) > 0 {
				which = args[0]
			}
			if output != "json" && output != "yaml" {
				return errors.Errorf("unknown output format %q, expecting json or yaml", output)
			}

			t := collectTables(systemverilog.Grammar(), which)
			opts.log.Debug("tables", "which", which, "output", output)
			return writeTables(opts.stdout, t, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	return cmd
}

func collectTables(g *grammar.Grammar, which string) tables {
	all := which == "all"
	result := tables{Grammar: g.Name(), Version: g.Version(), Start: g.Start()}

	if all || which == "precedence" {
		ops := map[int][]string{}
		for key, level := range g.PrecedenceTable() {
			ops[level.Rank] = append(ops[level.Rank], fmt.Sprintf("%s/%d", key.Op, key.Arity))
		}
		for _, level := range g.Levels() {
			list := ops[level.Rank]
			sort.Strings(list)
			result.Precedence = append(result.Precedence, levelRow{level.Rank, level.Name, level.Assoc.String(), list})
		}
	}

	if all || which == "ambiguities" {
		for _, entry := range g.Ambiguities() {
			result.Ambiguities = append(result.Ambiguities,
				ambiguityRow{slices.Clone(entry.Set), entry.Strategy.String(), entry.Note})
		}
	}

	if all || which == "roles" {
		for _, name := range g.Roles() {
			info := g.Production(name).Role
			result.Roles = append(result.Roles, roleRow{name, info.Of, slices.Clone(info.Confusable)})
		}
	}

	if all || which == "productions" {
		for _, p := range g.Productions() {
			result.Productions = append(result.Productions, productionRow{p.Name, p.Body.String()})
		}
	}

	return result
}

func writeTables(w io.Writer, t tables, output string) error {
	if output == "json" {
		return writeJSON(w, t)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if e := enc.Encode(t); e != nil {
		return errors.Wrap(e, "encoding tables")
	}
	return enc.Close()
}

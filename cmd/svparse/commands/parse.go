package commands

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ava12/svgrammar/parser"
	"github.com/ava12/svgrammar/source"
	"github.com/ava12/svgrammar/systemverilog"
	"github.com/ava12/svgrammar/tree"
)

type sampleResult struct {
	src       *source.Source
	root      *tree.Node
	recovered []error
	err       error
}

func (r sampleResult) hasErrors() bool {
	return r.err != nil || len(r.recovered) > 0
}

func newParseCommand(opts *options) *cobra.Command {
	var (
		expectError bool
		separator   string
	)

	cmd := &cobra.Command{
		Use:   "parse [flags] FILE...",
		Short: "Parse source files and print syntax trees",
		Long: `Parse each file and print its syntax tree in the selected format.

With --split a file starting with the given prefix holds multiple samples:
the first line is a separator, each line starting with the same non-blank text
starts a new sample, the rest of a separator line is a comment.
With --expect-error every sample must fail to parse.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, e := parseFiles(cmd.Context(), opts, args, separator)
			if e != nil {
				return e
			}
			return report(opts, results, expectError)
		},
	}

	def := DefaultConfig()
	flags := cmd.Flags()
	flags.BoolP("tolerant", "t", false, "recover from syntax errors in repeated items")
	flags.IntP("jobs", "j", def.Jobs, "number of files parsed concurrently")
	flags.StringP("format", "f", def.Format, "output format: tree, sexpr, json or none")
	flags.String("start", "", "non-terminal matched against the whole source")
	flags.IntP("width", "w", def.Width, "maximum tree output line width, runes")
	flags.BoolVarP(&expectError, "expect-error", "e", false, "every sample must contain a syntax error")
	flags.StringVarP(&separator, "split", "s", "", "treat a file starting with this prefix as multiple samples")
	return cmd
}

// parseFiles parses files concurrently, results are returned in argument order.
// Lexical and syntax errors are kept per sample, read errors and cancellation abort.
func parseFiles(ctx context.Context, opts *options, names []string, separator string) ([][]sampleResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	p := systemverilog.Parser()
	var parseOpts []parser.Option
	if opts.cfg.Tolerant {
		parseOpts = append(parseOpts, parser.Tolerant())
	}
	if opts.cfg.Start != "" {
		parseOpts = append(parseOpts, parser.StartAt(opts.cfg.Start))
	}

	results := make([][]sampleResult, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.cfg.Jobs)
	for i, name := range names {
		i, name := i, name // per-iteration copy (go 1.22 loop semantics)
		g.Go(func() error {
			samples, e := loadSamples(name, separator)
			if e != nil {
				return e
			}

			fileResults := make([]sampleResult, 0, len(samples))
			for _, src := range samples {
				started := time.Now()
				root, recovered, e := p.Parse(ctx, src, parseOpts...)
				if e != nil && ctx.Err() != nil {
					return errors.Wrap(ctx.Err(), src.Name())
				}

				opts.log.Debug("parsed", "source", src.Name(), "elapsed", time.Since(started),
					"recovered", len(recovered), "failed", e != nil)
				fileResults = append(fileResults, sampleResult{src, root, recovered, e})
			}
			results[i] = fileResults
			return nil
		})
	}

	if e := g.Wait(); e != nil {
		return nil, e
	}
	return results, nil
}

func report(opts *options, results [][]sampleResult, expectError bool) error {
	var jsonSamples []jsonSample
	total, failed := 0, 0
	for _, fileResults := range results {
		for _, r := range fileResults {
			total++
			if r.hasErrors() != expectError {
				failed++
			}

			switch opts.cfg.Format {
			case "json":
				jsonSamples = append(jsonSamples, toJSONSample(r))
				reportDiagnostics(opts, r, expectError)
			case "none":
				reportDiagnostics(opts, r, expectError)
			default:
				reportSample(opts, r, expectError)
			}
		}
	}

	if opts.cfg.Format == "json" {
		if e := writeJSON(opts.stdout, jsonSamples); e != nil {
			return errors.Wrap(e, "writing output")
		}
	}

	if failed > 0 {
		return errors.Errorf("%d of %d samples failed", failed, total)
	}
	opts.log.Debug("done", "samples", total)
	return nil
}

func reportSample(opts *options, r sampleResult, expectError bool) {
	opts.paint.header(opts.stdout, r.src.Name())
	if r.root != nil {
		switch opts.cfg.Format {
		case "sexpr":
			fmt.Fprintln(opts.stdout, "  "+tree.SExpr(r.root))
		default:
			printTree(opts.stdout, r.root, opts.cfg.Width)
		}
	}
	reportDiagnostics(opts, r, expectError)
}

func reportDiagnostics(opts *options, r sampleResult, expectError bool) {
	errs := slices.Clone(r.recovered)
	if r.err != nil {
		errs = append(errs, r.err)
	}
	for _, e := range errs {
		if expectError {
			opts.paint.warning(opts.stderr, e)
		} else {
			opts.paint.error(opts.stderr, e)
		}
	}
	if expectError && !r.hasErrors() {
		opts.paint.error(opts.stderr, errors.Errorf("expecting error, got success in %s", r.src.Name()))
	}
}

func toJSONSample(r sampleResult) jsonSample {
	result := jsonSample{Source: r.src.Name()}
	if r.root != nil {
		result.Tree = toJSONNode(r.root)
	}
	for _, e := range r.recovered {
		result.Errors = append(result.Errors, toJSONError(e))
	}
	if r.err != nil {
		result.Errors = append(result.Errors, toJSONError(r.err))
	}
	return result
}

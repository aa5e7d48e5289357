package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"swiftcore/internal/observ"
	"swiftcore/internal/propcheck"
)

var (
	checkSeed       uint64
	checkIterations int
	checkMaxSize    int
	checkJobs       int
	checkProperties []string
	checkFormat     string
	checkUI         string
	checkCorpus     string
	checkReplay     bool
)

var errChecksFailed = errors.New("property check failed")

func init() {
	checkCmd.Flags().Uint64Var(&checkSeed, "seed", 0, "run seed (default from config)")
	checkCmd.Flags().IntVar(&checkIterations, "iterations", 0, "cases per property (default from config)")
	checkCmd.Flags().IntVar(&checkMaxSize, "max-size", 0, "largest generated collection (default from config)")
	checkCmd.Flags().IntVar(&checkJobs, "jobs", 0, "properties checked in parallel (default from config)")
	checkCmd.Flags().StringSliceVarP(&checkProperties, "property", "p", nil, "check only the named properties")
	checkCmd.Flags().StringVar(&checkFormat, "format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().StringVar(&checkUI, "ui", "auto", "progress view (auto|on|off); overrides [check].ui")
	checkCmd.Flags().StringVar(&checkCorpus, "corpus", "", "failure corpus directory (default from config)")
	checkCmd.Flags().BoolVar(&checkReplay, "replay", false, "rerun the failures stored in the corpus instead of generating cases")
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the value-semantics properties",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

type checkOptions struct {
	seed       uint64
	iterations int
	maxSize    int
	jobs       int
	corpus     string
	format     string
	tui        bool
	timings    bool
}

// progressView decides whether check drives the interactive progress view.
// The view replaces the pretty report's live output only, so json output
// never gets it, and auto mode wants a terminal on stdout.
func progressView(mode, format string, tty bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return format == "pretty" && tty, nil
	case "on":
		if format != "pretty" {
			return false, fmt.Errorf("--ui on needs --format pretty, got %q", format)
		}
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", mode)
	}
}

func resolveCheckOptions(cmd *cobra.Command) (checkOptions, error) {
	flags := cmd.Flags()
	opts := checkOptions{
		seed:       cfg.Check.Seed,
		iterations: cfg.Check.Iterations,
		maxSize:    cfg.Check.MaxSize,
		jobs:       cfg.Check.Jobs,
		corpus:     cfg.Check.Corpus,
		format:     strings.ToLower(strings.TrimSpace(checkFormat)),
	}
	if flags.Changed("seed") {
		opts.seed = checkSeed
	}
	if flags.Changed("iterations") {
		opts.iterations = checkIterations
	}
	if flags.Changed("max-size") {
		opts.maxSize = checkMaxSize
	}
	if flags.Changed("jobs") {
		opts.jobs = checkJobs
	}
	if flags.Changed("corpus") {
		opts.corpus = checkCorpus
	}
	switch {
	case opts.iterations < 1:
		return opts, fmt.Errorf("--iterations must be at least 1, got %d", opts.iterations)
	case opts.maxSize < 0:
		return opts, fmt.Errorf("--max-size must not be negative, got %d", opts.maxSize)
	case opts.jobs < 1:
		return opts, fmt.Errorf("--jobs must be at least 1, got %d", opts.jobs)
	}
	switch opts.format {
	case "pretty", "json":
	default:
		return opts, fmt.Errorf("unsupported format %q (must be pretty or json)", checkFormat)
	}
	ui := cfg.Check.UI
	if flags.Changed("ui") {
		ui = checkUI
	}
	var err error
	opts.tui, err = progressView(ui, opts.format, isTerminal(os.Stdout))
	if err != nil {
		return opts, err
	}
	opts.timings, err = cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return opts, nil
}

func runCheck(cmd *cobra.Command, _ []string) error {
	opts, err := resolveCheckOptions(cmd)
	if err != nil {
		return err
	}
	timer := observ.NewTimer()
	if opts.timings {
		defer func() { fmt.Fprint(cmd.ErrOrStderr(), timer.Summary()) }()
	}

	setup := timer.Begin("setup")
	props, err := propcheck.Select(checkProperties)
	if err != nil {
		return err
	}
	corpus, err := propcheck.OpenCorpus(opts.corpus)
	if err != nil {
		return fmt.Errorf("failed to open corpus: %w", err)
	}

	runner := &propcheck.Runner{
		Seed:       opts.seed,
		Iterations: opts.iterations,
		MaxSize:    opts.maxSize,
		Jobs:       opts.jobs,
	}
	tracer, cleanup, err := setupTracing(cmd, runner.Progress)
	if err != nil {
		return err
	}
	defer cleanup()
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()
	timer.End(setup, opts.corpus)

	var (
		names []string
		run   func(context.Context, propcheck.ProgressSink) (*propcheck.Report, error)
		title string
	)
	if checkReplay {
		failures, listErr := corpus.List()
		if listErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "corpus: %v\n", listErr)
		}
		if len(checkProperties) > 0 {
			failures = slices.DeleteFunc(failures, func(f *propcheck.Failure) bool {
				return !slices.Contains(checkProperties, f.Property)
			})
		}
		if len(failures) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "corpus %s has nothing to replay\n", corpus.Dir())
			return nil
		}
		for _, f := range failures {
			if !slices.Contains(names, f.Property) {
				names = append(names, f.Property)
			}
		}
		title = fmt.Sprintf("replaying %d corpus entries", len(failures))
		run = func(ctx context.Context, sink propcheck.ProgressSink) (*propcheck.Report, error) {
			return runner.Replay(ctx, failures, sink)
		}
	} else {
		runner.Corpus = corpus
		for _, p := range props {
			names = append(names, p.Name)
		}
		title = fmt.Sprintf("checking %d properties (seed %d)", len(props), opts.seed)
		run = func(ctx context.Context, sink propcheck.ProgressSink) (*propcheck.Report, error) {
			return runner.Run(ctx, props, sink)
		}
	}

	phase := timer.Begin("check")
	var report *propcheck.Report
	if opts.tui {
		report, err = runCheckWithUI(cmd.Context(), title, names, run)
	} else {
		report, err = run(cmd.Context(), nil)
	}
	if report == nil {
		return err
	}
	timer.End(phase, fmt.Sprintf("seed %d", opts.seed))
	for _, res := range report.Results {
		timer.Record(res.Property, res.Elapsed, fmt.Sprintf("%d cases", res.Cases))
	}

	render := timer.Begin("render")
	defer timer.End(render, opts.format)
	out := cmd.OutOrStdout()
	if opts.format == "json" {
		if encErr := renderReportJSON(out, report); encErr != nil {
			return encErr
		}
	} else {
		renderReportPretty(out, report, checkReplay)
	}
	if err != nil {
		return err
	}
	if report.Failed() {
		dumpRing(cmd.ErrOrStderr(), tracer)
		return errChecksFailed
	}
	return nil
}

func renderReportPretty(out io.Writer, report *propcheck.Report, replay bool) {
	passed := color.New(color.FgGreen)
	failed := color.New(color.FgRed, color.Bold)
	skipped := color.New(color.FgYellow)

	for _, res := range report.Results {
		var status string
		switch res.Status {
		case propcheck.StatusPassed:
			status = passed.Sprint("ok  ")
		case propcheck.StatusFailed:
			status = failed.Sprint("FAIL")
		default:
			status = skipped.Sprint("skip")
		}
		fmt.Fprintf(out, "%s %s (%d cases)\n", status, res.Property, res.Cases)
		if f := res.Failure; f != nil {
			fmt.Fprintf(out, "     case %d, seed %d, size %d", f.Case, f.Seed, f.Size)
			if f.Code != "" {
				fmt.Fprintf(out, ", %s", f.Code)
			}
			fmt.Fprintf(out, "\n     %s\n", f.Message)
		}
	}

	n := len(report.Failures())
	switch {
	case n > 0 && !replay:
		fmt.Fprintf(out, "%s: %d of %d properties; rerun with --replay\n", failed.Sprint("failed"), n, len(report.Results))
	case n > 0:
		fmt.Fprintf(out, "%s: %d of %d entries still fail\n", failed.Sprint("failed"), n, len(report.Results))
	default:
		fmt.Fprintf(out, "%s: %d properties\n", passed.Sprint("passed"), len(report.Results))
	}
}

func renderReportJSON(out io.Writer, report *propcheck.Report) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

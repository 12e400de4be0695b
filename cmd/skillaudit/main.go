// Package main provides the skillaudit CLI entrypoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"skillaudit/audit"
	"skillaudit/autofix"
	"skillaudit/config"
	"skillaudit/logging"
	"skillaudit/report"
	"skillaudit/tui"
)

// Exit codes by overall score tier.
const (
	exitOK      = 0 // score >= 8.0
	exitWarning = 1 // score >= 6.0
	exitError   = 2 // everything else, and run failures
)

type options struct {
	configFile  string
	autoFix     bool
	reportPath  string
	jsonPath    string
	csvPath     string
	skipAI      bool
	noTUI       bool
	concurrency int
	timeout     time.Duration
}

func main() {
	os.Exit(run())
}

func run() int {
	var opts options
	exitCode := exitError

	root := &cobra.Command{
		Use:           "skillaudit <skill-path>",
		Short:         "Audit the quality of a skill's documentation",
		Long:          "skillaudit checks a documentation bundle for broken links, invalid code examples,\ncontent volume, and optionally an LLM quality assessment.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := runAudit(cmd, args[0], opts)
			exitCode = code
			return err
		},
	}

	flags := root.Flags()
	flags.StringVar(&opts.configFile, "config", "", "path to config file")
	flags.BoolVar(&opts.autoFix, "auto-fix", false, "replace broken links with archive snapshots and re-check")
	flags.StringVar(&opts.reportPath, "report", "", "write a markdown quality report to this path")
	flags.StringVar(&opts.jsonPath, "json", "", "write full results as JSON to this path")
	flags.StringVar(&opts.csvPath, "csv", "", "write broken links as CSV to this path")
	flags.BoolVar(&opts.skipAI, "skip-ai", false, "skip the LLM quality assessment")
	flags.BoolVar(&opts.noTUI, "no-tui", false, "disable the interactive progress display")
	flags.IntVar(&opts.concurrency, "concurrency", 0, "number of concurrent link checks (overrides config)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "per-request timeout (overrides config)")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}
	return exitCode
}

func runAudit(cmd *cobra.Command, path string, opts options) (int, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return exitError, err
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = opts.concurrency
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = opts.timeout
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	auditOpts := audit.Options{SkipAI: opts.skipAI}

	var res *audit.Results
	if useTUI(opts) {
		res, err = runWithTUI(ctx, cfg, log, path, auditOpts)
	} else {
		runner := audit.NewRunner(cfg, log, nil)
		res, err = runner.Run(ctx, path, auditOpts)
	}
	if err != nil {
		return exitError, err
	}

	if opts.autoFix && res.Links != nil && len(res.Links.Broken) > 0 {
		if fixed := autofix.Apply(res.Links, log); fixed > 0 {
			log.WithField("fixed", fixed).Info("re-running audit after auto-fix")
			runner := audit.NewRunner(cfg, log, nil)
			res, err = runner.Run(ctx, path, auditOpts)
			if err != nil {
				return exitError, err
			}
		}
	}

	if !useTUI(opts) {
		report.PrintSummary(os.Stdout, res)
	}

	if err := writeOutputs(res, opts, log); err != nil {
		return exitError, err
	}

	return scoreExitCode(res.Overall), nil
}

// useTUI enables the interactive display only on a real terminal.
func useTUI(opts options) bool {
	return !opts.noTUI && isatty.IsTerminal(os.Stdout.Fd())
}

func runWithTUI(ctx context.Context, cfg *config.Config, log logging.Logger, path string, opts audit.Options) (*audit.Results, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan audit.Event, 100)
	runner := audit.NewRunner(cfg, log, events)

	model := tui.NewModel(ctx, cancel, runner, path, opts, events)
	program := tea.NewProgram(model)

	finalModel, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("running progress display: %w", err)
	}

	final := finalModel.(tui.Model)
	if final.GetErr() != nil {
		return nil, final.GetErr()
	}
	res := final.GetResults()
	if res == nil {
		return nil, context.Canceled
	}
	return res, nil
}

func writeOutputs(res *audit.Results, opts options, log logging.Logger) error {
	if opts.reportPath != "" {
		md := report.Render(res, time.Now())
		if err := os.WriteFile(opts.reportPath, []byte(md), 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		log.WithField("path", opts.reportPath).Info("report saved")
	}

	if opts.jsonPath != "" {
		f, err := os.Create(opts.jsonPath)
		if err != nil {
			return fmt.Errorf("creating json output: %w", err)
		}
		defer f.Close()
		if err := report.WriteJSON(f, res); err != nil {
			return err
		}
	}

	if opts.csvPath != "" {
		f, err := os.Create(opts.csvPath)
		if err != nil {
			return fmt.Errorf("creating csv output: %w", err)
		}
		defer f.Close()
		if err := report.WriteBrokenCSV(f, res.Links); err != nil {
			return err
		}
	}

	return nil
}

func scoreExitCode(score float64) int {
	switch {
	case score >= 8.0:
		return exitOK
	case score >= 6.0:
		return exitWarning
	default:
		return exitError
	}
}

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mattn/go-isatty"

	"jmeter-dashboard/internal/cli"
	"jmeter-dashboard/internal/config"
	"jmeter-dashboard/internal/pipeline"
	"jmeter-dashboard/internal/report"
	"jmeter-dashboard/internal/summary"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if _, err := config.LoadEnv([]string{".env"}); err != nil {
		cli.Warnf("Failed to load .env: %v", err)
	}

	opts, err := getRuntimeOptions()
	if err != nil {
		if errors.Is(err, cli.ErrHelp) {
			return 0
		}
		cli.Failf("Failed to get options: %v", err)
		return 1
	}

	overrides, err := toOverrides(opts)
	if err != nil {
		cli.Failf("Invalid options: %v", err)
		return 1
	}

	cfg, err := config.Load(configFile(opts), overrides)
	if err != nil {
		cli.Failf("Failed to load configuration: %v", err)
		return 1
	}

	cfg.Print()

	log, err := cli.NewLogger(cfg.LogLevel)
	if err != nil {
		cli.Failf("Invalid log level: %v", err)
		return 1
	}

	outcome, err := pipeline.Run(ctx, cfg, log)
	if outcome != nil && len(outcome.Files) > 0 {
		summary.PrintFileStatus(outcome.Files)
	}
	if err != nil {
		if ctx.Err() != nil {
			cli.Warnf("Interrupted, stopping...")
		}
		cli.Failf("Dashboard generation failed: %v", err)
		return 1
	}

	cli.Section("Artifacts")
	for _, path := range outcome.Artifacts {
		cli.Linef("%s %s", cli.SymbolArrow, path)
	}

	summary.PrintFinalSummary(outcome.Results)
	cli.Successf("Dashboard written to %s", filepath.Join(cfg.OutputDir, report.HTMLFile))

	if outcome.Results.Summary.FailedFiles > 0 {
		cli.Warnf("%d result file(s) skipped, see above", outcome.Results.Summary.FailedFiles)
	}
	return 0
}

// getRuntimeOptions reads flags, or prompts when none were given and
// stdin is a terminal.
func getRuntimeOptions() (*cli.Options, error) {
	opts, err := cli.ParseFlags(os.Args[1:])
	if err != nil {
		return nil, err
	}
	if opts != nil {
		return opts, nil
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return &cli.Options{}, nil
	}

	cli.PrintBanner()
	opts, err = cli.PromptOptions(config.DefaultInputDir)
	if err != nil {
		return nil, err
	}
	cli.PrintSummary(opts)

	return opts, nil
}

func toOverrides(opts *cli.Options) (*config.Overrides, error) {
	overrides := &config.Overrides{
		InputDir:      opts.InputDir,
		OutputDir:     opts.OutputDir,
		GroupPattern:  opts.GroupPattern,
		LabelFormat:   opts.LabelFormat,
		LabelFallback: opts.Fallback,
		XLSX:          opts.XLSX,
		Sink:          opts.Sink,
		Verbose:       opts.Verbose,
	}

	for _, raw := range opts.Subsets {
		subset, err := config.ParseSubset(raw)
		if err != nil {
			return nil, err
		}
		overrides.Subsets = append(overrides.Subsets, subset)
	}

	return overrides, nil
}

// configFile returns the explicit --config path, or the default file when
// it exists in the working directory.
func configFile(opts *cli.Options) string {
	if opts.ConfigFile != "" {
		return opts.ConfigFile
	}
	if info, err := os.Stat(config.DefaultConfigFile); err == nil && !info.IsDir() {
		return config.DefaultConfigFile
	}
	return ""
}

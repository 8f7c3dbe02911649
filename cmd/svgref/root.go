package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jacoelho/svgref/internal/config"
)

// app holds state shared by every command of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	cfg    *config.Config
	logger *slog.Logger

	configPath string
	logLevel   string
	logFormat  string
	format     string
	cpuProfile string
	memProfile string

	stopCPU func() error
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		cfg:    config.Default(),
		logger: slog.New(slog.DiscardHandler),
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "svgref",
		Short: "Inspect identifier references in SVG documents and icon sets",
		Long: `svgref analyzes which definitions of an SVG document are used for paint
or as a mask, and resolves, renames, removes and exports icon-set aliases.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default "+config.DefaultPath+" when present)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: text, json")
	flags.StringVar(&a.format, "format", "", "report format: text, json, yaml")
	flags.StringVar(&a.cpuProfile, "cpuprofile", "", "write CPU profile to file")
	flags.StringVar(&a.memProfile, "memprofile", "", "write memory profile to file")

	root.AddCommand(a.analyzeCmd(), a.iconsCmd())
	return root
}

// setup loads the config, applies flag overrides and starts profiling.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	if flags.Changed("format") {
		cfg.Output = a.format
	}
	if err := cfg.Validate(); err != nil {
		return usageError(fmt.Errorf("invalid settings: %w", err))
	}
	a.cfg = cfg
	a.logger = newLogger(cfg.Log.Level, cfg.Log.Format, a.stderr)

	if a.cpuProfile != "" {
		stop, err := startCPUProfile(a.cpuProfile)
		if err != nil {
			return err
		}
		a.stopCPU = stop
	}
	return nil
}

// stopProfiles finishes the CPU profile and writes the heap profile.
func (a *app) stopProfiles() error {
	var errs []error
	if a.stopCPU != nil {
		errs = append(errs, a.stopCPU())
		a.stopCPU = nil
	}
	if a.memProfile != "" {
		errs = append(errs, writeMemProfile(a.memProfile))
	}
	return errors.Join(errs...)
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/jacoelho/svgref"
	"github.com/jacoelho/svgref/errors"
)

type analyzeFlags struct {
	unused      bool
	graph       bool
	workers     int
	maxDepth    int
	maxAttrs    int
	maxElements int
}

// fileReport is the outcome for one analyzed file.
type fileReport struct {
	File     string          `json:"file" yaml:"file"`
	Summary  *svgref.Summary `json:"summary,omitempty" yaml:"summary,omitempty"`
	Unused   []string        `json:"unused,omitempty" yaml:"unused,omitempty"`
	Dangling []svgref.Edge   `json:"dangling,omitempty" yaml:"dangling,omitempty"`
	Graph    *svgref.Result  `json:"graph,omitempty" yaml:"graph,omitempty"`
	Error    string          `json:"error,omitempty" yaml:"error,omitempty"`
	Code     string          `json:"code,omitempty" yaml:"code,omitempty"`
}

func (a *app) analyzeCmd() *cobra.Command {
	var f analyzeFlags
	cmd := &cobra.Command{
		Use:   "analyze FILE...",
		Short: "Classify SVG elements as used for paint or as a mask",
		Args:  minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd, f, args)
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&f.unused, "unused", false, "list identifiers nothing uses")
	flags.BoolVar(&f.graph, "graph", false, "include the element graph (json and yaml formats)")
	flags.IntVar(&f.workers, "workers", 0, "files analyzed concurrently (overrides config)")
	flags.IntVar(&f.maxDepth, "max-depth", 0, "maximum element nesting depth (overrides config)")
	flags.IntVar(&f.maxAttrs, "max-attrs", 0, "maximum attributes per element (overrides config)")
	flags.IntVar(&f.maxElements, "max-elements", 0, "maximum elements per document (overrides config)")
	return cmd
}

func (a *app) runAnalyze(cmd *cobra.Command, f analyzeFlags, files []string) error {
	cfg := a.cfg.Analyze
	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = f.maxDepth
	}
	if flags.Changed("max-attrs") {
		cfg.MaxAttrs = f.maxAttrs
	}
	if flags.Changed("max-elements") {
		cfg.MaxElements = f.maxElements
	}
	if cfg.Workers < 1 {
		return usageError(fmt.Errorf("--workers must be >= 1"))
	}
	opts := svgref.NewOptions().
		WithMaxDepth(cfg.MaxDepth).
		WithMaxAttrs(cfg.MaxAttrs).
		WithMaxElements(cfg.MaxElements)
	if err := opts.Validate(); err != nil {
		return usageError(err)
	}

	reports, err := a.analyzeFiles(cmd.Context(), files, opts, cfg.Workers, f)
	if err != nil {
		return err
	}
	if err := writeReports(a.stdout, a.cfg.Output, reports, f.unused); err != nil {
		return err
	}
	for _, r := range reports {
		if r.Error != "" {
			return errReported
		}
	}
	return nil
}

// analyzeFiles analyzes files with at most workers in flight. Per-file
// failures are recorded in the report; only cancellation aborts the run.
func (a *app) analyzeFiles(ctx context.Context, files []string, opts svgref.Options, workers int, f analyzeFlags) ([]fileReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	reports := make([]fileReport, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = a.analyzeFile(file, opts, f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (a *app) analyzeFile(file string, opts svgref.Options, f analyzeFlags) fileReport {
	log := a.logger.With(slog.String("file", file))
	report := fileReport{File: file}

	res, err := svgref.AnalyzeFileWithOptions(file, opts)
	if err != nil {
		report.Error = err.Error()
		if s, ok := errors.AsStructural(err); ok {
			report.Code = s.Code
		}
		log.Error("analysis failed", slog.Any("error", err))
		return report
	}

	summary := res.Summary()
	report.Summary = &summary
	report.Unused = res.Unused()
	report.Dangling = res.Dangling()
	if f.graph {
		report.Graph = res
	}
	for _, edge := range report.Dangling {
		log.Warn("reference to unknown id", slog.String("id", edge.ID), slog.Int("element", edge.UsedBy))
	}
	log.Debug("analyzed",
		slog.Int("elements", summary.Elements),
		slog.Int("ids", summary.IDs),
		slog.Int("edges", summary.Edges))
	return report
}

func writeReports(w io.Writer, format string, reports []fileReport, unused bool) error {
	if !unused {
		for i := range reports {
			reports[i].Unused = nil
		}
	}
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return err
		}
		return enc.Close()
	default:
		for _, r := range reports {
			if err := writeTextReport(w, r); err != nil {
				return err
			}
		}
		return nil
	}
}

func writeTextReport(w io.Writer, r fileReport) error {
	if r.Summary == nil {
		return writef(w, "error: %s\n", r.Error)
	}
	s := r.Summary
	if err := writef(w, "%s: elements=%d ids=%d edges=%d paint=%d mask=%d unused=%d dangling=%d\n",
		r.File, s.Elements, s.IDs, s.Edges, s.Paint, s.Mask, s.Unused, s.Dangling); err != nil {
		return err
	}
	if len(r.Unused) > 0 {
		if err := writef(w, "  unused: %s\n", strings.Join(r.Unused, " ")); err != nil {
			return err
		}
	}
	return nil
}

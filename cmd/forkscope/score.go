package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/forkscope/forkscope/internal/logging"
	"github.com/forkscope/forkscope/internal/publish"
	"github.com/forkscope/forkscope/pkg/heatmap"
	"github.com/forkscope/forkscope/pkg/scoring"
	"github.com/forkscope/forkscope/pkg/surface"
	"github.com/forkscope/forkscope/pkg/table"
)

func newScoreCmd(a *app) *cobra.Command {
	var opts scoreOpts

	cmd := &cobra.Command{
		Use:   "score <csv>",
		Short: "Score every parameter of a matrix by fork correlation",
		Long: `Reads an experiment matrix, runs the selected scoring policy over every
row, and prints the ranked scores. Each scoring decision is traced.

Policies:
  mismatch  enabled/disabled settings vs. forked/clean rows (default)
  neutral   column min/max values vs. forks; constant columns excluded
  addonly   only forking rows count; column max values gain +1`,
		Args: usageOnError(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.input = args[0]
			opts.stdout = cmd.OutOrStdout()
			opts.stderr = cmd.ErrOrStderr()
			return runScore(cmd.Context(), a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.policy, "policy", "", "Scoring policy: "+scoring.PolicyNames()+" (default from config)")
	cmd.Flags().StringVar(&opts.forkColumn, "fork-column", "", "Fork count column (default from config)")
	cmd.Flags().StringVar(&opts.listColumn, "list-column", "", "Enabled-ops list column (default from config)")
	cmd.Flags().StringVar(&opts.listSeparator, "list-separator", "", "Token separator for the list column (default from config)")
	cmd.Flags().StringVar(&opts.outputFmt, "output", "", "Output format: text, json, markdown or prom (default from config, else text)")
	cmd.Flags().StringVar(&opts.trace, "trace", "", "Decision trace: text, log or none (default from config)")
	cmd.Flags().BoolVar(&opts.heatmap, "heatmap", false, "Also export ranked scores to <input>_heatmap.xlsx")
	cmd.Flags().StringVar(&opts.publish, "publish", "", "Upload artifacts to s3://bucket/prefix, gs://bucket/prefix or a directory")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Re-run whenever the input file changes")

	return cmd
}

type scoreOpts struct {
	input         string
	policy        string
	forkColumn    string
	listColumn    string
	listSeparator string
	outputFmt     string
	trace         string
	heatmap       bool
	publish       string
	watch         bool

	stdout io.Writer
	stderr io.Writer
}

func runScore(ctx context.Context, a *app, opts scoreOpts) error {
	cfg := a.cfg

	policy, err := scoring.ParsePolicy(firstNonEmpty(opts.policy, cfg.Scoring.Policy))
	if err != nil {
		return err
	}
	traceMode := firstNonEmpty(opts.trace, cfg.Output.Trace, "text")
	switch traceMode {
	case "text", "log", "none":
	default:
		return fmt.Errorf("unknown trace mode %q (want text, log or none)", traceMode)
	}
	format := firstNonEmpty(opts.outputFmt, cfg.Output.Format, "text")
	if _, err := surface.New(format, surface.Meta{}, false); err != nil {
		return err
	}

	run := func() error {
		return scoreOnce(ctx, a, opts, policy, format, traceMode)
	}
	if !opts.watch {
		return run()
	}
	return watchFile(ctx, opts.input, a.logger, run)
}

func scoreOnce(ctx context.Context, a *app, opts scoreOpts, policy scoring.Policy, format, traceMode string) error {
	cfg := a.cfg
	logger := a.logger

	tbl, err := table.Load(opts.input, table.Options{
		ForkColumn: firstNonEmpty(opts.forkColumn, cfg.Columns.ForkCount),
		ListColumn: firstNonEmpty(opts.listColumn, cfg.Columns.List),
		Comma:      cfg.Comma(),
	})
	if err != nil {
		return err
	}
	logger.Debug("matrix loaded",
		zap.String("path", opts.input),
		zap.Int("rows", tbl.Len()),
		zap.Int("columns", len(tbl.Columns)),
	)

	// Trace shares stdout with the text report; machine formats keep stdout clean.
	traceOut := opts.stderr
	if format == "text" {
		traceOut = opts.stdout
	}
	var sink scoring.Sink
	switch traceMode {
	case "text":
		sink = &scoring.TextSink{W: traceOut}
	case "log":
		sink = logging.TraceSink(logger)
	default:
		sink = scoring.NopSink{}
	}

	engine := scoring.NewEngine(policy.Rule(),
		scoring.WithSink(sink),
		scoring.WithSeparator(firstNonEmpty(opts.listSeparator, cfg.Columns.ListSeparator)),
	)
	result, err := engine.Score(tbl)
	if err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	result.Source = opts.input

	meta := surface.Meta{RunID: publish.NewRunID(), GeneratedAt: time.Now()}
	renderer, err := surface.New(format, meta, colorFor(opts.stdout))
	if err != nil {
		return err
	}
	if err := renderer.Render(opts.stdout, result); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	logger.Debug("scoring complete",
		zap.String("run_id", meta.RunID),
		zap.String("policy", policy.String()),
		zap.Int("features", len(result.Features)),
		zap.Int("rows_scored", result.Stats.RowsScored),
		zap.Int("rows_skipped", result.Stats.RowsSkipped),
	)

	var heatmapPath string
	if opts.heatmap {
		heatmapPath = heatmap.OutputPath(opts.input)
		err := heatmap.Export(heatmap.SamplesFromFeatures(result.Features), heatmapPath)
		switch {
		case errors.Is(err, heatmap.ErrNoSamples):
			logger.Warn("no features scored, heatmap not written")
			heatmapPath = ""
		case err != nil:
			return err
		default:
			fmt.Fprintf(opts.stderr, "Heatmap written: %s\n", heatmapPath)
		}
	}

	target := firstNonEmpty(opts.publish, cfg.Publish.Target)
	if target == "" {
		return nil
	}

	artifacts, err := scoreArtifacts(meta, result, heatmapPath)
	if err != nil {
		return err
	}
	return publishArtifacts(ctx, a, target, meta.RunID, artifacts, opts.stderr)
}

// scoreArtifacts collects the files uploaded for a scoring run.
func scoreArtifacts(meta surface.Meta, result *scoring.Result, heatmapPath string) ([]publish.Artifact, error) {
	var buf bytes.Buffer
	if err := (&surface.JSONRenderer{Meta: meta}).Render(&buf, result); err != nil {
		return nil, fmt.Errorf("encoding JSON: %w", err)
	}
	var prom bytes.Buffer
	if err := (&surface.PromRenderer{}).Render(&prom, result); err != nil {
		return nil, fmt.Errorf("encoding metrics: %w", err)
	}

	artifacts := []publish.Artifact{
		{Name: "scores.json", ContentType: "application/json", Data: buf.Bytes()},
		{Name: "scores.prom", ContentType: "text/plain; version=0.0.4", Data: prom.Bytes()},
	}
	if heatmapPath != "" {
		a, err := fileArtifact(heatmapPath, xlsxContentType)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, nil
}

func publishArtifacts(ctx context.Context, a *app, target, runID string, artifacts []publish.Artifact, stderr io.Writer) error {
	pubCfg := a.cfg.Publish
	pubCfg.Target = target

	p, err := publish.New(ctx, pubCfg, a.logger)
	if err != nil {
		return fmt.Errorf("opening publish target: %w", err)
	}
	defer p.Close()

	keys, err := p.Publish(ctx, runID, artifacts)
	if err != nil {
		return err
	}
	for _, k := range keys {
		fmt.Fprintf(stderr, "Published: %s\n", k)
	}
	return nil
}

// colorFor reports whether w is a color-capable terminal.
func colorFor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return surface.ColorEnabled(f)
}

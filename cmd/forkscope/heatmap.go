package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/forkscope/forkscope/internal/publish"
	"github.com/forkscope/forkscope/pkg/heatmap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func newHeatmapCmd(a *app) *cobra.Command {
	var opts heatmapOpts

	cmd := &cobra.Command{
		Use:   "heatmap <csv>",
		Short: "Export a label,val CSV as a color-graded xlsx workbook",
		Long: `Reads a CSV with "label" and "val" columns and writes an xlsx workbook
in which every label cell is filled with its value's position on a
green-yellow-red gradient between the column minimum and maximum.`,
		Args: usageOnError(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.input = args[0]
			opts.stderr = cmd.ErrOrStderr()
			return runHeatmap(cmd.Context(), a, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Destination xlsx (default: <input>_heatmap.xlsx)")
	cmd.Flags().StringVar(&opts.publish, "publish", "", "Upload the workbook to s3://bucket/prefix, gs://bucket/prefix or a directory")

	return cmd
}

type heatmapOpts struct {
	input   string
	output  string
	publish string

	stderr io.Writer
}

func runHeatmap(ctx context.Context, a *app, opts heatmapOpts) error {
	samples, err := heatmap.LoadSamples(opts.input)
	if err != nil {
		return err
	}

	out := firstNonEmpty(opts.output, heatmap.OutputPath(opts.input))
	if err := heatmap.Export(samples, out); err != nil {
		return err
	}
	a.logger.Debug("heatmap exported", zap.String("path", out), zap.Int("samples", len(samples)))
	fmt.Fprintf(opts.stderr, "Heatmap written: %s\n", out)

	target := firstNonEmpty(opts.publish, a.cfg.Publish.Target)
	if target == "" {
		return nil
	}
	artifact, err := fileArtifact(out, xlsxContentType)
	if err != nil {
		return err
	}
	return publishArtifacts(ctx, a, target, publish.NewRunID(), []publish.Artifact{artifact}, opts.stderr)
}

// fileArtifact reads a produced file for upload under its base name.
func fileArtifact(path, contentType string) (publish.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return publish.Artifact{}, fmt.Errorf("reading artifact: %w", err)
	}
	return publish.Artifact{Name: filepath.Base(path), ContentType: contentType, Data: data}, nil
}

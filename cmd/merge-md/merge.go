// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/apptools/internal/cliconf"
	"github.com/pdiddy/apptools/internal/ledger"
	"github.com/pdiddy/apptools/internal/mdmerge"
	"github.com/pdiddy/apptools/pkg/types"
)

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := cliconf.Load(viper.GetViper())
	if err != nil {
		return err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}
	cmd.SilenceUsage = true

	started := time.Now()
	doc, err := buildDocument(cwd, args, cfg.Merge, time.Now)
	if err != nil {
		var missing *mdmerge.MissingError
		if errors.As(err, &missing) {
			logger.Debug("aborting merge", zap.Int("missing", len(missing.Paths)))
		}
		return err
	}

	run := types.Run{Tool: toolName, StartedAt: started}
	if cfg.Merge.Out == "" {
		fmt.Fprint(cmd.OutOrStdout(), doc)
		run.Outputs = append(run.Outputs, docOutput("-", doc))
	} else {
		outPath, err := writeOutput(cwd, cfg.Merge.Out, doc)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), outPath)
		run.Outputs = append(run.Outputs, docOutput(outPath, doc))
	}

	cliconf.RecordRun(cmd.Context(), cfg.Ledger, run, logger)
	return nil
}

// buildDocument resolves args against cwd (falling back to the default plan
// list), merges them, and renders HTML when requested.
func buildDocument(cwd string, args []string, cfg types.MergeConfig, now func() time.Time) (string, error) {
	paths := mdmerge.Resolve(cwd, args)
	logger.Debug("merging", zap.Int("inputs", len(paths)), zap.Bool("defaults", len(args) == 0))

	doc, err := mdmerge.Merge(paths, mdmerge.Options{
		Root:             cwd,
		Title:            cfg.Title,
		StripFrontmatter: cfg.StripFrontmatter,
		Now:              now,
	})
	if err != nil {
		return "", err
	}

	switch cfg.Format {
	case "", types.OutputMarkdown:
		return doc, nil
	case types.OutputHTML:
		return mdmerge.RenderHTML(doc, cfg.Title)
	default:
		return "", fmt.Errorf("unknown format %q (want markdown or html)", cfg.Format)
	}
}

// writeOutput writes doc to out, resolved against cwd when relative, and
// returns the absolute path written.
func writeOutput(cwd, out, doc string) (string, error) {
	if !filepath.IsAbs(out) {
		out = filepath.Join(cwd, out)
	}
	out = filepath.Clean(out)
	if err := mdmerge.Write(out, doc); err != nil {
		return "", err
	}
	return out, nil
}

func docOutput(path, doc string) types.Output {
	return types.Output{
		Path:   path,
		SHA256: ledger.Digest([]byte(doc)),
		Bytes:  int64(len(doc)),
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for gen-icons, which rasterizes the SVG
// launcher icon into the Android mipmap PNG set.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/apptools/internal/cliconf"
	"github.com/pdiddy/apptools/internal/iconset"
	"github.com/pdiddy/apptools/internal/render"
	"github.com/pdiddy/apptools/pkg/types"
)

const toolName = "gen-icons"

// version is set at build time via ldflags.
var version = "dev"

var logger = zap.NewNop()

// rootCmd is the base command for the gen-icons CLI.
var rootCmd = &cobra.Command{
	Use:   "gen-icons",
	Short: "Render the SVG launcher icon into Android mipmap PNGs",
	Long: `gen-icons reads app/src/main/res/raw/ic_launcher_paw.svg and writes
ic_launcher.png and ic_launcher_round.png for every mipmap density bucket,
plus ic_launcher_foreground.png (the icon without its background rect) for
adaptive icons. Output goes to app/src/main/res/mipmap-*/.

Rendering uses rsvg-convert when installed and the builtin rasterizer
otherwise.`,
	Args: cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgFile, _ := cmd.Flags().GetString("config")
		used, err := cliconf.Init(viper.GetViper(), cfgFile)
		if err != nil {
			return err
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		if logger, err = cliconf.NewLogger(verbose); err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		if used != "" {
			logger.Debug("using config file", zap.String("path", used))
		}
		return nil
	},
	RunE: runGenerate,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./apptools.yaml or ~/.config/apptools/apptools.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	rootCmd.Flags().String("source", iconset.DefaultSource, "SVG icon to rasterize")
	rootCmd.Flags().String("res-dir", iconset.DefaultResDir, "Android res directory containing mipmap-* folders")
	rootCmd.Flags().String("renderer", string(types.RendererAuto), "rendering backend: auto, builtin, or rsvg")

	viper.BindPFlag("icons.source", rootCmd.Flags().Lookup("source"))
	viper.BindPFlag("icons.res_dir", rootCmd.Flags().Lookup("res-dir"))
	viper.BindPFlag("icons.renderer", rootCmd.Flags().Lookup("renderer"))

	rootCmd.AddCommand(cliconf.NewHistoryCmd(toolName, viper.GetViper()))
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := cliconf.Load(viper.GetViper())
	if err != nil {
		return err
	}

	r, err := render.Detect(cfg.Icons.Renderer)
	if err != nil {
		return err
	}
	logger.Debug("renderer selected", zap.String("renderer", r.Name()))
	cmd.SilenceUsage = true

	started := time.Now()
	g := &iconset.Generator{
		Renderer: r,
		ResDir:   cfg.Icons.ResDir,
		Out:      cmd.OutOrStdout(),
		Log:      logger,
	}
	res, err := g.GenerateFile(cmd.Context(), cfg.Icons.Source)
	if err != nil {
		return err
	}

	cliconf.RecordRun(cmd.Context(), cfg.Ledger, runRecord(started, res), logger)
	return nil
}

// runRecord converts a generation result into a ledger entry.
func runRecord(started time.Time, res iconset.Result) types.Run {
	run := types.Run{Tool: toolName, StartedAt: started}
	for _, a := range res.Assets {
		run.Outputs = append(run.Outputs, types.Output{
			Path:   a.Path,
			SHA256: a.SHA256,
			Bytes:  a.Bytes,
			Detail: fmt.Sprintf("%dx%d", a.Size, a.Size),
		})
	}
	return run
}

func main() {
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for merge-md, which concatenates Markdown
// documents into a single file under a generated header.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/apptools/internal/cliconf"
	"github.com/pdiddy/apptools/internal/mdmerge"
	"github.com/pdiddy/apptools/pkg/types"
)

const toolName = "merge-md"

// version is set at build time via ldflags.
var version = "dev"

var logger = zap.NewNop()

// rootCmd is the base command for the merge-md CLI.
var rootCmd = &cobra.Command{
	Use:   "merge-md [inputs...]",
	Short: "Merge multiple markdown files into a single markdown document",
	Long: `merge-md concatenates Markdown files, in the order given, under a header
with the document title, the UTC generation time, and the list of included
files. Each file gets its own "Source" section. Files wrapped entirely in a
single ` + "```markdown" + ` fence are unwrapped first.

With no inputs the v38-v46 radio plan documents under docs/plan/ are merged.
All inputs must exist; otherwise nothing is written.

An input named "version" or "history" selects that subcommand; pass it as
./version or ./history to merge the file instead.`,
	Args: cobra.ArbitraryArgs,
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
	RunE: runMerge,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./apptools.yaml or ~/.config/apptools/apptools.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	rootCmd.Flags().String("out", "", "output path; prints to stdout when omitted")
	rootCmd.Flags().String("title", mdmerge.DefaultTitle, "title for the merged document")
	rootCmd.Flags().Bool("strip-frontmatter", false, "remove leading YAML frontmatter from each input")
	rootCmd.Flags().String("format", string(types.OutputMarkdown), "output format: markdown or html")

	viper.BindPFlag("merge.out", rootCmd.Flags().Lookup("out"))
	viper.BindPFlag("merge.title", rootCmd.Flags().Lookup("title"))
	viper.BindPFlag("merge.strip_frontmatter", rootCmd.Flags().Lookup("strip-frontmatter"))
	viper.BindPFlag("merge.format", rootCmd.Flags().Lookup("format"))

	rootCmd.AddCommand(cliconf.NewHistoryCmd(toolName, viper.GetViper()))
}

func main() {
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cliconf

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/apptools/internal/ledger"
)

// NewHistoryCmd returns the "history" subcommand listing the ledger runs of
// tool. The ledger path comes from ledger.path in v.
func NewHistoryCmd(tool string, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs recorded in the ledger",
		Long: `History prints the most recent runs of this tool recorded in the SQLite
ledger, with the path and SHA-256 of every file each run wrote. Recording is
enabled by setting ledger.path in apptools.yaml or APPTOOLS_LEDGER_PATH.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := v.GetString("ledger.path")
			if path == "" {
				return fmt.Errorf("no ledger configured: set ledger.path or APPTOOLS_LEDGER_PATH")
			}
			limit, _ := cmd.Flags().GetInt("limit")
			asYAML, _ := cmd.Flags().GetBool("yaml")
			all, _ := cmd.Flags().GetBool("all")

			l, err := ledger.Open(path)
			if err != nil {
				return err
			}
			defer l.Close()

			filter := tool
			if all {
				filter = ""
			}
			runs, err := l.Recent(cmd.Context(), filter, limit)
			if err != nil {
				return err
			}

			if asYAML {
				return ledger.WriteYAML(cmd.OutOrStdout(), runs)
			}
			ledger.WriteText(cmd.OutOrStdout(), runs)
			return nil
		},
	}
	cmd.Flags().Int("limit", 10, "maximum number of runs to list")
	cmd.Flags().Bool("yaml", false, "print runs as YAML")
	cmd.Flags().Bool("all", false, "include runs of every tool")
	return cmd
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hollg/vellum"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the vellum version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "vellum "+vellum.VersionTag())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

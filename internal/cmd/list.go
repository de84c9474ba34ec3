package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	Long: `List the documents in the store with their last-modified time.

Examples:
  vellum list`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	infos, err := st.List()
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}
	if len(infos) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no documents")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tUPDATED")
	for _, in := range infos {
		fmt.Fprintf(tw, "%s\t%s\n", in.Name, in.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

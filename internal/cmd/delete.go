package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a stored document",
	Long: `Delete a document from the store.

Asks for confirmation unless --force is given.

Examples:
  vellum delete "meeting notes"
  vellum delete scratch --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Delete without confirmation")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	name := args[0]

	if !deleteForce {
		fmt.Fprintf(cmd.OutOrStdout(), "delete %q? [y/N]: ", name)
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
		default:
			fmt.Fprintln(cmd.OutOrStdout(), "aborted")
			return nil
		}
	}

	if err := st.Delete(name); err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %q\n", name)
	return nil
}

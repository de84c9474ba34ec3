package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hollg/vellum/block"
	"github.com/hollg/vellum/docx"
	"github.com/hollg/vellum/markdown"
	"github.com/hollg/vellum/store"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Export a document as Markdown or a Word document",
	Long: `Export a stored document to a file.

Markdown export writes the block markup vellum edits natively. Word
export writes a minimal .docx with headings, lists, quotes and inline
styles mapped to their Word equivalents.

Examples:
  # Markdown into the working directory
  vellum export "meeting notes"

  # Word document at an explicit path
  vellum export "meeting notes" --format docx -o notes.docx`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "markdown", "Export format (markdown|docx)")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Output file (default: derived from the document name)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	doc, err := st.Load(args[0])
	if err != nil {
		return fmt.Errorf("load %q: %w", args[0], err)
	}
	path, err := exportDocument(exportFormat, exportOut, doc.Name, doc.Blocks)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %s\n", path)
	return nil
}

// exportDocument writes specs to path in the named format. An empty
// path derives <slug>.<ext> in the working directory. Returns the
// path written.
func exportDocument(format, path, name string, specs []block.Spec) (string, error) {
	var ext string
	switch format {
	case "markdown":
		ext = ".md"
	case "docx":
		ext = ".docx"
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
	if path == "" {
		path = store.Slug(name) + ext
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	switch format {
	case "markdown":
		_, err = io.WriteString(f, markdown.FromBlocks(specs))
	case "docx":
		err = docx.Write(f, name, specs)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

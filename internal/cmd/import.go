package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/hollg/vellum/markdown"
	"github.com/hollg/vellum/store"
)

var (
	importName  string
	importForce bool
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a Markdown file into the store",
	Long: `Import a Markdown file as a new document.

The file may be UTF-8 or UTF-16, with or without a byte order mark;
input is normalized before parsing. Heading, list and quote lines
become their block types and inline **bold**, *italic* and
~~strikethrough~~ markers become styled spans.

Examples:
  # Name taken from the file
  vellum import notes.md

  # Explicit document name
  vellum import notes.md --name "meeting notes"`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importName, "name", "", "Document name (default: file name without extension)")
	importCmd.Flags().BoolVar(&importForce, "force", false, "Replace an existing document with the same name")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	text, err := decodeMarkdown(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", args[0], err)
	}

	name := importName
	if name == "" {
		base := filepath.Base(args[0])
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if st.Exists(name) && !importForce {
		return fmt.Errorf("document %q already exists (use --force to replace)", name)
	}

	doc := store.Document{Name: name, Blocks: markdown.ToBlocks(text)}
	if err := st.Save(&doc); err != nil {
		return fmt.Errorf("save %q: %w", name, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %q (%d blocks)\n", name, len(doc.Blocks))
	return nil
}

// decodeMarkdown converts possibly UTF-16 input to UTF-8, honoring and
// stripping a byte order mark.
func decodeMarkdown(data []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

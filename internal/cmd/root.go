// Package cmd implements the vellum command line: the editor itself on
// the root command plus document management subcommands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hollg/vellum/config"
	"github.com/hollg/vellum/store"
)

var (
	debugFlag   bool
	dataDirFlag string
)

var rootCmd = &cobra.Command{
	Use:   "vellum [document]",
	Short: "Block-structured terminal editor",
	Long: `Vellum is a block-structured text editor for the terminal.

A document is a list of blocks: paragraphs, headings, bulleted and
numbered list items and quotes. Markdown shorthand converts blocks as
you type ("# " for a heading, "- " for a bullet), inline styles render
in place and documents save themselves while you write.

Run vellum with no arguments to start an untitled document, or name a
document to open it; a new name is created on first save.

Examples:
  # Start a scratch document
  vellum

  # Open or create a named document
  vellum "meeting notes"

  # See what is stored
  vellum list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Log at debug level")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Document directory (default: ~/.local/share/vellum)")
}

// loadConfig reads the user configuration and applies flag overrides.
// A broken config file degrades to defaults instead of blocking; the
// parse error comes back for logging.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if dataDirFlag != "" {
		cfg.DataDir = dataDirFlag
	}
	return cfg, err
}

func openStore() (*store.Store, error) {
	cfg, _ := loadConfig()
	st, err := store.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}
	return st, nil
}

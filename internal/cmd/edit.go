package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hollg/vellum/block"
	"github.com/hollg/vellum/config"
	"github.com/hollg/vellum/editor"
	"github.com/hollg/vellum/internal/logging"
	"github.com/hollg/vellum/internal/suggest"
	"github.com/hollg/vellum/markdown"
	"github.com/hollg/vellum/store"
)

func runEdit(cmd *cobra.Command, args []string) error {
	cfg, cfgErr := loadConfig()
	logger := logging.New(cfg.LogFile, debugFlag)
	defer func() { _ = logger.Sync() }()
	if cfgErr != nil {
		logger.Warn("config unreadable, using defaults", zap.Error(cfgErr))
	}

	st, err := store.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open document store: %w", err)
	}

	name := "untitled"
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		name = args[0]
	}
	var blocks []block.Spec
	if doc, err := st.Load(name); err == nil {
		blocks = doc.Blocks
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("open %q: %w", name, err)
	}

	var provider editor.SuggestProvider
	if cfg.Suggestions {
		provider = suggest.NewWords(markdown.FromBlocks(blocks))
	}

	ed := editor.New(editor.Config{
		Name:          name,
		Blocks:        blocks,
		Style:         styleFromTheme(cfg.Theme),
		NoSoftWrap:    !cfg.SoftWrap,
		Clipboard:     systemClipboard{},
		Suggest:       provider,
		Save:          saveFunc(st),
		Load:          loadFunc(st),
		List:          listFunc(st),
		Export:        exportHook(),
		AutosaveDelay: cfg.AutosaveDelay(),
		Logger:        logger,
	})

	p := tea.NewProgram(app{editor: ed}, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run editor: %w", err)
	}
	return nil
}

// app adapts editor.Model to the tea.Model interface the program loop
// expects.
type app struct {
	editor editor.Model
}

func (a app) Init() tea.Cmd { return a.editor.Init() }

func (a app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	ed, cmd := a.editor.Update(msg)
	a.editor = ed
	return a, cmd
}

func (a app) View() string { return a.editor.View() }

// systemClipboard bridges the editor's clipboard interface to the OS
// clipboard.
type systemClipboard struct{}

func (systemClipboard) ReadText() (string, error) { return clipboard.ReadAll() }
func (systemClipboard) WriteText(s string) error { return clipboard.WriteAll(s) }

// saveFunc persists through the store, keeping the stored ID stable
// across saves of the same name within the session.
func saveFunc(st *store.Store) editor.SaveFunc {
	ids := make(map[string]uuid.UUID)
	return func(name string, blocks []block.Spec) error {
		id := ids[name]
		if id == uuid.Nil {
			if doc, err := st.Load(name); err == nil {
				id = doc.ID
			}
		}
		doc := store.Document{ID: id, Name: name, Blocks: blocks}
		if err := st.Save(&doc); err != nil {
			return err
		}
		ids[name] = doc.ID
		return nil
	}
}

func loadFunc(st *store.Store) editor.LoadFunc {
	return func(name string) ([]block.Spec, error) {
		doc, err := st.Load(name)
		if err != nil {
			return nil, err
		}
		return doc.Blocks, nil
	}
}

func listFunc(st *store.Store) editor.ListFunc {
	return func() ([]string, error) {
		infos, err := st.List()
		if err != nil {
			return nil, err
		}
		names := make([]string, len(infos))
		for i, in := range infos {
			names[i] = in.Name
		}
		return names, nil
	}
}

func exportHook() editor.ExportFunc {
	return func(format, name string, blocks []block.Spec) error {
		_, err := exportDocument(format, "", name, blocks)
		return err
	}
}

// styleFromTheme overlays the configured colors on the default style.
func styleFromTheme(th config.Theme) editor.Style {
	st := editor.DefaultStyle()
	if th.Accent != "" {
		st.PaletteTitle = st.PaletteTitle.Foreground(lipgloss.Color(th.Accent))
	}
	if th.Muted != "" {
		st.Ghost = st.Ghost.Foreground(lipgloss.Color(th.Muted))
		st.Quote = st.Quote.Foreground(lipgloss.Color(th.Muted))
	}
	if th.Selection != "" {
		st.Selection = st.Selection.Background(lipgloss.Color(th.Selection))
	}
	if th.Marker != "" {
		st.Marker = st.Marker.Foreground(lipgloss.Color(th.Marker))
	}
	return st
}

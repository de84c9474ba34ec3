package editor

import (
	"time"

	"go.uber.org/zap"

	"github.com/hollg/vellum/block"
)

// SaveFunc persists the document under its name.
type SaveFunc func(name string, blocks []block.Spec) error

// LoadFunc fetches a stored document's blocks by name.
type LoadFunc func(name string) ([]block.Spec, error)

// ListFunc names the stored documents for the open dialog.
type ListFunc func() ([]string, error)

// ExportFunc writes the document in the given format ("markdown" or
// "docx").
type ExportFunc func(format, name string, blocks []block.Spec) error

// Config configures the editor Model. Zero values are filled with
// defaults; host hooks left nil disable the feature they back.
type Config struct {
	// Document name and initial content.
	Name   string
	Blocks []block.Spec

	Style  Style
	KeyMap KeyMap

	// NoSoftWrap disables wrapping long blocks at the viewport width;
	// blocks then clip at the right edge.
	NoSoftWrap bool

	// Host hooks.
	Clipboard Clipboard
	Suggest   SuggestProvider
	Save      SaveFunc
	Load      LoadFunc
	List      ListFunc
	Export    ExportFunc
	OnChange  func(ChangeEvent)

	// Debounce between the last content change and the automatic save.
	AutosaveDelay time.Duration

	Logger *zap.Logger
}

func normalizeConfig(cfg Config) Config {
	if cfg.Name == "" {
		cfg.Name = "untitled"
	}
	if isZeroKeyMap(cfg.KeyMap) {
		cfg.KeyMap = DefaultKeyMap()
	}
	if isZeroStyle(cfg.Style) {
		cfg.Style = DefaultStyle()
	}
	if cfg.AutosaveDelay <= 0 {
		cfg.AutosaveDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return cfg
}

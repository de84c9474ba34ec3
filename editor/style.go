package editor

import (
	"reflect"

	"github.com/charmbracelet/lipgloss"

	"github.com/hollg/vellum/block"
)

// Style controls the editor's rendering.
type Style struct {
	Text     lipgloss.Style
	Heading1 lipgloss.Style
	Heading2 lipgloss.Style
	Heading3 lipgloss.Style
	Quote    lipgloss.Style

	// Marker styles the derived bullet glyphs and numbered labels.
	Marker lipgloss.Style

	Selection lipgloss.Style
	Cursor    lipgloss.Style

	// Ghost renders pending suggestion text after the caret.
	Ghost lipgloss.Style

	StatusBar    lipgloss.Style
	StatusNotice lipgloss.Style

	PaletteBox      lipgloss.Style
	PaletteTitle    lipgloss.Style
	PaletteItem     lipgloss.Style
	PaletteSelected lipgloss.Style
}

func DefaultStyle() Style {
	return Style{
		Text:     lipgloss.NewStyle(),
		Heading1: lipgloss.NewStyle().Bold(true),
		Heading2: lipgloss.NewStyle().Bold(true),
		Heading3: lipgloss.NewStyle().Bold(true).Faint(true),
		Quote:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245")),

		Marker: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),

		Selection: lipgloss.NewStyle().Background(lipgloss.Color("237")),
		Cursor:    lipgloss.NewStyle().Reverse(true),

		Ghost: lipgloss.NewStyle().Faint(true),

		StatusBar:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("236")),
		StatusNotice: lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Background(lipgloss.Color("236")),

		PaletteBox:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		PaletteTitle:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		PaletteItem:     lipgloss.NewStyle(),
		PaletteSelected: lipgloss.NewStyle().Reverse(true),
	}
}

// blockBase returns the base style for a block type.
func (st Style) blockBase(t block.Type) lipgloss.Style {
	switch t {
	case block.Heading1:
		return st.Heading1
	case block.Heading2:
		return st.Heading2
	case block.Heading3:
		return st.Heading3
	case block.Quote:
		return st.Quote
	default:
		return st.Text
	}
}

// spanStyle layers inline style flags over a base style.
func spanStyle(base lipgloss.Style, flags block.StyleFlags) lipgloss.Style {
	if flags == 0 {
		return base
	}
	out := base
	if flags.Has(block.StyleBold) {
		out = out.Bold(true)
	}
	if flags.Has(block.StyleItalic) {
		out = out.Italic(true)
	}
	if flags.Has(block.StyleStrike) {
		out = out.Strikethrough(true)
	}
	return out
}

func isZeroStyle(st Style) bool {
	return reflect.DeepEqual(st, Style{})
}

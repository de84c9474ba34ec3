package editor

import "github.com/hollg/vellum/block"

// SuggestContext describes the caret position a completion is wanted
// for. Offset is a grapheme index into BlockText.
type SuggestContext struct {
	BlockText      string
	Offset         int
	BlockType      block.Type
	ContentVersion uint64
}

// SuggestProvider produces ghost-text continuations. Ready gates
// display: while the provider is still working it reports false and
// nothing is shown. Cancel tells the provider to abandon work for the
// current position; the editor calls it on any edit.
type SuggestProvider interface {
	Ready() bool
	Suggest(ctx SuggestContext) (string, bool)
	Cancel()
}

type suggestKey struct {
	contentVersion uint64
	caret          block.Caret
}

// suggestState caches the provider's answer for one caret position so
// rendering does not re-query every frame.
type suggestState struct {
	valid   bool
	key     suggestKey
	text    string
	present bool
}

func (s *suggestState) get(key suggestKey) (string, bool, bool) {
	if !s.valid || s.key != key {
		return "", false, false
	}
	return s.text, s.present, true
}

func (s *suggestState) put(key suggestKey, text string, present bool) {
	s.valid = true
	s.key = key
	s.text = text
	s.present = present
}

func (s *suggestState) clear() {
	*s = suggestState{}
}

// currentSuggestion returns the ghost text for the caret, if any.
// Suggestions appear only at the end of a block and only once the
// provider reports Ready.
func (m *Model) currentSuggestion() (string, bool) {
	if m.cfg.Suggest == nil || !m.focused {
		return "", false
	}
	caret := m.doc.Caret()
	if caret.Offset != m.doc.TextLen(caret.Block) {
		return "", false
	}
	key := suggestKey{contentVersion: m.doc.ContentVersion(), caret: caret}
	if text, present, ok := m.suggest.get(key); ok {
		return text, present
	}
	if !m.cfg.Suggest.Ready() {
		return "", false
	}
	sp, ok := m.doc.Spec(caret.Block)
	if !ok {
		return "", false
	}
	text, present := m.cfg.Suggest.Suggest(SuggestContext{
		BlockText:      sp.Text,
		Offset:         caret.Offset,
		BlockType:      sp.Type,
		ContentVersion: m.doc.ContentVersion(),
	})
	text = sanitizeSuggestion(text)
	if present && text == "" {
		present = false
	}
	m.suggest.put(key, text, present)
	return text, present
}

// cancelSuggestion drops any pending or displayed suggestion and tells
// the provider to stop.
func (m *Model) cancelSuggestion() {
	m.suggest.clear()
	if m.cfg.Suggest != nil {
		m.cfg.Suggest.Cancel()
	}
}

// acceptSuggestion inserts the displayed ghost text at the caret.
func (m *Model) acceptSuggestion() bool {
	text, ok := m.currentSuggestion()
	if !ok || text == "" {
		return false
	}
	m.suggest.clear()
	m.doc.InsertText(text)
	return true
}

// sanitizeSuggestion keeps ghost text on one visual line.
func sanitizeSuggestion(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' || s[i] == '\r' {
			return s[:i]
		}
	}
	return s
}

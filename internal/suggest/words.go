// Package suggest implements the editor's ghost-text provider as an
// offline word completer: it finishes the word under the caret from
// vocabulary seen earlier in the session.
package suggest

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/hollg/vellum/editor"
	"github.com/hollg/vellum/internal/grapheme"
)

// minPrefix is the shortest partial word worth completing.
const minPrefix = 3

// Words completes the partial word before the caret against words it
// has already seen. The seed vocabulary is indexed on its own
// goroutine; Ready reports false until that finishes.
type Words struct {
	ready atomic.Bool

	mu    sync.Mutex
	seq   int
	vocab map[string]int
}

// NewWords builds a provider seeded with the words of text.
func NewWords(text string) *Words {
	w := &Words{vocab: make(map[string]int)}
	go func() {
		w.Learn(text)
		w.ready.Store(true)
	}()
	return w
}

// Ready reports whether the seed vocabulary has been indexed.
func (w *Words) Ready() bool { return w.ready.Load() }

// Cancel is a no-op: completions are computed synchronously, so there
// is never in-flight work to abandon.
func (w *Words) Cancel() {}

// Learn adds the words of text to the vocabulary. Later words shadow
// earlier ones when several complete the same prefix.
func (w *Words) Learn(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.learnLocked(text)
}

func (w *Words) learnLocked(text string) {
	for _, word := range strings.Fields(text) {
		word = strings.Trim(word, trimCutset)
		if word == "" {
			continue
		}
		w.seq++
		w.vocab[word] = w.seq
	}
}

// trimCutset strips the punctuation that clings to prose words so
// "ready," and "ready" index identically.
const trimCutset = ".,;:!?()[]{}\"'`*~_"

// Suggest completes the partial word ending at the caret. The text
// before the partial word is folded into the vocabulary first, so
// repetition within a block completes without any host wiring.
func (w *Words) Suggest(ctx editor.SuggestContext) (string, bool) {
	clusters := grapheme.Split(ctx.BlockText)
	end := ctx.Offset
	if end > len(clusters) {
		end = len(clusters)
	}
	start := grapheme.TrailingRunStart(clusters, end)
	prefix := strings.Join(clusters[start:end], "")

	w.mu.Lock()
	defer w.mu.Unlock()
	w.learnLocked(strings.Join(clusters[:start], ""))

	if grapheme.Count(prefix) < minPrefix {
		return "", false
	}
	best, bestSeq := "", 0
	for word, seq := range w.vocab {
		if len(word) <= len(prefix) || !strings.HasPrefix(word, prefix) {
			continue
		}
		if seq > bestSeq {
			best, bestSeq = word, seq
		}
	}
	if best == "" {
		return "", false
	}
	return best[len(prefix):], true
}

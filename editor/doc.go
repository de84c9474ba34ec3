// Package editor provides a Bubble Tea component editing one
// block-structured document.
//
// The package is responsible for input handling, viewport behavior,
// block-aware rendering with soft wrap, and host integration hooks
// (persistence, clipboard, ghost suggestions, export, and change
// events). Document semantics live in the block package; the editor
// turns key and mouse events into block operations and paints the
// result, with the command palette and file dialogs composited on top.
package editor

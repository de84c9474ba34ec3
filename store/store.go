// Package store persists documents as JSON files in a flat directory,
// one file per document, keyed by the slugged document name.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hollg/vellum/block"
)

// ErrNotFound reports a load or delete of a document that does not
// exist.
var ErrNotFound = errors.New("document not found")

const envelopeVersion = 1

// Document is a persisted document: identity, display name and the
// block list that reproduces it.
type Document struct {
	ID        uuid.UUID
	Name      string
	UpdatedAt time.Time
	Blocks    []block.Spec
}

// Info describes one stored document without its content.
type Info struct {
	ID        uuid.UUID
	Name      string
	UpdatedAt time.Time
}

type envelope struct {
	Version   int          `json:"version"`
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Blocks    []block.Spec `json:"blocks"`
}

// Store reads and writes documents under one directory.
type Store struct {
	dir string
}

// New opens a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory the store writes into.
func (s *Store) Dir() string { return s.dir }

// Save writes doc to disk, assigning an ID on first save and stamping
// UpdatedAt. The file name is the slugged document name, so renaming a
// document and saving leaves the old file behind; callers that rename
// delete the old name first.
func (s *Store) Save(doc *Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	doc.UpdatedAt = time.Now().UTC()

	env := envelope{
		Version:   envelopeVersion,
		ID:        doc.ID,
		Name:      doc.Name,
		UpdatedAt: doc.UpdatedAt,
		Blocks:    doc.Blocks,
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document %q: %w", doc.Name, err)
	}
	path := s.path(doc.Name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write document %q: %w", doc.Name, err)
	}
	return nil
}

// Load reads the document stored under name. Damaged content is
// repaired rather than refused: unknown block types fall back to text,
// levels are clamped, a plain-text payload becomes one text block per
// line and anything undecodable becomes a single empty block.
func (s *Store) Load(name string) (*Document, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("load %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("load %q: %w", name, err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return &Document{Name: name, Blocks: recoverBlocks(data)}, nil
	}
	doc := &Document{
		ID:        env.ID,
		Name:      env.Name,
		UpdatedAt: env.UpdatedAt,
		Blocks:    repairBlocks(env.Blocks),
	}
	if doc.Name == "" {
		doc.Name = name
	}
	return doc, nil
}

// List returns the stored documents sorted by name. Entries that fail
// to decode are skipped.
func (s *Store) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	var infos []Info
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		if env.Name == "" {
			env.Name = strings.TrimSuffix(e.Name(), ".json")
		}
		infos = append(infos, Info{ID: env.ID, Name: env.Name, UpdatedAt: env.UpdatedAt})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Delete removes the document stored under name.
func (s *Store) Delete(name string) error {
	err := os.Remove(s.path(name))
	if os.IsNotExist(err) {
		return fmt.Errorf("delete %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	return nil
}

// Exists reports whether a document is stored under name.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.path(name))
	return err == nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, Slug(name)+".json")
}

// Slug returns the file stem documents are keyed by: name lowercased
// with every run of non-alphanumerics squeezed into one hyphen. An
// empty result becomes "untitled".
func Slug(name string) string {
	var sb strings.Builder
	pending := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pending = false
			sb.WriteRune(r)
			continue
		}
		pending = true
	}
	if sb.Len() == 0 {
		return "untitled"
	}
	return sb.String()
}

// repairBlocks clamps decoded specs back into the valid range. Unknown
// types were already mapped to text while decoding; this pins levels on
// non-list blocks and floors negative ones. An empty list gets one
// empty text block so a loaded document is never blockless.
func repairBlocks(specs []block.Spec) []block.Spec {
	if len(specs) == 0 {
		return []block.Spec{{Type: block.Text}}
	}
	out := make([]block.Spec, len(specs))
	for i, sp := range specs {
		if !sp.Type.IsList() || sp.Level < 0 {
			sp.Level = 0
		}
		out[i] = sp
	}
	return out
}

// recoverBlocks salvages a payload that is not the JSON envelope.
// Readable text becomes one text block per line; anything else becomes
// a single empty block.
func recoverBlocks(data []byte) []block.Spec {
	if !utf8.Valid(data) || len(data) == 0 {
		return []block.Spec{{Type: block.Text}}
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if strings.ContainsRune(text, 0) {
		return []block.Spec{{Type: block.Text}}
	}
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	if len(lines) == 0 {
		return []block.Spec{{Type: block.Text}}
	}
	specs := make([]block.Spec, len(lines))
	for i, line := range lines {
		specs[i] = block.Spec{Type: block.Text, Text: line}
	}
	return specs
}

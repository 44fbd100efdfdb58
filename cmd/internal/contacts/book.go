// Package contacts is the local name cache: a small JSON file mapping
// partner ids to display names. It is a convenience layer only; the chat
// core never requires it and degrades to raw ids without it.
package contacts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is one cached contact.
type Entry struct {
	ID   string
	Name string
}

// Book is a file-backed contact cache. It is not safe for concurrent use;
// the menu loop is its only caller.
type Book struct {
	path    string
	entries map[string]string // id -> name
}

// New returns an empty book that saves to path.
func New(path string) *Book {
	return &Book{path: path, entries: make(map[string]string)}
}

// Load reads the contact book at path. A missing file yields an empty book;
// a corrupt file is reported so the user does not silently lose names.
func Load(path string) (*Book, error) {
	b := &Book{path: path, entries: make(map[string]string)}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read contacts: %w", err)
	}
	if err := json.Unmarshal(raw, &b.entries); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}
	return b, nil
}

// Save writes the book back to its file.
func (b *Book) Save() error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	raw, err := json.Marshal(b.entries)
	if err != nil {
		return fmt.Errorf("encode contacts: %w", err)
	}
	if err := os.WriteFile(b.path, raw, 0o600); err != nil {
		return fmt.Errorf("write contacts: %w", err)
	}
	return nil
}

// Add records or renames a contact.
func (b *Book) Add(id, name string) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" || name == "" {
		return
	}
	b.entries[id] = name
}

// Remove forgets a contact. Unknown ids are a no-op.
func (b *Book) Remove(id string) {
	delete(b.entries, id)
}

// Has reports whether id is already cached.
func (b *Book) Has(id string) bool {
	_, ok := b.entries[id]
	return ok
}

// Name returns the cached display name for id, falling back to the raw id.
func (b *Book) Name(id string) string {
	if name, ok := b.entries[id]; ok {
		return name
	}
	return id
}

// List returns all contacts sorted by name, ties broken by id.
func (b *Book) List() []Entry {
	out := make([]Entry, 0, len(b.entries))
	for id, name := range b.entries {
		out = append(out, Entry{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of cached contacts.
func (b *Book) Len() int { return len(b.entries) }

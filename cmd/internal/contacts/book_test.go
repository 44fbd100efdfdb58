package contacts

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBook_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	b, err := Load(filepath.Join(t.TempDir(), "contacts.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.Len() != 0 {
		t.Fatalf("expected empty book, got %d entries", b.Len())
	}
	if got := b.Name("12345678"); got != "12345678" {
		t.Fatalf("Name fallback = %q, want raw id", got)
	}
}

func TestBook_SaveAndReload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "contacts.json")

	b, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b.Add("11111111", "Ada")
	b.Add("22222222", "Bea")
	if err := b.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Name("11111111") != "Ada" || again.Name("22222222") != "Bea" {
		t.Fatalf("reload lost entries: %+v", again.List())
	}

	again.Remove("11111111")
	if again.Has("11111111") {
		t.Fatalf("Remove did not forget the contact")
	}
}

func TestBook_ListSortedByName(t *testing.T) {
	t.Parallel()

	b, err := Load(filepath.Join(t.TempDir(), "contacts.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b.Add("33333333", "Zed")
	b.Add("11111111", "Ada")
	b.Add("22222222", "Ada") // same name, id breaks the tie

	got := b.List()
	if len(got) != 3 {
		t.Fatalf("List len = %d, want 3", len(got))
	}
	if got[0].ID != "11111111" || got[1].ID != "22222222" || got[2].Name != "Zed" {
		t.Fatalf("List order wrong: %+v", got)
	}
}

func TestBook_CorruptFileIsAnError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "contacts.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected decode error for corrupt file")
	}
}

func TestBook_AddIgnoresBlankInput(t *testing.T) {
	t.Parallel()

	b, err := Load(filepath.Join(t.TempDir(), "contacts.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b.Add("", "Ada")
	b.Add("11111111", "  ")
	if b.Len() != 0 {
		t.Fatalf("blank input was cached: %+v", b.List())
	}
}

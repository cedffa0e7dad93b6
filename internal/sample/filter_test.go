package sample

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func TestKeep(t *testing.T) {
	if !Keep("hello world.") {
		t.Fatalf("expected plain sentence to be kept")
	}
	for _, line := range []string{"", "# comment", "bell\a", "tab\tinside"} {
		if Keep(line) {
			t.Fatalf("expected %q to be rejected", line)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  one \t two  three  "); got != "one two three" {
		t.Fatalf("unexpected normalized line %q", got)
	}
}

func TestLoadTexts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "texts.txt")
	content := "# my sentences\n\n  First   line.  \nSecond line.\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write texts: %v", err)
	}
	texts, err := LoadTexts(path)
	if err != nil {
		t.Fatalf("load texts: %v", err)
	}
	if len(texts) != 2 || texts[0] != "First line." || texts[1] != "Second line." {
		t.Fatalf("unexpected texts: %q", texts)
	}
}

func TestLoadTextsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "texts.txt")
	if err := os.WriteFile(path, []byte("\n# nothing\n"), 0o644); err != nil {
		t.Fatalf("write texts: %v", err)
	}
	if _, err := LoadTexts(path); err == nil {
		t.Fatalf("expected error for empty text file")
	}
}

func TestPickerDefaultsAndCoverage(t *testing.T) {
	p := NewWithSource(nil, rand.NewSource(1))
	if len(p.Texts()) != 7 {
		t.Fatalf("expected 7 default texts, got %d", len(p.Texts()))
	}
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		seen[p.Pick()] = true
	}
	if len(seen) != len(Default) {
		t.Fatalf("expected every default text to be picked, saw %d", len(seen))
	}
}

func TestPickerCustomPool(t *testing.T) {
	p := NewWithSource([]string{"only"}, rand.NewSource(1))
	if got := p.Pick(); got != "only" {
		t.Fatalf("unexpected pick %q", got)
	}
}

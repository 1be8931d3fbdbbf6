package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedDefaults(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Render("attempt.victory", nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(got, "Congratulations") {
		t.Fatalf("unexpected victory message: %q", got)
	}

	got, err = c.Render("attempt.no_question", map[string]any{"Stage": 2})
	if err != nil {
		t.Fatalf("Render with data: %v", err)
	}
	if !strings.Contains(got, "stage 2") {
		t.Fatalf("stage not interpolated: %q", got)
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	override := "attempt:\n  wrong: \"Nope.\"\n"
	if err := os.WriteFile(filepath.Join(dir, "override.yaml"), []byte(override), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Render("attempt.wrong", nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "Nope." {
		t.Fatalf("override not applied: %q", got)
	}
	// Untouched keys keep their defaults.
	if _, err := c.Render("attempt.correct", nil); err != nil {
		t.Fatalf("default lost after override: %v", err)
	}
}

func TestMissingKey(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Render("attempt.nonexistent", nil); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

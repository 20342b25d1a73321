package pipelinecfg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if !cfg.EnableCanonicalization || !cfg.EmitTiming {
		t.Fatalf("expected canonicalization and timing on by default, got %+v", cfg)
	}
	if cfg.StrictAccessibility {
		t.Fatalf("expected strict accessibility to default off, got %+v", cfg)
	}
	if cfg.MaxRecursionDepth != 256 {
		t.Fatalf("expected a default recursion depth of 256, got %d", cfg.MaxRecursionDepth)
	}
}

func TestParseFillsDefaultsForOmittedFields(t *testing.T) {
	cfg, err := Parse([]byte("strict_accessibility: true\n"), "ferrite.yaml")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if !cfg.StrictAccessibility {
		t.Fatalf("expected strict_accessibility to be set from the document")
	}
	if !cfg.EnableCanonicalization {
		t.Fatalf("expected enable_canonicalization to keep its default when the document omits it")
	}
	if cfg.MaxRecursionDepth != 256 {
		t.Fatalf("expected max_recursion_depth to keep its default when the document omits it")
	}
}

func TestParseOverridesEveryField(t *testing.T) {
	doc := []byte(`
enable_canonicalization: false
emit_timing: false
strict_accessibility: true
max_recursion_depth: 64
`)
	cfg, err := Parse(doc, "ferrite.yaml")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if cfg.EnableCanonicalization || cfg.EmitTiming || !cfg.StrictAccessibility || cfg.MaxRecursionDepth != 64 {
		t.Fatalf("expected every field to take the document's value, got %+v", cfg)
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("not: [valid"), "ferrite.yaml"); err == nil {
		t.Fatalf("expected a parse error for malformed YAML")
	}
}

func TestLoadReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ferrite.yaml")
	if err := os.WriteFile(path, []byte("strict_accessibility: true\n"), 0o644); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if !cfg.StrictAccessibility {
		t.Fatalf("expected strict_accessibility to load from disk")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}

func TestFindWalksUpToAnAncestorDirectory(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "ferrite.yaml"), []byte("emit_timing: false\n"), 0o644); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("unexpected mkdir error: %v", err)
	}

	found, err := Find(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := filepath.Abs(filepath.Join(root, "ferrite.yaml"))
	if found != want {
		t.Fatalf("expected to find %q, got %q", want, found)
	}
}

func TestFindReturnsEmptyWhenNoneExists(t *testing.T) {
	dir := t.TempDir()
	found, err := Find(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != "" {
		t.Fatalf("expected no config to be found, got %q", found)
	}
}

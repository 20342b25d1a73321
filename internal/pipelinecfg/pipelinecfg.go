// Package pipelinecfg loads the YAML configuration that tunes a single
// pipeline run: which optional passes to enable and how strictly to treat
// accessibility violations.
package pipelinecfg

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level ferrite.yaml configuration.
type Config struct {
	// EnableCanonicalization runs the canonicalizer (which reorders the
	// operands of commutative operators; it does not reassociate) over every
	// expression the partial evaluator produces.
	EnableCanonicalization bool `yaml:"enable_canonicalization"`

	// EmitTiming records a per-phase duration breakdown on the pipeline
	// result.
	EmitTiming bool `yaml:"emit_timing"`

	// StrictAccessibility, when true, turns an InaccessibleDef/InaccessibleEnum
	// diagnostic into an abort of the whole pass rather than a recorded
	// diagnostic the caller may choose to ignore.
	StrictAccessibility bool `yaml:"strict_accessibility"`

	// MaxRecursionDepth bounds how deep partial evaluation may recurse before
	// treating further descent as a runaway definition. Resolution does not
	// read it.
	MaxRecursionDepth int `yaml:"max_recursion_depth"`
}

// Default returns the configuration a pipeline run uses when no
// ferrite.yaml is found.
func Default() Config {
	return Config{
		EnableCanonicalization: true,
		EmitTiming:             true,
		StrictAccessibility:    false,
		MaxRecursionDepth:      256,
	}
}

// Load reads and parses a ferrite.yaml file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses ferrite.yaml content from bytes, filling in defaults for any
// field the document omits.
func Parse(data []byte, path string) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Find searches for ferrite.yaml starting from dir and walking up to parent
// directories. It returns an empty path and nil error if none is found.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "ferrite.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Package config loads efx.yaml, the analysis run's configuration:
// source roots, the three effect-registry layers, the fixpoint round
// bound, and where the reporter writes its output. Shape — FindConfig's
// walk-up-to-root search, LoadConfig/ParseConfig split so tests can feed
// bytes directly, validate-then-setDefaults — is grounded on the
// teacher's internal/ext/config.go funxy.yaml loader, generalized from
// its Go-dependency-binding schema to this run's analysis schema.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Registries names the three layered effect-registry input files
// (spec.md §4.3/§6: seed < generated < explicit, any may be omitted).
type Registries struct {
	Seed      string `yaml:"seed,omitempty"`
	Generated string `yaml:"generated,omitempty"`
	Explicit  string `yaml:"explicit,omitempty"`
}

// Output configures the reporter's destination and format.
type Output struct {
	// Format is one of "json", "sqlite", or "protobuf".
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
	// EmitMergedRegistry is parsed from the file but read by no other
	// package: cmd/efx writes only the per-function report, never a
	// merged registry view.
	EmitMergedRegistry bool `yaml:"emit_merged_registry,omitempty"`
}

// Config is the top-level efx.yaml configuration.
type Config struct {
	// SourceRoots are directories ingest walks for source files (spec.md
	// §4.1). At least one is required.
	SourceRoots []string `yaml:"source_roots"`

	Registries Registries `yaml:"registries,omitempty"`

	Output Output `yaml:"output"`

	// MaxFixpointRounds is the fixpoint round bound; 0 means the default
	// of 10. internal/fixpoint does not read it: fixpoint.Run always uses
	// its own MaxRounds constant (also 10).
	MaxFixpointRounds int `yaml:"max_fixpoint_rounds,omitempty"`
}

// LoadConfig reads and parses efx.yaml from path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses efx.yaml content from bytes; path is used only for
// error messages, letting tests feed literal YAML without a file.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for efx.yaml (or efx.yml) starting at dir and
// walking up to the filesystem root, the same search funxy.yaml uses.
// Returns "" with a nil error if nothing is found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		for _, name := range []string{"efx.yaml", "efx.yml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (c *Config) validate(path string) error {
	if len(c.SourceRoots) == 0 {
		return fmt.Errorf("%s: source_roots must name at least one directory", path)
	}
	switch c.Output.Format {
	case "", "json", "sqlite", "protobuf":
	default:
		return fmt.Errorf("%s: output.format %q is not one of json, sqlite, protobuf", path, c.Output.Format)
	}
	if c.Output.Format != "" && c.Output.Path == "" {
		return fmt.Errorf("%s: output.path is required when output.format is set", path)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Output.Format == "" {
		c.Output.Format = "json"
	}
	if c.MaxFixpointRounds == 0 {
		c.MaxFixpointRounds = 10
	}
}

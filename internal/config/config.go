// Package config loads calculator settings from an HCL file: engine defaults
// plus named, reusable hand ranges.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/poker-equity/internal/notation"
)

// Config is the complete calculator configuration
type Config struct {
	Engine EngineSettings `hcl:"engine,block"`
	Ranges []NamedRange   `hcl:"range,block"`
}

// EngineSettings contains engine-level configuration
type EngineSettings struct {
	Iterations     int    `hcl:"iterations,optional"`
	Workers        int    `hcl:"workers,optional"`
	MaxExactCombos uint64 `hcl:"max_exact_combos,optional"`
	Seed           int64  `hcl:"seed,optional"`
	TimeoutSeconds int    `hcl:"timeout_seconds,optional"`
	LogLevel       string `hcl:"log_level,optional"`
}

// NamedRange binds a label to a range expression, so the CLI can accept
// "@value" style shorthands in place of full range notation.
type NamedRange struct {
	Name  string `hcl:"name,label"`
	Hands string `hcl:"hands"`
}

// Default returns default calculator configuration
func Default() *Config {
	return &Config{
		Engine: EngineSettings{
			Iterations: 100000,
			LogLevel:   "info",
		},
	}
}

// Load loads calculator configuration from an HCL file. A missing file is not
// an error; defaults apply.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if config.Engine.Iterations == 0 {
		config.Engine.Iterations = 100000
	}
	if config.Engine.LogLevel == "" {
		config.Engine.LogLevel = "info"
	}

	// Named ranges fail fast at load time, not on first use.
	for _, r := range config.Ranges {
		if _, err := notation.ParseRange(r.Hands); err != nil {
			return nil, fmt.Errorf("range %q: %w", r.Name, err)
		}
	}
	return &config, nil
}

// LookupRange resolves a named range to its expression.
func (c *Config) LookupRange(name string) (string, bool) {
	for _, r := range c.Ranges {
		if r.Name == name {
			return r.Hands, true
		}
	}
	return "", false
}

// Package prompts holds the operator-authored text the orchestrator injects
// into model context: tool guidance, per-round guidance, the synthesis
// instruction and per-tool remediation hints.
package prompts

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultYAML []byte

// wildcard matches any tool in the remediation table.
const wildcard = "*"

// RoundGuidance is the corrective text appended between rounds.
type RoundGuidance struct {
	Created       string `yaml:"created"`
	AlreadyExists string `yaml:"alreadyExists"`
	Workflow      string `yaml:"workflow"`
}

// Catalog is the full prompt set.
type Catalog struct {
	Persona        string                       `yaml:"persona"`
	ToolGuidance   string                       `yaml:"toolGuidance"`
	RoundGuidance  RoundGuidance                `yaml:"roundGuidance"`
	Synthesis      string                       `yaml:"synthesis"`
	Apology        string                       `yaml:"apology"`
	FallbackPrefix string                       `yaml:"fallbackPrefix"`
	Remediation    map[string]map[string]string `yaml:"remediation"`
}

// Default returns the embedded catalog.
func Default() *Catalog {
	var c Catalog
	if err := yaml.Unmarshal(defaultYAML, &c); err != nil {
		panic(fmt.Sprintf("prompts: embedded catalog is invalid: %v", err))
	}
	return &c
}

// Load returns the embedded catalog overlaid with the file at path.
// An empty path returns the defaults.
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt catalog: %w", err)
	}
	var override Catalog
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse prompt catalog %s: %w", path, err)
	}
	c.merge(&override)
	return c, nil
}

func (c *Catalog) merge(o *Catalog) {
	set := func(dst *string, src string) {
		if strings.TrimSpace(src) != "" {
			*dst = src
		}
	}
	set(&c.Persona, o.Persona)
	set(&c.ToolGuidance, o.ToolGuidance)
	set(&c.RoundGuidance.Created, o.RoundGuidance.Created)
	set(&c.RoundGuidance.AlreadyExists, o.RoundGuidance.AlreadyExists)
	set(&c.RoundGuidance.Workflow, o.RoundGuidance.Workflow)
	set(&c.Synthesis, o.Synthesis)
	set(&c.Apology, o.Apology)
	set(&c.FallbackPrefix, o.FallbackPrefix)

	for tool, hints := range o.Remediation {
		if c.Remediation == nil {
			c.Remediation = map[string]map[string]string{}
		}
		if c.Remediation[tool] == nil {
			c.Remediation[tool] = map[string]string{}
		}
		for kind, hint := range hints {
			c.Remediation[tool][kind] = hint
		}
	}
}

// Hint returns the remediation hint for a (tool, error kind) pair, falling
// back to the wildcard tool entry. The empty string means no hint.
func (c *Catalog) Hint(tool, kind string) string {
	if h := c.Remediation[tool][kind]; h != "" {
		return h
	}
	return c.Remediation[wildcard][kind]
}

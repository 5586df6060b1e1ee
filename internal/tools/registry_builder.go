package tools

import (
	"bytes"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// RegistryBuilder accumulates descriptors during the construction phase.
// Call Build() to compile schemas and produce an immutable Registry.
type RegistryBuilder struct {
	descs []Descriptor
}

// NewRegistryBuilder returns a fresh RegistryBuilder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{}
}

// WithTool adds a descriptor and returns the builder, enabling chaining.
func (b *RegistryBuilder) WithTool(d Descriptor) *RegistryBuilder {
	b.descs = append(b.descs, d)
	return b
}

// Build compiles every argument schema. Duplicate names are rejected.
func (b *RegistryBuilder) Build() (*Registry, error) {
	r := &Registry{entries: make(map[ToolName]entry, len(b.descs))}
	compiler := jsonschema.NewCompiler()
	for _, d := range b.descs {
		if _, dup := r.entries[d.Name]; dup {
			return nil, fmt.Errorf("duplicate tool %s", d.Name)
		}
		url := "mem://tools/" + string(d.Name) + ".json"
		if err := compiler.AddResource(url, bytes.NewReader(d.Parameters)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", d.Name, err)
		}
		s, err := compiler.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", d.Name, err)
		}
		r.order = append(r.order, d.Name)
		r.entries[d.Name] = entry{desc: d, schema: s}
	}
	return r, nil
}

// NewRegistry builds the registry of every world tool.
func NewRegistry() (*Registry, error) {
	b := NewRegistryBuilder()
	for _, d := range builtin {
		b.WithTool(d)
	}
	return b.Build()
}

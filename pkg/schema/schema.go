// Package schema provides the resource-schema oracle the context engine's
// consumers are keyed by: schemas by resource type name, and
// already-expanded property variants by json-pointer path. The tables are
// assembled once at startup from embedded data and are read-only after
// that; they are passed into consumers as collaborators, never reached as
// ambient globals.
package schema

import (
	_ "embed"
	"encoding/json"
	"strings"

	"gitlab.com/tozd/go/errors"
)

//go:embed data/schemas.json
var embeddedSchemas []byte

// PropertyType is one expanded variant of a property's type description.
type PropertyType struct {
	Type        string                   `json:"type,omitempty"`
	Description string                   `json:"description,omitempty"`
	Required    []string                 `json:"required,omitempty"`
	ReadOnly    bool                     `json:"readOnly,omitempty"`
	Ref         string                   `json:"$ref,omitempty"`
	OneOf       []*PropertyType          `json:"oneOf,omitempty"`
	Properties  map[string]*PropertyType `json:"properties,omitempty"`
	Items       *PropertyType            `json:"items,omitempty"`
	Enum        []string                 `json:"enum,omitempty"`
}

// ResourceSchema describes one resource type.
type ResourceSchema struct {
	TypeName    string                   `json:"typeName"`
	Description string                   `json:"description,omitempty"`
	Properties  map[string]*PropertyType `json:"properties,omitempty"`
	Attributes  map[string]*PropertyType `json:"attributes,omitempty"`
	Definitions map[string]*PropertyType `json:"definitions,omitempty"`
}

// ResolveOptions controls pointer-path resolution.
type ResolveOptions struct {
	// ExcludeReadOnly drops variants marked read-only, for completion in
	// authoring positions.
	ExcludeReadOnly bool
}

// ResolveJsonPointerPath resolves a property path (mapping keys below the
// resource's Properties key; sequence indices already stripped) to the
// expanded set of schema variants at that path. $ref and oneOf composition
// is flattened here so callers never see composition keywords.
func (s *ResourceSchema) ResolveJsonPointerPath(path []string, opts ResolveOptions) []*PropertyType {
	current := []*PropertyType{{Properties: s.Properties}}
	for _, key := range path {
		var next []*PropertyType
		for _, variant := range current {
			for _, expanded := range s.expand(variant, 0) {
				if child, ok := expanded.Properties[key]; ok {
					next = append(next, s.expand(child, 0)...)
				}
			}
		}
		if len(next) == 0 {
			return nil
		}
		current = next
	}
	out := make([]*PropertyType, 0, len(current))
	for _, variant := range current {
		if opts.ExcludeReadOnly && variant.ReadOnly {
			continue
		}
		out = append(out, variant)
	}
	return out
}

const maxExpandDepth = 16

// expand flattens $ref, oneOf and array item indirection into concrete
// variants. Depth-limited so cyclic definitions cannot loop.
func (s *ResourceSchema) expand(p *PropertyType, depth int) []*PropertyType {
	if p == nil || depth > maxExpandDepth {
		return nil
	}
	if p.Ref != "" {
		name := strings.TrimPrefix(p.Ref, "#/definitions/")
		if def, ok := s.Definitions[name]; ok {
			return s.expand(def, depth+1)
		}
		return nil
	}
	if len(p.OneOf) > 0 {
		var out []*PropertyType
		for _, variant := range p.OneOf {
			out = append(out, s.expand(variant, depth+1)...)
		}
		return out
	}
	if p.Type == "array" && p.Items != nil {
		// Item schemas surface directly; paths never carry indices here.
		return s.expand(p.Items, depth+1)
	}
	return []*PropertyType{p}
}

// Registry holds every known resource schema.
type Registry struct {
	schemas map[string]*ResourceSchema
}

// NewRegistry assembles the registry from the embedded schema data.
func NewRegistry() (*Registry, error) {
	schemas := map[string]*ResourceSchema{}
	if err := json.Unmarshal(embeddedSchemas, &schemas); err != nil {
		return nil, errors.Errorf("loading embedded resource schemas: %w", err)
	}
	for name, s := range schemas {
		s.TypeName = name
	}
	return &Registry{schemas: schemas}, nil
}

// NewRegistryFromMap builds a registry from explicit schemas, mainly for
// tests.
func NewRegistryFromMap(schemas map[string]*ResourceSchema) *Registry {
	for name, s := range schemas {
		s.TypeName = name
	}
	return &Registry{schemas: schemas}
}

// Get returns the schema for a resource type name.
func (r *Registry) Get(typeName string) (*ResourceSchema, bool) {
	s, ok := r.schemas[typeName]
	return s, ok
}

// TypeNames returns every known resource type name.
func (r *Registry) TypeNames() []string {
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	return names
}

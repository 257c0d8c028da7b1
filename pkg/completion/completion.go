// Package completion produces completion candidates for a cursor position
// in a template document.
package completion

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/docs"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/parser"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/position"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/schema"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/semantics"
)

// ItemKind classifies a completion candidate.
type ItemKind int

const (
	KindSection ItemKind = iota
	KindProperty
	KindValue
	KindFunction
	KindReference
)

// Item is one completion candidate.
type Item struct {
	Label  string
	Detail string
	Kind   ItemKind
}

// Provider resolves completion candidates from a semantic context.
type Provider struct {
	manager  *semantics.ContextManager
	registry *schema.Registry
	library  *docs.Library
}

func NewProvider(manager *semantics.ContextManager, registry *schema.Registry, library *docs.Library) *Provider {
	return &Provider{manager: manager, registry: registry, library: library}
}

// Complete returns the candidates for a cursor position, most specific
// provider first. An unresolvable position yields no candidates.
func (p *Provider) Complete(ctx context.Context, doc *parser.TemplateDocument, pos position.Place) []Item {
	c, ok := p.manager.ResolveContext(ctx, doc, pos)
	if !ok {
		return nil
	}
	zerolog.Ctx(ctx).Debug().
		Str("section", c.Section().String()).
		Str("path", c.PropertyPath().String()).
		Bool("isKey", c.IsKey()).
		Bool("isValue", c.IsValue()).
		Msg("building completions")

	if items := p.intrinsicArguments(doc, c); len(items) > 0 {
		return items
	}
	if items := p.resourceTypes(c); len(items) > 0 {
		return items
	}
	if items := p.schemaProperties(c); len(items) > 0 {
		return items
	}
	if items := p.entityLevelKeys(c); len(items) > 0 {
		return items
	}
	if items := p.topLevelSections(doc, c); len(items) > 0 {
		return items
	}
	if c.IsValue() {
		return p.intrinsicFunctions()
	}
	return nil
}

// intrinsicArguments completes the argument of the enclosing function:
// logical ids for Ref, resources then attributes for GetAtt, condition
// names for Condition/If, mapping names and keys for FindInMap.
func (p *Provider) intrinsicArguments(doc *parser.TemplateDocument, c *semantics.Context) []Item {
	fn := c.Intrinsic()
	if fn == nil || !c.IsValue() {
		return nil
	}
	switch fn.Type {
	case semantics.IntrinsicRef:
		items := definitionItems(doc, semantics.SectionParameters, "parameter")
		items = append(items, definitionItems(doc, semantics.SectionResources, "resource")...)
		items = append(items, p.pseudoParameterItems()...)
		return items
	case semantics.IntrinsicGetAtt:
		if fn.ArgumentPosition(c.Text(), -1) == 2 {
			return p.attributeItems(doc, fn)
		}
		return definitionItems(doc, semantics.SectionResources, "resource")
	case semantics.IntrinsicCondition, semantics.IntrinsicIf:
		return definitionItems(doc, semantics.SectionConditions, "condition")
	case semantics.IntrinsicFindInMap:
		if fn.ArgumentPosition(c.Text(), -1) == 2 {
			return mappingKeyItems(doc, fn)
		}
		return definitionItems(doc, semantics.SectionMappings, "mapping")
	case semantics.IntrinsicSub:
		items := definitionItems(doc, semantics.SectionParameters, "parameter")
		return append(items, p.pseudoParameterItems()...)
	default:
		return nil
	}
}

// attributeItems completes the attribute side of a GetAtt argument from
// the referenced resource's schema.
func (p *Provider) attributeItems(doc *parser.TemplateDocument, fn *semantics.IntrinsicFunction) []Item {
	resourceID := ""
	if fn.Args.IsSequence() && len(fn.Args.Children) > 0 {
		resourceID = fn.Args.Children[0].Text()
	} else if fn.Args.IsScalar() {
		text := fn.Args.Text()
		for i := 0; i < len(text); i++ {
			if text[i] == '.' {
				resourceID = text[:i]
				break
			}
		}
	}
	root, ok := doc.EntityRoot(string(semantics.SectionResources), resourceID)
	if !ok {
		return nil
	}
	entity := semantics.BuildEntity(semantics.SectionResources, resourceID, root)
	s, ok := p.registry.Get(entity.Resource.Type)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(s.Attributes))
	for name := range s.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	items := make([]Item, 0, len(names))
	for _, name := range names {
		items = append(items, Item{Label: name, Detail: s.Attributes[name].Description, Kind: KindValue})
	}
	return items
}

// mappingKeyItems completes the top-level key argument of FindInMap from
// the mapping named by the first argument.
func mappingKeyItems(doc *parser.TemplateDocument, fn *semantics.IntrinsicFunction) []Item {
	if !fn.Args.IsSequence() || len(fn.Args.Children) == 0 {
		return nil
	}
	root, ok := doc.EntityRoot(string(semantics.SectionMappings), fn.Args.Children[0].Text())
	if !ok || !root.IsMapping() {
		return nil
	}
	items := make([]Item, 0, len(root.Children))
	for _, pair := range root.Pairs() {
		if key := pair.Key.Text(); key != "" {
			items = append(items, Item{Label: key, Kind: KindValue})
		}
	}
	return items
}

func (p *Provider) resourceTypes(c *semantics.Context) []Item {
	if !c.MatchPathWithLogicalID(semantics.SectionResources, "Type") || !c.IsValue() {
		return nil
	}
	names := p.registry.TypeNames()
	sort.Strings(names)
	items := make([]Item, 0, len(names))
	for _, name := range names {
		items = append(items, Item{Label: name, Kind: KindValue})
	}
	return items
}

// schemaProperties completes property keys under a resource's Properties
// block from the schema, excluding read-only properties.
func (p *Provider) schemaProperties(c *semantics.Context) []Item {
	if c.Section() != semantics.SectionResources || !c.IsKey() {
		return nil
	}
	path := c.PropertyPath()
	if len(path) < 3 || path[2].Key != "Properties" {
		return nil
	}
	entity := c.Entity()
	if entity == nil || entity.Kind != semantics.EntityResource {
		return nil
	}
	s, ok := p.registry.Get(entity.Resource.Type)
	if !ok {
		return nil
	}
	// When the cursor sits on a key token, resolve that key's enclosing
	// object rather than the key itself.
	keys := path.KeysFrom(3)
	if len(keys) > 0 && !c.Node().IsSynthetic() && c.Node().Text() == keys[len(keys)-1] {
		keys = keys[:len(keys)-1]
	}
	variants := s.ResolveJsonPointerPath(keys, schema.ResolveOptions{ExcludeReadOnly: true})
	var items []Item
	seen := map[string]bool{}
	for _, variant := range variants {
		names := make([]string, 0, len(variant.Properties))
		for name := range variant.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if seen[name] || variant.Properties[name].ReadOnly {
				continue
			}
			seen[name] = true
			items = append(items, Item{Label: name, Detail: variant.Properties[name].Description, Kind: KindProperty})
		}
	}
	return items
}

// entityLevelKeys completes the reserved keys directly under a resource
// logical id.
func (p *Provider) entityLevelKeys(c *semantics.Context) []Item {
	if c.Section() != semantics.SectionResources || len(c.PropertyPath()) != 2 || !c.IsKey() {
		return nil
	}
	items := []Item{
		{Label: "Type", Detail: "The resource type.", Kind: KindProperty},
		{Label: "Properties", Detail: "Resource properties.", Kind: KindProperty},
	}
	for _, entry := range p.library.ResourceAttributes() {
		items = append(items, Item{Label: entry.Name, Detail: entry.Summary, Kind: KindProperty})
	}
	return items
}

// topLevelSections completes section names not yet present in the document.
func (p *Provider) topLevelSections(doc *parser.TemplateDocument, c *semantics.Context) []Item {
	if !c.IsTopLevel() || !c.IsKey() {
		return nil
	}
	var items []Item
	for _, entry := range p.library.Sections() {
		if doc.SectionNode(entry.Name) != nil {
			continue
		}
		items = append(items, Item{Label: entry.Name, Detail: entry.Summary, Kind: KindSection})
	}
	return items
}

func (p *Provider) intrinsicFunctions() []Item {
	entries := p.library.Intrinsics()
	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		items = append(items, Item{Label: entry.Name, Detail: entry.Summary, Kind: KindFunction})
	}
	return items
}

func (p *Provider) pseudoParameterItems() []Item {
	entries := p.library.PseudoParameters()
	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		items = append(items, Item{Label: entry.Name, Detail: entry.Summary, Kind: KindReference})
	}
	return items
}

func definitionItems(doc *parser.TemplateDocument, section semantics.Section, detail string) []Item {
	roots := doc.EntityRoots(string(section))
	ids := make([]string, 0, len(roots))
	for id := range roots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, Item{Label: id, Detail: detail, Kind: KindReference})
	}
	return items
}

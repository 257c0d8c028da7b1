// Package hover generates hover information for a cursor position in a
// template document.
package hover

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/docs"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/parser"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/position"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/schema"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/semantics"
)

// HoverInfo is the markdown content to display and the document range it
// applies to.
type HoverInfo struct {
	Content []string
	Range   position.Range
}

// Provider resolves hover content from a semantic context.
type Provider struct {
	manager  *semantics.ContextManager
	registry *schema.Registry
	library  *docs.Library
}

func NewProvider(manager *semantics.ContextManager, registry *schema.Registry, library *docs.Library) *Provider {
	return &Provider{manager: manager, registry: registry, library: library}
}

// Hover builds the hover response for a cursor position. Positions with
// nothing meaningful under them yield ok=false.
func (p *Provider) Hover(ctx context.Context, doc *parser.TemplateDocument, pos position.Place) (*HoverInfo, bool) {
	c, ok := p.manager.ResolveContextWithRelatedEntities(ctx, doc, pos)
	if !ok {
		return nil, false
	}
	zerolog.Ctx(ctx).Debug().
		Str("section", c.Section().String()).
		Str("path", c.PropertyPath().String()).
		Msg("building hover response")

	if info, ok := p.resourceTypeHover(c.Context); ok {
		return info, true
	}
	// References come before the function itself: hovering the argument of
	// !Ref or !GetAtt describes the entity it points at, and only the
	// function token falls through to the function docs.
	if info, ok := p.referenceHover(c); ok {
		return info, true
	}
	if info, ok := p.pseudoParameterHover(c.Context); ok {
		return info, true
	}
	if info, ok := p.resourceAttributeHover(c.Context); ok {
		return info, true
	}
	if info, ok := p.intrinsicHover(c.Context); ok {
		return info, true
	}
	if info, ok := p.propertyHover(c.Context); ok {
		return info, true
	}
	return p.sectionHover(c.Context)
}

func (p *Provider) resourceTypeHover(c *semantics.Context) (*HoverInfo, bool) {
	if !c.IsResourceType() {
		return nil, false
	}
	s, ok := p.registry.Get(c.Text())
	if !ok {
		return nil, false
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s**\n\n%s", s.TypeName, s.Description)
	return &HoverInfo{Content: []string{sb.String()}, Range: c.Node().Range}, true
}

func (p *Provider) intrinsicHover(c *semantics.Context) (*HoverInfo, bool) {
	if !c.IsIntrinsicFunc() {
		return nil, false
	}
	name := c.Text()
	entry, ok := p.library.Intrinsic(name)
	if !ok {
		if fn := c.Intrinsic(); fn != nil {
			entry, ok = p.library.Intrinsic(longFormName(fn.Type))
		}
	}
	if !ok {
		return nil, false
	}
	content := fmt.Sprintf("**%s**\n\n%s", entry.Name, entry.Summary)
	if entry.Detail != "" {
		content += fmt.Sprintf("\n\n```yaml\n%s\n```", entry.Detail)
	}
	return &HoverInfo{Content: []string{content}, Range: c.Node().Range}, true
}

func longFormName(t semantics.IntrinsicType) string {
	switch t {
	case semantics.IntrinsicRef, semantics.IntrinsicCondition:
		return string(t)
	default:
		return "Fn::" + string(t)
	}
}

func (p *Provider) pseudoParameterHover(c *semantics.Context) (*HoverInfo, bool) {
	if !c.IsPseudoParameter() {
		return nil, false
	}
	entry, ok := p.library.PseudoParameter(c.Text())
	if !ok {
		return nil, false
	}
	content := fmt.Sprintf("**%s**\n\n%s", entry.Name, entry.Summary)
	return &HoverInfo{Content: []string{content}, Range: c.Node().Range}, true
}

func (p *Provider) resourceAttributeHover(c *semantics.Context) (*HoverInfo, bool) {
	if !c.IsResourceAttribute() || !c.IsKey() {
		return nil, false
	}
	entry, ok := p.library.ResourceAttribute(c.Text())
	if !ok {
		return nil, false
	}
	content := fmt.Sprintf("**%s**\n\n%s", entry.Name, entry.Summary)
	return &HoverInfo{Content: []string{content}, Range: c.Node().Range}, true
}

// referenceHover summarizes the entity a Ref/GetAtt/Condition argument
// points at, resolved through the one-hop closure.
func (p *Provider) referenceHover(c *semantics.ContextWithRelatedEntities) (*HoverInfo, bool) {
	fn := c.Intrinsic()
	if fn == nil || !c.IsValue() {
		return nil, false
	}
	name := c.Text()
	if dot := strings.IndexByte(name, '.'); dot >= 0 {
		name = name[:dot]
	}
	for _, section := range []semantics.Section{
		semantics.SectionParameters,
		semantics.SectionResources,
		semantics.SectionConditions,
		semantics.SectionMappings,
	} {
		target, ok := c.RelatedEntities().Lookup(section, name)
		if !ok {
			continue
		}
		return &HoverInfo{
			Content: []string{summarizeEntity(section, target.Entity())},
			Range:   c.Node().Range,
		}, true
	}
	return nil, false
}

func summarizeEntity(section semantics.Section, entity *semantics.Entity) string {
	if entity == nil {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** (%s)", entity.Name, section)
	switch entity.Kind {
	case semantics.EntityResource:
		if entity.Resource.Type != "" {
			fmt.Fprintf(&sb, "\n\nType: `%s`", entity.Resource.Type)
		}
	case semantics.EntityParameter:
		if entity.Parameter.Type != "" {
			fmt.Fprintf(&sb, "\n\nType: `%s`", entity.Parameter.Type)
		}
		if entity.Parameter.Default != "" {
			fmt.Fprintf(&sb, "\n\nDefault: `%s`", entity.Parameter.Default)
		}
		if entity.Parameter.Description != "" {
			fmt.Fprintf(&sb, "\n\n%s", entity.Parameter.Description)
		}
	}
	return sb.String()
}

// propertyHover resolves the property path under the cursor against the
// resource's schema.
func (p *Provider) propertyHover(c *semantics.Context) (*HoverInfo, bool) {
	if c.Section() != semantics.SectionResources || !c.IsKey() {
		return nil, false
	}
	path := c.PropertyPath()
	if len(path) < 4 || path[2].Key != "Properties" {
		return nil, false
	}
	entity := c.Entity()
	if entity == nil || entity.Kind != semantics.EntityResource {
		return nil, false
	}
	s, ok := p.registry.Get(entity.Resource.Type)
	if !ok {
		return nil, false
	}
	variants := s.ResolveJsonPointerPath(path.KeysFrom(3), schema.ResolveOptions{})
	if len(variants) == 0 {
		return nil, false
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s**", path.Last().Key)
	for _, variant := range variants {
		if variant.Description != "" {
			fmt.Fprintf(&sb, "\n\n%s", variant.Description)
			break
		}
	}
	if t := variants[0].Type; t != "" {
		fmt.Fprintf(&sb, "\n\nType: `%s`", t)
	}
	return &HoverInfo{Content: []string{sb.String()}, Range: c.Node().Range}, true
}

func (p *Provider) sectionHover(c *semantics.Context) (*HoverInfo, bool) {
	if !c.IsTopLevel() || !c.IsKey() {
		return nil, false
	}
	entry, ok := p.library.Section(c.Text())
	if !ok {
		return nil, false
	}
	content := fmt.Sprintf("**%s**\n\n%s", entry.Name, entry.Summary)
	return &HoverInfo{Content: []string{content}, Range: c.Node().Range}, true
}

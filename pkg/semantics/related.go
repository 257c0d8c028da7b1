package semantics

import (
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/parser"
)

// RelatedEntities is the two-level lookup from defining section to logical
// id to the context anchored at that definition. It is restricted to
// identifiers reachable in exactly one hop from the originating entity's
// references: entities referenced by the referenced entities are never
// pulled in.
type RelatedEntities map[Section]map[string]*Context

// Lookup returns the defining context for an id in a section, if resolved.
func (r RelatedEntities) Lookup(section Section, logicalID string) (*Context, bool) {
	byID, ok := r[section]
	if !ok {
		return nil, false
	}
	c, ok := byID[logicalID]
	return c, ok
}

// ContextWithRelatedEntities extends a Context with the one-hop reference
// closure, resolved behind a zero-argument supplier on first read and
// cached for the remainder of the context's life.
type ContextWithRelatedEntities struct {
	*Context

	relatedBuilt bool
	related      RelatedEntities
	supplier     func() RelatedEntities
}

func newContextWithRelatedEntities(c *Context) *ContextWithRelatedEntities {
	out := &ContextWithRelatedEntities{Context: c}
	out.supplier = func() RelatedEntities {
		return resolveRelatedEntities(c)
	}
	return out
}

// RelatedEntities returns the memoized one-hop closure. An unresolved
// reference is simply absent from the lookup; absence means not found,
// never failure.
func (c *ContextWithRelatedEntities) RelatedEntities() RelatedEntities {
	if !c.relatedBuilt {
		c.related = c.supplier()
		c.relatedBuilt = true
	}
	return c.related
}

// resolveRelatedEntities runs the reference scan over the current entity's
// subtree and resolves every referenced id against each section capable of
// defining identifiers, recording the first match per id.
func resolveRelatedEntities(c *Context) RelatedEntities {
	out := RelatedEntities{}
	if !c.section.IsIdentifierKeyed() || !c.hasLogicalID {
		return out
	}
	root, ok := c.doc.EntityRoot(string(c.section), c.logicalID)
	if !ok {
		return out
	}
	for _, id := range FindReferencedIDs(root, c.logicalID, SearchEntireEntity) {
		for _, section := range identifierKeyedSections {
			if section == SectionConstants && !c.constantsEnabled {
				continue
			}
			defRoot, defined := c.doc.EntityRoot(string(section), id)
			if !defined {
				continue
			}
			byID := out[section]
			if byID == nil {
				byID = make(map[string]*Context)
				out[section] = byID
			}
			byID[id] = newDefinitionContext(c.doc, section, id, defRoot, c.constantsEnabled)
			break
		}
	}
	return out
}

// newDefinitionContext anchors a context at another entity's definition so
// callers can materialize that entity without re-walking to its position.
func newDefinitionContext(doc *parser.TemplateDocument, section Section, logicalID string, root *parser.Node, constantsEnabled bool) *Context {
	res := walkResult{
		node: root,
		path: PropertyPath{KeySegment(string(section)), KeySegment(logicalID)},
	}
	if root != nil {
		for n := root; n != nil; n = n.Parent {
			res.trail = append(res.trail, n)
		}
	}
	return newContext(doc, res, constantsEnabled)
}

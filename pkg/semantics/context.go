package semantics

import (
	"github.com/google/uuid"

	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/parser"
)

// resourceAttributes are the reserved, non-property keys on a resource
// definition.
var resourceAttributes = map[string]bool{
	"Condition":           true,
	"DependsOn":           true,
	"DeletionPolicy":      true,
	"UpdateReplacePolicy": true,
	"CreationPolicy":      true,
	"UpdatePolicy":        true,
	"Metadata":            true,
}

// pseudoParameters are the platform-provided, author-unset values.
var pseudoParameters = map[string]bool{
	"AWS::AccountId":        true,
	"AWS::NotificationARNs": true,
	"AWS::NoValue":          true,
	"AWS::Partition":        true,
	"AWS::Region":           true,
	"AWS::StackId":          true,
	"AWS::StackName":        true,
	"AWS::URLSuffix":        true,
}

// Context is the per-cursor aggregate. It is effectively immutable after
// construction: section, logical id and the top-level flag are fixed from
// the property path and never recomputed. The entity and the intrinsic
// context are the only lazily-memoized fields, each transitioning
// not-computed to computed exactly once. A new cursor position always
// yields a new Context, never a mutation of an old one.
type Context struct {
	doc        *parser.TemplateDocument
	node       *parser.Node
	path       PropertyPath
	pathToRoot []*parser.Node

	section      Section
	logicalID    string
	hasLogicalID bool
	isTopLevel   bool

	strategy         keyValueStrategy
	constantsEnabled bool

	entityBuilt bool
	entity      *Entity
	// buildEntity is the subtree-to-entity projection, replaceable by tests
	// to observe memoization.
	buildEntity func(section Section, name string, root *parser.Node) *Entity

	intrinsicBuilt bool
	intrinsic      *IntrinsicFunction
}

func newContext(doc *parser.TemplateDocument, res walkResult, constantsEnabled bool) *Context {
	c := &Context{
		doc:              doc,
		node:             res.node,
		path:             res.path,
		pathToRoot:       res.trail,
		isTopLevel:       len(res.path) <= 1,
		strategy:         strategyFor(doc.Format),
		constantsEnabled: constantsEnabled,
		buildEntity:      BuildEntity,
	}
	c.section = res.path.Section()
	if c.section == SectionConstants && !constantsEnabled {
		c.section = SectionUnknown
	}
	c.logicalID, c.hasLogicalID = res.path.LogicalID()
	if c.section == SectionUnknown {
		c.logicalID, c.hasLogicalID = "", false
	}
	return c
}

func (c *Context) Document() *parser.TemplateDocument { return c.doc }
func (c *Context) Node() *parser.Node                 { return c.node }
func (c *Context) PropertyPath() PropertyPath         { return c.path }
func (c *Context) Section() Section                   { return c.section }
func (c *Context) HasLogicalID() bool                 { return c.hasLogicalID }
func (c *Context) IsTopLevel() bool                   { return c.isTopLevel }

// LogicalID returns the user-chosen identifier the cursor sits under, when
// the section is identifier-keyed and the path reaches one.
func (c *Context) LogicalID() (string, bool) {
	return c.logicalID, c.hasLogicalID
}

// Text returns the quote-stripped, trimmed token text under the cursor.
func (c *Context) Text() string {
	return c.node.Text()
}

func (c *Context) IsKey() bool {
	return c.strategy.isKey(c)
}

func (c *Context) IsValue() bool {
	return c.strategy.isValue(c)
}

// IsResourceType reports whether the cursor sits on a resource's type
// literal, e.g. the value of Resources/<id>/Type.
func (c *Context) IsResourceType() bool {
	return c.path.Matches(SectionResources, "", "Type") && c.IsValue()
}

// IsIntrinsicFunc reports whether the token itself spells an intrinsic
// function in either form.
func (c *Context) IsIntrinsicFunc() bool {
	if c.node.Tag != "" {
		if _, ok := shortForms[c.node.Tag]; ok {
			return true
		}
	}
	_, ok := longForms[c.Text()]
	return ok
}

func (c *Context) IsPseudoParameter() bool {
	return pseudoParameters[c.Text()]
}

// IsResourceAttribute reports whether the cursor is on a reserved resource
// attribute key such as DependsOn or DeletionPolicy.
func (c *Context) IsResourceAttribute() bool {
	if len(c.path) != 3 || c.section != SectionResources {
		return false
	}
	last := c.path.Last()
	return !last.IsIndex && resourceAttributes[last.Key] && c.IsKey()
}

// IsResourceAttributeProperty reports whether the cursor is on a key nested
// under a structured resource attribute (CreationPolicy, UpdatePolicy,
// Metadata).
func (c *Context) IsResourceAttributeProperty() bool {
	if len(c.path) < 4 || c.section != SectionResources {
		return false
	}
	if c.path[2].IsIndex || !resourceAttributes[c.path[2].Key] {
		return false
	}
	return c.IsKey()
}

// IsResourceAttributeValue reports whether the cursor is on the value side
// of a resource attribute or of one of its nested keys.
func (c *Context) IsResourceAttributeValue() bool {
	if len(c.path) < 3 || c.section != SectionResources {
		return false
	}
	if c.path[2].IsIndex || !resourceAttributes[c.path[2].Key] {
		return false
	}
	return c.IsValue()
}

// MatchPathWithLogicalID reports whether the path is exactly
// section/<own logical id>/subpath.
func (c *Context) MatchPathWithLogicalID(section Section, subpath ...string) bool {
	return c.hasLogicalID && c.path.Matches(section, c.logicalID, subpath...)
}

// AtEntityKeyLevel reports whether the cursor sits on the logical-id token
// itself or on the literal Properties token immediately following it.
func (c *Context) AtEntityKeyLevel() bool {
	if !c.hasLogicalID {
		return false
	}
	switch len(c.path) {
	case 2:
		return c.IsKey()
	case 3:
		last := c.path.Last()
		return !last.IsIndex && last.Key == "Properties" && c.IsKey()
	default:
		return false
	}
}

// GetMappingKeys returns the first-level keys of the mapping entity the
// cursor sits in, in declaration order. Empty outside the mappings section.
func (c *Context) GetMappingKeys() []string {
	if c.section != SectionMappings || !c.hasLogicalID {
		return nil
	}
	root, ok := c.doc.EntityRoot(string(SectionMappings), c.logicalID)
	if !ok || !root.IsMapping() {
		return nil
	}
	keys := make([]string, 0, len(root.Children))
	for _, pair := range root.Pairs() {
		if key := pair.Key.Text(); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// Entity materializes the typed projection of the enclosing logical id's
// subtree. The projection walks the subtree, so it is built once and the
// identical instance is returned on every subsequent read.
func (c *Context) Entity() *Entity {
	if c.entityBuilt {
		return c.entity
	}
	c.entityBuilt = true
	if !c.hasLogicalID {
		return nil
	}
	root, _ := c.doc.EntityRoot(string(c.section), c.logicalID)
	c.entity = c.buildEntity(c.section, c.logicalID, root)
	return c.entity
}

// Intrinsic derives the innermost enclosing function invocation, or nil
// when the cursor is not nested inside one. Memoized like Entity.
func (c *Context) Intrinsic() *IntrinsicFunction {
	if c.intrinsicBuilt {
		return c.intrinsic
	}
	c.intrinsicBuilt = true
	c.intrinsic = intrinsicFromTrail(c.pathToRoot)
	return c.intrinsic
}

// ancestorCursor iterates (node, truncated path) pairs upward from the
// current node's parent. Property-path segments pop when the walk crosses
// out of a pair's subtree or out of a sequence item.
type ancestorCursor struct {
	trail []*parser.Node
	path  PropertyPath
	index int
}

func (c *Context) ancestors() *ancestorCursor {
	return &ancestorCursor{trail: c.pathToRoot, path: clonePath(c.path)}
}

func (a *ancestorCursor) next() (*parser.Node, bool) {
	a.index++
	if a.index >= len(a.trail) {
		return nil, false
	}
	node := a.trail[a.index]
	child := a.trail[a.index-1]
	popped := false
	if node.IsMapping() && child.Kind == parser.KindMappingPair {
		popped = true
	}
	if node.IsSequence() && child.Parent == node && !child.IsSynthetic() {
		popped = true
	}
	if popped && len(a.path) > 0 {
		a.path = a.path[:len(a.path)-1]
	}
	return node, true
}

// CreateContextFromParent walks the ancestor chain upward until a node
// satisfies stop, then returns a new Context anchored there with the
// truncated path. Entity identity is preserved: moving to an ancestor
// within the same entity subtree must not trigger a rebuild. Returns false
// when no ancestor matches.
func (c *Context) CreateContextFromParent(stop func(*parser.Node) bool) (*Context, bool) {
	cursor := c.ancestors()
	for {
		node, ok := cursor.next()
		if !ok {
			return nil, false
		}
		if !stop(node) {
			continue
		}
		res := walkResult{
			node:  node,
			path:  clonePath(cursor.path),
			trail: clone(cursor.trail[cursor.index:]),
		}
		parent := newContext(c.doc, res, c.constantsEnabled)
		parent.entityBuilt = c.entityBuilt
		parent.entity = c.entity
		parent.buildEntity = c.buildEntity
		return parent, true
	}
}

// Record returns a flattened, loggable snapshot of the context for
// diagnostics and telemetry.
func (c *Context) Record() map[string]any {
	rec := map[string]any{
		"id":           uuid.NewString(),
		"section":      c.section.String(),
		"propertyPath": c.path.String(),
		"text":         c.Text(),
		"isKey":        c.IsKey(),
		"isValue":      c.IsValue(),
		"isTopLevel":   c.isTopLevel,
		"format":       c.doc.Format.String(),
	}
	if c.hasLogicalID {
		rec["logicalId"] = c.logicalID
	}
	if entity := c.Entity(); entity != nil {
		rec["entityKind"] = entity.Kind.String()
	}
	if fn := c.Intrinsic(); fn != nil {
		rec["intrinsic"] = string(fn.Type)
	}
	return rec
}

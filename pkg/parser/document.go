package parser

// TemplateDocument is one parsed template snapshot. The editor-integration
// layer replaces the whole snapshot on every edit; nothing in the engine
// mutates it after Parse returns.
type TemplateDocument struct {
	URI     string
	Text    string
	Version int32
	Format  Format

	// Root is the document-root node, or nil when nothing parsed.
	Root *Node
}

// Body returns the template's top-level mapping, or nil for an empty or
// non-mapping document.
func (d *TemplateDocument) Body() *Node {
	if d == nil || d.Root == nil || len(d.Root.Children) == 0 {
		return nil
	}
	top := d.Root.Children[0]
	if !top.IsMapping() {
		return nil
	}
	return top
}

// SectionNode returns the value node of the named top-level section, or nil.
func (d *TemplateDocument) SectionNode(name string) *Node {
	body := d.Body()
	if body == nil {
		return nil
	}
	return body.PairValue(name)
}

// EntityRoots returns the definition map of an identifier-keyed section:
// logical id to the subtree defining it. Malformed members are skipped, not
// reported; the engine treats partial documents as normal input.
func (d *TemplateDocument) EntityRoots(section string) map[string]*Node {
	node := d.SectionNode(section)
	if node == nil || !node.IsMapping() {
		return nil
	}
	roots := make(map[string]*Node, len(node.Children))
	for _, pair := range node.Children {
		id := pair.Key.Text()
		if id == "" {
			continue
		}
		roots[id] = pair.Val
	}
	return roots
}

// EntityRoot returns the subtree defining one logical id in a section. The
// returned node may be nil even when ok is true: a key typed with no body
// yet still counts as a definition.
func (d *TemplateDocument) EntityRoot(section, logicalID string) (*Node, bool) {
	node := d.SectionNode(section)
	if node == nil || !node.IsMapping() {
		return nil, false
	}
	for _, pair := range node.Children {
		if pair.Key.Text() == logicalID {
			return pair.Val, true
		}
	}
	return nil, false
}

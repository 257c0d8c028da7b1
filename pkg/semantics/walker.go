package semantics

import (
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/parser"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/position"
)

// maxVisitedNodes bounds one descent so a pathologically nested template
// cannot pin a query. A partial result is returned at the ceiling.
const maxVisitedNodes = 50_000

// walkResult is the raw outcome of one positional descent: the innermost
// node containing the position, the property path down to it, and the
// ancestor chain back up. trail[0] is the resolved node itself, ascending
// to the document root.
type walkResult struct {
	node  *parser.Node
	path  PropertyPath
	trail []*parser.Node
}

type walker struct {
	pos     position.Place
	visited int
}

// walkDocument descends the document's syntax tree to the innermost node
// containing pos. It never panics; a position not covering any meaningful
// node yields ok=false.
func walkDocument(doc *parser.TemplateDocument, pos position.Place) (walkResult, bool) {
	if doc == nil || doc.Root == nil {
		return walkResult{}, false
	}
	w := &walker{pos: pos}
	down := []*parser.Node{doc.Root}
	res, ok := w.walk(doc.Body(), nil, down)
	if !ok {
		return walkResult{}, false
	}
	reverse(res.trail)
	return res, true
}

func reverse(nodes []*parser.Node) {
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
}

func (w *walker) walk(n *parser.Node, path PropertyPath, down []*parser.Node) (walkResult, bool) {
	if n == nil {
		return walkResult{}, false
	}
	w.visited++
	if w.visited > maxVisitedNodes {
		return walkResult{node: n, path: path, trail: append(down, n)}, true
	}

	switch {
	case n.IsMapping():
		return w.walkMapping(n, path, down)
	case n.IsSequence():
		return w.walkSequence(n, path, down)
	default:
		return walkResult{node: n, path: path, trail: append(down, n)}, true
	}
}

// covers widens plain containment for block-style nodes: a block node owns
// the remainder of its final row, so a trailing cursor on a line still being
// typed descends into it instead of falling off the tree. Inside flow
// collections containment stays strict; their delimiters are explicit, and
// extending an element past its end would swallow the siblings after it on
// the same line.
func (w *walker) covers(n *parser.Node) bool {
	if n == nil {
		return false
	}
	if n.Range.Contains(w.pos) {
		return true
	}
	if n.IsFlow() || n.IsQuotedScalar() || inFlowCollection(n) {
		return false
	}
	return w.pos.Line == n.Range.End.Line && w.pos.Character > n.Range.End.Character
}

// inFlowCollection reports whether the node's nearest enclosing collection
// is flow-style.
func inFlowCollection(n *parser.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.IsFlow() {
			return true
		}
		if p.IsMapping() || p.IsSequence() {
			return false
		}
	}
	return false
}

func (w *walker) walkMapping(n *parser.Node, path PropertyPath, down []*parser.Node) (walkResult, bool) {
	down = append(down, n)
	for _, pair := range n.Pairs() {
		if pair.Key != nil && pair.Key.Range.Contains(w.pos) {
			keyPath := append(clonePath(path), KeySegment(pair.Key.Text()))
			trail := append(append(clone(down), pair), pair.Key)
			return walkResult{node: pair.Key, path: keyPath, trail: trail}, true
		}
		if pair.Val != nil && w.covers(pair.Val) {
			valPath := append(clonePath(path), KeySegment(pair.Key.Text()))
			return w.walk(pair.Val, valPath, append(clone(down), pair))
		}
		if pair.Val == nil && w.afterKeyOnSameRow(pair) {
			// "Key: <cursor>" with nothing typed yet. The placeholder hangs
			// off the pair so upward walks still work, without touching the
			// shared tree.
			synthetic := parser.NewSyntheticNode(parser.KindKeyOrValue, pair, w.pos)
			valPath := append(clonePath(path), KeySegment(pair.Key.Text()))
			trail := append(append(clone(down), pair), synthetic)
			return walkResult{node: synthetic, path: valPath, trail: trail}, true
		}
	}

	if !w.covers(n) {
		return walkResult{}, false
	}
	if len(path) == 0 {
		// Blank content between top-level sections stays unresolved.
		return walkResult{}, false
	}
	kind := parser.KindKeyOrValue
	if w.pos.Character <= n.Range.Start.Character {
		// At or left of the mapping's own key column only a new key fits.
		kind = parser.KindKeyOnly
	}
	synthetic := parser.NewSyntheticNode(kind, n, w.pos)
	return walkResult{node: synthetic, path: clonePath(path), trail: append(clone(down), synthetic)}, true
}

func (w *walker) afterKeyOnSameRow(pair *parser.Node) bool {
	key := pair.Key
	return key != nil &&
		w.pos.Line == key.Range.Start.Line &&
		w.pos.Character > key.Range.End.Character
}

func (w *walker) walkSequence(n *parser.Node, path PropertyPath, down []*parser.Node) (walkResult, bool) {
	down = append(down, n)
	for i, item := range n.Children {
		if w.covers(item) {
			return w.walk(item, append(clonePath(path), IndexSegment(i)), clone(down))
		}
	}
	if !w.covers(n) {
		return walkResult{}, false
	}
	synthetic := parser.NewSyntheticNode(parser.KindKeyOrValue, n, w.pos)
	return walkResult{node: synthetic, path: clonePath(path), trail: append(clone(down), synthetic)}, true
}

func clone(nodes []*parser.Node) []*parser.Node {
	out := make([]*parser.Node, len(nodes))
	copy(out, nodes)
	return out
}

func clonePath(path PropertyPath) PropertyPath {
	out := make(PropertyPath, len(path))
	copy(out, path)
	return out
}

package semantics

import (
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/parser"
)

// keyValueStrategy decides whether the resolved node plays the key or the
// value role. The roles are genuinely ambiguous mid-edit only in the
// block-indented grammar; the bracketed grammar answers structurally, so
// the strategy is chosen per document format instead of baking the row
// heuristic into Context.
type keyValueStrategy interface {
	isKey(c *Context) bool
	isValue(c *Context) bool
}

func strategyFor(format parser.Format) keyValueStrategy {
	if format == parser.FormatJSON {
		return flowKeyValue{}
	}
	return blockKeyValue{}
}

// blockKeyValue implements the block-indented rules. A bare first token on
// an indented continuation line reports true for both roles: the engine
// cannot yet tell which the user intends.
type blockKeyValue struct{}

func (blockKeyValue) isKey(c *Context) bool {
	n := c.node
	switch n.Kind {
	case parser.KindKeyOnly, parser.KindKeyOrValue:
		return true
	}
	pair := enclosingPair(n)
	if pair == nil {
		return false
	}
	if pair.Key == n {
		return true
	}
	if last := c.path.Last(); !last.IsIndex && last.Key != "" && last.Key == n.Text() {
		return true
	}
	return onContinuationRow(n, pair)
}

func (blockKeyValue) isValue(c *Context) bool {
	n := c.node
	switch n.Kind {
	case parser.KindKeyOrValue:
		return true
	case parser.KindKeyOnly:
		return false
	}
	if n.Parent != nil && n.Parent.IsSequence() {
		return true
	}
	pair := enclosingPair(n)
	if pair == nil {
		return false
	}
	if pair.Val == n {
		return true
	}
	return onContinuationRow(n, pair)
}

// onContinuationRow reports whether the node starts on a different source
// row than its pair's key, the "value typed on its own indented line"
// pattern.
func onContinuationRow(n, pair *parser.Node) bool {
	if pair.Key == nil || pair.Key == n {
		return false
	}
	return n.Range.Start.Line != pair.Key.Range.Start.Line
}

// enclosingPair resolves the pair a node belongs to directly: its own pair
// when the node is a key or value side, or the parent pair of a synthetic
// placeholder.
func enclosingPair(n *parser.Node) *parser.Node {
	if n == nil || n.Parent == nil {
		return nil
	}
	if n.Parent.Kind == parser.KindMappingPair {
		return n.Parent
	}
	return nil
}

// flowKeyValue answers purely structurally. Delimiters make the roles
// unambiguous at all times in the bracketed grammar.
type flowKeyValue struct{}

func (flowKeyValue) isKey(c *Context) bool {
	pair := enclosingPair(c.node)
	return pair != nil && pair.Key == c.node
}

func (flowKeyValue) isValue(c *Context) bool {
	n := c.node
	if n.Parent != nil && n.Parent.IsSequence() {
		return true
	}
	pair := enclosingPair(n)
	return pair != nil && pair.Val == n
}

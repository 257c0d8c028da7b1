package parser

import (
	"strings"

	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/position"
)

// Kind is the closed taxonomy of syntax-node kinds the context engine
// reasons about. Everything the yaml parser can produce is folded into one
// of these; the two synthetic kinds never come from the parser and are
// substituted by the path walker for structurally ambiguous positions.
type Kind int

const (
	KindUnknown Kind = iota
	KindDocumentRoot
	KindBlockMapping
	KindFlowMapping
	KindMappingPair
	KindBlockSequence
	KindFlowSequence
	KindPlainScalar
	KindSingleQuotedScalar
	KindDoubleQuotedScalar
	KindLiteralScalar
	KindFoldedScalar
	KindAlias

	// KindKeyOnly marks a synthetic placeholder at a position that can only
	// start a new mapping key.
	KindKeyOnly
	// KindKeyOrValue marks a synthetic placeholder at a position that could
	// be either a new key or a continuation value while the user is mid-edit.
	KindKeyOrValue
)

func (k Kind) String() string {
	switch k {
	case KindDocumentRoot:
		return "document"
	case KindBlockMapping:
		return "block_mapping"
	case KindFlowMapping:
		return "flow_mapping"
	case KindMappingPair:
		return "mapping_pair"
	case KindBlockSequence:
		return "block_sequence"
	case KindFlowSequence:
		return "flow_sequence"
	case KindPlainScalar:
		return "plain_scalar"
	case KindSingleQuotedScalar:
		return "single_quote_scalar"
	case KindDoubleQuotedScalar:
		return "double_quote_scalar"
	case KindLiteralScalar:
		return "literal_scalar"
	case KindFoldedScalar:
		return "folded_scalar"
	case KindAlias:
		return "alias"
	case KindKeyOnly:
		return "key_only"
	case KindKeyOrValue:
		return "key_or_value"
	default:
		return "unknown"
	}
}

// Node is one node of the concrete syntax tree. The tree is parent-linked
// and carries computed end positions, both of which the underlying yaml
// library does not provide.
type Node struct {
	Kind   Kind
	Parent *Node

	// Children holds pair nodes for mappings and item nodes for sequences.
	Children []*Node

	// Key and Val are set on KindMappingPair nodes only. Val is nil when the
	// user has typed a key with no value yet and the parser produced nothing
	// usable on the value side.
	Key *Node
	Val *Node

	// Value is the decoded scalar text, already unquoted by the parser.
	Value string

	// Tag is the node's short yaml tag when it is non-standard, e.g. "!Ref".
	// Standard implicit tags (!!str, !!int, ...) are normalized to "".
	Tag string

	Range position.Range
}

// Text returns the trimmed scalar text of the node. Quote stripping already
// happened during decoding, so this is a trim only.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.Value)
}

func (n *Node) IsMapping() bool {
	return n != nil && (n.Kind == KindBlockMapping || n.Kind == KindFlowMapping)
}

func (n *Node) IsSequence() bool {
	return n != nil && (n.Kind == KindBlockSequence || n.Kind == KindFlowSequence)
}

func (n *Node) IsScalar() bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case KindPlainScalar, KindSingleQuotedScalar, KindDoubleQuotedScalar,
		KindLiteralScalar, KindFoldedScalar, KindKeyOnly, KindKeyOrValue:
		return true
	}
	return false
}

func (n *Node) IsQuotedScalar() bool {
	return n != nil && (n.Kind == KindSingleQuotedScalar || n.Kind == KindDoubleQuotedScalar)
}

func (n *Node) IsPair() bool {
	return n != nil && n.Kind == KindMappingPair
}

func (n *Node) IsFlow() bool {
	return n != nil && (n.Kind == KindFlowMapping || n.Kind == KindFlowSequence)
}

// IsSynthetic reports whether the node was substituted by the path walker
// rather than produced by the parser.
func (n *Node) IsSynthetic() bool {
	return n != nil && (n.Kind == KindKeyOnly || n.Kind == KindKeyOrValue)
}

// ParentPair returns the nearest enclosing mapping pair, if any. For a key
// or value node this is its own pair; for deeper nodes it walks up.
func (n *Node) ParentPair() *Node {
	for p := n; p != nil; p = p.Parent {
		if p.Kind == KindMappingPair {
			return p
		}
	}
	return nil
}

// KeyFor returns the key text of the pair this node is the value of, or ""
// when the node is not a pair value.
func (n *Node) KeyFor() string {
	if n == nil || n.Parent == nil || n.Parent.Kind != KindMappingPair {
		return ""
	}
	if n.Parent.Val != n {
		return ""
	}
	return n.Parent.Key.Text()
}

// PairValue returns the value node for the given key of a mapping, or nil.
func (n *Node) PairValue(key string) *Node {
	if !n.IsMapping() {
		return nil
	}
	for _, pair := range n.Children {
		if pair.Key.Text() == key {
			return pair.Val
		}
	}
	return nil
}

// Pairs returns the mapping's pairs, or nil for non-mappings.
func (n *Node) Pairs() []*Node {
	if !n.IsMapping() {
		return nil
	}
	return n.Children
}

// Walk visits the node and every descendant depth-first. The visitor
// returns false to prune the subtree below a node.
func (n *Node) Walk(visit func(*Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

// CountNodes returns the number of nodes in the subtree, stopping early
// once the limit is exceeded. Used to guard traversal ceilings.
func (n *Node) CountNodes(limit int) int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return count <= limit
	})
	return count
}

// NewSyntheticNode creates a walker-substituted placeholder anchored at pos
// underneath parent. It exists so downstream logic always has a concrete
// node to reason about instead of nil.
func NewSyntheticNode(kind Kind, parent *Node, pos position.Place) *Node {
	return &Node{
		Kind:   kind,
		Parent: parent,
		Range:  position.PointRange(pos),
	}
}

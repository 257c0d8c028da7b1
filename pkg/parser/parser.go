// Package parser turns CloudFormation template text, in either the
// block-indented yaml grammar or the flow/bracketed json grammar, into a
// parent-linked concrete syntax tree with computed end positions. The yaml
// library only records where nodes start; everything position-sensitive in
// the context engine needs to know where they end as well.
package parser

import (
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/position"
)

// Format tags which textual grammar a document uses. Both describe the same
// logical document model.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "yaml"
}

// DetectFormat inspects the first significant byte of the text. Bracketed
// documents are json-shaped; everything else is treated as yaml.
func DetectFormat(text string) Format {
	trimmed := strings.TrimLeft(text, " \t\r\n")
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return FormatJSON
	}
	return FormatYAML
}

// Parse builds a TemplateDocument from raw template text. A document is
// returned even when the text does not parse: the engine is expected to
// operate on broken, mid-edit input, so the returned document may carry a
// nil Root alongside the error.
func Parse(uri, text string, version int32) (*TemplateDocument, error) {
	doc := &TemplateDocument{
		URI:     uri,
		Text:    text,
		Version: version,
		Format:  DetectFormat(text),
	}

	decoder := yaml.NewDecoder(strings.NewReader(text))
	var errs error
	for {
		var raw yaml.Node
		err := decoder.Decode(&raw)
		if err == io.EOF {
			break
		}
		if err != nil {
			errs = multierr.Append(errs, errors.Errorf("decoding template document: %w", err))
			break
		}
		if doc.Root == nil {
			doc.Root = convertDocument(&raw)
		}
	}
	return doc, errs
}

func convertDocument(raw *yaml.Node) *Node {
	root := &Node{Kind: KindDocumentRoot}
	if raw.Kind == yaml.DocumentNode && len(raw.Content) > 0 {
		raw = raw.Content[0]
	}
	child := convert(raw, root)
	if child != nil {
		root.Children = []*Node{child}
		root.Range = child.Range
	}
	return root
}

func convert(raw *yaml.Node, parent *Node) *Node {
	if raw == nil {
		return nil
	}
	switch raw.Kind {
	case yaml.MappingNode:
		return convertMapping(raw, parent)
	case yaml.SequenceNode:
		return convertSequence(raw, parent)
	case yaml.ScalarNode:
		return convertScalar(raw, parent)
	case yaml.AliasNode:
		node := &Node{
			Kind:   KindAlias,
			Parent: parent,
			Value:  raw.Value,
			Range:  scalarRange(raw),
		}
		return node
	default:
		return nil
	}
}

func convertMapping(raw *yaml.Node, parent *Node) *Node {
	kind := KindBlockMapping
	if raw.Style&yaml.FlowStyle != 0 {
		kind = KindFlowMapping
	}
	node := &Node{
		Kind:   kind,
		Parent: parent,
		Range:  position.PointRange(position.FromParser(raw.Line, raw.Column)),
	}
	for i := 0; i+1 < len(raw.Content); i += 2 {
		pair := convertPair(raw.Content[i], raw.Content[i+1], node)
		if pair == nil {
			continue
		}
		node.Children = append(node.Children, pair)
		node.Range = node.Range.Union(pair.Range)
	}
	return node
}

func convertPair(rawKey, rawVal *yaml.Node, mapping *Node) *Node {
	pair := &Node{Kind: KindMappingPair, Parent: mapping}
	key := convert(rawKey, pair)
	if key == nil {
		return nil
	}
	pair.Key = key
	pair.Range = key.Range
	// The colon after the key is part of the pair even with no value typed.
	pair.Range.End.Character++

	if !isMissingValue(rawVal) {
		val := convert(rawVal, pair)
		if val != nil {
			pair.Val = val
			pair.Range = pair.Range.Union(val.Range)
		}
	}

	pair.Children = pair.Children[:0]
	pair.Children = append(pair.Children, pair.Key)
	if pair.Val != nil {
		pair.Children = append(pair.Children, pair.Val)
	}
	return pair
}

// isMissingValue recognizes the null scalar the parser fabricates for a key
// typed with no value yet. Its reported position is not trustworthy, so the
// pair is left without a value side and the path walker substitutes a
// synthetic placeholder on demand.
func isMissingValue(raw *yaml.Node) bool {
	return raw == nil || (raw.Kind == yaml.ScalarNode && raw.Tag == "!!null" && raw.Value == "")
}

func convertSequence(raw *yaml.Node, parent *Node) *Node {
	kind := KindBlockSequence
	if raw.Style&yaml.FlowStyle != 0 {
		kind = KindFlowSequence
	}
	node := &Node{
		Kind:   kind,
		Parent: parent,
		Tag:    customTag(raw.Tag),
		Range:  position.PointRange(position.FromParser(raw.Line, raw.Column)),
	}
	for _, item := range raw.Content {
		child := convert(item, node)
		if child == nil {
			continue
		}
		node.Children = append(node.Children, child)
		node.Range = node.Range.Union(child.Range)
	}
	return node
}

func convertScalar(raw *yaml.Node, parent *Node) *Node {
	kind := KindPlainScalar
	switch raw.Style {
	case yaml.SingleQuotedStyle:
		kind = KindSingleQuotedScalar
	case yaml.DoubleQuotedStyle:
		kind = KindDoubleQuotedScalar
	case yaml.LiteralStyle:
		kind = KindLiteralScalar
	case yaml.FoldedStyle:
		kind = KindFoldedScalar
	}
	return &Node{
		Kind:   kind,
		Parent: parent,
		Value:  raw.Value,
		Tag:    customTag(raw.Tag),
		Range:  scalarRange(raw),
	}
}

// customTag keeps application tags like "!Ref" and drops the standard
// implicit ones the resolver assigns to every scalar.
func customTag(tag string) string {
	if strings.HasPrefix(tag, "!!") {
		return ""
	}
	if strings.HasPrefix(tag, "!") {
		return tag
	}
	return ""
}

func scalarRange(raw *yaml.Node) position.Range {
	start := position.FromParser(raw.Line, raw.Column)
	quote := 0
	if raw.Style == yaml.SingleQuotedStyle || raw.Style == yaml.DoubleQuotedStyle {
		quote = 2
	}
	if i := strings.LastIndexByte(raw.Value, '\n'); i >= 0 {
		lines := strings.Count(raw.Value, "\n")
		return position.NewRange(start, position.NewPlace(start.Line+lines, len(raw.Value)-i-1+quote))
	}
	return position.NewRange(start, position.NewPlace(start.Line, start.Character+len(raw.Value)+quote))
}

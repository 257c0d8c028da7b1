package semantics

import (
	"strings"

	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/parser"
)

// IntrinsicType is the canonical identifier of a template function. Both
// the short-hand tag spelling and the explicit long-form key spelling of
// the same function normalize to the same value.
type IntrinsicType string

const (
	IntrinsicRef              IntrinsicType = "Ref"
	IntrinsicGetAtt           IntrinsicType = "GetAtt"
	IntrinsicFindInMap        IntrinsicType = "FindInMap"
	IntrinsicIf               IntrinsicType = "If"
	IntrinsicNot              IntrinsicType = "Not"
	IntrinsicEquals           IntrinsicType = "Equals"
	IntrinsicAnd              IntrinsicType = "And"
	IntrinsicOr               IntrinsicType = "Or"
	IntrinsicCondition        IntrinsicType = "Condition"
	IntrinsicSub              IntrinsicType = "Sub"
	IntrinsicJoin             IntrinsicType = "Join"
	IntrinsicSelect           IntrinsicType = "Select"
	IntrinsicSplit            IntrinsicType = "Split"
	IntrinsicBase64           IntrinsicType = "Base64"
	IntrinsicCidr             IntrinsicType = "Cidr"
	IntrinsicImportValue      IntrinsicType = "ImportValue"
	IntrinsicTransform        IntrinsicType = "Transform"
	IntrinsicLength           IntrinsicType = "Length"
	IntrinsicToJsonString     IntrinsicType = "ToJsonString"
	IntrinsicContains         IntrinsicType = "Contains"
	IntrinsicEachMemberEquals IntrinsicType = "EachMemberEquals"
	IntrinsicEachMemberIn     IntrinsicType = "EachMemberIn"
	IntrinsicRefAll           IntrinsicType = "RefAll"
	IntrinsicValueOf          IntrinsicType = "ValueOf"
	IntrinsicValueOfAll       IntrinsicType = "ValueOfAll"
)

// shortForms maps the tag spellings to canonical types.
var shortForms = map[string]IntrinsicType{
	"!Ref":              IntrinsicRef,
	"!GetAtt":           IntrinsicGetAtt,
	"!FindInMap":        IntrinsicFindInMap,
	"!If":               IntrinsicIf,
	"!Not":              IntrinsicNot,
	"!Equals":           IntrinsicEquals,
	"!And":              IntrinsicAnd,
	"!Or":               IntrinsicOr,
	"!Condition":        IntrinsicCondition,
	"!Sub":              IntrinsicSub,
	"!Join":             IntrinsicJoin,
	"!Select":           IntrinsicSelect,
	"!Split":            IntrinsicSplit,
	"!Base64":           IntrinsicBase64,
	"!Cidr":             IntrinsicCidr,
	"!ImportValue":      IntrinsicImportValue,
	"!Transform":        IntrinsicTransform,
	"!Length":           IntrinsicLength,
	"!ToJsonString":     IntrinsicToJsonString,
	"!Contains":         IntrinsicContains,
	"!EachMemberEquals": IntrinsicEachMemberEquals,
	"!EachMemberIn":     IntrinsicEachMemberIn,
	"!RefAll":           IntrinsicRefAll,
	"!ValueOf":          IntrinsicValueOf,
	"!ValueOfAll":       IntrinsicValueOfAll,
}

// longForms maps the explicit key spellings to canonical types.
var longForms = map[string]IntrinsicType{
	"Ref":                  IntrinsicRef,
	"Condition":            IntrinsicCondition,
	"Fn::GetAtt":           IntrinsicGetAtt,
	"Fn::FindInMap":        IntrinsicFindInMap,
	"Fn::If":               IntrinsicIf,
	"Fn::Not":              IntrinsicNot,
	"Fn::Equals":           IntrinsicEquals,
	"Fn::And":              IntrinsicAnd,
	"Fn::Or":               IntrinsicOr,
	"Fn::Sub":              IntrinsicSub,
	"Fn::Join":             IntrinsicJoin,
	"Fn::Select":           IntrinsicSelect,
	"Fn::Split":            IntrinsicSplit,
	"Fn::Base64":           IntrinsicBase64,
	"Fn::Cidr":             IntrinsicCidr,
	"Fn::ImportValue":      IntrinsicImportValue,
	"Fn::Transform":        IntrinsicTransform,
	"Fn::Length":           IntrinsicLength,
	"Fn::ToJsonString":     IntrinsicToJsonString,
	"Fn::Contains":         IntrinsicContains,
	"Fn::EachMemberEquals": IntrinsicEachMemberEquals,
	"Fn::EachMemberIn":     IntrinsicEachMemberIn,
	"Fn::RefAll":           IntrinsicRefAll,
	"Fn::ValueOf":          IntrinsicValueOf,
	"Fn::ValueOfAll":       IntrinsicValueOfAll,
}

// IntrinsicFunction describes the function invocation enclosing the cursor.
// Args is the raw argument node: the tagged node itself for the short form,
// the pair's value for the long form.
type IntrinsicFunction struct {
	Type IntrinsicType
	Args *parser.Node
}

// intrinsicFromTrail walks the ancestor chain outward, innermost first, and
// returns the first node shaped like a function invocation in either
// spelling. Nil outside any invocation.
func intrinsicFromTrail(trail []*parser.Node) *IntrinsicFunction {
	for _, node := range trail {
		if node.Tag != "" {
			if t, ok := shortForms[node.Tag]; ok {
				return &IntrinsicFunction{Type: t, Args: node}
			}
		}
		if node.Kind == parser.KindMappingPair && node.Key != nil {
			if t, ok := longForms[node.Key.Text()]; ok {
				return &IntrinsicFunction{Type: t, Args: node.Val}
			}
		}
	}
	return nil
}

// ArgumentPosition resolves which argument ordinal the cursor occupies for
// functions that take a two-part operand, written either as one dotted
// string ("Resource.Attribute") or as a two-element sequence. cursorOffset
// is the cursor's offset into the dotted string, or negative when unknown,
// in which case the current token's text decides. Returns 0 when the
// argument node is not an argument-bearing form, 1 for the left operand
// and 2 for the right.
func (f *IntrinsicFunction) ArgumentPosition(cursorText string, cursorOffset int) int {
	if f == nil || f.Args == nil {
		return 0
	}
	if f.Args.IsScalar() {
		return dottedArgumentPosition(f.Args.Text(), cursorText, cursorOffset)
	}
	if f.Args.IsSequence() {
		return sequenceArgumentPosition(f.Args, cursorText)
	}
	return 0
}

func dottedArgumentPosition(text, cursorText string, cursorOffset int) int {
	dot := strings.IndexByte(text, '.')
	if dot < 0 {
		return 1
	}
	if cursorOffset >= 0 {
		if cursorOffset <= dot {
			return 1
		}
		return 2
	}
	left := text[:dot]
	if cursorText == left || (cursorText != "" && strings.HasPrefix(left, cursorText)) {
		return 1
	}
	return 2
}

func sequenceArgumentPosition(args *parser.Node, cursorText string) int {
	elements := args.Children
	if len(elements) > 0 && cursorText == elements[0].Text() {
		return 1
	}
	if len(elements) > 1 && cursorText == elements[1].Text() {
		return 2
	}
	if len(elements) < 2 {
		// Only one operand typed so far.
		return 1
	}
	return 2
}

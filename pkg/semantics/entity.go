package semantics

import (
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/parser"
)

// EntityKind discriminates the Entity union.
type EntityKind int

const (
	EntityUnknown EntityKind = iota
	EntityResource
	EntityParameter
	EntityCondition
	EntityMapping
	EntityConstant
)

func (k EntityKind) String() string {
	switch k {
	case EntityResource:
		return "resource"
	case EntityParameter:
		return "parameter"
	case EntityCondition:
		return "condition"
	case EntityMapping:
		return "mapping"
	case EntityConstant:
		return "constant"
	default:
		return "unknown"
	}
}

// Entity is the typed projection of one logical id's subtree: a tagged
// union whose Kind selects exactly one populated variant. Callers must
// switch on Kind; the unselected variant pointers stay nil. Immutable once
// built.
type Entity struct {
	Kind EntityKind
	Name string

	Resource  *ResourceEntity
	Parameter *ParameterEntity
	Condition *ConditionEntity
	Mapping   *MappingEntity
	Constant  *ConstantEntity
}

// ResourceEntity carries a resource definition's recognized attributes
// plus its arbitrary declared properties, values kept verbatim.
type ResourceEntity struct {
	Type                string
	Condition           string
	DependsOn           []string
	DeletionPolicy      string
	UpdateReplacePolicy string
	Properties          map[string]*parser.Node
}

type ParameterEntity struct {
	Type                  string
	Default               string
	AllowedValues         []string
	AllowedPattern        string
	MinLength             string
	MaxLength             string
	MinValue              string
	MaxValue              string
	NoEcho                string
	ConstraintDescription string
	Description           string
}

// ConditionEntity keeps the raw condition expression; the engine only
// needs its structure, never its value.
type ConditionEntity struct {
	Expression *parser.Node
}

// MappingEntity is the two-level key-to-key-to-value table.
type MappingEntity struct {
	Table map[string]map[string]string
}

type ConstantEntity struct {
	Value *parser.Node
}

// BuildEntity materializes the entity for one section member. It is total:
// a malformed or missing root yields an entity with only its name and kind
// populated, since the caller may be mid-edit on an incomplete document.
func BuildEntity(section Section, name string, root *parser.Node) *Entity {
	switch section {
	case SectionResources:
		return buildResource(name, root)
	case SectionParameters:
		return buildParameter(name, root)
	case SectionConditions:
		return &Entity{Kind: EntityCondition, Name: name, Condition: &ConditionEntity{Expression: root}}
	case SectionMappings:
		return buildMapping(name, root)
	case SectionConstants:
		return &Entity{Kind: EntityConstant, Name: name, Constant: &ConstantEntity{Value: root}}
	default:
		return &Entity{Kind: EntityUnknown, Name: name}
	}
}

func buildResource(name string, root *parser.Node) *Entity {
	res := &ResourceEntity{}
	entity := &Entity{Kind: EntityResource, Name: name, Resource: res}
	if !root.IsMapping() {
		return entity
	}
	for _, pair := range root.Pairs() {
		val := pair.Val
		switch pair.Key.Text() {
		case "Type":
			res.Type = val.Text()
		case "Condition":
			res.Condition = val.Text()
		case "DependsOn":
			res.DependsOn = scalarList(val)
		case "DeletionPolicy":
			res.DeletionPolicy = val.Text()
		case "UpdateReplacePolicy":
			res.UpdateReplacePolicy = val.Text()
		case "Properties":
			if val.IsMapping() {
				res.Properties = make(map[string]*parser.Node, len(val.Children))
				for _, prop := range val.Pairs() {
					res.Properties[prop.Key.Text()] = prop.Val
				}
			}
		}
	}
	return entity
}

func buildParameter(name string, root *parser.Node) *Entity {
	param := &ParameterEntity{}
	entity := &Entity{Kind: EntityParameter, Name: name, Parameter: param}
	if !root.IsMapping() {
		return entity
	}
	for _, pair := range root.Pairs() {
		val := pair.Val
		switch pair.Key.Text() {
		case "Type":
			param.Type = val.Text()
		case "Default":
			param.Default = val.Text()
		case "AllowedValues":
			param.AllowedValues = scalarList(val)
		case "AllowedPattern":
			param.AllowedPattern = val.Text()
		case "MinLength":
			param.MinLength = val.Text()
		case "MaxLength":
			param.MaxLength = val.Text()
		case "MinValue":
			param.MinValue = val.Text()
		case "MaxValue":
			param.MaxValue = val.Text()
		case "NoEcho":
			param.NoEcho = val.Text()
		case "ConstraintDescription":
			param.ConstraintDescription = val.Text()
		case "Description":
			param.Description = val.Text()
		}
	}
	return entity
}

func buildMapping(name string, root *parser.Node) *Entity {
	mapping := &MappingEntity{}
	entity := &Entity{Kind: EntityMapping, Name: name, Mapping: mapping}
	if !root.IsMapping() {
		return entity
	}
	mapping.Table = make(map[string]map[string]string, len(root.Children))
	for _, top := range root.Pairs() {
		inner := make(map[string]string)
		if top.Val.IsMapping() {
			for _, leaf := range top.Val.Pairs() {
				inner[leaf.Key.Text()] = leaf.Val.Text()
			}
		}
		mapping.Table[top.Key.Text()] = inner
	}
	return entity
}

// scalarList flattens a scalar-or-sequence value into its texts.
func scalarList(n *parser.Node) []string {
	if n == nil {
		return nil
	}
	if n.IsScalar() {
		return []string{n.Text()}
	}
	if !n.IsSequence() {
		return nil
	}
	out := make([]string, 0, len(n.Children))
	for _, item := range n.Children {
		if item.IsScalar() {
			out = append(out, item.Text())
		}
	}
	return out
}

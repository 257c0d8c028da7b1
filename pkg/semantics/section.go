// Package semantics derives a typed description of "what is under the
// cursor" for a parsed CloudFormation template: the enclosing section, the
// logical id, the property path, key/value role, intrinsic-function nesting
// and the set of entities reachable by reference from that point.
package semantics

// Section names one of the fixed top-level blocks a template is organized
// into. It is derived purely from the first property-path segment.
type Section string

const (
	SectionUnknown       Section = ""
	SectionFormatVersion Section = "AWSTemplateFormatVersion"
	SectionDescription   Section = "Description"
	SectionMetadata      Section = "Metadata"
	SectionParameters    Section = "Parameters"
	SectionMappings      Section = "Mappings"
	SectionConditions    Section = "Conditions"
	SectionTransform     Section = "Transform"
	SectionResources     Section = "Resources"
	SectionOutputs       Section = "Outputs"
	SectionRules         Section = "Rules"
	SectionConstants     Section = "Constants"
)

var sections = map[string]Section{
	"AWSTemplateFormatVersion": SectionFormatVersion,
	"Description":              SectionDescription,
	"Metadata":                 SectionMetadata,
	"Parameters":               SectionParameters,
	"Mappings":                 SectionMappings,
	"Conditions":               SectionConditions,
	"Transform":                SectionTransform,
	"Resources":                SectionResources,
	"Outputs":                  SectionOutputs,
	"Rules":                    SectionRules,
	"Constants":                SectionConstants,
}

// ParseSection maps a top-level key to its section, yielding SectionUnknown
// for anything unrecognized.
func ParseSection(key string) Section {
	if s, ok := sections[key]; ok {
		return s
	}
	return SectionUnknown
}

// identifierKeyedSections are the sections whose direct children are
// user-named definitions. Only these can produce a logical id.
var identifierKeyedSections = []Section{
	SectionParameters,
	SectionMappings,
	SectionConditions,
	SectionResources,
	SectionConstants,
}

// IsIdentifierKeyed reports whether the section's members are keyed by
// user-chosen logical ids.
func (s Section) IsIdentifierKeyed() bool {
	for _, candidate := range identifierKeyedSections {
		if s == candidate {
			return true
		}
	}
	return false
}

func (s Section) String() string {
	if s == SectionUnknown {
		return "unknown"
	}
	return string(s)
}

// Package docs holds the static documentation tables behind hover and
// completion: top-level sections, intrinsic functions, pseudo parameters
// and resource attributes. The tables are constructed once and read-only;
// consumers receive them as collaborators.
package docs

// Entry is one documentation record.
type Entry struct {
	Name    string
	Summary string
	Detail  string
}

// Library bundles every table so consumers take one collaborator.
type Library struct {
	sections           map[string]Entry
	intrinsics         map[string]Entry
	pseudoParameters   map[string]Entry
	resourceAttributes map[string]Entry
}

// NewLibrary assembles the documentation tables.
func NewLibrary() *Library {
	return &Library{
		sections:           indexed(sectionDocs),
		intrinsics:         indexed(intrinsicDocs),
		pseudoParameters:   indexed(pseudoParameterDocs),
		resourceAttributes: indexed(resourceAttributeDocs),
	}
}

func indexed(entries []Entry) map[string]Entry {
	out := make(map[string]Entry, len(entries))
	for _, e := range entries {
		out[e.Name] = e
	}
	return out
}

func (l *Library) Section(name string) (Entry, bool) {
	e, ok := l.sections[name]
	return e, ok
}

func (l *Library) Intrinsic(name string) (Entry, bool) {
	e, ok := l.intrinsics[name]
	return e, ok
}

func (l *Library) PseudoParameter(name string) (Entry, bool) {
	e, ok := l.pseudoParameters[name]
	return e, ok
}

func (l *Library) ResourceAttribute(name string) (Entry, bool) {
	e, ok := l.resourceAttributes[name]
	return e, ok
}

func (l *Library) Intrinsics() []Entry         { return intrinsicDocs }
func (l *Library) Sections() []Entry           { return sectionDocs }
func (l *Library) PseudoParameters() []Entry   { return pseudoParameterDocs }
func (l *Library) ResourceAttributes() []Entry { return resourceAttributeDocs }

var sectionDocs = []Entry{
	{Name: "AWSTemplateFormatVersion", Summary: "The CloudFormation template version that the template conforms to."},
	{Name: "Description", Summary: "A text string that describes the template."},
	{Name: "Metadata", Summary: "Objects that provide additional information about the template."},
	{Name: "Parameters", Summary: "Values to pass to your template at runtime, when you create or update a stack."},
	{Name: "Mappings", Summary: "A mapping of keys and associated values that you can use to specify conditional parameter values."},
	{Name: "Conditions", Summary: "Conditions that control whether certain resources are created or properties are assigned."},
	{Name: "Transform", Summary: "Macros that CloudFormation uses to process your template."},
	{Name: "Resources", Summary: "The stack resources and their properties. Required in every template."},
	{Name: "Outputs", Summary: "Values that are returned whenever you view your stack's properties."},
	{Name: "Rules", Summary: "Validates a parameter or a combination of parameters passed to a template during stack creation or update."},
	{Name: "Constants", Summary: "Named constant values that can be referenced throughout the template."},
}

var intrinsicDocs = []Entry{
	{Name: "Ref", Summary: "Returns the value of the specified parameter or resource.", Detail: "!Ref logicalName"},
	{Name: "Fn::GetAtt", Summary: "Returns the value of an attribute from a resource in the template.", Detail: "!GetAtt logicalNameOfResource.attributeName"},
	{Name: "Fn::FindInMap", Summary: "Returns the value corresponding to keys in a two-level map declared in the Mappings section.", Detail: "!FindInMap [MapName, TopLevelKey, SecondLevelKey]"},
	{Name: "Fn::If", Summary: "Returns one value if the specified condition evaluates to true and another value if it evaluates to false.", Detail: "!If [conditionName, valueIfTrue, valueIfFalse]"},
	{Name: "Fn::Not", Summary: "Returns true for a condition that evaluates to false, and vice versa.", Detail: "!Not [condition]"},
	{Name: "Fn::Equals", Summary: "Compares if two values are equal.", Detail: "!Equals [value1, value2]"},
	{Name: "Fn::And", Summary: "Returns true if all the specified conditions evaluate to true.", Detail: "!And [condition, ...]"},
	{Name: "Fn::Or", Summary: "Returns true if any one of the specified conditions evaluates to true.", Detail: "!Or [condition, ...]"},
	{Name: "Condition", Summary: "Refers to a condition declared in the Conditions section.", Detail: "!Condition conditionName"},
	{Name: "Fn::Sub", Summary: "Substitutes variables in an input string with values that you specify.", Detail: "!Sub 'string with ${variables}'"},
	{Name: "Fn::Join", Summary: "Appends a set of values into a single value, separated by the specified delimiter.", Detail: "!Join [delimiter, [values]]"},
	{Name: "Fn::Select", Summary: "Returns a single object from a list of objects by index.", Detail: "!Select [index, list]"},
	{Name: "Fn::Split", Summary: "Splits a string into a list of string values.", Detail: "!Split [delimiter, source]"},
	{Name: "Fn::Base64", Summary: "Returns the Base64 representation of the input string.", Detail: "!Base64 value"},
	{Name: "Fn::Cidr", Summary: "Returns an array of CIDR address blocks.", Detail: "!Cidr [ipBlock, count, cidrBits]"},
	{Name: "Fn::ImportValue", Summary: "Returns the value of an output exported by another stack.", Detail: "!ImportValue sharedValueToImport"},
	{Name: "Fn::Transform", Summary: "Specifies a macro to perform custom processing on part of a stack template.", Detail: "Fn::Transform: {Name: macroName}"},
	{Name: "Fn::Length", Summary: "Returns the number of elements within an array or an intrinsic function that returns an array.", Detail: "!Length array"},
	{Name: "Fn::ToJsonString", Summary: "Converts an object or array to its corresponding JSON string.", Detail: "!ToJsonString objectOrArray"},
	{Name: "Fn::Contains", Summary: "Returns true if a specified string matches at least one value in a list of strings.", Detail: "Fn::Contains: [[values], string]"},
	{Name: "Fn::EachMemberEquals", Summary: "Returns true if a specified string matches all values in a list.", Detail: "Fn::EachMemberEquals: [[strings], string]"},
	{Name: "Fn::EachMemberIn", Summary: "Returns true if each member in a list of strings matches at least one value in a second list.", Detail: "Fn::EachMemberIn: [[strings1], [strings2]]"},
	{Name: "Fn::RefAll", Summary: "Returns all values for a specified parameter type.", Detail: "Fn::RefAll: parameterType"},
	{Name: "Fn::ValueOf", Summary: "Returns an attribute value or list of values for a specific parameter and attribute.", Detail: "Fn::ValueOf: [parameterLogicalId, attribute]"},
	{Name: "Fn::ValueOfAll", Summary: "Returns a list of all attribute values for a given parameter type and attribute.", Detail: "Fn::ValueOfAll: [parameterType, attribute]"},
}

var pseudoParameterDocs = []Entry{
	{Name: "AWS::AccountId", Summary: "The AWS account ID of the account in which the stack is being created."},
	{Name: "AWS::NotificationARNs", Summary: "The list of notification Amazon Resource Names (ARNs) for the current stack."},
	{Name: "AWS::NoValue", Summary: "Removes the corresponding resource property when specified as a return value in the Fn::If intrinsic function."},
	{Name: "AWS::Partition", Summary: "The partition that the resource is in, such as aws or aws-cn."},
	{Name: "AWS::Region", Summary: "The AWS Region in which the encompassing resource is being created."},
	{Name: "AWS::StackId", Summary: "The ID of the stack."},
	{Name: "AWS::StackName", Summary: "The name of the stack."},
	{Name: "AWS::URLSuffix", Summary: "The suffix for a domain, such as amazonaws.com."},
}

var resourceAttributeDocs = []Entry{
	{Name: "Condition", Summary: "Associates a condition with this resource; the resource is created only when the condition is true."},
	{Name: "DependsOn", Summary: "Specifies that the creation of this resource follows another resource."},
	{Name: "DeletionPolicy", Summary: "Preserves or backs up a resource when its stack is deleted."},
	{Name: "UpdateReplacePolicy", Summary: "Retains or backs up the existing physical instance of a resource when it's replaced during an update."},
	{Name: "CreationPolicy", Summary: "Prevents a resource's status from reaching create complete until CloudFormation receives a specified number of success signals."},
	{Name: "UpdatePolicy", Summary: "Specifies how CloudFormation handles updates to specific resources."},
	{Name: "Metadata", Summary: "Associates structured data with this resource."},
}

package completion_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/completion"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/docs"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/parser"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/position"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/schema"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/semantics"
)

const completionTemplate = `Parameters:
  Env:
    Type: String
Conditions:
  IsProd: !Equals [!Ref Env, prod]
Mappings:
  RegionMap:
    us-east-1:
      ami: ami-123
Resources:
  Bucket:
    Type: AWS::S3::Bucket
    Properties:
      BucketName: demo
  Queue:
    Type: AWS::SQS::Queue
`

func newProvider(t *testing.T) *completion.Provider {
	t.Helper()
	registry, err := schema.NewRegistry()
	require.NoError(t, err)
	manager := semantics.NewContextManager(semantics.Settings{})
	return completion.NewProvider(manager, registry, docs.NewLibrary())
}

func complete(t *testing.T, text string, pos position.Place) []completion.Item {
	t.Helper()
	doc, err := parser.Parse("file:///template.yaml", text, 1)
	require.NoError(t, err)
	return newProvider(t).Complete(context.Background(), doc, pos)
}

func labels(items []completion.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}

func TestComplete_ResourceTypes(t *testing.T) {
	text := `Resources:
  Bucket:
    Type: AWS
`
	items := complete(t, text, position.NewPlace(2, 12))
	got := labels(items)
	assert.Contains(t, got, "AWS::S3::Bucket")
	assert.Contains(t, got, "AWS::SQS::Queue")
	assert.Contains(t, got, "AWS::Lambda::Function")
}

func TestComplete_RefArguments(t *testing.T) {
	text := completionTemplate + `  Topic:
    Type: AWS::SNS::Topic
    Properties:
      TopicName: !Ref E
`
	items := complete(t, text, position.NewPlace(19, 23))
	got := labels(items)

	assert.Contains(t, got, "Env", "parameters complete")
	assert.Contains(t, got, "Bucket", "resources complete")
	assert.Contains(t, got, "AWS::Region", "pseudo parameters complete")
	assert.NotContains(t, got, "IsProd", "conditions are not Ref targets")
}

func TestComplete_GetAttAttributes(t *testing.T) {
	text := completionTemplate + `  Topic:
    Type: AWS::SNS::Topic
    Properties:
      TopicName: !GetAtt Bucket.Arn
`
	// Cursor on the attribute side of the dotted argument.
	items := complete(t, text, position.NewPlace(19, 32))
	got := labels(items)
	assert.Equal(t, []string{"Arn", "DomainName", "RegionalDomainName", "WebsiteURL"}, got)
}

func TestComplete_ConditionNames(t *testing.T) {
	text := completionTemplate + `  Topic:
    Type: AWS::SNS::Topic
    Condition: Is
    Properties:
      TopicName: !If [IsProd, a, b]
`
	items := complete(t, text, position.NewPlace(20, 23))
	assert.Equal(t, []string{"IsProd"}, labels(items))
}

func TestComplete_FindInMapNames(t *testing.T) {
	text := completionTemplate + `  Instance:
    Type: AWS::EC2::Instance
    Properties:
      ImageId: !FindInMap [RegionMap, us-east-1, ami]
`
	// First argument: mapping names.
	items := complete(t, text, position.NewPlace(19, 30))
	assert.Equal(t, []string{"RegionMap"}, labels(items))

	// Second argument: top-level keys of the referenced mapping.
	items = complete(t, text, position.NewPlace(19, 40))
	assert.Equal(t, []string{"us-east-1"}, labels(items))
}

func TestComplete_SchemaProperties(t *testing.T) {
	text := `Resources:
  Bucket:
    Type: AWS::S3::Bucket
    Properties:
      Buck
`
	items := complete(t, text, position.NewPlace(4, 10))
	got := labels(items)
	assert.Contains(t, got, "BucketName")
	assert.Contains(t, got, "AccessControl")
	assert.Contains(t, got, "Tags")
	assert.NotContains(t, got, "Arn", "read-only properties are not authoring candidates")
}

func TestComplete_NestedSchemaProperties(t *testing.T) {
	text := `Resources:
  Bucket:
    Type: AWS::S3::Bucket
    Properties:
      VersioningConfiguration:
        St
`
	items := complete(t, text, position.NewPlace(5, 10))
	assert.Equal(t, []string{"Status"}, labels(items))
}

func TestComplete_EntityLevelKeys(t *testing.T) {
	text := `Resources:
  Bucket:
    Ty
`
	items := complete(t, text, position.NewPlace(2, 6))
	got := labels(items)
	assert.Contains(t, got, "Type")
	assert.Contains(t, got, "Properties")
	assert.Contains(t, got, "DependsOn")
	assert.Contains(t, got, "DeletionPolicy")
}

func TestComplete_TopLevelSections(t *testing.T) {
	text := `Parameters:
  Env:
    Type: String
Res:
`
	items := complete(t, text, position.NewPlace(3, 1))
	got := labels(items)
	assert.Contains(t, got, "Resources")
	assert.Contains(t, got, "Outputs")
	assert.NotContains(t, got, "Parameters", "sections already present are skipped")
}

func TestComplete_NothingAtBlankLine(t *testing.T) {
	text := `Parameters:
  Env:
    Type: String

Resources:
  Bucket:
    Type: AWS::S3::Bucket
`
	items := complete(t, text, position.NewPlace(3, 0))
	assert.Empty(t, items)
}

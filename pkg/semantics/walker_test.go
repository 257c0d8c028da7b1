package semantics_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/parser"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/position"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/semantics"
)

const sampleTemplate = `AWSTemplateFormatVersion: "2010-09-09"
Description: sample stack
Parameters:
  Env:
    Type: String
    Default: dev
Conditions:
  IsProd: !Equals [!Ref Env, prod]
Mappings:
  RegionMap:
    us-east-1:
      ami: ami-123
Resources:
  Bucket:
    Type: AWS::S3::Bucket
    Condition: IsProd
    Properties:
      BucketName: !Sub bucket-${Env}
  Queue:
    Type: AWS::SQS::Queue
    DependsOn: Bucket
Outputs:
  BucketArn:
    Value: !GetAtt Bucket.Arn
`

func mustParse(t *testing.T, text string) *parser.TemplateDocument {
	t.Helper()
	doc, err := parser.Parse("file:///template.yaml", text, 1)
	require.NoError(t, err)
	require.NotNil(t, doc.Root)
	return doc
}

func mustResolve(t *testing.T, text string, pos position.Place) *semantics.Context {
	t.Helper()
	doc := mustParse(t, text)
	m := semantics.NewContextManager(semantics.Settings{})
	c, ok := m.ResolveContext(context.Background(), doc, pos)
	require.True(t, ok, "no context resolved at %s", pos)
	return c
}

func TestResolveContext_Positions(t *testing.T) {
	tests := []struct {
		name        string
		pos         position.Place
		wantSection semantics.Section
		wantPath    string
		wantID      string
		wantHasID   bool
		wantText    string
	}{
		{
			name:        "top-level section key",
			pos:         position.NewPlace(2, 3),
			wantSection: semantics.SectionParameters,
			wantPath:    "Parameters",
			wantText:    "Parameters",
		},
		{
			name:        "resource type value",
			pos:         position.NewPlace(14, 12),
			wantSection: semantics.SectionResources,
			wantPath:    "Resources/Bucket/Type",
			wantID:      "Bucket",
			wantHasID:   true,
			wantText:    "AWS::S3::Bucket",
		},
		{
			name:        "logical id key",
			pos:         position.NewPlace(13, 4),
			wantSection: semantics.SectionResources,
			wantPath:    "Resources/Bucket",
			wantID:      "Bucket",
			wantHasID:   true,
			wantText:    "Bucket",
		},
		{
			name:        "parameter property key",
			pos:         position.NewPlace(4, 6),
			wantSection: semantics.SectionParameters,
			wantPath:    "Parameters/Env/Type",
			wantID:      "Env",
			wantHasID:   true,
			wantText:    "Type",
		},
		{
			name:        "mapping second-level key",
			pos:         position.NewPlace(10, 6),
			wantSection: semantics.SectionMappings,
			wantPath:    "Mappings/RegionMap/us-east-1",
			wantID:      "RegionMap",
			wantHasID:   true,
			wantText:    "us-east-1",
		},
		{
			name:        "sequence element inside condition",
			pos:         position.NewPlace(7, 25),
			wantSection: semantics.SectionConditions,
			wantPath:    "Conditions/IsProd/0",
			wantID:      "IsProd",
			wantHasID:   true,
			wantText:    "Env",
		},
		{
			name:        "later element of one-line flow sequence",
			pos:         position.NewPlace(7, 30),
			wantSection: semantics.SectionConditions,
			wantPath:    "Conditions/IsProd/1",
			wantID:      "IsProd",
			wantHasID:   true,
			wantText:    "prod",
		},
		{
			name:        "output value",
			pos:         position.NewPlace(23, 21),
			wantSection: semantics.SectionOutputs,
			wantPath:    "Outputs/BucketArn/Value",
			wantText:    "Bucket.Arn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustResolve(t, sampleTemplate, tt.pos)
			assert.Equal(t, tt.wantSection, c.Section())
			assert.Equal(t, tt.wantPath, c.PropertyPath().String())
			id, ok := c.LogicalID()
			assert.Equal(t, tt.wantHasID, ok)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantText, c.Text())
		})
	}
}

func TestResolveContext_BlankBetweenSections(t *testing.T) {
	text := `Parameters:
  Env:
    Type: String

Resources:
  Bucket:
    Type: AWS::S3::Bucket
`
	doc := mustParse(t, text)
	m := semantics.NewContextManager(semantics.Settings{})
	_, ok := m.ResolveContext(context.Background(), doc, position.NewPlace(3, 0))
	assert.False(t, ok, "a blank line between top-level sections resolves to nothing")
}

func TestResolveContext_TrailingCursorAfterColon(t *testing.T) {
	text := `Resources:
  Bucket:
    Type:
`
	c := mustResolve(t, text, position.NewPlace(2, 10))
	assert.Equal(t, "Resources/Bucket/Type", c.PropertyPath().String())
	assert.True(t, c.Node().IsSynthetic())
	assert.Equal(t, parser.KindKeyOrValue, c.Node().Kind)
	assert.True(t, c.IsKey(), "a placeholder after the colon could still become a key")
	assert.True(t, c.IsValue(), "or a value")
}

func TestResolveContext_BlankLineInsideMapping(t *testing.T) {
	text := `Resources:
  First:
    Type: AWS::SQS::Queue

  Second:
    Type: AWS::SNS::Topic
`
	// At the entry indentation column only a new key fits.
	c := mustResolve(t, text, position.NewPlace(3, 2))
	assert.Equal(t, parser.KindKeyOnly, c.Node().Kind)
	assert.Equal(t, "Resources", c.PropertyPath().String())
	assert.True(t, c.IsKey())
	assert.False(t, c.IsValue())

	// Deeper indentation keeps both readings open.
	c = mustResolve(t, text, position.NewPlace(3, 6))
	assert.Equal(t, parser.KindKeyOrValue, c.Node().Kind)
	assert.True(t, c.IsKey())
	assert.True(t, c.IsValue())
}

func TestResolveContext_TrailingCursorAfterValue(t *testing.T) {
	text := `Resources:
  Bucket:
    Type: AWS::S3::B
`
	// Cursor right at the end of a half-typed value resolves to that value.
	c := mustResolve(t, text, position.NewPlace(2, 20))
	assert.Equal(t, "Resources/Bucket/Type", c.PropertyPath().String())
	assert.Equal(t, "AWS::S3::B", c.Text())
	assert.True(t, c.IsValue())
}

func TestResolveContext_FlowSequenceMiddleElement(t *testing.T) {
	text := `Resources:
  Bucket:
    Type: AWS::S3::Bucket
    Properties:
      ImageId: !FindInMap [RegionMap, us-east-1, ami]
`
	// Each element of a one-line flow sequence owns only its own span; the
	// cursor on the middle element must not resolve to the first.
	c := mustResolve(t, text, position.NewPlace(4, 40))
	assert.Equal(t, "Resources/Bucket/Properties/ImageId/1", c.PropertyPath().String())
	assert.Equal(t, "us-east-1", c.Text())
}

func TestResolveContext_FlowDocument(t *testing.T) {
	text := `{"Resources": {"Bucket": {"Type": "AWS::S3::Bucket"}}}`
	c := mustResolve(t, text, position.NewPlace(0, 38))
	assert.Equal(t, semantics.SectionResources, c.Section())
	assert.Equal(t, "Resources/Bucket/Type", c.PropertyPath().String())
	assert.Equal(t, "AWS::S3::Bucket", c.Text())
	assert.True(t, c.IsValue())
	assert.False(t, c.IsKey(), "delimiters make the roles unambiguous")
}

func TestResolveContext_PositionOutsideDocument(t *testing.T) {
	doc := mustParse(t, sampleTemplate)
	m := semantics.NewContextManager(semantics.Settings{})
	_, ok := m.ResolveContext(context.Background(), doc, position.NewPlace(400, 0))
	assert.False(t, ok)
}

func TestResolveContext_EmptyDocument(t *testing.T) {
	doc, err := parser.Parse("file:///empty.yaml", "", 1)
	require.NoError(t, err)
	m := semantics.NewContextManager(semantics.Settings{})
	_, ok := m.ResolveContext(context.Background(), doc, position.NewPlace(0, 0))
	assert.False(t, ok)
}

package diagnostic_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/diagnostic"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/parser"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/semantics"
)

func analyze(t *testing.T, text string) []diagnostic.Diagnostic {
	t.Helper()
	doc, parseErr := parser.Parse("file:///template.yaml", text, 1)
	return diagnostic.NewAnalyzer(semantics.Settings{}).Analyze(context.Background(), doc, parseErr)
}

func TestAnalyze_CleanTemplate(t *testing.T) {
	text := `Parameters:
  Env:
    Type: String
Resources:
  Bucket:
    Type: AWS::S3::Bucket
    Properties:
      BucketName: !Ref Env
`
	assert.Empty(t, analyze(t, text))
}

func TestAnalyze_UnresolvedReference(t *testing.T) {
	text := `Resources:
  Bucket:
    Type: AWS::S3::Bucket
    Properties:
      BucketName: !Ref Ghost
`
	diags := analyze(t, text)
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostic.SeverityWarning, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "Bucket")
	assert.Contains(t, diags[0].Message, `"Ghost"`)
}

func TestAnalyze_DependsOnUnknownResource(t *testing.T) {
	text := `Resources:
  Queue:
    Type: AWS::SQS::Queue
    DependsOn: Missing
`
	diags := analyze(t, text)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, `"Missing"`)
}

func TestAnalyze_OutputsScanned(t *testing.T) {
	text := `Resources:
  Bucket:
    Type: AWS::S3::Bucket
Outputs:
  Arn:
    Value: !GetAtt Bucket.Arn
  Bad:
    Value: !Ref Nothing
`
	diags := analyze(t, text)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, `"Nothing"`)
}

func TestAnalyze_PseudoParametersAreFine(t *testing.T) {
	text := `Resources:
  Bucket:
    Type: AWS::S3::Bucket
    Properties:
      BucketName: !Sub bucket-${AWS::Region}
`
	assert.Empty(t, analyze(t, text))
}

func TestAnalyze_ConstantsFlag(t *testing.T) {
	text := `Constants:
  Greeting: hello
Resources:
  Bucket:
    Type: AWS::S3::Bucket
    Properties:
      BucketName: !Ref Greeting
`
	doc, parseErr := parser.Parse("file:///template.yaml", text, 1)
	require.NoError(t, parseErr)

	// Disabled: a constant key does not count as a defined identifier.
	diags := diagnostic.NewAnalyzer(semantics.Settings{}).Analyze(context.Background(), doc, nil)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, `"Greeting"`)

	enabled := diagnostic.NewAnalyzer(semantics.Settings{EnableConstants: true})
	assert.Empty(t, enabled.Analyze(context.Background(), doc, nil))
}

func TestAnalyze_ParseError(t *testing.T) {
	diags := analyze(t, "Resources: [unclosed\n")
	require.NotEmpty(t, diags)
	assert.Equal(t, diagnostic.SeverityError, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "does not parse")
}

func TestValidate(t *testing.T) {
	clean := `Resources:
  Bucket:
    Type: AWS::S3::Bucket
`
	doc, parseErr := parser.Parse("file:///template.yaml", clean, 1)
	assert.NoError(t, diagnostic.NewAnalyzer(semantics.Settings{}).Validate(context.Background(), doc, parseErr))

	dirty := `Resources:
  Bucket:
    Type: AWS::S3::Bucket
    DependsOn: Missing
`
	doc, parseErr = parser.Parse("file:///template.yaml", dirty, 1)
	err := diagnostic.NewAnalyzer(semantics.Settings{}).Validate(context.Background(), doc, parseErr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Missing"`)
}

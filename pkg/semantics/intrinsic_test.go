package semantics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/position"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/semantics"
)

func TestIntrinsic_ShortForm(t *testing.T) {
	c := mustResolve(t, sampleTemplate, position.NewPlace(23, 21))

	fn := c.Intrinsic()
	require.NotNil(t, fn)
	assert.Equal(t, semantics.IntrinsicGetAtt, fn.Type)
	require.NotNil(t, fn.Args)
	assert.Equal(t, "Bucket.Arn", fn.Args.Text())
}

func TestIntrinsic_LongFormNormalizesToSameType(t *testing.T) {
	text := `Outputs:
  BucketArn:
    Value:
      Fn::GetAtt:
        - Bucket
        - Arn
`
	c := mustResolve(t, text, position.NewPlace(4, 11))
	assert.Equal(t, "Bucket", c.Text())

	fn := c.Intrinsic()
	require.NotNil(t, fn)
	assert.Equal(t, semantics.IntrinsicGetAtt, fn.Type, "both spellings share one canonical type")
	require.NotNil(t, fn.Args)
	assert.True(t, fn.Args.IsSequence())
}

func TestIntrinsic_InnermostWins(t *testing.T) {
	// The cursor sits on the !Ref argument nested inside !Equals.
	c := mustResolve(t, sampleTemplate, position.NewPlace(7, 25))

	fn := c.Intrinsic()
	require.NotNil(t, fn)
	assert.Equal(t, semantics.IntrinsicRef, fn.Type)
	assert.Equal(t, "Env", fn.Args.Text())
}

func TestIntrinsic_NoneOutsideInvocation(t *testing.T) {
	c := mustResolve(t, sampleTemplate, position.NewPlace(14, 12))
	assert.Nil(t, c.Intrinsic())

	// Memoized: the second read returns the same answer without re-deriving.
	assert.Nil(t, c.Intrinsic())
}

func TestIntrinsic_SubLongForm(t *testing.T) {
	text := `Resources:
  Bucket:
    Type: AWS::S3::Bucket
    Properties:
      BucketName:
        Fn::Sub: bucket-${Env}
`
	c := mustResolve(t, text, position.NewPlace(5, 20))
	fn := c.Intrinsic()
	require.NotNil(t, fn)
	assert.Equal(t, semantics.IntrinsicSub, fn.Type)
}

func TestArgumentPosition_DottedString(t *testing.T) {
	c := mustResolve(t, sampleTemplate, position.NewPlace(23, 21))
	fn := c.Intrinsic()
	require.NotNil(t, fn)

	tests := []struct {
		name   string
		text   string
		offset int
		want   int
	}{
		{name: "offset before the dot", text: "", offset: 2, want: 1},
		{name: "offset at the dot", text: "", offset: 6, want: 1},
		{name: "offset after the dot", text: "", offset: 8, want: 2},
		{name: "token matches the left operand", text: "Bucket", offset: -1, want: 1},
		{name: "token matches the right operand", text: "Arn", offset: -1, want: 2},
		{name: "token is a prefix of the left operand", text: "Buck", offset: -1, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fn.ArgumentPosition(tt.text, tt.offset))
		})
	}
}

func TestArgumentPosition_UndottedString(t *testing.T) {
	text := `Outputs:
  Name:
    Value: !GetAtt Bucket
`
	c := mustResolve(t, text, position.NewPlace(2, 20))
	fn := c.Intrinsic()
	require.NotNil(t, fn)
	assert.Equal(t, 1, fn.ArgumentPosition("Bucket", -1), "no dot yet means the first operand")
}

func TestArgumentPosition_SequenceForm(t *testing.T) {
	text := `Outputs:
  BucketArn:
    Value:
      Fn::GetAtt:
        - Bucket
        - Arn
`
	c := mustResolve(t, text, position.NewPlace(4, 11))
	fn := c.Intrinsic()
	require.NotNil(t, fn)

	assert.Equal(t, 1, fn.ArgumentPosition("Bucket", -1))
	assert.Equal(t, 2, fn.ArgumentPosition("Arn", -1))
}

func TestArgumentPosition_SingleElementSequence(t *testing.T) {
	text := `Outputs:
  BucketArn:
    Value:
      Fn::GetAtt:
        - Bucket
`
	c := mustResolve(t, text, position.NewPlace(4, 11))
	fn := c.Intrinsic()
	require.NotNil(t, fn)
	assert.Equal(t, 1, fn.ArgumentPosition("", -1), "only one operand typed so far")
}

func TestArgumentPosition_NoInvocation(t *testing.T) {
	var fn *semantics.IntrinsicFunction
	assert.Equal(t, 0, fn.ArgumentPosition("x", -1))
}

func TestContext_IsIntrinsicFunc(t *testing.T) {
	// Short form: the tagged value node spells the function.
	c := mustResolve(t, sampleTemplate, position.NewPlace(23, 21))
	assert.True(t, c.IsIntrinsicFunc())

	// Long form: the key token spells the function.
	text := `Outputs:
  BucketArn:
    Value:
      Fn::GetAtt:
        - Bucket
        - Arn
`
	c = mustResolve(t, text, position.NewPlace(3, 10))
	assert.Equal(t, "Fn::GetAtt", c.Text())
	assert.True(t, c.IsIntrinsicFunc())

	c = mustResolve(t, sampleTemplate, position.NewPlace(14, 12))
	assert.False(t, c.IsIntrinsicFunc())
}

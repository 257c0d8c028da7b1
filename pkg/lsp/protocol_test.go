package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/completion"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/diagnostic"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/position"
)

func TestPositionRoundTrip(t *testing.T) {
	p := protocol.Position{Line: 7, Character: 12}
	assert.Equal(t, p, toProtocolPosition(fromProtocolPosition(p)))

	place := position.NewPlace(3, 0)
	assert.Equal(t, place, fromProtocolPosition(toProtocolPosition(place)))
}

func TestToProtocolDiagnostics(t *testing.T) {
	got := toProtocolDiagnostics(nil)
	require.NotNil(t, got, "the protocol needs a non-nil array to clear stale diagnostics")
	assert.Empty(t, got)

	got = toProtocolDiagnostics([]diagnostic.Diagnostic{
		{
			Range:    position.NewRange(position.NewPlace(1, 2), position.NewPlace(1, 9)),
			Severity: diagnostic.SeverityWarning,
			Message:  "something is off",
		},
		{
			Severity: diagnostic.SeverityError,
			Message:  "something is broken",
		},
	})
	require.Len(t, got, 2)
	assert.Equal(t, protocol.DiagnosticSeverityWarning, *got[0].Severity)
	assert.Equal(t, protocol.UInteger(1), got[0].Range.Start.Line)
	assert.Equal(t, protocol.UInteger(2), got[0].Range.Start.Character)
	assert.Equal(t, protocol.DiagnosticSeverityError, *got[1].Severity)
}

func TestToProtocolCompletionItems(t *testing.T) {
	got := toProtocolCompletionItems([]completion.Item{
		{Label: "Resources", Detail: "The stack resources.", Kind: completion.KindSection},
		{Label: "BucketName", Kind: completion.KindProperty},
		{Label: "Fn::Sub", Kind: completion.KindFunction},
	})
	require.Len(t, got, 3)

	assert.Equal(t, "Resources", got[0].Label)
	require.NotNil(t, got[0].Detail)
	assert.Equal(t, "The stack resources.", *got[0].Detail)
	assert.Equal(t, protocol.CompletionItemKindModule, *got[0].Kind)

	assert.Nil(t, got[1].Detail)
	assert.Equal(t, protocol.CompletionItemKindProperty, *got[1].Kind)
	assert.Equal(t, protocol.CompletionItemKindFunction, *got[2].Kind)
}

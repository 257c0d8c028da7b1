package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/completion"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/diagnostic"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/position"
)

func fromProtocolPosition(p protocol.Position) position.Place {
	return position.NewPlace(int(p.Line), int(p.Character))
}

func toProtocolPosition(p position.Place) protocol.Position {
	return protocol.Position{Line: protocol.UInteger(p.Line), Character: protocol.UInteger(p.Character)}
}

func toProtocolRange(r position.Range) protocol.Range {
	return protocol.Range{Start: toProtocolPosition(r.Start), End: toProtocolPosition(r.End)}
}

func toProtocolDiagnostics(diags []diagnostic.Diagnostic) []protocol.Diagnostic {
	// The protocol requires a non-nil array to clear stale diagnostics.
	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		severity := protocol.DiagnosticSeverityError
		if d.Severity == diagnostic.SeverityWarning {
			severity = protocol.DiagnosticSeverityWarning
		}
		out = append(out, protocol.Diagnostic{
			Range:    toProtocolRange(d.Range),
			Severity: &severity,
			Message:  d.Message,
		})
	}
	return out
}

func toProtocolCompletionItems(items []completion.Item) []protocol.CompletionItem {
	out := make([]protocol.CompletionItem, 0, len(items))
	for _, item := range items {
		kind := toProtocolCompletionKind(item.Kind)
		entry := protocol.CompletionItem{Label: item.Label, Kind: &kind}
		if item.Detail != "" {
			detail := item.Detail
			entry.Detail = &detail
		}
		out = append(out, entry)
	}
	return out
}

func toProtocolCompletionKind(kind completion.ItemKind) protocol.CompletionItemKind {
	switch kind {
	case completion.KindSection:
		return protocol.CompletionItemKindModule
	case completion.KindProperty:
		return protocol.CompletionItemKindProperty
	case completion.KindFunction:
		return protocol.CompletionItemKindFunction
	case completion.KindReference:
		return protocol.CompletionItemKindReference
	default:
		return protocol.CompletionItemKindValue
	}
}

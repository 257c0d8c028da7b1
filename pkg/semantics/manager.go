package semantics

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/parser"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/position"
)

// Settings configures optional engine behavior.
type Settings struct {
	// EnableConstants recognizes the feature-flagged Constants section.
	EnableConstants bool
}

// ContextManager drives the positional walk and context construction for a
// live document. It holds no per-document state: every query is a pure
// function of the document snapshot and the cursor position.
type ContextManager struct {
	settings Settings
}

func NewContextManager(settings Settings) *ContextManager {
	return &ContextManager{settings: settings}
}

// ResolveContext derives the semantic context at the cursor. A position not
// covering any meaningful node yields ok=false, never an error.
func (m *ContextManager) ResolveContext(ctx context.Context, doc *parser.TemplateDocument, pos position.Place) (*Context, bool) {
	if doc == nil {
		return nil, false
	}
	res, ok := walkDocument(doc, pos)
	if !ok {
		zerolog.Ctx(ctx).Trace().
			Str("uri", doc.URI).
			Str("position", pos.String()).
			Msg("no node resolved at position")
		return nil, false
	}
	c := newContext(doc, res, m.settings.EnableConstants)
	zerolog.Ctx(ctx).Trace().
		Str("uri", doc.URI).
		Str("position", pos.String()).
		Str("section", c.Section().String()).
		Str("path", c.PropertyPath().String()).
		Msg("resolved context")
	return c, true
}

// ResolveContextWithRelatedEntities is ResolveContext for reference-aware
// callers; the related-entity closure stays unevaluated until first read.
func (m *ContextManager) ResolveContextWithRelatedEntities(ctx context.Context, doc *parser.TemplateDocument, pos position.Place) (*ContextWithRelatedEntities, bool) {
	c, ok := m.ResolveContext(ctx, doc, pos)
	if !ok {
		return nil, false
	}
	return newContextWithRelatedEntities(c), true
}

package lsp

import (
	"context"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/completion"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/diagnostic"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/docs"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/hover"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/schema"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/semantics"
	"gitlab.com/tozd/go/errors"
)

const serverName = "cfn-language-server"

// Server wires the context engine and its feature modules to the editor
// protocol.
type Server struct {
	id        string
	logger    zerolog.Logger
	documents *DocumentManager
	scanner   *WorkspaceScanner

	manager    *semantics.ContextManager
	hover      *hover.Provider
	completion *completion.Provider
	analyzer   *diagnostic.Analyzer

	workspace string
}

// Options configures a Server.
type Options struct {
	Settings semantics.Settings
	Fs       afero.Fs
	Logger   zerolog.Logger
}

func NewServer(opts Options) (*Server, error) {
	registry, err := schema.NewRegistry()
	if err != nil {
		return nil, errors.Errorf("building schema registry: %w", err)
	}
	library := docs.NewLibrary()
	manager := semantics.NewContextManager(opts.Settings)
	return &Server{
		id:         xid.New().String(),
		logger:     opts.Logger,
		documents:  NewDocumentManager(opts.Fs),
		scanner:    NewWorkspaceScanner(opts.Fs),
		manager:    manager,
		hover:      hover.NewProvider(manager, registry, library),
		completion: completion.NewProvider(manager, registry, library),
		analyzer:   diagnostic.NewAnalyzer(opts.Settings),
	}, nil
}

func (s *Server) Documents() *DocumentManager {
	return s.documents
}

// Handler builds the protocol handler backed by this server.
func (s *Server) Handler() *protocol.Handler {
	handler := &protocol.Handler{}
	handler.Initialize = func(glspCtx *glsp.Context, params *protocol.InitializeParams) (any, error) {
		if params.RootURI != nil {
			s.workspace = normalizeURI(string(*params.RootURI))
		}
		s.logger.Info().Str("id", s.id).Str("workspace", s.workspace).Msg("initializing")

		capabilities := handler.CreateServerCapabilities()
		capabilities.TextDocumentSync = protocol.TextDocumentSyncKindFull
		version := "0.1.0"
		return protocol.InitializeResult{
			Capabilities: capabilities,
			ServerInfo: &protocol.InitializeResultServerInfo{
				Name:    serverName,
				Version: &version,
			},
		}, nil
	}
	handler.Initialized = func(glspCtx *glsp.Context, params *protocol.InitializedParams) error {
		if s.workspace != "" {
			if err := s.scanner.Preload(s.ctx(), s.workspace, s.documents); err != nil {
				s.logger.Warn().Err(err).Msg("workspace preload failed")
			}
		}
		return nil
	}
	handler.Shutdown = func(glspCtx *glsp.Context) error {
		s.logger.Info().Str("id", s.id).Msg("shutting down")
		return nil
	}
	handler.SetTrace = func(glspCtx *glsp.Context, params *protocol.SetTraceParams) error {
		return nil
	}
	handler.TextDocumentDidOpen = func(glspCtx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
		doc := s.documents.Open(string(params.TextDocument.URI), params.TextDocument.Text, params.TextDocument.Version)
		s.publishDiagnostics(glspCtx, doc)
		return nil
	}
	handler.TextDocumentDidChange = func(glspCtx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
		text, ok := lastFullText(params.ContentChanges)
		if !ok {
			return nil
		}
		doc := s.documents.Update(string(params.TextDocument.URI), text, params.TextDocument.Version)
		s.publishDiagnostics(glspCtx, doc)
		return nil
	}
	handler.TextDocumentDidClose = func(glspCtx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
		s.documents.Delete(string(params.TextDocument.URI))
		return nil
	}
	handler.TextDocumentHover = func(glspCtx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
		doc, ok := s.documents.Get(string(params.TextDocument.URI))
		if !ok {
			return nil, nil
		}
		info, ok := s.hover.Hover(s.ctx(), doc.Template, fromProtocolPosition(params.Position))
		if !ok {
			return nil, nil
		}
		hoverRange := toProtocolRange(info.Range)
		return &protocol.Hover{
			Contents: protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: joinContent(info.Content),
			},
			Range: &hoverRange,
		}, nil
	}
	handler.TextDocumentCompletion = func(glspCtx *glsp.Context, params *protocol.CompletionParams) (any, error) {
		doc, ok := s.documents.Get(string(params.TextDocument.URI))
		if !ok {
			return nil, nil
		}
		items := s.completion.Complete(s.ctx(), doc.Template, fromProtocolPosition(params.Position))
		return toProtocolCompletionItems(items), nil
	}
	return handler
}

func (s *Server) ctx() context.Context {
	return s.logger.WithContext(context.Background())
}

func (s *Server) publishDiagnostics(glspCtx *glsp.Context, doc *Document) {
	diags := s.analyzer.Analyze(s.ctx(), doc.Template, doc.ParseErr)
	glspCtx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentUri(doc.URI),
		Diagnostics: toProtocolDiagnostics(diags),
	})
}

// lastFullText extracts the newest full-document text from a change batch.
// The server announces full synchronization, so incremental events only
// appear from misbehaving clients and are skipped.
func lastFullText(changes []any) (string, bool) {
	for i := len(changes) - 1; i >= 0; i-- {
		if whole, ok := changes[i].(protocol.TextDocumentContentChangeEventWhole); ok {
			return whole.Text, true
		}
	}
	return "", false
}

func joinContent(content []string) string {
	out := ""
	for i, part := range content {
		if i > 0 {
			out += "\n\n---\n\n"
		}
		out += part
	}
	return out
}

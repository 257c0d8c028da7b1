package lsp

import (
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/parser"
)

// normalizeURI ensures consistent URI handling by removing the file://
// prefix if present.
func normalizeURI(uri string) string {
	uri = strings.TrimPrefix(uri, "file://")
	uri = strings.TrimPrefix(uri, "file:")
	return uri
}

// Document is one tracked template with its latest parse snapshot. The
// snapshot is replaced wholesale on every edit; contexts issued against an
// older snapshot keep reading that snapshot.
type Document struct {
	URI      string
	Version  int32
	Template *parser.TemplateDocument
	ParseErr error
}

// DocumentManager tracks open documents and falls back to the filesystem
// for URIs the client never opened.
type DocumentManager struct {
	store *sync.Map // map[string]*Document
	fs    afero.Fs
}

func NewDocumentManager(fs afero.Fs) *DocumentManager {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &DocumentManager{store: &sync.Map{}, fs: fs}
}

// Open parses text and starts tracking the document under uri.
func (m *DocumentManager) Open(uri, text string, version int32) *Document {
	normalized := normalizeURI(uri)
	template, err := parser.Parse(normalized, text, version)
	doc := &Document{URI: normalized, Version: version, Template: template, ParseErr: err}
	m.store.Store(normalized, doc)
	return doc
}

// Update replaces the tracked snapshot for uri.
func (m *DocumentManager) Update(uri, text string, version int32) *Document {
	return m.Open(uri, text, version)
}

// Get returns the tracked document, loading it from the filesystem when
// the client never sent it.
func (m *DocumentManager) Get(uri string) (*Document, bool) {
	normalized := normalizeURI(uri)
	if cached, ok := m.store.Load(normalized); ok {
		return cached.(*Document), true
	}
	content, err := afero.ReadFile(m.fs, normalized)
	if err != nil {
		return nil, false
	}
	return m.Open(normalized, string(content), 0), true
}

// Delete stops tracking uri.
func (m *DocumentManager) Delete(uri string) {
	m.store.Delete(normalizeURI(uri))
}

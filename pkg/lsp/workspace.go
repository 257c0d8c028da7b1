package lsp

import (
	"context"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// templatePatterns matches the file names CloudFormation templates are
// commonly kept under.
var templatePatterns = []string{
	"**/*.template",
	"**/*.template.{yaml,yml,json}",
	"**/template.{yaml,yml,json}",
	"**/cloudformation/**/*.{yaml,yml,json}",
}

// WorkspaceScanner discovers template files under a workspace root so they
// can be preloaded into the document manager.
type WorkspaceScanner struct {
	fs afero.Fs
}

func NewWorkspaceScanner(fs afero.Fs) *WorkspaceScanner {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &WorkspaceScanner{fs: fs}
}

// Scan returns the workspace-relative paths of discovered templates,
// deduplicated across the patterns.
func (s *WorkspaceScanner) Scan(ctx context.Context, root string) ([]string, error) {
	base := afero.NewIOFS(afero.NewBasePathFs(s.fs, root))
	seen := map[string]bool{}
	var found []string
	for _, pattern := range templatePatterns {
		matches, err := doublestar.Glob(base, pattern)
		if err != nil {
			return nil, errors.Errorf("scanning workspace %q: %w", root, err)
		}
		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true
			found = append(found, match)
		}
	}
	zerolog.Ctx(ctx).Debug().
		Str("root", root).
		Int("templates", len(found)).
		Msg("scanned workspace")
	return found, nil
}

// Preload parses every discovered template into the manager. Parse errors
// are expected for in-progress files and are not fatal.
func (s *WorkspaceScanner) Preload(ctx context.Context, root string, manager *DocumentManager) error {
	paths, err := s.Scan(ctx, root)
	if err != nil {
		return err
	}
	for _, path := range paths {
		full := strings.TrimSuffix(root, "/") + "/" + path
		if _, ok := manager.Get(full); !ok {
			zerolog.Ctx(ctx).Warn().Str("path", full).Msg("could not preload template")
		}
	}
	return nil
}

// Package diagnostic analyzes a template document and reports problems:
// parse failures and references to logical ids that nothing defines.
package diagnostic

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/parser"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/position"
	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/semantics"
)

// Severity of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
)

// Diagnostic is one reported problem.
type Diagnostic struct {
	Range    position.Range
	Severity Severity
	Message  string
}

// Analyzer produces diagnostics for template documents.
type Analyzer struct {
	settings semantics.Settings
}

func NewAnalyzer(settings semantics.Settings) *Analyzer {
	return &Analyzer{settings: settings}
}

// Analyze reports parse failures and unresolved references. parseErr is
// the error returned by the parser for this snapshot, nil when it parsed.
func (a *Analyzer) Analyze(ctx context.Context, doc *parser.TemplateDocument, parseErr error) []Diagnostic {
	var out []Diagnostic
	if parseErr != nil {
		out = append(out, Diagnostic{
			Range:    position.PointRange(position.NewPlace(0, 0)),
			Severity: SeverityError,
			Message:  fmt.Sprintf("template does not parse: %v", parseErr),
		})
	}
	if doc == nil || doc.Root == nil {
		return out
	}
	out = append(out, a.unresolvedReferences(doc)...)
	zerolog.Ctx(ctx).Debug().
		Str("uri", doc.URI).
		Int("count", len(out)).
		Msg("analyzed document")
	return out
}

// unresolvedReferences scans every entity in the identifier-keyed sections
// and reports referenced ids with no definition anywhere. Pseudo
// parameters were already excluded by the reference scan.
func (a *Analyzer) unresolvedReferences(doc *parser.TemplateDocument) []Diagnostic {
	defined := map[string]bool{}
	definingSections := []semantics.Section{
		semantics.SectionParameters,
		semantics.SectionMappings,
		semantics.SectionConditions,
		semantics.SectionResources,
	}
	if a.settings.EnableConstants {
		definingSections = append(definingSections, semantics.SectionConstants)
	}
	for _, section := range definingSections {
		for id := range doc.EntityRoots(string(section)) {
			defined[id] = true
		}
	}

	var out []Diagnostic
	for _, section := range []semantics.Section{
		semantics.SectionConditions,
		semantics.SectionResources,
		semantics.SectionOutputs,
	} {
		roots := doc.EntityRoots(string(section))
		ids := make([]string, 0, len(roots))
		for id := range roots {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			root := roots[id]
			for _, referenced := range semantics.FindReferencedIDs(root, id, semantics.SearchEntireEntity) {
				if defined[referenced] {
					continue
				}
				at := position.PointRange(position.NewPlace(0, 0))
				if root != nil {
					at = root.Range
				}
				out = append(out, Diagnostic{
					Range:    at,
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("%s references %q, which is not defined in this template", id, referenced),
				})
			}
		}
	}
	return out
}

// Validate flattens the diagnostics for a document into a single error,
// nil when the template is clean. Callers that only need pass/fail use
// this instead of walking the slice.
func (a *Analyzer) Validate(ctx context.Context, doc *parser.TemplateDocument, parseErr error) error {
	var result *multierror.Error
	for _, d := range a.Analyze(ctx, doc, parseErr) {
		result = multierror.Append(result, fmt.Errorf("%s: %s", d.Range.Start, d.Message))
	}
	return result.ErrorOrNil()
}

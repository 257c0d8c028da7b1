package semantics

import (
	"regexp"
	"sort"
	"strings"

	"github.com/aws-cloudformation/cloudformation-languageserver-sub005/pkg/parser"
)

// SearchMode selects how much of an entity a reference scan covers.
type SearchMode int

const (
	// SearchEntireEntity scans everything an entity declares, including the
	// reserved attributes (DependsOn, the Condition attribute) that
	// reference other logical ids without spelling a function.
	SearchEntireEntity SearchMode = iota
	// SearchSubtree scans only function-style references inside the given
	// subtree.
	SearchSubtree
)

// subRefPattern matches ${Name} substitutions. ${!literal} escapes are not
// references.
var subRefPattern = regexp.MustCompile(`\$\{([^!}][^}]*)\}`)

// FindReferencedIDs scans a subtree for every reference-style construct in
// both spellings and returns the distinct referenced logical identifiers,
// sorted, with selfID excluded.
func FindReferencedIDs(root *parser.Node, selfID string, mode SearchMode) []string {
	if root == nil {
		return nil
	}
	seen := make(map[string]bool)
	root.Walk(func(n *parser.Node) bool {
		collectNodeRefs(n, mode, seen)
		return true
	})
	delete(seen, selfID)
	delete(seen, "")
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func collectNodeRefs(n *parser.Node, mode SearchMode, seen map[string]bool) {
	if n.Tag != "" {
		if t, ok := shortForms[n.Tag]; ok {
			collectFunctionRefs(t, n, seen)
		}
	}
	if n.Kind != parser.KindMappingPair || n.Key == nil {
		return
	}
	key := n.Key.Text()
	if t, ok := longForms[key]; ok {
		// The Condition key doubles as a resource attribute. The function
		// form is always a single-key mapping {Condition: Name}; the
		// attribute sits among siblings and is only picked up by the
		// whole-entity scan.
		if t == IntrinsicCondition && !isSingleKeyMapping(n.Parent) && mode != SearchEntireEntity {
			return
		}
		collectFunctionRefs(t, n.Val, seen)
		return
	}
	if mode == SearchEntireEntity && key == "DependsOn" {
		for _, id := range scalarList(n.Val) {
			seen[id] = true
		}
	}
}

func isSingleKeyMapping(n *parser.Node) bool {
	return n.IsMapping() && len(n.Children) == 1
}

func collectFunctionRefs(t IntrinsicType, args *parser.Node, seen map[string]bool) {
	if args == nil {
		return
	}
	switch t {
	case IntrinsicRef, IntrinsicCondition, IntrinsicRefAll:
		addRef(seen, args.Text())
	case IntrinsicGetAtt, IntrinsicValueOf:
		if args.IsSequence() {
			if len(args.Children) > 0 {
				addRef(seen, args.Children[0].Text())
			}
			return
		}
		addRef(seen, args.Text())
	case IntrinsicFindInMap:
		if args.IsSequence() && len(args.Children) > 0 {
			addRef(seen, args.Children[0].Text())
		}
	case IntrinsicIf:
		if args.IsSequence() && len(args.Children) > 0 {
			addRef(seen, args.Children[0].Text())
		}
	case IntrinsicSub:
		template := args
		if args.IsSequence() && len(args.Children) > 0 {
			template = args.Children[0]
		}
		if template.IsScalar() {
			for _, match := range subRefPattern.FindAllStringSubmatch(template.Value, -1) {
				addRef(seen, match[1])
			}
		}
	}
}

// addRef records one referenced identifier. Pseudo parameters are platform
// values, not logical ids; dotted names reference the part before the dot.
func addRef(seen map[string]bool, name string) {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, "AWS::") {
		return
	}
	if dot := strings.IndexByte(name, '.'); dot >= 0 {
		name = name[:dot]
	}
	if name != "" {
		seen[name] = true
	}
}

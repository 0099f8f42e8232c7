package tree

import (
	"fmt"
	"strings"

	"github.com/vango-dev/navstate/pkg/guard"
	"github.com/vango-dev/navstate/pkg/params"
)

type segmentKind int

const (
	segLiteral segmentKind = iota
	segParam
	segSplat
)

// segment is one compiled path token, produced by compileSegments.
type segment struct {
	kind    segmentKind
	literal string // segLiteral
	name    string // segParam / segSplat
}

// node is a single compiled path token in the tree. A route whose path
// has N tokens occupies a chain of N nodes (or, for a zero-token path
// such as "/", the synthetic empty-literal child of its parent); only
// the last node in the chain is "registered" and carries the route's
// name and metadata. Intermediate nodes exist purely to share prefixes
// between sibling routes, e.g. "/users" and "/users/:id" both pass
// through a "users" node.
type node struct {
	kind  segmentKind
	token string // literal text, or the param/splat name

	parent *node

	// registered is true iff this node is the terminal node of some
	// route definition; fullName and the route-level fields below are
	// only meaningful when registered is true.
	registered bool
	fullName   string

	staticChildren  map[string]*node
	dynamicChildren []*node // param and splat children, declaration order

	declaredQuery map[string]bool
	defaultParams params.Params
	encodeParams  func(params.Params) params.Params
	decodeParams  func(params.Params) params.Params

	forwardTo any

	canActivate   guard.Factory
	canDeactivate guard.Factory

	meta map[string]any
}

func newNode(kind segmentKind, token string, parent *node) *node {
	return &node{
		kind:           kind,
		token:          token,
		parent:         parent,
		staticChildren: make(map[string]*node),
	}
}

// compileSegments parses a path pattern into a segment sequence and its
// declared query-param set. "?" introduces the query declaration, e.g.
// "/users/:id?tab&sort".
func compileSegments(path string) ([]segment, map[string]bool, error) {
	pathPart := path
	declared := map[string]bool{}
	if idx := strings.IndexByte(path, '?'); idx >= 0 {
		pathPart = path[:idx]
		query := path[idx+1:]
		if query != "" {
			for _, k := range strings.Split(query, "&") {
				if k == "" {
					continue
				}
				declared[k] = true
			}
		}
	}

	trimmed := strings.Trim(pathPart, "/")
	if trimmed == "" {
		return nil, declared, nil
	}

	tokens := strings.Split(trimmed, "/")
	segs := make([]segment, 0, len(tokens))
	for i, tok := range tokens {
		switch {
		case strings.HasPrefix(tok, "*"):
			if i != len(tokens)-1 {
				return nil, nil, fmt.Errorf("splat segment %q must be the last path segment", tok)
			}
			segs = append(segs, segment{kind: segSplat, name: tok[1:]})
		case strings.HasPrefix(tok, ":"):
			segs = append(segs, segment{kind: segParam, name: tok[1:]})
		default:
			segs = append(segs, segment{kind: segLiteral, literal: tok})
		}
	}
	return segs, declared, nil
}

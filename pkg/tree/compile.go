package tree

import (
	"fmt"
	"strings"

	"github.com/vango-dev/navstate/pkg/cache"
	"github.com/vango-dev/navstate/pkg/params"
	"github.com/vango-dev/navstate/pkg/state"
)

// Tree is the compiled, queryable route namespace.
type Tree struct {
	opts Options

	root   *node
	byName map[string]*node

	matchCache *cache.LRU[string, MatchResult]
	segCache   *cache.Single[[2]string, state.Segments]
}

// Compile builds a Tree from a forest of route definitions (conventionally
// rooted at a single implicit root; callers pass the top-level route
// list the way routes are declared).
func Compile(routes []RouteDef, opts Options) (*Tree, error) {
	if opts.MatchCacheSize <= 0 {
		opts.MatchCacheSize = 500
	}
	t := &Tree{
		opts:       opts,
		root:       newNode(segLiteral, "", nil),
		byName:     make(map[string]*node),
		matchCache: cache.NewLRU[string, MatchResult](opts.MatchCacheSize),
		segCache:   cache.NewSingle[[2]string, state.Segments](),
	}
	for _, r := range routes {
		if err := t.addRoute(t.root, "", r); err != nil {
			return nil, err
		}
	}
	if err := t.validateForwarding(); err != nil {
		return nil, err
	}
	return t, nil
}

// Replace rebuilds the tree in place from a fresh route forest,
// preserving nothing from the previous tree. Callers that need to keep
// externally-registered guards across a replace do so through the
// lifecycle registry, not through the tree.
func (t *Tree) Replace(routes []RouteDef) error {
	fresh, err := Compile(routes, t.opts)
	if err != nil {
		return err
	}
	t.root = fresh.root
	t.byName = fresh.byName
	t.matchCache.Purge()
	t.segCache.Reset()
	return nil
}

// addRoute walks def's compiled path token by token from parent,
// creating or reusing intermediate nodes along the way, and marks the
// final node in the chain as registered under parentName.def.Name. A
// zero-token path (def.Path is "/" or "") registers on the parent's
// synthetic empty-literal child, the tree's index-route convention.
func (t *Tree) addRoute(parent *node, parentName string, def RouteDef) error {
	if def.Name == "" {
		return fmt.Errorf("route name must not be empty")
	}
	if strings.Contains(def.Name, ".") {
		return fmt.Errorf("route name %q must not contain '.': dots are reserved for path assembly", def.Name)
	}
	full := def.Name
	if parentName != "" {
		full = parentName + "." + def.Name
	}
	if _, exists := t.byName[full]; exists {
		return fmt.Errorf("duplicate route name %q", full)
	}

	segs, declared, err := compileSegments(def.Path)
	if err != nil {
		return fmt.Errorf("route %q: %w", full, err)
	}

	cur := parent
	if len(segs) == 0 {
		child, err := t.descend(cur, segment{kind: segLiteral, literal: ""})
		if err != nil {
			return fmt.Errorf("route %q: %w", full, err)
		}
		cur = child
	} else {
		for _, s := range segs {
			child, err := t.descend(cur, s)
			if err != nil {
				return fmt.Errorf("route %q: %w", full, err)
			}
			cur = child
		}
	}

	if cur.registered {
		return fmt.Errorf("route %q: path collides with an existing route", full)
	}
	cur.registered = true
	cur.fullName = full
	cur.declaredQuery = declared
	parentDefaults := params.Params{}
	if parent != nil {
		parentDefaults = parent.defaultParams
	}
	cur.defaultParams = params.Merge(parentDefaults, def.DefaultParams)
	cur.encodeParams = def.EncodeParams
	cur.decodeParams = def.DecodeParams
	cur.forwardTo = def.ForwardTo
	cur.canActivate = def.CanActivate
	cur.canDeactivate = def.CanDeactivate
	cur.meta = def.Meta

	t.byName[full] = cur

	for _, child := range def.Children {
		if err := t.addRoute(cur, full, child); err != nil {
			return err
		}
	}
	return nil
}

// descend returns parent's child for s, creating it if this is the
// first route to pass through that token. Sibling routes sharing a
// path prefix (e.g. "/users" and "/users/:id") reuse the same
// intermediate node.
func (t *Tree) descend(parent *node, s segment) (*node, error) {
	switch s.kind {
	case segLiteral:
		key := s.literal
		if !t.opts.CaseSensitive {
			key = strings.ToLower(key)
		}
		if child, ok := parent.staticChildren[key]; ok {
			return child, nil
		}
		child := newNode(segLiteral, s.literal, parent)
		parent.staticChildren[key] = child
		return child, nil
	case segParam, segSplat:
		for _, child := range parent.dynamicChildren {
			if child.kind == s.kind && child.token == s.name {
				return child, nil
			}
		}
		child := newNode(s.kind, s.name, parent)
		parent.dynamicChildren = append(parent.dynamicChildren, child)
		return child, nil
	default:
		return nil, fmt.Errorf("unknown segment kind")
	}
}

// maxForwardDepth bounds forwarding-chain cycle detection: the tree can
// never legitimately need to hop through more links than it has nodes,
// plus a small constant for safety margin.
func (t *Tree) maxForwardDepth() int {
	return len(t.byName) + 8
}

func (t *Tree) validateForwarding() error {
	for name, n := range t.byName {
		if n.forwardTo == nil {
			continue
		}
		visited := map[string]bool{name: true}
		cur := n
		depth := 0
		for cur.forwardTo != nil {
			depth++
			if depth > t.maxForwardDepth() {
				return fmt.Errorf("route %q: forwardTo cycle detected", name)
			}
			targetName, ok := cur.forwardTo.(string)
			if !ok {
				// Callback-form forwardTo is resolved dynamically; static
				// validation can only check the literal-target form.
				break
			}
			if visited[targetName] {
				return fmt.Errorf("route %q: forwardTo cycle detected at %q", name, targetName)
			}
			visited[targetName] = true
			next, ok := t.byName[targetName]
			if !ok {
				return fmt.Errorf("route %q: forwardTo target %q does not exist", name, targetName)
			}
			cur = next
		}
	}
	return nil
}

// Has reports whether name is a known route.
func (t *Tree) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Names returns every registered route's full name, in no particular
// order. Callers that need a stable order should sort the result.
func (t *Tree) Names() []string {
	names := make([]string, 0, len(t.byName))
	for name := range t.byName {
		names = append(names, name)
	}
	return names
}

// Get returns the route definition fields the tree retained for name.
func (t *Tree) Get(name string) (RouteDef, bool) {
	n, ok := t.byName[name]
	if !ok {
		return RouteDef{}, false
	}
	return RouteDef{
		Name:          lastSegment(n.fullName),
		ForwardTo:     n.forwardTo,
		CanActivate:   n.canActivate,
		CanDeactivate: n.canDeactivate,
		DefaultParams: n.defaultParams,
		EncodeParams:  n.encodeParams,
		DecodeParams:  n.decodeParams,
		Meta:          n.meta,
	}, true
}

func lastSegment(full string) string {
	if idx := strings.LastIndexByte(full, '.'); idx >= 0 {
		return full[idx+1:]
	}
	return full
}

// Ancestors returns the dot-joined full names of name's ancestor chain,
// root-to-leaf inclusive of name itself. It is an alias for NameToIDs
// kept for callers that want tree-domain language.
func (t *Tree) Ancestors(name string) []string {
	return NameToIDs(name)
}

package tree

import (
	"net/url"
	"strings"

	"github.com/vango-dev/navstate/pkg/guard"
	"github.com/vango-dev/navstate/pkg/params"
	"github.com/vango-dev/navstate/internal/rerr"
)

// MatchPath turns a URL (already stripped of any configured root prefix
// by the caller) into a MatchResult. Forwarding is resolved before
// returning, so the result always names the final, non-forwarding
// destination route.
func (t *Tree) MatchPath(raw string, deps guard.Deps) (*MatchResult, error) {
	if cached, ok := t.matchCache.Get(raw); ok {
		return &cached, nil
	}

	pathPart, rawQuery := splitPathQuery(raw)
	segs := splitURLPath(pathPart)

	n, matchedParams, ok := t.matchNode(t.root, segs)
	if !ok {
		if t.opts.AllowNotFound {
			result := MatchResult{
				Name:   UnknownRouteName,
				Params: params.Params{"path": raw},
				Path:   raw,
			}
			t.matchCache.Set(raw, result)
			return &result, nil
		}
		return nil, rerr.New(rerr.RouteNotFound).WithPath(raw)
	}

	query, err := t.parseQuery(n, rawQuery)
	if err != nil {
		return nil, err
	}
	for k, v := range query {
		matchedParams[k] = v
	}

	if n.decodeParams != nil {
		matchedParams = n.decodeParams(matchedParams)
	}
	finalParams := params.Merge(n.defaultParams, matchedParams)

	finalName, finalParams, err := t.ResolveForward(n.fullName, finalParams, deps)
	if err != nil {
		return nil, err
	}

	builtPath, err := t.BuildPath(finalName, finalParams)
	if err != nil {
		// Forwarding landed on a route that cannot rebuild a path from
		// these params; surface the original input instead of failing
		// the whole match.
		builtPath = raw
	}

	result := MatchResult{Name: finalName, Params: finalParams, Path: builtPath}
	t.matchCache.Set(raw, result)
	return &result, nil
}

// UnknownRouteName is the reserved route name produced when AllowNotFound
// is set and no route matches.
const UnknownRouteName = "@@router/UNKNOWN_ROUTE"

func splitPathQuery(raw string) (path, query string) {
	if idx := strings.IndexByte(raw, '?'); idx >= 0 {
		return raw[:idx], raw[idx+1:]
	}
	return raw, ""
}

func splitURLPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// matchNode walks segs against n's subtree, trying the literal child
// first, then param children (declaration order), then a splat child —
// the tie-break order the spec requires. It recurses one path token at
// a time; a route occupies a chain of nodes, and only the last node in
// a route's chain is registered. When the path is used up, a registered
// index child (empty literal) wins over the node itself.
func (t *Tree) matchNode(n *node, segs []string) (*node, params.Params, bool) {
	if len(segs) == 0 {
		if idx, ok := n.staticChildren[""]; ok && idx.registered {
			return idx, params.Params{}, true
		}
		if n.registered {
			return n, params.Params{}, true
		}
		return nil, nil, false
	}

	tok := segs[0]
	rest := segs[1:]

	lookupTok := tok
	if !t.opts.CaseSensitive {
		lookupTok = strings.ToLower(tok)
	}
	if child, ok := n.staticChildren[lookupTok]; ok {
		if found, p, ok := t.matchNode(child, rest); ok {
			return found, p, true
		}
	}

	for _, child := range n.dynamicChildren {
		if child.kind != segParam {
			continue
		}
		found, p, ok := t.matchNode(child, rest)
		if ok {
			p[child.token] = tok
			return found, p, true
		}
	}

	for _, child := range n.dynamicChildren {
		if child.kind != segSplat {
			continue
		}
		if !child.registered {
			continue
		}
		p := params.Params{child.token: strings.Join(segs, "/")}
		return child, p, true
	}

	return nil, nil, false
}

func (t *Tree) parseQuery(n *node, raw string) (params.Params, error) {
	out := params.Params{}
	if raw == "" {
		return out, nil
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, rerr.Newf(rerr.InvalidParams, "invalid query string: %v", err).WithCause(err)
	}
	for k, v := range values {
		declared := n.declaredQuery[k]
		if t.opts.QueryParamsMode == QueryParamsStrict && !declared {
			return nil, rerr.Newf(rerr.InvalidParams, "undeclared query parameter %q", k)
		}
		if t.opts.QueryParamsMode != QueryParamsLoose && !declared {
			// "default" keeps only declared query keys; "loose" keeps
			// every key the URL carried.
			continue
		}
		if len(v) == 1 {
			out[k] = v[0]
		} else {
			vals := make([]any, len(v))
			for i, s := range v {
				vals[i] = s
			}
			out[k] = vals
		}
	}
	return out, nil
}

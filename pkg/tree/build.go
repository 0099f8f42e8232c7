package tree

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/vango-dev/navstate/pkg/params"
	"github.com/vango-dev/navstate/internal/rerr"
)

// BuildPath renders name's path with p substituted for its param and
// splat tokens, honoring the tree's trailing-slash and
// URL-param-encoding options. Only query keys the route declares are
// serialized; the query-params mode is not consulted. Missing required
// params are reported as InvalidParams; unknown route names as
// RouteNotFound.
func (t *Tree) BuildPath(name string, p params.Params) (string, error) {
	n, ok := t.byName[name]
	if !ok {
		return "", rerr.New(rerr.RouteNotFound).WithName(name)
	}

	chain := ancestorChain(n)

	var b strings.Builder
	consumed := map[string]bool{}
	for _, step := range chain {
		switch step.kind {
		case segLiteral:
			if step.token == "" {
				continue
			}
			b.WriteByte('/')
			b.WriteString(step.token)
		case segParam:
			v, ok := p[step.token]
			if !ok {
				return "", rerr.Newf(rerr.InvalidParams, "missing required param %q for route %q", step.token, name).WithName(name)
			}
			consumed[step.token] = true
			b.WriteByte('/')
			b.WriteString(encodeParamValue(t.opts.URLParamsEncoding, v))
		case segSplat:
			v, ok := p[step.token]
			if !ok {
				return "", rerr.Newf(rerr.InvalidParams, "missing required splat param %q for route %q", step.token, name).WithName(name)
			}
			consumed[step.token] = true
			b.WriteByte('/')
			b.WriteString(fmt.Sprint(v))
		}
	}

	path := b.String()
	if path == "" {
		path = "/"
	}

	switch t.opts.TrailingSlash {
	case TrailingSlashAlways:
		if !strings.HasSuffix(path, "/") {
			path += "/"
		}
	case TrailingSlashNever:
		if len(path) > 1 && strings.HasSuffix(path, "/") {
			path = strings.TrimRight(path, "/")
		}
	}

	query := buildQuery(n, p, consumed)
	if query != "" {
		path += "?" + query
	}
	return path, nil
}

// ancestorChain walks parent pointers from n back to the root,
// returning the token chain root-first.
func ancestorChain(n *node) []*node {
	var chain []*node
	for cur := n; cur != nil && cur.parent != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

func encodeParamValue(mode URLParamsEncoding, v any) string {
	s := fmt.Sprint(v)
	switch mode {
	case EncodingNone:
		return s
	default:
		return url.PathEscape(s)
	}
}

// buildQuery serializes the declared query params present in p (and not
// already consumed as path tokens) in a stable, sorted order.
func buildQuery(n *node, p params.Params, consumed map[string]bool) string {
	if len(n.declaredQuery) == 0 {
		return ""
	}
	keys := make([]string, 0, len(n.declaredQuery))
	for k := range n.declaredQuery {
		if consumed[k] {
			continue
		}
		if _, ok := p[k]; ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	vals := url.Values{}
	for _, k := range keys {
		vals.Set(k, fmt.Sprint(p[k]))
	}
	return vals.Encode()
}

package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vango-dev/navstate/pkg/params"
	"github.com/vango-dev/navstate/pkg/tree"
)

// route is the wire shape of a single manifest entry. ForwardTo is a
// plain string: a manifest cannot express a ForwardFunc, only a
// static alias.
type route struct {
	Name          string         `json:"name"`
	Path          string         `json:"path"`
	ForwardTo     string         `json:"forwardTo,omitempty"`
	DefaultParams map[string]any `json:"defaultParams,omitempty"`
	Children      []route        `json:"children,omitempty"`
}

func (r route) toRouteDef() tree.RouteDef {
	def := tree.RouteDef{
		Name:          r.Name,
		Path:          r.Path,
		DefaultParams: params.Params(r.DefaultParams),
	}
	if r.ForwardTo != "" {
		def.ForwardTo = r.ForwardTo
	}
	for _, child := range r.Children {
		def.Children = append(def.Children, child.toRouteDef())
	}
	return def
}

func decode(r io.Reader) ([]tree.RouteDef, error) {
	var routes []route
	if err := json.NewDecoder(r).Decode(&routes); err != nil {
		return nil, fmt.Errorf("manifest: decode: %w", err)
	}
	defs := make([]tree.RouteDef, 0, len(routes))
	for _, r := range routes {
		defs = append(defs, r.toRouteDef())
	}
	return defs, nil
}

// LoadFile reads and decodes a route manifest from a local JSON file.
func LoadFile(path string) ([]tree.RouteDef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", path, err)
	}
	defer f.Close()
	return decode(f)
}


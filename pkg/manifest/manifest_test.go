package manifest_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/vango-dev/navstate/pkg/manifest"
	"github.com/vango-dev/navstate/pkg/tree"
)

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "routes.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadFileDecodesFlatRoutes(t *testing.T) {
	path := writeManifest(t, `[
		{"name": "home", "path": "/"},
		{"name": "legacy", "path": "/old", "forwardTo": "home"}
	]`)

	routes, err := manifest.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(routes) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(routes))
	}
	if routes[1].ForwardTo != "home" {
		t.Fatalf("expected legacy to forward to home, got %v", routes[1].ForwardTo)
	}
}

func TestLoadFileDecodesNestedRoutesAndDefaultParams(t *testing.T) {
	path := writeManifest(t, `[
		{
			"name": "users",
			"path": "/users",
			"children": [
				{"name": "view", "path": "/view/:id", "defaultParams": {"tab": "overview"}}
			]
		}
	]`)

	routes, err := manifest.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(routes) != 1 || len(routes[0].Children) != 1 {
		t.Fatalf("expected one top-level route with one child, got %+v", routes)
	}
	child := routes[0].Children[0]
	if child.DefaultParams["tab"] != "overview" {
		t.Fatalf("expected default param tab=overview, got %v", child.DefaultParams)
	}
}

func TestLoadFileRoutesCompile(t *testing.T) {
	path := writeManifest(t, `[{"name": "home", "path": "/"}]`)

	routes, err := manifest.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if _, err := tree.Compile(routes, tree.DefaultOptions()); err != nil {
		t.Fatalf("compiled manifest routes should be valid: %v", err)
	}
}

func TestLoadFileMissingFile(t *testing.T) {
	if _, err := manifest.LoadFile("/nonexistent/routes.json"); err == nil {
		t.Fatal("expected an error for a missing manifest file")
	}
}

func TestLoadFileInvalidJSON(t *testing.T) {
	path := writeManifest(t, `not json`)
	if _, err := manifest.LoadFile(path); err == nil {
		t.Fatal("expected an error for invalid JSON")
	}
}

func TestManifestRoundTripsJSONShape(t *testing.T) {
	// Guard against accidental field-tag drift: re-marshal the decoded
	// default params and confirm they still look like the source object.
	path := writeManifest(t, `[{"name": "home", "path": "/", "defaultParams": {"lang": "en"}}]`)
	routes, err := manifest.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	data, err := json.Marshal(routes[0].DefaultParams)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"lang":"en"}` {
		t.Fatalf("unexpected round-trip: %s", data)
	}
}

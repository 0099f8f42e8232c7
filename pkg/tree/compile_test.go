package tree

import "testing"

func mustCompile(t *testing.T, routes []RouteDef, opts Options) *Tree {
	t.Helper()
	tr, err := Compile(routes, opts)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return tr
}

func TestCompileRejectsDottedName(t *testing.T) {
	_, err := Compile([]RouteDef{{Name: "a.b", Path: "/a"}}, DefaultOptions())
	if err == nil {
		t.Fatal("expected error for dotted route name")
	}
}

func TestCompileRejectsDuplicateName(t *testing.T) {
	routes := []RouteDef{
		{Name: "users", Path: "/users"},
		{Name: "users", Path: "/other"},
	}
	if _, err := Compile(routes, DefaultOptions()); err == nil {
		t.Fatal("expected error for duplicate route name")
	}
}

func TestCompileSharesPrefixNodes(t *testing.T) {
	routes := []RouteDef{
		{Name: "users", Path: "/users", Children: []RouteDef{
			{Name: "view", Path: "/:id"},
			{Name: "edit", Path: "/:id/edit"},
		}},
	}
	tr := mustCompile(t, routes, DefaultOptions())
	if !tr.Has("users.view") || !tr.Has("users.edit") {
		t.Fatal("expected both children registered")
	}
}

func TestCompileRejectsSplatNotLast(t *testing.T) {
	routes := []RouteDef{{Name: "bad", Path: "/*rest/more"}}
	if _, err := Compile(routes, DefaultOptions()); err == nil {
		t.Fatal("expected error for non-terminal splat segment")
	}
}

func TestCompileIndexRoute(t *testing.T) {
	routes := []RouteDef{
		{Name: "home", Path: "/"},
		{Name: "users", Path: "/users", Children: []RouteDef{
			{Name: "index", Path: "/"},
		}},
	}
	tr := mustCompile(t, routes, DefaultOptions())
	if !tr.Has("home") || !tr.Has("users.index") {
		t.Fatal("expected index routes registered")
	}
}

func TestCompileForwardCycleDetected(t *testing.T) {
	routes := []RouteDef{
		{Name: "a", Path: "/a", ForwardTo: "b"},
		{Name: "b", Path: "/b", ForwardTo: "a"},
	}
	if _, err := Compile(routes, DefaultOptions()); err == nil {
		t.Fatal("expected forwardTo cycle to be rejected at compile time")
	}
}

func TestCompileForwardMissingTarget(t *testing.T) {
	routes := []RouteDef{{Name: "a", Path: "/a", ForwardTo: "missing"}}
	if _, err := Compile(routes, DefaultOptions()); err == nil {
		t.Fatal("expected error for forwardTo target that does not exist")
	}
}

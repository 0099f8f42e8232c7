package tree

import "testing"

type mapDeps map[string]any

func (d mapDeps) Get(key string) (any, bool) {
	v, ok := d[key]
	return v, ok
}

func testRoutes() []RouteDef {
	return []RouteDef{
		{Name: "home", Path: "/"},
		{Name: "users", Path: "/users", Children: []RouteDef{
			{Name: "index", Path: "/"},
			{Name: "view", Path: "/:id"},
			{Name: "new", Path: "/new"},
		}},
		{Name: "files", Path: "/files", Children: []RouteDef{
			{Name: "all", Path: "/*rest"},
		}},
		{Name: "legacy", Path: "/old", ForwardTo: "home"},
	}
}

func TestMatchLiteralBeatsParam(t *testing.T) {
	tr := mustCompile(t, testRoutes(), DefaultOptions())
	res, err := tr.MatchPath("/users/new", mapDeps{})
	if err != nil {
		t.Fatalf("MatchPath: %v", err)
	}
	if res.Name != "users.new" {
		t.Fatalf("expected users.new to win over users.view, got %q", res.Name)
	}
}

func TestMatchParam(t *testing.T) {
	tr := mustCompile(t, testRoutes(), DefaultOptions())
	res, err := tr.MatchPath("/users/42", mapDeps{})
	if err != nil {
		t.Fatalf("MatchPath: %v", err)
	}
	if res.Name != "users.view" || res.Params["id"] != "42" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestMatchSplatConsumesRemainder(t *testing.T) {
	tr := mustCompile(t, testRoutes(), DefaultOptions())
	res, err := tr.MatchPath("/files/a/b/c", mapDeps{})
	if err != nil {
		t.Fatalf("MatchPath: %v", err)
	}
	if res.Name != "files.all" || res.Params["rest"] != "a/b/c" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestMatchIndexRoute(t *testing.T) {
	tr := mustCompile(t, testRoutes(), DefaultOptions())
	res, err := tr.MatchPath("/users", mapDeps{})
	if err != nil {
		t.Fatalf("MatchPath: %v", err)
	}
	if res.Name != "users.index" {
		t.Fatalf("expected users.index, got %q", res.Name)
	}
}

func TestMatchHomeRoute(t *testing.T) {
	tr := mustCompile(t, testRoutes(), DefaultOptions())
	res, err := tr.MatchPath("/", mapDeps{})
	if err != nil {
		t.Fatalf("MatchPath: %v", err)
	}
	if res.Name != "home" {
		t.Fatalf("expected home, got %q", res.Name)
	}
}

func TestMatchNotFound(t *testing.T) {
	tr := mustCompile(t, testRoutes(), DefaultOptions())
	if _, err := tr.MatchPath("/nope", mapDeps{}); err == nil {
		t.Fatal("expected RouteNotFound error")
	}
}

func TestMatchAllowNotFound(t *testing.T) {
	opts := DefaultOptions()
	opts.AllowNotFound = true
	tr := mustCompile(t, testRoutes(), opts)
	res, err := tr.MatchPath("/nope", mapDeps{})
	if err != nil {
		t.Fatalf("MatchPath: %v", err)
	}
	if res.Name != UnknownRouteName {
		t.Fatalf("expected unknown route sentinel, got %q", res.Name)
	}
}

func TestMatchResolvesForwarding(t *testing.T) {
	tr := mustCompile(t, testRoutes(), DefaultOptions())
	res, err := tr.MatchPath("/old", mapDeps{})
	if err != nil {
		t.Fatalf("MatchPath: %v", err)
	}
	if res.Name != "home" {
		t.Fatalf("expected forwardTo to resolve to home, got %q", res.Name)
	}
}

func TestMatchCaseInsensitiveByDefault(t *testing.T) {
	tr := mustCompile(t, testRoutes(), DefaultOptions())
	res, err := tr.MatchPath("/Users/New", mapDeps{})
	if err != nil {
		t.Fatalf("MatchPath: %v", err)
	}
	if res.Name != "users.new" {
		t.Fatalf("expected case-insensitive match, got %q", res.Name)
	}
}

func TestMatchQueryModes(t *testing.T) {
	routes := []RouteDef{{Name: "search", Path: "/search?q"}}

	def := mustCompile(t, routes, DefaultOptions())
	res, err := def.MatchPath("/search?q=go&extra=1", mapDeps{})
	if err != nil {
		t.Fatalf("MatchPath: %v", err)
	}
	if _, ok := res.Params["extra"]; ok {
		t.Fatal("default mode should drop undeclared query keys")
	}
	if res.Params["q"] != "go" {
		t.Fatalf("expected declared query key kept, got %+v", res.Params)
	}

	looseOpts := DefaultOptions()
	looseOpts.QueryParamsMode = QueryParamsLoose
	loose := mustCompile(t, routes, looseOpts)
	res, err = loose.MatchPath("/search?q=go&extra=1", mapDeps{})
	if err != nil {
		t.Fatalf("MatchPath: %v", err)
	}
	if res.Params["extra"] != "1" {
		t.Fatalf("loose mode should keep undeclared query keys, got %+v", res.Params)
	}

	strictOpts := DefaultOptions()
	strictOpts.QueryParamsMode = QueryParamsStrict
	strict := mustCompile(t, routes, strictOpts)
	if _, err := strict.MatchPath("/search?q=go&extra=1", mapDeps{}); err == nil {
		t.Fatal("strict mode should reject undeclared query keys")
	}
}

func TestMatchCacheReused(t *testing.T) {
	tr := mustCompile(t, testRoutes(), DefaultOptions())
	first, err := tr.MatchPath("/users/42", mapDeps{})
	if err != nil {
		t.Fatalf("MatchPath: %v", err)
	}
	second, err := tr.MatchPath("/users/42", mapDeps{})
	if err != nil {
		t.Fatalf("MatchPath: %v", err)
	}
	if first.Name != second.Name || first.Params["id"] != second.Params["id"] {
		t.Fatalf("expected cached match to agree: %+v vs %+v", first, second)
	}
}

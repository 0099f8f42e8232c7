package tree

import "testing"

func TestReplaceSwapsRoutesAndPurgesCaches(t *testing.T) {
	tr := mustCompile(t, testRoutes(), DefaultOptions())
	if _, err := tr.MatchPath("/users/42", mapDeps{}); err != nil {
		t.Fatalf("MatchPath: %v", err)
	}

	if err := tr.Replace([]RouteDef{{Name: "only", Path: "/only"}}); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	if tr.Has("users.view") {
		t.Fatal("expected old routes gone after Replace")
	}
	if !tr.Has("only") {
		t.Fatal("expected new route present after Replace")
	}
	if _, err := tr.MatchPath("/users/42", mapDeps{}); err == nil {
		t.Fatal("expected stale cached match to be purged by Replace")
	}
}

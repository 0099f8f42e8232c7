package tree

import (
	"reflect"
	"testing"
)

func TestSegmentPathPartition(t *testing.T) {
	tr := mustCompile(t, testRoutes(), DefaultOptions())

	seg := tr.SegmentPath("users.view", "users.new")
	if seg.Intersection != "users" {
		t.Fatalf("expected intersection users, got %q", seg.Intersection)
	}
	if !reflect.DeepEqual(seg.Deactivated, []string{"users.view"}) {
		t.Fatalf("unexpected deactivated: %v", seg.Deactivated)
	}
	if !reflect.DeepEqual(seg.Activated, []string{"users.new"}) {
		t.Fatalf("unexpected activated: %v", seg.Activated)
	}
}

func TestSegmentPathNoCommonAncestor(t *testing.T) {
	tr := mustCompile(t, testRoutes(), DefaultOptions())
	seg := tr.SegmentPath("home", "files.all")
	if seg.Intersection != "" {
		t.Fatalf("expected no intersection, got %q", seg.Intersection)
	}
	if !reflect.DeepEqual(seg.Deactivated, []string{"home"}) {
		t.Fatalf("unexpected deactivated: %v", seg.Deactivated)
	}
	if !reflect.DeepEqual(seg.Activated, []string{"files", "files.all"}) {
		t.Fatalf("unexpected activated: %v", seg.Activated)
	}
}

func TestSegmentPathSameRoute(t *testing.T) {
	tr := mustCompile(t, testRoutes(), DefaultOptions())
	seg := tr.SegmentPath("users.view", "users.view")
	if len(seg.Deactivated) != 0 || len(seg.Activated) != 0 {
		t.Fatalf("expected empty deltas for same route, got %+v", seg)
	}
	if seg.Intersection != "users.view" {
		t.Fatalf("expected intersection to be the route itself, got %q", seg.Intersection)
	}
}

func TestSegmentPathCached(t *testing.T) {
	tr := mustCompile(t, testRoutes(), DefaultOptions())
	first := tr.SegmentPath("users.view", "users.new")
	second := tr.SegmentPath("users.view", "users.new")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected cached result to match: %+v vs %+v", first, second)
	}
}

package navstate

import (
	"context"
	"testing"
	"time"

	"github.com/vango-dev/navstate/pkg/guard"
	"github.com/vango-dev/navstate/pkg/params"
	"github.com/vango-dev/navstate/pkg/state"
	"github.com/vango-dev/navstate/pkg/tree"
)

func s1Routes() []tree.RouteDef {
	return []tree.RouteDef{
		{Name: "home", Path: "/"},
		{Name: "users", Path: "/users", Children: []tree.RouteDef{
			{Name: "list", Path: "/list"},
			{Name: "view", Path: "/view/:id"},
		}},
	}
}

func mustStart(t *testing.T, r *Router, input string) *state.State {
	t.Helper()
	st, err := r.Start(context.Background(), input)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return st
}

// S1: navigate resolves with the expected name, path, and event order.
func TestS1NavigateResolves(t *testing.T) {
	r, err := New(s1Routes(), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Dispose()
	mustStart(t, r, "/")

	var events []string
	unsub, _ := r.bus.On("transitionStart", func(any) { events = append(events, "START") })
	defer unsub()
	unsub2, _ := r.bus.On("transitionSuccess", func(any) { events = append(events, "SUCCESS") })
	defer unsub2()

	st, err := r.Navigate(context.Background(), "users.view", params.Params{"id": "123"}, state.NavigationOptions{})
	if err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if st.Name != "users.view" {
		t.Fatalf("expected users.view, got %s", st.Name)
	}
	if st.Path != "/users/view/123" {
		t.Fatalf("expected /users/view/123, got %s", st.Path)
	}
	if len(events) != 2 || events[0] != "START" || events[1] != "SUCCESS" {
		t.Fatalf("expected [START SUCCESS], got %v", events)
	}
}

// Start emits TRANSITION_START, then ROUTER_START, then TRANSITION_SUCCESS,
// in that order, for the implicit initial navigation.
func TestStartEventOrder(t *testing.T) {
	r, err := New(s1Routes(), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Dispose()

	var seen []string
	unsub1, _ := r.bus.On("transitionStart", func(any) { seen = append(seen, "TRANSITION_START") })
	defer unsub1()
	unsub2, _ := r.bus.On("routerStart", func(any) { seen = append(seen, "ROUTER_START") })
	defer unsub2()
	unsub3, _ := r.bus.On("transitionSuccess", func(any) { seen = append(seen, "TRANSITION_SUCCESS") })
	defer unsub3()

	if _, err := r.Start(context.Background(), "/"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	want := []string{"TRANSITION_START", "ROUTER_START", "TRANSITION_SUCCESS"}
	if len(seen) != len(want) {
		t.Fatalf("expected %v, got %v", want, seen)
	}
	for i, w := range want {
		if seen[i] != w {
			t.Fatalf("expected %v, got %v", want, seen)
		}
	}
}

// S2: re-navigating to the same state without reload rejects with SameStates.
func TestS2SameStateRejected(t *testing.T) {
	r, err := New(s1Routes(), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Dispose()
	mustStart(t, r, "/")

	if _, err := r.Navigate(context.Background(), "users.view", params.Params{"id": "123"}, state.NavigationOptions{}); err != nil {
		t.Fatalf("Navigate: %v", err)
	}

	successCount := 0
	unsub, _ := r.bus.On("transitionSuccess", func(any) { successCount++ })
	defer unsub()

	_, err = r.Navigate(context.Background(), "users.view", params.Params{"id": "123"}, state.NavigationOptions{})
	if err == nil {
		t.Fatal("expected SAME_STATES error")
	}
	if successCount != 0 {
		t.Fatalf("expected no SUCCESS event, got %d", successCount)
	}
}

// S3: a deactivation guard rejecting leaves the current state unchanged.
func TestS3DeactivationGuardKeepsCurrentState(t *testing.T) {
	r, err := New(s1Routes(), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Dispose()
	mustStart(t, r, "/")
	if _, err := r.Navigate(context.Background(), "users.view", params.Params{"id": "1"}, state.NavigationOptions{}); err != nil {
		t.Fatalf("Navigate: %v", err)
	}

	if err := r.Lifecycle().AddCanDeactivate("users", func(deps guard.Deps) guard.Func {
		return func(ctx context.Context, to, from *state.State) (bool, error) { return false, nil }
	}); err != nil {
		t.Fatalf("AddCanDeactivate: %v", err)
	}

	errCount := 0
	unsub, _ := r.bus.On("transitionError", func(any) { errCount++ })
	defer unsub()

	_, err = r.Navigate(context.Background(), "home", params.Params{}, state.NavigationOptions{})
	if err == nil {
		t.Fatal("expected CANNOT_DEACTIVATE")
	}
	if r.GetState().Name != "users.view" {
		t.Fatalf("expected current state to remain users.view, got %s", r.GetState().Name)
	}
	if errCount != 1 {
		t.Fatalf("expected one TRANSITION_ERROR, got %d", errCount)
	}
}

// S4: a superseded in-flight transition is cancelled; the superseding one succeeds.
func TestS4SupersedeCancelsInFlight(t *testing.T) {
	r, err := New(s1Routes(), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Dispose()
	mustStart(t, r, "/")

	entered := make(chan struct{})
	if err := r.Lifecycle().AddCanActivate("users", func(deps guard.Deps) guard.Func {
		return func(ctx context.Context, to, from *state.State) (bool, error) {
			close(entered)
			<-ctx.Done()
			return false, ctx.Err()
		}
	}); err != nil {
		t.Fatalf("AddCanActivate: %v", err)
	}

	var firstErr error
	done := make(chan struct{})
	go func() {
		_, firstErr = r.Navigate(context.Background(), "users.view", params.Params{"id": "1"}, state.NavigationOptions{})
		close(done)
	}()

	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("first navigation never reached its activation guard")
	}

	st, err := r.Navigate(context.Background(), "home", params.Params{}, state.NavigationOptions{})
	if err != nil {
		t.Fatalf("second Navigate: %v", err)
	}
	if st.Name != "home" {
		t.Fatalf("expected home, got %s", st.Name)
	}

	<-done
	if firstErr == nil {
		t.Fatal("expected the superseded navigation to fail")
	}
}

// S5: forwarding skips the source route's own guard but runs the target's.
func TestS5ForwardingSkipsSourceGuard(t *testing.T) {
	routes := append(s1Routes(), tree.RouteDef{Name: "legacy", Path: "/legacy", ForwardTo: "users.list"})
	r, err := New(routes, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Dispose()
	mustStart(t, r, "/")

	legacyCalled := false
	if err := r.Lifecycle().AddCanActivate("legacy", func(deps guard.Deps) guard.Func {
		return func(ctx context.Context, to, from *state.State) (bool, error) {
			legacyCalled = true
			return true, nil
		}
	}); err != nil {
		t.Fatalf("AddCanActivate legacy: %v", err)
	}
	listCalled := false
	if err := r.Lifecycle().AddCanActivate("users.list", func(deps guard.Deps) guard.Func {
		return func(ctx context.Context, to, from *state.State) (bool, error) {
			listCalled = true
			return true, nil
		}
	}); err != nil {
		t.Fatalf("AddCanActivate users.list: %v", err)
	}

	st, err := r.Navigate(context.Background(), "legacy", params.Params{}, state.NavigationOptions{})
	if err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if st.Name != "users.list" {
		t.Fatalf("expected users.list, got %s", st.Name)
	}
	if legacyCalled {
		t.Fatal("legacy's own guard must not be called")
	}
	if !listCalled {
		t.Fatal("users.list's guard must be called")
	}
}

// S6: a splat route consumes the remainder of the path.
func TestS6SplatConsumesRemainder(t *testing.T) {
	routes := append(s1Routes(), tree.RouteDef{Name: "catch", Path: "/files/*rest"})
	r, err := New(routes, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Dispose()

	match, err := r.MatchPath("/files/a/b.txt")
	if err != nil {
		t.Fatalf("MatchPath: %v", err)
	}
	if match.Params["rest"] != "a/b.txt" {
		t.Fatalf("expected rest=a/b.txt, got %v", match.Params["rest"])
	}
}

// S7: a second guard registration on the same route replaces the first.
func TestS7GuardReplacementNotAccumulation(t *testing.T) {
	routes := append(s1Routes(), tree.RouteDef{Name: "admin", Path: "/admin"})
	r, err := New(routes, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Dispose()
	mustStart(t, r, "/admin")

	firstCalled, secondCalled := false, false
	_ = r.Lifecycle().AddCanDeactivate("admin", func(deps guard.Deps) guard.Func {
		return func(ctx context.Context, to, from *state.State) (bool, error) {
			firstCalled = true
			return true, nil
		}
	})
	_ = r.Lifecycle().AddCanDeactivate("admin", func(deps guard.Deps) guard.Func {
		return func(ctx context.Context, to, from *state.State) (bool, error) {
			secondCalled = true
			return true, nil
		}
	})

	if _, err := r.Navigate(context.Background(), "home", params.Params{}, state.NavigationOptions{}); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if firstCalled {
		t.Fatal("first registration must have been replaced, not accumulated")
	}
	if !secondCalled {
		t.Fatal("second registration must be the one invoked")
	}
}

// S8: allowNotFound produces the reserved unknown-route state and skips
// its activation guards on the way out, while still running deactivation.
func TestS8UnknownRouteSkipsActivationGuards(t *testing.T) {
	opts := Options{}
	opts.AllowNotFound = true
	r, err := New(s1Routes(), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Dispose()

	// A rejecting activation guard on the reserved route must not stop
	// Start from publishing the not-found state.
	if err := r.Lifecycle().AddCanActivate(state.UnknownRoute, func(deps guard.Deps) guard.Func {
		return func(ctx context.Context, to, from *state.State) (bool, error) {
			return false, nil
		}
	}); err != nil {
		t.Fatalf("AddCanActivate: %v", err)
	}

	st := mustStart(t, r, "/nope")
	if st.Name != state.UnknownRoute {
		t.Fatalf("expected unknown-route state, got %s", st.Name)
	}
	if st.Params["path"] != "/nope" {
		t.Fatalf("expected params.path=/nope, got %v", st.Params["path"])
	}

	deactivateCalled := false
	_ = r.Lifecycle().AddCanDeactivate(state.UnknownRoute, func(deps guard.Deps) guard.Func {
		return func(ctx context.Context, to, from *state.State) (bool, error) {
			deactivateCalled = true
			return true, nil
		}
	})

	if _, err := r.Navigate(context.Background(), "home", params.Params{}, state.NavigationOptions{}); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if !deactivateCalled {
		t.Fatal("expected the unknown route's deactivation guard to run")
	}
}

func TestStartRequiresDefaultOrInput(t *testing.T) {
	r, err := New(s1Routes(), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Dispose()

	if _, err := r.Start(context.Background(), ""); err == nil {
		t.Fatal("expected NO_START_PATH_OR_STATE")
	}
}

func TestStopThenRestart(t *testing.T) {
	r, err := New(s1Routes(), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Dispose()
	mustStart(t, r, "/")

	if err := r.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if r.GetState() != nil {
		t.Fatal("expected state cleared after Stop")
	}
	if _, err := r.Start(context.Background(), "/"); err != nil {
		t.Fatalf("restart after Stop: %v", err)
	}
}

func TestDisposeRejectsSubsequentCalls(t *testing.T) {
	r, err := New(s1Routes(), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	mustStart(t, r, "/")
	if err := r.Dispose(); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	if _, err := r.Navigate(context.Background(), "home", params.Params{}, state.NavigationOptions{}); err == nil {
		t.Fatal("expected ROUTER_DISPOSED after dispose")
	}
	if err := r.Dispose(); err != nil {
		t.Fatalf("second Dispose should be a no-op, got: %v", err)
	}
}

func TestIsActiveRouteStrictAndDescendant(t *testing.T) {
	r, err := New(s1Routes(), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Dispose()
	mustStart(t, r, "/")
	if _, err := r.Navigate(context.Background(), "users.view", params.Params{"id": "9"}, state.NavigationOptions{}); err != nil {
		t.Fatalf("Navigate: %v", err)
	}

	if !r.IsActiveRoute("users.view", params.Params{"id": "9"}, true, false) {
		t.Fatal("expected strict match on users.view")
	}
	if r.IsActiveRoute("users.view", params.Params{"id": "other"}, true, false) {
		t.Fatal("expected strict mismatch on differing params")
	}
	if !r.IsActiveRoute("users", nil, false, false) {
		t.Fatal("expected non-strict ancestor match on users")
	}
	if r.IsActiveRoute("users", nil, true, false) {
		t.Fatal("expected strict match on users to fail: current state is users.view")
	}
}

func TestCanNavigateToRespectsForwardingAndValidity(t *testing.T) {
	routes := append(s1Routes(), tree.RouteDef{Name: "legacy", Path: "/legacy", ForwardTo: "users.list"})
	r, err := New(routes, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Dispose()

	if !r.CanNavigateTo("legacy", params.Params{}) {
		t.Fatal("expected legacy to resolve through forwarding")
	}
	if r.CanNavigateTo("nowhere", params.Params{}) {
		t.Fatal("expected an unknown route name to be unreachable")
	}
}

func TestSubscribeReceivesPublishedState(t *testing.T) {
	r, err := New(s1Routes(), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Dispose()
	mustStart(t, r, "/")

	var got *state.State
	unsub, err := r.Subscribe(func(st *state.State) { got = st })
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer unsub()

	if _, err := r.Navigate(context.Background(), "users.list", params.Params{}, state.NavigationOptions{}); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if got == nil || got.Name != "users.list" {
		t.Fatalf("expected subscriber to observe users.list, got %+v", got)
	}
}

func TestRoutesReplacePreservesExternalGuards(t *testing.T) {
	r, err := New(s1Routes(), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Dispose()
	mustStart(t, r, "/")

	externalCalled := false
	_ = r.Lifecycle().AddCanDeactivate("users", func(deps guard.Deps) guard.Func {
		return func(ctx context.Context, to, from *state.State) (bool, error) {
			externalCalled = true
			return true, nil
		}
	})

	if err := r.Routes().Replace(s1Routes()); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	if _, err := r.Navigate(context.Background(), "users.view", params.Params{"id": "1"}, state.NavigationOptions{}); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if _, err := r.Navigate(context.Background(), "home", params.Params{}, state.NavigationOptions{}); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if !externalCalled {
		t.Fatal("expected external guard to survive routes.Replace")
	}
}

package rerr

import (
	"errors"
	"fmt"
)

// Kind identifies a category of routing error. Callers switch on Kind
// rather than on error identity so that a cause can still be wrapped.
type Kind string

const (
	RouteNotFound        Kind = "ROUTE_NOT_FOUND"
	NoStartPathOrState   Kind = "NO_START_PATH_OR_STATE"
	RouterNotStarted     Kind = "ROUTER_NOT_STARTED"
	RouterAlreadyStarted Kind = "ROUTER_ALREADY_STARTED"
	RouterDisposed       Kind = "ROUTER_DISPOSED"
	SameStates           Kind = "SAME_STATES"
	CannotDeactivate     Kind = "CANNOT_DEACTIVATE"
	CannotActivate       Kind = "CANNOT_ACTIVATE"
	TransitionErr        Kind = "TRANSITION_ERR"
	TransitionCancelled  Kind = "TRANSITION_CANCELLED"
	InvalidParams        Kind = "INVALID_PARAMS"
	InvalidRouteName     Kind = "INVALID_ROUTE_NAME"
	LimitExceeded        Kind = "LIMIT_EXCEEDED"
)

// defaultMessage holds the short, human-readable description for a Kind.
// Mirrors the "registered template" shape used throughout this codebase's
// error handling: a Kind maps to prose, call sites attach specifics.
var defaultMessage = map[Kind]string{
	RouteNotFound:        "no route matches the given path or name",
	NoStartPathOrState:    "start() requires a path, a state, or a configured default route",
	RouterNotStarted:      "the router has not been started",
	RouterAlreadyStarted:  "the router has already been started",
	RouterDisposed:        "the router has been disposed",
	SameStates:            "navigation target is equivalent to the current state",
	CannotDeactivate:      "a deactivation guard rejected the transition",
	CannotActivate:        "an activation guard rejected the transition",
	TransitionErr:         "the transition failed",
	TransitionCancelled:   "the transition was cancelled",
	InvalidParams:         "params failed validation",
	InvalidRouteName:      "route name is invalid",
	LimitExceeded:         "a configured limit was exceeded",
}

// RouterError is the single error type returned across the engine.
type RouterError struct {
	Kind    Kind
	Message string

	// Name and Path identify the route or URL involved, when applicable.
	Name string
	Path string

	// Segment is the route name a guard rejected (CannotActivate/CannotDeactivate).
	Segment string

	Cause error
}

// New creates a RouterError for kind with its default message.
func New(kind Kind) *RouterError {
	return &RouterError{Kind: kind, Message: defaultMessage[kind]}
}

// Newf creates a RouterError for kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *RouterError {
	return &RouterError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *RouterError) WithName(name string) *RouterError {
	e.Name = name
	return e
}

func (e *RouterError) WithPath(path string) *RouterError {
	e.Path = path
	return e
}

func (e *RouterError) WithSegment(segment string) *RouterError {
	e.Segment = segment
	return e
}

func (e *RouterError) WithCause(cause error) *RouterError {
	e.Cause = cause
	return e
}

func (e *RouterError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	switch {
	case e.Segment != "":
		msg = fmt.Sprintf("%s: %s (segment %q)", e.Kind, msg, e.Segment)
	case e.Name != "":
		msg = fmt.Sprintf("%s: %s (route %q)", e.Kind, msg, e.Name)
	case e.Path != "":
		msg = fmt.Sprintf("%s: %s (path %q)", e.Kind, msg, e.Path)
	default:
		msg = fmt.Sprintf("%s: %s", e.Kind, msg)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *RouterError) Unwrap() error {
	return e.Cause
}

// Expected reports whether the error is a normal, non-exceptional outcome
// of navigation (same-state navigation, cancellation) that default
// logging should not surface as a failure.
func (e *RouterError) Expected() bool {
	return e.Kind == SameStates || e.Kind == TransitionCancelled
}

// Is supports errors.Is(err, rerr.New(kind)) by comparing Kind only.
func (e *RouterError) Is(target error) bool {
	other, ok := target.(*RouterError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// KindOf extracts the Kind of err if it is (or wraps) a *RouterError.
func KindOf(err error) (Kind, bool) {
	var re *RouterError
	if !errors.As(err, &re) {
		return "", false
	}
	return re.Kind, true
}

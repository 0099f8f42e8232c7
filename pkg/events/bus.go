package events

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/navstate/internal/fsm"
	"github.com/vango-dev/navstate/internal/rerr"
)

// Topic names a router-level event that plugins and the public
// subscribe() API can listen for.
type Topic string

// The fixed set of bridge events the engine publishes. These are the
// only topics Emit is ever called with internally; plugins may still
// define and emit their own topics through the same Bus.
const (
	TransitionStart   Topic = "transitionStart"
	TransitionSuccess Topic = "transitionSuccess"
	TransitionError   Topic = "transitionError"
	TransitionCancel  Topic = "transitionCancel"
	RouterStart       Topic = "routerStart"
	RouterStop        Topic = "routerStop"
)

// Listener receives a topic's payload. The concrete payload type is
// topic-specific; engine-published topics use *Payload.
type Listener func(payload any)

// Payload is the event data the transition engine attaches to its six
// bridge topics.
type Payload struct {
	ToName   string
	FromName string
	Err      error
}

// Limits bounds the bus's listener bookkeeping. WarnListeners logs once
// a topic's subscriber count crosses a lower threshold, on the theory
// that a healthy application subscribes a handful of times at startup,
// not per-navigation; MaxListeners hard-caps it. MaxEventDepth bounds
// re-entrant Emit calls: a listener that itself triggers a navigation
// (and thus another Emit) is fine up to a point, but unbounded
// recursion (a listener that always re-triggers itself) must fail
// loudly rather than overflow the stack.
type Limits struct {
	WarnListeners int
	MaxListeners  int
	MaxEventDepth int
}

// DefaultLimits returns the bus's default bounds.
func DefaultLimits() Limits {
	return Limits{WarnListeners: 1000, MaxListeners: 10_000, MaxEventDepth: 5}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.WarnListeners <= 0 {
		l.WarnListeners = d.WarnListeners
	}
	if l.MaxListeners <= 0 {
		l.MaxListeners = d.MaxListeners
	}
	if l.MaxEventDepth <= 0 {
		l.MaxEventDepth = d.MaxEventDepth
	}
	return l
}

// listenerEntry pairs a subscription id with its function, kept in
// insertion order so Emit fires listeners in registration order.
type listenerEntry struct {
	id uint64
	fn Listener
}

type topicState struct {
	mu        sync.RWMutex
	listeners []listenerEntry
	warned    bool
}

// Bus is the router's lifecycle machine plus its typed event emitter.
type Bus struct {
	machine *fsm.Machine
	logger  *slog.Logger
	limits  Limits

	mu     sync.Mutex
	topics map[Topic]*topicState

	nextID uint64
	depth  atomic.Int32
}

// New returns a Bus in the Idle lifecycle state. A zero-valued field in
// limits falls back to that field's default.
func New(logger *slog.Logger, limits Limits) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		machine: newLifecycle(),
		logger:  logger,
		limits:  limits.withDefaults(),
		topics:  make(map[Topic]*topicState),
	}
}

// Current returns the bus's lifecycle state.
func (b *Bus) Current() fsm.State {
	return b.machine.Current()
}

// Start moves the machine from Idle to Starting.
func (b *Bus) Start() error {
	_, _, err := b.machine.Send(evStart)
	return err
}

// Settled moves the machine from Starting or Transitioning to Ready.
func (b *Bus) Settled() error {
	_, _, err := b.machine.Send(evSettled)
	return err
}

// BeginTransition moves the machine from Ready to Transitioning. The
// transition engine calls this exactly once per in-flight navigation;
// CanSend reports false while already transitioning, enforcing the
// at-most-one-in-flight invariant at the state-machine level.
func (b *Bus) BeginTransition() error {
	_, _, err := b.machine.Send(evNavigate)
	return err
}

// CanBeginTransition reports whether BeginTransition would currently
// succeed, without attempting it.
func (b *Bus) CanBeginTransition() bool {
	return b.machine.CanSend(evNavigate)
}

// Stop moves the machine from Ready or Transitioning back to Idle.
func (b *Bus) Stop() error {
	_, _, err := b.machine.Send(evStop)
	return err
}

// Dispose moves the machine to Disposed from any state.
func (b *Bus) Dispose() error {
	_, _, err := b.machine.Send(evDispose)
	return err
}

func (b *Bus) topic(name Topic) *topicState {
	b.mu.Lock()
	defer b.mu.Unlock()
	ts, ok := b.topics[name]
	if !ok {
		ts = &topicState{}
		b.topics[name] = ts
	}
	return ts
}

// On subscribes fn to name, returning an unsubscribe function. Returns
// an error instead of registering once a topic has reached the
// configured MaxListeners active subscriptions.
func (b *Bus) On(name Topic, fn Listener) (func(), error) {
	ts := b.topic(name)

	ts.mu.Lock()
	defer ts.mu.Unlock()

	if len(ts.listeners) >= b.limits.MaxListeners {
		return nil, rerr.Newf(rerr.LimitExceeded, "topic %q has reached its %d listener limit", name, b.limits.MaxListeners)
	}
	if len(ts.listeners) == b.limits.WarnListeners && !ts.warned {
		ts.warned = true
		b.logger.Warn("event topic has an unusually large number of listeners", "topic", string(name), "count", len(ts.listeners))
	}

	id := atomic.AddUint64(&b.nextID, 1)
	ts.listeners = append(ts.listeners, listenerEntry{id: id, fn: fn})
	return func() {
		ts.mu.Lock()
		for i, e := range ts.listeners {
			if e.id == id {
				ts.listeners = append(ts.listeners[:i:i], ts.listeners[i+1:]...)
				break
			}
		}
		ts.mu.Unlock()
	}, nil
}

// Emit notifies name's listeners with payload. Listeners are snapshotted
// under the topic's lock and then invoked outside it, so a listener
// that subscribes or unsubscribes during Emit never sees a torn
// listener set and never deadlocks against the lock it would need to
// mutate that set. A listener that panics is recovered and logged, and
// the remaining listeners still run.
//
// Re-entrant Emit calls (a listener triggering another Emit, directly
// or through a navigation it kicks off) are allowed up to the
// configured MaxEventDepth deep; beyond that Emit logs and returns
// without calling listeners, to stop runaway recursion rather than
// overflow the stack.
func (b *Bus) Emit(name Topic, payload any) {
	depth := b.depth.Add(1)
	defer b.depth.Add(-1)
	if depth > int32(b.limits.MaxEventDepth) {
		b.logger.Error("event re-entrancy depth exceeded, dropping emission", "topic", string(name), "depth", depth)
		return
	}

	ts := b.topic(name)
	ts.mu.RLock()
	snapshot := make([]Listener, 0, len(ts.listeners))
	for _, e := range ts.listeners {
		snapshot = append(snapshot, e.fn)
	}
	ts.mu.RUnlock()

	for _, fn := range snapshot {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					b.logger.Error("event listener panicked", "topic", string(name), "panic", rec)
				}
			}()
			fn(payload)
		}()
	}
}

// ListenerCount returns the number of listeners currently subscribed to
// name, for tests and diagnostics.
func (b *Bus) ListenerCount(name Topic) int {
	ts := b.topic(name)
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return len(ts.listeners)
}

package oteltrace

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/navstate/pkg/events"
	"github.com/vango-dev/navstate/pkg/guard"
	"github.com/vango-dev/navstate/pkg/plugin"
)

const defaultTracerName = "navstate"

// Config configures the tracing plugin.
type Config struct {
	// TracerName names the tracer (default: "navstate").
	TracerName string
	// IncludeParams is recorded by WithIncludeParams but not read: no
	// param values are attached to spans, whatever its setting.
	IncludeParams bool

	tracer trace.Tracer
}

// Option configures the tracing plugin.
type Option func(*Config)

func WithTracerName(name string) Option       { return func(c *Config) { c.TracerName = name } }
func WithIncludeParams(include bool) Option   { return func(c *Config) { c.IncludeParams = include } }

func defaultConfig() Config {
	return Config{TracerName: defaultTracerName}
}

type instance struct {
	mu     sync.Mutex
	spans  map[string]trace.Span
	unsubs []func()
}

func (i *instance) Close() error {
	for _, unsub := range i.unsubs {
		unsub()
	}
	i.mu.Lock()
	for name, span := range i.spans {
		span.End()
		delete(i.spans, name)
	}
	i.mu.Unlock()
	return nil
}

// Factory builds the tracing plugin.
func Factory(opts ...Option) plugin.Factory {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.tracer = otel.Tracer(cfg.TracerName)

	return func(bus *events.Bus, deps guard.Deps) (plugin.Instance, error) {
		inst := &instance{spans: make(map[string]trace.Span)}

		unsubStart, err := bus.On(events.TransitionStart, func(payload any) {
			pl, ok := payload.(*events.Payload)
			if !ok {
				return
			}
			_, span := cfg.tracer.Start(context.Background(), "navstate.transition",
				trace.WithAttributes(
					attribute.String("navstate.from", pl.FromName),
					attribute.String("navstate.to", pl.ToName),
				),
			)
			inst.mu.Lock()
			inst.spans[pl.ToName] = span
			inst.mu.Unlock()
		})
		if err != nil {
			return nil, err
		}
		inst.unsubs = append(inst.unsubs, unsubStart)

		end := func(toName string, status codes.Code, err error) {
			inst.mu.Lock()
			span, ok := inst.spans[toName]
			if ok {
				delete(inst.spans, toName)
			}
			inst.mu.Unlock()
			if !ok {
				return
			}
			if err != nil {
				span.RecordError(err)
			}
			span.SetStatus(status, "")
			span.End()
		}

		unsubSuccess, err := bus.On(events.TransitionSuccess, func(payload any) {
			if pl, ok := payload.(*events.Payload); ok {
				end(pl.ToName, codes.Ok, nil)
			}
		})
		if err != nil {
			return nil, err
		}
		inst.unsubs = append(inst.unsubs, unsubSuccess)

		unsubError, err := bus.On(events.TransitionError, func(payload any) {
			if pl, ok := payload.(*events.Payload); ok {
				end(pl.ToName, codes.Error, pl.Err)
			}
		})
		if err != nil {
			return nil, err
		}
		inst.unsubs = append(inst.unsubs, unsubError)

		unsubCancel, err := bus.On(events.TransitionCancel, func(payload any) {
			if pl, ok := payload.(*events.Payload); ok {
				end(pl.ToName, codes.Error, nil)
			}
		})
		if err != nil {
			return nil, err
		}
		inst.unsubs = append(inst.unsubs, unsubCancel)

		return inst, nil
	}
}

package middleware

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/riogod/router-sub000/pkg/events"
	"github.com/riogod/router-sub000/pkg/routetree"
)

// Default tracer name for router instrumentation.
const defaultTracerName = "router"

// OTelConfig configures the OpenTelemetry attachment.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "router").
	TracerName string

	// IncludeParams includes route parameter values in span attributes.
	// Parameter values may contain sensitive data - disabled by default.
	IncludeParams bool

	// Filter determines which transitions to trace. Return true to trace
	// the transition, false to skip. If nil, all transitions are traced.
	Filter func(to, from *routetree.State) bool

	// AttributeExtractor extracts custom attributes from the target state.
	AttributeExtractor func(to *routetree.State) []attribute.KeyValue

	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry attachment.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithIncludeParams enables including route parameters in spans.
func WithIncludeParams(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeParams = include
	}
}

// WithTransitionFilter sets a filter function for transitions.
func WithTransitionFilter(filter func(to, from *routetree.State) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(to *routetree.State) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
	}
}

// OpenTelemetry returns an attachment that opens a span per transition
// attempt and closes it with the outcome.
//
// The tracer uses the global OpenTelemetry tracer provider. Configure it in
// your main() before starting the router:
//
//	tp := sdktrace.NewTracerProvider(
//	    sdktrace.WithBatcher(exporter),
//	)
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) events.Attachment {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)

	spans := &spanTable{open: map[int64]trace.Span{}}

	return func(bus *events.Bus) func() {
		unsubs := []func(){
			bus.Subscribe(events.TransitionStart, func(p events.Payload) {
				if config.Filter != nil && !config.Filter(p.ToState, p.FromState) {
					return
				}
				id := stateID(p.ToState)
				if id == 0 {
					return
				}

				attrs := []attribute.KeyValue{
					attribute.String("router.route", stateRoute(p.ToState)),
					attribute.String("router.path", statePath(p.ToState)),
				}
				if p.FromState != nil {
					attrs = append(attrs, attribute.String("router.from_route", p.FromState.Name))
				}
				if config.IncludeParams && p.ToState != nil {
					for k, v := range p.ToState.Params {
						attrs = append(attrs, attribute.String("router.param."+k, v))
					}
				}
				if config.AttributeExtractor != nil {
					attrs = append(attrs, config.AttributeExtractor(p.ToState)...)
				}

				_, span := config.tracer.Start(
					context.Background(),
					"router.transition "+stateRoute(p.ToState),
					trace.WithSpanKind(trace.SpanKindInternal),
					trace.WithAttributes(attrs...),
					trace.WithTimestamp(time.Now()),
				)
				spans.put(id, span)
			}),
			bus.Subscribe(events.TransitionSuccess, func(p events.Payload) {
				if span := spans.take(stateID(p.ToState)); span != nil {
					span.SetStatus(codes.Ok, "")
					span.End()
				}
			}),
			bus.Subscribe(events.TransitionError, func(p events.Payload) {
				if span := spans.take(stateID(p.ToState)); span != nil {
					if p.Err != nil {
						span.RecordError(p.Err)
						span.SetStatus(codes.Error, p.Err.Error())
					}
					span.End()
				}
			}),
			bus.Subscribe(events.TransitionCancel, func(p events.Payload) {
				if span := spans.take(stateID(p.ToState)); span != nil {
					span.SetAttributes(attribute.Bool("router.cancelled", true))
					span.End()
				}
			}),
		}
		return func() {
			for _, unsub := range unsubs {
				unsub()
			}
		}
	}
}

// spanTable tracks open spans per transition id.
type spanTable struct {
	mu   sync.Mutex
	open map[int64]trace.Span
}

func (t *spanTable) put(id int64, span trace.Span) {
	t.mu.Lock()
	t.open[id] = span
	t.mu.Unlock()
}

func (t *spanTable) take(id int64) trace.Span {
	t.mu.Lock()
	defer t.mu.Unlock()
	span, ok := t.open[id]
	if !ok {
		return nil
	}
	delete(t.open, id)
	return span
}

func statePath(s *routetree.State) string {
	if s == nil {
		return ""
	}
	return s.Path
}

// Package middleware provides ready-made router instrumentation: Prometheus
// transition metrics, OpenTelemetry transition spans and structured
// transition logging. Each constructor returns an events.Attachment the
// router applies to its event bus.
package middleware

// Package telemetry is the observability layer of lanepath: structured
// logging on log/slog, Prometheus collectors and OpenTelemetry spans.
//
// Nothing in here influences search results. Engines receive a *Logger, a
// *Metrics and a *Tracer through options; a nil *Metrics or *Tracer turns
// the corresponding signal off, and NoopLogger silences logs.
//
// Spans and log records of one search carry the same search generation so
// that they can be joined.
package telemetry

// Package otel bridges credstore metrics into an OpenTelemetry Meter using
// observable instruments read from an Engine snapshot at collection time.
// Instrument names match the Prometheus exporter; outcome labels become
// attributes.
//
// # What this package must NOT do
//
//   - Install a global MeterProvider.
//   - Mutate engine state.
package otel

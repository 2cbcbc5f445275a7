// Package prometheus renders credstore metrics in Prometheus text exposition
// format.
//
// [NewPrometheusExporter] reads an [credstore.Engine] snapshot on every
// scrape. Each operation is one counter family such as credstore_sign_in_total,
// split by an outcome label (success, failure, locked). The single histogram
// is credstore_authenticate_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry. Callers mount the Handler.
//   - Mutate engine state.
package prometheus

// Package prometheus renders blogauth metrics in Prometheus text
// exposition format.
//
// [NewPrometheusExporter] accepts a [blogauth.Engine] and exposes an
// [net/http.Handler] that renders every engine counter. Counter names are
// prefixed blogauth_*_total.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus

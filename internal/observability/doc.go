// Package observability provides structured logging and metrics for the
// dashboard.
//
// This package implements:
//   - zap logger construction from configuration
//   - Request-scoped loggers carrying the request ID
//   - Prometheus collectors for HTTP traffic and session lookups
package observability

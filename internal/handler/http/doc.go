// Package http implements the REST transport of the invoicing API.
//
// It exposes route wiring, request handlers and the middleware chain used by
// the server: panic recovery, request tracing, access logging, Prometheus
// metrics, response compression, request timeouts and session
// authentication. Handlers decode JSON bodies, delegate to the service layer
// and translate service errors into HTTP statuses.
package http

// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It adapts the generation service to HTTP: posts
// are generated synchronously, progress is polled or streamed with
// Server-Sent Events, and every error body carries a user message, a kind
// and a trace ID.
package api

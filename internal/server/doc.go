// Package server provides the HTTP server for the outreach dashboard and API.
//
// This package is internal to outreach and handles all HTTP concerns:
//
//   - Dashboard serving: serves the embedded HTML/CSS/JS dashboard at "/"
//   - REST API: JSON endpoints under "/api" to list, search, add and update
//     schools and to read status counts
//   - Server-Sent Events: real-time store events at "/api/sse"
//   - WebSocket: the same events at "/api/ws", plus status updates sent by
//     the client
//
// Routing uses chi with request ids on every request. Request bodies are
// validated with go-playground/validator and errors are rendered as
// {"error": "..."} JSON.
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
//
// Users of the outreach library should not need to interact with this
// package directly. The server is started automatically by [outreach.Tracker.Start].
package server

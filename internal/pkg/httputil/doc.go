// Package httputil provides shared HTTP response/request utilities for handlers.
//
// Handlers should use these helpers instead of writing raw http.ResponseWriter
// calls, so JSON formatting and error envelopes stay consistent across all
// endpoints.
package httputil

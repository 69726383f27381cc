// Package httputil provides shared HTTP plumbing for the API server:
// JSON request decoding, JSON response and error writing, CORS handling,
// and request logging middleware.
//
// Error responses are derived from the structured errors in pkg/errors.
// Each error code maps to an HTTP status, and the body always has the
// same shape:
//
//	{"error": {"code": "SESSION_NOT_FOUND", "message": "..."}}
//
// Handlers return errors instead of writing status codes by hand; the
// mapping lives in one place so the CLI and API report the same codes.
package httputil

// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key or bearer token).
//   - rayid: assigns every request a Request ID (RayID), stored in the
//     context and echoed in the X-Ray-ID response header for tracing.
package middleware

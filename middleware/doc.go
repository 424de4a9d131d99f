// Package middleware exposes HTTP middleware adapters built on top of
// blogauth.Engine validation.
//
// # Guards
//
//   - [RequireAuth] — bearer-token authentication, injects the resolved user.
//   - [RequireAdmin] — role gate layered after RequireAuth.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself — all decisions are delegated to
// Engine.Authenticate.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Access Redis (Engine handles I/O).
//   - Make authorization decisions beyond pass/reject and the admin gate.
package middleware

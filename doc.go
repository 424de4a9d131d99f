// Package blogauth provides the authentication and account-lifecycle engine
// for a blog backend: password login with an optional email second factor,
// email verification, password reset via single-use tokens, and JWT access
// tokens for authenticating subsequent requests.
//
// The package is the public surface. It exposes [Engine], [Builder], [Config],
// sentinel errors, and value types. Engine methods are safe to call from
// multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// User records live behind the caller-supplied [UserStore] interface; the
// engine never persists users itself. The single-use token collections
// (email verification, two-factor codes, password reset) and the two-factor
// confirmation markers are engine-owned and Redis-backed. Token issuance is
// an atomic upsert keyed by email, so at most one live token of a given kind
// exists per email at any time.
//
// # What this package must NOT do
//
//   - Expose the Redis client, token stores, or record encodings in its
//     public API.
//   - Deliver tokens anywhere. Issued token values are returned to the
//     caller; transport (email delivery) belongs to the host application.
//   - Import any sub-package that re-imports blogauth (no import cycles).
package blogauth

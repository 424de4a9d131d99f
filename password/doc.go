// Package password implements password hashing and verification with
// bcrypt.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Password policy (empty
// fields, reuse checks) is enforced by the Engine.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords — callers supply plaintext and receive hashes.
//   - Import any other blogauth package.
//   - Log plaintext passwords at runtime.
package password

// Package internal contains helper utilities that are intentionally private
// to blogauth, currently secure random code generation.
//
// # What this package must NOT do
//
//   - Export types that appear in the public blogauth API.
//   - Be imported by any package outside the blogauth module.
package internal

// Package jwt manages access-token issuance and verification with HS256
// signing and strict validation semantics suitable for low-latency
// authentication paths.
package jwt

// Package httpapi mounts the blogauth engine flows on a chi router with
// the stable JSON error codes clients key their UI on.
//
// # Architecture boundaries
//
// Handlers decode explicit request DTOs, call exactly one engine
// operation and translate its sentinel error to a status and code. No
// authentication logic lives here.
package httpapi

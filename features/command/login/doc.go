// Package login implements the Login command use case.
//
// This feature exchanges a username and the shared service password for a
// signed token. The password check and token issuing live in the auth
// package; the handler only orchestrates the lookup and wires in
// observability.
package login

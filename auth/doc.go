// Package auth provides token-based authentication for catalog mutations.
//
// Tokens are HS256-signed JWTs carrying the username and user id. The
// service password is verified against a bcrypt hash so the plain password
// never has to be stored. Request contexts carry the resolved user; command
// handlers gate on its presence before touching the store.
package auth

// Package createuser implements the Create User command use case.
//
// This feature registers a new user with a unique username and a required
// favorite genre. Registration is open: it is the one mutation that does
// not require an authenticated caller.
package createuser

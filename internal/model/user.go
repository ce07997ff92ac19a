// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — plain values with json tags
// describing how they appear on the wire.
package model

// User represents a registered account.
//
// The ID is an auto-incrementing integer assigned by the database on insert
// (SQLite's rowid), not generated in application code. Email is stored
// lowercased — the service layer normalizes it before it ever reaches the
// store, so the UNIQUE constraint on email is effectively case-insensitive.
//
// Password is the stored credential, compared verbatim at login. The json:"-"
// tag excludes it from every response body: marshaling a User yields only
// {"id": ..., "email": ...}.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Password string `json:"-"`
}

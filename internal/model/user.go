package model

import "time"

// Role names stored in users.role and embedded in JWT claims.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an application account as stored in the `users` table.
// Only the password hash is persisted, never the plain password. Handlers
// define separate response types; this struct carries no JSON tags.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique email address (stored lower-cased).
//  PasswordHash – bcrypt hash of the password.
//  Role         – "user" or "admin".
//  CreatedAt    – account creation timestamp.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
}

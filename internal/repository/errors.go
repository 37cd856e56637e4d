// Package repository contains the MySQL data access layer: the engine.Store
// adapter used by the reservation core and plain CRUD repositories for the
// catalog endpoints. Sentinel errors defined here let handlers distinguish
// failure scenarios without inspecting SQL errors.
package repository

import "errors"

// ErrMovieNotFound indicates that a movie id did not match any row.
// Handlers translate this into HTTP 404.
var ErrMovieNotFound = errors.New("movie not found")

// ErrEmailExists is returned when registering an email that is already
// taken. Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrConflict is returned when an update or delete cannot proceed because of
// dependent state, such as shrinking or deleting a session that still has
// live reservations. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

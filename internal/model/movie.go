package model

import "time"

// Movie is a catalog entry that sessions can reference. Catalog management
// is plain CRUD and never touches seat inventory.
//
// Fields:
//  ID              – primary key identifier.
//  Title           – movie title.
//  Description     – optional synopsis.
//  DurationMinutes – running time in minutes.
//  Genre           – single genre label.
//  Director        – director name.
//  PosterURL       – optional poster image URL.
//  ReleaseYear     – year of release.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Movie struct {
	ID              uint64    // movies.id
	Title           string    // movies.title
	Description     *string   // movies.description (nullable)
	DurationMinutes uint32    // movies.duration_minutes
	Genre           string    // movies.genre
	Director        string    // movies.director
	PosterURL       *string   // movies.poster_url (nullable)
	ReleaseYear     uint32    // movies.release_year
	CreatedAt       time.Time // movies.created_at
	UpdatedAt       time.Time // movies.updated_at
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kinoflow/cinema-reservation/internal/model"
)

// MovieRepo provides CRUD operations for the movie catalog.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

const movieCols = `id, title, description, duration_minutes, genre, director,
	poster_url, release_year, created_at, updated_at`

// Create inserts a movie and populates the generated id and timestamps.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO movies (title, description, duration_minutes, genre, director, poster_url, release_year)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.Title, m.Description, m.DurationMinutes, m.Genre, m.Director, m.PosterURL, m.ReleaseYear)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM movies WHERE id = ?`, m.ID).Scan(&m.CreatedAt, &m.UpdatedAt)
}

// GetByID returns a movie or ErrMovieNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+movieCols+` FROM movies WHERE id = ?`, id)
	m, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMovieNotFound
	}
	return m, err
}

// List returns all movies, newest first.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+movieCols+` FROM movies ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites all catalog fields of a movie.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE movies SET title = ?, description = ?, duration_minutes = ?, genre = ?,
		   director = ?, poster_url = ?, release_year = ? WHERE id = ?`,
		m.Title, m.Description, m.DurationMinutes, m.Genre, m.Director, m.PosterURL, m.ReleaseYear, m.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMovieNotFound
	}
	return nil
}

// Delete removes a movie. Sessions referencing it keep their copied title;
// the foreign key nulls the link.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMovieNotFound
	}
	return nil
}

func scanMovie(row rowScanner) (*model.Movie, error) {
	var m model.Movie
	var desc, poster sql.NullString
	err := row.Scan(&m.ID, &m.Title, &desc, &m.DurationMinutes, &m.Genre, &m.Director,
		&poster, &m.ReleaseYear, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		m.Description = &d
	}
	if poster.Valid {
		p := poster.String
		m.PosterURL = &p
	}
	return &m, nil
}

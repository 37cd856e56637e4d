package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kinoflow/cinema-reservation/internal/model"
	"github.com/kinoflow/cinema-reservation/internal/repository"
)

// MovieHandler serves the movie catalog. Admin-only writes, public reads.
type MovieHandler struct {
	Movies *repository.MovieRepo
}

// NewMovieHandler constructs a MovieHandler.
func NewMovieHandler(movies *repository.MovieRepo) *MovieHandler {
	return &MovieHandler{Movies: movies}
}

type movieReq struct {
	Title           string  `json:"title"`
	Description     *string `json:"description,omitempty"`
	DurationMinutes uint32  `json:"duration_minutes"`
	Genre           string  `json:"genre"`
	Director        string  `json:"director"`
	PosterURL       *string `json:"poster_url,omitempty"`
	ReleaseYear     uint32  `json:"release_year"`
}

type movieResp struct {
	ID              uint64  `json:"id"`
	Title           string  `json:"title"`
	Description     *string `json:"description,omitempty"`
	DurationMinutes uint32  `json:"duration_minutes"`
	Genre           string  `json:"genre"`
	Director        string  `json:"director"`
	PosterURL       *string `json:"poster_url,omitempty"`
	ReleaseYear     uint32  `json:"release_year"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func toMovieResp(m *model.Movie) movieResp {
	return movieResp{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		DurationMinutes: m.DurationMinutes,
		Genre:           m.Genre,
		Director:        m.Director,
		PosterURL:       m.PosterURL,
		ReleaseYear:     m.ReleaseYear,
		CreatedAt:       m.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       m.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (r movieReq) validate() string {
	if r.Title == "" {
		return "title is required"
	}
	if r.DurationMinutes == 0 {
		return "duration_minutes must be positive"
	}
	return ""
}

// Create handles POST /v1/movies (admin).
func (h *MovieHandler) Create(c echo.Context) error {
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	m := &model.Movie{
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Genre:           req.Genre,
		Director:        req.Director,
		PosterURL:       req.PosterURL,
		ReleaseYear:     req.ReleaseYear,
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Movies.Create(ctx, m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, toMovieResp(m))
}

// List handles GET /v1/movies (public).
func (h *MovieHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	items, err := h.Movies.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]movieResp, 0, len(items))
	for i := range items {
		out = append(out, toMovieResp(&items[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/movies/:id (public).
func (h *MovieHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toMovieResp(m))
}

// Update handles PUT /v1/movies/:id (admin). All catalog fields are
// replaced.
func (h *MovieHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	m := &model.Movie{
		ID:              id,
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Genre:           req.Genre,
		Director:        req.Director,
		PosterURL:       req.PosterURL,
		ReleaseYear:     req.ReleaseYear,
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Movies.Update(ctx, m); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	got, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toMovieResp(got))
}

// Delete handles DELETE /v1/movies/:id (admin).
func (h *MovieHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Movies.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

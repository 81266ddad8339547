package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"moviehub/internal/models"
	"moviehub/internal/repository"
	"moviehub/internal/tmdb"
)

var (
	ErrMovieExists   = errors.New("movie id already in use")
	ErrMovieNotFound = errors.New("movie not found")
	ErrIDMismatch    = errors.New("movie id in document does not match the URL")
	ErrNoMatch       = errors.New("no movie found for that title")
)

// MetadataSearcher is the external metadata provider used by
// ImportByTitle.
type MetadataSearcher interface {
	SearchMovie(ctx context.Context, title string) (*tmdb.SearchResult, error)
}

type MovieService interface {
	GetAll(ctx context.Context) ([]models.Movie, error)
	GetByID(ctx context.Context, movieID string) (*models.Movie, error)
	Create(ctx context.Context, m *models.Movie) error
	Update(ctx context.Context, movieID string, m *models.Movie) error
	Delete(ctx context.Context, movieID string) error
	// ImportByTitle searches the external provider and stores the best
	// match under a provider-derived identifier.
	ImportByTitle(ctx context.Context, title string) (*models.Movie, error)
}

type movieService struct {
	repo     repository.MovieRepository
	searcher MetadataSearcher
}

func NewMovieService(repo repository.MovieRepository, searcher MetadataSearcher) MovieService {
	return &movieService{repo: repo, searcher: searcher}
}

func (s *movieService) GetAll(ctx context.Context) ([]models.Movie, error) {
	return s.repo.GetAll(ctx)
}

func (s *movieService) GetByID(ctx context.Context, movieID string) (*models.Movie, error) {
	m, err := s.repo.GetByID(ctx, movieID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMovieNotFound
	}
	return m, err
}

func (s *movieService) Create(ctx context.Context, m *models.Movie) error {
	if strings.TrimSpace(m.Title) == "" {
		return errors.New("title is required")
	}
	if err := s.repo.Create(ctx, m); err != nil {
		// The primary key makes a duplicate id a store-level conflict.
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrMovieExists
		}
		return err
	}
	return nil
}

// Update replaces the stored fields of an existing movie. The identifier
// itself is immutable.
func (s *movieService) Update(ctx context.Context, movieID string, m *models.Movie) error {
	if m.MovieID != movieID {
		return ErrIDMismatch
	}
	if _, err := s.repo.GetByID(ctx, movieID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMovieNotFound
		}
		return err
	}
	return s.repo.Update(ctx, m)
}

func (s *movieService) Delete(ctx context.Context, movieID string) error {
	err := s.repo.Delete(ctx, movieID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMovieNotFound
	}
	return err
}

func (s *movieService) ImportByTitle(ctx context.Context, title string) (*models.Movie, error) {
	result, err := s.searcher.SearchMovie(ctx, title)
	if err != nil {
		if errors.Is(err, tmdb.ErrNoResults) {
			return nil, ErrNoMatch
		}
		// APIError and TransportError pass through for the handler to map.
		return nil, err
	}

	movie := movieFromSearchResult(result)

	if _, err := s.repo.GetByID(ctx, movie.MovieID); err == nil {
		return nil, ErrMovieExists
	}
	if err := s.repo.Create(ctx, movie); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrMovieExists
		}
		return nil, err
	}
	return movie, nil
}

func movieFromSearchResult(result *tmdb.SearchResult) *models.Movie {
	movie := &models.Movie{
		MovieID: fmt.Sprintf("tmdb_%d", result.ID),
		Title:   result.Title,
	}
	// Release dates arrive as "2010-07-15"; an unparsable year is
	// treated as absent, same as in the XML codec.
	if len(result.ReleaseDate) >= 4 {
		if year, err := strconv.Atoi(result.ReleaseDate[:4]); err == nil && year > 0 {
			movie.Year = &year
		}
	}
	if result.Overview != "" {
		overview := result.Overview
		movie.Plot = &overview
	}
	if result.PosterPath != "" {
		posterURL := "https://image.tmdb.org/t/p/w500" + result.PosterPath
		movie.PosterURL = &posterURL
	}
	if result.VoteAverage > 0 {
		rating := math.Round(result.VoteAverage*10) / 10
		movie.Rating = &rating
	}
	return movie
}

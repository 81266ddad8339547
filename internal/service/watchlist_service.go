package service

import (
	"context"
	"errors"

	"moviehub/internal/models"
	"moviehub/internal/repository"
)

var ErrAlreadyInList = errors.New("movie is already in the watch-list")

type WatchlistService interface {
	List(ctx context.Context, userID string) ([]models.WatchedMovie, error)
	// Add records that the user watched the movie referenced by
	// entry.MovieID. At most one entry per (user, movie) pair.
	Add(ctx context.Context, userID string, entry *models.WatchedMovie) (*models.WatchedMovie, error)
}

type watchlistService struct {
	watchedRepo repository.WatchedRepository
	movieRepo   repository.MovieRepository
}

func NewWatchlistService(watchedRepo repository.WatchedRepository, movieRepo repository.MovieRepository) WatchlistService {
	return &watchlistService{watchedRepo: watchedRepo, movieRepo: movieRepo}
}

func (s *watchlistService) List(ctx context.Context, userID string) ([]models.WatchedMovie, error) {
	return s.watchedRepo.ListByUser(ctx, userID)
}

func (s *watchlistService) Add(ctx context.Context, userID string, entry *models.WatchedMovie) (*models.WatchedMovie, error) {
	movie, err := s.movieRepo.GetByID(ctx, entry.MovieID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	exists, err := s.watchedRepo.Exists(ctx, userID, entry.MovieID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyInList
	}

	entry.UserID = userID
	if err := s.watchedRepo.Add(ctx, entry); err != nil {
		// The unique index catches the race the Exists check can miss.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyInList
		}
		return nil, err
	}

	entry.Movie = *movie
	return entry, nil
}

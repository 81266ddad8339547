package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"moviehub/internal/models"
	"moviehub/internal/repository"
	"moviehub/internal/service"
)

type MockWatchedRepository struct {
	mock.Mock
}

func (m *MockWatchedRepository) Add(ctx context.Context, entry *models.WatchedMovie) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockWatchedRepository) ListByUser(ctx context.Context, userID string) ([]models.WatchedMovie, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WatchedMovie), args.Error(1)
}

func (m *MockWatchedRepository) Exists(ctx context.Context, userID, movieID string) (bool, error) {
	args := m.Called(ctx, userID, movieID)
	return args.Bool(0), args.Error(1)
}

func TestWatchlistService_Add(t *testing.T) {
	movie := &models.Movie{MovieID: "tt1", Title: "First"}

	t.Run("Success_AttachesMovie", func(t *testing.T) {
		watchedRepo := new(MockWatchedRepository)
		movieRepo := new(MockMovieRepository)
		svc := service.NewWatchlistService(watchedRepo, movieRepo)

		movieRepo.On("GetByID", mock.Anything, "tt1").Return(movie, nil).Once()
		watchedRepo.On("Exists", mock.Anything, "u-1", "tt1").Return(false, nil).Once()
		watchedRepo.On("Add", mock.Anything, mock.MatchedBy(func(e *models.WatchedMovie) bool {
			return e.UserID == "u-1" && e.MovieID == "tt1"
		})).Return(nil).Once()

		entry, err := svc.Add(context.Background(), "u-1", &models.WatchedMovie{MovieID: "tt1"})
		require.NoError(t, err)
		// The movie is attached so the response can carry its title.
		assert.Equal(t, "First", entry.Movie.Title)
		watchedRepo.AssertExpectations(t)
	})

	t.Run("MovieMissing", func(t *testing.T) {
		watchedRepo := new(MockWatchedRepository)
		movieRepo := new(MockMovieRepository)
		svc := service.NewWatchlistService(watchedRepo, movieRepo)

		movieRepo.On("GetByID", mock.Anything, "nope").Return(nil, repository.ErrNotFound).Once()

		_, err := svc.Add(context.Background(), "u-1", &models.WatchedMovie{MovieID: "nope"})
		assert.ErrorIs(t, err, service.ErrMovieNotFound)
		watchedRepo.AssertNotCalled(t, "Add")
	})

	t.Run("Duplicate", func(t *testing.T) {
		watchedRepo := new(MockWatchedRepository)
		movieRepo := new(MockMovieRepository)
		svc := service.NewWatchlistService(watchedRepo, movieRepo)

		movieRepo.On("GetByID", mock.Anything, "tt1").Return(movie, nil).Once()
		watchedRepo.On("Exists", mock.Anything, "u-1", "tt1").Return(true, nil).Once()

		_, err := svc.Add(context.Background(), "u-1", &models.WatchedMovie{MovieID: "tt1"})
		assert.ErrorIs(t, err, service.ErrAlreadyInList)
		watchedRepo.AssertNotCalled(t, "Add")
	})

	t.Run("DuplicateRaceAtInsert", func(t *testing.T) {
		watchedRepo := new(MockWatchedRepository)
		movieRepo := new(MockMovieRepository)
		svc := service.NewWatchlistService(watchedRepo, movieRepo)

		movieRepo.On("GetByID", mock.Anything, "tt1").Return(movie, nil).Once()
		watchedRepo.On("Exists", mock.Anything, "u-1", "tt1").Return(false, nil).Once()
		watchedRepo.On("Add", mock.Anything, mock.Anything).Return(repository.ErrDuplicate).Once()

		_, err := svc.Add(context.Background(), "u-1", &models.WatchedMovie{MovieID: "tt1"})
		assert.ErrorIs(t, err, service.ErrAlreadyInList)
	})
}

package service

import (
	"context"
	"errors"

	"moviehub/internal/models"
	"moviehub/internal/repository"
)

type CommentService interface {
	ListForMovie(ctx context.Context, movieID string) ([]models.Comment, error)
	Add(ctx context.Context, movieID string, author *models.User, body string) (*models.Comment, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	movieRepo   repository.MovieRepository
}

func NewCommentService(commentRepo repository.CommentRepository, movieRepo repository.MovieRepository) CommentService {
	return &commentService{commentRepo: commentRepo, movieRepo: movieRepo}
}

func (s *commentService) ListForMovie(ctx context.Context, movieID string) ([]models.Comment, error) {
	if _, err := s.movieRepo.GetByID(ctx, movieID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return s.commentRepo.GetByMovie(ctx, movieID)
}

func (s *commentService) Add(ctx context.Context, movieID string, author *models.User, body string) (*models.Comment, error) {
	if _, err := s.movieRepo.GetByID(ctx, movieID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	comment := &models.Comment{
		MovieID: movieID,
		UserID:  author.ID,
		Body:    body,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	comment.User = *author
	return comment, nil
}

package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"moviehub/internal/models"
)

type WatchedRepository interface {
	Add(ctx context.Context, entry *models.WatchedMovie) error
	ListByUser(ctx context.Context, userID string) ([]models.WatchedMovie, error)
	Exists(ctx context.Context, userID, movieID string) (bool, error)
}

type watchedRepository struct {
	db *gorm.DB
}

func NewWatchedRepository(db *gorm.DB) WatchedRepository {
	return &watchedRepository{db: db}
}

// Add inserts the entry. The composite unique index on (user_id,
// movie_id) turns a duplicate into ErrDuplicate.
func (r *watchedRepository) Add(ctx context.Context, entry *models.WatchedMovie) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *watchedRepository) ListByUser(ctx context.Context, userID string) ([]models.WatchedMovie, error) {
	var entries []models.WatchedMovie
	if err := r.db.WithContext(ctx).
		Preload("Movie").
		Where("user_id = ?", userID).
		Order("watched_date DESC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list watched movies: %w", err)
	}
	return entries, nil
}

func (r *watchedRepository) Exists(ctx context.Context, userID, movieID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.WatchedMovie{}).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

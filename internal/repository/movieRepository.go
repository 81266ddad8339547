package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"moviehub/internal/models"
)

type MovieRepository interface {
	GetAll(ctx context.Context) ([]models.Movie, error)
	GetByID(ctx context.Context, movieID string) (*models.Movie, error)
	Create(ctx context.Context, m *models.Movie) error
	Update(ctx context.Context, m *models.Movie) error
	Delete(ctx context.Context, movieID string) error
	Upsert(ctx context.Context, m *models.Movie) (created bool, err error)
}

// movieRepository is the GORM implementation of MovieRepository.
type movieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) MovieRepository {
	return &movieRepository{db: db}
}

func (r *movieRepository) GetAll(ctx context.Context) ([]models.Movie, error) {
	var list []models.Movie
	if err := r.db.WithContext(ctx).Order("title").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return list, nil
}

func (r *movieRepository) GetByID(ctx context.Context, movieID string) (*models.Movie, error) {
	var m models.Movie
	if err := r.db.WithContext(ctx).First(&m, "movie_id = ?", movieID).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *movieRepository) Create(ctx context.Context, m *models.Movie) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *movieRepository) Update(ctx context.Context, m *models.Movie) error {
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return fmt.Errorf("update movie: %w", err)
	}
	return nil
}

func (r *movieRepository) Delete(ctx context.Context, movieID string) error {
	result := r.db.WithContext(ctx).Delete(&models.Movie{}, "movie_id = ?", movieID)
	if result.Error != nil {
		return fmt.Errorf("delete movie: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Upsert inserts the movie, or updates the existing row with the same
// identifier. The returned flag distinguishes the two outcomes for the
// bulk importer's counters.
func (r *movieRepository) Upsert(ctx context.Context, m *models.Movie) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Movie
		err := tx.First(&existing, "movie_id = ?", m.MovieID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created = true
			return tx.Create(m).Error
		}
		if err != nil {
			return err
		}
		return tx.Save(m).Error
	})
	if err != nil {
		return false, translate(err)
	}
	return created, nil
}

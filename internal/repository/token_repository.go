package repository

import (
	"context"

	"gorm.io/gorm"

	"moviehub/internal/models"
)

type TokenRepository interface {
	Create(ctx context.Context, token *models.AuthToken) error
	FindByUser(ctx context.Context, userID string) (*models.AuthToken, error)
	FindByToken(ctx context.Context, token string) (*models.AuthToken, error)
	Delete(ctx context.Context, tokenString string) error
}

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *models.AuthToken) error {
	return translate(r.db.WithContext(ctx).Create(token).Error)
}

func (r *tokenRepository) FindByUser(ctx context.Context, userID string) (*models.AuthToken, error) {
	var token models.AuthToken
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error; err != nil {
		return nil, translate(err)
	}
	return &token, nil
}

func (r *tokenRepository) FindByToken(ctx context.Context, tokenString string) (*models.AuthToken, error) {
	var token models.AuthToken
	if err := r.db.WithContext(ctx).Preload("User").First(&token, "token = ?", tokenString).Error; err != nil {
		return nil, translate(err)
	}
	return &token, nil
}

func (r *tokenRepository) Delete(ctx context.Context, tokenString string) error {
	return translate(r.db.WithContext(ctx).Delete(&models.AuthToken{}, "token = ?", tokenString).Error)
}

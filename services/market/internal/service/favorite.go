package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/market/services/market/internal/models"
	"github.com/Skotchmaster/market/services/market/internal/repo"
)

type FavoriteService struct {
	Repo *repo.GormRepo
}

func (s *FavoriteService) Add(ctx context.Context, userID, productID uuid.UUID) (*models.FavoriteProduct, error) {
	if productID == uuid.Nil {
		return nil, fmt.Errorf("product_id is required: %w", ErrValidation)
	}
	if _, err := s.Repo.ProductByID(ctx, productID); err != nil {
		return nil, notFound(err, "product")
	}

	fp, err := s.Repo.AddFavorite(ctx, userID, productID)
	if errors.Is(err, repo.ErrFavoriteExists) {
		return nil, fmt.Errorf("product already in favorites: %w", ErrConflict)
	}
	return fp, err
}

func (s *FavoriteService) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	err := s.Repo.RemoveFavorite(ctx, userID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("favorite not found: %w", ErrNotFound)
	}
	return err
}

func (s *FavoriteService) List(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	return s.Repo.ListFavorites(ctx, userID)
}

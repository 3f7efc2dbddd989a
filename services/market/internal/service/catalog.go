package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/market/pkg/identity"
	"github.com/Skotchmaster/market/services/market/internal/domain"
	"github.com/Skotchmaster/market/services/market/internal/models"
	"github.com/Skotchmaster/market/services/market/internal/repo"
)

// CatalogService is the thin store/product reference the core reads prices
// and ownership from.
type CatalogService struct {
	Repo *repo.GormRepo
}

func (s *CatalogService) CreateStore(ctx context.Context, caller identity.Identity, name string) (*models.Store, error) {
	if !caller.Role.In(identity.RoleSeller, identity.RoleAdmin) {
		return nil, fmt.Errorf("only sellers can open a store: %w", ErrForbidden)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("store name is required: %w", ErrValidation)
	}

	store := models.Store{OwnerID: caller.UserID, Name: name}
	if err := s.Repo.CreateStore(ctx, &store); err != nil {
		return nil, err
	}
	return &store, nil
}

func (s *CatalogService) GetStore(ctx context.Context, storeID uuid.UUID) (*models.Store, error) {
	store, err := s.Repo.StoreByID(ctx, storeID)
	if err != nil {
		return nil, notFound(err, "store")
	}
	return store, nil
}

type NewProduct struct {
	StoreID  uuid.UUID
	Name     string
	Price    int64
	Quantity int64
}

func (s *CatalogService) CreateProduct(ctx context.Context, userID uuid.UUID, in NewProduct) (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("product name is required: %w", ErrValidation)
	}
	if in.Price < 0 || in.Quantity < 0 {
		return nil, fmt.Errorf("price and quantity must not be negative: %w", ErrValidation)
	}
	if in.Price > domain.MaxPrice {
		return nil, fmt.Errorf("price must not exceed %d: %w", int64(domain.MaxPrice), ErrValidation)
	}

	store, err := s.GetStore(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	if store.OwnerID != userID {
		return nil, fmt.Errorf("store belongs to another user: %w", ErrForbidden)
	}

	p := models.Product{StoreID: store.ID, Name: name, Price: in.Price, Quantity: in.Quantity}
	if err := s.Repo.CreateProduct(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	p, err := s.Repo.ProductByID(ctx, productID)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return p, nil
}

func (s *CatalogService) UpdateProductPrice(ctx context.Context, userID, productID uuid.UUID, price int64) (*models.Product, error) {
	if price < 0 || price > domain.MaxPrice {
		return nil, fmt.Errorf("price must be between 0 and %d: %w", int64(domain.MaxPrice), ErrValidation)
	}

	owner, err := s.Repo.ProductOwner(ctx, productID)
	if err != nil {
		return nil, notFound(err, "product")
	}
	if owner != userID {
		return nil, fmt.Errorf("product belongs to another store: %w", ErrForbidden)
	}

	p, err := s.Repo.UpdateProductPrice(ctx, productID, price)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return p, nil
}

func productsMissing(err error) error {
	if errors.Is(err, repo.ErrProductNotFound) {
		return fmt.Errorf("product not found: %w", ErrNotFound)
	}
	return err
}

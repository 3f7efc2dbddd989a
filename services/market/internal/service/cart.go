package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/Skotchmaster/market/pkg/events"
	"github.com/Skotchmaster/market/services/market/internal/domain"
	"github.com/Skotchmaster/market/services/market/internal/models"
	"github.com/Skotchmaster/market/services/market/internal/repo"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

// CartView is the cart priced at current product prices.
type CartView struct {
	CartID     uuid.UUID           `json:"cart_id"`
	Items      []domain.PricedLine `json:"items"`
	TotalPrice int64               `json:"total_price"`
}

func checkQuantity(q int64) error {
	if q <= 0 {
		return fmt.Errorf("quantity must be positive: %w", ErrValidation)
	}
	if q > domain.MaxQuantity {
		return fmt.Errorf("quantity must not exceed %d: %w", domain.MaxQuantity, ErrValidation)
	}
	return nil
}

func (s *CartService) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return s.Repo.GetOrCreateCart(ctx, userID)
}

func (s *CartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int64) (item *models.CartItem, err error) {
	ctx, span := tracer.Start(ctx, "cart.add_item", trace.WithAttributes(
		attribute.String("user_id", userID.String()),
		attribute.String("product_id", productID.String()),
	))
	defer func() { endSpan(span, err) }()

	if productID == uuid.Nil {
		return nil, fmt.Errorf("product_id is required: %w", ErrValidation)
	}
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}
	if _, err := s.Repo.ProductByID(ctx, productID); err != nil {
		return nil, notFound(err, "product")
	}

	item, err = s.Repo.AddItem(ctx, userID, productID, quantity)
	if errors.Is(err, repo.ErrQuantityLimit) {
		return nil, fmt.Errorf("cart line would exceed %d items: %w", domain.MaxQuantity, ErrValidation)
	}
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicCart, userID.String(), events.New("cart_item_added", map[string]any{
		"user_id":    userID,
		"product_id": productID,
		"added":      quantity,
		"quantity":   item.Quantity,
	}))
	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return fmt.Errorf("product_id is required: %w", ErrValidation)
	}

	err := s.Repo.RemoveItem(ctx, userID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("cart item not found: %w", ErrNotFound)
	}
	if err != nil {
		return err
	}

	publish(ctx, s.Events, events.TopicCart, userID.String(), events.New("cart_item_removed", map[string]any{
		"user_id":    userID,
		"product_id": productID,
	}))
	return nil
}

func (s *CartService) ViewCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.Repo.CartItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.PricedLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, domain.PricedLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	if err := s.Repo.PriceLines(ctx, lines); err != nil {
		return nil, productsMissing(err)
	}

	total, err := domain.Total(lines)
	if err != nil {
		return nil, err
	}
	return &CartView{CartID: cart.ID, Items: lines, TotalPrice: total}, nil
}

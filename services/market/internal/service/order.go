package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Skotchmaster/market/pkg/events"
	"github.com/Skotchmaster/market/pkg/metrics"
	"github.com/Skotchmaster/market/services/market/internal/domain"
	"github.com/Skotchmaster/market/services/market/internal/models"
	"github.com/Skotchmaster/market/services/market/internal/repo"
)

type OrderService struct {
	Repo    *repo.GormRepo
	Events  events.Publisher
	Metrics *metrics.Metrics
}

type OrderLine struct {
	ProductID uuid.UUID
	Quantity  int64
}

// OrderDetail is an order with its lines priced live.
type OrderDetail struct {
	Order models.Order        `json:"order"`
	Items []domain.PricedLine `json:"items"`
	Total int64               `json:"total"`
}

func (s *OrderService) CreateOrderDirect(ctx context.Context, userID uuid.UUID, lines []OrderLine) (order *models.Order, err error) {
	ctx, span := tracer.Start(ctx, "order.create_direct", trace.WithAttributes(
		attribute.String("user_id", userID.String()),
		attribute.Int("lines", len(lines)),
	))
	defer func() { endSpan(span, err) }()

	if len(lines) == 0 {
		return nil, fmt.Errorf("order needs at least one item: %w", ErrValidation)
	}
	ids := make([]uuid.UUID, 0, len(lines))
	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		if l.ProductID == uuid.Nil {
			return nil, fmt.Errorf("product_id is required: %w", ErrValidation)
		}
		if err := checkQuantity(l.Quantity); err != nil {
			return nil, err
		}
		ids = append(ids, l.ProductID)
		items = append(items, models.OrderItem{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	found, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return nil, fmt.Errorf("product %s not found: %w", id, ErrNotFound)
		}
	}

	order = &models.Order{UserID: userID}
	if err := s.Repo.CreateOrder(ctx, order, items); err != nil {
		return nil, err
	}

	s.Metrics.OrderCreated("direct")
	s.orderCreated(ctx, order, "direct", len(items))
	return order, nil
}

func (s *OrderService) CreateOrderFromCart(ctx context.Context, userID uuid.UUID) (order *models.Order, err error) {
	ctx, span := tracer.Start(ctx, "order.create_from_cart", trace.WithAttributes(
		attribute.String("user_id", userID.String()),
	))
	defer func() { endSpan(span, err) }()

	order, items, err := s.Repo.CheckoutCart(ctx, userID)
	if errors.Is(err, repo.ErrCartEmpty) {
		s.Metrics.Checkout("empty")
		return nil, ErrEmptyCart
	}
	if err != nil {
		s.Metrics.Checkout("error")
		return nil, err
	}

	s.Metrics.Checkout("ok")
	s.Metrics.OrderCreated("cart")
	s.orderCreated(ctx, order, "cart", len(items))
	return order, nil
}

func (s *OrderService) orderCreated(ctx context.Context, o *models.Order, source string, lines int) {
	publish(ctx, s.Events, events.TopicOrder, o.ID.String(), events.New("order_created", map[string]any{
		"order_id": o.ID,
		"user_id":  o.UserID,
		"source":   source,
		"lines":    lines,
	}))
}

// ComputeTotal prices the order at current product prices.
func (s *OrderService) ComputeTotal(ctx context.Context, orderID uuid.UUID) (int64, error) {
	total, err := s.Repo.OrderTotal(ctx, orderID)
	if err != nil {
		return 0, productsMissing(err)
	}
	return total, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDetail, error) {
	order, err := s.Repo.OrderForUser(ctx, orderID, userID)
	if err != nil {
		return nil, notFound(err, "order")
	}
	items, err := s.Repo.OrderItems(ctx, order.ID)
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
	return &OrderDetail{Order: *order, Items: lines, Total: total}, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Order, int64, error) {
	return s.Repo.ListOrders(ctx, userID, offset, limit)
}

// UpdateDeliveryStatus accepts any move between the known statuses.
func (s *OrderService) UpdateDeliveryStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, error) {
	st, err := domain.ParseDeliveryStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrValidation)
	}

	order, err := s.Repo.UpdateDeliveryStatus(ctx, orderID, st, time.Now().UTC())
	if err != nil {
		return nil, notFound(err, "order")
	}

	publish(ctx, s.Events, events.TopicOrder, order.ID.String(), events.New("order_delivery_status_changed", map[string]any{
		"order_id": order.ID,
		"status":   st,
	}))
	return order, nil
}

func (s *OrderService) MarkPaid(ctx context.Context, orderID uuid.UUID, paid bool) (*models.Order, error) {
	order, err := s.Repo.SetPaid(ctx, orderID, paid)
	if err != nil {
		return nil, notFound(err, "order")
	}

	publish(ctx, s.Events, events.TopicOrder, order.ID.String(), events.New("order_paid", map[string]any{
		"order_id": order.ID,
		"is_paid":  paid,
	}))
	return order, nil
}

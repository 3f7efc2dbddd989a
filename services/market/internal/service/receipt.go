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
	"github.com/Skotchmaster/market/services/market/internal/models"
	"github.com/Skotchmaster/market/services/market/internal/repo"
)

type ReceiptService struct {
	Repo    *repo.GormRepo
	Events  events.Publisher
	Metrics *metrics.Metrics
}

// GenerateReceipt freezes the order total once. A second call for the same
// order fails with ErrConflict.
func (s *ReceiptService) GenerateReceipt(ctx context.Context, orderID, storeID uuid.UUID, deliveryCost int64) (rec *models.Receipt, err error) {
	ctx, span := tracer.Start(ctx, "receipt.generate", trace.WithAttributes(
		attribute.String("order_id", orderID.String()),
	))
	defer func() { endSpan(span, err) }()

	if deliveryCost < 0 {
		return nil, fmt.Errorf("delivery cost must not be negative: %w", ErrValidation)
	}
	if storeID == uuid.Nil {
		return nil, fmt.Errorf("store_id is required: %w", ErrValidation)
	}

	rec, err = s.Repo.CreateReceipt(ctx, orderID, storeID, deliveryCost, time.Now().UTC())
	switch {
	case errors.Is(err, repo.ErrReceiptExists):
		return nil, fmt.Errorf("order already has a receipt: %w", ErrConflict)
	case errors.Is(err, repo.ErrStoreNotFound):
		return nil, fmt.Errorf("store not found: %w", ErrNotFound)
	case err != nil:
		return nil, productsMissing(notFound(err, "order"))
	}

	s.Metrics.ReceiptGenerated()
	publish(ctx, s.Events, events.TopicOrder, orderID.String(), events.New("receipt_generated", map[string]any{
		"order_id":   orderID,
		"receipt_id": rec.ID,
		"total_sum":  rec.TotalSum,
	}))
	return rec, nil
}

// GetReceipt hides both a foreign order and a missing receipt behind
// ErrNotFound.
func (s *ReceiptService) GetReceipt(ctx context.Context, userID, orderID uuid.UUID) (*models.Receipt, error) {
	if _, err := s.Repo.OrderForUser(ctx, orderID, userID); err != nil {
		return nil, notFound(err, "order")
	}
	rec, err := s.Repo.ReceiptByOrder(ctx, orderID)
	if err != nil {
		return nil, notFound(err, "receipt")
	}
	return rec, nil
}

package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/market/services/market/internal/domain"
	"github.com/Skotchmaster/market/services/market/internal/models"
)

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		return tx.Create(&items).Error
	})
}

// OrderForUser only finds orders owned by userID. Someone else's order is
// reported as missing.
func (r *GormRepo) OrderForUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	var o models.Order
	if err := r.primary(ctx).Where("id = ? AND user_id = ?", orderID, userID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) OrderByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var o models.Order
	if err := r.primary(ctx).Where("id = ?", orderID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) OrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	return orderItems(r.primary(ctx), orderID)
}

func orderItems(db *gorm.DB, orderID uuid.UUID) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := db.Where("order_id = ?", orderID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// orderTotal prices the order's items at current product prices.
func orderTotal(db *gorm.DB, orderID uuid.UUID) (int64, error) {
	items, err := orderItems(db, orderID)
	if err != nil {
		return 0, err
	}
	lines := make([]domain.PricedLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, domain.PricedLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	if err := priceLines(db, lines); err != nil {
		return 0, err
	}
	return domain.Total(lines)
}

func (r *GormRepo) OrderTotal(ctx context.Context, orderID uuid.UUID) (int64, error) {
	return orderTotal(r.primary(ctx), orderID)
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Order, int64, error) {
	db := r.primary(ctx).Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	if err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateDeliveryStatus writes the status. Moving to delivered also stamps the
// receipt's delivery date when a receipt exists.
func (r *GormRepo) UpdateDeliveryStatus(ctx context.Context, orderID uuid.UUID, status domain.DeliveryStatus, at time.Time) (*models.Order, error) {
	var o models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate).Where("id = ?", orderID).First(&o).Error; err != nil {
			return err
		}
		if err := tx.Model(&o).Update("delivery_status", status).Error; err != nil {
			return err
		}
		o.DeliveryStatus = status
		if status != domain.StatusDelivered {
			return nil
		}
		return tx.Model(&models.Receipt{}).Where("order_id = ?", orderID).Update("delivery_date", at).Error
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) SetPaid(ctx context.Context, orderID uuid.UUID, paid bool) (*models.Order, error) {
	var o models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate).Where("id = ?", orderID).First(&o).Error; err != nil {
			return err
		}
		if err := tx.Model(&o).Update("is_paid", paid).Error; err != nil {
			return err
		}
		o.IsPaid = paid
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/market/services/market/internal/models"
)

// CreateReceipt freezes the order total at current prices. The order row is
// locked so a second call waits and then sees the first receipt; the unique
// index on order_id covers anything that slips past.
func (r *GormRepo) CreateReceipt(ctx context.Context, orderID, storeID uuid.UUID, deliveryCost int64, at time.Time) (*models.Receipt, error) {
	var rec models.Receipt
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o models.Order
		if err := tx.Clauses(forUpdate).Where("id = ?", orderID).First(&o).Error; err != nil {
			return err
		}

		var n int64
		if err := tx.Model(&models.Receipt{}).Where("order_id = ?", orderID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrReceiptExists
		}

		err := tx.Where("id = ?", storeID).First(&models.Store{}).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStoreNotFound
		}
		if err != nil {
			return err
		}

		total, err := orderTotal(tx, orderID)
		if err != nil {
			return err
		}

		rec = models.Receipt{
			OrderID:      orderID,
			StoreID:      storeID,
			TotalSum:     total,
			DeliveryCost: deliveryCost,
			PurchaseDate: at,
			DeliveryDate: at,
		}
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrReceiptExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *GormRepo) ReceiptByOrder(ctx context.Context, orderID uuid.UUID) (*models.Receipt, error) {
	var rec models.Receipt
	if err := r.primary(ctx).Where("order_id = ?", orderID).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

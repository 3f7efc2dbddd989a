package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"

	"github.com/Skotchmaster/market/services/market/internal/domain"
	"github.com/Skotchmaster/market/services/market/internal/models"
)

func (r *GormRepo) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return getOrCreateCart(r.primary(ctx), userID)
}

// getOrCreateCart inserts the cart if missing and reads it back. The unique
// index on user_id turns a concurrent insert into a no-op.
func getOrCreateCart(db *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	fresh := models.Cart{UserID: userID}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&fresh).Error
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := db.Clauses(dbresolver.Write).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem merges quantity into the (cart, product) row or creates it. The cart
// row is locked so concurrent adds and checkouts on one cart serialize. A merge
// past domain.MaxQuantity fails with ErrQuantityLimit.
func (r *GormRepo) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int64) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}
		if err := tx.Clauses(forUpdate).Where("id = ?", cart.ID).First(cart).Error; err != nil {
			return err
		}

		err = tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).Take(&item).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if quantity > domain.MaxQuantity {
				return ErrQuantityLimit
			}
			item = models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity}
			return tx.Create(&item).Error
		case err != nil:
			return err
		}

		if item.Quantity > domain.MaxQuantity-quantity {
			return ErrQuantityLimit
		}
		if err := tx.Model(&models.CartItem{}).
			Where("id = ?", item.ID).
			Update("quantity", gorm.Expr("quantity + ?", quantity)).Error; err != nil {
			return err
		}
		item.Quantity += quantity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Clauses(forUpdate).Where("user_id = ?", userID).First(&cart).Error; err != nil {
			return err
		}
		res := tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).Delete(&models.CartItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormRepo) CartItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.primary(ctx).Where("cart_id = ?", cartID).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func drainCart(tx *gorm.DB, cartID uuid.UUID) error {
	return tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// CheckoutCart turns the user's cart into an order and drains it in one
// transaction. A missing cart and an empty cart both give ErrCartEmpty.
func (r *GormRepo) CheckoutCart(ctx context.Context, userID uuid.UUID) (*models.Order, []models.OrderItem, error) {
	var (
		order models.Order
		items []models.OrderItem
	)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.Clauses(forUpdate).Where("user_id = ?", userID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartEmpty
		}
		if err != nil {
			return err
		}

		var lines []models.CartItem
		if err := tx.Where("cart_id = ?", cart.ID).Order("created_at ASC").Find(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrCartEmpty
		}

		order = models.Order{UserID: userID}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		items = make([]models.OrderItem, 0, len(lines))
		for _, l := range lines {
			items = append(items, models.OrderItem{OrderID: order.ID, ProductID: l.ProductID, Quantity: l.Quantity})
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		return drainCart(tx, cart.ID)
	})
	if err != nil {
		return nil, nil, err
	}
	return &order, items, nil
}

package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/market/services/market/internal/domain"
	"github.com/Skotchmaster/market/services/market/internal/models"
)

func (r *GormRepo) CreateStore(ctx context.Context, s *models.Store) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *GormRepo) StoreByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var s models.Store
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) ProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) ProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	return productsByIDs(r.DB.WithContext(ctx), ids)
}

func (r *GormRepo) UpdateProductPrice(ctx context.Context, id uuid.UUID, price int64) (*models.Product, error) {
	var p models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate).Where("id = ?", id).First(&p).Error; err != nil {
			return err
		}
		if err := tx.Model(&p).Update("price", price).Error; err != nil {
			return err
		}
		p.Price = price
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ProductOwner resolves the user owning the store that lists the product.
func (r *GormRepo) ProductOwner(ctx context.Context, productID uuid.UUID) (uuid.UUID, error) {
	var s models.Store
	err := r.DB.WithContext(ctx).
		Joins("JOIN products ON products.store_id = stores.id").
		Where("products.id = ?", productID).
		First(&s).Error
	if err != nil {
		return uuid.Nil, err
	}
	return s.OwnerID, nil
}

// PriceLines fills UnitPrice and Name from the current product rows.
func (r *GormRepo) PriceLines(ctx context.Context, lines []domain.PricedLine) error {
	return priceLines(r.DB.WithContext(ctx), lines)
}

func productsByIDs(db *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	out := make(map[uuid.UUID]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var products []models.Product
	if err := db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func priceLines(db *gorm.DB, lines []domain.PricedLine) error {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	products, err := productsByIDs(db, ids)
	if err != nil {
		return err
	}
	for i := range lines {
		p, ok := products[lines[i].ProductID]
		if !ok {
			return ErrProductNotFound
		}
		lines[i].UnitPrice = p.Price
		lines[i].Name = p.Name
	}
	return nil
}

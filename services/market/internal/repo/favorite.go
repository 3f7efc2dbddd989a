package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"

	"github.com/Skotchmaster/market/services/market/internal/models"
)

func getOrCreateFavorite(db *gorm.DB, userID uuid.UUID) (*models.Favorite, error) {
	fresh := models.Favorite{UserID: userID}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&fresh).Error
	if err != nil {
		return nil, err
	}

	var fav models.Favorite
	if err := db.Clauses(dbresolver.Write).Where("user_id = ?", userID).First(&fav).Error; err != nil {
		return nil, err
	}
	return &fav, nil
}

func (r *GormRepo) AddFavorite(ctx context.Context, userID, productID uuid.UUID) (*models.FavoriteProduct, error) {
	var fp models.FavoriteProduct
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fav, err := getOrCreateFavorite(tx, userID)
		if err != nil {
			return err
		}
		fp = models.FavoriteProduct{FavoriteID: fav.ID, ProductID: productID}
		if err := tx.Create(&fp).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrFavoriteExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &fp, nil
}

func (r *GormRepo) RemoveFavorite(ctx context.Context, userID, productID uuid.UUID) error {
	res := r.DB.WithContext(ctx).
		Where("product_id = ? AND favorite_id IN (?)", productID,
			r.DB.Model(&models.Favorite{}).Select("id").Where("user_id = ?", userID)).
		Delete(&models.FavoriteProduct{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := r.primary(ctx).
		Joins("JOIN favorite_products ON favorite_products.product_id = products.id").
		Joins("JOIN favorites ON favorites.id = favorite_products.favorite_id").
		Where("favorites.user_id = ?", userID).
		Order("favorite_products.created_at ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

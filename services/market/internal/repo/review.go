package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/market/services/market/internal/models"
)

func (r *GormRepo) CreateReview(ctx context.Context, rv *models.Review) error {
	return r.DB.WithContext(ctx).Create(rv).Error
}

func (r *GormRepo) ReviewByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var rv models.Review
	if err := r.primary(ctx).Where("id = ?", id).First(&rv).Error; err != nil {
		return nil, err
	}
	return &rv, nil
}

// ReviewChanges lists the fields UpdateReview writes. Nil fields are left
// alone, ClearRating sets the rating back to null.
type ReviewChanges struct {
	Rating      *int
	ClearRating bool
	Comment     *string
}

func (r *GormRepo) UpdateReview(ctx context.Context, id uuid.UUID, ch ReviewChanges) (*models.Review, error) {
	var rv models.Review
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate).Where("id = ?", id).First(&rv).Error; err != nil {
			return err
		}
		changes := map[string]any{}
		switch {
		case ch.ClearRating:
			changes["rating"] = nil
		case ch.Rating != nil:
			changes["rating"] = *ch.Rating
		}
		if ch.Comment != nil {
			changes["comment"] = *ch.Comment
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(&rv).Updates(changes).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&rv).Error
	})
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

// DeleteReviewTree removes the review and every reply below it. Returns the
// deleted ids, the requested review first.
func (r *GormRepo) DeleteReviewTree(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	var deleted []uuid.UUID
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var root models.Review
		if err := tx.Where("id = ?", id).First(&root).Error; err != nil {
			return err
		}

		deleted = []uuid.UUID{root.ID}
		frontier := []uuid.UUID{root.ID}
		for len(frontier) > 0 {
			var next []uuid.UUID
			if err := tx.Model(&models.Review{}).Where("parent_id IN ?", frontier).Pluck("id", &next).Error; err != nil {
				return err
			}
			deleted = append(deleted, next...)
			frontier = next
		}

		return tx.Where("id IN ?", deleted).Delete(&models.Review{}).Error
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// ListReviews returns reviews in creation order, roots and replies alike.
// A nil productID lists every product.
func (r *GormRepo) ListReviews(ctx context.Context, productID *uuid.UUID) ([]models.Review, error) {
	db := r.DB.WithContext(ctx).Order("created_at ASC")
	if productID != nil {
		db = db.Where("product_id = ?", *productID)
	}
	var out []models.Review
	if err := db.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Ratings lists the non-null ratings on the product, replies included.
func (r *GormRepo) Ratings(ctx context.Context, productID uuid.UUID) ([]int, error) {
	var out []int
	err := r.DB.WithContext(ctx).Model(&models.Review{}).
		Where("product_id = ? AND rating IS NOT NULL", productID).
		Pluck("rating", &out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

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

type ReviewService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

type NewReview struct {
	ProductID uuid.UUID
	ParentID  *uuid.UUID
	Rating    *int
	Comment   string
}

type ReviewPatch struct {
	Rating *int
	// ClearRating resets the rating to null. It cannot be combined with Rating.
	ClearRating bool
	Comment     *string
}

func checkRating(r *int) error {
	if r != nil && !domain.ValidRating(*r) {
		return fmt.Errorf("rating must be between %d and %d: %w", domain.MinRating, domain.MaxRating, ErrValidation)
	}
	return nil
}

// CreateReview adds a root review or, with ParentID, a reply. Only the owner
// of the store selling the parent's product may reply, at any depth. A reply
// takes the parent's product.
func (s *ReviewService) CreateReview(ctx context.Context, userID uuid.UUID, in NewReview) (rv *models.Review, err error) {
	ctx, span := tracer.Start(ctx, "review.create", trace.WithAttributes(
		attribute.String("user_id", userID.String()),
		attribute.Bool("reply", in.ParentID != nil),
	))
	defer func() { endSpan(span, err) }()

	if err := checkRating(in.Rating); err != nil {
		return nil, err
	}

	productID := in.ProductID
	if in.ParentID != nil {
		parent, err := s.Repo.ReviewByID(ctx, *in.ParentID)
		if err != nil {
			return nil, notFound(err, "parent review")
		}
		if productID != uuid.Nil && productID != parent.ProductID {
			return nil, fmt.Errorf("reply must target the parent's product: %w", ErrValidation)
		}
		productID = parent.ProductID

		owner, err := s.Repo.ProductOwner(ctx, productID)
		if err != nil {
			return nil, notFound(err, "product")
		}
		if owner != userID {
			return nil, fmt.Errorf("only the store owner can reply: %w", ErrForbidden)
		}
	} else {
		if productID == uuid.Nil {
			return nil, fmt.Errorf("product_id is required: %w", ErrValidation)
		}
		if _, err := s.Repo.ProductByID(ctx, productID); err != nil {
			return nil, notFound(err, "product")
		}
	}

	rv = &models.Review{
		UserID:    userID,
		ProductID: productID,
		ParentID:  in.ParentID,
		Rating:    in.Rating,
		Comment:   in.Comment,
	}
	if err := s.Repo.CreateReview(ctx, rv); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicReview, productID.String(), events.New("review_created", map[string]any{
		"review_id":  rv.ID,
		"product_id": productID,
		"user_id":    userID,
		"parent_id":  in.ParentID,
	}))
	return rv, nil
}

func (s *ReviewService) authored(ctx context.Context, userID, reviewID uuid.UUID) error {
	rv, err := s.Repo.ReviewByID(ctx, reviewID)
	if err != nil {
		return notFound(err, "review")
	}
	if rv.UserID != userID {
		return fmt.Errorf("review belongs to another user: %w", ErrForbidden)
	}
	return nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, patch ReviewPatch) (*models.Review, error) {
	if patch.ClearRating && patch.Rating != nil {
		return nil, fmt.Errorf("rating and clear_rating are exclusive: %w", ErrValidation)
	}
	if err := checkRating(patch.Rating); err != nil {
		return nil, err
	}
	if err := s.authored(ctx, userID, reviewID); err != nil {
		return nil, err
	}
	rv, err := s.Repo.UpdateReview(ctx, reviewID, repo.ReviewChanges{
		Rating:      patch.Rating,
		ClearRating: patch.ClearRating,
		Comment:     patch.Comment,
	})
	if err != nil {
		return nil, notFound(err, "review")
	}
	return rv, nil
}

// DeleteReview removes the review and its replies.
func (s *ReviewService) DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error {
	if err := s.authored(ctx, userID, reviewID); err != nil {
		return err
	}
	deleted, err := s.Repo.DeleteReviewTree(ctx, reviewID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("review not found: %w", ErrNotFound)
	}
	if err != nil {
		return err
	}

	publish(ctx, s.Events, events.TopicReview, reviewID.String(), events.New("review_deleted", map[string]any{
		"review_id": reviewID,
		"deleted":   deleted,
	}))
	return nil
}

// ListReviews returns root reviews with replies nested under them. A nil
// productID lists roots of every product.
func (s *ReviewService) ListReviews(ctx context.Context, productID *uuid.UUID) ([]models.Review, error) {
	flat, err := s.Repo.ListReviews(ctx, productID)
	if err != nil {
		return nil, err
	}
	return buildThreads(flat), nil
}

func buildThreads(flat []models.Review) []models.Review {
	children := make(map[uuid.UUID][]models.Review)
	var roots []models.Review
	for _, rv := range flat {
		if rv.ParentID == nil {
			roots = append(roots, rv)
			continue
		}
		children[*rv.ParentID] = append(children[*rv.ParentID], rv)
	}

	var attach func(rv models.Review) models.Review
	attach = func(rv models.Review) models.Review {
		kids := children[rv.ID]
		rv.Replies = make([]models.Review, 0, len(kids))
		for _, k := range kids {
			rv.Replies = append(rv.Replies, attach(k))
		}
		return rv
	}

	out := make([]models.Review, 0, len(roots))
	for _, r := range roots {
		out = append(out, attach(r))
	}
	return out
}

// AverageRating is the mean of every non-null rating on the product, replies
// included, rounded to one decimal. No ratings gives 0.
func (s *ReviewService) AverageRating(ctx context.Context, productID uuid.UUID) (float64, error) {
	if _, err := s.Repo.ProductByID(ctx, productID); err != nil {
		return 0, notFound(err, "product")
	}
	ratings, err := s.Repo.Ratings(ctx, productID)
	if err != nil {
		return 0, err
	}
	return domain.AverageRating(ratings), nil
}

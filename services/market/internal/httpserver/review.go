package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/market/pkg/logging"
	"github.com/Skotchmaster/market/services/market/internal/service"
	"github.com/Skotchmaster/market/services/market/internal/transport"
)

type ReviewHTTP struct {
	Svc *service.ReviewService
}

func (h *ReviewHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.list")

	var productID *uuid.UUID
	if raw := c.QueryParam("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(l, "list_reviews_error", err)
		}
		productID = &id
	}

	reviews, err := h.Svc.ListReviews(ctx, productID)
	if err != nil {
		return fail(l, "list_reviews_error", err)
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.create")

	id, err := caller(c, l, "create_review_error")
	if err != nil {
		return err
	}
	var req transport.CreateReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(l, "create_review_error", err)
	}

	rv, err := h.Svc.CreateReview(ctx, id.UserID, service.NewReview{
		ProductID: req.ProductID,
		ParentID:  req.ParentID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		return fail(l, "create_review_error", err)
	}

	l.Info("review_created", "review_id", rv.ID, "reply", rv.ParentID != nil)
	return c.JSON(http.StatusCreated, rv)
}

func (h *ReviewHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.update")

	id, err := caller(c, l, "update_review_error")
	if err != nil {
		return err
	}
	reviewID, err := pathID(c, l, "update_review_error", "id")
	if err != nil {
		return err
	}
	var req transport.UpdateReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(l, "update_review_error", err)
	}

	rv, err := h.Svc.UpdateReview(ctx, id.UserID, reviewID, service.ReviewPatch{
		Rating:      req.Rating,
		ClearRating: req.ClearRating,
		Comment:     req.Comment,
	})
	if err != nil {
		return fail(l, "update_review_error", err)
	}
	return c.JSON(http.StatusOK, rv)
}

func (h *ReviewHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.delete")

	id, err := caller(c, l, "delete_review_error")
	if err != nil {
		return err
	}
	reviewID, err := pathID(c, l, "delete_review_error", "id")
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteReview(ctx, id.UserID, reviewID); err != nil {
		return fail(l, "delete_review_error", err)
	}

	l.Info("review_deleted", "review_id", reviewID)
	return c.NoContent(http.StatusNoContent)
}

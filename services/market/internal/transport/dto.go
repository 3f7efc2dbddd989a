package transport

import (
	"github.com/google/uuid"

	"github.com/Skotchmaster/market/services/market/internal/models"
	"github.com/Skotchmaster/market/services/market/internal/util"
)

type CreateStoreRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type CreateProductRequest struct {
	Name     string `json:"name"     validate:"required,max=200"`
	Price    int64  `json:"price"    validate:"gte=0,max=1000000000000"`
	Quantity int64  `json:"quantity" validate:"gte=0"`
}

type UpdatePriceRequest struct {
	Price *int64 `json:"price" validate:"required,gte=0,max=1000000000000"`
}

// AddCartItemRequest defaults Quantity to 1 when it is omitted.
type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  *int64    `json:"quantity"   validate:"omitempty,max=1000000"`
}

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int64     `json:"quantity"   validate:"gt=0,max=1000000"`
}

type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type DeliveryStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=processing in_transit delivered"`
}

type PaymentRequest struct {
	IsPaid *bool `json:"is_paid" validate:"required"`
}

type GenerateReceiptRequest struct {
	StoreID      uuid.UUID `json:"store_id"      validate:"required"`
	DeliveryCost int64     `json:"delivery_cost" validate:"gte=0"`
}

type CreateReviewRequest struct {
	ProductID uuid.UUID  `json:"product_id"`
	ParentID  *uuid.UUID `json:"parent_id"`
	Rating    *int       `json:"rating"     validate:"omitempty,min=1,max=5"`
	Comment   string     `json:"comment"    validate:"max=2000"`
}

type UpdateReviewRequest struct {
	Rating      *int    `json:"rating"       validate:"omitempty,min=1,max=5"`
	ClearRating bool    `json:"clear_rating" validate:"excluded_with=Rating"`
	Comment     *string `json:"comment"      validate:"omitempty,max=2000"`
}

type AddFavoriteRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type OrdersPage struct {
	Data []models.Order `json:"data"`
	Meta util.Meta      `json:"meta"`
}

type RatingResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Average   float64   `json:"average"`
}

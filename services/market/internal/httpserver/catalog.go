package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/market/pkg/logging"
	"github.com/Skotchmaster/market/services/market/internal/service"
	"github.com/Skotchmaster/market/services/market/internal/transport"
)

type CatalogHTTP struct {
	Svc     *service.CatalogService
	Reviews *service.ReviewService
}

func (h *CatalogHTTP) CreateStore(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_store")

	id, err := caller(c, l, "create_store_error")
	if err != nil {
		return err
	}
	var req transport.CreateStoreRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(l, "create_store_error", err)
	}

	store, err := h.Svc.CreateStore(ctx, id, req.Name)
	if err != nil {
		return fail(l, "create_store_error", err)
	}

	l.Info("store_created", "store_id", store.ID)
	return c.JSON(http.StatusCreated, store)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_product")

	id, err := caller(c, l, "create_product_error")
	if err != nil {
		return err
	}
	storeID, err := pathID(c, l, "create_product_error", "id")
	if err != nil {
		return err
	}
	var req transport.CreateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(l, "create_product_error", err)
	}

	p, err := h.Svc.CreateProduct(ctx, id.UserID, service.NewProduct{
		StoreID:  storeID,
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		return fail(l, "create_product_error", err)
	}

	l.Info("product_created", "product_id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_product")

	productID, err := pathID(c, l, "get_product_error", "id")
	if err != nil {
		return err
	}
	p, err := h.Svc.GetProduct(ctx, productID)
	if err != nil {
		return fail(l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) UpdatePrice(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.update_price")

	id, err := caller(c, l, "update_price_error")
	if err != nil {
		return err
	}
	productID, err := pathID(c, l, "update_price_error", "id")
	if err != nil {
		return err
	}
	var req transport.UpdatePriceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(l, "update_price_error", err)
	}

	p, err := h.Svc.UpdateProductPrice(ctx, id.UserID, productID, *req.Price)
	if err != nil {
		return fail(l, "update_price_error", err)
	}

	l.Info("product_price_updated", "product_id", p.ID, "price", p.Price)
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) Rating(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.rating")

	productID, err := pathID(c, l, "product_rating_error", "id")
	if err != nil {
		return err
	}
	avg, err := h.Reviews.AverageRating(ctx, productID)
	if err != nil {
		return fail(l, "product_rating_error", err)
	}
	return c.JSON(http.StatusOK, transport.RatingResponse{ProductID: productID, Average: avg})
}

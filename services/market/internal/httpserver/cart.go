package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/market/pkg/logging"
	"github.com/Skotchmaster/market/services/market/internal/service"
	"github.com/Skotchmaster/market/services/market/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	id, err := caller(c, l, "get_cart_error")
	if err != nil {
		return err
	}
	view, err := h.Svc.ViewCart(ctx, id.UserID)
	if err != nil {
		return fail(l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	id, err := caller(c, l, "add_cart_item_error")
	if err != nil {
		return err
	}
	var req transport.AddCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(l, "add_cart_item_error", err)
	}
	qty := int64(1)
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	item, err := h.Svc.AddItem(ctx, id.UserID, req.ProductID, qty)
	if err != nil {
		return fail(l, "add_cart_item_error", err)
	}

	l.Info("cart_item_added", "product_id", item.ProductID, "quantity", item.Quantity)
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	id, err := caller(c, l, "remove_cart_item_error")
	if err != nil {
		return err
	}
	productID, err := pathID(c, l, "remove_cart_item_error", "product_id")
	if err != nil {
		return err
	}

	if err := h.Svc.RemoveItem(ctx, id.UserID, productID); err != nil {
		return fail(l, "remove_cart_item_error", err)
	}

	l.Info("cart_item_removed", "product_id", productID)
	return c.NoContent(http.StatusNoContent)
}

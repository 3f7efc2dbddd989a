package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/market/pkg/logging"
	"github.com/Skotchmaster/market/services/market/internal/service"
	"github.com/Skotchmaster/market/services/market/internal/transport"
)

type FavoriteHTTP struct {
	Svc *service.FavoriteService
}

func (h *FavoriteHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "favorite.list")

	id, err := caller(c, l, "list_favorites_error")
	if err != nil {
		return err
	}
	products, err := h.Svc.List(ctx, id.UserID)
	if err != nil {
		return fail(l, "list_favorites_error", err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *FavoriteHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "favorite.add")

	id, err := caller(c, l, "add_favorite_error")
	if err != nil {
		return err
	}
	var req transport.AddFavoriteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(l, "add_favorite_error", err)
	}

	fp, err := h.Svc.Add(ctx, id.UserID, req.ProductID)
	if err != nil {
		return fail(l, "add_favorite_error", err)
	}
	return c.JSON(http.StatusCreated, fp)
}

func (h *FavoriteHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "favorite.remove")

	id, err := caller(c, l, "remove_favorite_error")
	if err != nil {
		return err
	}
	productID, err := pathID(c, l, "remove_favorite_error", "product_id")
	if err != nil {
		return err
	}

	if err := h.Svc.Remove(ctx, id.UserID, productID); err != nil {
		return fail(l, "remove_favorite_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/market/pkg/logging"
	"github.com/Skotchmaster/market/services/market/internal/service"
	"github.com/Skotchmaster/market/services/market/internal/transport"
	"github.com/Skotchmaster/market/services/market/internal/util"
)

type OrderHTTP struct {
	Svc      *service.OrderService
	Receipts *service.ReceiptService
}

func (h *OrderHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	id, err := caller(c, l, "list_orders_error")
	if err != nil {
		return err
	}
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, total, err := h.Svc.ListOrders(ctx, id.UserID, offset, limit)
	if err != nil {
		return fail(l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, transport.OrdersPage{
		Data: orders,
		Meta: util.NewMeta(page, offset, limit, total),
	})
}

func (h *OrderHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	id, err := caller(c, l, "get_order_error")
	if err != nil {
		return err
	}
	orderID, err := pathID(c, l, "get_order_error", "id")
	if err != nil {
		return err
	}

	detail, err := h.Svc.GetOrder(ctx, id.UserID, orderID)
	if err != nil {
		return fail(l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *OrderHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	id, err := caller(c, l, "create_order_error")
	if err != nil {
		return err
	}
	var req transport.CreateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(l, "create_order_error", err)
	}
	lines := make([]service.OrderLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, service.OrderLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order, err := h.Svc.CreateOrderDirect(ctx, id.UserID, lines)
	if err != nil {
		return fail(l, "create_order_error", err)
	}

	l.Info("order_created", "order_id", order.ID, "source", "direct")
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	id, err := caller(c, l, "checkout_error")
	if err != nil {
		return err
	}

	order, err := h.Svc.CreateOrderFromCart(ctx, id.UserID)
	if err != nil {
		return fail(l, "checkout_error", err)
	}

	l.Info("order_created", "order_id", order.ID, "source", "cart")
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) UpdateDelivery(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_delivery")

	orderID, err := pathID(c, l, "update_delivery_error", "id")
	if err != nil {
		return err
	}
	var req transport.DeliveryStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(l, "update_delivery_error", err)
	}

	order, err := h.Svc.UpdateDeliveryStatus(ctx, orderID, req.Status)
	if err != nil {
		return fail(l, "update_delivery_error", err)
	}

	l.Info("order_delivery_updated", "order_id", order.ID, "status", order.DeliveryStatus)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) UpdatePayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_payment")

	orderID, err := pathID(c, l, "update_payment_error", "id")
	if err != nil {
		return err
	}
	var req transport.PaymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(l, "update_payment_error", err)
	}

	order, err := h.Svc.MarkPaid(ctx, orderID, *req.IsPaid)
	if err != nil {
		return fail(l, "update_payment_error", err)
	}

	l.Info("order_payment_updated", "order_id", order.ID, "is_paid", order.IsPaid)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) GenerateReceipt(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.generate_receipt")

	orderID, err := pathID(c, l, "generate_receipt_error", "id")
	if err != nil {
		return err
	}
	var req transport.GenerateReceiptRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(l, "generate_receipt_error", err)
	}

	rec, err := h.Receipts.GenerateReceipt(ctx, orderID, req.StoreID, req.DeliveryCost)
	if err != nil {
		return fail(l, "generate_receipt_error", err)
	}

	l.Info("receipt_generated", "order_id", orderID, "total_sum", rec.TotalSum)
	return c.JSON(http.StatusCreated, rec)
}

func (h *OrderHTTP) GetReceipt(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_receipt")

	id, err := caller(c, l, "get_receipt_error")
	if err != nil {
		return err
	}
	orderID, err := pathID(c, l, "get_receipt_error", "id")
	if err != nil {
		return err
	}

	rec, err := h.Receipts.GetReceipt(ctx, id.UserID, orderID)
	if err != nil {
		return fail(l, "get_receipt_error", err)
	}
	return c.JSON(http.StatusOK, rec)
}

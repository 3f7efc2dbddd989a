package httpserver

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Skotchmaster/market/pkg/identity"
	authmw "github.com/Skotchmaster/market/pkg/middleware/auth"
)

type Deps struct {
	Catalog   *CatalogHTTP
	Cart      *CartHTTP
	Orders    *OrderHTTP
	Reviews   *ReviewHTTP
	Favorites *FavoriteHTTP
	Health    *HealthHTTP

	Auth     *authmw.Middleware
	Gatherer prometheus.Gatherer
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", d.Health.Live)
	e.GET("/health/ready", d.Health.Ready)
	if d.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	auth := d.Auth.RequireAuth
	sellers := d.Auth.RequireRole(identity.RoleSeller, identity.RoleAdmin)
	admin := d.Auth.RequireRole(identity.RoleAdmin)

	api := e.Group("/api/v1")

	api.GET("/products/:id", d.Catalog.GetProduct)
	api.GET("/products/:id/rating", d.Catalog.Rating)
	api.PATCH("/products/:id/price", d.Catalog.UpdatePrice, auth)
	api.POST("/stores", d.Catalog.CreateStore, sellers)
	api.POST("/stores/:id/products", d.Catalog.CreateProduct, auth)

	cart := api.Group("/cart", auth)
	cart.GET("", d.Cart.GetCart)
	cart.POST("/items", d.Cart.AddItem)
	cart.DELETE("/items/:product_id", d.Cart.RemoveItem)

	api.GET("/orders", d.Orders.List, auth)
	api.POST("/orders", d.Orders.Create, auth)
	api.POST("/orders/from-cart", d.Orders.Checkout, auth)
	api.GET("/orders/:id", d.Orders.Get, auth)
	api.GET("/orders/:id/receipt", d.Orders.GetReceipt, auth)
	api.POST("/orders/:id/receipt", d.Orders.GenerateReceipt, admin)
	api.PATCH("/orders/:id/delivery", d.Orders.UpdateDelivery, admin)
	api.PATCH("/orders/:id/payment", d.Orders.UpdatePayment, admin)

	api.GET("/reviews", d.Reviews.List)
	api.POST("/reviews", d.Reviews.Create, auth)
	api.PATCH("/reviews/:id", d.Reviews.Update, auth)
	api.DELETE("/reviews/:id", d.Reviews.Delete, auth)

	favs := api.Group("/favorites", auth)
	favs.GET("", d.Favorites.List)
	favs.POST("", d.Favorites.Add)
	favs.DELETE("/:product_id", d.Favorites.Remove)
}

package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ServiceCenter-api/internal/application/inventory"
	"github.com/jhoicas/ServiceCenter-api/internal/application/orders"
	"github.com/jhoicas/ServiceCenter-api/internal/application/pricing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PurchaseOrderUC *orders.PurchaseOrderUseCase
	SalesOrderUC    *orders.SalesOrderUseCase
	ReturnPDFUC     *orders.SalesReturnPDFUseCase
	StockUC         *inventory.StockUseCase
	Resolver        *pricing.Resolver
	Now             func() time.Time
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	purchaseHandler := NewPurchaseOrderHandler(deps.PurchaseOrderUC)
	purchases := api.Group("/purchase-orders")
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Post("/:id/submit", purchaseHandler.Submit)
	purchases.Post("/:id/receive", purchaseHandler.Receive)

	salesHandler := NewSalesOrderHandler(deps.SalesOrderUC, deps.ReturnPDFUC)
	sales := api.Group("/sales-orders")
	sales.Post("/", salesHandler.Create)
	sales.Get("/:id", salesHandler.GetByID)
	sales.Post("/:id/confirm", salesHandler.Confirm)
	sales.Post("/:id/fulfill", salesHandler.Fulfill)
	sales.Post("/:id/returns", salesHandler.CreateReturn)
	api.Get("/sales-returns/:id/pdf", salesHandler.ReturnPDF)

	inventoryHandler := NewInventoryHandler(deps.StockUC)
	inv := api.Group("/inventory")
	inv.Get("/summary", inventoryHandler.Summary)
	inv.Post("/adjustments", inventoryHandler.Adjust)

	pricingHandler := NewPricingHandler(deps.Resolver, deps.Now)
	pr := api.Group("/pricing")
	pr.Get("/active-book", pricingHandler.ActiveBook)
	pr.Get("/products/:id/price", pricingHandler.ProductPrice)
	pr.Get("/services/:id/price", pricingHandler.ServicePrice)
	pr.Post("/booking-total", pricingHandler.BookingTotal)
}
